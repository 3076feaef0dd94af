package ai

import (
	"context"
	"sync/atomic"
)

// StubClient is a fixed-fixture Client for tests and offline runs. It
// records how many times it was called, which lets cache tests prove the AI
// detector was not invoked on a hit.
type StubClient struct {
	// Response is returned verbatim from Complete when Err is nil.
	Response string

	// Err, when set, makes every Complete fail.
	Err error

	// Unavailable, when set, makes the client report itself unconfigured.
	Unavailable bool

	calls atomic.Int64
}

// Complete returns the fixture response.
func (s *StubClient) Complete(_ context.Context, _ string) (string, error) {
	s.calls.Add(1)
	if s.Err != nil {
		return "", s.Err
	}
	return s.Response, nil
}

// Available reports the configured availability.
func (s *StubClient) Available() bool {
	return !s.Unavailable
}

// Calls returns how many times Complete ran.
func (s *StubClient) Calls() int {
	return int(s.calls.Load())
}

var _ Client = (*StubClient)(nil)
