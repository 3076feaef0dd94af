package cache

import (
	"context"
	"time"
)

// Noop is a Store that never hits and never stores, for deployments that
// disable caching outright.
type Noop struct{}

// NewNoop returns the no-op store.
func NewNoop() *Noop {
	return &Noop{}
}

// Get always misses.
func (*Noop) Get(_ context.Context, _ string) ([]byte, error) {
	return nil, nil
}

// Set discards the value.
func (*Noop) Set(_ context.Context, _ string, _ []byte, _ time.Duration) error {
	return nil
}

var _ Store = (*Noop)(nil)
