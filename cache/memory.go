package cache

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// defaultMemoryEntries bounds the in-process cache so long-running scanners
// cannot grow without limit.
const defaultMemoryEntries = 4096

// Memory is an in-process Store backed by an expirable LRU. It is the
// default backend when no Redis address is configured, and it is what tests
// use. Per-entry TTLs are approximated by the LRU-wide expiry, so the TTL
// passed to Set is ignored.
type Memory struct {
	lru *expirable.LRU[string, []byte]
}

// NewMemory creates a Memory store. Size <= 0 selects the default capacity;
// ttl <= 0 selects DefaultTTL.
func NewMemory(size int, ttl time.Duration) *Memory {
	if size <= 0 {
		size = defaultMemoryEntries
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Memory{lru: expirable.NewLRU[string, []byte](size, nil, ttl)}
}

// Get returns the value for key, or nil when absent or expired.
func (m *Memory) Get(_ context.Context, key string) ([]byte, error) {
	value, ok := m.lru.Get(key)
	if !ok {
		return nil, nil
	}
	return value, nil
}

// Set stores value under key. The store-wide TTL applies.
func (m *Memory) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	m.lru.Add(key, value)
	return nil
}

var _ Store = (*Memory)(nil)
