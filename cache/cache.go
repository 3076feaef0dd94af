// Package cache provides the content-addressed result cache: a byte-level
// Store with pluggable backends and a typed wrapper over scan results. All
// backend failures degrade to absent/no-op; the pipeline never fails because
// the cache did.
package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/SamuelRCrider/dataguard-go/core"
	"go.uber.org/zap"
)

// DefaultTTL is how long a scan result stays valid in the cache.
const DefaultTTL = 24 * time.Hour

// keyPrefix namespaces scan entries in shared backends.
const keyPrefix = "scan:"

// Store is the key-value capability the pipeline consumes: get and
// set-with-ttl over byte strings. Implementations are responsible for their
// own synchronization; callers treat Get/Set as atomic.
type Store interface {
	// Get returns the value for key, or nil when absent or expired.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value under key for at most ttl.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// ResultCache maps fingerprints to scan results over a Store. Lookup and
// store failures are logged and swallowed: an unreachable backend turns every
// lookup into a miss and every store into a no-op.
type ResultCache struct {
	store  Store
	ttl    time.Duration
	logger *zap.Logger
}

// NewResultCache wraps a Store. A nil store disables caching entirely.
func NewResultCache(store Store, ttl time.Duration, logger *zap.Logger) *ResultCache {
	if store == nil {
		store = NewNoop()
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ResultCache{store: store, ttl: ttl, logger: logger}
}

// Get returns the cached result for a fingerprint, or nil on a miss. The
// returned value is a fresh copy; callers may annotate it without touching
// the stored entry.
func (c *ResultCache) Get(ctx context.Context, fingerprint string) *core.ScanResult {
	data, err := c.store.Get(ctx, keyPrefix+fingerprint)
	if err != nil {
		c.logger.Warn("cache lookup failed, treating as miss",
			zap.String("fingerprint", core.DisplayMask(fingerprint)),
			zap.Error(err))
		return nil
	}
	if data == nil {
		return nil
	}

	var result core.ScanResult
	if err := json.Unmarshal(data, &result); err != nil {
		c.logger.Warn("cache entry undecodable, treating as miss", zap.Error(err))
		return nil
	}
	return &result
}

// Put stores a result under its fingerprint. Failures are silent no-ops.
func (c *ResultCache) Put(ctx context.Context, result *core.ScanResult) {
	data, err := json.Marshal(result)
	if err != nil {
		c.logger.Warn("cache encode failed, skipping store", zap.Error(err))
		return
	}
	if err := c.store.Set(ctx, keyPrefix+result.Fingerprint, data, c.ttl); err != nil {
		c.logger.Warn("cache store failed, continuing without memoization",
			zap.Error(err))
	}
}
