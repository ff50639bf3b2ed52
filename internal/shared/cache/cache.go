// Package cache defines the read-through cache port used by lookup-heavy services.
// Implementations are best-effort accelerators: a miss or eviction must never change
// observable behavior, only latency.
package cache

import (
	"context"
	"time"
)

// Loader produces the authoritative value for a key on cache miss.
type Loader func(ctx context.Context) (any, error)

// Cache is a cache-aside helper with explicit TTLs and explicit invalidation.
type Cache interface {
	// GetOrSet returns the cached value when present and unexpired; otherwise it
	// invokes load, stores the result under key for ttl, and returns it.
	GetOrSet(ctx context.Context, key string, ttl time.Duration, load Loader) (any, error)
	// DelMany removes the given keys. Unknown keys are ignored.
	DelMany(ctx context.Context, keys ...string) error
}

// Noop is a safe default when callers do not need caching.
var Noop Cache = noopCache{}

type noopCache struct{}

func (noopCache) GetOrSet(ctx context.Context, _ string, _ time.Duration, load Loader) (any, error) {
	return load(ctx)
}

func (noopCache) DelMany(_ context.Context, _ ...string) error { return nil }
