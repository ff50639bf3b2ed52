package memory

import (
	"context"
	"sync"
	"time"

	"github.com/bookhaven/bookstore-api/internal/shared/cache"
)

var _ cache.Cache = (*Cache)(nil)

// Cache is an in-memory cache.Cache implementation with per-entry TTLs.
// Expired entries are dropped lazily on read. A per-key generation counter
// keeps a load that raced a deletion from re-installing the stale value.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]entry
	gens    map[string]uint64
	now     func() time.Time
}

type entry struct {
	value     any
	expiresAt time.Time
}

func NewCache() *Cache {
	return &Cache{entries: map[string]entry{}, gens: map[string]uint64{}, now: time.Now}
}

// WithClock overrides the time source. Intended for tests.
func (c *Cache) WithClock(now func() time.Time) *Cache {
	if now != nil {
		c.now = now
	}
	return c
}

func (c *Cache) GetOrSet(ctx context.Context, key string, ttl time.Duration, load cache.Loader) (any, error) {
	c.mu.RLock()
	e, ok := c.entries[key]
	gen := c.gens[key]
	c.mu.RUnlock()
	if ok && c.now().Before(e.expiresAt) {
		return e.value, nil
	}

	value, err := load(ctx)
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	// A deletion that landed while the loader ran bumped the generation;
	// storing then would pin the stale value for a full TTL.
	if c.gens[key] == gen {
		c.entries[key] = entry{value: value, expiresAt: c.now().Add(ttl)}
	}
	c.mu.Unlock()
	return value, nil
}

func (c *Cache) DelMany(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, key := range keys {
		c.gens[key]++
		delete(c.entries, key)
	}
	return nil
}

// Len reports the number of stored entries, expired or not.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
