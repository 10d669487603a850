package engine

import (
	"time"

	"github.com/dgraph-io/ristretto/v2"
)

// Cache is a typed in-memory TTL cache around ristretto. Decoded playlist
// and video records are small; the cost of every entry is fixed at 1 so
// MaxEntries bounds the cache by count, not bytes.
type Cache[V any] struct {
	c   *ristretto.Cache[string, V]
	ttl time.Duration
}

// NewCache creates a cache holding up to maxEntries values for ttl each.
// A ttl of zero disables expiry.
func NewCache[V any](maxEntries int64, ttl time.Duration) (*Cache[V], error) {
	c, err := ristretto.NewCache(&ristretto.Config[string, V]{
		NumCounters: maxEntries * 10,
		MaxCost:     maxEntries,
		BufferItems: 64,
		// Entries cost exactly 1; ristretto's per-entry overhead would
		// otherwise push every item past MaxCost at small sizes.
		IgnoreInternalCost: true,
	})
	if err != nil {
		return nil, err
	}
	return &Cache[V]{c: c, ttl: ttl}, nil
}

// Get returns the cached value for key, if present and fresh.
func (c *Cache[V]) Get(key string) (V, bool) {
	v, ok := c.c.Get(key)
	if ok {
		IncrCacheHit()
	} else {
		IncrCacheMiss()
	}
	return v, ok
}

// Set stores value under key. Writes are applied asynchronously by
// ristretto; Wait makes the entry visible to immediate readers.
func (c *Cache[V]) Set(key string, value V) {
	c.c.SetWithTTL(key, value, 1, c.ttl)
	c.c.Wait()
}

// Close releases the cache's internal goroutines.
func (c *Cache[V]) Close() {
	c.c.Close()
}
