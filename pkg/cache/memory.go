package cache

import (
	"context"
	"time"

	"github.com/dgraph-io/ristretto"
)

// DefaultMemoryBytes bounds a MemoryCache created with a non-positive size.
const DefaultMemoryBytes = 64 << 20

// MemoryCache is an in-process cache backed by ristretto. Entries cost their
// byte length, so maxBytes bounds the total payload held.
type MemoryCache struct {
	c *ristretto.Cache
}

// NewMemoryCache creates an in-memory cache holding up to maxBytes of data.
func NewMemoryCache(maxBytes int64) (*MemoryCache, error) {
	if maxBytes <= 0 {
		maxBytes = DefaultMemoryBytes
	}
	c, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 1e5,
		MaxCost:     maxBytes,
		BufferItems: 64,
		Metrics:     true,
	})
	if err != nil {
		return nil, err
	}
	return &MemoryCache{c: c}, nil
}

// Get retrieves a value from the cache.
func (m *MemoryCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	v, ok := m.c.Get(key)
	if !ok {
		return nil, false, nil
	}
	data, ok := v.([]byte)
	return data, ok, nil
}

// Set stores a value. Ristretto applies writes asynchronously; Set waits for
// the write buffer to drain so a following Get observes the entry.
func (m *MemoryCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	if ttl < 0 {
		ttl = 0
	}
	m.c.SetWithTTL(key, data, int64(len(data))+1, ttl)
	m.c.Wait()
	return nil
}

// Delete removes a value from the cache.
func (m *MemoryCache) Delete(ctx context.Context, key string) error {
	m.c.Del(key)
	return nil
}

// Clear drops every entry.
func (m *MemoryCache) Clear(ctx context.Context) error {
	m.c.Clear()
	return nil
}

// HitRatio returns the fraction of lookups served from the cache.
func (m *MemoryCache) HitRatio() float64 {
	return m.c.Metrics.Ratio()
}

// Close stops ristretto's background goroutines.
func (m *MemoryCache) Close() error {
	m.c.Close()
	return nil
}

var (
	_ Cache   = (*MemoryCache)(nil)
	_ Clearer = (*MemoryCache)(nil)
)
