package cache

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/matzehuels/chartsmith/pkg/observability"
)

// Backend names accepted by Open.
const (
	BackendFile   = "file"
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
	BackendNone   = "none"
)

// Backends lists the accepted backend names.
var Backends = []string{BackendFile, BackendMemory, BackendRedis, BackendMongo, BackendNone}

// Options selects and configures a backend.
type Options struct {
	Backend string // one of Backends; empty means file
	URL     string // redis:// or mongodb:// URL
	Dir     string // FileCache directory
	Prefix  string // Redis key prefix
	Memory  int64  // MemoryCache byte budget
}

// Open creates the cache described by opts.
func Open(ctx context.Context, opts Options) (Cache, error) {
	switch strings.ToLower(opts.Backend) {
	case "", BackendFile:
		if opts.Dir == "" {
			return nil, fmt.Errorf("file cache: no directory")
		}
		return NewFileCache(opts.Dir)
	case BackendMemory:
		return NewMemoryCache(opts.Memory)
	case BackendRedis:
		if opts.URL == "" {
			return nil, fmt.Errorf("%s: %w", opts.Backend, ErrMissingURL)
		}
		return NewRedisCache(opts.URL, opts.Prefix)
	case BackendMongo:
		if opts.URL == "" {
			return nil, fmt.Errorf("%s: %w", opts.Backend, ErrMissingURL)
		}
		return NewMongoCache(ctx, opts.URL)
	case BackendNone:
		return NewNullCache(), nil
	}
	return nil, fmt.Errorf("%w %q (want one of %s)", ErrUnknownBackend, opts.Backend, strings.Join(Backends, ", "))
}

// Observed wraps c so that lookups and writes report to the registered
// observability cache hooks.
func Observed(c Cache) Cache {
	if _, ok := c.(*observed); ok {
		return c
	}
	return &observed{Cache: c}
}

type observed struct {
	Cache
}

func (o *observed) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, hit, err := o.Cache.Get(ctx, key)
	if err == nil {
		if hit {
			observability.Cache().OnCacheHit(ctx, key)
		} else {
			observability.Cache().OnCacheMiss(ctx, key)
		}
	}
	return data, hit, err
}

func (o *observed) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	err := o.Cache.Set(ctx, key, data, ttl)
	if err == nil {
		observability.Cache().OnCacheSet(ctx, key, len(data))
	}
	return err
}

// Clear forwards to the wrapped cache when it supports clearing.
func (o *observed) Clear(ctx context.Context) error {
	if c, ok := o.Cache.(Clearer); ok {
		return c.Clear(ctx)
	}
	return fmt.Errorf("cache %T cannot be cleared", o.Cache)
}
