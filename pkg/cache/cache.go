// Package cache provides the cache backends used by the chart pipeline.
//
// Two kinds of entries are cached: loaded datasets (keyed by source URI, only
// for remote sources) and rendered artifacts (keyed by the chart spec, the
// dataset fingerprint and the output format). Keys are produced by a [Keyer]
// so that a [ScopedKeyer] can namespace them.
//
// Backends:
//
//   - [FileCache]: JSON envelopes under a directory, for the CLI
//   - [MemoryCache]: ristretto, for the long-running server
//   - [RedisCache] and [MongoCache]: shared caches for several processes
//   - [NullCache]: caching disabled
//
// [Open] builds a backend from configuration values.
package cache

import (
	"context"
	"time"
)

// Cache TTLs.
const (
	TTLDataset  = time.Hour
	TTLArtifact = 24 * time.Hour
)

// Cache is a byte-oriented key/value store with per-entry expiry.
// A ttl of zero stores the entry without expiry.
type Cache interface {
	// Get returns the entry for key. A miss is (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Clearer is implemented by caches that can drop every entry at once.
type Clearer interface {
	Clear(ctx context.Context) error
}

// Keyer generates cache keys.
type Keyer interface {
	// DatasetKey is the key for the table loaded from uri.
	DatasetKey(uri string) string

	// ArtifactKey is the key for one rendered output of a chart.
	// specHash identifies the chart spec, opts the data and format.
	ArtifactKey(specHash string, opts ArtifactKeyOpts) string
}

// ArtifactKeyOpts are the inputs besides the chart spec that change an artifact.
type ArtifactKeyOpts struct {
	DataHash string  `json:"data"`
	Format   string  `json:"format"`
	Scale    float64 `json:"scale,omitempty"`
	Font     string  `json:"font,omitempty"`
}

// DefaultKeyer hashes key components with SHA-256.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// DatasetKey returns "dataset:<sha256(uri)>".
func (DefaultKeyer) DatasetKey(uri string) string {
	return hashKey("dataset", uri)
}

// ArtifactKey returns "artifact:<sha256(specHash, opts)>".
func (DefaultKeyer) ArtifactKey(specHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", specHash, opts)
}
