// Package source loads tabular datasets from files, HTTP endpoints and
// PostgreSQL.
//
// # Overview
//
// A [Loader] turns a URI into a [dataset.Table]. The [Registry] picks the
// loader by URI scheme:
//
//   - no scheme or file://: [File]
//   - http://, https://: [HTTP]
//   - postgres://, postgresql://: [Postgres]
//
// # Async loads
//
// [Fetch] starts a load in its own goroutine and returns a [Pending] handle.
// Each load is its own failure domain: one chart's missing file does not
// affect any other load.
//
//	p := source.Fetch(ctx, loader, "socialMedia.csv")
//	// ... start other loads ...
//	table, err := p.Wait(ctx)
package source

import (
	"context"
	"net/url"
	"strings"
	"sync"

	"github.com/matzehuels/chartsmith/pkg/dataset"
	apperr "github.com/matzehuels/chartsmith/pkg/errors"
)

// Loader loads a dataset identified by a URI.
type Loader interface {
	Load(ctx context.Context, uri string) (*dataset.Table, error)

	// Cacheable reports whether loaded tables may be cached across runs.
	// Local files are cheap to re-read and change under the user's hands,
	// so they report false.
	Cacheable() bool
}

// Registry maps URI schemes to loaders.
type Registry struct {
	mu      sync.RWMutex
	loaders map[string]Loader
}

// NewRegistry returns a registry with the file, HTTP and Postgres loaders
// installed. Relative file paths resolve against dataDir.
func NewRegistry(dataDir string, opts ...HTTPOption) *Registry {
	r := &Registry{loaders: make(map[string]Loader)}
	r.Register("file", NewFile(dataDir))
	h := NewHTTP(opts...)
	r.Register("http", h)
	r.Register("https", h)
	pg := NewPostgres()
	r.Register("postgres", pg)
	r.Register("postgresql", pg)
	return r
}

// Register installs l for scheme, replacing any previous loader.
func (r *Registry) Register(scheme string, l Loader) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.loaders[strings.ToLower(scheme)] = l
}

// Resolve returns the loader for uri.
func (r *Registry) Resolve(uri string) (Loader, error) {
	scheme := Scheme(uri)
	r.mu.RLock()
	defer r.mu.RUnlock()
	l, ok := r.loaders[scheme]
	if !ok {
		return nil, apperr.New(apperr.ErrCodeInvalidSource, "no loader for scheme %q in %q", scheme, uri)
	}
	return l, nil
}

// Load resolves and runs the loader for uri.
func (r *Registry) Load(ctx context.Context, uri string) (*dataset.Table, error) {
	l, err := r.Resolve(uri)
	if err != nil {
		return nil, err
	}
	return l.Load(ctx, uri)
}

// Cacheable reports whether the loader for uri allows caching.
func (r *Registry) Cacheable(uri string) bool {
	l, err := r.Resolve(uri)
	return err == nil && l.Cacheable()
}

// Scheme returns the lower-cased URI scheme, "file" for bare paths.
// Single-letter schemes are treated as Windows drive letters.
func Scheme(uri string) string {
	u, err := url.Parse(uri)
	if err != nil || len(u.Scheme) <= 1 {
		return "file"
	}
	return strings.ToLower(u.Scheme)
}

// Pending is a load running in the background.
type Pending struct {
	uri   string
	done  chan struct{}
	table *dataset.Table
	err   error
}

// Fetch starts loading uri with l and returns immediately.
func Fetch(ctx context.Context, l Loader, uri string) *Pending {
	p := &Pending{uri: uri, done: make(chan struct{})}
	go func() {
		defer close(p.done)
		p.table, p.err = l.Load(ctx, uri)
	}()
	return p
}

// URI returns the URI being loaded.
func (p *Pending) URI() string { return p.uri }

// Done is closed once the load has finished.
func (p *Pending) Done() <-chan struct{} { return p.done }

// Wait blocks until the load finishes or ctx is cancelled.
func (p *Pending) Wait(ctx context.Context) (*dataset.Table, error) {
	select {
	case <-p.done:
		return p.table, p.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
