package cache

// ScopedKeyer prefixes every key of an inner Keyer. Several configurations
// sharing one Redis or Mongo backend use it to stay apart:
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "chartsmith:staging:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// A nil inner keyer means the DefaultKeyer.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// DatasetKey generates a prefixed dataset key.
func (k *ScopedKeyer) DatasetKey(uri string) string {
	return k.prefix + k.inner.DatasetKey(uri)
}

// ArtifactKey generates a prefixed artifact key.
func (k *ScopedKeyer) ArtifactKey(specHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(specHash, opts)
}
