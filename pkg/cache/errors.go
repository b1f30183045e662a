package cache

import "errors"

// Sentinel errors for opening caches.
var (
	// ErrUnknownBackend is returned by Open for an unrecognized backend name.
	ErrUnknownBackend = errors.New("unknown cache backend")

	// ErrMissingURL is returned by Open when a networked backend has no URL.
	ErrMissingURL = errors.New("cache backend requires a url")
)
