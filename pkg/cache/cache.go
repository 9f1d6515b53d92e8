// Package cache provides storage backends for probe results.
//
// Probing a real browser for element geometry is expensive (a headless
// Chrome round-trip); the inspect command and the demo server cache probe
// results under short TTLs. Three backends exist:
//   - null: caching disabled (--no-cache)
//   - file: XDG cache directory, for CLI usage
//   - redis: shared cache for multi-instance server deployments
//
// Keys are opaque strings; use [ProbeKey] to build collision-free keys from
// the probed page and element identifier.
package cache

import (
	"context"
	"errors"
	"time"
)

// ErrCacheMiss is returned by backends that cannot express a miss through
// their transport without an error (redis).
var ErrCacheMiss = errors.New("cache miss")

// Cache is the interface all backends implement. A miss is reported through
// the bool, not an error.
type Cache interface {
	// Get retrieves a value. The bool reports whether the key was found.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A zero ttl means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// ProbeKey builds the cache key for a probe result.
// The key format is: probe:hash(url, elementID).
func ProbeKey(url, elementID string) string {
	return hashKey("probe", url, elementID)
}

// PlaceKey builds the cache key for a computed placement.
// The key format is: place:hash(variant, request).
func PlaceKey(variant string, request []byte) string {
	return hashKey("place", variant, string(request))
}
