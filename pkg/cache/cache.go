// Package cache stores fetched API payloads between runs.
//
// Three backends implement [Cache]:
//   - [FileCache]: one JSON envelope per key under the XDG cache directory
//   - [RedisCache]: shared cache for `folio serve` deployments
//   - [NullCache]: caching disabled (--no-cache, tests)
//
// Payloads are opaque bytes. Callers decide the encoding (the integrations
// client stores raw JSON response bodies).
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with per-entry TTL.
type Cache interface {
	// Get returns the payload for key. A miss (absent or expired) is
	// reported as hit=false with a nil error.
	Get(ctx context.Context, key string) (data []byte, hit bool, err error)

	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}
