// Package cache stores rendered diagram artifacts and other derived bytes.
//
// Three backends implement [Cache]:
//   - [NullCache] never stores anything (caching disabled)
//   - [FileCache] keeps one JSON file per entry under a directory (CLI)
//   - [RedisCache] shares entries between API replicas
//
// Keys come from a [Keyer], which hashes every input that affects the
// cached bytes so that stale entries are never served:
//
//	k := cache.NewDefaultKeyer()
//	key := k.RenderKey(source, cache.RenderKeyOpts{Theme: "dark", Format: "svg"})
//	if data, ok, _ := c.Get(ctx, key); ok {
//	    return data
//	}
package cache

import (
	"context"
	"time"
)

// DefaultTTL is used by callers that do not configure an expiry.
const DefaultTTL = 24 * time.Hour

// Cache is a byte store with per-entry expiry. Implementations are safe for
// concurrent use. A miss is reported as (nil, false, nil), never as an error.
type Cache interface {
	// Get returns the entry for key and whether it was found.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl <= 0 means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources held by the cache.
	Close() error
}
