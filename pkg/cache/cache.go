// Package cache stores intermediate pipeline results between runs.
//
// The pipeline caches normalized geometry, which is the expensive part of
// a render: loading every polygon, unioning them and cutting the lakes
// out. Entries are keyed by the content hashes of the source files plus
// the normalization parameters, so editing a shapefile or changing the
// exclusion band never serves a stale result.
//
// Three backends implement [Cache]:
//   - [FileCache]: one file per entry under a local directory (the CLI default)
//   - [RedisCache]: a shared Redis instance, for render farms
//   - [NullCache]: stores nothing (--no-cache)
//
// Keys are built by a [Keyer]; wrap it in a [ScopedKeyer] to namespace
// keys, for example per data release.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with optional expiry.
type Cache interface {
	// Get returns the stored value and whether it was found. Expired
	// entries are reported as misses.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases the backend's resources.
	Close() error
}

// Clearer is implemented by caches that can drop all of their entries.
type Clearer interface {
	Clear(ctx context.Context) error
}

// TTLGeometry is how long normalized geometry stays cached. Sources are
// keyed by content, so this only bounds disk usage.
const TTLGeometry = 30 * 24 * time.Hour
