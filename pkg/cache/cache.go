// Package cache stores ranking results and rendered artifacts between runs.
//
// A [Cache] maps string keys to opaque byte slices with an optional TTL.
// Backends:
//
//   - [FileCache]: one JSON file per entry under a directory, for the CLI
//   - [MemoryCache]: a bounded in-process LRU
//   - [RedisCache]: a shared Redis server, with retries on network errors
//   - [NullCache]: stores nothing, used when caching is disabled
//
// Keys come from a [Keyer]. The ranked tree is keyed by a hash of the
// declaration map, so any change to a script's declarations misses the
// cache while reruns on unchanged scripts hit it.
package cache

import (
	"context"
	"time"
)

// Default TTLs.
const (
	TTLTree     = 7 * 24 * time.Hour
	TTLArtifact = 30 * 24 * time.Hour
)

// Cache is a key-value store for cached results.
type Cache interface {
	// Get returns the value for key and whether it was found.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases resources held by the cache.
	Close() error
}

// Clearer is implemented by caches that can drop every entry at once.
type Clearer interface {
	Clear(ctx context.Context) error
}
