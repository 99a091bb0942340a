// Package cache provides the caching layer used by the planning
// pipeline: remote packing responses and rendered scenes are stored
// under content-derived keys so that repeated runs with identical input
// skip the network entirely.
//
// Three backends are provided: a file cache for CLI usage, a Redis
// cache for the server, and a null cache that disables caching.
package cache

import (
	"context"
	"errors"
	"time"
)

// ErrCacheMiss is returned by helpers that treat a miss as an error.
// The Cache interface itself reports misses via its boolean return.
var ErrCacheMiss = errors.New("cache miss")

// Cache is a byte-oriented key/value store with per-entry TTL.
type Cache interface {
	// Get retrieves a value. The boolean reports whether the key was
	// present and unexpired; a miss is not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A ttl of 0 means the entry never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}
