// Package cache stores layout results between runs.
//
// Graphviz layouts are the slowest step of a fold. [Capability] wraps a
// [layout.Capability] and keys each result by a hash of the request (the
// visible subset, its sizes and positions, algorithm and options), so
// re-running the same fold over the same file skips the layout engine.
//
// The CLI uses a [FileCache] under the XDG cache directory; [NullCache]
// disables caching.
package cache

import (
	"context"
	"time"
)

// DefaultTTL is how long cached layouts stay valid.
const DefaultTTL = 7 * 24 * time.Hour

// Cache is a byte store with expiring entries.
type Cache interface {
	// Get returns the value for key and whether it was found and fresh.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key; deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Clear removes every entry.
	Clear(ctx context.Context) error
	// Close releases resources held by the cache.
	Close() error
}
