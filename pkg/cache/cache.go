// Package cache provides byte-level caching for registry responses.
//
// # Backends
//
//   - [FileCache]: one JSON file per entry under the user cache directory
//   - [RedisCache]: a shared Redis instance, for teams auditing many projects
//   - [NullCache]: stores nothing (used by --no-cache and in tests)
//
// All backends implement [Cache]. Keys are built with a [Keyer] so that
// backends shared between tools or users do not collide.
//
// # Retries
//
// [RetryWithBackoff] retries a fetch up to three times, doubling the delay,
// when the error is wrapped with [Retryable]. Anything else fails at once.
package cache

import (
	"context"
	"time"
)

// Cache stores opaque byte values under string keys.
type Cache interface {
	// Get returns the value for key. hit is false on a miss or an expired entry.
	Get(ctx context.Context, key string) (data []byte, hit bool, err error)
	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases backend resources.
	Close() error
}

// Clearer is implemented by backends that can drop all of their entries.
type Clearer interface {
	// Clear removes entries whose key starts with prefix and returns how
	// many were removed.
	Clear(ctx context.Context, prefix string) (int, error)
}
