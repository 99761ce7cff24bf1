package cache

import (
	"context"
	"time"
)

// Cache is the contract for the cache layer, allowing the implementation to
// be swapped (Redis in production, in-memory fake in tests).
type Cache interface {
	// Get fetches a key and unmarshals it into dest.
	// found=false means a miss; dest is untouched.
	Get(ctx context.Context, key string, dest interface{}) (bool, error)

	// Set stores a value with a TTL.
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error

	// Delete removes keys. Missing keys are not an error.
	Delete(ctx context.Context, keys ...string) error

	// Ping checks the connection.
	Ping(ctx context.Context) error
}
