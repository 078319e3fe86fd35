package domain

import (
	"context"
	"errors"
	"time"
)

// ErrCacheMiss is returned when a key is absent or has expired.
var ErrCacheMiss = errors.New("cache: key not found")

// Cache is the expiring blob store finished quiz results are parked in once their live
// session is released.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value for ttl. A ttl of 0 keeps it until deleted.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Touch restarts the expiration of an existing key, or clears it when ttl is 0.
	// It returns ErrCacheMiss when the key is gone.
	Touch(ctx context.Context, key string, ttl time.Duration) error

	Delete(ctx context.Context, key string) error

	Ping(ctx context.Context) error
}
