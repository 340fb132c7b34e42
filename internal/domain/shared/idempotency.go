package shared

import (
	"context"
	"time"
)

// IdempotencyStore records caller-supplied request keys so that a retried
// request is not applied twice.
type IdempotencyStore interface {
	// Claim marks key as in use for ttl. It returns false when the key was
	// already claimed and has not expired.
	Claim(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// Release frees a claimed key, allowing the request to be retried.
	Release(ctx context.Context, key string) error

	// Close releases resources held by the store
	Close() error
}
