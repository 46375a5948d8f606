package driven

import (
	"context"
	"time"
)

// TokenStore is a TTL-capable key-value map shared by the three key
// families (link:, todoist-state:, token:).
type TokenStore interface {
	// Put stores value under key. A zero ttl means the entry never expires.
	Put(ctx context.Context, key, value string, ttl time.Duration) error

	// Get returns the value stored under key.
	// Returns domain.ErrNotFound if the key is absent or expired.
	Get(ctx context.Context, key string) (string, error)

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// GetAndDelete atomically retrieves and removes key.
	// This ensures single-use semantics for correlation tokens.
	// Returns domain.ErrNotFound if the key is absent or expired.
	GetAndDelete(ctx context.Context, key string) (string, error)

	// Ping checks if the backend is healthy.
	Ping(ctx context.Context) error
}
