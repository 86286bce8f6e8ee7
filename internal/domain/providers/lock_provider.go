package providers

import (
	"context"
	"time"
)

// LockProvider is a distributed lock used to elect a single scheduler leader.
type LockProvider interface {
	// TryLock attempts to acquire the lock, returning a release token when
	// acquired.
	TryLock(ctx context.Context, key string, ttl time.Duration) (bool, string, error)

	// Unlock releases the lock if the token still owns it.
	Unlock(ctx context.Context, key, token string) error
}
