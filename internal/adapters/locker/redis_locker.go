package locker

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/smileops/dentaldesk/internal/domain/providers"
	redisclient "github.com/smileops/dentaldesk/internal/infrastructure/clients/redis"
)

// unlockScript deletes the key only while the caller's token still owns it.
const unlockScript = `
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`

// RedisLocker implements LockProvider with SET NX + token-checked release.
type RedisLocker struct {
	client *redisclient.Client
}

// NewRedisLocker creates a new Redis-backed lock provider
func NewRedisLocker(client *redisclient.Client) providers.LockProvider {
	return &RedisLocker{client: client}
}

// TryLock attempts to acquire the lock for ttl, returning a release token.
func (l *RedisLocker) TryLock(ctx context.Context, key string, ttl time.Duration) (bool, string, error) {
	token := uuid.New().String()
	acquired, err := l.client.Client().SetNX(ctx, key, token, ttl).Result()
	if err != nil {
		return false, "", fmt.Errorf("failed to acquire lock %s: %w", key, err)
	}
	if !acquired {
		return false, "", nil
	}
	return true, token, nil
}

// Unlock releases the lock if the token still owns it.
func (l *RedisLocker) Unlock(ctx context.Context, key, token string) error {
	if err := l.client.Client().Eval(ctx, unlockScript, []string{key}, token).Err(); err != nil {
		return fmt.Errorf("failed to release lock %s: %w", key, err)
	}
	return nil
}
