package lockRepo

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/matheuskieling/sleep-tracker/utils"
)

// JobLocker guards a scheduled firing so only one replica runs it. Locks
// are not released; they expire with their TTL.
type JobLocker interface {
	TryAcquireLock(ctx context.Context, name, owner string, ttl time.Duration) (bool, error)
}

// RedisJobLocker implements JobLocker with SET NX PX keys.
type RedisJobLocker struct {
	client *redis.Client
}

func NewRedisJobLocker(client *redis.Client) *RedisJobLocker {
	return &RedisJobLocker{client: client}
}

func lockKey(name string) string {
	return utils.JobLockPrefix + name
}

func (l *RedisJobLocker) TryAcquireLock(ctx context.Context, name, owner string, ttl time.Duration) (bool, error) {
	ok, err := l.client.SetNX(ctx, lockKey(name), owner, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to acquire lock for %s: %w", name, err)
	}
	return ok, nil
}
