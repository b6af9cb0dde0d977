package queue

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Lock is a coarse SetNX mutex. It serializes the end-day aggregation across
// processes; the TTL bounds how long a crashed holder can block the next run.
type Lock struct {
	rdb *redis.Client
	key string
	ttl time.Duration
}

func NewLock(rdb *redis.Client, key string, ttl time.Duration) *Lock {
	return &Lock{rdb: rdb, key: key, ttl: ttl}
}

// Acquire returns true if the lock was taken, false if another holder has it.
func (l *Lock) Acquire(ctx context.Context) (bool, error) {
	ok, err := l.rdb.SetNX(ctx, l.key, "locked", l.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("lock acquire %s: %w", l.key, err)
	}
	return ok, nil
}

func (l *Lock) Release(ctx context.Context) error {
	if err := l.rdb.Del(ctx, l.key).Err(); err != nil {
		return fmt.Errorf("lock release %s: %w", l.key, err)
	}
	return nil
}
