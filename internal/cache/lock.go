package cache

import (
	"context"
	"time"

	"TripTogether/storage/redis"
)

// Распределённый лок на SetNX, нужен воркеру для дедупликации событий

const (
	lockPrefix = "lock"
)

func TryLock(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	if !redis.Ready() {
		return true, nil
	}

	fullkey := redis.Key(lockPrefix, key)

	result, err := redis.Client().SetNX(ctx, fullkey, 1, ttl).Result()
	if err != nil {
		return false, err
	}

	return result, nil
}

func Unlock(ctx context.Context, key string) error {
	if !redis.Ready() {
		return nil
	}

	fullkey := redis.Key(lockPrefix, key)

	return redis.Client().Del(ctx, fullkey).Err()
}
