package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-redis/redis/v8"
)

// redisStateRepo stores each key as a plain Redis string without expiry.
type redisStateRepo struct {
	rdb *redis.Client
}

// NewRedisStateRepo constructs a StateRepo backed by rdb.
func NewRedisStateRepo(rdb *redis.Client) StateRepo {
	return &redisStateRepo{rdb: rdb}
}

func (r *redisStateRepo) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := r.rdb.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("repo.StateRepo.Get: %w", err)
	}
	return v, true, nil
}

func (r *redisStateRepo) Set(ctx context.Context, key, value string) error {
	if err := r.rdb.Set(ctx, key, value, 0).Err(); err != nil {
		return fmt.Errorf("repo.StateRepo.Set: %w", err)
	}
	return nil
}
