package cache

import (
	"context"
	"time"

	app_errors "github.com/emamhosenCSE/aeos365-hrm/internal/errors"
	"github.com/emamhosenCSE/aeos365-hrm/internal/utils"
	"github.com/redis/go-redis/v9"
)

type RedisCache struct {
	client *redis.Client
}

func NewRedisCache(redis *redis.Client) *RedisCache {
	return &RedisCache{client: redis}
}

func (r *RedisCache) Get(ctx context.Context, key string, dest any) (bool, *app_errors.AppError) {
	return utils.GetCacheInto(ctx, r.client, key, dest)
}

func (r *RedisCache) Set(ctx context.Context, key string, value any, ttl time.Duration) *app_errors.AppError {
	return utils.SetCacheData(ctx, r.client, key, &value, ttl)
}

func (r *RedisCache) Del(ctx context.Context, keys ...string) error {
	return utils.DeleteCacheData(ctx, r.client, keys...)
}

func (r *RedisCache) Incr(ctx context.Context, key string) (int64, error) {
	return r.client.Incr(ctx, key).Result()
}

// NoopCache never hits. Used when no redis is configured for reads.
type NoopCache struct{}

func (NoopCache) Get(ctx context.Context, key string, dest any) (bool, *app_errors.AppError) {
	return false, nil
}

func (NoopCache) Set(ctx context.Context, key string, value any, ttl time.Duration) *app_errors.AppError {
	return nil
}

func (NoopCache) Del(ctx context.Context, keys ...string) error {
	return nil
}

func (NoopCache) Incr(ctx context.Context, key string) (int64, error) {
	return 0, nil
}
