package utils

import (
	"context"
	"time"

	app_errors "github.com/emamhosenCSE/aeos365-hrm/internal/errors"
	json "github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
)

// GetCacheInto liest cacheKey und dekodiert das JSON in dest. Der bool meldet einen Treffer.
func GetCacheInto(ctx context.Context, rdb *redis.Client, cacheKey string, dest any) (bool, *app_errors.AppError) {
	val, err := rdb.Get(ctx, cacheKey).Bytes()
	if err == redis.Nil {
		return false, nil // Cache-miss
	} else if err != nil {
		return false, app_errors.NewInternalError(err)
	}
	if err := json.Unmarshal(val, dest); err != nil {
		return false, app_errors.NewInternalError(err)
	}
	return true, nil
}

// SetCacheData serialisiert das gegebene Objekt (T) als JSON und speichert es mit Ablaufzeit in Redis.
func SetCacheData[T any](ctx context.Context, rdb *redis.Client, cacheKey string, data *T, expire time.Duration) *app_errors.AppError {
	bytes, err := json.Marshal(data)
	if err != nil {
		return app_errors.NewInternalError(err)
	}

	if err := rdb.Set(ctx, cacheKey, bytes, expire).Err(); err != nil {
		return app_errors.NewInternalError(err)
	}

	return nil
}

// DeleteCacheData löscht die angegebenen Keys aus Redis. Kein Fehler, wenn ein Key bereits fehlt.
func DeleteCacheData(ctx context.Context, rdb *redis.Client, cacheKeys ...string) error {
	if len(cacheKeys) == 0 {
		return nil
	}
	return rdb.Del(ctx, cacheKeys...).Err()
}
