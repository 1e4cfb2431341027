package cache

import (
	"context"
	"time"

	app_errors "github.com/emamhosenCSE/aeos365-hrm/internal/errors"
)

// Cache stores JSON encoded values. Get decodes into dest and reports a hit.
// Incr zählt einen Integer-Schlüssel hoch; ein fehlender Schlüssel gilt als 0.
type Cache interface {
	Get(ctx context.Context, key string, dest any) (bool, *app_errors.AppError)
	Set(ctx context.Context, key string, value any, ttl time.Duration) *app_errors.AppError
	Del(ctx context.Context, keys ...string) error
	Incr(ctx context.Context, key string) (int64, error)
}
