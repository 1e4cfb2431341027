package use_cases

import (
	"context"
	"time"

	"github.com/emamhosenCSE/aeos365-hrm/internal/abstraction/cache"
	app_errors "github.com/emamhosenCSE/aeos365-hrm/internal/errors"
	"github.com/goccy/go-json"
)

var _ cache.Cache = (*MockCache)(nil)

type MockCache struct {
	GetFn  func(ctx context.Context, key string, dest any) (bool, *app_errors.AppError)
	SetFn  func(ctx context.Context, key string, val any, ttl time.Duration) *app_errors.AppError
	DelFn  func(ctx context.Context, keys ...string) error
	IncrFn func(ctx context.Context, key string) (int64, error)

	GetCalled  int
	SetCalled  int
	DelCalled  int
	IncrCalled int
}

func (m *MockCache) Get(ctx context.Context, key string, dest any) (bool, *app_errors.AppError) {
	m.GetCalled++
	return m.GetFn(ctx, key, dest)
}

func (m *MockCache) Set(ctx context.Context, key string, val any, ttl time.Duration) *app_errors.AppError {
	m.SetCalled++
	return m.SetFn(ctx, key, val, ttl)
}

func (m *MockCache) Del(ctx context.Context, keys ...string) error {
	m.DelCalled++
	return m.DelFn(ctx, keys...)
}

func (m *MockCache) Incr(ctx context.Context, key string) (int64, error) {
	m.IncrCalled++
	return m.IncrFn(ctx, key)
}

// NewMapCache baut einen MockCache über einer Map, mit JSON wie im Redis-Cache.
func NewMapCache() *MockCache {
	store := map[string][]byte{}
	return &MockCache{
		GetFn: func(ctx context.Context, key string, dest any) (bool, *app_errors.AppError) {
			raw, ok := store[key]
			if !ok {
				return false, nil
			}
			if err := json.Unmarshal(raw, dest); err != nil {
				return false, app_errors.NewInternalError(err)
			}
			return true, nil
		},
		SetFn: func(ctx context.Context, key string, val any, ttl time.Duration) *app_errors.AppError {
			raw, err := json.Marshal(val)
			if err != nil {
				return app_errors.NewInternalError(err)
			}
			store[key] = raw
			return nil
		},
		DelFn: func(ctx context.Context, keys ...string) error {
			for _, k := range keys {
				delete(store, k)
			}
			return nil
		},
		IncrFn: func(ctx context.Context, key string) (int64, error) {
			var n int64
			if raw, ok := store[key]; ok {
				if err := json.Unmarshal(raw, &n); err != nil {
					return 0, err
				}
			}
			n++
			raw, err := json.Marshal(n)
			if err != nil {
				return 0, err
			}
			store[key] = raw
			return n, nil
		},
	}
}
