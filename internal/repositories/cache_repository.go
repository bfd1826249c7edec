package repositories

import (
	"context"
	"time"
)

// CacheRepositoryInterface - короткоживущие значения между запросами (отпечатки повесток).
type CacheRepositoryInterface interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
}
