package redis

import (
	"context"
	"time"
)

// Lock は取得済みのロック
type Lock interface {
	Release(ctx context.Context) error
	Extend(ctx context.Context, ttl time.Duration) error
}

// LockManagerInterface はロック取得を抽象化する
type LockManagerInterface interface {
	AcquireLock(ctx context.Context, key string, ttl time.Duration) (Lock, error)
	AcquireLockWithRetry(ctx context.Context, key string, ttl time.Duration, maxRetries int, retryDelay time.Duration) (Lock, error)
}

// CountCacheInterface は登録数キャッシュを抽象化する
type CountCacheInterface interface {
	GetCount(ctx context.Context, eventID string) (int, error)
	Version(ctx context.Context, eventID string) (int64, error)
	SetCount(ctx context.Context, eventID string, count int, version int64) error
	Invalidate(ctx context.Context, eventID string) error
}

var (
	_ Lock                 = (*DistributedLock)(nil)
	_ LockManagerInterface = (*LockManager)(nil)
	_ CountCacheInterface  = (*CountCache)(nil)
)
