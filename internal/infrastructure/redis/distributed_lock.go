package redis

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var (
	ErrLockNotAcquired = errors.New("ロックを取得できませんでした")
	ErrLockNotOwned    = errors.New("ロックの所有者ではありません")
)

// 所有者確認と削除をアトミックに行う
const releaseScript = `
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
else
	return 0
end
`

// 所有者確認と期限延長をアトミックに行う
const extendScript = `
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("PEXPIRE", KEYS[1], ARGV[2])
else
	return 0
end
`

// Lock は取得済みのロック
type Lock interface {
	Release(ctx context.Context) error
	Extend(ctx context.Context, ttl time.Duration) error
}

// LockManagerInterface はロック取得のインターフェース
type LockManagerInterface interface {
	AcquireLock(ctx context.Context, key string, ttl time.Duration) (Lock, error)
	AcquireLockWithRetry(ctx context.Context, key string, ttl time.Duration, maxRetries int, retryDelay time.Duration) (Lock, error)
	// AcquireLocks は複数キーをソート順に取得する。途中で失敗した場合は取得済みのロックを解放する
	AcquireLocks(ctx context.Context, keys []string, ttl time.Duration, maxRetries int, retryDelay time.Duration) (Lock, error)
}

// DistributedLock は Redis を使用した分散ロック
type DistributedLock struct {
	client redis.Cmdable
	key    string
	value  string
	ttl    time.Duration
}

// LockManager は分散ロックを管理する
type LockManager struct {
	client   redis.Cmdable
	newToken func() string
}

// LockOption は LockManager のオプション
type LockOption func(*LockManager)

// WithTokenGenerator はロック所有者トークンの生成関数を差し替える
func WithTokenGenerator(fn func() string) LockOption {
	return func(m *LockManager) { m.newToken = fn }
}

func NewLockManager(client redis.Cmdable, opts ...LockOption) *LockManager {
	m := &LockManager{client: client, newToken: uuid.NewString}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// AreaLockKey はエリア単位のロックキーを返す
func AreaLockKey(areaID string) string {
	return "area:" + areaID
}

// AcquireLock はロックを取得する
func (m *LockManager) AcquireLock(ctx context.Context, key string, ttl time.Duration) (Lock, error) {
	lockKey := fmt.Sprintf("lock:%s", key)
	lockValue := m.newToken()

	ok, err := m.client.SetNX(ctx, lockKey, lockValue, ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("ロック取得に失敗: %w", err)
	}
	if !ok {
		return nil, ErrLockNotAcquired
	}

	return &DistributedLock{
		client: m.client,
		key:    lockKey,
		value:  lockValue,
		ttl:    ttl,
	}, nil
}

// AcquireLockWithRetry はリトライ付きでロックを取得する
func (m *LockManager) AcquireLockWithRetry(ctx context.Context, key string, ttl time.Duration, maxRetries int, retryDelay time.Duration) (Lock, error) {
	var lastErr error = ErrLockNotAcquired
	for i := 0; i < maxRetries; i++ {
		lock, err := m.AcquireLock(ctx, key, ttl)
		if err == nil {
			return lock, nil
		}
		lastErr = err
		if !errors.Is(err, ErrLockNotAcquired) {
			return nil, err
		}
		if i == maxRetries-1 {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(retryDelay):
		}
	}
	return nil, lastErr
}

// AcquireLocks は重複を除いたキーをソート順に取得する
func (m *LockManager) AcquireLocks(ctx context.Context, keys []string, ttl time.Duration, maxRetries int, retryDelay time.Duration) (Lock, error) {
	sorted := uniqueSorted(keys)
	held := make(multiLock, 0, len(sorted))
	for _, key := range sorted {
		lock, err := m.AcquireLockWithRetry(ctx, key, ttl, maxRetries, retryDelay)
		if err != nil {
			if relErr := held.Release(context.WithoutCancel(ctx)); relErr != nil {
				err = errors.Join(err, relErr)
			}
			return nil, err
		}
		held = append(held, lock)
	}
	return held, nil
}

func uniqueSorted(keys []string) []string {
	seen := make(map[string]struct{}, len(keys))
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Release はロックを解放する
func (l *DistributedLock) Release(ctx context.Context) error {
	result, err := l.client.Eval(ctx, releaseScript, []string{l.key}, l.value).Int()
	if err != nil {
		return fmt.Errorf("ロック解放に失敗: %w", err)
	}
	if result == 0 {
		return ErrLockNotOwned
	}
	return nil
}

// Extend はロックの有効期限を延長する
func (l *DistributedLock) Extend(ctx context.Context, ttl time.Duration) error {
	result, err := l.client.Eval(ctx, extendScript, []string{l.key}, l.value, ttl.Milliseconds()).Int()
	if err != nil {
		return fmt.Errorf("ロック延長に失敗: %w", err)
	}
	if result == 0 {
		return ErrLockNotOwned
	}
	l.ttl = ttl
	return nil
}

// multiLock は複数のロックをまとめて扱う。解放は取得と逆順
type multiLock []Lock

func (ml multiLock) Release(ctx context.Context) error {
	var errs []error
	for i := len(ml) - 1; i >= 0; i-- {
		if err := ml[i].Release(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (ml multiLock) Extend(ctx context.Context, ttl time.Duration) error {
	for _, l := range ml {
		if err := l.Extend(ctx, ttl); err != nil {
			return err
		}
	}
	return nil
}
