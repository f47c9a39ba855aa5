package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/youssefbibani/platform-sport/internal/pkg/metrics"
)

var (
	ErrLockNotAcquired = errors.New("lock is held by another owner")
	ErrLockNotOwned    = errors.New("lock is not owned")
)

var releaseScript = redis.NewScript(`
	if redis.call("GET", KEYS[1]) == ARGV[1] then
		return redis.call("DEL", KEYS[1])
	else
		return 0
	end
`)

var extendScript = redis.NewScript(`
	if redis.call("GET", KEYS[1]) == ARGV[1] then
		return redis.call("PEXPIRE", KEYS[1], ARGV[2])
	else
		return 0
	end
`)

// DistributedLock is a Redis lock identified by a random owner token.
type DistributedLock struct {
	client  *redis.Client
	metrics *metrics.Metrics
	key     string
	value   string
	ttl     time.Duration
}

// LockManager hands out distributed locks.
type LockManager struct {
	client  *redis.Client
	metrics *metrics.Metrics
}

func NewLockManager(client *redis.Client, m *metrics.Metrics) *LockManager {
	return &LockManager{client: client, metrics: m}
}

// AcquireLock takes the lock with SET NX. ErrLockNotAcquired when someone else holds it.
func (m *LockManager) AcquireLock(ctx context.Context, key string, ttl time.Duration) (*DistributedLock, error) {
	start := time.Now()
	lockKey := lockKey(key)
	lockValue := uuid.New().String()

	ok, err := m.client.SetNX(ctx, lockKey, lockValue, ttl).Result()
	if err != nil {
		m.metrics.RecordLock("acquire", "error", time.Since(start).Seconds())
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		m.metrics.RecordLock("acquire", "failed", time.Since(start).Seconds())
		return nil, ErrLockNotAcquired
	}
	m.metrics.RecordLock("acquire", "success", time.Since(start).Seconds())

	return &DistributedLock{
		client:  m.client,
		metrics: m.metrics,
		key:     lockKey,
		value:   lockValue,
		ttl:     ttl,
	}, nil
}

// TryLock takes the lock once. acquired is false when another owner holds it.
func (m *LockManager) TryLock(ctx context.Context, key string, ttl time.Duration) (lock *DistributedLock, acquired bool, err error) {
	lock, err = m.AcquireLock(ctx, key, ttl)
	if errors.Is(err, ErrLockNotAcquired) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return lock, true, nil
}

// Release deletes the lock if this owner still holds it.
func (l *DistributedLock) Release(ctx context.Context) error {
	start := time.Now()
	result, err := releaseScript.Run(ctx, l.client, []string{l.key}, l.value).Int()
	if err != nil {
		l.metrics.RecordLock("release", "error", time.Since(start).Seconds())
		return fmt.Errorf("release lock: %w", err)
	}
	if result == 0 {
		l.metrics.RecordLock("release", "failed", time.Since(start).Seconds())
		return ErrLockNotOwned
	}
	l.metrics.RecordLock("release", "success", time.Since(start).Seconds())
	return nil
}

// Extend resets the TTL if this owner still holds the lock.
func (l *DistributedLock) Extend(ctx context.Context, ttl time.Duration) error {
	start := time.Now()
	result, err := extendScript.Run(ctx, l.client, []string{l.key}, l.value, ttl.Milliseconds()).Int()
	if err != nil {
		l.metrics.RecordLock("extend", "error", time.Since(start).Seconds())
		return fmt.Errorf("extend lock: %w", err)
	}
	if result == 0 {
		l.metrics.RecordLock("extend", "failed", time.Since(start).Seconds())
		return ErrLockNotOwned
	}
	l.metrics.RecordLock("extend", "success", time.Since(start).Seconds())
	l.ttl = ttl
	return nil
}

func lockKey(key string) string {
	return "lock:" + key
}
