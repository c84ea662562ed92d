package redis

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/aretw0/interpro2go/pkg/ports"
	"github.com/google/uuid"
	backend "github.com/redis/go-redis/v9"
)

var (
	// ErrLockAcquire is returned when the lock cannot be acquired.
	ErrLockAcquire = errors.New("failed to acquire distributed lock")
)

const unlockScript = `
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
else
	return 0
end
`

const refreshScript = `
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("pexpire", KEYS[1], ARGV[2])
else
	return 0
end
`

// Locker implements ports.DistributedLocker using Redis.
// A held lock has its TTL extended in the background until it is released.
type Locker struct {
	client  *backend.Client
	prefix  string
	poll    time.Duration
	refresh time.Duration
}

// LockerOption configures the Locker.
type LockerOption func(*Locker)

// WithRefreshInterval sets how often a held lock has its TTL extended.
// It defaults to a third of the lock TTL.
func WithRefreshInterval(d time.Duration) LockerOption {
	return func(l *Locker) {
		l.refresh = d
	}
}

// NewLocker creates a new Redis locker.
func NewLocker(client *backend.Client, prefix string, opts ...LockerOption) *Locker {
	l := &Locker{
		client: client,
		prefix: prefix,
		poll:   100 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Lock acquires a distributed lock for the given key using Redis SET NX PX.
// The lock value is unique per holder, so a holder whose lock expired cannot release another's.
func (l *Locker) Lock(ctx context.Context, key string, ttl time.Duration) (ports.UnlockFunc, error) {
	lockKey := l.prefix + "lock:" + key
	val := uuid.NewString()

	ticker := time.NewTicker(l.poll)
	defer ticker.Stop()

	for {
		success, err := l.client.SetNX(ctx, lockKey, val, ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLockAcquire, err)
		}
		if success {
			keepCtx, stop := context.WithCancel(context.WithoutCancel(ctx))
			done := make(chan struct{})
			go l.keepAlive(keepCtx, lockKey, val, ttl, done)

			var once sync.Once
			return func(ctx context.Context) error {
				once.Do(func() {
					stop()
					<-done
				})
				return l.client.Eval(ctx, unlockScript, []string{lockKey}, val).Err()
			}, nil
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

// keepAlive extends the lock TTL until ctx is done or the lock is no longer ours.
func (l *Locker) keepAlive(ctx context.Context, lockKey, val string, ttl time.Duration, done chan<- struct{}) {
	defer close(done)

	interval := l.refresh
	if interval <= 0 {
		interval = ttl / 3
	}
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		held, err := l.client.Eval(ctx, refreshScript, []string{lockKey}, val, ttl.Milliseconds()).Int()
		if err == nil && held == 0 {
			return
		}
	}
}
