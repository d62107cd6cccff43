package lock

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/bsm/redislock"
	goredis "github.com/redis/go-redis/v9"
)

// ErrNotObtained is returned when another holder owns the key.
var ErrNotObtained = errors.New("lock not obtained")

// Lease is a held lock.
type Lease interface {
	Release(ctx context.Context) error
	Refresh(ctx context.Context, ttl time.Duration) error
}

// Locker hands out exclusive, expiring leases on a key.
type Locker interface {
	Obtain(ctx context.Context, key string, ttl time.Duration) (Lease, error)
}

// RedisLocker coordinates across processes through Redis.
type RedisLocker struct {
	client *redislock.Client
	prefix string
}

// NewRedisLocker creates a locker storing keys under prefix.
func NewRedisLocker(rdb *goredis.Client, prefix string) *RedisLocker {
	return &RedisLocker{client: redislock.New(rdb), prefix: prefix}
}

func (l *RedisLocker) Obtain(ctx context.Context, key string, ttl time.Duration) (Lease, error) {
	lk, err := l.client.Obtain(ctx, l.prefix+key, ttl, nil)
	if errors.Is(err, redislock.ErrNotObtained) {
		return nil, ErrNotObtained
	}
	if err != nil {
		return nil, err
	}
	return &redisLease{lock: lk}, nil
}

type redisLease struct {
	lock *redislock.Lock
}

func (r *redisLease) Release(ctx context.Context) error {
	err := r.lock.Release(ctx)
	if errors.Is(err, redislock.ErrLockNotHeld) {
		return nil
	}
	return err
}

func (r *redisLease) Refresh(ctx context.Context, ttl time.Duration) error {
	err := r.lock.Refresh(ctx, ttl, nil)
	if errors.Is(err, redislock.ErrNotObtained) {
		return ErrNotObtained
	}
	return err
}

// LocalLocker serializes holders inside a single process.
type LocalLocker struct {
	mu   sync.Mutex
	held map[string]time.Time
	now  func() time.Time
}

// NewLocalLocker creates an in-process locker.
func NewLocalLocker() *LocalLocker {
	return &LocalLocker{held: make(map[string]time.Time), now: time.Now}
}

func (l *LocalLocker) Obtain(_ context.Context, key string, ttl time.Duration) (Lease, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if exp, ok := l.held[key]; ok && now.Before(exp) {
		return nil, ErrNotObtained
	}
	exp := now.Add(ttl)
	l.held[key] = exp
	return &localLease{owner: l, key: key, exp: exp}, nil
}

type localLease struct {
	owner *LocalLocker
	key   string
	exp   time.Time
}

func (r *localLease) Release(context.Context) error {
	r.owner.mu.Lock()
	defer r.owner.mu.Unlock()
	if cur, ok := r.owner.held[r.key]; ok && cur.Equal(r.exp) {
		delete(r.owner.held, r.key)
	}
	return nil
}

func (r *localLease) Refresh(_ context.Context, ttl time.Duration) error {
	r.owner.mu.Lock()
	defer r.owner.mu.Unlock()
	if cur, ok := r.owner.held[r.key]; !ok || !cur.Equal(r.exp) {
		return ErrNotObtained
	}
	r.exp = r.owner.now().Add(ttl)
	r.owner.held[r.key] = r.exp
	return nil
}
