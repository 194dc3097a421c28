package coach

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// Locker serializes read-modify-write cycles on a single user document.
type Locker interface {
	// Lock blocks until the key is held or ctx is done. The returned func releases the lock.
	Lock(ctx context.Context, key string) (unlock func(), err error)
}

var _ Locker = (*KeyedMutex)(nil)
var _ Locker = (*RedisLocker)(nil)

// KeyedMutex is an in-process Locker, good for a single service instance.
type KeyedMutex struct {
	mu    sync.Mutex
	locks map[string]*keyedLock
}

type keyedLock struct {
	sem  chan struct{}
	refs int
}

func NewKeyedMutex() *KeyedMutex {
	return &KeyedMutex{
		locks: make(map[string]*keyedLock),
	}
}

func (km *KeyedMutex) Lock(ctx context.Context, key string) (func(), error) {
	km.mu.Lock()
	l, ok := km.locks[key]
	if !ok {
		l = &keyedLock{sem: make(chan struct{}, 1)}
		km.locks[key] = l
	}
	l.refs++
	km.mu.Unlock()

	select {
	case l.sem <- struct{}{}:
	case <-ctx.Done():
		km.release(key, l)
		return nil, ctx.Err()
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-l.sem
			km.release(key, l)
		})
	}, nil
}

func (km *KeyedMutex) release(key string, l *keyedLock) {
	km.mu.Lock()
	defer km.mu.Unlock()
	l.refs--
	if l.refs == 0 {
		delete(km.locks, key)
	}
}

const (
	lockKeyPrefix          = "fitcoach-user-lock||"
	DefaultLockTTL         = 10 * time.Second
	defaultLockRetryPeriod = 25 * time.Millisecond
)

// only the holder of the token may release the lock
const unlockScript = `if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
else
	return 0
end`

// RedisLocker is a Locker shared by all service instances talking to the same redis.
// A lock not released within its TTL expires on its own.
type RedisLocker struct {
	redisClient *redis.Client
	ttl         time.Duration
	retryPeriod time.Duration
	// ability to inject the token generator (for unit testing)
	TokenFunc func() string
}

func NewRedisLocker(redisClient *redis.Client, ttl time.Duration) *RedisLocker {
	if ttl <= 0 {
		ttl = DefaultLockTTL
	}
	return &RedisLocker{
		redisClient: redisClient,
		ttl:         ttl,
		retryPeriod: defaultLockRetryPeriod,
		TokenFunc:   uuid.NewString,
	}
}

func (rl *RedisLocker) Lock(ctx context.Context, key string) (func(), error) {
	lockKey := lockKeyPrefix + key
	token := rl.TokenFunc()

	for {
		acquired, err := rl.redisClient.SetNX(ctx, lockKey, token, rl.ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("%w: acquire lock [%s]: %w", ErrStoreUnavailable, key, err)
		}
		if acquired {
			break
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(rl.retryPeriod):
		}
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			releaseCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			if err := rl.redisClient.Eval(releaseCtx, unlockScript, []string{lockKey}, token).Err(); err != nil {
				log.Warnf("release user lock [%s]: %s", key, err)
			}
		})
	}, nil
}
