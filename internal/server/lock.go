package server

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

// ErrBusy is returned when another quick stack for the same player holds the
// lock.
var ErrBusy = errors.New("quick stack already in progress")

// UnlockFunc releases a held lock
type UnlockFunc func(ctx context.Context) error

// Compare-and-delete so an expired holder never frees a newer lock.
var unlockScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
else
	return 0
end
`)

// QuickStackLocker serializes quick stack requests per player across server
// instances using Redis SET NX PX.
type QuickStackLocker struct {
	client redis.Cmdable
	prefix string
	ttl    time.Duration
}

// NewQuickStackLocker creates a locker. Keys are prefix + player ID.
func NewQuickStackLocker(client redis.Cmdable, prefix string, ttl time.Duration) *QuickStackLocker {
	return &QuickStackLocker{client: client, prefix: prefix, ttl: ttl}
}

// Lock tries once to take the player's lock. It does not wait.
func (l *QuickStackLocker) Lock(ctx context.Context, playerID string) (UnlockFunc, error) {
	key := l.prefix + playerID
	token := uuid.NewString()

	ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("redis error acquiring lock: %w", err)
	}
	if !ok {
		return nil, ErrBusy
	}
	return func(ctx context.Context) error {
		return unlockScript.Run(ctx, l.client, []string{key}, token).Err()
	}, nil
}
