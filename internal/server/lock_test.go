package server

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestQuickStackLockerLockUnlock(t *testing.T) {
	mr, client := newTestRedis(t)
	locker := NewQuickStackLocker(client, "qs:", 5*time.Second)
	ctx := context.Background()

	unlock, err := locker.Lock(ctx, "42")
	require.NoError(t, err)
	assert.True(t, mr.Exists("qs:42"))
	assert.InDelta(t, 5*time.Second, mr.TTL("qs:42"), float64(time.Second))

	_, err = locker.Lock(ctx, "42")
	assert.ErrorIs(t, err, ErrBusy)

	other, err := locker.Lock(ctx, "7")
	require.NoError(t, err, "locks are per player")
	require.NoError(t, other(ctx))

	require.NoError(t, unlock(ctx))
	assert.False(t, mr.Exists("qs:42"))

	again, err := locker.Lock(ctx, "42")
	require.NoError(t, err)
	require.NoError(t, again(ctx))
}

func TestQuickStackLockerExpiredHolderKeepsNewLock(t *testing.T) {
	mr, client := newTestRedis(t)
	locker := NewQuickStackLocker(client, "qs:", time.Second)
	ctx := context.Background()

	stale, err := locker.Lock(ctx, "42")
	require.NoError(t, err)
	mr.FastForward(2 * time.Second)

	fresh, err := locker.Lock(ctx, "42")
	require.NoError(t, err)

	require.NoError(t, stale(ctx))
	assert.True(t, mr.Exists("qs:42"), "stale unlock must not free the new holder")
	require.NoError(t, fresh(ctx))
	assert.False(t, mr.Exists("qs:42"))
}

func TestQuickStackLockerRedisDown(t *testing.T) {
	mr, client := newTestRedis(t)
	mr.Close()

	_, err := NewQuickStackLocker(client, "qs:", time.Second).Lock(context.Background(), "42")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrBusy)
}
