package revocation_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/jrsteele09/go-social-auth/revocation"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func setupRedis(t *testing.T) (*miniredis.Miniredis, *revocation.RedisStore) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{
		Addr:        mr.Addr(),
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = client.Close() })
	return mr, revocation.NewRedisStore(client, revocation.WithTimeout(200*time.Millisecond))
}

func TestRedisStoreDeny(t *testing.T) {
	ctx := context.Background()
	mr, store := setupRedis(t)

	denied, err := store.IsDenied(ctx, "jti-1")
	require.NoError(t, err)
	require.False(t, denied)

	require.NoError(t, store.Deny(ctx, "jti-1", time.Minute))

	denied, err = store.IsDenied(ctx, "jti-1")
	require.NoError(t, err)
	require.True(t, denied)

	denied, err = store.IsDenied(ctx, "jti-2")
	require.NoError(t, err)
	require.False(t, denied)

	require.True(t, mr.Exists(revocation.DefaultKeyPrefix+"jti-1"))
	require.Equal(t, time.Minute, mr.TTL(revocation.DefaultKeyPrefix+"jti-1"))
}

func TestRedisStoreEntriesExpire(t *testing.T) {
	ctx := context.Background()
	mr, store := setupRedis(t)

	require.NoError(t, store.Deny(ctx, "jti-1", 30*time.Second))
	mr.FastForward(31 * time.Second)

	denied, err := store.IsDenied(ctx, "jti-1")
	require.NoError(t, err)
	require.False(t, denied)
}

func TestRedisStoreNonPositiveTTL(t *testing.T) {
	ctx := context.Background()
	mr, store := setupRedis(t)

	require.NoError(t, store.Deny(ctx, "jti-1", 0))
	require.NoError(t, store.Deny(ctx, "jti-2", -time.Second))
	require.False(t, mr.Exists(revocation.DefaultKeyPrefix+"jti-1"))
	require.False(t, mr.Exists(revocation.DefaultKeyPrefix+"jti-2"))

	require.Error(t, store.Deny(ctx, "", time.Minute))
}

func TestRedisStoreCustomPrefix(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	store := revocation.NewRedisStore(client, revocation.WithKeyPrefix("denied:"))

	require.NoError(t, store.Deny(ctx, "jti-1", time.Minute))
	require.True(t, mr.Exists("denied:jti-1"))
}

func TestRedisStoreUnavailable(t *testing.T) {
	ctx := context.Background()
	mr, store := setupRedis(t)
	mr.Close()

	_, err := store.IsDenied(ctx, "jti-1")
	require.ErrorIs(t, err, revocation.ErrUnavailable)

	err = store.Deny(ctx, "jti-1", time.Minute)
	require.ErrorIs(t, err, revocation.ErrUnavailable)
}

func TestRedisStoreCancelledContext(t *testing.T) {
	_, store := setupRedis(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := store.IsDenied(ctx, "jti-1")
	require.ErrorIs(t, err, revocation.ErrUnavailable)
}

func TestConnect(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := revocation.Connect(context.Background(), "redis://"+mr.Addr()+"/0", time.Second)
	require.NoError(t, err)
	require.NoError(t, client.Close())

	_, err = revocation.Connect(context.Background(), "not a url", time.Second)
	require.Error(t, err)
}
