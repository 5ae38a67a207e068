package metadata

import (
	"context"
	"os"
	"testing"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// newRedisRepo connects to QUIZSTATE_REDIS_ADDR; the test is skipped when the
// variable is unset.
func newRedisRepo(t *testing.T) *RedisRepository {
	t.Helper()
	addr := os.Getenv("QUIZSTATE_REDIS_ADDR")
	if addr == "" {
		t.Skip("QUIZSTATE_REDIS_ADDR not set")
	}

	rdb := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = rdb.Close() })
	require.NoError(t, rdb.Ping(context.Background()).Err())

	r := NewRedisRepository(rdb, "quizstate-test-"+uuid.NewString()+":")
	t.Cleanup(func() { _ = r.Clear(context.Background()) })
	return r
}

func TestRedisRepository_RoundTrip(t *testing.T) {
	r := newRedisRepo(t)
	ctx := context.Background()

	v, err := r.Get(ctx, "absent")
	require.NoError(t, err)
	require.Nil(t, v)

	require.NoError(t, r.SetAll(ctx, map[string][]byte{
		"token": []byte("t1"),
		"user":  []byte(`{"id":1}`),
	}))
	require.NoError(t, r.Set(ctx, "extra", []byte("x")))

	m, err := r.List(ctx)
	require.NoError(t, err)
	require.Equal(t, map[string][]byte{
		"token": []byte("t1"),
		"user":  []byte(`{"id":1}`),
		"extra": []byte("x"),
	}, m)

	require.NoError(t, r.Delete(ctx, "token", "user"))
	v, err = r.Get(ctx, "token")
	require.NoError(t, err)
	require.Nil(t, v)

	require.NoError(t, r.Clear(ctx))
	m, err = r.List(ctx)
	require.NoError(t, err)
	require.Empty(t, m)
}

func TestNewRedisRepository_DefaultPrefix(t *testing.T) {
	r := NewRedisRepository(redis.NewClient(&redis.Options{Addr: "127.0.0.1:0"}), "")
	require.Equal(t, DefaultRedisPrefix+"token", r.key("token"))
}
