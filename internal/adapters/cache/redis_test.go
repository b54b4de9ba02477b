package cache

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func TestRedisCache(t *testing.T) {
	ctx := context.Background()

	t.Run("Get returns the stored bytes", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		mock.ExpectGet("userdata:u1:workouts").SetVal(`[{"id":"w1"}]`)

		val, err := NewRedisCache(rdb).Get(ctx, "userdata:u1:workouts")

		require.NoError(t, err)
		assert.Equal(t, `[{"id":"w1"}]`, string(val))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Get maps redis.Nil to ErrMiss", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		mock.ExpectGet("missing").RedisNil()

		_, err := NewRedisCache(rdb).Get(ctx, "missing")

		assert.ErrorIs(t, err, ErrMiss)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Get propagates connection errors", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		boom := errors.New("connection refused")
		mock.ExpectGet("k").SetErr(boom)

		_, err := NewRedisCache(rdb).Get(ctx, "k")

		assert.ErrorIs(t, err, boom)
		assert.NotErrorIs(t, err, ErrMiss)
	})

	t.Run("Set and Delete hit redis", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		mock.ExpectSet("k", []byte("v"), 30*time.Minute).SetVal("OK")
		mock.ExpectDel("k").SetVal(1)

		c := NewRedisCache(rdb)
		require.NoError(t, c.Set(ctx, "k", []byte("v"), 30*time.Minute))
		require.NoError(t, c.Delete(ctx, "k"))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRedisClient_Integration(t *testing.T) {
	_ = godotenv.Load("../../../.env")

	rdb, err := NewRedisClient(RedisOptions{
		Host:     getEnv("REDIS_HOST", "localhost"),
		Port:     getEnv("REDIS_PORT", "6379"),
		Password: getEnv("REDIS_PASSWORD", "secret_redis_pass_local"),
		DB:       1,
	})
	if err != nil {
		t.Skipf("Skipping Redis integration test: %v", err)
	}
	defer rdb.Close()

	ctx := context.Background()
	require.NoError(t, rdb.FlushDB(ctx).Err(), "Failed to flush test DB")

	c := NewRedisCache(rdb)

	t.Run("Round trip", func(t *testing.T) {
		require.NoError(t, c.Set(ctx, "kanso_fit_test", []byte("hello"), time.Minute))

		val, err := c.Get(ctx, "kanso_fit_test")
		require.NoError(t, err)
		assert.Equal(t, "hello", string(val))

		require.NoError(t, c.Delete(ctx, "kanso_fit_test"))
		_, err = c.Get(ctx, "kanso_fit_test")
		assert.ErrorIs(t, err, ErrMiss)
	})

	t.Run("Expire Check", func(t *testing.T) {
		require.NoError(t, c.Set(ctx, "kanso_fit_expire", []byte("x"), time.Second))

		time.Sleep(1100 * time.Millisecond)

		_, err := c.Get(ctx, "kanso_fit_expire")
		assert.ErrorIs(t, err, ErrMiss)
	})
}
