package handoff

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"customer-onboarding/internal/config"
)

func exerciseStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	_, err := s.Get(ctx, SelectedCustomerID)
	assert.ErrorIs(t, err, ErrNotSet)

	require.NoError(t, s.Set(ctx, SelectedCustomerID, "cust-1"))
	require.NoError(t, s.Set(ctx, SelectedNationalID, "10000000146"))

	v, err := s.Get(ctx, SelectedCustomerID)
	require.NoError(t, err)
	assert.Equal(t, "cust-1", v)

	require.NoError(t, s.Clear(ctx, Keys...))
	_, err = s.Get(ctx, SelectedNationalID)
	assert.ErrorIs(t, err, ErrNotSet)
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemory())
}

func TestOpenWithoutAddrIsMemory(t *testing.T) {
	s, closeFn, err := Open(context.Background(), config.RedisConfig{}, "s", 0)
	require.NoError(t, err)
	defer closeFn()

	assert.IsType(t, &Memory{}, s)
}

func TestOpenUnreachableRedis(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, _, err := Open(ctx, config.RedisConfig{Addr: "127.0.0.1:1"}, "s", 0)
	assert.Error(t, err)
}

func TestRedisStore(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	defer client.Close()

	exerciseStore(t, NewRedis(client, uuid.NewString(), time.Minute))
}

func TestRedisStore_SessionsAreIsolated(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	defer client.Close()
	ctx := context.Background()

	a := NewRedis(client, uuid.NewString(), time.Minute)
	b := NewRedis(client, uuid.NewString(), time.Minute)
	require.NoError(t, a.Set(ctx, SelectedCustomerID, "a"))

	_, err := b.Get(ctx, SelectedCustomerID)
	assert.ErrorIs(t, err, ErrNotSet)
	require.NoError(t, a.Clear(ctx, Keys...))
}
