package redis

import (
	"context"
	"net"
	"strconv"
	"testing"
	"time"

	"github.com/alchemorsel/recipe-explorer/internal/infrastructure/config"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestStore(t *testing.T) (*KeyValueStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewKeyValueStore(client, "explorer:", zap.NewNop()), mr
}

func TestKeyValueStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store, mr := newTestStore(t)

	_, found, err := store.Get(ctx, "savedRecipes_u1")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, store.Set(ctx, "savedRecipes_u1", `[{"id":"1"}]`))

	raw, err := mr.Get("explorer:savedRecipes_u1")
	require.NoError(t, err)
	assert.Equal(t, `[{"id":"1"}]`, raw)
	assert.Zero(t, mr.TTL("explorer:savedRecipes_u1"))

	value, found, err := store.Get(ctx, "savedRecipes_u1")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, `[{"id":"1"}]`, value)

	require.NoError(t, store.Remove(ctx, "savedRecipes_u1"))
	assert.False(t, mr.Exists("explorer:savedRecipes_u1"))
}

func TestKeyValueStore_ServerDown(t *testing.T) {
	store, mr := newTestStore(t)
	mr.Close()

	_, found, err := store.Get(context.Background(), "k")
	assert.Error(t, err)
	assert.False(t, found)
	assert.Error(t, store.Set(context.Background(), "k", "v"))
}

func TestNewClient(t *testing.T) {
	mr := miniredis.RunT(t)
	host, port, err := net.SplitHostPort(mr.Addr())
	require.NoError(t, err)
	p, err := strconv.Atoi(port)
	require.NoError(t, err)

	client, err := NewClient(&config.RedisConfig{Host: host, Port: p, DialTimeout: time.Second}, zap.NewNop())
	require.NoError(t, err)
	defer client.Close()

	store := NewKeyValueStore(client, "explorer:", zap.NewNop())
	require.NoError(t, store.Set(context.Background(), "savedRecipes_bob", "[]"))
	assert.True(t, mr.Exists("explorer:savedRecipes_bob"))
}

func TestNewClient_Unreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	host, port, _ := net.SplitHostPort(mr.Addr())
	p, _ := strconv.Atoi(port)
	mr.Close()

	_, err := NewClient(&config.RedisConfig{Host: host, Port: p, DialTimeout: 100 * time.Millisecond}, zap.NewNop())
	assert.Error(t, err)
}
