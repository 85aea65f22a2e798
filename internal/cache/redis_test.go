package cache

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/fjod/apna-store/internal/cart"
	"github.com/fjod/apna-store/internal/domain"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestRedis creates a miniredis server and returns a RedisStorage instance
func setupTestRedis(t *testing.T) (*RedisStorage, *miniredis.Miniredis, func()) {
	mr := miniredis.RunT(t)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	storage := NewRedisStorage(client)

	cleanup := func() {
		client.Close()
		mr.Close()
	}

	return storage, mr, cleanup
}

func TestGet_Success(t *testing.T) {
	storage, mr, cleanup := setupTestRedis(t)
	defer cleanup()

	require.NoError(t, mr.Set(storageKey("cart"), `[{"productId":1,"quantity":2}]`))

	value, err := storage.Get(context.Background(), "cart")
	require.NoError(t, err)
	assert.Equal(t, `[{"productId":1,"quantity":2}]`, value)
}

func TestGet_Missing(t *testing.T) {
	storage, _, cleanup := setupTestRedis(t)
	defer cleanup()

	_, err := storage.Get(context.Background(), "nonexistent")
	assert.ErrorIs(t, err, cart.ErrKeyNotFound)
}

func TestGet_ServerDown(t *testing.T) {
	storage, mr, cleanup := setupTestRedis(t)
	defer cleanup()
	mr.Close()

	_, err := storage.Get(context.Background(), "cart")
	require.ErrorContains(t, err, "redis get failed")
}

func TestSet_WithTTL(t *testing.T) {
	storage, mr, cleanup := setupTestRedis(t)
	defer cleanup()

	require.NoError(t, storage.Set(context.Background(), "cart", "[]"))

	stored, err := mr.Get(storageKey("cart"))
	require.NoError(t, err)
	assert.Equal(t, "[]", stored)

	ttl := mr.TTL(storageKey("cart"))
	assert.True(t, ttl >= 90*24*time.Hour, "TTL should be at least base TTL")
	assert.True(t, ttl < 91*24*time.Hour, "TTL should be base + max jitter")
}

func TestRemove(t *testing.T) {
	storage, mr, cleanup := setupTestRedis(t)
	defer cleanup()

	require.NoError(t, mr.Set(storageKey("cart"), "[]"))
	require.NoError(t, storage.Remove(context.Background(), "cart"))
	assert.False(t, mr.Exists(storageKey("cart")))

	// removing a missing key is not an error
	assert.NoError(t, storage.Remove(context.Background(), "cart"))
}

func TestStorageKey_Format(t *testing.T) {
	assert.Equal(t, "storage:rl-apna-store-cart", storageKey(cart.DefaultKey))
}

func TestCartManager_RoundTripThroughRedis(t *testing.T) {
	storage, mr, cleanup := setupTestRedis(t)
	defer cleanup()
	ctx := context.Background()

	m := cart.NewManager(ctx, storage)
	m.AddToCart(domain.CartLine{ProductID: 7, Name: "Ghee", Price: 100, Quantity: 3})
	require.NoError(t, m.Close(ctx))

	raw, err := mr.Get(storageKey(cart.DefaultKey))
	require.NoError(t, err)
	var lines []domain.CartLine
	require.NoError(t, json.Unmarshal([]byte(raw), &lines))
	require.Len(t, lines, 1)

	restored := cart.NewManager(ctx, storage)
	defer restored.Close(ctx)
	assert.Equal(t, 3, restored.ItemQuantity(7))
}

func TestCartManager_CorruptRedisValue(t *testing.T) {
	storage, mr, cleanup := setupTestRedis(t)
	defer cleanup()
	ctx := context.Background()

	require.NoError(t, mr.Set(storageKey(cart.DefaultKey), "garbage"))

	m := cart.NewManager(ctx, storage)
	require.NoError(t, m.Flush(ctx))
	defer m.Close(ctx)

	assert.Empty(t, m.Lines())
	raw, err := mr.Get(storageKey(cart.DefaultKey))
	require.NoError(t, err)
	assert.Equal(t, "[]", raw)
}
