package cache

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/fjod/apna-store/internal/cart"
	"github.com/redis/go-redis/v9"
)

// NewRedisStorage stores cart snapshots as plain strings. Untouched carts
// expire after baseTTL plus up to a day of jitter.
func NewRedisStorage(client *redis.Client) *RedisStorage {
	return &RedisStorage{
		client:  client,
		baseTTL: 90 * 24 * time.Hour,
	}
}

type RedisStorage struct {
	client  *redis.Client
	baseTTL time.Duration
}

func (r RedisStorage) Get(ctx context.Context, key string) (string, error) {
	value, err := r.client.Get(ctx, storageKey(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", cart.ErrKeyNotFound
	}
	if err != nil {
		return "", fmt.Errorf("redis get failed: %w", err)
	}
	return value, nil
}

func (r RedisStorage) Set(ctx context.Context, key, value string) error {
	jitter := time.Duration(rand.Intn(24)) * time.Hour
	ttl := r.baseTTL + jitter
	if err := r.client.Set(ctx, storageKey(key), value, ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (r RedisStorage) Remove(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, storageKey(key)).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

func storageKey(key string) string {
	return fmt.Sprintf("storage:%s", key)
}
