// Package redis provides Redis-backed persistence adapters
package redis

import (
	"context"
	"errors"

	"github.com/alchemorsel/recipe-explorer/internal/ports/outbound"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// KeyValueStore implements outbound.KeyValueStore with plain Redis strings.
// Keys never expire.
type KeyValueStore struct {
	client    redis.UniversalClient
	namespace string
	logger    *zap.Logger
}

// NewKeyValueStore creates a Redis key/value store. namespace is prepended
// to every key so several deployments can share one database.
func NewKeyValueStore(client redis.UniversalClient, namespace string, logger *zap.Logger) *KeyValueStore {
	return &KeyValueStore{
		client:    client,
		namespace: namespace,
		logger:    logger.Named("redis-kv"),
	}
}

var _ outbound.KeyValueStore = (*KeyValueStore)(nil)

func (s *KeyValueStore) key(k string) string {
	return s.namespace + k
}

// Get retrieves a value
func (s *KeyValueStore) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := s.client.Get(ctx, s.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		s.logger.Debug("Redis get failed", zap.String("key", key), zap.Error(err))
		return "", false, err
	}
	return value, true, nil
}

// Set stores a value without expiry
func (s *KeyValueStore) Set(ctx context.Context, key, value string) error {
	if err := s.client.Set(ctx, s.key(key), value, 0).Err(); err != nil {
		s.logger.Error("Redis set failed", zap.String("key", key), zap.Error(err))
		return err
	}
	return nil
}

// Remove deletes a key
func (s *KeyValueStore) Remove(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.key(key)).Err(); err != nil {
		s.logger.Error("Redis delete failed", zap.String("key", key), zap.Error(err))
		return err
	}
	return nil
}
