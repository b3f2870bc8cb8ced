package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Storage is a Redis-backed app.Storage. Each storage key maps to one string value
// under "<namespace>:<key>", so several local profiles can share one Redis.
type Storage struct {
	client    *redis.Client
	namespace string
	ttl       time.Duration
}

// NewStorage creates the store; ttl <= 0 keeps values forever.
func NewStorage(client *redis.Client, namespace string, ttl time.Duration) *Storage {
	if namespace == "" {
		namespace = "local"
	}
	return &Storage{client: client, namespace: namespace, ttl: ttl}
}

func (s *Storage) GetItem(ctx context.Context, key string) (string, bool, error) {
	v, err := s.client.Get(ctx, s.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

func (s *Storage) SetItem(ctx context.Context, key, value string) error {
	return s.client.Set(ctx, s.key(key), value, s.expiration()).Err()
}

func (s *Storage) RemoveItem(ctx context.Context, key string) error {
	return s.client.Del(ctx, s.key(key)).Err()
}

func (s *Storage) expiration() time.Duration {
	if s.ttl <= 0 {
		return 0
	}
	return s.ttl
}

func (s *Storage) key(key string) string {
	return s.namespace + ":" + key
}
