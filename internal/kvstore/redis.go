package kvstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisStore persists records as plain Redis strings and indexes as sets.
type RedisStore struct {
	client *redis.Client
}

// NewRedis builds a store backed by the provided Redis client.
func NewRedis(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: redis get %s: %v", ErrUnavailable, key, err)
	}
	return value, nil
}

func (s *RedisStore) Set(ctx context.Context, key string, value []byte) error {
	if err := s.client.Set(ctx, key, value, 0).Err(); err != nil {
		return fmt.Errorf("%w: redis set %s: %v", ErrUnavailable, key, err)
	}
	return nil
}

func (s *RedisStore) Remove(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("%w: redis del %s: %v", ErrUnavailable, key, err)
	}
	return nil
}

func (s *RedisStore) AddToIndex(ctx context.Context, indexKey, member string) error {
	if err := s.client.SAdd(ctx, indexKey, member).Err(); err != nil {
		return fmt.Errorf("%w: redis sadd %s: %v", ErrUnavailable, indexKey, err)
	}
	return nil
}

func (s *RedisStore) RemoveFromIndex(ctx context.Context, indexKey, member string) error {
	if err := s.client.SRem(ctx, indexKey, member).Err(); err != nil {
		return fmt.Errorf("%w: redis srem %s: %v", ErrUnavailable, indexKey, err)
	}
	return nil
}

func (s *RedisStore) ListIndex(ctx context.Context, indexKey string) ([]string, error) {
	members, err := s.client.SMembers(ctx, indexKey).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: redis smembers %s: %v", ErrUnavailable, indexKey, err)
	}
	return members, nil
}
