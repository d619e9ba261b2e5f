package cache

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps entries as plain Redis strings.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore wraps an already connected client. Close closes the client.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// Get returns the value under key, or ErrMiss.
func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	b, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrMiss
		}
		return nil, fmt.Errorf("redis get %s: %w", key, err)
	}
	return b, nil
}

// Apply sends the batch inside MULTI/EXEC.
func (s *RedisStore) Apply(ctx context.Context, ops ...Op) error {
	if len(ops) == 0 {
		return nil
	}
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, op := range ops {
			if op.Delete {
				pipe.Del(ctx, op.Key)
				continue
			}
			pipe.Set(ctx, op.Key, op.Value, 0)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis exec: %w", err)
	}
	return nil
}

// Ping sends PING to the server.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close closes the client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
