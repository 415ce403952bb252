package state

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisKV stores values as plain Redis strings.
type RedisKV struct {
	rdb *redis.Client
}

// NewRedisKV connects lazily to the Redis server described by url
// (redis://[user:password@]host:port/db).
func NewRedisKV(url string) (*RedisKV, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	return NewRedisKVFromClient(redis.NewClient(opts)), nil
}

// NewRedisKVFromClient wraps an existing client.
func NewRedisKVFromClient(rdb *redis.Client) *RedisKV {
	return &RedisKV{rdb: rdb}
}

// Get returns the string stored under key.
func (r *RedisKV) Get(ctx context.Context, key string) (string, error) {
	value, err := r.rdb.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrNotFound
		}

		return "", fmt.Errorf("redis get %s: %w", key, err)
	}

	return value, nil
}

// Set stores value under key without expiration.
func (r *RedisKV) Set(ctx context.Context, key, value string) error {
	if err := r.rdb.Set(ctx, key, value, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}

	return nil
}

// Delete removes key.
func (r *RedisKV) Delete(ctx context.Context, key string) error {
	if err := r.rdb.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", key, err)
	}

	return nil
}

// Close releases the connection pool.
func (r *RedisKV) Close() error {
	return r.rdb.Close()
}
