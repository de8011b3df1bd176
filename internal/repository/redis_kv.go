package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	appErrors "github.com/noah-isme/hostelflow-api/pkg/errors"
)

// RedisKV stores values as plain Redis strings without expiry.
type RedisKV struct {
	client *redis.Client
	prefix string
	logger *zap.Logger
}

// NewRedisKV constructs a Redis-backed store. prefix namespaces every key.
func NewRedisKV(client *redis.Client, prefix string, logger *zap.Logger) *RedisKV {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisKV{client: client, prefix: prefix, logger: logger}
}

func (r *RedisKV) key(k string) string {
	return r.prefix + k
}

// Get fetches the raw value.
func (r *RedisKV) Get(ctx context.Context, key string) ([]byte, error) {
	raw, err := r.client.Get(ctx, r.key(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, appErrors.ErrKeyNotFound
		}
		return nil, fmt.Errorf("redis get %s: %w", key, err)
	}
	return raw, nil
}

// Set overwrites the value.
func (r *RedisKV) Set(ctx context.Context, key string, value []byte) error {
	if err := r.client.Set(ctx, r.key(key), value, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	r.logger.Debug("redis key written", zap.String("key", key), zap.Int("bytes", len(value)))
	return nil
}

// Delete removes the key.
func (r *RedisKV) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, r.key(key)).Err(); err != nil {
		return fmt.Errorf("redis delete %s: %w", key, err)
	}
	return nil
}

// Close releases the underlying Redis connection.
func (r *RedisKV) Close() error {
	return r.client.Close()
}
