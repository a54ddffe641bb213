// internal/cache/redis.go
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ConnectRedis opens a client for addr/db and pings it.
func ConnectRedis(addr string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", addr, err)
	}
	return rdb, nil
}

// RedisStore keeps each room in one Redis hash.
type RedisStore struct {
	rdb redis.Cmdable
}

// NewRedisStore wraps a Redis client (or any Cmdable, such as a pipeline-free ring or cluster client).
func NewRedisStore(rdb redis.Cmdable) *RedisStore {
	return &RedisStore{rdb: rdb}
}

func (s *RedisStore) GetField(ctx context.Context, key, field string) ([]byte, bool, error) {
	b, err := s.rdb.HGet(ctx, key, field).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("HGET %s %s: %w", key, field, err)
	}
	return b, true, nil
}

func (s *RedisStore) SetField(ctx context.Context, key, field string, value []byte) error {
	if err := s.rdb.HSet(ctx, key, field, value).Err(); err != nil {
		return fmt.Errorf("HSET %s %s: %w", key, field, err)
	}
	return nil
}

func (s *RedisStore) IncrField(ctx context.Context, key, field string, by int64) (int64, error) {
	n, err := s.rdb.HIncrBy(ctx, key, field, by).Result()
	if err != nil {
		return 0, fmt.Errorf("HINCRBY %s %s: %w", key, field, err)
	}
	return n, nil
}

func (s *RedisStore) DeleteFields(ctx context.Context, key string, fields ...string) error {
	if len(fields) == 0 {
		return nil
	}
	if err := s.rdb.HDel(ctx, key, fields...).Err(); err != nil {
		return fmt.Errorf("HDEL %s: %w", key, err)
	}
	return nil
}

func (s *RedisStore) DeleteRoom(ctx context.Context, key string) error {
	if err := s.rdb.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("DEL %s: %w", key, err)
	}
	return nil
}
