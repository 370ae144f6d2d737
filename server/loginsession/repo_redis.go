package loginsession

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var _ Store = (*RedisStore)(nil)

// RedisStore keeps each session record as a Redis hash at "<prefix>:<token>". Every write
// refreshes the key's expiry.
type RedisStore struct {
	rdb    redis.UniversalClient
	prefix string
	ttl    time.Duration
}

func NewRedisStore(rdb redis.UniversalClient, prefix string, ttl time.Duration) *RedisStore {
	if prefix == "" {
		prefix = "session"
	}
	return &RedisStore{rdb: rdb, prefix: prefix, ttl: ttl}
}

func (s *RedisStore) key(token string) string {
	return s.prefix + ":" + token
}

func (s *RedisStore) Get(ctx context.Context, token, field string) (string, bool, error) {
	if token == "" {
		return "", false, ErrTokenRequired
	}
	v, err := s.rdb.HGet(ctx, s.key(token), field).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("[RedisStore Get] %s: %w", field, err)
	}
	return v, true, nil
}

func (s *RedisStore) Set(ctx context.Context, token, field, value string) error {
	if token == "" {
		return ErrTokenRequired
	}
	key := s.key(token)
	_, err := s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key, field, value)
		if s.ttl > 0 {
			pipe.Expire(ctx, key, s.ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("[RedisStore Set] %s: %w", field, err)
	}
	return nil
}

func (s *RedisStore) Remove(ctx context.Context, token, field string) error {
	if token == "" {
		return ErrTokenRequired
	}
	if err := s.rdb.HDel(ctx, s.key(token), field).Err(); err != nil {
		return fmt.Errorf("[RedisStore Remove] %s: %w", field, err)
	}
	return nil
}

// Take runs HGET and HDEL inside one MULTI/EXEC so a concurrent Take cannot read the same value.
func (s *RedisStore) Take(ctx context.Context, token, field string) (string, bool, error) {
	if token == "" {
		return "", false, ErrTokenRequired
	}
	key := s.key(token)
	var get *redis.StringCmd
	_, err := s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		get = pipe.HGet(ctx, key, field)
		pipe.HDel(ctx, key, field)
		return nil
	})
	if err != nil && !errors.Is(err, redis.Nil) {
		return "", false, fmt.Errorf("[RedisStore Take] %s: %w", field, err)
	}
	v, err := get.Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("[RedisStore Take] %s: %w", field, err)
	}
	return v, true, nil
}

func (s *RedisStore) Destroy(ctx context.Context, token string) error {
	if token == "" {
		return ErrTokenRequired
	}
	if err := s.rdb.Del(ctx, s.key(token)).Err(); err != nil {
		return fmt.Errorf("[RedisStore Destroy]: %w", err)
	}
	return nil
}
