package session

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

const DefaultKeyPrefix = "session:"

// RedisStorage implements fiber.Storage so session data survives restarts and
// is shared between instances.
type RedisStorage struct {
	client  redis.UniversalClient
	prefix  string
	timeout time.Duration
}

func NewRedisStorage(client redis.UniversalClient, prefix string) *RedisStorage {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return &RedisStorage{client: client, prefix: prefix, timeout: 3 * time.Second}
}

func (s *RedisStorage) ctx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), s.timeout)
}

// Get returns nil, nil for unknown keys as fiber.Storage requires.
func (s *RedisStorage) Get(key string) ([]byte, error) {
	if key == "" {
		return nil, nil
	}
	ctx, cancel := s.ctx()
	defer cancel()

	val, err := s.client.Get(ctx, s.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "get session")
	}
	return val, nil
}

func (s *RedisStorage) Set(key string, val []byte, exp time.Duration) error {
	if key == "" || len(val) == 0 {
		return nil
	}
	ctx, cancel := s.ctx()
	defer cancel()

	return errors.Wrap(s.client.Set(ctx, s.prefix+key, val, exp).Err(), "set session")
}

func (s *RedisStorage) Delete(key string) error {
	if key == "" {
		return nil
	}
	ctx, cancel := s.ctx()
	defer cancel()

	return errors.Wrap(s.client.Del(ctx, s.prefix+key).Err(), "delete session")
}

// Reset removes every session under the prefix and nothing else.
func (s *RedisStorage) Reset() error {
	ctx, cancel := s.ctx()
	defer cancel()

	iter := s.client.Scan(ctx, 0, s.prefix+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return errors.Wrap(err, "scan sessions")
	}
	if len(keys) == 0 {
		return nil
	}
	return errors.Wrap(s.client.Del(ctx, keys...).Err(), "reset sessions")
}

// Close is a no-op; the client belongs to the caller.
func (s *RedisStorage) Close() error {
	return nil
}
