package ratelimit

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

// Store counts hits per key inside a fixed window. Increment returns the
// count including the current hit.
type Store interface {
	Increment(ctx context.Context, key string, window time.Duration) (int64, error)
}

type memoryEntry struct {
	count       int64
	windowStart time.Time
}

// MemoryStore keeps counters in process. Expired entries are swept lazily on
// write, at most once per window.
type MemoryStore struct {
	mu        sync.Mutex
	entries   map[string]*memoryEntry
	lastSweep time.Time
	now       func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]*memoryEntry),
		now:     time.Now,
	}
}

func (s *MemoryStore) Increment(_ context.Context, key string, window time.Duration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if now.Sub(s.lastSweep) >= window {
		for k, e := range s.entries {
			if now.Sub(e.windowStart) >= window {
				delete(s.entries, k)
			}
		}
		s.lastSweep = now
	}

	entry, ok := s.entries[key]
	if !ok || now.Sub(entry.windowStart) >= window {
		s.entries[key] = &memoryEntry{count: 1, windowStart: now}
		return 1, nil
	}

	entry.count++
	return entry.count, nil
}

func (s *MemoryStore) size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// RedisStore shares counters between instances. The window starts with the
// first hit; any hit that finds the counter without a TTL sets it, so a lost
// EXPIRE cannot leave a key that never resets.
type RedisStore struct {
	client redis.UniversalClient
	prefix string
}

func NewRedisStore(client redis.UniversalClient, prefix string) *RedisStore {
	return &RedisStore{client: client, prefix: prefix}
}

func (s *RedisStore) Increment(ctx context.Context, key string, window time.Duration) (int64, error) {
	key = s.prefix + key

	var (
		incr *redis.IntCmd
		ttl  *redis.DurationCmd
	)
	if _, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, key)
		ttl = pipe.TTL(ctx, key)
		return nil
	}); err != nil {
		return 0, errors.WithMessage(err, "incr rate counter")
	}

	// TTL reports -1 for a key without expiry.
	if ttl.Val() < 0 {
		if err := s.client.Expire(ctx, key, window).Err(); err != nil {
			return 0, errors.WithMessage(err, "expire rate counter")
		}
	}

	return incr.Val(), nil
}
