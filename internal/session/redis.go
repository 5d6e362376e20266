package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "tarot:session:"

// RedisStore persists sessions in Redis with a server-side TTL. It is the
// production backend: sessions survive restarts and expiry is enforced by
// Redis itself.
type RedisStore struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisStore dials the Redis URL and verifies connectivity. Callers fall
// back to MemoryStore when this returns an error, so startup never depends
// on Redis being reachable.
func NewRedisStore(url string, ttl time.Duration) (*RedisStore, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}

	rdb := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &RedisStore{rdb: rdb, ttl: ttl}, nil
}

func (r *RedisStore) key(userID string) string {
	return keyPrefix + userID
}

func (r *RedisStore) Get(ctx context.Context, userID string) (*Session, error) {
	data, err := r.rdb.Get(ctx, r.key(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis store: get session %s: %w", userID, err)
	}

	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("redis store: decode session %s: %w", userID, err)
	}
	return &s, nil
}

func (r *RedisStore) Set(ctx context.Context, userID string, s *Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("redis store: encode session %s: %w", userID, err)
	}
	if err := r.rdb.Set(ctx, r.key(userID), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis store: set session %s: %w", userID, err)
	}
	return nil
}

func (r *RedisStore) Delete(ctx context.Context, userID string) error {
	if err := r.rdb.Del(ctx, r.key(userID)).Err(); err != nil {
		return fmt.Errorf("redis store: delete session %s: %w", userID, err)
	}
	return nil
}

func (r *RedisStore) Exists(ctx context.Context, userID string) (bool, error) {
	n, err := r.rdb.Exists(ctx, r.key(userID)).Result()
	if err != nil {
		return false, fmt.Errorf("redis store: exists %s: %w", userID, err)
	}
	return n > 0, nil
}

// Close releases the underlying connection pool.
func (r *RedisStore) Close() error {
	return r.rdb.Close()
}
