package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"scholarsync/internal/middleware"
	"scholarsync/internal/observability"

	"github.com/redis/go-redis/v9"
)

// Store is a nil-safe JSON cache over Redis. A Store without a client
// behaves as a permanent miss and ignores writes.
type Store struct {
	rdb redis.Cmdable
}

// NewStore wraps rdb. Passing nil yields a disabled store.
func NewStore(rdb *redis.Client) *Store {
	if rdb == nil {
		return &Store{}
	}
	return &Store{rdb: rdb}
}

// Enabled reports whether a Redis client backs the store.
func (s *Store) Enabled() bool {
	return s != nil && s.rdb != nil
}

// GetJSON loads key into dest. It reports false on a miss.
func (s *Store) GetJSON(ctx context.Context, key string, dest any) (bool, error) {
	if !s.Enabled() {
		return false, nil
	}
	raw, err := s.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return false, err
	}
	return true, nil
}

// SetJSON stores v under key for ttl.
func (s *Store) SetJSON(ctx context.Context, key string, v any, ttl time.Duration) error {
	if !s.Enabled() {
		return nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, key, raw, ttl).Err()
}

// Aside serves key from Redis, or calls fetch to fill dest and stores the
// result. Redis failures degrade to calling fetch; fetch errors are returned
// and nothing is cached.
func (s *Store) Aside(ctx context.Context, key string, dest any, ttl time.Duration, fetch func(context.Context) error) error {
	family := keyFamily(key)

	found, err := s.GetJSON(ctx, key, dest)
	switch {
	case err != nil:
		observability.RecordCache(family, "error")
		middleware.Logger.WarnContext(ctx, "cache read failed", slog.String("key", key), slog.String("error", err.Error()))
	case found:
		observability.RecordCache(family, "hit")
		return nil
	case s.Enabled():
		observability.RecordCache(family, "miss")
	}

	if err := fetch(ctx); err != nil {
		return err
	}

	if err := s.SetJSON(ctx, key, dest, ttl); err != nil {
		middleware.Logger.WarnContext(ctx, "cache write failed", slog.String("key", key), slog.String("error", err.Error()))
	}
	return nil
}

// Invalidate deletes keys, logging rather than failing on Redis errors.
func (s *Store) Invalidate(ctx context.Context, keys ...string) {
	if !s.Enabled() || len(keys) == 0 {
		return
	}
	if err := s.rdb.Del(ctx, keys...).Err(); err != nil {
		middleware.Logger.WarnContext(ctx, "cache invalidation failed",
			slog.Any("keys", keys), slog.String("error", err.Error()))
	}
}

// Generation reads a counter used to version a family of keys.
func (s *Store) Generation(ctx context.Context, key string) int64 {
	if !s.Enabled() {
		return 0
	}
	n, err := s.rdb.Get(ctx, key).Int64()
	if err != nil {
		return 0
	}
	return n
}

// Bump increments a generation counter.
func (s *Store) Bump(ctx context.Context, key string) {
	if !s.Enabled() {
		return
	}
	if err := s.rdb.Incr(ctx, key).Err(); err != nil {
		middleware.Logger.WarnContext(ctx, "cache generation bump failed", slog.String("key", key), slog.String("error", err.Error()))
	}
}

// MarkOnce sets key for ttl and reports whether it was newly set. Without
// Redis every call reports true.
func (s *Store) MarkOnce(ctx context.Context, key string, ttl time.Duration) bool {
	if !s.Enabled() {
		return true
	}
	ok, err := s.rdb.SetNX(ctx, key, 1, ttl).Result()
	if err != nil {
		return true
	}
	return ok
}

func keyFamily(key string) string {
	family, _, _ := strings.Cut(key, ":")
	return family
}
