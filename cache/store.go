package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrRedisUnavailable is an exported constant or variable used by the session resolver.
var ErrRedisUnavailable = errors.New("redis unavailable")

// ErrEntryCorrupt is returned when a cached row cannot be decoded.
var ErrEntryCorrupt = errors.New("cache entry corrupt")

// entry is the on-wire Redis value. Both the write time and the derived
// expiry are persisted; the expiry is diagnostic only — validity is always
// judged against the TTL the reader supplies.
type entry struct {
	Payload   json.RawMessage `json:"payload"`
	StoredAt  int64           `json:"stored_at_ms"`
	ExpiresAt int64           `json:"expires_at_ms,omitempty"`
}

// Store is a lazily-expiring TTL cache over opaque payloads. Writes are
// plain upserts with no read-modify-write transaction: concurrent writers to
// the same composite key interleave freely and the last one wins.
type Store struct {
	redis  redis.UniversalClient
	prefix string
}

// NewStore creates a cache [Store] backed by the given Redis client.
// prefix sets the Redis key namespace.
func NewStore(redis redis.UniversalClient, prefix string) *Store {
	return &Store{
		redis:  redis,
		prefix: prefix,
	}
}

func (s *Store) key(subject, kind string) string {
	return s.prefix + ":" + kind + ":" + subject
}

// Set upserts the entry for (subject, kind) with the current timestamp.
// Rows carry no Redis-level TTL; staleness is decided by the reader.
//
//	Performance: 1 Redis SET.
func (s *Store) Set(ctx context.Context, subject, kind string, payload []byte, ttl time.Duration) error {
	if !json.Valid(payload) {
		return fmt.Errorf("%w: payload is not valid JSON", ErrEntryCorrupt)
	}

	now := time.Now()
	e := entry{
		Payload:  json.RawMessage(payload),
		StoredAt: now.UnixMilli(),
	}
	if ttl > 0 {
		e.ExpiresAt = now.Add(ttl).UnixMilli()
	}

	data, err := json.Marshal(e)
	if err != nil {
		return err
	}

	if err := s.redis.Set(ctx, s.key(subject, kind), data, 0).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	return nil
}

// Get retrieves the entry for (subject, kind). The second return is false
// both when no row exists and when the row's age exceeds ttl; a stale row is
// left in place to be overwritten by the next successful Set.
//
//	Performance: 1 Redis GET.
func (s *Store) Get(ctx context.Context, subject, kind string, ttl time.Duration) ([]byte, bool, error) {
	data, err := s.redis.Get(ctx, s.key(subject, kind)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	var e entry
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, false, fmt.Errorf("%w: %v", ErrEntryCorrupt, err)
	}

	if ttl > 0 && time.Since(time.UnixMilli(e.StoredAt)) > ttl {
		return nil, false, nil
	}

	return []byte(e.Payload), true, nil
}
