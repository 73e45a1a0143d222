package session

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

// ErrRecordCorrupt is returned when a persisted session row cannot be decoded.
var ErrRecordCorrupt = errors.New("session record corrupt")

// Store is a Redis-backed store of the last validated cookie jar per
// identity. Reads are consulted only after the in-process tiers miss; writes
// run after any tier validates a jar, so the durable record always tracks the
// freshest known-good credential.
type Store struct {
	redis  redis.UniversalClient
	prefix string
}

// NewStore creates a session [Store] backed by the given Redis client.
// prefix sets the Redis key namespace.
func NewStore(redis redis.UniversalClient, prefix string) *Store {
	return &Store{
		redis:  redis,
		prefix: prefix,
	}
}

func (s *Store) key(identity string) string {
	return s.prefix + ":" + identity
}

// Put upserts the record for identity with the current timestamp. No TTL is
// applied: session records are never deleted by normal operation.
//
//	Performance: 1 Redis SET.
func (s *Store) Put(ctx context.Context, identity string, jar []byte) error {
	if !json.Valid(jar) {
		return fmt.Errorf("%w: jar is not valid JSON", ErrRecordCorrupt)
	}

	data, err := json.Marshal(envelope{
		Jar:       json.RawMessage(jar),
		UpdatedAt: time.Now().UnixMilli(),
	})
	if err != nil {
		return err
	}

	if err := s.redis.Set(ctx, s.key(identity), data, 0).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	return nil
}

// Get retrieves the record for identity. Returns redis.Nil when no record
// exists; the caller treats [ErrRedisUnavailable] as a miss and degrades.
//
//	Performance: 1 Redis GET.
func (s *Store) Get(ctx context.Context, identity string) (*Record, error) {
	data, err := s.redis.Get(ctx, s.key(identity)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRecordCorrupt, err)
	}

	return &Record{
		Identity:  identity,
		Jar:       []byte(env.Jar),
		UpdatedAt: time.UnixMilli(env.UpdatedAt),
	}, nil
}

// Ping returns a point-in-time Redis availability check and latency.
func (s *Store) Ping(ctx context.Context) (time.Duration, error) {
	start := time.Now()
	if err := s.redis.Ping(ctx).Err(); err != nil {
		return time.Since(start), fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return time.Since(start), nil
}
