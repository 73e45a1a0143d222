package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newCacheStoreTest(t *testing.T) (*Store, *miniredis.Miniredis, func()) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis start: %v", err)
	}
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := NewStore(rdb, "twc")
	return store, mr, func() {
		rdb.Close()
		mr.Close()
	}
}

func TestSetThenImmediateGetReturnsPayload(t *testing.T) {
	store, _, done := newCacheStoreTest(t)
	defer done()
	ctx := context.Background()

	payload := []byte(`{"bio":"x"}`)
	if err := store.Set(ctx, "alice", "profile", payload, time.Second); err != nil {
		t.Fatalf("set: %v", err)
	}

	got, ok, err := store.Get(ctx, "alice", "profile", time.Second)
	if err != nil || !ok {
		t.Fatalf("expected fresh hit, ok=%v err=%v", ok, err)
	}
	if string(got) != string(payload) {
		t.Fatalf("payload changed: %s", got)
	}
}

func TestGetAfterTTLElapsedIsAMiss(t *testing.T) {
	store, _, done := newCacheStoreTest(t)
	defer done()
	ctx := context.Background()

	if err := store.Set(ctx, "alice", "profile", []byte(`{"bio":"x"}`), 50*time.Millisecond); err != nil {
		t.Fatalf("set: %v", err)
	}

	time.Sleep(80 * time.Millisecond)

	_, ok, err := store.Get(ctx, "alice", "profile", 50*time.Millisecond)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if ok {
		t.Fatal("expected stale entry to read as a miss")
	}
}

func TestStaleEntryIsNotDeleted(t *testing.T) {
	store, mr, done := newCacheStoreTest(t)
	defer done()
	ctx := context.Background()

	if err := store.Set(ctx, "alice", "profile", []byte(`{"bio":"x"}`), 10*time.Millisecond); err != nil {
		t.Fatalf("set: %v", err)
	}

	time.Sleep(30 * time.Millisecond)

	if _, ok, _ := store.Get(ctx, "alice", "profile", 10*time.Millisecond); ok {
		t.Fatal("expected a stale miss")
	}
	if !mr.Exists("twc:profile:alice") {
		t.Fatal("stale row must stay until overwritten")
	}

	// A longer reader-supplied TTL still sees the same row.
	if _, ok, err := store.Get(ctx, "alice", "profile", time.Hour); err != nil || !ok {
		t.Fatalf("expected hit under longer ttl, ok=%v err=%v", ok, err)
	}
}

func TestCompositeKeySeparatesKinds(t *testing.T) {
	store, _, done := newCacheStoreTest(t)
	defer done()
	ctx := context.Background()

	if err := store.Set(ctx, "alice", "profile", []byte(`{"k":"p"}`), time.Minute); err != nil {
		t.Fatalf("set profile: %v", err)
	}
	if err := store.Set(ctx, "alice", "timeline", []byte(`{"k":"t"}`), time.Minute); err != nil {
		t.Fatalf("set timeline: %v", err)
	}

	got, ok, err := store.Get(ctx, "alice", "timeline", time.Minute)
	if err != nil || !ok {
		t.Fatalf("timeline get, ok=%v err=%v", ok, err)
	}
	if string(got) != `{"k":"t"}` {
		t.Fatalf("kind collision: %s", got)
	}
}

func TestLastWriterWins(t *testing.T) {
	store, _, done := newCacheStoreTest(t)
	defer done()
	ctx := context.Background()

	if err := store.Set(ctx, "q", "search", []byte(`{"page":1}`), time.Minute); err != nil {
		t.Fatalf("first set: %v", err)
	}
	if err := store.Set(ctx, "q", "search", []byte(`{"page":2}`), time.Minute); err != nil {
		t.Fatalf("second set: %v", err)
	}

	got, ok, err := store.Get(ctx, "q", "search", time.Minute)
	if err != nil || !ok {
		t.Fatalf("get, ok=%v err=%v", ok, err)
	}
	if string(got) != `{"page":2}` {
		t.Fatalf("expected last write, got %s", got)
	}
}

func TestSetRejectsInvalidPayload(t *testing.T) {
	store, _, done := newCacheStoreTest(t)
	defer done()

	err := store.Set(context.Background(), "alice", "profile", []byte("not-json"), time.Minute)
	if !errors.Is(err, ErrEntryCorrupt) {
		t.Fatalf("expected ErrEntryCorrupt, got %v", err)
	}
}

func TestUnavailableBackendWrapsSentinel(t *testing.T) {
	store, mr, done := newCacheStoreTest(t)
	defer done()
	mr.Close()

	if err := store.Set(context.Background(), "alice", "profile", []byte(`{}`), time.Minute); !errors.Is(err, ErrRedisUnavailable) {
		t.Fatalf("expected ErrRedisUnavailable on set, got %v", err)
	}
	if _, _, err := store.Get(context.Background(), "alice", "profile", time.Minute); !errors.Is(err, ErrRedisUnavailable) {
		t.Fatalf("expected ErrRedisUnavailable on get, got %v", err)
	}
}
