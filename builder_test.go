package twauth

import (
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestBuildRequiresClientFactory(t *testing.T) {
	_, err := New().Build()
	if !errors.Is(err, ErrClientFactoryMissing) {
		t.Fatalf("expected ErrClientFactoryMissing, got %v", err)
	}
}

func TestBuildRejectsInvalidConfig(t *testing.T) {
	cfg := defaultConfig()
	cfg.Cache.DefaultTTL = 0

	factory := &stubFactory{}
	_, err := New().WithConfig(cfg).WithClientFactory(factory.new).Build()
	if err == nil {
		t.Fatal("expected config validation error")
	}
}

func TestBuildRejectsMissingRedisAddr(t *testing.T) {
	cfg := defaultConfig()
	cfg.Store.Addr = ""

	factory := &stubFactory{}
	_, err := New().WithConfig(cfg).WithClientFactory(factory.new).Build()
	if !errors.Is(err, ErrRedisMissing) {
		t.Fatalf("expected ErrRedisMissing, got %v", err)
	}
}

func TestBuilderIsSingleUse(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis start: %v", err)
	}
	defer mr.Close()
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	factory := &stubFactory{}
	b := New().WithRedis(rdb).WithClientFactory(factory.new)

	resolver, err := b.Build()
	if err != nil {
		t.Fatalf("first build: %v", err)
	}
	defer resolver.Close()

	if _, err := b.Build(); err == nil {
		t.Fatal("expected second build to fail")
	}
}

func TestNilResolverIsInert(t *testing.T) {
	var r *Resolver

	if _, err := r.ResolveSession(nil, Credentials{Username: "alice"}); !errors.Is(err, ErrResolverNotReady) {
		t.Fatalf("expected ErrResolverNotReady, got %v", err)
	}
	r.Close()
	if got := r.AuditDropped(); got != 0 {
		t.Fatalf("nil resolver dropped = %d", got)
	}
	if snap := r.MetricsSnapshot(); len(snap.Counters) != 0 {
		t.Fatalf("nil resolver snapshot = %v", snap)
	}
}
