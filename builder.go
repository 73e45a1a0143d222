package twauth

import (
	"errors"

	"github.com/redis/go-redis/v9"

	"github.com/scrapedeck/twauth/cache"
	"github.com/scrapedeck/twauth/session"
)

// Builder defines a public type used by twauth APIs.
//
// Builder instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Builder struct {
	config  Config
	redis   redis.UniversalClient
	factory ClientFactory

	auditSink AuditSink

	built bool
}

// New describes the new operation and its observable behavior.
//
// New may return an error when input validation, dependency calls, or security checks fail.
// New does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func New() *Builder {
	return &Builder{
		config: defaultConfig(),
	}
}

// WithConfig describes the withconfig operation and its observable behavior.
//
// WithConfig may return an error when input validation, dependency calls, or security checks fail.
// WithConfig does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithRedis injects a pre-built Redis client, bypassing Config.Store
// connection settings. Useful for tests and for sharing a client across
// components.
func (b *Builder) WithRedis(client redis.UniversalClient) *Builder {
	b.redis = client
	return b
}

// WithClientFactory describes the withclientfactory operation and its observable behavior.
//
// WithClientFactory may return an error when input validation, dependency calls, or security checks fail.
// WithClientFactory does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithClientFactory(f ClientFactory) *Builder {
	b.factory = f
	return b
}

// WithAuditSink describes the withauditsink operation and its observable behavior.
//
// WithAuditSink may return an error when input validation, dependency calls, or security checks fail.
// WithAuditSink does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	return b
}

// WithMetricsEnabled describes the withmetricsenabled operation and its observable behavior.
//
// WithMetricsEnabled may return an error when input validation, dependency calls, or security checks fail.
// WithMetricsEnabled does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// Build describes the build operation and its observable behavior.
//
// Build may return an error when input validation, dependency calls, or security checks fail.
// Build does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) Build() (*Resolver, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}

	cfg := cloneConfig(b.config)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if b.factory == nil {
		return nil, ErrClientFactoryMissing
	}

	rdb := b.redis
	if rdb == nil {
		if cfg.Store.Addr == "" {
			return nil, ErrRedisMissing
		}
		rdb = redis.NewClient(&redis.Options{
			Addr:         cfg.Store.Addr,
			Password:     cfg.Store.Password,
			DB:           cfg.Store.DB,
			DialTimeout:  cfg.Store.DialTimeout,
			ReadTimeout:  cfg.Store.ReadTimeout,
			WriteTimeout: cfg.Store.WriteTimeout,
		})
	}

	r := &Resolver{
		config:   cfg,
		factory:  b.factory,
		registry: newInstanceRegistry(),
		jars:     newJarCache(),
		sessions: session.NewStore(rdb, cfg.Session.RedisPrefix),
		cache:    cache.NewStore(rdb, cfg.Cache.RedisPrefix),
		audit:    newAuditDispatcher(cfg.Audit, b.auditSink),
		metrics:  NewMetrics(cfg.Metrics),
	}

	b.built = true
	return r, nil
}
