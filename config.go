package twauth

import (
	"errors"
	"time"
)

// Config defines a public type used by twauth APIs.
//
// Config instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Config struct {
	Store    StoreConfig
	Session  SessionConfig
	Cache    CacheConfig
	Resolver ResolverConfig
	Query    QueryConfig
	Audit    AuditConfig
	Metrics  MetricsConfig
}

/*
====================================
STORE CONFIG
====================================
*/

// StoreConfig defines a public type used by twauth APIs.
//
// StoreConfig bounds the shared Redis backend used by both the session store
// and the result cache. A failed connect surfaces as a store-unavailable
// condition instead of hanging the resolution.
type StoreConfig struct {
	Addr         string
	Password     string
	DB           int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

/*
====================================
SESSION CONFIG
====================================
*/

// SessionConfig defines a public type used by twauth APIs.
//
// SessionConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type SessionConfig struct {
	RedisPrefix string
}

/*
====================================
CACHE CONFIG
====================================
*/

// CacheConfig defines a public type used by twauth APIs.
//
// DefaultTTL covers comparatively stable data (profiles); VolatileTTL covers
// timelines and search results. Entries expire lazily at read time and are
// never actively evicted.
type CacheConfig struct {
	RedisPrefix string
	DefaultTTL  time.Duration
	VolatileTTL time.Duration
}

/*
====================================
RESOLVER CONFIG
====================================
*/

// ResolverConfig defines a public type used by twauth APIs.
//
// ResolverConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type ResolverConfig struct {
	// ProbeTimeout bounds each login-state probe. Zero disables the bound.
	ProbeTimeout time.Duration
	// CoalesceResolutions serializes concurrent resolutions for the same
	// identity through a single in-flight cascade. Off by default: duplicate
	// fresh logins for the same identity are an accepted last-write-wins race.
	CoalesceResolutions bool
}

/*
====================================
QUERY CONFIG
====================================
*/

// QueryConfig defines a public type used by twauth APIs.
//
// QueryConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type QueryConfig struct {
	// SearchTimeout bounds a platform search; on expiry the operation is
	// abandoned and an empty result is returned rather than an error.
	SearchTimeout time.Duration
}

/*
====================================
AUDIT CONFIG
====================================
*/

// AuditConfig defines a public type used by twauth APIs.
//
// AuditConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

/*
====================================
METRICS CONFIG
====================================
*/

// MetricsConfig defines a public type used by twauth APIs.
//
// MetricsConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type MetricsConfig struct {
	Enabled bool
}

// DefaultConfig returns the baseline configuration. Callers mutate the copy
// and pass it to [Builder.WithConfig].
func DefaultConfig() Config {
	return defaultConfig()
}

func defaultConfig() Config {
	return Config{
		Store: StoreConfig{
			Addr:         "localhost:6379",
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		},
		Session: SessionConfig{
			RedisPrefix: "tws",
		},
		Cache: CacheConfig{
			RedisPrefix: "twc",
			DefaultTTL:  12 * time.Hour,
			VolatileTTL: 30 * time.Minute,
		},
		Resolver: ResolverConfig{
			ProbeTimeout:        10 * time.Second,
			CoalesceResolutions: false,
		},
		Query: QueryConfig{
			SearchTimeout: 30 * time.Second,
		},
		Audit: AuditConfig{
			Enabled:    false,
			BufferSize: 1024,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled: false,
		},
	}
}

func cloneConfig(cfg Config) Config {
	// All sections are plain value types; a shallow copy is a deep copy.
	return cfg
}

/*
====================================
VALIDATION
====================================
*/

// Validate describes the validate operation and its observable behavior.
//
// Validate may return an error when input validation, dependency calls, or security checks fail.
// Validate does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Config) Validate() error {
	// Store
	if c.Store.DialTimeout <= 0 {
		return errors.New("Store DialTimeout must be > 0")
	}
	if c.Store.ReadTimeout <= 0 {
		return errors.New("Store ReadTimeout must be > 0")
	}
	if c.Store.WriteTimeout <= 0 {
		return errors.New("Store WriteTimeout must be > 0")
	}

	// Session
	if c.Session.RedisPrefix == "" {
		return errors.New("Session RedisPrefix must not be empty")
	}

	// Cache
	if c.Cache.RedisPrefix == "" {
		return errors.New("Cache RedisPrefix must not be empty")
	}
	if c.Cache.RedisPrefix == c.Session.RedisPrefix {
		return errors.New("Cache RedisPrefix must differ from Session RedisPrefix")
	}
	if c.Cache.DefaultTTL <= 0 {
		return errors.New("Cache DefaultTTL must be > 0")
	}
	if c.Cache.VolatileTTL <= 0 {
		return errors.New("Cache VolatileTTL must be > 0")
	}

	// Resolver
	if c.Resolver.ProbeTimeout < 0 {
		return errors.New("Resolver ProbeTimeout must be >= 0")
	}

	// Query
	if c.Query.SearchTimeout <= 0 {
		return errors.New("Query SearchTimeout must be > 0")
	}

	// Audit
	if c.Audit.Enabled && c.Audit.BufferSize <= 0 {
		return errors.New("Audit BufferSize must be > 0 when Audit is enabled")
	}

	return nil
}
