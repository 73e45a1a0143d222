package twauth

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/scrapedeck/twauth/cache"
)

// Cache entry kinds. Together with the subject they form the composite key.
const (
	kindProfile  = "profile"
	kindTimeline = "timeline"
	kindSearch   = "search"
)

// Scraper defines a public type used by twauth APIs.
//
// Scraper wraps a resolved session handle with the memoization layer. Stable
// data (profiles) defaults to Config.Cache.DefaultTTL; volatile data
// (timelines, searches) to Config.Cache.VolatileTTL. Payloads pass through
// opaquely in both directions.
type Scraper struct {
	handle  *SessionHandle
	cache   *cache.Store
	cfg     Config
	audit   *auditDispatcher
	metrics *Metrics
}

// Scraper binds a resolved handle to the resolver's cache and configuration.
func (r *Resolver) Scraper(handle *SessionHandle) *Scraper {
	if r == nil {
		return nil
	}
	return &Scraper{
		handle:  handle,
		cache:   r.cache,
		cfg:     r.config,
		audit:   r.audit,
		metrics: r.metrics,
	}
}

// FetchOptions defines a public type used by twauth APIs.
//
// FetchOptions instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type FetchOptions struct {
	// TTL overrides the kind's default freshness horizon. Zero keeps the default.
	TTL time.Duration
	// BypassCache skips both the read and the write side of the cache.
	BypassCache bool
}

// SearchResult defines a public type used by twauth APIs.
//
// SearchResult instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type SearchResult struct {
	Payload    []byte
	NextCursor string
}

// searchPage is the cached form of a first search page: the opaque payload
// plus the cursor needed to continue past it.
type searchPage struct {
	Payload    json.RawMessage `json:"payload"`
	NextCursor string          `json:"next_cursor,omitempty"`
}

// Profile fetches a user profile through the cache (default TTL; profiles
// are comparatively stable).
func (s *Scraper) Profile(ctx context.Context, username string, opts FetchOptions) ([]byte, error) {
	if s == nil || s.handle == nil {
		return nil, ErrResolverNotReady
	}
	if s.handle.Client() == nil {
		return nil, ErrSessionInvalid
	}
	return s.memoized(ctx, username, kindProfile, s.ttl(opts, s.cfg.Cache.DefaultTTL), opts.BypassCache,
		func(ctx context.Context) ([]byte, error) {
			return s.handle.Client().Profile(ctx, username)
		})
}

// Timeline fetches a user timeline through the cache (volatile TTL).
func (s *Scraper) Timeline(ctx context.Context, userID string, limit int, opts FetchOptions) ([]byte, error) {
	if s == nil || s.handle == nil {
		return nil, ErrResolverNotReady
	}
	if s.handle.Client() == nil {
		return nil, ErrSessionInvalid
	}
	return s.memoized(ctx, userID, kindTimeline, s.ttl(opts, s.cfg.Cache.VolatileTTL), opts.BypassCache,
		func(ctx context.Context) ([]byte, error) {
			return s.handle.Client().Timeline(ctx, userID, limit)
		})
}

// SearchPosts runs a platform search under the configured timeout budget.
// On budget expiry the search is abandoned and an empty result is returned
// rather than an error. Cursor-parameterized continuations never read or
// write the cache: a cached page can only correspond to the unparameterized
// first page of a query.
func (s *Scraper) SearchPosts(ctx context.Context, query string, limit int, cursor string, opts FetchOptions) (SearchResult, error) {
	if s == nil || s.handle == nil {
		return SearchResult{}, ErrResolverNotReady
	}
	if s.handle.Client() == nil {
		return SearchResult{}, ErrSessionInvalid
	}

	ctx, cancel := context.WithTimeout(ctx, s.cfg.Query.SearchTimeout)
	defer cancel()

	useCache := cursor == "" && !opts.BypassCache && s.cache != nil
	ttl := s.ttl(opts, s.cfg.Cache.VolatileTTL)

	if useCache {
		if data, ok, err := s.cache.Get(ctx, query, kindSearch, ttl); err != nil {
			s.metrics.Inc(MetricStoreUnavailable)
			log.Print("twauth: search cache read degraded to miss")
		} else if ok {
			var page searchPage
			if jsonErr := json.Unmarshal(data, &page); jsonErr == nil {
				s.metrics.Inc(MetricCacheHit)
				return SearchResult{Payload: []byte(page.Payload), NextCursor: page.NextCursor}, nil
			}
		}
		s.metrics.Inc(MetricCacheMiss)
	} else {
		s.metrics.Inc(MetricCacheBypass)
	}

	payload, next, err := s.handle.Client().SearchPosts(ctx, query, limit, cursor)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			// Availability over completeness: an expired budget yields an
			// empty page, not a caller-visible failure.
			s.metrics.Inc(MetricSearchTimeout)
			s.audit.Emit(context.WithoutCancel(ctx), AuditEvent{
				EventType: EventSearchTimedOut,
				Identity:  s.handle.Identity(),
				Metadata:  map[string]string{"query": query},
			})
			return SearchResult{}, nil
		}
		return SearchResult{}, err
	}

	if useCache {
		if data, mErr := json.Marshal(searchPage{Payload: payload, NextCursor: next}); mErr == nil {
			if err := s.cache.Set(ctx, query, kindSearch, data, ttl); err != nil {
				s.metrics.Inc(MetricStoreUnavailable)
				log.Print("twauth: search cache write failed")
			}
		}
	}

	return SearchResult{Payload: payload, NextCursor: next}, nil
}

func (s *Scraper) ttl(opts FetchOptions, fallback time.Duration) time.Duration {
	if opts.TTL > 0 {
		return opts.TTL
	}
	return fallback
}

func (s *Scraper) memoized(
	ctx context.Context,
	subject, kind string,
	ttl time.Duration,
	bypass bool,
	fetch func(context.Context) ([]byte, error),
) ([]byte, error) {
	if bypass || s.cache == nil {
		s.metrics.Inc(MetricCacheBypass)
		return fetch(ctx)
	}

	if payload, ok, err := s.cache.Get(ctx, subject, kind, ttl); err != nil {
		// Degraded read is a miss, never a failed fetch.
		s.metrics.Inc(MetricStoreUnavailable)
		log.Print("twauth: cache read degraded to miss")
	} else if ok {
		s.metrics.Inc(MetricCacheHit)
		return payload, nil
	}
	s.metrics.Inc(MetricCacheMiss)

	payload, err := fetch(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, subject, kind, payload, ttl); err != nil {
		s.metrics.Inc(MetricStoreUnavailable)
		log.Print("twauth: cache write failed")
	}

	return payload, nil
}
