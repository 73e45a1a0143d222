package twauth

import (
	"context"
	"fmt"
	"log"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/scrapedeck/twauth/cache"
	"github.com/scrapedeck/twauth/session"
)

// Resolver defines a public type used by twauth APIs.
//
// Resolver instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Resolver struct {
	config   Config
	factory  ClientFactory
	registry *instanceRegistry
	jars     *jarCache
	sessions *session.Store
	cache    *cache.Store
	audit    *auditDispatcher
	metrics  *Metrics
	group    singleflight.Group
}

// ResolveSession walks the credential cascade for the supplied identity and
// returns the first session handle that validates:
//
//  1. an already-registered in-process handle,
//  2. a caller-supplied cookie jar,
//  3. the process-cached last-good jar,
//  4. the persisted jar from the session store,
//  5. a fresh login handshake.
//
// Tiers 1 through 4 fail soft: a failed probe or a degraded backend is logged and the
// cascade continues. Only an exhausted fresh login returns an error, wrapping
// [ErrAuthenticationFailed] with the platform's reason.
//
// Resolutions for different identities never block each other. Concurrent
// resolutions for the same identity race last-write-wins unless
// Config.Resolver.CoalesceResolutions shares one in-flight cascade per
// identity.
func (r *Resolver) ResolveSession(ctx context.Context, creds Credentials) (*SessionHandle, error) {
	if r == nil {
		return nil, ErrResolverNotReady
	}
	if creds.Username == "" {
		return nil, ErrIdentityRequired
	}

	if !r.config.Resolver.CoalesceResolutions {
		return r.resolve(ctx, &creds)
	}

	v, err, _ := r.group.Do(creds.Username, func() (interface{}, error) {
		return r.resolve(ctx, &creds)
	})
	if err != nil {
		return nil, err
	}
	handle, _ := v.(*SessionHandle)
	return handle, nil
}

func (r *Resolver) resolve(ctx context.Context, creds *Credentials) (*SessionHandle, error) {
	for _, tier := range r.tiers() {
		r.audit.Emit(ctx, AuditEvent{
			EventType: EventTierAttempt,
			Identity:  creds.Username,
			Tier:      tier.name,
		})

		handle, err := tier.attempt(ctx, creds)
		if err != nil {
			if tier.terminal {
				return nil, err
			}
			r.metrics.Inc(MetricSoftTierFailure)
			r.audit.Emit(ctx, AuditEvent{
				EventType: EventTierSoftFail,
				Identity:  creds.Username,
				Tier:      tier.name,
				Error:     err.Error(),
			})
			log.Print("twauth: resolution tier " + tier.name + " failed, falling through")
			continue
		}
		if handle == nil {
			// Tier not applicable to these credentials.
			continue
		}

		r.metrics.Inc(tier.metric)
		r.audit.Emit(ctx, AuditEvent{
			EventType: EventTierSuccess,
			Identity:  creds.Username,
			Tier:      tier.name,
			Success:   true,
		})
		return handle, nil
	}

	// Unreachable while the fresh-login tier is terminal; kept so a future
	// reordering cannot silently return a nil handle.
	return nil, fmt.Errorf("%w: cascade exhausted", ErrAuthenticationFailed)
}

// Close describes the close operation and its observable behavior.
//
// Close may return an error when input validation, dependency calls, or security checks fail.
// Close does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (r *Resolver) Close() {
	if r == nil {
		return
	}
	if r.audit != nil {
		r.audit.Close()
	}
}

// AuditDropped describes the auditdropped operation and its observable behavior.
//
// AuditDropped may return an error when input validation, dependency calls, or security checks fail.
// AuditDropped does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (r *Resolver) AuditDropped() uint64 {
	if r == nil || r.audit == nil {
		return 0
	}
	return r.audit.Dropped()
}

// MetricsSnapshot describes the metricssnapshot operation and its observable behavior.
//
// MetricsSnapshot may return an error when input validation, dependency calls, or security checks fail.
// MetricsSnapshot does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (r *Resolver) MetricsSnapshot() MetricsSnapshot {
	if r == nil || r.metrics == nil {
		return MetricsSnapshot{
			Counters: map[MetricID]uint64{},
		}
	}
	return r.metrics.Snapshot()
}

// StorePing returns a point-in-time availability check of the shared
// persistence backend and its observed latency.
func (r *Resolver) StorePing(ctx context.Context) (time.Duration, error) {
	if r == nil || r.sessions == nil {
		return 0, ErrResolverNotReady
	}
	return r.sessions.Ping(ctx)
}
