package twauth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/scrapedeck/twauth/session"
)

// resolutionTier is one fallback strategy in the cascade. Tiers are plain
// data: evaluated strictly in declaration order, first success short-circuits
// the rest. attempt returns (nil, nil) when the tier is not applicable to the
// supplied credentials, which is neither a success nor a failure.
type resolutionTier struct {
	name     string
	terminal bool
	metric   MetricID
	attempt  func(ctx context.Context, creds *Credentials) (*SessionHandle, error)
}

func (r *Resolver) tiers() []resolutionTier {
	return []resolutionTier{
		{name: "existing_instance", metric: MetricTierExistingInstance, attempt: r.attemptExistingInstance},
		{name: "supplied_cookies", metric: MetricTierSuppliedCookies, attempt: r.attemptSuppliedCookies},
		{name: "process_cookies", metric: MetricTierProcessCookies, attempt: r.attemptProcessCookies},
		{name: "persisted_cookies", metric: MetricTierPersistedCookies, attempt: r.attemptPersistedCookies},
		{name: "fresh_login", terminal: true, metric: MetricFreshLoginSuccess, attempt: r.attemptFreshLogin},
	}
}

// attemptExistingInstance returns the registered handle unchanged when its
// probe still passes. No credential work, no store writes.
func (r *Resolver) attemptExistingInstance(ctx context.Context, creds *Credentials) (*SessionHandle, error) {
	handle, ok := r.registry.get(creds.Username)
	if !ok {
		return nil, nil
	}
	if !handle.probe(ctx, r.config.Resolver.ProbeTimeout) {
		return nil, fmt.Errorf("registered handle for %q failed the login-state probe", creds.Username)
	}
	return handle, nil
}

func (r *Resolver) attemptSuppliedCookies(ctx context.Context, creds *Credentials) (*SessionHandle, error) {
	if len(creds.Cookies) == 0 {
		return nil, nil
	}
	return r.adoptJar(ctx, creds.Username, creds.Cookies)
}

func (r *Resolver) attemptProcessCookies(ctx context.Context, creds *Credentials) (*SessionHandle, error) {
	jar, ok := r.jars.get(creds.Username)
	if !ok {
		return nil, nil
	}
	return r.adoptJar(ctx, creds.Username, jar)
}

func (r *Resolver) attemptPersistedCookies(ctx context.Context, creds *Credentials) (*SessionHandle, error) {
	rec, err := r.sessions.Get(ctx, creds.Username)
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		if errors.Is(err, session.ErrRedisUnavailable) {
			// Store down degrades this tier to a miss; the process stays live.
			r.metrics.Inc(MetricStoreUnavailable)
			r.audit.Emit(ctx, AuditEvent{
				EventType: EventStoreDegraded,
				Identity:  creds.Username,
				Error:     err.Error(),
			})
		}
		return nil, err
	}

	var jar []Cookie
	if err := json.Unmarshal(rec.Jar, &jar); err != nil {
		return nil, fmt.Errorf("%w: %v", session.ErrRecordCorrupt, err)
	}

	return r.adoptJar(ctx, creds.Username, jar)
}

// attemptFreshLogin is the terminal tier: a failed handshake ends the whole
// resolution, surfacing the platform's first structured error message
// verbatim when one is present.
func (r *Resolver) attemptFreshLogin(ctx context.Context, creds *Credentials) (*SessionHandle, error) {
	if creds.Password == "" {
		return nil, fmt.Errorf("%w: no password supplied for %q", ErrAuthenticationFailed, creds.Username)
	}

	var twoFactorCode string
	if creds.TwoFactorSecret != "" {
		code, err := oneTimeCode(creds.TwoFactorSecret, time.Now())
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrAuthenticationFailed, err)
		}
		twoFactorCode = code
	}

	client := r.factory()
	if err := client.Login(ctx, creds.Username, creds.Password, creds.Email, twoFactorCode); err != nil {
		r.metrics.Inc(MetricFreshLoginFailure)
		r.audit.Emit(ctx, AuditEvent{
			EventType: EventLoginFailure,
			Identity:  creds.Username,
			Tier:      "fresh_login",
			Error:     err.Error(),
		})
		return nil, fmt.Errorf("%w: %s", ErrAuthenticationFailed, loginFailureReason(err))
	}

	// Capture the handshake's jar and re-apply it normalized; the login
	// endpoint still issues cookies scoped to the deprecated domain.
	jar := normalizeCookieDomains(client.Cookies())
	client.SetCookies(jar)

	handle := newSessionHandle(creds.Username, client)
	r.audit.Emit(ctx, AuditEvent{
		EventType: EventLoginSuccess,
		Identity:  creds.Username,
		Tier:      "fresh_login",
		Success:   true,
	})
	r.commit(ctx, creds.Username, jar, handle)

	return handle, nil
}

// adoptJar applies a jar to a fresh session context and validates it with a
// probe. Domain normalization runs on every apply.
func (r *Resolver) adoptJar(ctx context.Context, identity string, jar []Cookie) (*SessionHandle, error) {
	normalized := normalizeCookieDomains(jar)

	client := r.factory()
	client.SetCookies(normalized)

	handle := newSessionHandle(identity, client)
	if !handle.probe(ctx, r.config.Resolver.ProbeTimeout) {
		return nil, fmt.Errorf("cookie jar for %q failed the login-state probe", identity)
	}

	r.commit(ctx, identity, normalized, handle)
	return handle, nil
}

// commit records a validated jar in every layer at once: process jar cache,
// instance registry (last successful resolution wins), and the durable
// session store. A failed store write is reported but never fails a
// resolution that already holds a validated session.
func (r *Resolver) commit(ctx context.Context, identity string, jar []Cookie, handle *SessionHandle) {
	r.jars.set(identity, jar)
	r.registry.set(identity, handle)

	encoded, err := json.Marshal(jar)
	if err != nil {
		log.Print("twauth: cookie jar encode failed")
		return
	}

	if err := r.sessions.Put(ctx, identity, encoded); err != nil {
		r.metrics.Inc(MetricStoreUnavailable)
		r.audit.Emit(ctx, AuditEvent{
			EventType: EventStoreDegraded,
			Identity:  identity,
			Error:     err.Error(),
		})
		log.Print("twauth: session store write failed")
	}
}
