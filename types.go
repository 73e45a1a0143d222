package twauth

import (
	"context"
	"time"
)

// Credentials defines a public type used by twauth APIs.
//
// Credentials are supplied per resolution call and are never persisted as
// plaintext beyond the call; only a validated cookie jar survives it.
type Credentials struct {
	// Username is the platform identity the session is bound to. Required.
	Username string
	// Password is the platform secret used only by the fresh-login tier.
	Password string
	// Email is an optional secondary identifier some login challenges ask for.
	Email string
	// TwoFactorSecret is an optional base32 TOTP secret. When present the
	// fresh-login tier derives the current one-time code from it.
	TwoFactorSecret string
	// Cookies is an optional caller-supplied jar tried before any stored one.
	Cookies []Cookie
}

// Cookie defines a public type used by twauth APIs.
//
// Cookie carries the subset of attributes the platform round-trips. A cookie
// jar is an ordered slice of Cookie representing one session's credential
// artifact.
type Cookie struct {
	Name     string `json:"name"`
	Value    string `json:"value"`
	Domain   string `json:"domain"`
	Path     string `json:"path"`
	Secure   bool   `json:"secure"`
	HTTPOnly bool   `json:"http_only"`
	SameSite string `json:"same_site,omitempty"`
}

// PlatformClient is the consumed boundary to the target platform. One client
// instance holds one session context: cookies applied to it scope every
// subsequent call. Implementations perform the actual login handshake, the
// login-state probe, and the opaque business operations; twauth never
// interprets their payloads.
type PlatformClient interface {
	// Login runs the full credential handshake. twoFactorCode may be empty.
	Login(ctx context.Context, username, password, email, twoFactorCode string) error
	// IsLoggedIn performs a live probe of the current session context.
	IsLoggedIn(ctx context.Context) bool
	// Cookies returns the jar captured by the current session context.
	Cookies() []Cookie
	// SetCookies replaces the session context's jar.
	SetCookies(cookies []Cookie)

	// Business operations, passed through uninterpreted.
	Profile(ctx context.Context, username string) ([]byte, error)
	Timeline(ctx context.Context, userID string, limit int) ([]byte, error)
	SearchPosts(ctx context.Context, query string, limit int, cursor string) ([]byte, string, error)
}

// ClientFactory constructs a fresh, unauthenticated platform client. Each
// resolution tier that needs a new session context calls it exactly once.
type ClientFactory func() PlatformClient

// SessionHandle defines a public type used by twauth APIs.
//
// SessionHandle binds one identity to one live authenticated platform client.
// The handle is owned by the tier that created it and shared read-only by the
// instance registry and the caller; it is replaced, never mutated, when a
// later resolution for the same identity succeeds.
type SessionHandle struct {
	identity  string
	client    PlatformClient
	createdAt time.Time
}

func newSessionHandle(identity string, client PlatformClient) *SessionHandle {
	return &SessionHandle{
		identity:  identity,
		client:    client,
		createdAt: time.Now(),
	}
}

// Identity returns the platform username the handle is bound to.
func (h *SessionHandle) Identity() string {
	if h == nil {
		return ""
	}
	return h.identity
}

// CreatedAt returns when the handle passed its validating probe.
func (h *SessionHandle) CreatedAt() time.Time {
	if h == nil {
		return time.Time{}
	}
	return h.createdAt
}

// Client exposes the underlying platform client for business operations.
func (h *SessionHandle) Client() PlatformClient {
	if h == nil {
		return nil
	}
	return h.client
}

// Cookies returns the jar currently held by the handle's session context.
func (h *SessionHandle) Cookies() []Cookie {
	if h == nil || h.client == nil {
		return nil
	}
	return h.client.Cookies()
}

func (h *SessionHandle) probe(ctx context.Context, timeout time.Duration) bool {
	if h == nil || h.client == nil {
		return false
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	return h.client.IsLoggedIn(ctx)
}
