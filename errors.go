package twauth

import "errors"

var (
	// ErrResolverNotReady is an exported constant or variable used by the session resolver.
	ErrResolverNotReady = errors.New("resolver not initialized")
	// ErrIdentityRequired is an exported constant or variable used by the session resolver.
	ErrIdentityRequired = errors.New("identity (username) required")
	// ErrAuthenticationFailed is an exported constant or variable used by the session resolver.
	ErrAuthenticationFailed = errors.New("authentication failed")
	// ErrSessionInvalid is an exported constant or variable used by the session resolver.
	ErrSessionInvalid = errors.New("session handle no longer authenticated")
	// ErrClientFactoryMissing is an exported constant or variable used by the session resolver.
	ErrClientFactoryMissing = errors.New("platform client factory not configured")
	// ErrRedisMissing is an exported constant or variable used by the session resolver.
	ErrRedisMissing = errors.New("redis client not configured")
)
