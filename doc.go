// Package twauth resolves authenticated scraping sessions against a social
// platform through an ordered credential cascade, backed by Redis for durable
// cookie persistence and generic TTL result memoization.
//
// The package is designed for concurrent workloads: Resolver methods are safe
// to call from multiple goroutines after initialization through [Builder.Build].
//
// # Architecture boundaries
//
// twauth is the public surface. It exposes [Resolver], [Builder], [Config],
// [Scraper], and value types (Credentials, Cookie, MetricsSnapshot, etc.).
// Durable storage lives under session/ and cache/; the platform wire protocol
// is consumed through the [PlatformClient] interface and never implemented here.
//
// # What this package must NOT do
//
//   - Expose Redis clients, record encodings, or store key layouts in its
//     public API.
//   - Interpret business payloads (profiles, timelines, search pages); they
//     pass through and are cached opaquely.
//   - Persist plaintext passwords or two-factor secrets; only validated cookie
//     jars are ever written to the session store.
//
// # Availability contract
//
// A tier of the resolution cascade failing its probe or its backend is never
// fatal: the cascade falls through and only an exhausted fresh login surfaces
// an error to the caller. Backend unavailability degrades reads to a miss and
// the process stays live.
package twauth
