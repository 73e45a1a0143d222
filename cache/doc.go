// Package cache implements the generic TTL memoization layer shared by
// business operations. Payloads are opaque; freshness is judged lazily at
// read time against the caller-supplied TTL, and stale rows are overwritten
// rather than evicted.
package cache
