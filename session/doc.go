// Package session implements the durable, identity-keyed store of the last
// validated cookie jar. One record per identity, upsert-only, no TTL: a jar
// stays until a later validated jar for the same identity overwrites it.
//
// The store treats the jar as an opaque serialized blob; encoding and domain
// normalization are the resolver's concern.
package session
