// Package cache is the tagged response cache for list and detail endpoints.
//
// Serialized response bodies are stored in an in-process sturdyc client,
// which also collapses concurrent misses on one key into a single
// computation. Every entry is registered under one or more tags and
// Invalidate drops every entry ever registered under a tag.
//
// Invalidation is coarse: any write to a resource family invalidates all of
// its pages. Each tag carries a generation number that is part of the
// physical storage key, so a lookup that starts after Invalidate returns
// can never be served a payload computed before it, even when that
// computation was still in flight.
//
// With a Bus configured, invalidations are also broadcast to other replicas.
package cache
