// Package cache provides a small thread-safe LRU cache.
//
// The dashboard core uses it to memoize derived notification views keyed by
// collection version: recomputation happens at most once per version, and
// stale versions fall out of the cache on their own.
package cache
