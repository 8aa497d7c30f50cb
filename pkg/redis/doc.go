// Package redis provides connection helpers for the go-redis client.
//
// The dashboard uses Redis only for cross-instance broadcast (see
// pkg/broadcast); this package owns the connection lifecycle: a Config
// populated from environment variables, a Connect function with retry, and a
// health-check helper for readiness probes.
package redis
