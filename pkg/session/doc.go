// Package session provides cookie-token sessions with pluggable
// persistence, sized to back the flash message machinery but usable on
// its own.
//
// A [Session] is a per-client map from string keys to serialized values,
// correlated across requests by a random token carried in a cookie. The
// token is distinct from the session ID so IDs can appear in logs without
// leaking credentials.
//
// # Stores
//
// Three [Store] implementations ship with the package:
//
//   - [Memory] — in-process map, for development and tests
//   - [Redis] — go-redis backed, TTL-evicted, for multi-node deployments
//   - [Postgres] — pgx backed, for deployments without Redis
//
// # Manager
//
// The [Manager] middleware attaches a session to every request:
//
//	sessions := session.NewManager(session.NewRedis(client))
//	r.Use(sessions.Middleware())
//
// Handlers reach it through the context:
//
//	sess, err := session.FromRequest(r)
//	sess.Insert("theme", "dark")
//
// Touched sessions are persisted just before the first response byte is
// written; untouched new sessions are never saved, so anonymous traffic
// does not fill the store.
//
// # Values
//
// Values are stored as raw JSON rather than live Go values, so every
// backend round-trips them identically and a type mismatch surfaces as a
// decode error on Get instead of a silent type change after a restart.
package session
