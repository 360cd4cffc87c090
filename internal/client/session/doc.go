// Package session holds the client's Session State (credential pair plus
// authenticated user) and the Store implementations that persist it.
//
// A Store is the single source of truth for "is a user authenticated". State
// is either fully present or fully absent: Set writes the access token,
// refresh token and user record as one unit, Clear removes all three, and
// readers never observe a new pair next to an old user.
//
// Implementations:
//
//   - MemoryStore: in-process, for tests and short-lived tools.
//   - SQLiteStore: durable, on the client's local metadata table.
//   - RedisStore: durable, shared between processes via Redis.
package session
