// Package cli provides the interactive agentdesk command-line client.
//
// It wires configuration, the session backend (SQLite file, Redis or
// memory), the authenticated API client and an interactive REPL. A session
// persisted by an earlier run is picked up on start.
//
// Key features:
//   - Register / Login / Logout
//   - Explicit refresh and whoami
//   - Raw authorized GET requests with transparent token renewal
//   - Request and refresh counters (stats)
//
// The REPL is started via App.Root(ctx), which blocks until the user exits.
package cli
