// Package client is the authenticated API client every backend call goes
// through.
//
// # Overview
//
//  1. Client is the transport contract: the generic Do plus the auth
//     endpoints (Login, Refresh, Profile, Register, Logout) and
//     RefreshSession.
//  2. HTTPClient implements it over JSON/HTTP. It injects the access token
//     from a session.Store, bounds each exchange with a timeout, and on a
//     401 refreshes the session once and retries the request once.
//  3. InitDatabase and RunMigrations bootstrap the local SQLite file that
//     backs session.SQLiteStore.
//
// # Refresh protocol
//
// A 401 on a request that carried the stored token (not SkipAuth, not the
// login or refresh endpoint) moves the call into Refreshing: the refresh
// token is exchanged for a new pair, the profile is fetched with the new
// access token and both are stored together. The original request is then
// reissued exactly once and its result returned verbatim. If anything in
// Refreshing fails, the session is cleared and the caller receives the
// original 401. A 401 on the retry is terminal and also clears the session.
//
// Concurrent refreshes of the same refresh token are coalesced into one
// backend call.
//
// # Error Handling
//
// Failures match sentinel errors with errors.Is: ErrTimeout, ErrNetwork,
// ErrUnauthorized, ErrValidation, ErrNotFound, ErrApplication. Non-2xx
// responses are *APIError values; a 422 carrying field errors has their
// messages joined into APIError.Message.
package client
