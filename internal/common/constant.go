// Package common contains shared constants and sentinel errors used across
// agentdesk components.
package common

// Transport header names.
const (
	AuthorizationHeaderName = "Authorization"
	RequestIDHeaderName     = "X-Request-ID"
	BearerScheme            = "Bearer"
	TokenTypeBearer         = "bearer"
)

// Auth endpoint paths, relative to the API base address.
const (
	LoginPath    = "/auth/login"
	RefreshPath  = "/auth/refresh"
	ProfilePath  = "/auth/me"
	RegisterPath = "/auth/register"
	LogoutPath   = "/auth/logout"
)

// RefreshTokenParam is the query parameter carrying the refresh credential.
const RefreshTokenParam = "refresh_token"
