package client

import (
	"context"
	"net/http"
	"net/url"

	"github.com/dmitrijs2005/agentdesk/internal/client/session"
)

// Client is the transport contract the rest of the application talks to.
//
// Do is the generic authorized call with transparent refresh-and-retry. The
// endpoint methods (Login, Refresh, Profile, Register, Logout) go through
// the same exchange path but never trigger a refresh themselves.
type Client interface {
	Do(ctx context.Context, req *Request, out any) error
	Login(ctx context.Context, identifier, password string) (*session.CredentialPair, error)
	Refresh(ctx context.Context, refreshToken string) (*session.CredentialPair, error)
	Profile(ctx context.Context, accessToken string) (*session.User, error)
	Register(ctx context.Context, in RegisterRequest) (*session.User, error)
	Logout(ctx context.Context) error
	RefreshSession(ctx context.Context) (*session.State, error)
}

// Request describes one logical API call. Path is relative to the base
// address. Body, when set, is encoded as JSON. Header entries override the
// JSON defaults; Authorization is always controlled by the client.
type Request struct {
	Method   string
	Path     string
	Query    url.Values
	Body     any
	Header   http.Header
	SkipAuth bool
}

func (r *Request) method() string {
	if r.Method == "" {
		return http.MethodGet
	}
	return r.Method
}

// RegisterRequest is the registration endpoint's body.
type RegisterRequest struct {
	Email     string `json:"email"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Password  string `json:"password"`
}

type loginRequest struct {
	UsernameOrEmail string `json:"username_or_email"`
	Password        string `json:"password"`
}
