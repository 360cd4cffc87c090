package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/dmitrijs2005/agentdesk/internal/client/session"
	"github.com/dmitrijs2005/agentdesk/internal/common"
)

var errEmptyAccessToken = errors.New("response carries no access token")

// Login exchanges credentials for a pair. It sends no bearer token and its
// 401 is final.
func (c *HTTPClient) Login(ctx context.Context, identifier, password string) (*session.CredentialPair, error) {
	req := &Request{
		Method:   http.MethodPost,
		Path:     common.LoginPath,
		Body:     loginRequest{UsernameOrEmail: identifier, Password: password},
		SkipAuth: true,
	}
	return c.exchangePair(ctx, req)
}

// Refresh exchanges a refresh token (sent as a query parameter, not a
// header) for a new pair.
func (c *HTTPClient) Refresh(ctx context.Context, refreshToken string) (*session.CredentialPair, error) {
	req := &Request{
		Method:   http.MethodPost,
		Path:     common.RefreshPath,
		Query:    url.Values{common.RefreshTokenParam: {refreshToken}},
		SkipAuth: true,
	}
	return c.exchangePair(ctx, req)
}

func (c *HTTPClient) exchangePair(ctx context.Context, req *Request) (*session.CredentialPair, error) {
	var pair session.CredentialPair
	if err := c.dispatch(ctx, req, "", &pair); err != nil {
		return nil, err
	}
	if pair.AccessToken == "" {
		return nil, fmt.Errorf("%s: %w", req.Path, errEmptyAccessToken)
	}
	if pair.TokenType == "" {
		pair.TokenType = common.TokenTypeBearer
	}
	return &pair, nil
}

// Profile fetches the user that accessToken belongs to. The token is passed
// explicitly because the profile is read before the store holds it.
func (c *HTTPClient) Profile(ctx context.Context, accessToken string) (*session.User, error) {
	var user session.User
	req := &Request{Method: http.MethodGet, Path: common.ProfilePath}
	if err := c.dispatch(ctx, req, accessToken, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Register creates an account. The response carries no credentials.
func (c *HTTPClient) Register(ctx context.Context, in RegisterRequest) (*session.User, error) {
	var user session.User
	req := &Request{Method: http.MethodPost, Path: common.RegisterPath, Body: in, SkipAuth: true}
	if err := c.dispatch(ctx, req, "", &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Logout asks the server to revoke the current session. It does not touch
// the local store and never refreshes.
func (c *HTTPClient) Logout(ctx context.Context) error {
	token, err := c.store.AccessToken(ctx)
	if err != nil {
		return fmt.Errorf("read access token: %w", err)
	}
	return c.dispatch(ctx, &Request{Method: http.MethodPost, Path: common.LogoutPath}, token, nil)
}
