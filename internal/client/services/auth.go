// Package services contains application services for the agentdesk client.
// This file defines the auth session service: login, registration, logout
// and explicit refresh, all writing through a session.Store.
package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/agentdesk/internal/client/client"
	"github.com/dmitrijs2005/agentdesk/internal/client/session"
	"github.com/dmitrijs2005/agentdesk/internal/logging"
)

// AuthService defines session operations for the CLI.
//
// Contract:
//   - Login: obtain a pair, fetch the profile with it, store both.
//   - Register: create the account, then log in with its email.
//   - Logout: best-effort server call, then always clear the session.
//   - RefreshToken: renew the pair ahead of a 401.
//   - CurrentUser / IsAuthenticated: read the stored session.
//
// Errors returned by the backend are passed through unwrapped so their
// message can be shown as is.
type AuthService interface {
	Login(ctx context.Context, identifier, password string) (*session.User, error)
	Register(ctx context.Context, in RegisterInput, password string) (*session.User, error)
	Logout(ctx context.Context) error
	RefreshToken(ctx context.Context) (*session.User, error)
	CurrentUser(ctx context.Context) (*session.User, error)
	IsAuthenticated(ctx context.Context) bool
}

// RegisterInput carries the profile fields of a new account.
type RegisterInput struct {
	Email     string
	Username  string
	FirstName string
	LastName  string
}

type authService struct {
	client client.Client
	store  session.Store
	logger logging.Logger
}

// NewAuthService constructs an AuthService bound to the given API client and
// the store the client reads its token from.
func NewAuthService(c client.Client, store session.Store, logger logging.Logger) AuthService {
	if logger == nil {
		logger = logging.Nop()
	}
	return &authService{client: c, store: store, logger: logger}
}

// Login exchanges credentials for a pair, fetches the profile with the new
// access token and writes both in one Set. On failure any prior session is
// cleared.
func (a *authService) Login(ctx context.Context, identifier, password string) (*session.User, error) {
	user, err := a.login(ctx, identifier, password)
	if err != nil {
		a.clear(ctx)
		return nil, err
	}
	a.logger.Info(ctx, "logged in", "user_id", user.ID)
	return user, nil
}

func (a *authService) login(ctx context.Context, identifier, password string) (*session.User, error) {
	pair, err := a.client.Login(ctx, identifier, password)
	if err != nil {
		return nil, err
	}

	user, err := a.client.Profile(ctx, pair.AccessToken)
	if err != nil {
		return nil, err
	}

	if err := a.store.Set(ctx, *pair, *user); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}
	return user, nil
}

// Register creates the account and then logs in with its email. Nothing is
// stored unless both steps succeed.
func (a *authService) Register(ctx context.Context, in RegisterInput, password string) (*session.User, error) {
	created, err := a.client.Register(ctx, client.RegisterRequest{
		Email:     in.Email,
		Username:  in.Username,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Password:  password,
	})
	if err != nil {
		a.clear(ctx)
		return nil, err
	}

	email := created.Email
	if email == "" {
		email = in.Email
	}
	return a.Login(ctx, email, password)
}

// Logout never fails on the server call; only a failure to clear the local
// session is returned.
func (a *authService) Logout(ctx context.Context) error {
	if err := a.client.Logout(ctx); err != nil {
		a.logger.Warn(ctx, "server logout failed", "error", err)
	}
	if err := a.store.Clear(ctx); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

func (a *authService) RefreshToken(ctx context.Context) (*session.User, error) {
	st, err := a.client.RefreshSession(ctx)
	if err != nil {
		return nil, err
	}
	return &st.User, nil
}

// CurrentUser returns the stored user, or nil when nobody is logged in.
func (a *authService) CurrentUser(ctx context.Context) (*session.User, error) {
	st, err := a.store.Get(ctx)
	if err != nil {
		return nil, err
	}
	if st == nil {
		return nil, nil
	}
	return &st.User, nil
}

func (a *authService) IsAuthenticated(ctx context.Context) bool {
	tok, err := a.store.AccessToken(ctx)
	return err == nil && tok != ""
}

func (a *authService) clear(ctx context.Context) {
	if err := a.store.Clear(context.WithoutCancel(ctx)); err != nil {
		a.logger.Error(ctx, "failed to clear session", "error", err)
	}
}
