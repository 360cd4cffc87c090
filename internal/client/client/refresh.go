package client

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/agentdesk/internal/client/session"
)

// RefreshSession exchanges the stored refresh token for a new pair, fetches
// the profile with the new access token and stores both. Any failure clears
// the session.
func (c *HTTPClient) RefreshSession(ctx context.Context) (*session.State, error) {
	rt, err := c.store.RefreshToken(ctx)
	if err != nil {
		return nil, fmt.Errorf("read refresh token: %w", err)
	}
	if rt == "" {
		c.metrics.observeRefresh("no_token")
		c.clearSession(ctx)
		return nil, ErrNoRefreshToken
	}
	return c.refreshOnce(ctx, rt)
}

// renew is the refresh step of Do. stale is the access token the failed
// request carried; if the store already holds a different one, another
// caller has refreshed in the meantime and that token is used instead.
func (c *HTTPClient) renew(ctx context.Context, stale string) (string, error) {
	current, err := c.store.AccessToken(ctx)
	if err != nil {
		return "", fmt.Errorf("read access token: %w", err)
	}
	if current != "" && current != stale {
		c.metrics.observeRefresh("reused")
		return current, nil
	}

	st, err := c.RefreshSession(ctx)
	if err != nil {
		return "", err
	}
	return st.Pair.AccessToken, nil
}

// refreshOnce coalesces concurrent refreshes of the same refresh token into
// one backend call. The shared call is detached from any single caller's
// cancellation; each exchange is still bounded by the request timeout.
func (c *HTTPClient) refreshOnce(ctx context.Context, refreshToken string) (*session.State, error) {
	v, err, shared := c.refreshGroup.Do(refreshToken, func() (any, error) {
		return c.refresh(context.WithoutCancel(ctx), refreshToken)
	})
	if shared {
		c.logger.Debug(ctx, "joined in-flight refresh")
	}
	if err != nil {
		return nil, err
	}
	st := *v.(*session.State)
	return &st, nil
}

func (c *HTTPClient) refresh(ctx context.Context, refreshToken string) (*session.State, error) {
	pair, err := c.Refresh(ctx, refreshToken)
	if err != nil {
		c.metrics.observeRefresh("rejected")
		c.clearSession(ctx)
		return nil, fmt.Errorf("refresh token: %w", err)
	}

	user, err := c.Profile(ctx, pair.AccessToken)
	if err != nil {
		c.metrics.observeRefresh("profile_failed")
		c.clearSession(ctx)
		return nil, fmt.Errorf("fetch profile: %w", err)
	}

	if err := c.store.Set(ctx, *pair, *user); err != nil {
		c.metrics.observeRefresh("store_failed")
		c.clearSession(ctx)
		return nil, fmt.Errorf("store session: %w", err)
	}

	c.metrics.observeRefresh("ok")
	c.logger.Info(ctx, "session refreshed", "user_id", user.ID)
	return &session.State{Pair: *pair, User: *user}, nil
}

func (c *HTTPClient) clearSession(ctx context.Context) {
	if err := c.store.Clear(context.WithoutCancel(ctx)); err != nil {
		c.logger.Error(ctx, "failed to clear session", "error", err)
	}
}
