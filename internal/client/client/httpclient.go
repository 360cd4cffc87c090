package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/agentdesk/internal/client/session"
	"github.com/dmitrijs2005/agentdesk/internal/common"
	"github.com/dmitrijs2005/agentdesk/internal/logging"
	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

// HTTPClient talks JSON over HTTP to the backend, injects the stored access
// token and recovers from an expired one with a single refresh-and-retry.
// It is safe for concurrent use.
type HTTPClient struct {
	baseURL       *url.URL
	store         session.Store
	http          *http.Client
	timeout       time.Duration
	retryAttempts int
	logger        logging.Logger
	metrics       *Metrics
	refreshGroup  singleflight.Group
}

var _ Client = (*HTTPClient)(nil)

func NewHTTPClient(baseURL string, store session.Store, opts ...Option) (*HTTPClient, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid base url %q: %w", baseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid base url %q: scheme must be http or https", baseURL)
	}
	if store == nil {
		return nil, errors.New("nil session store")
	}

	c := &HTTPClient{
		baseURL:       u,
		store:         store,
		http:          &http.Client{},
		timeout:       DefaultRequestTimeout,
		retryAttempts: DefaultRetryAttempts,
		logger:        logging.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Timeout reports the per-exchange timeout.
func (c *HTTPClient) Timeout() time.Duration { return c.timeout }

// RetryAttempts reports the configured retry count. It does not change the
// refresh protocol, which retries exactly once.
func (c *HTTPClient) RetryAttempts() int { return c.retryAttempts }

// Do performs req and decodes a 2xx JSON body into out (out may be nil).
//
// Unless req.SkipAuth is set, the stored access token is sent as a bearer
// token. A 401 on such a request (other than to the login or refresh
// endpoint) triggers one refresh of the session followed by one retry. If
// the refresh fails the session is cleared and the original 401 is returned.
// A 401 on the retry is terminal: the session is cleared and the error
// returned as is.
func (c *HTTPClient) Do(ctx context.Context, req *Request, out any) error {
	var token string
	if !req.SkipAuth {
		var err error
		if token, err = c.store.AccessToken(ctx); err != nil {
			return fmt.Errorf("read access token: %w", err)
		}
	}

	err := c.dispatch(ctx, req, token, out)
	if !c.shouldRefresh(req, err) {
		return err
	}

	c.logger.Debug(ctx, "access token rejected, refreshing", "method", req.method(), "path", req.Path)

	fresh, rerr := c.renew(ctx, token)
	if rerr != nil {
		c.logger.Warn(ctx, "session refresh failed", "path", req.Path, "error", rerr)
		return err
	}

	err = c.dispatch(ctx, req, fresh, out)
	if errors.Is(err, ErrUnauthorized) {
		c.logger.Warn(ctx, "retried request unauthorized, clearing session", "path", req.Path)
		c.clearSession(ctx)
	}
	return err
}

func (c *HTTPClient) Get(ctx context.Context, path string, out any) error {
	return c.Do(ctx, &Request{Method: http.MethodGet, Path: path}, out)
}

func (c *HTTPClient) Post(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, &Request{Method: http.MethodPost, Path: path, Body: body}, out)
}

func (c *HTTPClient) Put(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, &Request{Method: http.MethodPut, Path: path, Body: body}, out)
}

func (c *HTTPClient) Delete(ctx context.Context, path string, out any) error {
	return c.Do(ctx, &Request{Method: http.MethodDelete, Path: path}, out)
}

func (c *HTTPClient) shouldRefresh(req *Request, err error) bool {
	return err != nil &&
		!req.SkipAuth &&
		errors.Is(err, ErrUnauthorized) &&
		!isAuthEndpoint(req.Path)
}

// isAuthEndpoint reports whether path targets login or refresh, whose 401s
// are final.
func isAuthEndpoint(path string) bool {
	p, _, _ := strings.Cut(path, "?")
	p = "/" + strings.Trim(p, "/")
	return p == common.LoginPath || p == common.RefreshPath
}

// dispatch performs exactly one HTTP exchange. token, when non-empty, is
// sent as the bearer credential; otherwise no Authorization header is sent.
func (c *HTTPClient) dispatch(ctx context.Context, req *Request, token string, out any) error {
	method := req.method()

	target, err := c.resolve(req.Path, req.Query)
	if err != nil {
		return err
	}

	var body io.Reader
	if req.Body != nil {
		b, err := json.Marshal(req.Body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		body = bytes.NewReader(b)
	}

	tctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(tctx, method, target, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	requestID := uuid.NewString()
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	for k, vs := range req.Header {
		httpReq.Header.Del(k)
		for _, v := range vs {
			httpReq.Header.Add(k, v)
		}
	}
	httpReq.Header.Set(common.RequestIDHeaderName, requestID)
	httpReq.Header.Del(common.AuthorizationHeaderName)
	if token != "" {
		httpReq.Header.Set(common.AuthorizationHeaderName, common.BearerScheme+" "+token)
	}

	started := time.Now()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		return c.transportError(ctx, method, req.Path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return c.transportError(ctx, method, req.Path, err)
	}

	c.metrics.observeStatus(method, resp.StatusCode)
	c.logger.Debug(ctx, "request completed",
		"method", method,
		"path", req.Path,
		"status", resp.StatusCode,
		"request_id", requestID,
		"duration", time.Since(started),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp.StatusCode, data)
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// transportError classifies a failure that happened before a complete
// response was read. The caller's own cancellation is passed through.
func (c *HTTPClient) transportError(ctx context.Context, method, path string, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		c.metrics.observe(method, "canceled")
		return fmt.Errorf("%s %s: %w", method, path, ctxErr)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		c.metrics.observe(method, "timeout")
		c.logger.Warn(ctx, "request timed out", "method", method, "path", path, "timeout", c.timeout)
		return fmt.Errorf("%w: %s %s after %s", ErrTimeout, method, path, c.timeout)
	}
	c.metrics.observe(method, "network_error")
	c.logger.Warn(ctx, "transport failure", "method", method, "path", path, "error", err)
	return fmt.Errorf("%w: %s %s: %w", ErrNetwork, method, path, err)
}

func (c *HTTPClient) resolve(path string, query url.Values) (string, error) {
	rel, err := url.Parse(strings.TrimLeft(path, "/"))
	if err != nil {
		return "", fmt.Errorf("invalid path %q: %w", path, err)
	}

	u := *c.baseURL
	u.Path = strings.TrimRight(u.Path, "/") + "/" + rel.Path
	q := rel.Query()
	for k, vs := range query {
		for _, v := range vs {
			q.Add(k, v)
		}
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}
