package client

import (
	"net/http"
	"time"

	"github.com/dmitrijs2005/agentdesk/internal/logging"
	"github.com/prometheus/client_golang/prometheus"
)

// DefaultRequestTimeout bounds every single exchange with the backend.
const DefaultRequestTimeout = 30 * time.Second

// DefaultRetryAttempts is informational; the refresh protocol always
// retries exactly once.
const DefaultRetryAttempts = 3

type Option func(*HTTPClient)

// WithTimeout sets the per-exchange timeout. Non-positive values are ignored.
func WithTimeout(d time.Duration) Option {
	return func(c *HTTPClient) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithRetryAttempts records the configured retry count.
func WithRetryAttempts(n int) Option {
	return func(c *HTTPClient) {
		c.retryAttempts = n
	}
}

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *HTTPClient) {
		if h != nil {
			c.http = h
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l logging.Logger) Option {
	return func(c *HTTPClient) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithMetrics registers request and refresh counters on reg.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(c *HTTPClient) {
		c.metrics = NewMetrics(reg)
	}
}
