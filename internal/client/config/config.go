package config

import (
	"fmt"
	"time"
)

// Session state backends.
const (
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// Config holds runtime settings for the agentdesk CLI.
//
// Fields:
//   - BaseURL: base address every API path is resolved against.
//   - RequestTimeout: bound on a single exchange with the backend.
//   - RetryAttempts: informational; the refresh protocol retries once.
//   - StateDir: directory holding the SQLite session file.
//   - StateBackend: where the session lives (sqlite, redis or memory).
//   - RedisAddr: host:port of Redis when StateBackend is redis.
//   - LogLevel: debug, info, warn or error.
type Config struct {
	BaseURL        string
	RequestTimeout time.Duration
	RetryAttempts  int
	StateDir       string
	StateBackend   string
	RedisAddr      string
	LogLevel       string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.BaseURL = "http://127.0.0.1:8080/api/v1"
	c.RequestTimeout = 30 * time.Second
	c.RetryAttempts = 3
	c.StateDir = ".agentdesk"
	c.StateBackend = BackendSQLite
	c.RedisAddr = "127.0.0.1:6379"
	c.LogLevel = "warn"
}

// Validate reports settings that cannot work together.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("base url is empty")
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request timeout must be positive, got %s", c.RequestTimeout)
	}
	switch c.StateBackend {
	case BackendSQLite, BackendMemory:
	case BackendRedis:
		if c.RedisAddr == "" {
			return fmt.Errorf("redis backend needs an address")
		}
	default:
		return fmt.Errorf("unknown state backend %q", c.StateBackend)
	}
	return nil
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
