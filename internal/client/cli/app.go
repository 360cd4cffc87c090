package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/dmitrijs2005/agentdesk/internal/client/client"
	"github.com/dmitrijs2005/agentdesk/internal/client/config"
	"github.com/dmitrijs2005/agentdesk/internal/client/services"
	"github.com/dmitrijs2005/agentdesk/internal/client/session"
	"github.com/dmitrijs2005/agentdesk/internal/filex"
	"github.com/dmitrijs2005/agentdesk/internal/logging"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
)

const stateFileName = "session.db"

type App struct {
	config      *config.Config
	logger      logging.Logger
	authService services.AuthService
	api         client.Client
	store       session.Store
	registry    *prometheus.Registry
	closers     []func() error
	reader      *bufio.Reader
	out         io.Writer
	userName    string
}

// NewApp opens the configured session backend and wires the API client and
// auth service on top of it.
func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	a := &App{
		config:   c,
		logger:   logger,
		registry: prometheus.NewRegistry(),
		reader:   bufio.NewReader(os.Stdin),
		out:      os.Stdout,
	}

	store, err := a.openStore(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.store = store

	apiClient, err := client.NewHTTPClient(c.BaseURL, store,
		client.WithTimeout(c.RequestTimeout),
		client.WithRetryAttempts(c.RetryAttempts),
		client.WithLogger(logger),
		client.WithMetrics(a.registry),
	)
	if err != nil {
		a.Close()
		return nil, err
	}

	a.api = apiClient
	a.authService = services.NewAuthService(apiClient, store, logger)
	return a, nil
}

func (a *App) openStore(ctx context.Context) (session.Store, error) {
	switch a.config.StateBackend {
	case config.BackendMemory:
		return session.NewMemoryStore(), nil

	case config.BackendRedis:
		rdb := redis.NewClient(&redis.Options{Addr: a.config.RedisAddr})
		a.closers = append(a.closers, rdb.Close)
		if err := rdb.Ping(ctx).Err(); err != nil {
			return nil, fmt.Errorf("connect to redis %s: %w", a.config.RedisAddr, err)
		}
		return session.NewRedisStore(rdb, session.DefaultRedisPrefix), nil

	default:
		dir, err := filex.EnsureStateDir(a.config.StateDir)
		if err != nil {
			return nil, err
		}
		db, err := client.InitDatabase(ctx, filepath.Join(dir, stateFileName))
		if err != nil {
			return nil, fmt.Errorf("init session database: %w", err)
		}
		a.closers = append(a.closers, db.Close)
		return session.NewSQLiteStore(ctx, db)
	}
}

func (a *App) Run(ctx context.Context) {
	defer a.Close()
	a.Root(ctx)
}

// Close releases the session backend.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

func (a *App) isLoggedIn() bool {
	return a.authService != nil && a.authService.IsAuthenticated(context.Background())
}

// restoreSession picks up a session persisted by an earlier run.
func (a *App) restoreSession(ctx context.Context) {
	user, err := a.authService.CurrentUser(ctx)
	if err != nil {
		a.logger.Warn(ctx, "cannot read stored session", "error", err)
		return
	}
	if user != nil {
		a.userName = user.Username
		fmt.Fprintf(a.out, "Welcome back, %s\n", user.DisplayName())
	}
}
