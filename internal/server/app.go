// Package server initializes and runs the reference API server. It selects
// the storage backend, applies migrations, handles graceful shutdown and
// serves the HTTP API.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/agentdesk/internal/logging"
	"github.com/dmitrijs2005/agentdesk/internal/server/config"
	"github.com/dmitrijs2005/agentdesk/internal/server/httpapi"
	"github.com/dmitrijs2005/agentdesk/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/agentdesk/internal/server/services"
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	db          *sql.DB
	userService *services.UserService
}

// NewApp wires the storage backend chosen by c. An empty DatabaseDSN keeps
// all data in memory.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewJSONLogger(os.Stdout, c.LogLevel)

	var (
		db *sql.DB
		rm repomanager.RepositoryManager
	)

	if c.DatabaseDSN == "" {
		logger.Warn(ctx, "No database DSN configured, using in-memory storage")
		rm = repomanager.NewInMemoryRepositoryManager()
	} else {
		var err error
		db, err = repomanager.OpenPostgres(ctx, c.DatabaseDSN)
		if err != nil {
			return nil, fmt.Errorf("db init error: %w", err)
		}
		rm = repomanager.NewPostgresRepositoryManager()
		if err := rm.RunMigrations(ctx, db); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("db init error: %w", err)
		}
	}

	us := services.NewUserService(db, rm, c)

	return &App{config: c, logger: logger, db: db, userService: us}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := httpapi.NewHTTPServer(app.config.EndpointAddr, app.logger, app.userService)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run serves until a termination signal arrives or ctx is cancelled.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error(ctx, "failed to close database", "error", err)
		}
	}
	app.logger.Info(ctx, "App stopped")
}
