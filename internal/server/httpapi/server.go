// Package httpapi exposes the reference backend's auth endpoints over HTTP
// JSON using gorilla/mux.
package httpapi

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/agentdesk/internal/common"
	"github.com/dmitrijs2005/agentdesk/internal/logging"
	"github.com/dmitrijs2005/agentdesk/internal/server/models"
	"github.com/dmitrijs2005/agentdesk/internal/server/services"
	"github.com/gorilla/mux"
)

// APIPrefix is the path every endpoint is mounted under.
const APIPrefix = "/api/v1"

const shutdownTimeout = 5 * time.Second

// UserService is the subset of services.UserService the handlers use.
type UserService interface {
	Register(ctx context.Context, in services.RegisterInput) (*models.User, error)
	Login(ctx context.Context, login, password string) (*services.TokenPair, error)
	RefreshToken(ctx context.Context, refreshToken string) (*services.TokenPair, error)
	Profile(ctx context.Context, userID string) (*models.User, error)
	Logout(ctx context.Context, userID string) error
	VerifyAccessToken(token string) (string, error)
}

type HTTPServer struct {
	address string
	users   UserService
	logger  logging.Logger
	router  *mux.Router
}

func NewHTTPServer(address string, l logging.Logger, us UserService) *HTTPServer {
	s := &HTTPServer{
		address: address,
		users:   us,
		logger:  l.With("module", "http_server"),
	}
	s.router = s.routes()
	return s
}

func (s *HTTPServer) routes() *mux.Router {
	notFound := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeDetail(w, http.StatusNotFound, "Not Found")
	})
	methodNotAllowed := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeDetail(w, http.StatusMethodNotAllowed, "Method Not Allowed")
	})

	r := mux.NewRouter()
	r.NotFoundHandler = notFound
	r.MethodNotAllowedHandler = methodNotAllowed
	r.Use(s.requestLogMiddleware)

	api := r.PathPrefix(APIPrefix).Subrouter()
	api.MethodNotAllowedHandler = methodNotAllowed
	api.HandleFunc(common.LoginPath, s.login).Methods(http.MethodPost)
	api.HandleFunc(common.RefreshPath, s.refresh).Methods(http.MethodPost)
	api.HandleFunc(common.RegisterPath, s.register).Methods(http.MethodPost)

	api.Handle(common.ProfilePath, s.accessTokenMiddleware(http.HandlerFunc(s.me))).Methods(http.MethodGet)
	api.Handle(common.LogoutPath, s.accessTokenMiddleware(http.HandlerFunc(s.logout))).Methods(http.MethodPost)

	return r
}

// Handler returns the routed handler, for use with httptest.
func (s *HTTPServer) Handler() http.Handler {
	return s.router
}

// Run serves on the configured address until ctx is cancelled, then shuts
// down gracefully.
func (s *HTTPServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.serve(ctx, listen)
}

// serve runs the HTTP server on listen. A failing listener stops the
// shutdown watcher as well.
func (s *HTTPServer) serve(ctx context.Context, listen net.Listener) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}

	done := make(chan error, 1)
	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		sctx, scancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer scancel()
		done <- srv.Shutdown(sctx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		cancel()
		<-done
		return err
	}

	return <-done
}
