// Package ui provides the web console: a chi server rendering the data
// tables of each session and streaming their changes over SSE.
package ui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/leapstack-labs/contratos/internal/api"
	"github.com/leapstack-labs/contratos/internal/session"
	"github.com/leapstack-labs/contratos/internal/ui/features/common"
	"github.com/leapstack-labs/contratos/internal/ui/router"
	"github.com/leapstack-labs/contratos/internal/ui/workspace"
)

// DefaultPurgeInterval is how often expired sessions are removed.
const DefaultPurgeInterval = 10 * time.Minute

// Server is the main UI server.
type Server struct {
	client        *api.Client
	sessions      *session.Manager
	registry      *workspace.Registry
	port          int
	registerPath  string
	purgeInterval time.Duration
	isDev         bool
	logger        *slog.Logger
}

// Config holds configuration for the UI server.
type Config struct {
	Client        *api.Client
	Sessions      *session.Manager
	Workspaces    *workspace.Registry
	Port          int
	RegisterPath  string
	PurgeInterval time.Duration
	Dev           bool
	Logger        *slog.Logger
}

// NewServer creates a new UI server instance.
func NewServer(cfg Config) *Server {
	if cfg.PurgeInterval <= 0 {
		cfg.PurgeInterval = DefaultPurgeInterval
	}
	if cfg.Sessions != nil && cfg.Workspaces != nil {
		cfg.Sessions.OnPurge(cfg.Workspaces.Close)
	}
	return &Server{
		client:        cfg.Client,
		sessions:      cfg.Sessions,
		registry:      cfg.Workspaces,
		port:          cfg.Port,
		registerPath:  cfg.RegisterPath,
		purgeInterval: cfg.PurgeInterval,
		isDev:         cfg.Dev,
		logger:        cfg.Logger,
	}
}

// Handler builds the server's router.
func (s *Server) Handler() (http.Handler, error) {
	r := chi.NewMux()
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.Compress(5),
	)

	deps := common.Deps{
		Client:       s.client,
		Sessions:     s.sessions,
		Registry:     s.registry,
		Logger:       s.logger,
		RegisterPath: s.registerPath,
		IsDev:        s.isDev,
	}
	if err := router.SetupRoutes(r, deps); err != nil {
		return nil, fmt.Errorf("failed to setup routes: %w", err)
	}
	return r, nil
}

// Serve starts the UI server and blocks until the context is cancelled.
// Open workspaces are closed on the way out.
func (s *Server) Serve(ctx context.Context) error {
	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", s.port))
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}
	return s.ServeListener(ctx, ln)
}

// ServeListener is Serve on an existing listener.
func (s *Server) ServeListener(ctx context.Context, ln net.Listener) error {
	handler, err := s.Handler()
	if err != nil {
		_ = ln.Close()
		return err
	}
	defer s.registry.CloseAll()

	s.logger.Info("starting UI server", "addr", "http://"+displayAddr(ln.Addr()))

	eg, egctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Handler: handler,
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start HTTP server
	eg.Go(func() error {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	// Expired sessions
	eg.Go(func() error {
		return s.sessions.PurgeExpired(egctx, s.purgeInterval)
	})

	// Graceful shutdown
	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Debug("shutting down UI server...")
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}

// URL is the address browsers should open.
func (s *Server) URL() string {
	return fmt.Sprintf("http://localhost:%d", s.port)
}

// IsDev reports whether dev-only routes are served.
func (s *Server) IsDev() bool {
	return s.isDev
}

func displayAddr(addr net.Addr) string {
	if tcp, ok := addr.(*net.TCPAddr); ok && tcp.IP.IsUnspecified() {
		return fmt.Sprintf("localhost:%d", tcp.Port)
	}
	return addr.String()
}
