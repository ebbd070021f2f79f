package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/folioapi/folio/internal/handler"
	"github.com/folioapi/folio/internal/mail"
	"github.com/folioapi/folio/internal/ratelimit"
	"github.com/folioapi/folio/internal/server/middleware"
	"github.com/folioapi/folio/internal/service"
	"github.com/folioapi/folio/internal/store"
)

// Config holds the HTTP server configuration.
type Config struct {
	Host            string
	Port            int
	ShutdownTimeout time.Duration
	CORSOrigins     []string
	LoginRatePerMin int
}

// DefaultConfig returns a Config with sensible production defaults.
func DefaultConfig() Config {
	return Config{
		Host:            "0.0.0.0",
		Port:            8080,
		ShutdownTimeout: 30 * time.Second,
		CORSOrigins:     []string{"*"},
		LoginRatePerMin: 10,
	}
}

// Server is the top-level HTTP server for the portfolio API. It owns the Chi
// router, the database store, the auth service, the contact-form rate
// limiter, and the mail notifier.
type Server struct {
	cfg        Config
	router     chi.Router
	store      *store.Store
	authSvc    *service.AuthService
	limiter    ratelimit.Limiter
	notifier   *mail.Notifier
	httpServer *http.Server
	logger     *slog.Logger
}

// New creates a new Server, wires up all routes and middleware, and returns
// it ready to listen. Call ListenAndServe to start accepting connections.
func New(cfg Config, st *store.Store, authSvc *service.AuthService, limiter ratelimit.Limiter, notifier *mail.Notifier, logger *slog.Logger) *Server {
	s := &Server{
		cfg:      cfg,
		store:    st,
		authSvc:  authSvc,
		limiter:  limiter,
		notifier: notifier,
		logger:   logger,
	}
	s.setupRouter()
	return s
}

func (s *Server) setupRouter() {
	r := chi.NewRouter()

	// --- Global middleware ---
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(s.logger))
	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// --- Health checks (no auth required) ---
	r.Get("/healthz", s.handleHealthz)
	r.Get("/readyz", s.handleReadyz)

	// --- API routes ---
	contactHandler := handler.NewContactHandler(s.store, s.limiter, s.notifier, s.logger)
	authHandler := handler.NewAuthHandler(s.authSvc, s.logger)
	subHandler := handler.NewSubmissionHandler(s.store, s.logger)

	r.Route("/api", func(r chi.Router) {
		// Public: contact form submission. The fixed-window quota is
		// enforced inside the handler so 429 carries the JSON envelope.
		r.Post("/contact", contactHandler.Submit)

		// Public: admin session. Login gets its own per-IP throttle as
		// brute-force protection.
		r.Group(func(r chi.Router) {
			r.Use(middleware.LoginRateLimit(s.cfg.LoginRatePerMin))
			r.Post("/auth/login", authHandler.Login)
		})
		r.Get("/auth/verify", authHandler.Verify)

		// Admin dashboard endpoints require a bearer token.
		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate(s.authSvc))

			r.Get("/submissions", subHandler.List)
			r.Get("/submissions/{id}", subHandler.Get)
			r.Patch("/submissions/{id}", subHandler.Update)
		})
	})

	s.router = r
}

// handleHealthz is a liveness probe. Returns 200 if the process is running.
func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

// handleReadyz is a readiness probe. Returns 200 when the database is
// reachable, or 503 otherwise.
func (s *Server) handleReadyz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := s.store.Ping(r.Context()); err != nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"status":"degraded","checks":{"database":"error"}}`))
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok","checks":{"database":"ok"}}`))
}

// ListenAndServe starts the HTTP server and blocks until a SIGINT or SIGTERM
// is received. It then performs a graceful shutdown, draining in-flight
// requests and the notification queue before closing the database.
func (s *Server) ListenAndServe() error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", "addr", addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server listen: %w", err)
	case <-ctx.Done():
		s.logger.Info("shutdown signal received, draining connections...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	// Flush pending notification emails, then release the database.
	s.notifier.Close()
	if err := s.store.Close(); err != nil {
		s.logger.Error("close store", "error", err)
	}
	s.logger.Info("server stopped")
	return nil
}

// Router returns the underlying Chi router, useful for testing.
func (s *Server) Router() chi.Router {
	return s.router
}

// ServeHTTP implements http.Handler, delegating to the router.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}
