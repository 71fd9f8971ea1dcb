// Package server provides the HTTP server for the recipe explorer JSON API
package server

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"time"

	"github.com/alchemorsel/recipe-explorer/internal/infrastructure/config"
	"github.com/alchemorsel/recipe-explorer/internal/infrastructure/http/handlers"
	"github.com/alchemorsel/recipe-explorer/internal/infrastructure/http/middleware"
	"github.com/alchemorsel/recipe-explorer/internal/infrastructure/monitoring"
	"github.com/alchemorsel/recipe-explorer/internal/ports/inbound"
	"github.com/alchemorsel/recipe-explorer/internal/ports/outbound"
	"github.com/alchemorsel/recipe-explorer/pkg/errors"
	"github.com/alchemorsel/recipe-explorer/pkg/healthcheck"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
)

// Dependencies are the services the API routes are built from. Metrics may
// be nil when metrics are disabled.
type Dependencies struct {
	Dashboard inbound.DashboardService
	Saved     inbound.SavedRecipeService
	Users     inbound.UserService
	Tokens    outbound.TokenService
	Health    *healthcheck.HealthCheck
	Metrics   *monitoring.MetricsCollector
}

// Server represents the HTTP server
type Server struct {
	config *config.Config
	logger *zap.Logger
	deps   Dependencies
	router *chi.Mux
	server *http.Server
}

// NewServer creates a new HTTP server instance
func NewServer(cfg *config.Config, logger *zap.Logger, deps Dependencies) *Server {
	s := &Server{
		config: cfg,
		logger: logger.Named("http-server"),
		deps:   deps,
	}
	s.router = s.setupRouter()

	// h2c serves HTTP/2 over cleartext for clients behind a TLS-terminating proxy
	handler := otelhttp.NewHandler(s.router, "http.server",
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return r.Method + " " + r.URL.Path
		}),
	)

	s.server = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           h2c.NewHandler(handler, &http2.Server{IdleTimeout: cfg.Server.IdleTimeout}),
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		MaxHeaderBytes:    cfg.Server.MaxHeaderBytes,
		ErrorLog:          zap.NewStdLog(s.logger),
	}

	return s
}

// setupRouter configures middleware and routes
func (s *Server) setupRouter() *chi.Mux {
	r := chi.NewRouter()
	writeError := handlers.NewErrorWriter(s.logger)

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(s.logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.SecurityHeaders)
	if s.config.Server.EnableCORS {
		r.Use(middleware.CORS(s.config.Server.AllowedOrigins))
	}
	if s.deps.Metrics != nil {
		r.Use(middleware.Metrics(s.deps.Metrics))
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, errors.NewNotFoundError("route "+r.Method+" "+r.URL.Path))
	})

	if s.deps.Health != nil {
		r.Get("/health", s.deps.Health.Handler())
		r.Get("/ready", s.deps.Health.ReadinessHandler())
		r.Get("/live", s.deps.Health.LivenessHandler())
	}
	if s.deps.Metrics != nil && s.config.Monitoring.EnableMetrics {
		r.Handle(s.config.Monitoring.MetricsPath, s.deps.Metrics.Handler())
	}

	docs := NewOpenAPIHandler(s.logger)
	r.Get("/api/v1/openapi.yaml", docs.ServeSpec)
	r.Get("/api/v1/docs", docs.ServeSwaggerUI)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(chimiddleware.Timeout(s.config.Server.RequestTimeout))
		r.Use(middleware.Authenticate(s.deps.Tokens, writeError, s.logger))
		s.setupAPIRoutes(r, writeError)
	})

	return r
}

// setupAPIRoutes configures the v1 endpoints
func (s *Server) setupAPIRoutes(r chi.Router, writeError middleware.ErrorWriter) {
	recipesH := handlers.NewRecipeHandlers(s.deps.Dashboard, s.config.Server.MaxUploadBytes, s.logger)
	savedH := handlers.NewSavedHandlers(s.deps.Dashboard, s.deps.Saved, s.logger)
	authH := handlers.NewAuthAPIHandlers(s.deps.Users, s.logger)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", authH.Register)
		r.Post("/login", authH.Login)
		r.With(middleware.RequireAuth(writeError)).Get("/me", authH.Me)
	})

	r.Post("/recipes/search", recipesH.Search)
	r.Post("/ingredients/detect", recipesH.DetectIngredients)

	r.Route("/saved", func(r chi.Router) {
		r.Use(middleware.RequireAuth(writeError))
		r.Get("/", savedH.List)
		r.Post("/", savedH.Save)
		r.Delete("/", savedH.Clear)
		r.Delete("/{id}", savedH.Remove)
	})
}

// Handler exposes the routed handler without the server wrapper
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start starts the HTTP server. It blocks until the server stops and
// returns nil after a graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("Starting HTTP server",
		zap.String("address", s.server.Addr),
		zap.String("environment", s.config.App.Environment),
	)

	if err := s.server.ListenAndServe(); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully shuts down the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	return s.server.Shutdown(ctx)
}
