package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/eshaffer321/pos-register/internal/api/handlers"
	"github.com/eshaffer321/pos-register/internal/api/middleware"
	"github.com/eshaffer321/pos-register/internal/application/register"
	"github.com/eshaffer321/pos-register/internal/infrastructure/storage"
)

// Config holds API server configuration.
type Config struct {
	Port           int
	AllowedOrigins []string
}

// DefaultConfig returns sensible defaults for the API server.
func DefaultConfig() Config {
	return Config{
		Port:           8080,
		AllowedOrigins: []string{"http://localhost:3000", "http://localhost:5173"},
	}
}

// Server is the HTTP API server.
type Server struct {
	config     Config
	router     chi.Router
	httpServer *http.Server
	logger     *slog.Logger
	repo       storage.Repository
	register   *register.Service
}

// NewServer creates a new API server for one register.
func NewServer(cfg Config, repo storage.Repository, svc *register.Service, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		config:   cfg,
		router:   chi.NewRouter(),
		logger:   logger,
		repo:     repo,
		register: svc,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// setupMiddleware configures global middleware.
func (s *Server) setupMiddleware() {
	s.router.Use(chimw.RequestID)
	s.router.Use(chimw.Recoverer)

	// CORS
	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowedOrigins = s.config.AllowedOrigins
	s.router.Use(middleware.CORS(corsConfig))

	// Request logging
	s.router.Use(middleware.Logging(s.logger))
}

// setupRoutes configures all API routes.
func (s *Server) setupRoutes() {
	// Health check (no /api prefix - for load balancers)
	healthHandler := handlers.NewHealthHandler(s.repo)
	s.router.Get("/health", healthHandler.ServeHTTP)

	s.router.Route("/api", func(r chi.Router) {
		// Live register
		registerHandler := handlers.NewRegisterHandler(s.repo, s.register)
		r.Route("/register", func(r chi.Router) {
			r.Get("/", registerHandler.Get)
			r.Post("/items", registerHandler.AddItem)
			r.Post("/checkout", registerHandler.Checkout)
			r.Post("/discount", registerHandler.ApplyDiscount)
			r.Post("/change", registerHandler.CalculateChange)
			r.Post("/close", registerHandler.Close)
			r.Post("/complete", registerHandler.Complete)
		})

		// Sale history
		salesHandler := handlers.NewSalesHandler(s.repo, s.register)
		r.Get("/sales", salesHandler.List)
		r.Get("/sales/{orderNumber}", salesHandler.Get)
		r.Post("/sales/{orderNumber}/status", salesHandler.UpdateStatus)

		// Product catalog
		productsHandler := handlers.NewProductsHandler(s.repo)
		r.Get("/products", productsHandler.List)
		r.Post("/products", productsHandler.Save)

		// Stats
		statsHandler := handlers.NewStatsHandler(s.repo)
		r.Get("/stats", statsHandler.Get)
	})
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.config.Port)

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.logger.Info("starting API server", "addr", addr)

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down API server")

	if s.httpServer == nil {
		return nil
	}

	return s.httpServer.Shutdown(ctx)
}

// Router returns the chi router for testing.
func (s *Server) Router() chi.Router {
	return s.router
}
