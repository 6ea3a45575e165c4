package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"property-analytics/analytics"
	"property-analytics/models"
	"property-analytics/utils"
)

// PropertyProvider returns the listings and summary stored for a search origin.
type PropertyProvider interface {
	Get(ctx context.Context, origin string) (*models.PropertiesResponse, error)
}

// Config holds the HTTP server settings.
type Config struct {
	Port         int
	CORSOrigins  []string
	WriteTimeout time.Duration
	View         analytics.ViewParams
}

// Server is the HTTP API in front of the property service and the
// analytics pipeline.
type Server struct {
	cfg        Config
	properties PropertyProvider
	logger     *utils.Logger
	router     chi.Router
	httpServer *http.Server
}

func New(cfg Config, properties PropertyProvider, logger *utils.Logger) *Server {
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = 5 * time.Minute
	}

	s := &Server{
		cfg:        cfg,
		properties: properties,
		logger:     logger,
	}

	r := chi.NewRouter()
	r.Use(chiMiddleware.RequestID)
	r.Use(jsonRecoverer(logger.Zap()))
	r.Use(requestLogger(logger.Zap()))
	r.Use(corsMiddleware(cfg.CORSOrigins))
	r.Use(metricsMiddleware())

	r.Get("/health", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())
	r.Route("/api", func(r chi.Router) {
		r.Get("/properties", s.handleProperties)
		r.Get("/analytics", s.handleAnalytics)
	})
	s.router = r

	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.WriteTimeout,
	}
	return s
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start blocks serving HTTP until Shutdown is called.
func (s *Server) Start() error {
	s.logger.Info("[server] Listening on %s", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// Shutdown stops accepting connections and waits for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
