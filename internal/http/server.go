// Package http provides the API server, its middleware stack and the
// dedicated metrics server.
package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"

	appointmentHTTP "github.com/andeanhealth/appointments/internal/appointment/http"
	"github.com/andeanhealth/appointments/internal/config"
)

// Server represents the appointment API server.
type Server struct {
	server       *http.Server
	logger       *slog.Logger
	shuttingDown atomic.Bool
}

// NewServer creates the API server with the full middleware stack and routes.
// metricsMiddleware may be nil when metrics are disabled.
func NewServer(
	cfg *config.Config,
	handler *appointmentHTTP.AppointmentHandler,
	metricsMiddleware gin.HandlerFunc,
	logger *slog.Logger,
) *Server {
	s := &Server{
		logger: logger,
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestid.New())
	router.Use(CustomLoggerMiddleware(logger))

	if corsMiddleware := createCORSMiddleware(cfg.CORSEnabled, cfg.CORSAllowOrigins, logger); corsMiddleware != nil {
		router.Use(corsMiddleware)
	}

	if metricsMiddleware != nil {
		router.Use(metricsMiddleware)
	}

	router.GET("/health", s.healthHandler)
	router.GET("/ready", s.readinessHandler)

	create := router.Group("/")
	if cfg.RateLimitEnabled {
		create.Use(IPRateLimitMiddleware(cfg.RateLimitRequestsPerSec, cfg.RateLimitBurst, logger))
	}
	create.POST("/appointments", handler.CreateHandler)

	router.GET("/appointments/:insuredId", handler.ListHandler)
	router.GET("/appointments/:insuredId/:appointmentId", handler.GetHandler)

	s.server = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.ServerHost, cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// GetHandler returns the http.Handler for testing purposes.
func (s *Server) GetHandler() http.Handler {
	return s.server.Handler
}

// Start starts the API server and blocks until it stops.
func (s *Server) Start(ctx context.Context) error {
	s.logger.Info("starting http server", slog.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the API server. The readiness probe starts
// reporting 503 so load balancers drain before in-flight requests finish.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	s.shuttingDown.Store(true)
	return s.server.Shutdown(ctx)
}

func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

func (s *Server) readinessHandler(c *gin.Context) {
	if s.shuttingDown.Load() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not ready"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}
