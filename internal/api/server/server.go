package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/cecilvega/kverse-sub000/internal/api/middleware"
	"github.com/cecilvega/kverse-sub000/internal/api/rest"
	"github.com/cecilvega/kverse-sub000/internal/api/shared/executor"
	"github.com/cecilvega/kverse-sub000/internal/logger"
	"github.com/cecilvega/kverse-sub000/internal/providers/temporal"
	"github.com/cecilvega/kverse-sub000/internal/store"
)

// Config holds the server configuration
type Config struct {
	Debug                 bool
	Host                  string
	Port                  int
	ReadTimeout           time.Duration
	WriteTimeout          time.Duration
	IdleTimeout           time.Duration
	CORSAllowedOrigins    []string
	OrchestratorTaskQueue string
	Auth                  middleware.AuthConfig
}

// Server wraps the HTTP server
type Server struct {
	config        Config
	store         store.Store
	orchestrator  temporal.TemporalOrchestrator
	authenticator *middleware.Authenticator
	httpServer    *http.Server
}

// New creates a new API server. Without configured credentials the run trigger is unauthenticated.
func New(cfg Config, store store.Store, orchestrator temporal.TemporalOrchestrator) (*Server, error) {
	s := &Server{
		config:       cfg,
		store:        store,
		orchestrator: orchestrator,
	}

	if cfg.Auth.Enabled() {
		authenticator, err := middleware.NewAuthenticator(cfg.Auth)
		if err != nil {
			return nil, fmt.Errorf("failed to configure authentication: %w", err)
		}
		s.authenticator = authenticator
	}

	return s, nil
}

// Router builds the gin engine with every middleware and route
func (s *Server) Router() *gin.Engine {
	if s.config.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(middleware.RequestID())
	router.Use(middleware.Recovery())
	router.Use(middleware.Logger())
	router.Use(middleware.SetupCORS(s.config.CORSAllowedOrigins))

	exec := executor.NewExecutor(s.store, s.orchestrator, s.config.OrchestratorTaskQueue)
	rest.SetupRoutes(router, rest.NewHandler(exec), s.authenticator)

	return router
}

// Start initializes and starts the HTTP server
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.Router(),
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  s.config.IdleTimeout,
	}

	logger.Info("Starting API server", zap.String("address", addr))

	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	logger.Info("Shutting down API server")

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			return fmt.Errorf("failed to shutdown server: %w", err)
		}
	}

	return nil
}
