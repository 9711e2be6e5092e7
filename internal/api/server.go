package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/brainviz/connectome-core/internal/abide"
	"github.com/brainviz/connectome-core/internal/api/handlers"
	"github.com/brainviz/connectome-core/internal/api/middleware"
	"github.com/brainviz/connectome-core/internal/config"
	"github.com/brainviz/connectome-core/internal/monitoring"
	"github.com/brainviz/connectome-core/internal/pipeline"
	"github.com/brainviz/connectome-core/internal/wavelet"
	"github.com/brainviz/connectome-core/pkg/logger"
)

type Server struct {
	config  *config.Config
	logger  logger.Logger
	catalog *abide.Catalog
	dataset *wavelet.Dataset
	runner  *pipeline.Runner

	router     *gin.Engine
	httpServer *http.Server
}

func NewServer(
	cfg *config.Config,
	log logger.Logger,
	catalog *abide.Catalog,
	dataset *wavelet.Dataset,
	runner *pipeline.Runner,
) *Server {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	server := &Server{
		config:  cfg,
		logger:  log,
		catalog: catalog,
		dataset: dataset,
		runner:  runner,
		router:  router,
	}

	server.setupMiddleware()
	server.setupRoutes()

	return server
}

func (s *Server) setupMiddleware() {
	// Recovery middleware
	s.router.Use(gin.Recovery())

	// CORS for the visualization frontend
	s.router.Use(middleware.CORSMiddleware(s.config.CORS))

	// Request IDs for log correlation
	s.router.Use(middleware.RequestID())

	// Request logging
	s.router.Use(middleware.RequestLogger(s.logger))

	// Prometheus request metrics
	s.router.Use(middleware.MetricsMiddleware())

	// OpenAPI specification endpoints
	s.router.GET("/api/openapi.yaml", handlers.GetOpenAPIYAML)
	s.router.GET("/api/openapi.json", handlers.GetOpenAPISpec)

	// Swagger UI via gin-swagger (serves Swagger UI using external openapi.yaml)
	// Visit /swagger/index.html
	s.router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/api/openapi.yaml")))

	// Prometheus metrics endpoint
	if s.config.Monitoring.PrometheusEnabled {
		monitoring.SetupPrometheusMetrics(s.router, s.config.Monitoring.MetricsPath)
	}
}

func (s *Server) setupRoutes() {
	healthHandler := handlers.NewHealthHandler(s.catalog, s.dataset, s.logger)
	subjectHandler := handlers.NewSubjectHandler(s.catalog, s.logger)
	methodHandler := handlers.NewMethodHandler()
	graphHandler := handlers.NewGraphHandler(s.catalog, s.runner, s.logger)
	configHandler := handlers.NewConfigHandler(s.config)

	// Public health endpoints
	s.router.GET("/health", healthHandler.HealthCheck)
	s.router.GET("/ready", healthHandler.ReadinessCheck)

	// Root redirect to Swagger UI for convenience
	s.router.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusFound, "/swagger/index.html")
	})

	// API v1 group
	v1 := s.router.Group("/api/v1")

	// Back-compat: expose health under /api/v1 as well
	v1.GET("/health", healthHandler.HealthCheck)

	v1.GET("/subjects", subjectHandler.ListSubjects)
	v1.GET("/subjects/:id/signal", subjectHandler.GetSignalSummary)
	v1.GET("/methods", methodHandler.GetMethods)
	v1.POST("/graph", graphHandler.CreateGraph)
	v1.GET("/config", configHandler.GetConfig)

	if s.config.WebSocket.Enabled {
		streamHandler := handlers.NewStreamHandler(s.catalog, s.runner, s.config.WebSocket, s.logger)
		v1.GET("/graph/stream", streamHandler.StreamGraph)
	}
}

func (s *Server) Start(ctx context.Context) error {
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	// Start server in goroutine
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("connectome-core REST API server starting", "port", s.config.Port)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	// Wait for shutdown signal or error
	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
		s.logger.Info("shutting down connectome-core gracefully")
	}

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	return s.httpServer.Shutdown(shutdownCtx)
}

// Handler returns the underlying Gin engine so tests (or embedders) can mount it.
func (s *Server) Handler() http.Handler {
	return s.router
}
