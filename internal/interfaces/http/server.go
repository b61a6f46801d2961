// Package http provides the HTTP adapter over the application services. It
// translates requests into service calls and classified service errors into
// status codes; no domain logic lives here.
package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Cventura12/Clarify-AI-sub000/internal/application/service"
)

// Logger interface for logging operations
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// DefaultServerConfig returns default server configuration
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Host:         "0.0.0.0",
		Port:         8080,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
}

// Server is the HTTP server adapter
type Server struct {
	config                ServerConfig
	httpServer            *http.Server
	router                *gin.Engine
	interpretationService service.InterpretationService
	planService           service.PlanService
	stepService           service.StepService
	executionService      service.ExecutionService
	logger                Logger
}

// NewServer creates a new HTTP server with the given services
func NewServer(
	config ServerConfig,
	interpretationService service.InterpretationService,
	planService service.PlanService,
	stepService service.StepService,
	executionService service.ExecutionService,
	logger Logger,
) *Server {
	gin.SetMode(gin.ReleaseMode)

	server := &Server{
		config:                config,
		router:                gin.New(),
		interpretationService: interpretationService,
		planService:           planService,
		stepService:           stepService,
		executionService:      executionService,
		logger:                logger,
	}

	server.setupMiddleware()
	server.setupRoutes()

	return server
}

// setupMiddleware configures middleware for the router
func (s *Server) setupMiddleware() {
	s.router.Use(gin.Recovery())
	s.router.Use(s.loggingMiddleware())
}

// loggingMiddleware creates a logging middleware
func (s *Server) loggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		s.logger.Info("HTTP request",
			"method", method,
			"path", path,
			"status", c.Writer.Status(),
			"latency", time.Since(start).String(),
			"client_ip", c.ClientIP(),
		)
	}
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() {
	handlers := NewHandlers(s.interpretationService, s.planService, s.stepService, s.executionService, s.logger)

	// Health check
	s.router.GET("/health", handlers.HealthCheck)

	// API routes
	api := s.router.Group("/api")
	{
		// Requests and interpretation
		api.POST("/requests", handlers.CreateRequest)
		api.GET("/requests", handlers.ListRequests)
		api.GET("/requests/:id", handlers.GetRequest)

		// Tasks
		api.GET("/tasks", handlers.ListTasks)
		api.GET("/tasks/:id", handlers.GetTask)
		api.POST("/tasks/:id/abandon", handlers.AbandonTask)
		api.POST("/tasks/:id/plan", handlers.CreatePlan)
		api.GET("/tasks/:id/plan", handlers.GetPlanForTask)

		// Plans
		api.GET("/plans/:id", handlers.GetPlan)
		api.POST("/plans/:id/execute", handlers.ExecutePlan)
		api.GET("/plans/:id/logs", handlers.GetPlanLogs)
		api.GET("/plans/:id/runs", handlers.GetPlanRuns)

		// Steps
		api.GET("/steps/:id", handlers.GetStep)
		api.POST("/steps/:id/authorize", handlers.AuthorizeStep)
		api.POST("/steps/:id/reject", handlers.RejectStep)
		api.POST("/steps/:id/execute", handlers.ExecuteStep)
		api.GET("/steps/:id/logs", handlers.GetStepLogs)
		api.GET("/steps/:id/artifacts", handlers.GetStepArtifacts)
		api.GET("/steps/:id/artifacts/:artifactID/content", handlers.DownloadArtifact)
	}
}

// Start starts the HTTP server and blocks until the context is cancelled.
func (s *Server) Start(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}

	s.logger.Info("Starting HTTP server", "address", addr)

	errCh := make(chan error, 1)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("HTTP server shutdown requested")
		return s.Stop()
	case err := <-errCh:
		s.logger.Error("HTTP server error", "error", err)
		return err
	}
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop() error {
	if s.httpServer == nil {
		return nil
	}

	s.logger.Info("Stopping HTTP server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.logger.Error("HTTP server shutdown error", "error", err)
		return err
	}

	s.logger.Info("HTTP server stopped")
	return nil
}

// Router returns the underlying gin router (for testing)
func (s *Server) Router() *gin.Engine {
	return s.router
}
