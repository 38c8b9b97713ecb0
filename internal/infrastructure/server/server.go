package server

import (
	"context"
	"errors"
	"net"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apihttp "github.com/GriffinCanCode/Workspace/backend/internal/api/http"
	"github.com/GriffinCanCode/Workspace/backend/internal/api/middleware"
	"github.com/GriffinCanCode/Workspace/backend/internal/infrastructure/monitoring"
)

// Server serves the command surface over HTTP
type Server struct {
	backend *Backend
	router  *gin.Engine
}

// NewServer builds the router around backend
func NewServer(backend *Backend, version string) *Server {
	cfg := backend.Config
	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(backend.Logger))
	router.Use(monitoring.Middleware(backend.Metrics))
	router.Use(middleware.CORS(middleware.DefaultCORSConfig(cfg.Server.AllowOrigins)))
	if cfg.RateLimit.Enabled {
		backend.Logger.Info("Rate limiting enabled",
			zap.Int("rps", cfg.RateLimit.RequestsPerSecond),
			zap.Int("burst", cfg.RateLimit.Burst),
		)
		router.Use(middleware.RateLimit(middleware.RateLimitConfig{
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			Burst:             cfg.RateLimit.Burst,
		}))
	}

	handlers := apihttp.NewHandlers(backend.Registry, backend.Logger, version)

	router.GET("/", handlers.Root)
	router.GET("/health", handlers.Health)

	// Command surface
	router.GET("/services", handlers.ListServices)
	router.GET("/services/discover", handlers.DiscoverServices)
	router.POST("/services/execute", handlers.ExecuteService)

	router.GET("/metrics", gin.WrapH(backend.Metrics.Handler()))

	return &Server{backend: backend, router: router}
}

// Handler returns the HTTP handler
func (s *Server) Handler() http.Handler { return s.router }

// Run serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	cfg := s.backend.Config
	addr := net.JoinHostPort(cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: s.router,
	}

	errCh := make(chan error, 1)
	go func() {
		s.backend.Logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.backend.Logger.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		s.backend.Logger.Error("Graceful shutdown failed", zap.Error(err))
		return err
	}
	return nil
}
