package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/lk2023060901/internet-data-toolkit/internal/conf"
	"github.com/lk2023060901/internet-data-toolkit/internal/pkg/logger"
	"github.com/lk2023060901/internet-data-toolkit/internal/pkg/response"
	"github.com/lk2023060901/internet-data-toolkit/internal/pkg/workerpool"
	"github.com/lk2023060901/internet-data-toolkit/internal/tools"
)

type HTTPServer struct {
	server  *http.Server
	logger  *logger.Logger
	handler *ToolHandler
}

func NewHTTPServer(
	config *conf.Config,
	log *logger.Logger,
	toolkit *tools.Toolkit,
	pool *workerpool.Pool,
) *HTTPServer {
	gin.SetMode(gin.ReleaseMode)

	handler := NewToolHandler(toolkit, pool)

	router := gin.New()
	router.Use(logger.GinRecovery(log))
	router.Use(logger.GinLogger(log, "/health"))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// API routes
	api := router.Group("/api/v1")
	handler.RegisterRoutes(api)

	router.NoRoute(func(c *gin.Context) {
		response.NotFound(c, "route not found")
	})

	return &HTTPServer{
		server: &http.Server{
			Addr:              config.Server.Addr(),
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
		logger:  log,
		handler: handler,
	}
}

// Handler exposes the router, mainly for tests.
func (s *HTTPServer) Handler() http.Handler {
	return s.server.Handler
}

func (s *HTTPServer) Start() error {
	s.logger.Info("starting HTTP server", zap.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}

	return nil
}

func (s *HTTPServer) Stop(ctx context.Context) error {
	s.logger.Info("stopping HTTP server")
	return s.server.Shutdown(ctx)
}
