package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
	"github.com/turtacn/obsdemo/internal/config"
	"github.com/turtacn/obsdemo/internal/domain/service"
	"github.com/turtacn/obsdemo/internal/interfaces/http/handlers"
	"github.com/turtacn/obsdemo/internal/interfaces/http/middleware"
	"github.com/turtacn/obsdemo/pkg/logger"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// RouterDependencies 路由依赖
type RouterDependencies struct {
	Config         *config.Config
	Logger         logger.Logger
	Tracer         trace.Tracer
	Recorder       service.MetricsRecorder
	HealthHandler  *handlers.HealthHandler
	WorkHandler    *handlers.WorkHandler
	MetricsHandler *handlers.MetricsHandler
}

// NewRouter 创建路由器. The middleware chain is composed once here:
// recovery → request id → tracing → logging → request metrics → handler.
func NewRouter(deps RouterDependencies) *gin.Engine {
	engine := gin.New()

	tracer := deps.Tracer
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer("")
	}

	// 全局中间件
	engine.Use(
		handlers.RecoveryMiddleware(deps.Logger),
		handlers.RequestIDMiddleware(),
		handlers.TracingMiddleware(tracer),
		handlers.LoggingMiddleware(deps.Logger),
		middleware.RequestMetrics(deps.Recorder,
			middleware.WithPathLabeler(middleware.PathLabelerFor(deps.Config.Metrics.PathLabel)),
			middleware.WithLogger(deps.Logger),
		),
	)

	// CORS 配置
	if origins := deps.Config.Server.AllowedOrigins; len(origins) > 0 {
		engine.Use(cors.New(cors.Config{
			AllowOrigins:  origins,
			AllowMethods:  []string{http.MethodGet, http.MethodOptions},
			AllowHeaders:  []string{"Origin", "Content-Type", "X-Request-ID"},
			ExposeHeaders: []string{"X-Request-ID"},
			MaxAge:        12 * time.Hour,
		}))
	}

	// 健康检查路由
	engine.GET("/health", deps.HealthHandler.LivenessCheck)
	engine.GET("/ready", deps.HealthHandler.ReadinessCheck)

	// 负载生成
	engine.GET("/work", deps.WorkHandler.Work)

	// Prometheus metrics
	engine.GET("/metrics", deps.MetricsHandler.Metrics)

	// Pprof 性能分析（仅在显式开启时）
	if deps.Config.Server.PprofEnabled {
		pprof.Register(engine)
	}

	// 404 处理
	engine.NoRoute(handlers.NotFoundHandler)

	return engine
}

// Server wraps http.Server with the configured timeouts.
type Server struct {
	server          *http.Server
	shutdownTimeout time.Duration
	logger          logger.Logger
}

// NewServer creates the HTTP server for handler.
func NewServer(cfg *config.ServerConfig, handler http.Handler, log logger.Logger) *Server {
	return &Server{
		server: &http.Server{
			Addr:           cfg.Addr(),
			Handler:        handler,
			ReadTimeout:    cfg.ReadTimeout,
			WriteTimeout:   cfg.WriteTimeout,
			IdleTimeout:    cfg.IdleTimeout,
			MaxHeaderBytes: 1 << 20, // 1MB
		},
		shutdownTimeout: cfg.ShutdownTimeout,
		logger:          log,
	}
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info(ctx, "Starting HTTP server", logger.String("address", s.server.Addr))
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info(context.Background(), "Shutting down HTTP server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()

	if err := s.server.Shutdown(shutdownCtx); err != nil {
		s.logger.Error(shutdownCtx, "Server forced to shutdown", err)
		return err
	}

	s.logger.Info(context.Background(), "HTTP server stopped")
	return <-errCh
}
