package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	appservice "github.com/turtacn/obsdemo/internal/application/service"
	"github.com/turtacn/obsdemo/internal/config"
	"github.com/turtacn/obsdemo/internal/infrastructure/monitoring"
	"github.com/turtacn/obsdemo/internal/infrastructure/persistence/redis"
	httpserver "github.com/turtacn/obsdemo/internal/interfaces/http"
	"github.com/turtacn/obsdemo/internal/interfaces/http/handlers"
	"github.com/turtacn/obsdemo/pkg/logger"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Service stopped with error: %v", err)
	}
}

func run() error {
	// Logger for startup
	startupLogger, err := monitoring.NewZapLogger(&config.LogConfig{Level: "info"})
	if err != nil {
		return fmt.Errorf("create startup logger: %w", err)
	}

	// Load config
	loader := config.NewLoader(startupLogger)
	if path := os.Getenv("OBSDEMO_CONFIG_FILE"); path != "" {
		loader.SetConfigFile(path)
	}
	cfg, err := loader.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// Initialize logger
	appLogger, err := monitoring.NewZapLogger(&cfg.Log)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer func() { _ = appLogger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	loader.Watch(func(next *config.Config) {
		if next.Log.Level == appLogger.Level() {
			return
		}
		if err := appLogger.SetLevel(next.Log.Level); err != nil {
			appLogger.Warn(ctx, "Failed to apply log level", logger.Error(err))
			return
		}
		appLogger.Info(ctx, "Log level changed", logger.String("level", next.Log.Level))
	})

	// Initialize tracing
	tracing, err := monitoring.NewTracingManager(&cfg.Tracing, appLogger)
	if err != nil {
		return fmt.Errorf("initialize tracer: %w", err)
	}

	// Metrics registry
	registryOpts := []monitoring.RegistryOption{monitoring.WithBuckets(cfg.Metrics.Buckets)}
	if cfg.Metrics.RuntimeCollectors {
		registryOpts = append(registryOpts, monitoring.WithRuntimeCollectors())
	}
	registry := monitoring.NewRegistry(registryOpts...)

	// Dependency and application services
	redisConn := redis.NewRedisConnection(&cfg.Redis, appLogger.WithComponent("redis"))
	defer redisConn.Close()

	readinessSvc := appservice.NewReadinessAppService(redisConn, cfg.Redis.DialTimeout+cfg.Redis.ReadTimeout, appLogger.WithComponent("readiness"))
	loadSvc := appservice.NewLoadAppService(cfg.Work.MaxMs)

	// HTTP
	gin.SetMode(gin.ReleaseMode)
	router := httpserver.NewRouter(httpserver.RouterDependencies{
		Config:         cfg,
		Logger:         appLogger,
		Tracer:         tracing.Tracer(),
		Recorder:       registry,
		HealthHandler:  handlers.NewHealthHandler(readinessSvc, appLogger),
		WorkHandler:    handlers.NewWorkHandler(loadSvc, cfg.Work.DefaultMs, appLogger),
		MetricsHandler: handlers.NewMetricsHandler(registry.Gatherer(), appLogger),
	})
	server := httpserver.NewServer(&cfg.Server, router, appLogger)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return server.Run(gctx)
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return tracing.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		appLogger.Error(context.Background(), "Service stopped with error", err)
		return err
	}
	appLogger.Info(context.Background(), "Service stopped")
	return nil
}

//Personal.AI order the ending
