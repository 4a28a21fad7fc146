package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/matheusmosca/bookstore-microservices/shared/middleware"
)

func main() {
	cfg, err := LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := middleware.NewLogger(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	router, err := setupRouter(cfg, NewServerMetrics(cfg.ServiceName), logger)
	if err != nil {
		logger.Fatal("Failed to configure routes", zap.Error(err))
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	go func() {
		logger.Info("🚀 API Gateway running", zap.String("port", cfg.Port))
		logger.Info("🏥 Health check available", zap.String("url", "http://localhost:"+cfg.Port+"/health"))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown failed", zap.Error(err))
	}
	logger.Info("Server stopped")
}

func setupRouter(cfg *Config, metrics *ServerMetrics, logger *zap.Logger) (*gin.Engine, error) {
	r := gin.New()
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recovery(logger))
	r.Use(metrics.Middleware())
	r.NoRoute(middleware.NotFound())

	health := NewHealthHandler(cfg.Upstreams(), cfg.HealthTimeout, logger)
	r.GET("/health", health.Health)
	r.GET("/health/services", health.Services)
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	if err := registerProxies(r, cfg.Upstreams(), logger); err != nil {
		return nil, err
	}

	return r, nil
}
