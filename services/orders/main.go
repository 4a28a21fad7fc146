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
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel"
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

	ctx := context.Background()

	// Initialize OpenTelemetry
	shutdownTelemetry, err := initTelemetry(ctx, cfg)
	if err != nil {
		logger.Fatal("Failed to initialize telemetry", zap.Error(err))
	}
	defer func() {
		if err := shutdownTelemetry(context.Background()); err != nil {
			logger.Error("Error shutting down telemetry", zap.Error(err))
		}
	}()

	// Initialize dependencies
	repository := NewMemoryOrderRepository()
	useCase, err := NewOrderUseCase(repository, logger, otel.Meter(cfg.ServiceName))
	if err != nil {
		logger.Fatal("Failed to initialize use case", zap.Error(err))
	}
	if cfg.SeedSampleData {
		if err := useCase.SeedSampleOrders(ctx); err != nil {
			logger.Fatal("Failed to seed sample orders", zap.Error(err))
		}
		logger.Info("📦 Sample orders loaded", zap.Int("count", len(sampleOrders)))
	}
	handler := NewOrderHandler(useCase, otel.Tracer(cfg.ServiceName), logger)

	router := setupRouter(cfg.ServiceName, handler, logger)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	go func() {
		logger.Info("🚀 Orders Service listening", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown failed", zap.Error(err))
	}
	logger.Info("Server stopped")
}

func setupRouter(serviceName string, handler *OrderHandler, logger *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recovery(logger))
	r.Use(otelgin.Middleware(serviceName))
	r.NoRoute(middleware.NotFound())

	r.GET("/health", handler.HealthCheck(serviceName))
	handler.RegisterRoutes(r)

	return r
}
