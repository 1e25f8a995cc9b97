package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/shiv90154/CarrerPath-sub002/internal/config"
	"github.com/shiv90154/CarrerPath-sub002/internal/infrastructure/database"
	httpServer "github.com/shiv90154/CarrerPath-sub002/internal/infrastructure/http"
	"github.com/shiv90154/CarrerPath-sub002/internal/infrastructure/provider"
	"github.com/shiv90154/CarrerPath-sub002/internal/usecase"
	pkglogger "github.com/shiv90154/CarrerPath-sub002/pkg/logger"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger, err := pkglogger.NewZapLogger(pkglogger.Config{
		Level:       cfg.Log.Level,
		Format:      cfg.Log.Format,
		Output:      cfg.Log.Output,
		FilePath:    cfg.Log.FilePath,
		Development: cfg.Service.Environment == "development",
	})
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	logger = logger.With(
		zap.String("service", cfg.Service.Name),
		zap.String("environment", cfg.Service.Environment),
	)

	// Create context for startup and graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize database connection
	db, err := database.NewConnection(ctx, &cfg.Database, cfg.Log.Level, logger)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := database.Close(db, logger); err != nil {
			logger.Error("Failed to close database connection", zap.Error(err))
		}
	}()

	// Run database migrations
	if err := database.Migrate(db, logger); err != nil {
		logger.Fatal("Failed to run database migrations", zap.Error(err))
	}

	// Initialize repositories
	repos := database.NewRepositories(db, logger)

	// Initialize external providers
	providers, err := provider.NewFactory(cfg, logger).Build(ctx)
	if err != nil {
		logger.Fatal("Failed to initialize providers", zap.Error(err))
	}
	defer func() {
		closeCtx, closeCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer closeCancel()
		if err := providers.Close(closeCtx); err != nil {
			logger.Error("Failed to close providers", zap.Error(err))
		}
	}()

	// Metrics registry
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	// Initialize use cases
	useCases := usecase.SetupUseCases(logger, cfg, usecase.Dependencies{
		Transactor:   repos.Transactor,
		Orders:       repos.Order,
		Proofs:       repos.Proof,
		Entitlements: repos.Entitlement,
		Transitions:  repos.Transition,
		Catalog:      providers.Catalog,
		Storage:      providers.Storage,
		Cache:        providers.Cache,
		Publisher:    providers.Publisher,
		Registerer:   registry,
	})

	// Initialize server
	httpSrv := httpServer.NewServer(cfg, logger, useCases, registry)

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- httpSrv.Start()
	}()

	// Wait for interrupt signal or server failure
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-sigChan:
		logger.Info("Received shutdown signal", zap.String("signal", sig.String()))
	case err := <-serverErr:
		if err != nil {
			logger.Error("HTTP server stopped", zap.Error(err))
		}
	}

	logger.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(ctx, cfg.Server.HTTP.ShutdownTimeout)
	defer shutdownCancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Failed to shutdown HTTP server", zap.Error(err))
	}

	logger.Info("Server shut down successfully")
}
