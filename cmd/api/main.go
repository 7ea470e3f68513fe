package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"caseable-catalog/internal/client"
	"caseable-catalog/internal/config"
	"caseable-catalog/internal/database"
	"caseable-catalog/internal/handler"
	"caseable-catalog/internal/repository"
	"caseable-catalog/internal/router"
	"caseable-catalog/internal/service"
	"caseable-catalog/internal/snapshot"
	"caseable-catalog/internal/transport"

	"github.com/rs/zerolog"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize logger
	logger := config.NewLogger(cfg.Logger)
	logger.Info().Msg("starting caseable picker API server")

	// Create context for application lifecycle
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize the catalog client; a rejected configuration stops startup
	catalogClient := client.New(
		transport.New(cfg.Catalog.TransportConfig(), logger),
		cfg.Catalog.ClientOptions(),
		logger,
	)
	if err := catalogClient.Initialize(
		cfg.Catalog.BaseURL,
		cfg.Catalog.Partner,
		cfg.Catalog.Region,
		cfg.Catalog.Lang,
	); err != nil {
		return fmt.Errorf("failed to initialize catalog client: %w", err)
	}

	// Initialize database connection pool
	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	journal := repository.NewOrderStatusRepository(pool, logger)

	// Snapshot store on the local file system, mirrored to S3 when enabled
	snapshotStore := newSnapshotStore(ctx, cfg, logger)

	// Initialize services
	catalogService := service.NewCatalogService(catalogClient, logger)
	orderService := service.NewOrderService(catalogClient, journal, cfg.Orders.Credentials(), logger)
	snapshotService := service.NewSnapshotService(catalogClient, snapshotStore, logger)

	// Initialize HTTP handlers
	catalogHandler := handler.NewCatalogHandler(catalogService, logger)
	orderHandler := handler.NewOrderHandler(orderService, logger)
	snapshotHandler := handler.NewSnapshotHandler(snapshotService, logger)

	// Initialize router
	mux := router.New(catalogHandler, orderHandler, snapshotHandler, cfg.Auth.APIKey, logger)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Channel to listen for errors from the server
	serverErrors := make(chan error, 1)

	// Start HTTP server in a goroutine
	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Str("catalog", cfg.Catalog.BaseURL).
			Str("region", cfg.Catalog.Region).
			Msg("HTTP server started")
		serverErrors <- server.ListenAndServe()
	}()

	// Channel to listen for interrupt signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a signal or an error
	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info().
			Str("signal", sig.String()).
			Msg("shutdown signal received, starting graceful shutdown")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown server gracefully")
			if closeErr := server.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		logger.Info().Msg("server shutdown completed")
	}

	return nil
}

func newSnapshotStore(ctx context.Context, cfg *config.Config, logger zerolog.Logger) snapshot.Store {
	fileStore := snapshot.NewFileStore(cfg.Snapshot.Dir, logger)

	if !cfg.S3.Enabled {
		logger.Info().Msg("using local file system for catalog snapshots (S3 disabled)")
		return fileStore
	}

	s3Store, err := snapshot.NewS3Store(ctx, cfg.S3.Bucket, cfg.S3.Region, logger)
	if err != nil {
		logger.Warn().
			Err(err).
			Msg("failed to initialise S3 store, falling back to local file system only")
		return fileStore
	}

	return snapshot.NewFallbackStore(s3Store, fileStore, cfg.S3.Prefix, true, logger)
}
