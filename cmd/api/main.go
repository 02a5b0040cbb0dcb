package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"food-delivery/internal/cache"
	"food-delivery/internal/config"
	"food-delivery/internal/database"
	"food-delivery/internal/db"
	"food-delivery/internal/handler"
	"food-delivery/internal/repository"
	"food-delivery/internal/router"
	"food-delivery/internal/service"
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
	logger.Info().Msg("starting food-delivery API server")

	// Create context for application lifecycle
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize database connection pool
	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	// Initialize the statement executor for single-statement order queries
	executor := db.NewExecutor(cfg.Database.ConnectionString(), logger)
	if err := executor.Connect(ctx); err != nil {
		return fmt.Errorf("failed to connect statement executor: %w", err)
	}
	defer executor.Disconnect(ctx)

	// Initialize catalogue cache; a nil cache disables caching
	menuCache, err := cache.New(ctx, cfg.Redis, logger)
	if err != nil {
		logger.Warn().Err(err).Msg("failed to connect redis, continuing without cache")
		menuCache = nil
	}
	defer menuCache.Close()

	// Initialize repositories
	orderRepo := repository.NewOrderRepository(pool, executor, logger)
	userRepo := repository.NewUserRepository(pool, logger)
	restaurantRepo := repository.NewRestaurantRepository(pool, logger)
	menuRepo := repository.NewMenuRepository(pool, logger)

	// Initialize services
	orderService := service.NewOrderService(orderRepo, logger)
	menuService := service.NewMenuService(restaurantRepo, menuRepo, menuCache, logger)
	authService := service.NewAuthService(userRepo, logger)

	// Initialize HTTP handlers
	orderHandler := handler.NewOrderHandler(orderService, logger)
	restaurantHandler := handler.NewRestaurantHandler(menuService, logger)
	authHandler := handler.NewAuthHandler(authService, logger)

	// Initialize router
	mux := router.New(orderHandler, restaurantHandler, authHandler, cfg.Auth.APIKey, logger)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Channel to listen for errors from the server
	serverErrors := make(chan error, 1)

	// Start HTTP server in a goroutine
	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
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

		// Create a context with timeout for shutdown
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		// Attempt graceful shutdown
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown server gracefully")
			// Force close
			if closeErr := server.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		logger.Info().Msg("server shutdown completed")
	}

	return nil
}
