package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"petshop/api"
	"petshop/api/handlers"
	"petshop/internal/config"
	"petshop/internal/logging"
	"petshop/internal/services"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("petshop: %v", err)
	}
}

// run returns instead of exiting so deferred cleanup always happens.
func run() error {
	cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.LogLevel, cfg.IsProduction())
	if err != nil {
		return err
	}
	defer logger.Sync()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Prices and totals go over the wire as JSON numbers
	decimal.MarshalJSONWithoutQuotes = true

	ctx := context.Background()

	// Initialize storage
	backend, err := openBackend(ctx, cfg.Store)
	if err != nil {
		return fmt.Errorf("open %s store: %w", cfg.Store.Backend, err)
	}
	defer func() {
		if err := backend.Close(); err != nil {
			logger.Warn("failed to close store", zap.Error(err))
		}
	}()

	// Initialize services
	petService := services.NewPetService(backend.Pets, logger.Named("pets"))
	cartService := services.NewCartService(backend.Carts, petService, logger.Named("cart"))

	if cfg.SeedSampleData {
		n, err := petService.SeedSampleData(ctx)
		if err != nil {
			return fmt.Errorf("seed sample data: %w", err)
		}
		if n > 0 {
			logger.Info("seeded sample pets", zap.Int("count", n))
		}
	}

	// Initialize handlers
	petHandler := handlers.NewPetHandler(petService, logger)
	cartHandler := handlers.NewCartHandler(cartService, logger)

	router := api.NewRouter(petHandler, cartHandler, logger)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	logger.Info("server starting",
		zap.String("port", cfg.Port),
		zap.String("env", cfg.Env),
		zap.String("backend", cfg.Store.Backend),
	)
	return serve(server, logger, cfg.ShutdownTimeout.Duration, quit)
}

// serve runs server until it fails or stop fires, then shuts it down
// gracefully within timeout.
func serve(server *http.Server, logger *zap.Logger, timeout time.Duration, stop <-chan os.Signal) error {
	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-stop:
	}

	// Graceful shutdown
	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	logger.Info("server shutdown complete")
	return nil
}
