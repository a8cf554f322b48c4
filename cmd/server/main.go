package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SAP-F-2025/assessment-scheduler/internal/cache"
	"github.com/SAP-F-2025/assessment-scheduler/internal/config"
	"github.com/SAP-F-2025/assessment-scheduler/internal/handlers"
	"github.com/SAP-F-2025/assessment-scheduler/internal/services"
	"github.com/SAP-F-2025/assessment-scheduler/internal/utils"
	"github.com/SAP-F-2025/assessment-scheduler/pkg"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		utils.NewLogger("development").Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	logger := utils.NewLogger(cfg.Environment)
	if err := run(cfg, logger); err != nil {
		logger.LogError(err, "Server stopped")
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger utils.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := pkg.InitDatabase(cfg)
	if err != nil {
		return err
	}
	if err := pkg.Migrate(db); err != nil {
		return err
	}

	// The API still serves without redis; read-outs are then computed per request.
	var cacheService cache.CacheService
	redisClient, err := pkg.NewRedisClient(ctx, cfg)
	if err != nil {
		logger.Warn("Redis unavailable, nervousness cache disabled", "error", err)
	} else {
		defer redisClient.Close()
		cacheService = cache.NewRedisCache(redisClient, logger)
	}

	publisher, err := cfg.Events.CreateEventPublisher(logger.Slog())
	if err != nil {
		return err
	}
	defer publisher.Close()

	serviceManager := services.NewServiceManager(services.Dependencies{
		DB:        db,
		Cache:     cacheService,
		Publisher: publisher,
		Scheduler: cfg.Scheduler,
		Logger:    logger.Slog(),
	})

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	handlers.NewHandlerManager(serviceManager, handlers.NewCasdoorVerifier(cfg.Casdoor), logger).SetupRoutes(router)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting server", "port", cfg.Port, "environment", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
