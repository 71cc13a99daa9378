package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prottasha123/Quiz-MS/internal/config"
	"github.com/prottasha123/Quiz-MS/internal/events"
	"github.com/prottasha123/Quiz-MS/internal/handlers"
	"github.com/prottasha123/Quiz-MS/internal/repositories/postgres"
	"github.com/prottasha123/Quiz-MS/internal/services"
	"github.com/prottasha123/Quiz-MS/internal/utils"
	"github.com/prottasha123/Quiz-MS/pkg"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		utils.NewLogger("info", "development").Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := utils.NewLogger(cfg.LogLevel, cfg.Environment)

	db, err := pkg.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	if err := pkg.Migrate(db); err != nil {
		logger.Error("failed to migrate schema", "error", err)
		os.Exit(1)
	}

	redisClient, err := pkg.NewRedisClient(cfg.RedisURL)
	if err != nil {
		logger.Error("failed to configure Redis", "error", err)
		os.Exit(1)
	}
	if redisClient == nil {
		logger.Warn("REDIS_URL not set, running without cache")
	}

	repoManager := postgres.NewRepositoryManager(postgres.RepositoryConfig{
		DB:          db,
		RedisClient: redisClient,
	})
	if err := repoManager.Initialize(); err != nil {
		logger.Error("failed to initialize repository", "error", err)
		os.Exit(1)
	}
	repo := repoManager.GetRepository()

	publisher := events.NewWatermillPublisher(logger)
	consumerCtx, stopConsumer := context.WithCancel(context.Background())
	defer stopConsumer()
	if err := events.RunAuditConsumer(consumerCtx, publisher, logger); err != nil {
		logger.Error("failed to start audit consumer", "error", err)
		os.Exit(1)
	}

	serviceManager := services.NewServiceManager(repo, publisher, logger)
	handlerManager := handlers.NewHandlerManager(serviceManager, repo, logger)
	router := handlerManager.SetupRouter(cfg.Environment)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server starting", "port", cfg.Port, "environment", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", "error", err)
	}
	stopConsumer()
	if err := publisher.Close(); err != nil {
		logger.Error("publisher shutdown failed", "error", err)
	}
	if err := repoManager.Shutdown(shutdownCtx); err != nil {
		logger.Error("repository shutdown failed", "error", err)
	}
	logger.Info("shutdown complete")
}
