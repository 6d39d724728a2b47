// @title       Feedback Service API
// @version     1.0
// @description Create, list, edit and delete short feedback entries.
// @BasePath    /api
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/NomadCrew/feedback-service/config"
	"github.com/NomadCrew/feedback-service/handlers"
	"github.com/NomadCrew/feedback-service/internal/store/backend"
	"github.com/NomadCrew/feedback-service/logger"
	"github.com/NomadCrew/feedback-service/middleware"
	"github.com/NomadCrew/feedback-service/router"
	"github.com/NomadCrew/feedback-service/services"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// A missing .env is fine; the environment may already be populated
	envErr := godotenv.Load()

	// Initialize logger
	logger.InitLogger()
	log := logger.GetLogger()
	defer logger.Close()

	if envErr != nil && !errors.Is(envErr, os.ErrNotExist) {
		log.Warnw("Failed to load .env file", "error", envErr)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracer, err := middleware.InitTracer(ctx, &cfg.Tracing, cfg.Server.Version)
	if err != nil {
		log.Fatalf("Failed to initialize tracing: %v", err)
	}
	defer shutdownTracer(context.Background())

	feedbackStore, kind, err := backend.Open(ctx, &cfg.Database)
	if err != nil {
		log.Fatalf("Failed to open feedback store: %v", err)
	}
	defer func() {
		if err := feedbackStore.Close(); err != nil {
			log.Errorw("Failed to close feedback store", "error", err)
		}
	}()

	feedbackService := services.NewFeedbackService(feedbackStore, cfg.Database.QueryTimeout)
	healthService := services.NewHealthService(feedbackStore, string(kind), cfg.Server.Version)

	r := router.SetupRouter(router.Dependencies{
		Config:          cfg,
		FeedbackHandler: handlers.NewFeedbackHandler(feedbackService),
		HealthHandler:   handlers.NewHealthHandler(healthService),
		Logger:          log,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Infow("Starting server", "port", cfg.Server.Port, "backend", kind, "environment", cfg.Server.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			log.Errorw("Server failed", "error", err)
		}
	case <-ctx.Done():
		log.Info("Shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorw("Graceful shutdown failed", "error", err)
	}
	log.Info("Server stopped")
}
