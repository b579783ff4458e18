package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/anonto42/pixora/backend/internal/cache"
	"github.com/anonto42/pixora/backend/internal/media"
	"github.com/anonto42/pixora/backend/internal/observability"
	"github.com/anonto42/pixora/backend/internal/router"
	"github.com/anonto42/pixora/backend/internal/services"
	"github.com/anonto42/pixora/backend/internal/validators"
	"github.com/anonto42/pixora/backend/pkg/config"
	"github.com/anonto42/pixora/backend/pkg/firebase"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := observability.NewLogger(cfg.Env)
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize database connections
	db, err := config.InitDB(cfg, logger)
	if err != nil {
		return err
	}
	defer db.CloseDB()

	var images media.Store = media.NewMemoryStore()
	if db.Mongo != nil {
		images = media.NewGridFSStore(db.Mongo.Database(cfg.MongoDB))
	}

	redisClient := cache.NewRedisClient(cfg.RedisURL, logger)
	if redisClient != nil {
		defer redisClient.Close()
	}

	// Firebase is optional; without it only local JWTs are accepted
	var verifier services.IDTokenVerifier
	firebaseVerifier, err := firebase.NewVerifier(ctx, cfg.FirebaseCredentialsPath, cfg.FirebaseCheckRevoked, logger)
	switch {
	case err == nil:
		verifier = firebaseVerifier
	case errors.Is(err, firebase.ErrNotConfigured):
		logger.Info("firebase login disabled")
	default:
		return err
	}

	e := echo.New()
	e.HideBanner = true
	e.Validator = validators.NewValidator()

	config.SetupMiddleware(e, cfg, logger)

	err = router.SetupRoutes(e, router.Dependencies{
		DB:             db.Postgres,
		Media:          images,
		Redis:          redisClient,
		Firebase:       verifier,
		JWTSecret:      cfg.JWTSecret,
		JWTTTL:         cfg.JWTTTL(),
		MaxUploadBytes: cfg.MaxUploadBytes(),
		Clock:          services.SystemClock,
		Logger:         logger,
	})
	if err != nil {
		return err
	}

	metricsServer := &http.Server{
		Addr:              ":" + cfg.MetricsPort,
		Handler:           promhttp.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		logger.Info("metrics server starting", "port", cfg.MetricsPort)
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server failed", "error", err)
		}
	}()

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("server starting", "port", cfg.Port, "env", cfg.Env)
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}
	if err := metricsServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("metrics server shutdown error", "error", err)
	}
	return nil
}
