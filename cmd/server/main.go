// cmd/server/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangrahak/inventroops/internal/api"
	"github.com/sangrahak/inventroops/internal/bundle"
	"github.com/sangrahak/inventroops/internal/cache"
	"github.com/sangrahak/inventroops/internal/config"
	"github.com/sangrahak/inventroops/internal/forecast"
	"github.com/sangrahak/inventroops/internal/repository"
	"github.com/sangrahak/inventroops/internal/repository/postgres"
	"github.com/sangrahak/inventroops/internal/service"
	"github.com/sangrahak/inventroops/pkg/logger"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	logger.SetLevel(cfg.Server.Mode)
	if cfg.Server.Mode == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// Load the trained model bundle
	b, err := bundle.Load(cfg.Model.BundlePath)
	if err != nil {
		logger.Log.Fatal().Err(err).Str("path", cfg.Model.BundlePath).Msg("Failed to load model bundle")
	}
	logger.Log.Info().
		Int("version", b.Version).
		Time("trained_at", b.CreatedAt).
		Int("item_models", len(b.Forecasts)).
		Int("fitted_models", b.FittedModelCount()).
		Msg("Model bundle loaded")

	// Initialize database (optional)
	var repo repository.ForecastRepository
	if cfg.Database.Enabled {
		db, err := postgres.NewDB(&cfg.Database)
		if err != nil {
			logger.Log.Fatal().Err(err).Msg("Failed to connect to database")
		}
		defer db.Close()
		repo = postgres.NewForecastRepository(db)
	} else {
		logger.Log.Info().Msg("Database disabled, forecasts will not be persisted")
	}

	// Initialize prediction cache
	predictionCache, err := cache.NewPredictionCache(cfg.Cache)
	if err != nil {
		logger.Log.Warn().Err(err).Msg("Prediction cache unavailable, continuing without it")
		predictionCache = cache.NewNoopPredictionCache()
	}

	forecaster := forecast.NewForecaster(time.Now().UnixNano())
	predictionService := service.NewPredictionService(
		b,
		forecaster,
		repo,
		predictionCache,
		cfg.Model.ForecastDays,
		cfg.Model.MaxForecastDays,
	)

	router := api.NewRouter(&api.Services{
		PredictionService: predictionService,
	}, cfg.Server.AllowedOrigins)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Log.Info().Str("port", cfg.Server.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.Log.Info().Msg("Server exiting")
}
