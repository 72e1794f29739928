// cmd/train/commands.go
package main

import (
	"database/sql"
	"fmt"
	"os"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/sangrahak/inventroops/internal/bundle"
	"github.com/sangrahak/inventroops/internal/config"
	"github.com/sangrahak/inventroops/internal/dataset"
	"github.com/sangrahak/inventroops/internal/forecast"
	"github.com/sangrahak/inventroops/internal/service"
	"github.com/sangrahak/inventroops/internal/storage"
	"github.com/sangrahak/inventroops/pkg/logger"
	"github.com/urfave/cli/v2"
)

func runDataset(c *cli.Context) error {
	cfg := dataset.DefaultGeneratorConfig()
	cfg.Items = c.Int("items")
	cfg.Days = c.Int("days")
	cfg.Seed = c.Int64("seed")

	logger.Log.Info().
		Int("items", cfg.Items).
		Int("days", cfg.Days).
		Int64("seed", cfg.Seed).
		Msg("Generating dataset")

	observations := dataset.Generate(cfg)
	out := c.String("out")
	if err := dataset.WriteCSV(out, observations); err != nil {
		return fmt.Errorf("writing dataset: %w", err)
	}

	logger.Log.Info().Str("path", out).Int("rows", len(observations)).Msg("Dataset written")
	return nil
}

func runTrain(c *cli.Context) error {
	observations, err := dataset.ReadCSV(c.String("data"))
	if err != nil {
		return fmt.Errorf("reading dataset: %w", err)
	}

	trainer := service.NewTrainingService(forecast.NewForecaster(c.Int64("seed")))
	b, err := trainer.Train(observations)
	if err != nil {
		return fmt.Errorf("training: %w", err)
	}

	out := c.String("out")
	if err := b.Save(out); err != nil {
		return fmt.Errorf("saving bundle: %w", err)
	}

	logger.Log.Info().Str("path", out).Msg("Bundle saved")
	return nil
}

func runUpload(c *cli.Context) error {
	client, err := storage.NewMinioClient(config.Load().Storage)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(c.String("bundle"))
	if err != nil {
		return fmt.Errorf("reading bundle: %w", err)
	}
	// Fail on a corrupt artifact before it reaches the bucket.
	if _, err := bundle.Unmarshal(data); err != nil {
		return fmt.Errorf("bundle is not deployable: %w", err)
	}

	key := c.String("key")
	if err := client.UploadObject(c.Context, key, data); err != nil {
		return err
	}

	logger.Log.Info().Str("key", key).Int("bytes", len(data)).Msg("Bundle uploaded")
	return nil
}

func runDownload(c *cli.Context) error {
	client, err := storage.NewMinioClient(config.Load().Storage)
	if err != nil {
		return err
	}

	key := c.String("key")
	dest := c.String("bundle")
	if err := client.DownloadObject(c.Context, key, dest); err != nil {
		return err
	}
	if _, err := bundle.Load(dest); err != nil {
		return fmt.Errorf("downloaded bundle is not deployable: %w", err)
	}

	logger.Log.Info().Str("key", key).Str("path", dest).Msg("Bundle downloaded")
	return nil
}

const forecastsSchema = `
CREATE TABLE IF NOT EXISTS forecasts (
	item_id TEXT PRIMARY KEY,
	product_name TEXT NOT NULL DEFAULT '',
	current_stock DOUBLE PRECISION NOT NULL DEFAULT 0,
	stock_status_pred TEXT NOT NULL DEFAULT '',
	priority_pred TEXT NOT NULL DEFAULT '',
	alert TEXT NOT NULL DEFAULT '',
	forecast_data JSONB,
	forecast_method TEXT NOT NULL DEFAULT '',
	arima_used BOOLEAN NOT NULL DEFAULT FALSE,
	model_details JSONB,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_forecasts_updated_at ON forecasts (updated_at DESC);
`

func runMigrate(c *cli.Context) error {
	db, err := sql.Open("pgx", c.String("db-url"))
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	start := time.Now()
	if _, err := db.ExecContext(c.Context, forecastsSchema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}

	logger.Log.Info().Dur("elapsed", time.Since(start)).Msg("Schema applied")
	return nil
}
