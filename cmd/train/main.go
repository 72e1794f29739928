// cmd/train/main.go
package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/sangrahak/inventroops/pkg/logger"
	"github.com/urfave/cli/v2"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("warning: could not load .env file: %v", err)
	}
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		logger.SetLevel(level)
	}

	app := &cli.App{
		Name:  "train",
		Usage: "Generate datasets, train models and move bundles between environments",
		Commands: []*cli.Command{
			{
				Name:  "dataset",
				Usage: "Generate a synthetic labeled inventory dataset as CSV",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "out",
						Usage: "Output CSV path",
						Value: "./data/inventory.csv",
					},
					&cli.IntFlag{
						Name:  "items",
						Usage: "Number of distinct items to generate",
						Value: 2000,
					},
					&cli.IntFlag{
						Name:  "days",
						Usage: "Days of history per item",
						Value: 365,
					},
					&cli.Int64Flag{
						Name:  "seed",
						Usage: "Random seed",
						Value: 42,
					},
				},
				Action: runDataset,
			},
			{
				Name:  "train",
				Usage: "Train the classifier and per-item forecast models from a CSV dataset",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "data",
						Usage:    "Input CSV dataset path",
						Required: true,
					},
					&cli.StringFlag{
						Name:    "out",
						Usage:   "Output bundle path",
						Value:   "./models/bundle.json",
						EnvVars: []string{"MODEL_BUNDLE_PATH"},
					},
					&cli.Int64Flag{
						Name:  "seed",
						Usage: "Random seed for forecast noise",
						Value: 42,
					},
				},
				Action: runTrain,
			},
			{
				Name:  "upload",
				Usage: "Upload a trained bundle to object storage",
				Flags: []cli.Flag{
					newBundleFlag(),
					newObjectKeyFlag(),
				},
				Action: runUpload,
			},
			{
				Name:  "download",
				Usage: "Download a bundle from object storage",
				Flags: []cli.Flag{
					newBundleFlag(),
					newObjectKeyFlag(),
				},
				Action: runDownload,
			},
			{
				Name:  "migrate",
				Usage: "Create the forecasts table",
				Flags: []cli.Flag{
					newDBURLFlag(),
				},
				Action: runMigrate,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newDBURLFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:     "db-url",
		Usage:    "Database connection string",
		Required: true,
		EnvVars:  []string{"DATABASE_URL"},
	}
}

func newBundleFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "bundle",
		Usage:   "Local bundle path",
		Value:   "./models/bundle.json",
		EnvVars: []string{"MODEL_BUNDLE_PATH"},
	}
}

func newObjectKeyFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:  "key",
		Usage: "Object key in the storage bucket",
		Value: "bundles/bundle.json",
	}
}
