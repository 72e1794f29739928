// internal/config/config.go
package config

import (
	"log"
	"os"
	"sync"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Model    ModelConfig
	Cache    CacheConfig
	Storage  StorageConfig
}

type ServerConfig struct {
	Port           string
	Mode           string
	ReadTimeout    int
	WriteTimeout   int
	AllowedOrigins []string
}

type DatabaseConfig struct {
	Enabled  bool
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// ModelConfig locates the deployable model bundle and sets forecast defaults.
type ModelConfig struct {
	BundlePath      string
	DataDir         string
	ForecastDays    int
	MaxForecastDays int
}

type CacheConfig struct {
	Enabled              bool
	RedisURL             string
	RedisHost            string
	RedisPort            string
	RedisPassword        string
	RedisDB              int
	PredictionTTLSeconds int
}

type StorageConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

var (
	once     sync.Once
	instance *Config
)

func Load() *Config {
	once.Do(func() {
		// Load .env file if it exists
		_ = godotenv.Load()

		// Set default values
		viper.SetDefault("SERVER_PORT", "5001")
		viper.SetDefault("SERVER_MODE", "debug")
		viper.SetDefault("SERVER_READ_TIMEOUT", 30)
		viper.SetDefault("SERVER_WRITE_TIMEOUT", 30)
		viper.SetDefault("SERVER_ALLOWED_ORIGINS", []string{"http://localhost:5173", "http://localhost:5174"})
		viper.SetDefault("DB_ENABLED", false)
		viper.SetDefault("DB_HOST", "localhost")
		viper.SetDefault("DB_PORT", "5432")
		viper.SetDefault("DB_USER", "postgres")
		viper.SetDefault("DB_PASSWORD", "postgres")
		viper.SetDefault("DB_NAME", "inventroops")
		viper.SetDefault("DB_SSLMODE", "disable")
		viper.SetDefault("MODEL_BUNDLE_PATH", "./models/bundle.json")
		viper.SetDefault("MODEL_DATA_DIR", "./data")
		viper.SetDefault("MODEL_FORECAST_DAYS", 30)
		viper.SetDefault("MODEL_MAX_FORECAST_DAYS", 180)
		viper.SetDefault("CACHE_ENABLED", false)
		viper.SetDefault("REDIS_URL", "")
		viper.SetDefault("REDIS_HOST", "127.0.0.1")
		viper.SetDefault("REDIS_PORT", "6379")
		viper.SetDefault("REDIS_PASSWORD", "")
		viper.SetDefault("REDIS_DB", 0)
		viper.SetDefault("CACHE_PREDICTION_TTL_SECONDS", 300)
		viper.SetDefault("STORAGE_ENDPOINT", "")
		viper.SetDefault("STORAGE_ACCESS_KEY", "")
		viper.SetDefault("STORAGE_SECRET_KEY", "")
		viper.SetDefault("STORAGE_BUCKET", "inventroops-models")
		viper.SetDefault("STORAGE_USE_SSL", true)

		// Read from environment variables
		viper.AutomaticEnv()

		// Ensure the data directory exists
		ensureDir(viper.GetString("MODEL_DATA_DIR"))

		instance = &Config{
			Server: ServerConfig{
				Port:           viper.GetString("SERVER_PORT"),
				Mode:           viper.GetString("SERVER_MODE"),
				ReadTimeout:    viper.GetInt("SERVER_READ_TIMEOUT"),
				WriteTimeout:   viper.GetInt("SERVER_WRITE_TIMEOUT"),
				AllowedOrigins: viper.GetStringSlice("SERVER_ALLOWED_ORIGINS"),
			},
			Database: DatabaseConfig{
				Enabled:  viper.GetBool("DB_ENABLED"),
				Host:     viper.GetString("DB_HOST"),
				Port:     viper.GetString("DB_PORT"),
				User:     viper.GetString("DB_USER"),
				Password: viper.GetString("DB_PASSWORD"),
				DBName:   viper.GetString("DB_NAME"),
				SSLMode:  viper.GetString("DB_SSLMODE"),
			},
			Model: ModelConfig{
				BundlePath:      viper.GetString("MODEL_BUNDLE_PATH"),
				DataDir:         viper.GetString("MODEL_DATA_DIR"),
				ForecastDays:    viper.GetInt("MODEL_FORECAST_DAYS"),
				MaxForecastDays: viper.GetInt("MODEL_MAX_FORECAST_DAYS"),
			},
			Cache: CacheConfig{
				Enabled:              viper.GetBool("CACHE_ENABLED"),
				RedisURL:             viper.GetString("REDIS_URL"),
				RedisHost:            viper.GetString("REDIS_HOST"),
				RedisPort:            viper.GetString("REDIS_PORT"),
				RedisPassword:        viper.GetString("REDIS_PASSWORD"),
				RedisDB:              viper.GetInt("REDIS_DB"),
				PredictionTTLSeconds: viper.GetInt("CACHE_PREDICTION_TTL_SECONDS"),
			},
			Storage: StorageConfig{
				Endpoint:  viper.GetString("STORAGE_ENDPOINT"),
				AccessKey: viper.GetString("STORAGE_ACCESS_KEY"),
				SecretKey: viper.GetString("STORAGE_SECRET_KEY"),
				Bucket:    viper.GetString("STORAGE_BUCKET"),
				UseSSL:    viper.GetBool("STORAGE_USE_SSL"),
			},
		}
	})

	return instance
}

func ensureDir(dir string) {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.MkdirAll(dir, 0755); err != nil {
			log.Fatalf("Failed to create directory %s: %v", dir, err)
		}
	}
}
