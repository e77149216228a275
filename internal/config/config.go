package config

import (
	"fmt"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Config is the environment-driven application configuration.
type Config struct {
	Port           string
	DatabaseURL    string
	LogLevel       string
	LogPretty      bool
	AllowedOrigin  string
	ProgressTTL    time.Duration
	ProgressBuffer time.Duration
}

// Load reads configuration from the environment with sensible defaults.
func Load() Config {
	cfg := Config{
		Port:           getEnv("PORT", "8080"),
		DatabaseURL:    getEnv("DATABASE_URL", "host=localhost user=postgres password=postgres dbname=reconciliation port=5432 sslmode=disable"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogPretty:      getEnv("LOG_PRETTY", "true") == "true",
		AllowedOrigin:  getEnv("ALLOWED_ORIGIN", "http://localhost:3000"),
		ProgressTTL:    10 * time.Minute,
		ProgressBuffer: 30 * time.Second,
	}
	if v := os.Getenv("PROGRESS_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.ProgressTTL = d
		}
	}
	if v := os.Getenv("PROGRESS_BUFFER"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.ProgressBuffer = d
		}
	}
	return cfg
}

// InitDB opens the postgres connection.
func InitDB(cfg Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("config: connecting to database: %w", err)
	}
	return db, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
