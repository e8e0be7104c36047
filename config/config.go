// Package config loads server configuration from the environment, with an
// optional .env file for local development.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds everything the server needs to start.
type Config struct {
	App      AppConfig
	Database DatabaseConfig
}

// AppConfig holds application configuration.
type AppConfig struct {
	Port           int
	Env            string
	LogLevel       string
	AllowedOrigins []string
}

// DatabaseConfig holds the SQLite location.
type DatabaseConfig struct {
	Path string
}

// Load reads configuration. A missing .env file is fine; real deployments
// set variables directly.
func Load() (*Config, error) {
	godotenv.Load()

	port, err := strconv.Atoi(getEnv("PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid PORT: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Port:           port,
			Env:            getEnv("APP_ENV", "development"),
			LogLevel:       getEnv("LOG_LEVEL", "info"),
			AllowedOrigins: getEnvSlice("ALLOWED_ORIGINS"),
		},
		Database: DatabaseConfig{
			Path: getEnv("DB_PATH", "leave.db"),
		},
	}

	return cfg, nil
}

// SlogLevel maps the LOG_LEVEL string onto a slog level. Unknown values fall
// back to info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.App.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvSlice(env string) []string {
	value := getEnv(env, "")
	if value == "" {
		return nil
	}
	return strings.Split(value, ",")
}
