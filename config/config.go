// Package config loads application configuration from the environment,
// optionally seeded from a .env file.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Config represents the full application configuration surface.
type Config struct {
	Server ServerConfig
	DB     DBConfig
}

// ServerConfig holds HTTP server related options.
type ServerConfig struct {
	Port string
}

// DBConfig holds SQLite settings. Use ":memory:" for an in-memory database.
type DBConfig struct {
	Path string
}

// Load reads environment variables (optionally from the provided file)
// and materializes a Config instance.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed loading env file %s: %w", envFile, err)
			}
		}
	} else {
		// Missing .env files are acceptable when configuration comes
		// from the environment directly.
		_ = godotenv.Load()
	}

	return &Config{
		Server: ServerConfig{
			Port: getenvWithDefault("APP_PORT", "8080"),
		},
		DB: DBConfig{
			Path: getenvWithDefault("DB_PATH", "./gama.db"),
		},
	}, nil
}

func getenvWithDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
