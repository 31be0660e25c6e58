package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
)

const (
	defaultEnv      = "development"
	defaultProvider = "dukascopy"
	defaultExchange = "history.synthesis"
	defaultWorkers  = 4
	defaultLogLevel = "info"
)

// Config keeps the runtime configuration for the history tools.
type Config struct {
	Env      string
	DataRoot string
	Provider string
	LogLevel string
	Workers  int
	Postgres PostgresConfig
	RabbitMQ RabbitMQConfig
}

// PostgresConfig stores metadata database connection parameters. An empty DSN
// means the built-in instrument table is used instead.
type PostgresConfig struct {
	DSN string
}

// RabbitMQConfig stores synthesis event publishing parameters. An empty URL
// disables publishing.
type RabbitMQConfig struct {
	URL      string
	Exchange string
}

// Load builds Config from environment variables.
func Load() (*Config, error) {
	dataRoot := os.Getenv("DATA_ROOT")
	if dataRoot == "" {
		return nil, errors.New("DATA_ROOT is required")
	}

	workers, err := getInt("WORKERS", defaultWorkers)
	if err != nil {
		return nil, fmt.Errorf("parse WORKERS: %w", err)
	}
	if workers < 1 {
		return nil, fmt.Errorf("WORKERS must be positive, got %d", workers)
	}

	return &Config{
		Env:      getString("APP_ENV", defaultEnv),
		DataRoot: dataRoot,
		Provider: getString("HISTORY_PROVIDER", defaultProvider),
		LogLevel: getString("LOG_LEVEL", defaultLogLevel),
		Workers:  workers,
		Postgres: PostgresConfig{
			DSN: os.Getenv("DATABASE_DSN"),
		},
		RabbitMQ: RabbitMQConfig{
			URL:      os.Getenv("RABBITMQ_URL"),
			Exchange: getString("RABBITMQ_EXCHANGE", defaultExchange),
		},
	}, nil
}

func getString(key, fallback string) string {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return fallback
	}
	return value
}

func getInt(key string, fallback int) (int, error) {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return fallback, nil
	}

	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("convert %s value %q to int: %w", key, value, err)
	}
	return parsed, nil
}
