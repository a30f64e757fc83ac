package config

import (
	"os"
	"strconv"
	"time"

	"datalens/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Server Server
	Upload Upload
	Store  Store
}

// Server holds web server settings
type Server struct {
	Port    string
	GinMode string
}

// Upload holds upload validation settings
type Upload struct {
	MaxFileSize   int64
	MaxConcurrent int64
}

// Store holds analysis store retention settings
type Store struct {
	TTL           time.Duration
	SweepInterval time.Duration
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Server: Server{
			Port:    getEnvOrDefault("PORT", "8080"),
			GinMode: getEnvOrDefault("GIN_MODE", "debug"),
		},
		Upload: Upload{
			MaxFileSize:   getEnvInt64OrDefault("MAX_UPLOAD_BYTES", 50*1024*1024),
			MaxConcurrent: getEnvInt64OrDefault("MAX_CONCURRENT_ANALYSES", 4),
		},
		Store: Store{
			TTL:           getEnvDurationOrDefault("ANALYSIS_TTL", time.Hour),
			SweepInterval: getEnvDurationOrDefault("ANALYSIS_SWEEP_INTERVAL", 5*time.Minute),
		},
	}

	if err := validate(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return config, nil
}

func validate(config *Config) error {
	if config.Server.Port == "" {
		return errors.ConfigInvalid("server port is required")
	}
	if config.Upload.MaxFileSize <= 0 {
		return errors.ConfigInvalid("max upload size must be positive")
	}
	if config.Upload.MaxConcurrent <= 0 {
		return errors.ConfigInvalid("max concurrent analyses must be positive")
	}
	if config.Store.TTL <= 0 {
		return errors.ConfigInvalid("analysis TTL must be positive")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt64OrDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
