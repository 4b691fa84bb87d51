package config

import (
	"os"
	"strconv"
	"time"

	"gocpd/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Database DatabaseConfig `validate:"required"`
	Server   ServerConfig   `validate:"required"`
	Sweep    SweepConfig
	Data     DataConfig
	Version  string
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	URL      string `validate:"required"`
	User     string
	Password string
	Name     string
	Host     string
	Port     int
	SSLMode  string
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port           string `validate:"required"`
	RequestTimeout time.Duration
}

// SweepConfig holds penalty/model sweep settings
type SweepConfig struct {
	MaxConcurrent int64
}

// DataConfig holds default series input settings
type DataConfig struct {
	SeriesFile   string
	SeriesColumn string
	SeriesSheet  string
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{}

	// Load database configuration
	dbConfig, err := loadDatabaseConfig()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load database configuration")
	}
	config.Database = *dbConfig

	// Load server configuration
	serverConfig := loadServerConfig()
	config.Server = *serverConfig

	// Load sweep configuration
	sweepConfig := loadSweepConfig()
	config.Sweep = *sweepConfig

	// Load data configuration
	dataConfig := loadDataConfig()
	config.Data = *dataConfig

	config.Version = getEnvOrDefault("CODE_VERSION", "dev")

	// Validate required fields
	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func loadDatabaseConfig() (*DatabaseConfig, error) {
	// Leaving DATABASE_URL unset disables persistence.
	url := os.Getenv("DATABASE_URL")

	return &DatabaseConfig{
		URL:      url,
		User:     getEnvOrDefault("DB_USER", ""),
		Password: getEnvOrDefault("DB_PASS", ""),
		Name:     getEnvOrDefault("DB_NAME", ""),
		Host:     getEnvOrDefault("DB_HOST", ""),
		Port:     getEnvIntOrDefault("DB_PORT", 5432),
		SSLMode:  getEnvOrDefault("SSL_MODE", "disable"),
	}, nil
}

func loadServerConfig() *ServerConfig {
	return &ServerConfig{
		Port:           getEnvOrDefault("PORT", "8080"),
		RequestTimeout: getEnvDurationOrDefault("REQUEST_TIMEOUT", 15*time.Second),
	}
}

func loadSweepConfig() *SweepConfig {
	return &SweepConfig{
		MaxConcurrent: int64(getEnvIntOrDefault("SWEEP_MAX_CONCURRENT", 4)),
	}
}

func loadDataConfig() *DataConfig {
	return &DataConfig{
		SeriesFile:   getEnvOrDefault("SERIES_FILE", ""),
		SeriesColumn: getEnvOrDefault("SERIES_COLUMN", ""),
		SeriesSheet:  getEnvOrDefault("SERIES_SHEET", ""),
	}
}

func validateConfig(config *Config) error {
	// An empty database URL is allowed: it disables persistence.
	if config.Server.Port == "" {
		return errors.ConfigInvalid("server port is required")
	}
	if config.Sweep.MaxConcurrent < 1 {
		return errors.ConfigInvalid("sweep concurrency must be at least 1")
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

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
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
