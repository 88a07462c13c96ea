package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Storage modes for the TWAP run journal.
const (
	StorageModeConsole  = "console"
	StorageModePostgres = "postgres"
)

// DefaultFuturesURL points at the USDⓈ-M futures testnet.
const DefaultFuturesURL = "https://testnet.binancefuture.com"

// Config holds all application configuration.
type Config struct {
	// Application
	LogLevel    string
	LogFile     string
	MetricsPort string // Empty disables the metrics/health endpoint

	// Exchange API
	APIKey      string
	APISecret   string
	FuturesURL  string
	HTTPTimeout time.Duration
	RecvWindow  int64 // Milliseconds

	// Symbol filters
	SymbolCacheTTL time.Duration

	// Storage
	StorageMode  string // "postgres" or "console"
	PostgresHost string
	PostgresPort string
	PostgresUser string
	PostgresPass string
	PostgresDB   string
	PostgresSSL  string
}

// LoadFromEnv loads configuration from environment variables with defaults.
// Credentials are read but not required; call ValidateCredentials before
// placing live orders.
func LoadFromEnv() (*Config, error) {
	cfg := &Config{
		// Application defaults
		LogLevel:    getEnvOrDefault("LOG_LEVEL", "info"),
		LogFile:     getEnvOrDefault("LOG_FILE", "bot.log"),
		MetricsPort: os.Getenv("METRICS_PORT"),

		// Exchange defaults
		APIKey:      os.Getenv("BINANCE_API_KEY"),
		APISecret:   os.Getenv("BINANCE_API_SECRET"),
		FuturesURL:  getEnvOrDefault("BINANCE_FUTURES_URL", DefaultFuturesURL),
		HTTPTimeout: getDurationOrDefault("BINANCE_HTTP_TIMEOUT", 20*time.Second),
		RecvWindow:  getInt64OrDefault("BINANCE_RECV_WINDOW", 5000),

		SymbolCacheTTL: getDurationOrDefault("SYMBOL_CACHE_TTL", time.Hour),

		// Storage defaults
		StorageMode:  getEnvOrDefault("STORAGE_MODE", StorageModeConsole),
		PostgresHost: getEnvOrDefault("POSTGRES_HOST", "localhost"),
		PostgresPort: getEnvOrDefault("POSTGRES_PORT", "5432"),
		PostgresUser: getEnvOrDefault("POSTGRES_USER", "futures"),
		PostgresPass: getEnvOrDefault("POSTGRES_PASSWORD", "futures123"),
		PostgresDB:   getEnvOrDefault("POSTGRES_DB", "futures_bot"),
		PostgresSSL:  getEnvOrDefault("POSTGRES_SSLMODE", "disable"),
	}

	err := cfg.Validate()
	if err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

// Validate checks that configuration values are valid.
func (c *Config) Validate() error {
	if c.FuturesURL == "" {
		return fmt.Errorf("BINANCE_FUTURES_URL cannot be empty")
	}

	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("BINANCE_HTTP_TIMEOUT must be positive, got %v", c.HTTPTimeout)
	}

	if c.RecvWindow <= 0 || c.RecvWindow > 60000 {
		return fmt.Errorf("BINANCE_RECV_WINDOW must be between 1 and 60000, got %d", c.RecvWindow)
	}

	if c.SymbolCacheTTL < 0 {
		return fmt.Errorf("SYMBOL_CACHE_TTL must be non-negative, got %v", c.SymbolCacheTTL)
	}

	if c.StorageMode != StorageModeConsole && c.StorageMode != StorageModePostgres {
		return fmt.Errorf("STORAGE_MODE must be 'console' or 'postgres', got %q", c.StorageMode)
	}

	return nil
}

// ValidateCredentials checks that API credentials are present.
func (c *Config) ValidateCredentials() error {
	if c.APIKey == "" || c.APISecret == "" {
		return fmt.Errorf("BINANCE_API_KEY and BINANCE_API_SECRET must be set in the environment or .env file")
	}

	return nil
}

func getEnvOrDefault(key string, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getInt64OrDefault(key string, defaultValue int64) int64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	intVal, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return defaultValue
	}

	return intVal
}

func getDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	duration, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}

	return duration
}
