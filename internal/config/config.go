// Package config loads server configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application configuration.
type Config struct {
	DBPath          string
	AppraisalURL    string
	AppraisalMarket string
	PriceTimeout    time.Duration
	PriceCacheTTL   time.Duration
	TelemetryURL    string
	TelemetryToken  string
	LogLevel        string
}

// Load loads the configuration from environment variables.
func Load() (*Config, error) {
	// Load .env file if it exists, but don't fail if it doesn't (could be real env vars)
	_ = godotenv.Load()

	cfg := &Config{
		DBPath:          getEnv("DB_PATH", "data/reactions.db"),
		AppraisalURL:    getEnv("APPRAISAL_URL", "https://appraise.gnf.lt/appraisal.json"),
		AppraisalMarket: getEnv("APPRAISAL_MARKET", "jita"),
		TelemetryURL:    getEnv("TELEMETRY_URL", ""),
		TelemetryToken:  getEnv("TELEMETRY_TOKEN", ""),
		LogLevel:        getEnv("LOG_LEVEL", "INFO"),
	}

	timeoutSec, err := getEnvInt("PRICE_TIMEOUT_SEC", 30)
	if err != nil {
		return nil, err
	}
	cfg.PriceTimeout = time.Duration(timeoutSec) * time.Second

	cacheTTLSec, err := getEnvInt("PRICE_CACHE_TTL_SEC", 300)
	if err != nil {
		return nil, err
	}
	cfg.PriceCacheTTL = time.Duration(cacheTTLSec) * time.Second

	return cfg, nil
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvInt retrieves an integer environment variable or returns a default.
func getEnvInt(key string, defaultValue int) (int, error) {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return n, nil
}
