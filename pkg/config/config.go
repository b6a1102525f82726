// Package config provides configuration management for the ledger.
// It loads configuration from environment variables and .env files.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// DefaultTaxRate is the sales tax rate applied when the user marks an
// expense taxable and accepts the default.
const DefaultTaxRate = 0.13

// Config represents the application configuration.
type Config struct {
	// DBPath is the SQLite database file. When empty, the database is
	// discovered under Root or created at the default path.
	DBPath string
	// Root is the directory searched for an existing database file.
	Root string
	// SchemaConfig is an optional YAML file of schema exclusions.
	SchemaConfig string
	// TaxRate is the default sales tax rate, as a fraction.
	TaxRate float64
	Debug   bool
}

// Load loads configuration from environment variables.
// It automatically loads .env from the current directory if available; a
// custom .env path can be given instead.
func Load(envPath ...string) (*Config, error) {
	if len(envPath) > 0 && envPath[0] != "" {
		if err := godotenv.Load(envPath[0]); err != nil {
			return nil, fmt.Errorf("failed to load .env file: %w", err)
		}
	} else {
		// Try to load .env from current directory (ignore error if not found)
		_ = godotenv.Load()
	}

	taxRate, err := parseFloatEnv("FINLEDGER_TAX_RATE", DefaultTaxRate)
	if err != nil {
		return nil, fmt.Errorf("invalid FINLEDGER_TAX_RATE: %w", err)
	}

	config := &Config{
		DBPath:       os.Getenv("FINLEDGER_DB_PATH"),
		Root:         getEnvOrDefault("FINLEDGER_ROOT", "."),
		SchemaConfig: os.Getenv("FINLEDGER_SCHEMA_CONFIG"),
		TaxRate:      taxRate,
		Debug:        os.Getenv("DEBUG") == "true",
	}

	return config, nil
}

// getEnvOrDefault returns the value of the environment variable or a default value if not set.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// parseFloatEnv parses a float64 from an environment variable.
// Returns defaultValue if the environment variable is not set.
func parseFloatEnv(key string, defaultValue float64) (float64, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}

	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid numeric value for %s: %s", key, value)
	}

	return parsed, nil
}
