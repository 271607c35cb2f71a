package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// LoadEnv loads the .env file when present. A missing file is fine in
// production where the environment is provided by the platform.
func LoadEnv() error {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("no .env file loaded: %v", err)
		return err
	}
	return nil
}

// GetEnv returns a required environment variable and exits when it is missing.
func GetEnv(key string) string {
	value := os.Getenv(key)
	if value == "" {
		log.Fatalf("Environment variable %s is required but not set", key)
	}
	return value
}

// GetEnvDefault returns an environment variable or the given fallback.
func GetEnvDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// GetEnvInt parses an integer-valued environment variable, falling back on
// missing or malformed values.
func GetEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("invalid integer in %s: %v, using default %d", key, err, fallback)
		return fallback
	}
	return n
}

// GetEnvDuration parses a duration-valued environment variable, falling back
// on missing or malformed values.
func GetEnvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		log.Printf("invalid duration in %s: %v, using default %s", key, err, fallback)
		return fallback
	}
	return d
}
