package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Sysroot         string
	ImageCacheDir   string
	LogLevel        string
	OtelEnabled     bool
	OtelEndpoint    string
	OtelServiceName string
}

// Load loads configuration from environment variables
// Automatically loads .env file if present
func Load() *Config {
	// Try to load .env file (fail silently if not present)
	_ = godotenv.Load()

	cfg := &Config{
		Sysroot:         getEnv("SYSROOT", "/"),
		ImageCacheDir:   getEnv("IMAGE_CACHE_DIR", ""),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		OtelEnabled:     getEnvBool("OTEL_ENABLED", false),
		OtelEndpoint:    getEnv("OTEL_ENDPOINT", ""),
		OtelServiceName: getEnv("OTEL_SERVICE_NAME", "bootc-status"),
	}

	return cfg
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
