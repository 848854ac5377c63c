package config

import (
	"os"

	"github.com/joho/godotenv"
)

// Config holds all runtime settings. Values come from the environment,
// optionally seeded from a .env file in the working directory.
type Config struct {
	Port        string
	DBPath      string
	LogLevel    string
	CountryCode string
}

// Load reads .env (if present) and the environment, applying defaults.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Port:        getEnv("ORDERFLOW_PORT", "8080"),
		DBPath:      getEnv("ORDERFLOW_DB_PATH", "orderflow.db"),
		LogLevel:    getEnv("ORDERFLOW_LOG_LEVEL", "info"),
		CountryCode: getEnv("ORDERFLOW_COUNTRY_CODE", "91"),
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}
