package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port           string
	DatabaseURL    string
	FrontendOrigin string
	Production     bool
	SessionTTL     time.Duration
	SessionSweep   time.Duration
	RequestTimeout time.Duration
	StaticDir      string
}

func Load() Config {
	// Load .env file if present
	_ = godotenv.Load()

	cfg := Config{
		Port:           getEnv("PORT", "4000"),
		DatabaseURL:    getEnv("DATABASE_URL", ""),
		FrontendOrigin: getEnv("FRONTEND_ORIGIN", "http://localhost:3000"),
		Production:     getEnvBool("PRODUCTION", false),
		SessionTTL:     getEnvDuration("SESSION_TTL", 24*time.Hour),
		SessionSweep:   getEnvDuration("SESSION_SWEEP_INTERVAL", 10*time.Minute),
		RequestTimeout: getEnvDuration("REQUEST_TIMEOUT", 15*time.Second),
		StaticDir:      getEnv("STATIC_DIR", "docs"),
	}

	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}

	return cfg
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		parsed, err := strconv.ParseBool(value)
		if err != nil {
			log.Fatalf("invalid value for %s: %q", key, value)
		}
		return parsed
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok {
		parsed, err := time.ParseDuration(value)
		if err != nil {
			log.Fatalf("invalid value for %s: %q", key, value)
		}
		return parsed
	}
	return fallback
}
