package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the process configuration, read once from the
// environment (optionally seeded from a .env file).
type Config struct {
	Port string

	JWTSecret        string
	JWTExpirationDur time.Duration
}

var appConfig *Config

// Load reads configuration from the environment. A missing .env file
// is fine; real environment variables always win.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	cfg := &Config{
		Port:      getEnv("PORT", "8080"),
		JWTSecret: getEnv("JWT_SECRET", "fallback-secret-key-for-dev-only"),
	}

	expStr := getEnv("JWT_EXPIRES_IN", "24h")
	expDur, err := time.ParseDuration(expStr)
	if err != nil {
		log.Printf("Warning: invalid JWT_EXPIRES_IN value %q, falling back to 24h", expStr)
		expDur = 24 * time.Hour
	}
	cfg.JWTExpirationDur = expDur

	appConfig = cfg
	return cfg, nil
}

// Get returns the loaded configuration, loading it on first use.
func Get() *Config {
	if appConfig == nil {
		cfg, err := Load()
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}
		appConfig = cfg
	}
	return appConfig
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
