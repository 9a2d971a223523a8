package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds application configuration read from the environment
type Config struct {
	Port        string
	Environment string
	LogLevel    string
	LogFile     string

	JWTSecret []byte

	RedisURL string

	TrendingWindowDays int
	TrendingCacheTTL   time.Duration

	SESRegion  string
	SESSender  string
	SESEnabled bool

	// Elasticsearch backs post and user search when set; without it the
	// search endpoints fall back to SQL.
	SearchEnabled bool
}

// Load reads configuration from environment variables.
// JWT_SECRET is required; everything else has a default.
func Load() (*Config, error) {
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable is required")
	}

	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		LogFile:     getEnv("LOG_FILE", "server.log"),

		JWTSecret: []byte(jwtSecret),

		RedisURL: getEnv("REDIS_URL", "redis://localhost:6379/0"),

		TrendingWindowDays: getEnvInt("TRENDING_WINDOW_DAYS", 7),
		TrendingCacheTTL:   time.Duration(getEnvInt("TRENDING_CACHE_TTL_SECONDS", 60)) * time.Second,

		SESRegion: getEnv("AWS_REGION", "us-east-1"),
		SESSender: os.Getenv("SES_SENDER_EMAIL"),
	}
	cfg.SESEnabled = cfg.SESSender != ""
	cfg.SearchEnabled = os.Getenv("ELASTICSEARCH_URL") != ""

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}
