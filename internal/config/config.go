package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"
)

// Config holds process-wide settings read from the environment once at
// startup. The environment/service-name tags feed logs and metrics only;
// nothing here changes business semantics.
type Config struct {
	// Observability
	Environment string
	ServiceName string
	LogLevel    slog.Level

	// Server
	Port int

	// Storage
	StorageType string
	RedisURL    string

	// Token lifetimes
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
}

// Load reads configuration from environment variables, applying defaults
// for anything unset
func Load() (*Config, error) {
	cfg := &Config{
		Environment: getEnvOrDefault("ENVIRONMENT", "dev"),
		ServiceName: getEnvOrDefault("SERVICE_NAME", "psn-partner-emulator"),
		StorageType: getEnvOrDefault("STORAGE_TYPE", "memory"),
		RedisURL:    os.Getenv("REDIS_URL"),
	}

	level, err := parseLogLevel(getEnvOrDefault("LOG_LEVEL", "info"))
	if err != nil {
		return nil, err
	}
	cfg.LogLevel = level

	port, err := strconv.Atoi(getEnvOrDefault("PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid PORT: %w", err)
	}
	cfg.Port = port

	cfg.AccessTokenTTL, err = parseDurationEnv("ACCESS_TOKEN_TTL", time.Hour)
	if err != nil {
		return nil, err
	}

	cfg.RefreshTokenTTL, err = parseDurationEnv("REFRESH_TOKEN_TTL", 24*time.Hour)
	if err != nil {
		return nil, err
	}

	if cfg.StorageType == "redis" && cfg.RedisURL == "" {
		return nil, fmt.Errorf("REDIS_URL is required when STORAGE_TYPE=redis")
	}

	return cfg, nil
}

func parseLogLevel(s string) (slog.Level, error) {
	switch s {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("invalid LOG_LEVEL %q: must be debug, info, warn, or error", s)
}

func parseDurationEnv(key string, fallback time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func getEnvOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
