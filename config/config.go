// Package config loads service configuration from the environment and
// analysis settings from a YAML file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config is the process configuration.
type Config struct {
	Port    string
	GinMode string

	DBPath       string
	SettingsFile string
	StatsDir     string

	SiteURL       string
	SiteHTTPS     bool
	ActivePlugins []string

	LogLevel string
	LogFile  string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	CacheTTL      time.Duration

	RateLimit      float64
	RateBurst      float64
	AllowedOrigins []string

	BatchConcurrency int
	ShutdownTimeout  time.Duration
}

// LoadEnv reads .env.development, falling back to .env. Variables already set
// in the process environment are not overridden. It reports whether a file was loaded.
func LoadEnv() bool {
	if err := godotenv.Load(".env.development"); err == nil {
		return true
	}
	return godotenv.Load() == nil
}

// Load builds a Config from the environment. Every malformed value is reported.
func Load() (Config, error) {
	var (
		cfg  Config
		errs []error
	)

	cfg.Port = getEnv("PORT", "8082")
	cfg.GinMode = getEnv("GIN_MODE", "release")
	cfg.DBPath = getEnv("DB_PATH", "data/advisor.db")
	cfg.SettingsFile = getEnv("SETTINGS_FILE", "settings.yml")
	cfg.StatsDir = getEnv("STATS_DIR", "data")
	cfg.SiteURL = strings.TrimRight(getEnv("SITE_URL", ""), "/")
	cfg.ActivePlugins = splitList(getEnv("ACTIVE_PLUGINS", ""))
	cfg.LogLevel = getEnv("LOG_LEVEL", "info")
	cfg.LogFile = getEnv("LOG_FILE", "")
	cfg.RedisAddr = getEnv("REDIS_ADDR", "")
	cfg.RedisPassword = getEnv("REDIS_PASSWORD", "")
	cfg.AllowedOrigins = splitList(getEnv("ALLOWED_ORIGINS", "*"))

	var err error
	if cfg.SiteHTTPS, err = strconv.ParseBool(getEnv("SITE_HTTPS", "true")); err != nil {
		errs = append(errs, fmt.Errorf("SITE_HTTPS: %w", err))
	}
	if cfg.RedisDB, err = strconv.Atoi(getEnv("REDIS_DB", "0")); err != nil {
		errs = append(errs, fmt.Errorf("REDIS_DB: %w", err))
	}
	if cfg.CacheTTL, err = time.ParseDuration(getEnv("CACHE_TTL", "10m")); err != nil {
		errs = append(errs, fmt.Errorf("CACHE_TTL: %w", err))
	}
	if cfg.RateLimit, err = strconv.ParseFloat(getEnv("RATE_LIMIT", "2"), 64); err != nil {
		errs = append(errs, fmt.Errorf("RATE_LIMIT: %w", err))
	}
	if cfg.RateBurst, err = strconv.ParseFloat(getEnv("RATE_BURST", "5"), 64); err != nil {
		errs = append(errs, fmt.Errorf("RATE_BURST: %w", err))
	}
	if cfg.BatchConcurrency, err = strconv.Atoi(getEnv("BATCH_CONCURRENCY", "4")); err != nil {
		errs = append(errs, fmt.Errorf("BATCH_CONCURRENCY: %w", err))
	} else if cfg.BatchConcurrency < 1 {
		errs = append(errs, fmt.Errorf("BATCH_CONCURRENCY: must be at least 1, got %d", cfg.BatchConcurrency))
	}
	if cfg.ShutdownTimeout, err = time.ParseDuration(getEnv("SHUTDOWN_TIMEOUT", "10s")); err != nil {
		errs = append(errs, fmt.Errorf("SHUTDOWN_TIMEOUT: %w", err))
	}

	if len(errs) > 0 {
		return cfg, fmt.Errorf("invalid configuration: %w", errors.Join(errs...))
	}
	return cfg, nil
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}

func splitList(raw string) []string {
	out := []string{}
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
