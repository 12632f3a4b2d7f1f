// Package config provides application configuration.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Port           string
	FrontendURL    string
	DBPath         string
	RedisURL       string // optional; selects the Redis session store
	RemindInterval time.Duration
	SessionTTL     time.Duration // Redis session expiry
	LocationPrefix string        // stripped from location codes at finalization
	Broadcast      BroadcastConfig
}

// BroadcastConfig controls the roster-wide reminder sweep.
type BroadcastConfig struct {
	Interval  time.Duration
	StartHour int // inclusive, local time
	EndHour   int // inclusive
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		Port:           getEnv("PORT", "8080"),
		FrontendURL:    getEnv("FRONTEND_URL", ""),
		DBPath:         getEnv("DB_PATH", "./data/templog.db"),
		RedisURL:       getEnv("REDIS_URL", ""),
		RemindInterval: getEnvDuration("REMIND_INTERVAL", 30*time.Minute),
		SessionTTL:     getEnvDuration("SESSION_TTL", 24*time.Hour),
		LocationPrefix: getEnv("LOCATION_PREFIX", "Москва "),
		Broadcast: BroadcastConfig{
			Interval:  getEnvDuration("BROADCAST_INTERVAL", time.Hour),
			StartHour: getEnvInt("BROADCAST_START_HOUR", 9),
			EndHour:   getEnvInt("BROADCAST_END_HOUR", 20),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required configuration fields are set.
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT cannot be empty")
	}
	if c.DBPath == "" {
		return fmt.Errorf("DB_PATH cannot be empty")
	}
	if c.RemindInterval <= 0 {
		return fmt.Errorf("REMIND_INTERVAL must be > 0")
	}
	if c.Broadcast.Interval <= 0 {
		return fmt.Errorf("BROADCAST_INTERVAL must be > 0")
	}
	if c.Broadcast.StartHour < 0 || c.Broadcast.StartHour > 23 {
		return fmt.Errorf("BROADCAST_START_HOUR must be within 0-23")
	}
	if c.Broadcast.EndHour < 0 || c.Broadcast.EndHour > 23 {
		return fmt.Errorf("BROADCAST_END_HOUR must be within 0-23")
	}
	if c.Broadcast.EndHour < c.Broadcast.StartHour {
		return fmt.Errorf("BROADCAST_END_HOUR must not precede BROADCAST_START_HOUR")
	}
	return nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.FrontendURL == "" ||
		strings.Contains(c.FrontendURL, "localhost") ||
		strings.Contains(c.FrontendURL, "127.0.0.1")
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return n
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	d, err := time.ParseDuration(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return d
}
