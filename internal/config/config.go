// Package config provides configuration loading and validation for the service.
package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds the service configuration read from the environment.
type Config struct {
	Port        int    // HTTP listen port
	DatabaseURL string // PostgreSQL connection URL
	RedisURL    string // Redis connection URL for draft sessions and OTP codes
	RemoteURL   string // Base URL of the parser/renderer/analysis services
}

// Load reads the service configuration from environment variables.
// DATABASE_URL, REDIS_URL and REMOTE_API_URL are required; PORT defaults
// to 8080.
func Load() (*Config, error) {
	cfg := &Config{
		Port:        8080,
		DatabaseURL: os.Getenv("DATABASE_URL"),
		RedisURL:    os.Getenv("REDIS_URL"),
		RemoteURL:   os.Getenv("REMOTE_API_URL"),
	}

	if portStr := os.Getenv("PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return nil, fmt.Errorf("invalid PORT: %v", err)
		}
		cfg.Port = port
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("config error: port out of range: %d", c.Port)
	}
	if c.DatabaseURL == "" {
		return fmt.Errorf("config error: DATABASE_URL is required")
	}
	if c.RedisURL == "" {
		return fmt.Errorf("config error: REDIS_URL is required")
	}
	if c.RemoteURL == "" {
		return fmt.Errorf("config error: REMOTE_API_URL is required")
	}
	return nil
}
