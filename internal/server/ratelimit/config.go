package ratelimit

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// EndpointConfig is the limit applied to one endpoint. A Path ending in
// "/" matches by prefix; Limit <= 0 means unlimited.
type EndpointConfig struct {
	Path   string
	Method string
	Limit  int
	Window time.Duration
	Burst  int
}

// Config holds the limiter configuration.
type Config struct {
	Enabled       bool
	DefaultLimit  int
	DefaultWindow time.Duration
	SweepInterval time.Duration
	Exempt        map[string]bool
	Blocked       map[string]bool
	Endpoints     []EndpointConfig
}

func defaultConfig() *Config {
	return &Config{
		Enabled:       true,
		DefaultLimit:  1000,
		DefaultWindow: time.Minute,
		SweepInterval: 5 * time.Minute,
		Exempt:        map[string]bool{},
		Blocked:       map[string]bool{},
		Endpoints:     DefaultEndpointConfigs(),
	}
}

// LoadConfig loads the limiter configuration from environment variables.
func LoadConfig() *Config {
	if !envBool("RATE_LIMIT_ENABLED", true) {
		return &Config{Enabled: false}
	}

	return &Config{
		Enabled:       true,
		DefaultLimit:  envInt("RATE_LIMIT_DEFAULT_LIMIT", 1000),
		DefaultWindow: envDuration("RATE_LIMIT_DEFAULT_WINDOW", time.Minute),
		SweepInterval: envDuration("RATE_LIMIT_SWEEP_INTERVAL", 5*time.Minute),
		Exempt:        splitIPList(os.Getenv("RATE_LIMIT_EXEMPT")),
		Blocked:       splitIPList(os.Getenv("RATE_LIMIT_BLOCKED")),
		Endpoints:     DefaultEndpointConfigs(),
	}
}

// DefaultEndpointConfigs returns the per-endpoint limits. The remote
// parse, generate and analyze calls are the expensive tier; auth
// endpoints are throttled against brute force.
func DefaultEndpointConfigs() []EndpointConfig {
	return []EndpointConfig{
		{Path: "/resumes/upload", Method: "POST", Limit: 20, Window: time.Hour, Burst: 5},
		{Path: "/draft/generate", Method: "POST", Limit: 20, Window: time.Hour, Burst: 5},
		{Path: "/draft/analyze", Method: "POST", Limit: 30, Window: time.Hour, Burst: 5},

		{Path: "/auth/login", Method: "POST", Limit: 10, Window: time.Minute, Burst: 5},
		{Path: "/auth/register", Method: "POST", Limit: 10, Window: time.Minute, Burst: 5},
		{Path: "/auth/verify-otp", Method: "POST", Limit: 10, Window: time.Minute, Burst: 5},
		{Path: "/auth/resend-otp", Method: "POST", Limit: 3, Window: time.Minute, Burst: 3},

		{Path: "/draft/", Method: "PUT", Limit: 300, Window: time.Minute},
		{Path: "/draft/", Method: "POST", Limit: 300, Window: time.Minute},
		{Path: "/resumes/", Method: "DELETE", Limit: 60, Window: time.Minute},
		{Path: "/resumes/", Method: "PUT", Limit: 60, Window: time.Minute},
	}
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.ParseBool(v); err == nil {
			return parsed
		}
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			return parsed
		}
	}
	return fallback
}

func splitIPList(list string) map[string]bool {
	out := make(map[string]bool)
	for _, ip := range strings.Split(list, ",") {
		if ip = strings.TrimSpace(ip); ip != "" {
			out[ip] = true
		}
	}
	return out
}
