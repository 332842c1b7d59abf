package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"oncodash/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Server     ServerConfig
	Backend    BackendConfig
	Deployment DeploymentConfig
	Monitor    MonitorConfig
	Sessions   SessionConfig
	Database   DatabaseConfig
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port    string
	GinMode string
}

// BackendConfig holds settings for the external inference service
type BackendConfig struct {
	BaseURL string
	Timeout time.Duration
}

// DeploymentConfig narrows which models the dashboard exposes. An empty
// allow-list means every registered model is retained.
type DeploymentConfig struct {
	ModelAllowlist []string
}

// MonitorConfig holds the live telemetry poller settings
type MonitorConfig struct {
	Interval  time.Duration
	LiveLimit int
}

// SessionConfig selects and configures the session persistence backend
type SessionConfig struct {
	// Backend is "file" or "postgres"
	Backend string
	// Dir is the state directory for the file backend
	Dir string
}

// DatabaseConfig holds the optional Postgres connection settings
type DatabaseConfig struct {
	URL string
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:    getEnvOrDefault("PORT", "3000"),
			GinMode: getEnvOrDefault("GIN_MODE", "debug"),
		},
		Backend: BackendConfig{
			BaseURL: getEnvOrDefault("BACKEND_URL", "http://localhost:8000"),
			Timeout: getEnvDurationOrDefault("BACKEND_TIMEOUT", 15*time.Second),
		},
		Deployment: DeploymentConfig{
			ModelAllowlist: splitList(os.Getenv("MODEL_ALLOWLIST")),
		},
		Monitor: MonitorConfig{
			Interval:  getEnvDurationOrDefault("MONITOR_INTERVAL", 30*time.Second),
			LiveLimit: getEnvIntOrDefault("MONITOR_LIVE_LIMIT", 50),
		},
		Sessions: SessionConfig{
			Backend: getEnvOrDefault("SESSION_BACKEND", "file"),
			Dir:     getEnvOrDefault("SESSION_DIR", "./state"),
		},
		Database: DatabaseConfig{
			URL: os.Getenv("DATABASE_URL"),
		},
	}

	if err := validate(cfg); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return cfg, nil
}

func validate(cfg *Config) error {
	if cfg.Backend.BaseURL == "" {
		return errors.ConfigInvalid("BACKEND_URL is required")
	}
	if !strings.HasPrefix(cfg.Backend.BaseURL, "http://") && !strings.HasPrefix(cfg.Backend.BaseURL, "https://") {
		return errors.ConfigInvalid("BACKEND_URL must be an http(s) URL")
	}
	switch cfg.Sessions.Backend {
	case "file":
	case "postgres":
		if cfg.Database.URL == "" {
			return errors.ConfigInvalid("DATABASE_URL is required for the postgres session backend")
		}
	default:
		return errors.ConfigInvalid("SESSION_BACKEND must be file or postgres")
	}
	if cfg.Monitor.Interval <= 0 {
		return errors.ConfigInvalid("MONITOR_INTERVAL must be positive")
	}
	return nil
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
