package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds the full application configuration.
// Populated from environment variables, with .env support in development.
type Config struct {
	App      AppConfig
	Upstream UpstreamConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Session  SessionConfig
}

type AppConfig struct {
	Name        string
	Environment string // development, staging, production
	Port        string
	Version     string
}

// UpstreamConfig points at the central inventory platform API.
// The gateway holds no credentials of its own; caller tokens are forwarded.
type UpstreamConfig struct {
	BaseURL string
	Timeout time.Duration
}

type RedisConfig struct {
	Host     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret string
}

// SessionConfig bounds the lifetime of workflow sessions (availability,
// dispatch and acknowledgment working state) held in Redis.
type SessionConfig struct {
	TTL time.Duration
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "AMS Gateway"),
			Environment: getEnv("APP_ENV", "development"),
			Port:        getEnv("APP_PORT", "8080"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
		},
		Upstream: UpstreamConfig{
			BaseURL: getEnv("UPSTREAM_BASE_URL", "http://localhost:8000/api"),
			Timeout: getDuration("UPSTREAM_TIMEOUT", 15*time.Second),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		JWT: JWTConfig{
			Secret: getEnv("JWT_SECRET", ""),
		},
		Session: SessionConfig{
			TTL: getDuration("SESSION_TTL", 30*time.Minute),
		},
	}

	if cfg.JWT.Secret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

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

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
