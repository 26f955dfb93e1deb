package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server    ServerConfig
	Backend   BackendConfig
	RateLimit RateLimitConfig
}

type ServerConfig struct {
	Port           string
	Env            string
	LogLevel       string
	AllowedOrigins []string
	TrustedProxies []string
}

type BackendConfig struct {
	// ScriptURL is the Apps Script web app endpoint. Deliberately not
	// required here: a missing URL surfaces as a "not configured" service
	// error on first use instead of preventing startup.
	ScriptURL string
}

type RateLimitConfig struct {
	MaxAttempts   int
	BlockDuration time.Duration
	SweepInterval time.Duration
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	env := getEnv("ENV", "development")

	cfg := &Config{
		Server: ServerConfig{
			Port:           getEnv("PORT", "8080"),
			Env:            env,
			LogLevel:       getEnv("LOG_LEVEL", "info"),
			AllowedOrigins: parseAllowedOrigins(env),
			TrustedProxies: parseCommaList(getEnv("TRUSTED_PROXIES", "")),
		},
		Backend: BackendConfig{
			ScriptURL: getEnv("GOOGLE_APPS_SCRIPT_URL", ""),
		},
		RateLimit: RateLimitConfig{
			MaxAttempts:   getEnvAsInt("LOGIN_MAX_FAILED_ATTEMPTS", 3),
			BlockDuration: getEnvAsDuration("LOGIN_BLOCK_DURATION", 15*time.Minute),
			SweepInterval: getEnvAsDuration("LOGIN_SWEEP_INTERVAL", 5*time.Minute),
		},
	}

	if cfg.RateLimit.MaxAttempts < 1 {
		return nil, fmt.Errorf("LOGIN_MAX_FAILED_ATTEMPTS must be at least 1 (got %d)", cfg.RateLimit.MaxAttempts)
	}
	if cfg.RateLimit.BlockDuration <= 0 {
		return nil, fmt.Errorf("LOGIN_BLOCK_DURATION must be positive (got %s)", cfg.RateLimit.BlockDuration)
	}
	if cfg.RateLimit.SweepInterval <= 0 {
		return nil, fmt.Errorf("LOGIN_SWEEP_INTERVAL must be positive (got %s)", cfg.RateLimit.SweepInterval)
	}

	return cfg, nil
}

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvAsDuration(key string, defaultVal time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultVal
}

func parseCommaList(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parseAllowedOrigins(env string) []string {
	if env == "production" {
		return parseCommaList(getEnv("ALLOWED_ORIGINS", ""))
	}

	// Development: allow localhost variants
	return []string{
		"http://localhost:3000",
		"http://localhost:8080",
		"http://127.0.0.1:3000",
		"http://127.0.0.1:8080",
	}
}
