package config

import (
	"fmt"
	"strings"

	"github.com/ardanlabs/conf/v3"
	"github.com/joho/godotenv"
)

// Environment name constants used in ENVIRONMENT config field.
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
	EnvTesting     = "testing"
)

// Config holds all configuration for the booking gateway.
type Config struct {
	// HTTP
	ListenAddr string `conf:"default::8080,env:LISTEN_ADDR"`

	// Hotel REST backend (hotels, rooms and bookings live there)
	BackendBaseURL string `conf:"default:http://localhost:3000/api,env:BACKEND_BASE_URL"`

	// Identity provider (Clerk-style hosted auth)
	IdentityFrontendURL   string `conf:"default:https://accounts.example.dev,env:IDENTITY_FRONTEND_URL"`
	IdentityAPIURL        string `conf:"default:https://api.clerk.dev/v1,env:IDENTITY_API_URL"`
	IdentityAPIKey        string `conf:"default:sk_test_dev,env:IDENTITY_API_KEY,noprint"`
	IdentityWebhookSecret string `conf:"default:whsec_dev,env:IDENTITY_WEBHOOK_SECRET,noprint"`

	// Redis
	RedisURL string `conf:"default:redis://localhost:6379,env:REDIS_URL"`

	// Application
	LogLevel    string `conf:"default:info,env:LOG_LEVEL"`
	Environment string `conf:"default:development,enum:development|testing|production,env:ENVIRONMENT"`

	// Session
	SessionAuthKey       string `conf:"default:dev-auth-key-32-bytes-long!!!,env:SESSION_AUTH_KEY"`
	SessionEncryptionKey string `conf:"default:dev-encryption-key-32-bytes!!,env:SESSION_ENCRYPTION_KEY"`

	// CORS — comma-separated list of allowed origins; use * to allow all (dev only)
	CORSAllowedOrigins string `conf:"default:*,env:CORS_ALLOWED_ORIGINS"`

	// Observability
	ServiceName    string `conf:"default:hotel-booking-gateway,env:SERVICE_NAME"`
	ServiceVersion string `conf:"default:dev,env:SERVICE_VERSION"`
	OtelEndpoint   string `conf:"default:,env:OTEL_ENDPOINT"`
	SentryDSN      string `conf:"default:,env:SENTRY_DSN,noprint"`
}

// Load reads configuration from environment variables with sensible defaults.
func Load() (*Config, error) {
	var cfg Config
	_ = godotenv.Load()
	if _, err := conf.Parse("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &cfg, nil
}

// ValidateForProduction enforces security requirements when ENVIRONMENT=production.
// Returns an error if any critical settings are missing or unsafe.
// No-ops for non-production environments.
func ValidateForProduction(cfg *Config) error {
	if cfg.Environment != EnvProduction {
		return nil
	}

	var errs []string

	if len(cfg.SessionAuthKey) < 32 {
		errs = append(errs, fmt.Sprintf(
			"SESSION_AUTH_KEY must be at least 32 bytes (got %d); generate with: openssl rand -base64 32",
			len(cfg.SessionAuthKey),
		))
	}

	if len(cfg.SessionEncryptionKey) < 16 {
		errs = append(errs, fmt.Sprintf(
			"SESSION_ENCRYPTION_KEY must be at least 16 bytes (got %d); generate with: openssl rand -base64 16",
			len(cfg.SessionEncryptionKey),
		))
	}

	if cfg.IdentityWebhookSecret == "" || cfg.IdentityWebhookSecret == "whsec_dev" {
		errs = append(errs, "IDENTITY_WEBHOOK_SECRET must be set to the provider-issued signing secret")
	}

	if strings.HasPrefix(cfg.IdentityAPIKey, "sk_test_") {
		errs = append(errs, "IDENTITY_API_KEY must be a live key, not a test key")
	}

	if cfg.LogLevel == "debug" {
		errs = append(errs, "LOG_LEVEL must not be 'debug' in production (may leak sensitive data)")
	}

	if len(errs) == 0 {
		return nil
	}

	return fmt.Errorf("production config validation failed: %s", strings.Join(errs, "; "))
}
