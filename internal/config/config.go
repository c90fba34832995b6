// Package config provides application configuration management.
// Configuration is loaded from environment variables following 12-factor principles.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/go-playground/validator/v10"

	"github.com/NEXT-LIKELION/session14-assignment-jeehana/internal/validate"
)

// Store backends.
const (
	BackendFirestore = "firestore"
	BackendMongoDB   = "mongodb"
	BackendPostgres  = "postgres"
	BackendMemory    = "memory"
)

// Config holds all application configuration.
// All fields are populated from environment variables.
type Config struct {
	// Application settings
	AppEnv  string `env:"APP_ENV" envDefault:"development"`
	AppPort int    `env:"APP_PORT" envDefault:"8080" validate:"min=1,max=65535"`

	// User store
	StoreBackend    string `env:"STORE_BACKEND" envDefault:"firestore" validate:"oneof=firestore mongodb postgres memory"`
	UsersCollection string `env:"USERS_COLLECTION" envDefault:"users" validate:"required"`

	FirestoreProjectID string `env:"FIRESTORE_PROJECT_ID" validate:"required_if=StoreBackend firestore"`
	MongoDBURL         string `env:"MONGODB_URL" validate:"required_if=StoreBackend mongodb"`
	MongoDBDatabase    string `env:"MONGODB_DATABASE" envDefault:"app"`
	DatabaseURL        string `env:"DATABASE_URL" validate:"required_if=StoreBackend postgres"`

	// Redis is optional and only backs rate limiting.
	RedisURL       string `env:"REDIS_URL"`
	RedisKeyPrefix string `env:"REDIS_KEY_PREFIX" envDefault:"users"`

	// Logging
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info" validate:"oneof=debug info warn error"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json" validate:"oneof=json text"`

	// Server timeouts
	ReadTimeout     time.Duration `env:"READ_TIMEOUT" envDefault:"5s"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT" envDefault:"10s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`

	// Rate limiting, effective only when REDIS_URL is set
	RateLimitEnabled bool `env:"RATE_LIMIT_ENABLED" envDefault:"true"`
	RateLimitRPS     int  `env:"RATE_LIMIT_RPS" envDefault:"20" validate:"min=1"`
	RateLimitBurst   int  `env:"RATE_LIMIT_BURST" envDefault:"40" validate:"min=1"`

	// Comma-separated list of allowed origins (e.g., "https://example.com,*.example.org")
	CORSAllowedOrigins string `env:"CORS_ALLOWED_ORIGINS" envDefault:""`

	// Request body size limit in bytes (default 1MB)
	MaxRequestBodySize int64 `env:"MAX_REQUEST_BODY_SIZE" envDefault:"1048576" validate:"min=1"`

	// Argon2id PHC hash of the API key required on mutating routes. Empty disables auth.
	APIKeyHash      string        `env:"API_KEY_HASH"`
	AuthMinDuration time.Duration `env:"AUTH_MIN_DURATION" envDefault:"200ms"`
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// GetCORSAllowedOrigins parses the comma-separated origins string into a slice.
func (c *Config) GetCORSAllowedOrigins() []string {
	if c.CORSAllowedOrigins == "" {
		return nil
	}

	origins := strings.Split(c.CORSAllowedOrigins, ",")
	result := make([]string, 0, len(origins))

	for _, origin := range origins {
		trimmed := strings.TrimSpace(origin)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}

// Validate checks ranges, enums and backend-specific settings.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, describe(fe))
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}

// describe renders a field error using the environment variable name.
func describe(fe validator.FieldError) string {
	name := envNames[fe.StructField()]
	if name == "" {
		name = fe.StructField()
	}
	switch fe.Tag() {
	case "required", "required_if":
		return name + " is required"
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s], got %q", name, fe.Param(), fe.Value())
	default:
		return fmt.Sprintf("%s failed %s=%s", name, fe.Tag(), fe.Param())
	}
}

var envNames = map[string]string{
	"AppPort":            "APP_PORT",
	"StoreBackend":       "STORE_BACKEND",
	"UsersCollection":    "USERS_COLLECTION",
	"FirestoreProjectID": "FIRESTORE_PROJECT_ID",
	"MongoDBURL":         "MONGODB_URL",
	"DatabaseURL":        "DATABASE_URL",
	"LogLevel":           "LOG_LEVEL",
	"LogFormat":          "LOG_FORMAT",
	"RateLimitRPS":       "RATE_LIMIT_RPS",
	"RateLimitBurst":     "RATE_LIMIT_BURST",
	"MaxRequestBodySize": "MAX_REQUEST_BODY_SIZE",
}

// Load parses environment variables and validates the result.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
