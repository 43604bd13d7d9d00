package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the server configuration
type Config struct {
	Environment string
	Port        string

	// Database
	DatabaseDriver string // "postgres" or "sqlite"
	DatabaseURL    string

	// Auth
	JWTSecret string
	TokenTTL  time.Duration

	// Redis (optional - caching is skipped when empty)
	RedisURL string

	// GetStream chat (optional - chat token endpoint returns 503 when unset)
	StreamAPIKey    string
	StreamAPISecret string

	// Logging
	LogLevel string
	LogFile  string

	// Tracing
	OTelEnabled      bool
	OTelEndpoint     string
	OTelSamplingRate float64

	CORSOrigins []string
}

// Load reads .env (if present) and the process environment.
// REQUIRED environment variables:
// - JWT_SECRET: HMAC secret used to validate bearer tokens
func Load() (*Config, error) {
	// .env is optional in production
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	cfg := &Config{
		Environment:      v.GetString("ENVIRONMENT"),
		Port:             v.GetString("PORT"),
		DatabaseDriver:   strings.ToLower(v.GetString("DATABASE_DRIVER")),
		DatabaseURL:      v.GetString("DATABASE_URL"),
		JWTSecret:        v.GetString("JWT_SECRET"),
		TokenTTL:         v.GetDuration("TOKEN_TTL"),
		RedisURL:         v.GetString("REDIS_URL"),
		StreamAPIKey:     v.GetString("STREAM_API_KEY"),
		StreamAPISecret:  v.GetString("STREAM_API_SECRET"),
		LogLevel:         v.GetString("LOG_LEVEL"),
		LogFile:          v.GetString("LOG_FILE"),
		OTelEnabled:      v.GetBool("OTEL_ENABLED"),
		OTelEndpoint:     v.GetString("OTEL_EXPORTER_OTLP_ENDPOINT"),
		OTelSamplingRate: v.GetFloat64("OTEL_SAMPLING_RATE"),
		CORSOrigins:      splitList(v.GetString("CORS_ORIGINS")),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENVIRONMENT", "development")
	v.SetDefault("PORT", "8787")
	v.SetDefault("DATABASE_DRIVER", "postgres")
	v.SetDefault("DATABASE_URL", "host=localhost port=5432 user=postgres dbname=trellis sslmode=disable")
	v.SetDefault("TOKEN_TTL", 24*time.Hour)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FILE", "server.log")
	v.SetDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318")
	v.SetDefault("OTEL_SAMPLING_RATE", 1.0)
	v.SetDefault("CORS_ORIGINS", "*")
}

// Validate checks required settings
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET environment variable is required")
	}
	switch c.DatabaseDriver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported DATABASE_DRIVER %q (want postgres or sqlite)", c.DatabaseDriver)
	}
	return nil
}

// IsDevelopment reports whether the server runs in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
