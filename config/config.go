package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	Env      string `env:"ENV" envDefault:"local" validate:"required,oneof=local staging production"`
	Port     string `env:"PORT" envDefault:"8080" validate:"required"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info" validate:"oneof=debug info warn error"`

	StoreDriver   string `env:"STORE_DRIVER" envDefault:"postgres" validate:"oneof=postgres mongo memory"`
	DatabaseURL   string `env:"DATABASE_URL" validate:"required_unless=StoreDriver memory"`
	MongoDatabase string `env:"MONGO_DATABASE" envDefault:"eventflow"`

	MetricsPort         string `env:"METRICS_PORT" envDefault:"9090"`
	HealthProbeSchedule string `env:"HEALTH_PROBE_SCHEDULE" envDefault:"@every 30s"`

	JWTSecret   string `env:"JWT_SECRET,required" validate:"required,min=32"`
	TokenFormat string `env:"TOKEN_FORMAT" envDefault:"jwt" validate:"oneof=jwt paseto"`

	GoogleClientID     string `env:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret string `env:"GOOGLE_CLIENT_SECRET" validate:"required_with=GoogleClientID"`
	GoogleCallbackURL  string `env:"GOOGLE_CALLBACK_URL" validate:"required_with=GoogleClientID"`

	FrontendURL        string   `env:"FRONTEND_URL" envDefault:"http://localhost:5173" validate:"required,url"`
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:","`

	ResendAPIKey string `env:"RESEND_API_KEY" validate:"required_if=Env production,required_if=Env staging"`
	ResendFrom   string `env:"RESEND_FROM"    validate:"required_if=Env production,required_if=Env staging"`
}

// Load reads configuration from the environment. A .env file in the working
// directory is loaded first when present; real environment variables win.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	cfg.FrontendURL = strings.TrimRight(cfg.FrontendURL, "/")
	if len(cfg.CORSAllowedOrigins) == 0 {
		cfg.CORSAllowedOrigins = []string{cfg.FrontendURL}
	}

	return cfg, nil
}

func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// GoogleEnabled reports whether Google sign-in has credentials configured.
func (c *Config) GoogleEnabled() bool {
	return c.GoogleClientID != "" && c.GoogleClientSecret != "" && c.GoogleCallbackURL != ""
}
