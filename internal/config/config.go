package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application level configuration loaded from environment variables.
type Config struct {
	ServerPort  string
	MySQLDSN    string
	ResetDB     bool
	RedisAddr   string
	RedisDB     int
	RedisPass   string
	JWTSecret   string
	SwaggerHost string

	LogLevel  string
	LogFormat string

	// RulesTimezone is the zone in which time-window rules and the
	// DAILY/MONTHLY spend windows are evaluated.
	RulesTimezone string
	CardCacheTTL  time.Duration

	StripeSecretKey     string
	StripeWebhookSecret string

	TracingEnabled  bool
	TracingEndpoint string
	Environment     string
}

// Load builds Config from the environment, reading a local .env file first when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		ServerPort:          getEnv("SERVER_PORT", "8080"),
		MySQLDSN:            getEnv("MYSQL_DSN", "user:password@tcp(localhost:3306)/app?charset=utf8mb4&parseTime=True&loc=UTC"),
		ResetDB:             getEnvBool("RESET_DB", false),
		RedisAddr:           getEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:             getEnvInt("REDIS_DB", 0),
		RedisPass:           os.Getenv("REDIS_PASSWORD"),
		JWTSecret:           getEnv("JWT_SECRET", "change-me"),
		SwaggerHost:         os.Getenv("SWAGGER_HOST"),
		LogLevel:            getEnv("LOG_LEVEL", "info"),
		LogFormat:           getEnv("LOG_FORMAT", "json"),
		RulesTimezone:       getEnv("RULES_TIMEZONE", "Local"),
		CardCacheTTL:        getEnvDuration("CARD_CACHE_TTL", 5*time.Minute),
		StripeSecretKey:     os.Getenv("STRIPE_SECRET_KEY"),
		StripeWebhookSecret: os.Getenv("STRIPE_WEBHOOK_SECRET"),
		TracingEnabled:      getEnvBool("TRACING_ENABLED", false),
		TracingEndpoint:     getEnv("TRACING_ENDPOINT", "http://localhost:14268/api/traces"),
		Environment:         getEnv("ENVIRONMENT", "development"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// Validate checks required settings.
func (c *Config) Validate() error {
	if _, err := c.Location(); err != nil {
		return err
	}
	if c.StripeWebhookSecret == "" {
		return fmt.Errorf("STRIPE_WEBHOOK_SECRET is required")
	}
	if c.LogLevel == "" {
		return fmt.Errorf("LOG_LEVEL is required")
	}
	return nil
}

// Location resolves RulesTimezone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.RulesTimezone)
	if err != nil {
		return nil, fmt.Errorf("invalid RULES_TIMEZONE %q: %w", c.RulesTimezone, err)
	}
	return loc, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.ParseBool(v); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			return parsed
		}
	}
	return def
}
