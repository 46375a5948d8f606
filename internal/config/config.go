// Package config loads process configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"github.com/custodia-labs/alice-todoist/internal/adapters/driven/todoist"
	"github.com/custodia-labs/alice-todoist/internal/core/domain"
)

// Config holds the application configuration
type Config struct {
	Host string `validate:"required"`
	Port int    `validate:"min=1,max=65535"`

	TodoistClientID     string `validate:"required"`
	TodoistClientSecret string `validate:"required"`
	TodoistRedirectURI  string `validate:"required,url"`
	TodoistAPIBase      string `validate:"required,url"`
	TodoistAuthURL      string `validate:"required,url"`
	TodoistTokenURL     string `validate:"required,url"`

	// PublicBaseURL is the externally visible origin of this service.
	PublicBaseURL string `validate:"required,url"`

	RedisURL    string `validate:"required_without=DatabaseURL"`
	DatabaseURL string `validate:"required_without=RedisURL"`

	StateTTL       time.Duration `validate:"gt=0"`
	StateRetention time.Duration `validate:"gte=0"`

	// TokenEncryptionSecret enables at-rest encryption of stored values.
	TokenEncryptionSecret string

	LogLevel  string `validate:"oneof=debug info warn warning error"`
	LogFormat string `validate:"oneof=json text"`

	HTTPClientTimeout time.Duration `validate:"gt=0"`
}

// Load loads the configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists, but don't fail if it doesn't (could be real env vars)
	_ = godotenv.Load()

	port, err := getEnvInt("PORT", 8080)
	if err != nil {
		return nil, err
	}
	stateTTL, err := getEnvDuration("STATE_TTL", domain.DefaultStateTTL)
	if err != nil {
		return nil, err
	}
	retention, err := getEnvDuration("STATE_RETENTION", stateTTL)
	if err != nil {
		return nil, err
	}
	timeout, err := getEnvDuration("HTTP_CLIENT_TIMEOUT", todoist.DefaultTimeout)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Host:                  getEnv("HOST", "0.0.0.0"),
		Port:                  port,
		TodoistClientID:       getEnv("TODOIST_CLIENT_ID", ""),
		TodoistClientSecret:   getEnv("TODOIST_CLIENT_SECRET", ""),
		TodoistRedirectURI:    getEnv("TODOIST_REDIRECT_URI", ""),
		TodoistAPIBase:        getEnv("TODOIST_API_BASE", todoist.DefaultAPIBase),
		TodoistAuthURL:        getEnv("TODOIST_AUTH_URL", todoist.DefaultAuthURL),
		TodoistTokenURL:       getEnv("TODOIST_TOKEN_URL", todoist.DefaultTokenURL),
		RedisURL:              getEnv("REDIS_URL", ""),
		DatabaseURL:           getEnv("DATABASE_URL", ""),
		StateTTL:              stateTTL,
		StateRetention:        retention,
		TokenEncryptionSecret: getEnv("TOKEN_ENCRYPTION_SECRET", ""),
		LogLevel:              strings.ToLower(getEnv("LOG_LEVEL", "info")),
		LogFormat:             strings.ToLower(getEnv("LOG_FORMAT", "json")),
		HTTPClientTimeout:     timeout,
	}
	cfg.PublicBaseURL = getEnv("PUBLIC_BASE_URL", origin(cfg.TodoistRedirectURI))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks required settings and value ranges.
func (c *Config) Validate() error {
	err := validator.New().Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, e := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s: failed %q", envName(e.Field()), e.Tag()))
	}
	return fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
}

// UsesRedis reports whether the Redis token store is selected.
func (c *Config) UsesRedis() bool {
	return c.RedisURL != ""
}

// Addr returns the listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// origin returns scheme://host of a URL, or "" if it has none.
func origin(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ""
	}
	return u.Scheme + "://" + u.Host
}

var envNames = map[string]string{
	"Host":                  "HOST",
	"Port":                  "PORT",
	"TodoistClientID":       "TODOIST_CLIENT_ID",
	"TodoistClientSecret":   "TODOIST_CLIENT_SECRET",
	"TodoistRedirectURI":    "TODOIST_REDIRECT_URI",
	"TodoistAPIBase":        "TODOIST_API_BASE",
	"TodoistAuthURL":        "TODOIST_AUTH_URL",
	"TodoistTokenURL":       "TODOIST_TOKEN_URL",
	"PublicBaseURL":         "PUBLIC_BASE_URL",
	"RedisURL":              "REDIS_URL",
	"DatabaseURL":           "DATABASE_URL",
	"StateTTL":              "STATE_TTL",
	"StateRetention":        "STATE_RETENTION",
	"TokenEncryptionSecret": "TOKEN_ENCRYPTION_SECRET",
	"LogLevel":              "LOG_LEVEL",
	"LogFormat":             "LOG_FORMAT",
	"HTTPClientTimeout":     "HTTP_CLIENT_TIMEOUT",
}

func envName(field string) string {
	if name, ok := envNames[field]; ok {
		return name
	}
	return field
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value: %w", key, err)
	}
	return n, nil
}

// getEnvDuration accepts Go durations ("10m") or plain seconds ("600").
func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value: %w", key, err)
	}
	return d, nil
}
