package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const (
	DraftBackendMemory   = "memory"
	DraftBackendPostgres = "postgres"
	DraftBackendRedis    = "redis"
)

type Config struct {
	ServerPort string `envconfig:"SERVER_PORT" default:"8080"`

	ProxiMart struct {
		APIURL  string        `envconfig:"API_URL" default:"http://localhost:5000/api"`
		APIKey  string        `envconfig:"API_KEY"`
		Timeout time.Duration `envconfig:"API_TIMEOUT" default:"0"`
	} `envconfig:"PROXIMART"`

	VendorID string `envconfig:"VENDOR_ID" default:"vendor1"`

	DraftBackend string        `envconfig:"DRAFT_BACKEND" default:"memory"`
	DatabaseURL  string        `envconfig:"DATABASE_URL"`
	RedisAddr    string        `envconfig:"REDIS_ADDR" default:"127.0.0.1:6379"`
	DraftTTL     time.Duration `envconfig:"DRAFT_TTL" default:"24h"`

	SessionCookie string        `envconfig:"SESSION_COOKIE" default:"proximart_session"`
	SessionTTL    time.Duration `envconfig:"SESSION_TTL" default:"720h"`
	SecureCookies bool          `envconfig:"SECURE_COOKIES" default:"false"`

	// CSRFSecret signs form tokens. Empty picks a random key per process.
	CSRFSecret string `envconfig:"CSRF_SECRET"`

	RateLimitPerMinute int `envconfig:"RATE_LIMIT_PER_MINUTE" default:"120"`

	DisplayLocale   string `envconfig:"DISPLAY_LOCALE" default:"en-IN"`
	DisplayTimezone string `envconfig:"DISPLAY_TIMEZONE" default:"Asia/Kolkata"`

	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"json"`
}

func Load() (*Config, error) {
	// Load .env file if it exists (useful for local dev)
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("read environment: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.ProxiMart.APIURL == "" {
		return fmt.Errorf("PROXIMART_API_URL must be set")
	}
	if c.VendorID == "" {
		return fmt.Errorf("VENDOR_ID must be set")
	}
	if c.ProxiMart.Timeout < 0 {
		return fmt.Errorf("PROXIMART_API_TIMEOUT must not be negative")
	}
	if c.DraftTTL <= 0 {
		return fmt.Errorf("DRAFT_TTL must be positive")
	}

	switch c.DraftBackend {
	case DraftBackendMemory:
	case DraftBackendPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL must be set for the %s draft backend", c.DraftBackend)
		}
	case DraftBackendRedis:
		if c.RedisAddr == "" {
			return fmt.Errorf("REDIS_ADDR must be set for the %s draft backend", c.DraftBackend)
		}
	default:
		return fmt.Errorf("unknown DRAFT_BACKEND %q", c.DraftBackend)
	}
	return nil
}
