package config

import (
	"errors"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// ErrEmptySecretKey is returned when SECRET_KEY is set but empty.
var ErrEmptySecretKey = errors.New("SECRET_KEY must not be empty")

// ErrInvalidStatsInterval is returned when STATS_INTERVAL is zero or negative.
var ErrInvalidStatsInterval = errors.New("STATS_INTERVAL must be positive")

// Config holds application configuration loaded from environment variables.
type Config struct {
	Port              int           `envconfig:"PORT" default:"8080"`
	LogLevel          string        `envconfig:"LOG_LEVEL" default:"info"`
	DatabaseURL       string        `envconfig:"DATABASE_URL" required:"true"`
	SecretKey         string        `envconfig:"SECRET_KEY" required:"true"`
	Version           string        `envconfig:"VERSION" default:"dev"`
	BcryptCost        int           `envconfig:"BCRYPT_COST" default:"12"`
	CookieSecure      bool          `envconfig:"COOKIE_SECURE" default:"false"`
	MigrateOnStart    bool          `envconfig:"MIGRATE_ON_START" default:"true"`
	SuperuserEmail    string        `envconfig:"SUPERUSER_EMAIL" default:""`
	SuperuserPassword string        `envconfig:"SUPERUSER_PASSWORD" default:""`
	StatsInterval     time.Duration `envconfig:"STATS_INTERVAL" default:"30s"`
}

// Load reads configuration from environment variables into a Config struct.
// The signing secret is read once here and never changes afterwards.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if cfg.SecretKey == "" {
		return nil, ErrEmptySecretKey
	}
	if cfg.StatsInterval <= 0 {
		return nil, ErrInvalidStatsInterval
	}
	return &cfg, nil
}
