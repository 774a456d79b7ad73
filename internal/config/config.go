// Package config loads application configuration from environment variables.
package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

// EnvPrefix is prepended to every variable name.
const EnvPrefix = "DDADMIN_"

// Session backends.
const (
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	ListenAddr string        `env:"LISTEN_ADDR, default=127.0.0.1:8080"`
	APIURL     string        `env:"API_URL, default=http://api.dongdong.io:3000/api/v1"`
	APITimeout time.Duration `env:"API_TIMEOUT, default=15s"`

	DBPath    string `env:"DB_PATH, default=dongdongadmin.db"`
	SecretKey string `env:"SECRET_KEY"`

	SessionBackend string        `env:"SESSION_BACKEND, default=sqlite"`
	SessionTTL     time.Duration `env:"SESSION_TTL, default=12h"`
	SecureCookies  bool          `env:"SECURE_COOKIES, default=false"`
	LoginDomain    string        `env:"LOGIN_DOMAIN, default=dongdong.admin"`

	Redis RedisConfig

	LogLevel  string `env:"LOG_LEVEL, default=info"`
	LogFormat string `env:"LOG_FORMAT, default=json"`
}

// RedisConfig is read only when SessionBackend is "redis".
type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB, default=0"`
}

// Load reads an optional .env file from the working directory, then the
// DDADMIN_ environment variables, and returns a validated Config.
// Variables already present in the environment win over the .env file.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}
	return LoadWith(context.Background(), envconfig.OsLookuper())
}

// LoadWith reads configuration through lookuper. Names are looked up with
// the DDADMIN_ prefix.
func LoadWith(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: envconfig.PrefixLookuper(EnvPrefix, lookuper),
	}); err != nil {
		return nil, fmt.Errorf("reading %s environment: %w", EnvPrefix, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	c.SessionBackend = strings.ToLower(strings.TrimSpace(c.SessionBackend))
	switch c.SessionBackend {
	case BackendSQLite, BackendRedis:
	default:
		return fmt.Errorf("%sSESSION_BACKEND must be %q or %q, got %q", EnvPrefix, BackendSQLite, BackendRedis, c.SessionBackend)
	}

	if c.APITimeout <= 0 {
		return fmt.Errorf("%sAPI_TIMEOUT must be positive, got %s", EnvPrefix, c.APITimeout)
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("%sSESSION_TTL must be positive, got %s", EnvPrefix, c.SessionTTL)
	}

	if k := strings.TrimSpace(c.SecretKey); k != "" && len(k) != 64 {
		return fmt.Errorf("%sSECRET_KEY must be 64 hex characters, got %d", EnvPrefix, len(k))
	}

	if _, err := c.SlogLevel(); err != nil {
		return err
	}

	c.LogFormat = strings.ToLower(strings.TrimSpace(c.LogFormat))
	if c.LogFormat != "json" && c.LogFormat != "text" {
		return fmt.Errorf("%sLOG_FORMAT must be \"json\" or \"text\", got %q", EnvPrefix, c.LogFormat)
	}

	return nil
}

// SlogLevel parses LogLevel.
func (c *Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(c.LogLevel))); err != nil {
		return 0, fmt.Errorf("%sLOG_LEVEL has invalid level %q: %w", EnvPrefix, c.LogLevel, err)
	}
	return level, nil
}

// UsesRedis reports whether sessions are kept in Redis.
func (c *Config) UsesRedis() bool {
	return c.SessionBackend == BackendRedis
}
