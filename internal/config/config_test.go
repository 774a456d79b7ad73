package config

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// allConfigKeys lists every DDADMIN_ env var that Load() reads.
var allConfigKeys = []string{
	"DDADMIN_LISTEN_ADDR",
	"DDADMIN_API_URL",
	"DDADMIN_API_TIMEOUT",
	"DDADMIN_DB_PATH",
	"DDADMIN_SECRET_KEY",
	"DDADMIN_SESSION_BACKEND",
	"DDADMIN_SESSION_TTL",
	"DDADMIN_SECURE_COOKIES",
	"DDADMIN_LOGIN_DOMAIN",
	"DDADMIN_REDIS_ADDR",
	"DDADMIN_REDIS_DB",
	"DDADMIN_LOG_LEVEL",
	"DDADMIN_LOG_FORMAT",
}

// isolateConfigEnv saves and unsets all DDADMIN_ env vars so tests don't
// inherit values from the host environment (e.g. a running dev server).
// t.Cleanup restores original values after the test.
func isolateConfigEnv(t *testing.T) {
	t.Helper()
	for _, key := range allConfigKeys {
		if orig, ok := os.LookupEnv(key); ok {
			t.Cleanup(func() { os.Setenv(key, orig) })
		} else {
			t.Cleanup(func() { os.Unsetenv(key) })
		}
		os.Unsetenv(key)
	}
}

func TestLoad_Success(t *testing.T) {
	isolateConfigEnv(t)
	t.Setenv("DDADMIN_LISTEN_ADDR", "0.0.0.0:9090")
	t.Setenv("DDADMIN_API_URL", "https://api.example.com/api/v1")
	t.Setenv("DDADMIN_API_TIMEOUT", "5s")
	t.Setenv("DDADMIN_DB_PATH", "/tmp/test.db")
	t.Setenv("DDADMIN_SESSION_BACKEND", "Redis")
	t.Setenv("DDADMIN_REDIS_ADDR", "cache:6380")
	t.Setenv("DDADMIN_REDIS_DB", "2")
	t.Setenv("DDADMIN_SESSION_TTL", "30m")
	t.Setenv("DDADMIN_SECURE_COOKIES", "true")
	t.Setenv("DDADMIN_LOG_LEVEL", "debug")
	t.Setenv("DDADMIN_LOG_FORMAT", "text")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0:9090", cfg.ListenAddr)
	assert.Equal(t, "https://api.example.com/api/v1", cfg.APIURL)
	assert.Equal(t, 5*time.Second, cfg.APITimeout)
	assert.Equal(t, "/tmp/test.db", cfg.DBPath)
	assert.True(t, cfg.UsesRedis())
	assert.Equal(t, "cache:6380", cfg.Redis.Addr)
	assert.Equal(t, 2, cfg.Redis.DB)
	assert.Equal(t, 30*time.Minute, cfg.SessionTTL)
	assert.True(t, cfg.SecureCookies)
	assert.Equal(t, "text", cfg.LogFormat)

	level, err := cfg.SlogLevel()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)
}

func TestLoad_Defaults(t *testing.T) {
	isolateConfigEnv(t)

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:8080", cfg.ListenAddr)
	assert.Equal(t, "http://api.dongdong.io:3000/api/v1", cfg.APIURL)
	assert.Equal(t, 15*time.Second, cfg.APITimeout)
	assert.Equal(t, "dongdongadmin.db", cfg.DBPath)
	assert.Equal(t, BackendSQLite, cfg.SessionBackend)
	assert.Equal(t, 12*time.Hour, cfg.SessionTTL)
	assert.Equal(t, "dongdong.admin", cfg.LoginDomain)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.False(t, cfg.SecureCookies)
	assert.Empty(t, cfg.SecretKey)
	assert.Equal(t, "json", cfg.LogFormat)
}

func TestLoadWith_MapLookuper(t *testing.T) {
	cfg, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{
		"DDADMIN_LOGIN_DOMAIN": "corp.example",
		"LOGIN_DOMAIN":         "ignored-without-prefix",
	}))

	require.NoError(t, err)
	assert.Equal(t, "corp.example", cfg.LoginDomain)
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"timeout not a duration", "DDADMIN_API_TIMEOUT", "soon"},
		{"zero timeout", "DDADMIN_API_TIMEOUT", "0s"},
		{"negative ttl", "DDADMIN_SESSION_TTL", "-1h"},
		{"unknown backend", "DDADMIN_SESSION_BACKEND", "memcached"},
		{"short secret key", "DDADMIN_SECRET_KEY", "abcd"},
		{"bad log level", "DDADMIN_LOG_LEVEL", "loud"},
		{"bad log format", "DDADMIN_LOG_FORMAT", "xml"},
		{"redis db not a number", "DDADMIN_REDIS_DB", "one"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolateConfigEnv(t)
			t.Setenv(tt.key, tt.value)

			cfg, err := Load()

			require.Error(t, err)
			assert.Nil(t, cfg)
		})
	}
}
