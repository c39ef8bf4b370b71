package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"DB_DRIVER", "DB_PATH", "SERVER_PORT", "CORS_ALLOWED_ORIGINS", "RESOLVER_JWT_SECRET", "EXPIRY_WATCH_INTERVAL", "SHUTDOWN_TIMEOUT", "GIN_MODE"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, "callboard.db", cfg.Database.Path)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, []string{"*"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, time.Minute, cfg.Jobs.ExpiryWatchInterval)
	assert.False(t, cfg.Auth.Enabled())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DB_DRIVER", "Postgres")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_NAME", "calls")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example ,")
	t.Setenv("RESOLVER_JWT_SECRET", "s3cret")
	t.Setenv("EXPIRY_WATCH_INTERVAL", "0")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DriverPostgres, cfg.Database.Driver)
	assert.Contains(t, cfg.Database.PostgresDSN(), "host=db.internal")
	assert.Contains(t, cfg.Database.PostgresDSN(), "dbname=calls")
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.AllowedOrigins)
	assert.True(t, cfg.Auth.Enabled())
	assert.Zero(t, cfg.Jobs.ExpiryWatchInterval)
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := map[string]map[string]string{
		"unknown driver":    {"DB_DRIVER": "mysql"},
		"bad duration":      {"EXPIRY_WATCH_INTERVAL": "soon"},
		"negative interval": {"EXPIRY_WATCH_INTERVAL": "-1m"},
		"unknown gin mode":  {"GIN_MODE": "verbose"},
	}

	for name, env := range tests {
		t.Run(name, func(t *testing.T) {
			for k, v := range env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
