package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	conf, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", conf.Server.Port)
	assert.Equal(t, StorageLocal, conf.Storage.Mode)
	assert.Equal(t, "UTC", conf.Streaks.Timezone)
	assert.Equal(t, 30, conf.Streaks.ConsistencyWindow)
	assert.Equal(t, 30*time.Minute, conf.Cache.TTL)
	assert.Equal(t, time.Minute, conf.RateLimit.Window)
	assert.False(t, conf.Redis.Enabled)
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("STORAGE_MODE", "hybrid")
	t.Setenv("STREAK_TIMEZONE", "Europe/Rome")
	t.Setenv("CONSISTENCY_WINDOW", "7")
	t.Setenv("REDIS_ENABLED", "true")
	t.Setenv("CACHE_TTL", "5m")
	t.Setenv("DB_USER", "fit")
	t.Setenv("DB_PASSWORD", "pw")

	conf, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", conf.Server.Port)
	assert.Equal(t, StorageHybrid, conf.Storage.Mode)
	assert.Equal(t, "Europe/Rome", conf.Streaks.Timezone)
	assert.Equal(t, 7, conf.Streaks.ConsistencyWindow)
	assert.True(t, conf.Redis.Enabled)
	assert.Equal(t, 5*time.Minute, conf.Cache.TTL)
	assert.Equal(t, "postgres://fit:pw@localhost:5432/kanso_db?sslmode=disable", conf.Database.DSN())
}

func TestLoad_EnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("KANSO_TEST_ONLY=1\nLOG_LEVEL=debug\n"), 0o600))
	t.Cleanup(func() {
		os.Unsetenv("KANSO_TEST_ONLY")
		os.Unsetenv("LOG_LEVEL")
	})

	conf, err := Load(path, filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, "debug", conf.Log.Level)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"Unknown storage mode", map[string]string{"STORAGE_MODE": "cloud"}},
		{"Unknown timezone", map[string]string{"STREAK_TIMEZONE": "Mars/Olympus"}},
		{"Window too large", map[string]string{"CONSISTENCY_WINDOW": "400"}},
		{"Non numeric port", map[string]string{"PORT": "http"}},
		{"Bad log level", map[string]string{"LOG_LEVEL": "verbose"}},
		{"Local mode without path", map[string]string{"STORAGE_MODE": "local", "LOCAL_DB_PATH": " "}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
