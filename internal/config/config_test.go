package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	c, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "dev", c.App.Env)
	assert.True(t, c.IsDev())
	assert.Equal(t, "3000", c.HTTP.Port)
	assert.Equal(t, 100, c.Database.MaxOpenConns)
	assert.Equal(t, 24*time.Hour, c.JWT.TTL)
	assert.True(t, c.Metrics.Enabled)
	assert.Equal(t, "admin", c.Admin.Username)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("PORT", "8080")
	t.Setenv("DATABASE_URL", "postgres://u:p@localhost:5432/slabs")
	t.Setenv("JWT_TTL", "2h")
	t.Setenv("METRICS_ENABLED", "false")
	t.Setenv("ADMIN_PASSWORD", "changeme")

	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "8080", c.HTTP.Port)
	assert.Equal(t, "postgres://u:p@localhost:5432/slabs", c.Database.URL)
	assert.Equal(t, 2*time.Hour, c.JWT.TTL)
	assert.False(t, c.Metrics.Enabled)
	assert.Equal(t, "changeme", c.Admin.Password)
}

func TestLoadFile(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("app:\n  env: prod\nhttp:\n  port: \"9000\"\n"), 0o600))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "prod", c.App.Env)
	assert.False(t, c.IsDev())
	assert.Equal(t, "9000", c.HTTP.Port)
}
