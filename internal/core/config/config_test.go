package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeYAML(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	return p
}

func TestLoadAppliesDefaults(t *testing.T) {
	p := writeYAML(t, "jwt:\n  secret: abc\n")
	c, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, "talentdesk", c.App.Name)
	assert.Equal(t, 8080, c.App.HTTP.Port)
	assert.Equal(t, BackendGorm, c.Store.Backend)
	assert.Equal(t, "sqlite", c.DB.Driver)
	assert.Equal(t, 30, c.Redis.CandidateTTLSec)
	assert.Equal(t, int64(16), c.Limits.MaxBodyMB)
}

func TestLoadEnvOverride(t *testing.T) {
	p := writeYAML(t, "jwt:\n  secret: abc\nstore:\n  backend: gorm\n")
	t.Setenv("APP_STORE_BACKEND", "json")
	t.Setenv("APP_APP_HTTP_PORT", "9090")
	c, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, BackendJSON, c.Store.Backend)
	assert.Equal(t, 9090, c.App.HTTP.Port)
}

func TestLoadRejectsBadConfig(t *testing.T) {
	_, err := Load(writeYAML(t, "store:\n  backend: gorm\n"))
	assert.ErrorContains(t, err, "jwt.secret")

	_, err = Load(writeYAML(t, "jwt:\n  secret: abc\nstore:\n  backend: mongo\n"))
	assert.ErrorContains(t, err, "store.backend")

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
