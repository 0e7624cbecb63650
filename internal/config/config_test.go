package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 5*time.Second, cfg.DNS.Timeout)
	assert.Equal(t, "https://api.pwnedpasswords.com/range/", cfg.Breach.URL)
	assert.Equal(t, 50, cfg.Batch.MaxEmails)
	assert.Equal(t, 1, cfg.Scoring.MaxFailedChecks)
	assert.Empty(t, cfg.Database.URL)
}

func TestLoadYAMLOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  addr: ":9090"
batch:
  max_emails: 25
scoring:
  max_failed_checks: 2
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, 25, cfg.Batch.MaxEmails)
	assert.Equal(t, 2, cfg.Scoring.MaxFailedChecks)

	// Everything not set in the file keeps its default.
	assert.Equal(t, 5*time.Second, cfg.DNS.Timeout)
	assert.Equal(t, 5, cfg.Batch.Workers)
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load("/nonexistent/config.yaml")
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Server.Addr)
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [not a mapping"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "7070")
	t.Setenv("API_SECRET_KEY", "sekrit")
	t.Setenv("BREACH_API_URL", "http://localhost:9999/range/")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":7070", cfg.Server.Addr)
	assert.Equal(t, "sekrit", cfg.APIKey)
	assert.Equal(t, "http://localhost:9999/range/", cfg.Breach.URL)
}

func TestEnvPortMustBeNumeric(t *testing.T) {
	t.Setenv("PORT", "not-a-port")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Server.Addr)
}
