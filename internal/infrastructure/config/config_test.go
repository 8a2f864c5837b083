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
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "shiv-odoo", cfg.App.Name)
	assert.Equal(t, 8080, cfg.App.Port)
	assert.Equal(t, "INR", cfg.Gateway.Currency)
	assert.False(t, cfg.Settlement.ProRataAllocation)
	assert.Equal(t, 24*time.Hour, cfg.Settlement.IdempotencyTTL)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr())
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := []byte(`
app:
  port: 9090
database:
  host: db.internal
  dbname: ledger
settlement:
  pro_rata_allocation: true
`)
	require.NoError(t, os.WriteFile(path, content, 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.App.Port)
	assert.Contains(t, cfg.Database.DSN(), "host=db.internal")
	assert.Contains(t, cfg.Database.DSN(), "dbname=ledger")
	assert.True(t, cfg.Settlement.ProRataAllocation)
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("SHIV_DATABASE_HOST", "env-host")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "env-host", cfg.Database.Host)
}
