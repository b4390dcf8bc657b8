package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
app:
  env: dev
`))
	require.NoError(t, err)

	assert.Equal(t, ":9981", cfg.App.HTTPAddr)
	assert.Equal(t, "data/db/journal.db", cfg.Store.Path)
	assert.Equal(t, float64(10000), cfg.Account.InitialBalance)
	assert.Equal(t, "mt5_", cfg.Webhook.KeyPrefix)
	assert.Equal(t, 900, cfg.Calendar.CacheTTLSeconds)
	assert.Equal(t, "configs/symbols.yaml", cfg.Symbols.Path)
}

func TestLoadKeepsExplicitValues(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
app:
  http_addr: ":8080"
account:
  initial_balance: 25000
goals:
  daily: 150
calendar:
  cache_ttl_seconds: 60
`))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.App.HTTPAddr)
	assert.Equal(t, float64(25000), cfg.Account.InitialBalance)
	assert.Equal(t, float64(150), cfg.Goals.Daily)
	assert.Equal(t, 60, cfg.Calendar.CacheTTLSeconds)
}

func TestLoadExplicitZeroSurvivesDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
account:
  initial_balance: 0
`))
	require.NoError(t, err)
	assert.Equal(t, float64(0), cfg.Account.InitialBalance)
}

func TestLoadRejectsNegativeBalance(t *testing.T) {
	_, err := Load(writeConfig(t, `
account:
  initial_balance: -500
`))
	assert.Error(t, err)
}

func TestLoadRejectsBadCalendarURL(t *testing.T) {
	_, err := Load(writeConfig(t, `
calendar:
  upstream_url: "://not a url"
`))
	assert.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
