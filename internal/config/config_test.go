package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, []string{"binance", "okx"}, cfg.Data.Exchanges)
	assert.Equal(t, 364, cfg.Data.Days)
	assert.Equal(t, 75.0, cfg.Analysis.SurgePercent)
	assert.Equal(t, 50.0, cfg.Analysis.SelloffPercent)
	assert.Equal(t, 5, cfg.Analysis.WindowDays)
	assert.Equal(t, 5.0, cfg.Simulation.StepPercent)
	assert.Equal(t, 10000, cfg.Simulation.MaxSteps)
}

func TestLoad_FileAndEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
data:
  exchanges: [binance]
  days: 90
analysis:
  surge_percent: 50
`), 0644))

	t.Setenv("SURGESCOPE_DAYS", "120")
	t.Setenv("SQLITE_PATH", "/tmp/override.db")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"binance"}, cfg.Data.Exchanges)
	assert.Equal(t, 120, cfg.Data.Days, "env overrides file")
	assert.Equal(t, 50.0, cfg.Analysis.SurgePercent)
	assert.Equal(t, "/tmp/override.db", cfg.Database.SQLitePath)
}

func TestLoad_DaysCapped(t *testing.T) {
	t.Setenv("SURGESCOPE_DAYS", "5000")
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 364, cfg.Data.Days)
}

func TestValidate_Rejects(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	cfg.Analysis.SelloffPercent = 120
	assert.Error(t, cfg.Validate())

	cfg.Analysis.SelloffPercent = 50
	cfg.Analysis.WindowDays = 0
	assert.Error(t, cfg.Validate())
}

func TestValidateWatch_RequiresTelegram(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Error(t, cfg.ValidateWatch())

	cfg.Telegram.BotToken = "token"
	cfg.Telegram.ChatID = "chat"
	assert.NoError(t, cfg.ValidateWatch())
}
