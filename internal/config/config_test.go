package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultValues(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 100, cfg.Scoring.BaseScore)
	assert.Equal(t, 95, cfg.Scoring.MaxScore)
	assert.Equal(t, 25, cfg.Scoring.NewTokenScore)
	assert.Equal(t, 7, cfg.Scoring.NewTokenMaxAgeDays)
	assert.Equal(t, 50, cfg.Scoring.Penalties.Honeypot)
	assert.Equal(t, 65, cfg.Scoring.LowConfidenceCap)

	assert.InDelta(t, 0.6, cfg.Confidence.ChecklistWeight, 1e-9)
	assert.InDelta(t, 0.4, cfg.Confidence.AvailabilityWeight, 1e-9)
	assert.Equal(t, 5, cfg.Confidence.HighMinChecks)

	assert.Equal(t, float64(50), cfg.Flags.HoneypotTaxPct)
	assert.Equal(t, float64(1000), cfg.Flags.MinLiquidityUSD)

	assert.Equal(t, 80, cfg.Risk.LowMinScore)
	assert.Equal(t, 60, cfg.Risk.MediumMinScore)
}

func TestLoadMissingPathUsesDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default().Scoring, cfg.Scoring)
}

func TestLoadOverlaysYaml(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
scoring:
  new_token_max_age_days: 14
server:
  listen: ":9999"
cache:
  ttl: 30s
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 14, cfg.Scoring.NewTokenMaxAgeDays)
	assert.Equal(t, ":9999", cfg.Server.Listen)
	assert.Equal(t, 30*time.Second, cfg.Cache.TTL.Std())
	// Untouched sections keep their defaults.
	assert.Equal(t, 95, cfg.Scoring.MaxScore)
	assert.Equal(t, Default().Providers.Scanner.BaseURL, cfg.Providers.Scanner.BaseURL)
}

func TestLoadBadYaml(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	require.NoError(t, os.WriteFile(path, []byte("scoring: ["), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("ETHERSCAN_API_KEY", "test-key")
	t.Setenv("REDIS_ADDR", "localhost:6380")
	t.Setenv("LISTEN_ADDR", ":7777")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "test-key", cfg.Providers.Explorer.APIKey)
	assert.Equal(t, "localhost:6380", cfg.Cache.RedisAddr)
	assert.Equal(t, ":7777", cfg.Server.Listen)
}
