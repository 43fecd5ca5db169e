package application

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dexhound/dexhound/internal/scan"
)

func TestDefaultConfig(t *testing.T) {
	cfg := Default()

	assert.NotEmpty(t, cfg.Scan.Queries)
	assert.Equal(t, scan.PolicyComposite, cfg.Scan.RankPolicy)
	assert.Equal(t, 50000.0, cfg.Scan.Thresholds.MinLiquidityUsd)
	assert.Equal(t, "https://api.dexscreener.com", cfg.Upstream.BaseURL)
	assert.Equal(t, 30, cfg.Cache.MarketTTLSec)
	assert.Equal(t, 60, cfg.Cache.PortfolioTTLSec)
	assert.NotEmpty(t, cfg.Portfolio.Providers)
}

func TestLoadOverridesAndFillsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
scan:
  queries: ["only-this"]
  rank_policy: recency
  thresholds:
    min_liquidity_usd: 123456
cache:
  market_ttl_sec: 45
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"only-this"}, cfg.Scan.Queries)
	assert.Equal(t, scan.PolicyRecency, cfg.Scan.RankPolicy)
	assert.Equal(t, 123456.0, cfg.Scan.Thresholds.MinLiquidityUsd)
	assert.Equal(t, 45, cfg.Cache.MarketTTLSec)

	// Untouched fields fall back to defaults.
	assert.Equal(t, 100000.0, cfg.Scan.Thresholds.MinVolume24h)
	assert.Equal(t, 60, cfg.Cache.PortfolioTTLSec)
	assert.Equal(t, "https://api.dexscreener.com", cfg.Upstream.BaseURL)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load("/does/not/exist.yaml")
	assert.Error(t, err)
}

func TestLoadMalformedYaml(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("scan: ["), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}
