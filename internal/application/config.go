package application

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dexhound/dexhound/internal/portfolio"
	"github.com/dexhound/dexhound/internal/scan"
	"github.com/dexhound/dexhound/internal/sources/dexscreener"
)

// Config is the root configuration loaded from config/config.yaml.
type Config struct {
	Scan      ScanConfig         `yaml:"scan"`
	Upstream  dexscreener.Config `yaml:"upstream"`
	Cache     CacheConfig        `yaml:"cache"`
	Server    ServerConfig       `yaml:"server"`
	Postgres  PostgresConfig     `yaml:"postgres"`
	Redis     RedisConfig        `yaml:"redis"`
	Portfolio portfolio.Config   `yaml:"portfolio"`
}

// ScanConfig drives the discovery pipeline: what to search for, which
// listings survive, and how the result is ordered.
type ScanConfig struct {
	Queries        []string          `yaml:"queries"`
	Thresholds     scan.Thresholds   `yaml:"thresholds"`
	Signals        scan.SignalConfig `yaml:"signals"`
	RankPolicy     scan.RankPolicy   `yaml:"rank_policy"`      // "composite" or "recency"
	RecencyWindowH float64           `yaml:"recency_window_h"` // recency policy bucket boundary
	IntervalSec    int               `yaml:"interval_sec"`     // daemon/serve poll interval
	TimeoutSec     int               `yaml:"timeout_sec"`      // aggregate fanout deadline
}

// CacheConfig configures the freshness cache TTLs.
type CacheConfig struct {
	MarketTTLSec    int `yaml:"market_ttl_sec"`
	PortfolioTTLSec int `yaml:"portfolio_ttl_sec"`
}

// ServerConfig configures the read-only HTTP API.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// PostgresConfig configures the upsert store. The PG_DSN environment
// variable overrides the file value so credentials stay out of the file.
type PostgresConfig struct {
	DSN        string `yaml:"dsn"`
	TimeoutSec int    `yaml:"timeout_sec"`
}

// RedisConfig configures the shared snapshot store.
type RedisConfig struct {
	Addr string `yaml:"addr"`
	DB   int    `yaml:"db"`
	Key  string `yaml:"key"`
}

// Load reads and parses the config file, then applies defaults for any
// omitted field so callers never branch on zero values.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	c.applyDefaults()
	if dsn := os.Getenv("PG_DSN"); dsn != "" {
		c.Postgres.DSN = dsn
	}
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		c.Redis.Addr = addr
	}
	return &c, nil
}

// Default returns the built-in configuration used when no file is given.
func Default() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

func (c *Config) applyDefaults() {
	if len(c.Scan.Queries) == 0 {
		c.Scan.Queries = []string{"SOL", "ETH", "trending", "meme", "ai"}
	}
	if c.Scan.Thresholds.MinLiquidityUsd == 0 {
		c.Scan.Thresholds.MinLiquidityUsd = 50000
	}
	if c.Scan.Thresholds.MinVolume24h == 0 {
		c.Scan.Thresholds.MinVolume24h = 100000
	}
	if c.Scan.Thresholds.MinTxns24h == 0 {
		c.Scan.Thresholds.MinTxns24h = 200
	}
	if c.Scan.Thresholds.MinFdv == 0 {
		c.Scan.Thresholds.MinFdv = 500000
	}
	if len(c.Scan.Thresholds.AllowedChains) == 0 {
		c.Scan.Thresholds.AllowedChains = []string{"ethereum", "solana", "bsc", "base", "arbitrum"}
	}
	s := &c.Scan.Signals
	if s.NewTokenMaxAgeH == 0 {
		s.NewTokenMaxAgeH = 24
	}
	if s.SpikeVolToLiq == 0 {
		s.SpikeVolToLiq = 3.0
	}
	if s.BreakoutChange1h == 0 {
		s.BreakoutChange1h = 10
	}
	if s.AccumulationRatio == 0 {
		s.AccumulationRatio = 0.65
	}
	if s.AccumulationVLFloor == 0 {
		s.AccumulationVLFloor = 0.5
	}
	if s.DumpChange24h == 0 {
		s.DumpChange24h = -20
	}
	if s.RiskHighBelowUsd == 0 {
		s.RiskHighBelowUsd = 50000
	}
	if s.RiskMediumBelowUsd == 0 {
		s.RiskMediumBelowUsd = 250000
	}
	if s.InflowAboveUsd == 0 {
		s.InflowAboveUsd = 100000
	}
	if s.OutflowBelowUsd == 0 {
		s.OutflowBelowUsd = -100000
	}
	if c.Scan.RankPolicy == "" {
		c.Scan.RankPolicy = scan.PolicyComposite
	}
	if c.Scan.RecencyWindowH == 0 {
		c.Scan.RecencyWindowH = 24
	}
	if c.Scan.IntervalSec == 0 {
		c.Scan.IntervalSec = 30
	}
	if c.Scan.TimeoutSec == 0 {
		c.Scan.TimeoutSec = 15
	}
	if c.Upstream.BaseURL == "" {
		c.Upstream.BaseURL = "https://api.dexscreener.com"
	}
	if c.Upstream.ProxyURL == "" {
		c.Upstream.ProxyURL = "https://api.allorigins.win/raw"
	}
	if c.Upstream.RequestTimeoutSec == 0 {
		c.Upstream.RequestTimeoutSec = 10
	}
	if c.Upstream.RatePerMinute == 0 {
		c.Upstream.RatePerMinute = 300
	}
	if c.Cache.MarketTTLSec == 0 {
		c.Cache.MarketTTLSec = 30
	}
	if c.Cache.PortfolioTTLSec == 0 {
		c.Cache.PortfolioTTLSec = 60
	}
	if c.Server.Host == "" {
		c.Server.Host = "127.0.0.1"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Postgres.TimeoutSec == 0 {
		c.Postgres.TimeoutSec = 5
	}
	if c.Redis.Key == "" {
		c.Redis.Key = "dexhound:snapshot"
	}
	if len(c.Portfolio.Providers) == 0 {
		c.Portfolio.Providers = map[string]string{
			"ethereum": "https://deep-index.moralis.io/api/v2.2",
			"solana":   "https://solana-gateway.moralis.io",
			"bsc":      "https://deep-index.moralis.io/api/v2.2",
		}
	}
	if c.Portfolio.ProxyURL == "" {
		c.Portfolio.ProxyURL = c.Upstream.ProxyURL
	}
	if c.Portfolio.RequestTimeoutSec == 0 {
		c.Portfolio.RequestTimeoutSec = c.Upstream.RequestTimeoutSec
	}
}

// IntervalDuration returns the poll interval as a duration.
func (c *ScanConfig) IntervalDuration() time.Duration {
	return time.Duration(c.IntervalSec) * time.Second
}

// TimeoutDuration returns the aggregate fanout deadline as a duration.
func (c *ScanConfig) TimeoutDuration() time.Duration {
	return time.Duration(c.TimeoutSec) * time.Second
}

// MarketTTL returns the market snapshot TTL as a duration.
func (c *CacheConfig) MarketTTL() time.Duration {
	return time.Duration(c.MarketTTLSec) * time.Second
}

// PortfolioTTL returns the portfolio snapshot TTL as a duration.
func (c *CacheConfig) PortfolioTTL() time.Duration {
	return time.Duration(c.PortfolioTTLSec) * time.Second
}
