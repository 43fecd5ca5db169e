package application

import (
	"context"

	"github.com/dexhound/dexhound/internal/cache"
	"github.com/dexhound/dexhound/internal/domain"
	"github.com/dexhound/dexhound/internal/metrics"
	"github.com/dexhound/dexhound/internal/scan"
	"github.com/dexhound/dexhound/internal/sources/dexscreener"
)

// Service is the consumer-facing read surface. Every host driver (HTTP
// handler, daemon tick, cron run, interactive scan) calls the same two
// operations, so the freshness cache and its coalescing discipline are
// shared process-wide.
type Service struct {
	cache    *cache.Freshness
	pipeline *scan.Pipeline
}

// NewService wires the pipeline and cache for a process.
func NewService(cfg *Config, reg *metrics.Registry) *Service {
	client := dexscreener.NewClient(cfg.Upstream, reg)
	pipeline := scan.NewPipeline(client, scan.Options{
		Queries:        cfg.Scan.Queries,
		Thresholds:     cfg.Scan.Thresholds,
		Signals:        cfg.Scan.Signals,
		RankPolicy:     cfg.Scan.RankPolicy,
		RecencyWindowH: cfg.Scan.RecencyWindowH,
		Timeout:        cfg.Scan.TimeoutDuration(),
	}, reg)
	return &Service{
		cache:    cache.NewFreshness(pipeline.Run, cfg.Cache.MarketTTL(), reg),
		pipeline: pipeline,
	}
}

// GetMarketData returns the ranked market view, from cache when fresh
// enough, forcing a refresh when asked.
func (s *Service) GetMarketData(ctx context.Context, force bool) (domain.RankedResult, domain.Source) {
	return s.cache.Get(ctx, force)
}

// GetTokenDetails returns the best-liquidity match for a free-text query,
// or nil when nothing matches.
func (s *Service) GetTokenDetails(ctx context.Context, query string) *domain.MarketEntry {
	return s.pipeline.BestMatch(ctx, query)
}

// Cache exposes the freshness cache for snapshot seeding at startup.
func (s *Service) Cache() *cache.Freshness {
	return s.cache
}
