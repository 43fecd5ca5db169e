package scan

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/dexhound/dexhound/internal/domain"
	"github.com/dexhound/dexhound/internal/metrics"
)

// ErrNoData is surfaced when every query in a scan came back empty. Callers
// fall back to the previous cached result; nothing upstream of this error is
// fatal.
var ErrNoData = errors.New("no data available from any query")

// Options configures a Pipeline.
type Options struct {
	Queries        []string
	Thresholds     Thresholds
	Signals        SignalConfig
	RankPolicy     RankPolicy
	RecencyWindowH float64
	Timeout        time.Duration // aggregate fanout deadline
}

// Pipeline is the consolidated discovery pipeline: fan out the configured
// queries, join, then reduce single-threaded (dedupe, filter, enrich, rank).
// One Pipeline is shared by every host driver.
type Pipeline struct {
	fetcher Fetcher
	opts    Options
	metrics *metrics.Registry
	logger  zerolog.Logger
	now     func() time.Time
}

// NewPipeline builds a pipeline around a fetcher.
func NewPipeline(f Fetcher, opts Options, reg *metrics.Registry) *Pipeline {
	return &Pipeline{
		fetcher: f,
		opts:    opts,
		metrics: reg,
		logger:  log.With().Str("component", "pipeline").Logger(),
		now:     time.Now,
	}
}

// Run executes one full scan and returns the ranked result. Returns
// ErrNoData when the fanout yields zero listings.
func (p *Pipeline) Run(ctx context.Context) (domain.RankedResult, error) {
	start := p.now()
	runID := uuid.NewString()

	if p.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.opts.Timeout)
		defer cancel()
	}

	listings := Fanout(ctx, p.fetcher, p.opts.Queries)
	p.metrics.ListingsSeen.Add(float64(len(listings)))
	if len(listings) == 0 {
		p.metrics.ScansTotal.WithLabelValues("empty").Inc()
		p.logger.Warn().Str("run_id", runID).Int("queries", len(p.opts.Queries)).
			Msg("scan produced no listings")
		return domain.RankedResult{}, ErrNoData
	}

	candidates, stats := Dedupe(listings)
	p.metrics.Malformed.Add(float64(stats.Malformed))

	survivors := Filter(candidates, p.opts.Thresholds)

	now := p.now()
	entries := make([]domain.MarketEntry, 0, len(survivors))
	for _, c := range survivors {
		entries = append(entries, Enrich(c, now, p.opts.Signals))
	}

	ranked := Rank(entries, p.opts.RankPolicy, p.opts.RecencyWindowH)

	latency := p.now().Sub(start)
	p.metrics.ScanDuration.Observe(latency.Seconds())
	p.metrics.ScansTotal.WithLabelValues("fresh").Inc()
	p.logger.Info().
		Str("run_id", runID).
		Int("fetched", len(listings)).
		Int("deduped", len(candidates)).
		Int("filtered", len(survivors)).
		Int("malformed", stats.Malformed).
		Dur("latency", latency).
		Msg("scan complete")

	return domain.RankedResult{
		RunID:     runID,
		Entries:   ranked,
		Latency:   latency,
		Timestamp: now,
	}, nil
}

// BestMatch runs one query through the fetcher and returns the
// highest-liquidity enriched match, or nil when nothing qualifies. Used by
// the token-details lookup; it reuses the same transport resilience as the
// scan path.
func (p *Pipeline) BestMatch(ctx context.Context, query string) *domain.MarketEntry {
	listings := p.fetcher.Search(ctx, query)
	if len(listings) == 0 {
		return nil
	}
	best := listings[0]
	for _, l := range listings[1:] {
		if l.LiquidityUsd > best.LiquidityUsd {
			best = l
		}
	}
	if best.Malformed() {
		return nil
	}
	entry := Enrich(domain.Candidate{RawListing: best}, p.now(), p.opts.Signals)
	return &entry
}
