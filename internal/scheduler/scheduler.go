package scheduler

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/dexhound/dexhound/internal/domain"
	"github.com/dexhound/dexhound/internal/metrics"
	"github.com/dexhound/dexhound/internal/persistence"
)

// MarketGetter is the slice of the application service the scheduler needs.
type MarketGetter interface {
	GetMarketData(ctx context.Context, force bool) (domain.RankedResult, domain.Source)
}

// Scheduler periodically drives the shared pipeline and persists its
// output. The daemon host runs Run; the serverless cron host calls RunOnce
// and exits. Both go through the same freshness cache as the interactive
// callers, so concurrent hosts cannot trigger duplicate scans.
type Scheduler struct {
	market    MarketGetter
	store     persistence.EntryStore    // optional
	snapshots persistence.SnapshotStore // optional
	interval  time.Duration
	ttl       time.Duration // snapshot TTL
	metrics   *metrics.Registry
	logger    zerolog.Logger
}

// New builds a scheduler. store and snapshots may be nil when a host has no
// write side configured.
func New(market MarketGetter, store persistence.EntryStore, snapshots persistence.SnapshotStore, interval, snapshotTTL time.Duration, reg *metrics.Registry) *Scheduler {
	return &Scheduler{
		market:    market,
		store:     store,
		snapshots: snapshots,
		interval:  interval,
		ttl:       snapshotTTL,
		metrics:   reg,
		logger:    log.With().Str("component", "scheduler").Logger(),
	}
}

// Run ticks until ctx is cancelled. The first tick fires immediately so a
// fresh host does not wait a full interval before its first scan.
func (s *Scheduler) Run(ctx context.Context) {
	s.logger.Info().Dur("interval", s.interval).Msg("scheduler started")
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.RunOnce(ctx)
	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("scheduler stopped")
			return
		case <-ticker.C:
			s.RunOnce(ctx)
		}
	}
}

// RunOnce performs one tick: refresh through the cache, then persist the
// result. Persistence failures are logged, never fatal.
func (s *Scheduler) RunOnce(ctx context.Context) {
	res, src := s.market.GetMarketData(ctx, false)
	if res.Empty() {
		s.logger.Warn().Str("source", string(src)).Msg("tick produced no entries, nothing persisted")
		return
	}
	if src == domain.SourceCached {
		// Already persisted by whichever run produced it.
		return
	}

	now := time.Now().UTC()
	if s.store != nil {
		rows := make([]persistence.EntryRow, 0, len(res.Entries))
		for _, e := range res.Entries {
			row, err := persistence.RowFromEntry(e, now)
			if err != nil {
				s.logger.Error().Err(err).Str("token", e.Symbol).Msg("failed to build row")
				continue
			}
			rows = append(rows, row)
		}
		if err := s.store.UpsertBatch(ctx, rows); err != nil {
			s.logger.Error().Err(err).Msg("failed to upsert entries")
		} else {
			s.metrics.RowsUpserted.Add(float64(len(rows)))
		}
	}

	if s.snapshots != nil {
		if err := s.snapshots.Save(ctx, res, s.ttl); err != nil {
			s.logger.Error().Err(err).Msg("failed to save snapshot")
		}
	}

	s.logger.Info().Str("run_id", res.RunID).Int("entries", len(res.Entries)).
		Dur("latency", res.Latency).Msg("tick persisted")
}
