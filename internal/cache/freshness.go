package cache

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"

	"github.com/dexhound/dexhound/internal/domain"
	"github.com/dexhound/dexhound/internal/metrics"
	"github.com/dexhound/dexhound/internal/scan"
)

// PipelineFunc produces one ranked result. scan.Pipeline.Run satisfies it;
// tests substitute counting stubs.
type PipelineFunc func(ctx context.Context) (domain.RankedResult, error)

// Freshness holds the last successful ranked result with a TTL and shares a
// single in-flight refresh among concurrent cache-miss callers. It is the
// only shared mutable state in the engine; every host driver goes through
// it, so N simultaneous callers on an expired entry trigger exactly one
// upstream scan.
type Freshness struct {
	run PipelineFunc
	ttl time.Duration

	mu      sync.RWMutex
	result  domain.RankedResult
	expires time.Time

	group   singleflight.Group
	metrics *metrics.Registry
	logger  zerolog.Logger
}

// NewFreshness builds a cache around a pipeline function.
func NewFreshness(run PipelineFunc, ttl time.Duration, reg *metrics.Registry) *Freshness {
	return &Freshness{
		run:     run,
		ttl:     ttl,
		metrics: reg,
		logger:  log.With().Str("component", "freshness_cache").Logger(),
	}
}

// Get returns the current ranked result. A non-expired entry is served
// as-is unless force is set; otherwise the pipeline runs once, shared among
// all concurrent callers, and the entry is replaced atomically. A pipeline
// run that finds no data degrades to an empty result tagged Cached with
// zero latency; the error never propagates.
func (f *Freshness) Get(ctx context.Context, force bool) (domain.RankedResult, domain.Source) {
	if !force {
		if res, ok := f.current(); ok {
			f.metrics.CacheHits.Inc()
			res.Latency = 0
			return res, domain.SourceCached
		}
	}
	f.metrics.CacheMisses.Inc()

	type refreshed struct {
		res domain.RankedResult
		src domain.Source
	}
	v, _, shared := f.group.Do("market", func() (interface{}, error) {
		// Another caller may have refreshed while this one queued.
		if !force {
			if res, ok := f.current(); ok {
				res.Latency = 0
				return refreshed{res, domain.SourceCached}, nil
			}
		}

		res, err := f.run(ctx)
		if err != nil {
			if !errors.Is(err, scan.ErrNoData) {
				f.logger.Error().Err(err).Msg("pipeline run failed")
			}
			// Explicit empty result; the previous entry stays in place for
			// later non-forced reads if it has not expired.
			return refreshed{domain.RankedResult{Timestamp: time.Now()}, domain.SourceCached}, nil
		}

		f.mu.Lock()
		f.result = res
		f.expires = time.Now().Add(f.ttl)
		f.mu.Unlock()

		return refreshed{res, domain.SourceFresh}, nil
	})
	if shared {
		f.metrics.Coalesced.Inc()
	}

	r := v.(refreshed)
	return r.res, r.src
}

// Current returns the cached result without triggering a refresh, expired
// or not. Used by status surfaces.
func (f *Freshness) Current() domain.RankedResult {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.result
}

// Seed installs a result fetched elsewhere (the shared snapshot store) so a
// freshly started host can serve cached data before its first scan.
func (f *Freshness) Seed(res domain.RankedResult, ttl time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if res.Timestamp.After(f.result.Timestamp) {
		f.result = res
		f.expires = time.Now().Add(ttl)
	}
}

func (f *Freshness) current() (domain.RankedResult, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.result.RunID == "" || time.Now().After(f.expires) {
		return domain.RankedResult{}, false
	}
	return f.result, true
}
