package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds all Prometheus metrics for the discovery engine.
type Registry struct {
	ScansTotal          *prometheus.CounterVec // by result: fresh|cached|empty
	ScanDuration        prometheus.Histogram
	FetchAttempts       *prometheus.CounterVec // by strategy and result
	ListingsSeen        prometheus.Counter
	Malformed           prometheus.Counter
	CacheHits           prometheus.Counter
	CacheMisses         prometheus.Counter
	Coalesced           prometheus.Counter
	RowsUpserted        prometheus.Counter
	SyntheticPortfolios prometheus.Counter

	registry *prometheus.Registry
}

// New creates a registry with all engine metrics registered on a private
// Prometheus registry so tests can construct as many as they need.
func New() *Registry {
	r := &Registry{
		ScansTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dexhound_scans_total",
				Help: "Pipeline runs by outcome",
			},
			[]string{"result"},
		),
		ScanDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "dexhound_scan_duration_seconds",
				Help:    "Full pipeline run latency in seconds",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 20.0},
			},
		),
		FetchAttempts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dexhound_fetch_attempts_total",
				Help: "Upstream fetch attempts by strategy and result",
			},
			[]string{"strategy", "result"},
		),
		ListingsSeen: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dexhound_listings_seen_total",
			Help: "Raw listings returned by the fanout before reduction",
		}),
		Malformed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dexhound_malformed_listings_total",
			Help: "Listings dropped for missing identity fields",
		}),
		CacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dexhound_cache_hits_total",
			Help: "Freshness cache hits",
		}),
		CacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dexhound_cache_misses_total",
			Help: "Freshness cache misses",
		}),
		Coalesced: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dexhound_coalesced_waiters_total",
			Help: "Callers that shared another caller's in-flight refresh",
		}),
		RowsUpserted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dexhound_rows_upserted_total",
			Help: "Market entry rows written to the persistent store",
		}),
		SyntheticPortfolios: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dexhound_synthetic_portfolios_total",
			Help: "Portfolio fetches served by the synthetic fallback",
		}),
		registry: prometheus.NewRegistry(),
	}

	r.registry.MustRegister(
		r.ScansTotal, r.ScanDuration, r.FetchAttempts,
		r.ListingsSeen, r.Malformed,
		r.CacheHits, r.CacheMisses, r.Coalesced,
		r.RowsUpserted, r.SyntheticPortfolios,
	)
	return r
}

// Handler exposes the registry for /metrics scraping.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
