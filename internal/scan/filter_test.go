package scan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dexhound/dexhound/internal/domain"
)

func testThresholds() Thresholds {
	return Thresholds{
		MinLiquidityUsd: 50000,
		MinVolume24h:    100000,
		MinTxns24h:      200,
		MinFdv:          500000,
		AllowedChains:   []string{"solana", "ethereum"},
	}
}

func candidate(mutate func(*domain.RawListing)) domain.Candidate {
	l := domain.RawListing{
		ChainID:      "solana",
		TokenAddress: "addr",
		TokenSymbol:  "TKN",
		LiquidityUsd: 90000,
		Volume24h:    250000,
		Buys24h:      300,
		Sells24h:     200,
		Fdv:          2000000,
		ImageURL:     "https://img.example/t.png",
	}
	if mutate != nil {
		mutate(&l)
	}
	return domain.Candidate{RawListing: l}
}

func TestFilterPassesQualifyingCandidate(t *testing.T) {
	out := Filter([]domain.Candidate{candidate(nil)}, testThresholds())
	require.Len(t, out, 1)
}

func TestFilterDropsEachThresholdIndependently(t *testing.T) {
	cases := map[string]func(*domain.RawListing){
		"liquidity": func(l *domain.RawListing) { l.LiquidityUsd = 49999 },
		"volume":    func(l *domain.RawListing) { l.Volume24h = 99999 },
		"txns":      func(l *domain.RawListing) { l.Buys24h, l.Sells24h = 100, 99 },
		"fdv":       func(l *domain.RawListing) { l.Fdv = 499999 },
		"chain":     func(l *domain.RawListing) { l.ChainID = "pulsechain" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			out := Filter([]domain.Candidate{candidate(mutate)}, testThresholds())
			assert.Empty(t, out)
		})
	}
}

func TestFilterMissingFdvComparesAsZero(t *testing.T) {
	out := Filter([]domain.Candidate{candidate(func(l *domain.RawListing) { l.Fdv = 0 })}, testThresholds())
	assert.Empty(t, out)
}

func TestFilterCrashGuard(t *testing.T) {
	cfg := testThresholds()
	cfg.CrashGuard = true

	collapsing := candidate(func(l *domain.RawListing) {
		l.Buys24h, l.Sells24h = 50, 450 // buy share 0.1
		l.Change24h = -35
	})
	volatile := candidate(func(l *domain.RawListing) {
		l.Buys24h, l.Sells24h = 50, 450
		l.Change24h = -5 // red but not collapsing
	})

	assert.Empty(t, Filter([]domain.Candidate{collapsing}, cfg))
	assert.Len(t, Filter([]domain.Candidate{volatile}, cfg), 1)

	cfg.CrashGuard = false
	assert.Len(t, Filter([]domain.Candidate{collapsing}, cfg), 1)
}

func TestFilterIsIdempotent(t *testing.T) {
	cfg := testThresholds()
	in := []domain.Candidate{
		candidate(nil),
		candidate(func(l *domain.RawListing) { l.LiquidityUsd = 10 }),
		candidate(func(l *domain.RawListing) { l.ChainID = "ton" }),
	}

	once := Filter(in, cfg)
	twice := Filter(once, cfg)
	assert.Equal(t, once, twice)
}

func TestFilterSurvivorsSatisfyAllThresholds(t *testing.T) {
	cfg := testThresholds()
	in := []domain.Candidate{
		candidate(nil),
		candidate(func(l *domain.RawListing) { l.LiquidityUsd = 50000 }), // boundary passes
		candidate(func(l *domain.RawListing) { l.Volume24h = 0 }),
	}

	for _, c := range Filter(in, cfg) {
		assert.GreaterOrEqual(t, c.LiquidityUsd, cfg.MinLiquidityUsd)
		assert.GreaterOrEqual(t, c.Volume24h, cfg.MinVolume24h)
		assert.GreaterOrEqual(t, c.TotalTxns24h(), cfg.MinTxns24h)
		assert.GreaterOrEqual(t, c.Fdv, cfg.MinFdv)
	}
}
