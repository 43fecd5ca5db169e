package scan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dexhound/dexhound/internal/domain"
)

func entry(symbol string, txns int, volume, ageHours float64) domain.MarketEntry {
	return domain.MarketEntry{
		Symbol:    symbol,
		Buys24h:   txns,
		Volume24h: volume,
		AgeHours:  ageHours,
	}
}

func TestRankCompositePolicy(t *testing.T) {
	in := []domain.MarketEntry{
		entry("LOW", 10, 5000, 100),     // score 101
		entry("HIGH", 1000, 500000, 50), // score 10100
		entry("MID", 100, 100000, 10),   // score 1020
	}

	out := Rank(in, PolicyComposite, 24)
	require.Len(t, out, 3)
	assert.Equal(t, []string{"HIGH", "MID", "LOW"}, symbols(out))
}

func TestRankCompositeStableForEqualScores(t *testing.T) {
	a := entry("A", 100, 50000, 1)
	b := entry("B", 100, 50000, 1)

	out := Rank([]domain.MarketEntry{a, b}, PolicyComposite, 24)
	assert.Equal(t, []string{"A", "B"}, symbols(out))
}

func TestRankRecencyPolicy(t *testing.T) {
	in := []domain.MarketEntry{
		entry("OLD_BIG", 0, 9_000_000, 200),
		entry("NEW_SMALL", 0, 1000, 2),
		entry("NEW_BIG", 0, 50000, 10),
		entry("OLD_SMALL", 0, 100, 500),
	}

	out := Rank(in, PolicyRecency, 24)
	// Anything inside the recency window beats everything outside it,
	// volume breaks ties within each bucket.
	assert.Equal(t, []string{"NEW_BIG", "NEW_SMALL", "OLD_BIG", "OLD_SMALL"}, symbols(out))
}

func TestRankDoesNotMutateInput(t *testing.T) {
	in := []domain.MarketEntry{
		entry("A", 1, 0, 1),
		entry("B", 100, 0, 1),
	}
	_ = Rank(in, PolicyComposite, 24)
	assert.Equal(t, "A", in[0].Symbol)
}

func symbols(entries []domain.MarketEntry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Symbol
	}
	return out
}
