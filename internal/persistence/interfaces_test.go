package persistence

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dexhound/dexhound/internal/domain"
)

func TestRowRoundTrip(t *testing.T) {
	entry := domain.MarketEntry{
		TokenAddress:     "addr1",
		Symbol:           "AAA",
		Chain:            "solana",
		LiquidityUsd:     90000,
		Volume24h:        250000,
		DexFlow:          73,
		EstimatedNetFlow: 12500,
		Signal:           domain.SignalAccumulation,
		RiskLevel:        domain.RiskMedium,
		Trend:            domain.TrendBullish,
		SmartMoney:       domain.SmartMoneyNeutral,
		AgeBucket:        domain.AgeRecent,
		PriceDisplay:     "$0.420000",
	}

	seen := time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC)
	row, err := RowFromEntry(entry, seen)
	require.NoError(t, err)
	assert.Equal(t, "addr1", row.TokenAddress)
	assert.Equal(t, "AAA", row.Symbol)
	assert.Equal(t, string(domain.SignalAccumulation), row.Signal)
	assert.Equal(t, seen, row.LastSeen)

	// The embedded payload replays the full enriched record.
	back, err := row.Entry()
	require.NoError(t, err)
	assert.Equal(t, entry, back)
}
