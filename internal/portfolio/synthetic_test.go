package portfolio

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSyntheticIsDeterministic(t *testing.T) {
	now := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)
	a := Synthetic("ethereum", "0xabc", now)
	b := Synthetic("ethereum", "0xabc", now)
	assert.Equal(t, a, b, "same wallet must always generate the same portfolio")
}

func TestSyntheticVariesByWallet(t *testing.T) {
	now := time.Now()
	a := Synthetic("ethereum", "0xabc", now)
	b := Synthetic("ethereum", "0xdef", now)
	c := Synthetic("solana", "0xabc", now)

	assert.NotEqual(t, a.Holdings, b.Holdings)
	assert.NotEqual(t, a.Holdings, c.Holdings)
}

func TestSyntheticShape(t *testing.T) {
	s := Synthetic("bsc", "0x123", time.Now())
	assert.True(t, s.IsSimulated)
	require.NotEmpty(t, s.Holdings)
	assert.GreaterOrEqual(t, len(s.Holdings), 2)
	assert.LessOrEqual(t, len(s.Holdings), 4)
	assert.Greater(t, s.NativeBalance, 0.0)
	assert.Greater(t, s.TxCount, 0)
	assert.False(t, s.Empty())

	total := 0.0
	for _, h := range s.Holdings {
		assert.Greater(t, h.Amount, 0.0)
		total += h.UsdValue
	}
	assert.InDelta(t, total, s.TotalUsd, 1e-9)
}
