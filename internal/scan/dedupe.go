package scan

import (
	"sort"
	"strings"

	"github.com/dexhound/dexhound/internal/domain"
)

// anchorSymbols are the base/quote majors and stablecoins the engine never
// surfaces: its purpose is finding tokens trading against these, not the
// anchors themselves.
var anchorSymbols = map[string]struct{}{
	"BTC": {}, "WBTC": {}, "ETH": {}, "WETH": {}, "SOL": {}, "WSOL": {},
	"BNB": {}, "WBNB": {}, "USDT": {}, "USDC": {}, "DAI": {}, "BUSD": {},
	"TUSD": {}, "FDUSD": {}, "WMATIC": {}, "WAVAX": {},
}

// DedupeStats counts what the reduction dropped.
type DedupeStats struct {
	Malformed int
	NoImage   int
	Anchors   int
	Duplicate int
}

// Dedupe collapses listings sharing an uppercased base-token symbol down to
// the single highest-liquidity instance. The symbol (not the address) is the
// identity key on purpose: symbols collide across chains and forks, and only
// one global representative per symbol survives.
//
// Listings without a logo image are treated as probable spam and excluded
// before the seen-check so they never consume a symbol's slot. Listings
// missing identity fields are dropped and counted, never propagated.
func Dedupe(listings []domain.RawListing) ([]domain.Candidate, DedupeStats) {
	var stats DedupeStats

	// Highest liquidity first; missing liquidity sorts as 0. The stable sort
	// preserves upstream order among equals, which fixes the tie-break.
	sorted := make([]domain.RawListing, len(listings))
	copy(sorted, listings)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].LiquidityUsd > sorted[j].LiquidityUsd
	})

	seen := make(map[string]struct{}, len(sorted))
	out := make([]domain.Candidate, 0, len(sorted))
	for _, l := range sorted {
		if l.Malformed() {
			stats.Malformed++
			continue
		}
		symbol := strings.ToUpper(l.TokenSymbol)
		if _, anchor := anchorSymbols[symbol]; anchor {
			stats.Anchors++
			continue
		}
		if l.ImageURL == "" {
			stats.NoImage++
			continue
		}
		if _, dup := seen[symbol]; dup {
			stats.Duplicate++
			continue
		}
		seen[symbol] = struct{}{}
		out = append(out, domain.Candidate{RawListing: l})
	}
	return out, stats
}
