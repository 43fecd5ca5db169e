package domain

import (
	"fmt"
	"strconv"
)

// Price display precision tiers. Consumers re-parse these strings, so the
// thresholds are a contract, not cosmetics.
const (
	priceExponentialBelow = 0.00001
	priceSixDecimalBelow  = 1.0
)

// FormatPrice renders a USD price with tiered precision: exponential below
// $0.00001, 6-decimal fixed below $1, 2-decimal fixed otherwise.
func FormatPrice(price float64) string {
	switch {
	case price > 0 && price < priceExponentialBelow:
		return "$" + strconv.FormatFloat(price, 'e', 2, 64)
	case price < priceSixDecimalBelow:
		return "$" + strconv.FormatFloat(price, 'f', 6, 64)
	default:
		return "$" + strconv.FormatFloat(price, 'f', 2, 64)
	}
}

// FormatCompact renders a USD amount with K/M/B magnitude suffixes.
func FormatCompact(v float64) string {
	switch {
	case v >= 1e9:
		return fmt.Sprintf("$%.2fB", v/1e9)
	case v >= 1e6:
		return fmt.Sprintf("$%.2fM", v/1e6)
	case v >= 1e3:
		return fmt.Sprintf("$%.2fK", v/1e3)
	default:
		return fmt.Sprintf("$%.2f", v)
	}
}

// chainTags maps upstream chain identifiers to canonical tags. Upstream ids
// are already lowercase slugs for most chains; only the aliases differ.
var chainTags = map[string]string{
	"ethereum":   "ethereum",
	"eth":        "ethereum",
	"bsc":        "bsc",
	"binance":    "bsc",
	"polygon":    "polygon",
	"matic":      "polygon",
	"arbitrum":   "arbitrum",
	"base":       "base",
	"solana":     "solana",
	"sol":        "solana",
	"avalanche":  "avalanche",
	"avax":       "avalanche",
	"optimism":   "optimism",
	"pulsechain": "pulsechain",
	"sui":        "sui",
	"ton":        "ton",
}

// CanonicalChain normalizes an upstream chain identifier to its canonical
// tag. Unknown chains pass through unchanged so new networks are not dropped
// by the formatter (filtering on allowed chains happens elsewhere).
func CanonicalChain(chainID string) string {
	if tag, ok := chainTags[chainID]; ok {
		return tag
	}
	return chainID
}
