package domain

import "time"

// RawListing is one upstream trading-pair record after defensive decoding.
// Every optional upstream field is defaulted (0, zero time, empty string) so
// downstream stages never touch pointers. Immutable once fetched; lifetime is
// a single pipeline run.
type RawListing struct {
	ChainID      string
	PairAddress  string
	TokenAddress string
	TokenSymbol  string
	TokenName    string

	PriceUsd     string // decimal string as reported upstream
	LiquidityUsd float64
	Fdv          float64
	Volume24h    float64

	Buys24h  int
	Sells24h int

	Change1h  float64
	Change6h  float64
	Change24h float64

	PairCreatedAt time.Time // zero when upstream omits it
	ImageURL      string
}

// Malformed reports whether the listing is missing identity fields required
// by every downstream stage. Malformed listings are dropped and counted
// during deduplication, never propagated.
func (l RawListing) Malformed() bool {
	return l.TokenSymbol == "" || l.TokenAddress == ""
}

// TotalTxns24h is the combined 24h buy+sell transaction count.
func (l RawListing) TotalTxns24h() int {
	return l.Buys24h + l.Sells24h
}

// Candidate is a RawListing that survived deduplication. Lifetime spans the
// dedupe and filter stages.
type Candidate struct {
	RawListing
}
