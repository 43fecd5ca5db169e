package domain

import "time"

// Signal is the derived trading signal for an entry. Exactly one signal is
// assigned per entry; classification priority lives in the signal engine.
type Signal string

const (
	SignalVolumeSpike  Signal = "VOLUME_SPIKE"
	SignalBreakout     Signal = "BREAKOUT"
	SignalAccumulation Signal = "ACCUMULATION"
	SignalDump         Signal = "DUMP"
	SignalNone         Signal = "NONE"
)

// RiskLevel is tiered by pool liquidity.
type RiskLevel string

const (
	RiskHigh   RiskLevel = "HIGH"
	RiskMedium RiskLevel = "MEDIUM"
	RiskLow    RiskLevel = "LOW"
)

// Trend is the 24h price direction. Total over all inputs: a flat 24h change
// counts as bullish.
type Trend string

const (
	TrendBullish Trend = "BULLISH"
	TrendBearish Trend = "BEARISH"
)

// SmartMoney classifies the estimated net flow direction.
type SmartMoney string

const (
	SmartMoneyInflow  SmartMoney = "INFLOW"
	SmartMoneyOutflow SmartMoney = "OUTFLOW"
	SmartMoneyNeutral SmartMoney = "NEUTRAL"
)

// AgeBucket groups pairs by time since pool creation.
type AgeBucket string

const (
	AgeNew         AgeBucket = "NEW"      // under 24h
	AgeRecent      AgeBucket = "RECENT"   // under 7d
	AgeEstablished AgeBucket = "ESTABLISHED"
)

// MarketEntry is the externally visible enriched record. Display strings are
// part of the contract: downstream consumers re-parse them, so their
// precision is locked by tests.
type MarketEntry struct {
	Chain        string `json:"chain"` // canonical chain tag
	ChainID      string `json:"chain_id"`
	TokenAddress string `json:"token_address"`
	Symbol       string `json:"symbol"`
	Name         string `json:"name"`
	PairAddress  string `json:"pair_address"`
	ImageURL     string `json:"image_url,omitempty"`

	PriceUsd     float64 `json:"price_usd"`
	LiquidityUsd float64 `json:"liquidity_usd"`
	Fdv          float64 `json:"fdv"`
	Volume24h    float64 `json:"volume_24h"`
	Buys24h      int     `json:"buys_24h"`
	Sells24h     int     `json:"sells_24h"`
	Change1h     float64 `json:"change_1h"`
	Change24h    float64 `json:"change_24h"`

	PriceDisplay     string `json:"price_display"`
	FdvDisplay       string `json:"fdv_display"`
	LiquidityDisplay string `json:"liquidity_display"`
	VolumeDisplay    string `json:"volume_display"`

	DexFlow          int        `json:"dex_flow"` // always in [0,100]
	EstimatedNetFlow float64    `json:"estimated_net_flow"`
	Signal           Signal     `json:"signal"`
	RiskLevel        RiskLevel  `json:"risk_level"`
	Trend            Trend      `json:"trend"`
	SmartMoney       SmartMoney `json:"smart_money"`
	AgeHours         float64    `json:"age_hours"`
	AgeBucket        AgeBucket  `json:"age_bucket"`
}

// TotalTxns24h is the combined 24h transaction count.
func (e MarketEntry) TotalTxns24h() int {
	return e.Buys24h + e.Sells24h
}

// Source tags where a RankedResult came from.
type Source string

const (
	SourceFresh  Source = "fresh"
	SourceCached Source = "cached"
)

// RankedResult is one ordered pipeline output plus provenance. Owned by the
// freshness cache until superseded or expired.
type RankedResult struct {
	RunID     string        `json:"run_id"`
	Entries   []MarketEntry `json:"entries"`
	Latency   time.Duration `json:"latency_ms"`
	Timestamp time.Time     `json:"timestamp"`
}

// Empty reports whether the result carries no entries.
func (r RankedResult) Empty() bool {
	return len(r.Entries) == 0
}
