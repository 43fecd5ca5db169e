package scan

import (
	"math"
	"strconv"
	"time"

	"github.com/dexhound/dexhound/internal/domain"
)

// unknownAgeHours is the sentinel used when the pair-creation time is
// missing. It is far above any plausible new-token window, so unknown-age
// pairs can never classify as new.
const unknownAgeHours = 1e6

// SignalConfig holds the signal engine breakpoints.
type SignalConfig struct {
	NewTokenMaxAgeH     float64 `yaml:"new_token_max_age_h"`
	SpikeVolToLiq       float64 `yaml:"spike_vol_to_liq"`
	BreakoutChange1h    float64 `yaml:"breakout_change_1h"`
	AccumulationRatio   float64 `yaml:"accumulation_ratio"`
	AccumulationVLFloor float64 `yaml:"accumulation_vl_floor"`
	DumpChange24h       float64 `yaml:"dump_change_24h"`
	RiskHighBelowUsd    float64 `yaml:"risk_high_below_usd"`
	RiskMediumBelowUsd  float64 `yaml:"risk_medium_below_usd"`
	InflowAboveUsd      float64 `yaml:"inflow_above_usd"`
	OutflowBelowUsd     float64 `yaml:"outflow_below_usd"`
}

// Enrich derives the flow, risk, trend and signal fields for one candidate.
// Pure function: same candidate, clock and config always produce the same
// entry.
func Enrich(c domain.Candidate, now time.Time, cfg SignalConfig) domain.MarketEntry {
	flowRatio := 0.5 // exact neutral midpoint when no transactions exist
	if total := c.TotalTxns24h(); total > 0 {
		flowRatio = float64(c.Buys24h) / float64(total)
	}

	// Linear net-flow estimator: at flowRatio 1 the whole day's volume is
	// attributed as inflow, at 0.5 it is exactly zero. Signed and symmetric.
	netFlow := c.Volume24h * (flowRatio - 0.5)

	ageHours := unknownAgeHours
	if !c.PairCreatedAt.IsZero() {
		ageHours = now.Sub(c.PairCreatedAt).Hours()
	}

	volToLiq := c.Volume24h / math.Max(c.LiquidityUsd, 1)

	price, _ := strconv.ParseFloat(c.PriceUsd, 64)

	return domain.MarketEntry{
		Chain:        domain.CanonicalChain(c.ChainID),
		ChainID:      c.ChainID,
		TokenAddress: c.TokenAddress,
		Symbol:       c.TokenSymbol,
		Name:         c.TokenName,
		PairAddress:  c.PairAddress,
		ImageURL:     c.ImageURL,

		PriceUsd:     price,
		LiquidityUsd: c.LiquidityUsd,
		Fdv:          c.Fdv,
		Volume24h:    c.Volume24h,
		Buys24h:      c.Buys24h,
		Sells24h:     c.Sells24h,
		Change1h:     c.Change1h,
		Change24h:    c.Change24h,

		PriceDisplay:     domain.FormatPrice(price),
		FdvDisplay:       domain.FormatCompact(c.Fdv),
		LiquidityDisplay: domain.FormatCompact(c.LiquidityUsd),
		VolumeDisplay:    domain.FormatCompact(c.Volume24h),

		DexFlow:          int(math.Round(flowRatio * 100)),
		EstimatedNetFlow: netFlow,
		Signal:           classify(c, flowRatio, ageHours, volToLiq, cfg),
		RiskLevel:        riskLevel(c.LiquidityUsd, cfg),
		Trend:            trend(c.Change24h),
		SmartMoney:       smartMoney(netFlow, cfg),
		AgeHours:         ageHours,
		AgeBucket:        ageBucket(ageHours),
	}
}

// classify assigns the signal. Priority order encodes intent: a new pair
// spiking on volume outranks a breakout, which outranks accumulation, which
// outranks a dump. First match wins.
func classify(c domain.Candidate, flowRatio, ageHours, volToLiq float64, cfg SignalConfig) domain.Signal {
	switch {
	case ageHours < cfg.NewTokenMaxAgeH && volToLiq > cfg.SpikeVolToLiq:
		return domain.SignalVolumeSpike
	case c.Change1h > cfg.BreakoutChange1h:
		return domain.SignalBreakout
	case flowRatio > cfg.AccumulationRatio && volToLiq > cfg.AccumulationVLFloor:
		return domain.SignalAccumulation
	case c.Change24h < cfg.DumpChange24h:
		return domain.SignalDump
	default:
		return domain.SignalNone
	}
}

func trend(change24h float64) domain.Trend {
	if change24h >= 0 {
		return domain.TrendBullish
	}
	return domain.TrendBearish
}

func riskLevel(liquidityUsd float64, cfg SignalConfig) domain.RiskLevel {
	switch {
	case liquidityUsd < cfg.RiskHighBelowUsd:
		return domain.RiskHigh
	case liquidityUsd < cfg.RiskMediumBelowUsd:
		return domain.RiskMedium
	default:
		return domain.RiskLow
	}
}

func smartMoney(netFlow float64, cfg SignalConfig) domain.SmartMoney {
	switch {
	case netFlow > cfg.InflowAboveUsd:
		return domain.SmartMoneyInflow
	case netFlow < cfg.OutflowBelowUsd:
		return domain.SmartMoneyOutflow
	default:
		return domain.SmartMoneyNeutral
	}
}

func ageBucket(ageHours float64) domain.AgeBucket {
	switch {
	case ageHours < 24:
		return domain.AgeNew
	case ageHours < 24*7:
		return domain.AgeRecent
	default:
		return domain.AgeEstablished
	}
}
