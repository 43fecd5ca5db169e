package scan

import "github.com/dexhound/dexhound/internal/domain"

// Crash guard breakpoints: a pair is considered structurally collapsing,
// not merely volatile, when sellers dominate AND the day is deep red.
const (
	crashGuardBuyShare  = 0.3
	crashGuardChange24h = -10.0
)

// Thresholds is the alpha filter configuration. It is a pure data struct:
// no defaults live in the filter itself, so identical (candidates, cfg)
// inputs always produce identical output.
type Thresholds struct {
	MinLiquidityUsd float64  `yaml:"min_liquidity_usd"`
	MinVolume24h    float64  `yaml:"min_volume_24h"`
	MinTxns24h      int      `yaml:"min_txns_24h"`
	MinFdv          float64  `yaml:"min_fdv"`
	AllowedChains   []string `yaml:"allowed_chains"`
	CrashGuard      bool     `yaml:"crash_guard"`
}

// Filter drops candidates failing any configured threshold. All predicates
// are AND-combined; surviving means passing every one.
func Filter(cands []domain.Candidate, cfg Thresholds) []domain.Candidate {
	allowed := make(map[string]struct{}, len(cfg.AllowedChains))
	for _, c := range cfg.AllowedChains {
		allowed[c] = struct{}{}
	}

	out := make([]domain.Candidate, 0, len(cands))
	for _, c := range cands {
		if c.LiquidityUsd < cfg.MinLiquidityUsd {
			continue
		}
		if c.Volume24h < cfg.MinVolume24h {
			continue
		}
		if c.TotalTxns24h() < cfg.MinTxns24h {
			continue
		}
		// Missing FDV compares as 0.
		if c.Fdv < cfg.MinFdv {
			continue
		}
		if _, ok := allowed[domain.CanonicalChain(c.ChainID)]; !ok {
			continue
		}
		if cfg.CrashGuard && collapsing(c) {
			continue
		}
		out = append(out, c)
	}
	return out
}

func collapsing(c domain.Candidate) bool {
	total := c.TotalTxns24h()
	if total == 0 {
		return false
	}
	buyShare := float64(c.Buys24h) / float64(total)
	return buyShare < crashGuardBuyShare && c.Change24h < crashGuardChange24h
}
