package scan

import (
	"sort"

	"github.com/dexhound/dexhound/internal/domain"
)

// RankPolicy selects the ranking comparator. Composite is canonical;
// recency-first exists because some deployments want fresh pairs surfaced
// ahead of everything else.
type RankPolicy string

const (
	PolicyComposite RankPolicy = "composite"
	PolicyRecency   RankPolicy = "recency"
)

// CompositeScore is the weighted ranking score: transaction count dominates,
// volume breaks near-ties.
func CompositeScore(e domain.MarketEntry) float64 {
	return 10*float64(e.TotalTxns24h()) + e.Volume24h/5000
}

// Rank orders entries by the selected policy. The sort is stable, so equal
// scores keep their pre-rank order. recencyWindowH only matters for the
// recency policy: entries younger than the window sort ahead of all older
// entries, with descending volume inside each bucket.
func Rank(entries []domain.MarketEntry, policy RankPolicy, recencyWindowH float64) []domain.MarketEntry {
	out := make([]domain.MarketEntry, len(entries))
	copy(out, entries)

	switch policy {
	case PolicyRecency:
		sort.SliceStable(out, func(i, j int) bool {
			iNew := out[i].AgeHours < recencyWindowH
			jNew := out[j].AgeHours < recencyWindowH
			if iNew != jNew {
				return iNew
			}
			return out[i].Volume24h > out[j].Volume24h
		})
	default:
		sort.SliceStable(out, func(i, j int) bool {
			return CompositeScore(out[i]) > CompositeScore(out[j])
		})
	}
	return out
}
