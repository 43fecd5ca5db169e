package persistence

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dexhound/dexhound/internal/domain"
)

// EntryRow is one persisted market entry, keyed by base-token address. The
// full enriched record rides along as a JSON payload so downstream replay
// never needs a re-fetch.
type EntryRow struct {
	TokenAddress string          `db:"token_address"`
	Symbol       string          `db:"symbol"`
	Chain        string          `db:"chain"`
	LiquidityUsd float64         `db:"liquidity_usd"`
	Volume24h    float64         `db:"volume_24h"`
	Signal       string          `db:"signal"`
	LastSeen     time.Time       `db:"last_seen"`
	Payload      json.RawMessage `db:"payload"`
}

// RowFromEntry builds a persistable row from an enriched entry.
func RowFromEntry(e domain.MarketEntry, seen time.Time) (EntryRow, error) {
	payload, err := json.Marshal(e)
	if err != nil {
		return EntryRow{}, fmt.Errorf("failed to marshal entry payload: %w", err)
	}
	return EntryRow{
		TokenAddress: e.TokenAddress,
		Symbol:       e.Symbol,
		Chain:        e.Chain,
		LiquidityUsd: e.LiquidityUsd,
		Volume24h:    e.Volume24h,
		Signal:       string(e.Signal),
		LastSeen:     seen,
		Payload:      payload,
	}, nil
}

// Entry decodes the embedded payload back into the enriched record.
func (r EntryRow) Entry() (domain.MarketEntry, error) {
	var e domain.MarketEntry
	if err := json.Unmarshal(r.Payload, &e); err != nil {
		return domain.MarketEntry{}, fmt.Errorf("failed to unmarshal entry payload: %w", err)
	}
	return e, nil
}

// EntryStore is the write side of the persistent store: replace-on-conflict
// upserts keyed by token address.
type EntryStore interface {
	UpsertBatch(ctx context.Context, rows []EntryRow) error
	Recent(ctx context.Context, limit int) ([]EntryRow, error)
}

// SnapshotStore shares the latest ranked result across hosts so stateless
// drivers (the cron entrypoint) and serving hosts converge on one cached
// view.
type SnapshotStore interface {
	Save(ctx context.Context, res domain.RankedResult, ttl time.Duration) error
	Load(ctx context.Context) (domain.RankedResult, bool, error)
}
