package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/dexhound/dexhound/internal/persistence"
)

// Schema for the market_entries table. Applied with CREATE IF NOT EXISTS at
// connect time; there is no migration tooling here on purpose.
const schema = `
CREATE TABLE IF NOT EXISTS market_entries (
	token_address TEXT PRIMARY KEY,
	symbol        TEXT NOT NULL,
	chain         TEXT NOT NULL,
	liquidity_usd DOUBLE PRECISION NOT NULL,
	volume_24h    DOUBLE PRECISION NOT NULL,
	signal        TEXT NOT NULL,
	last_seen     TIMESTAMPTZ NOT NULL,
	payload       JSONB NOT NULL
)`

// entriesRepo implements persistence.EntryStore for PostgreSQL.
type entriesRepo struct {
	db      *sqlx.DB
	timeout time.Duration
}

// Connect opens the database, ensures the schema and returns the store.
func Connect(dsn string, timeout time.Duration) (persistence.EntryStore, error) {
	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("failed to ensure schema: %w", err)
	}
	return NewEntriesRepo(db, timeout), nil
}

// NewEntriesRepo wraps an existing connection.
func NewEntriesRepo(db *sqlx.DB, timeout time.Duration) persistence.EntryStore {
	return &entriesRepo{db: db, timeout: timeout}
}

// UpsertBatch writes rows atomically, replacing any existing row with the
// same token address.
func (r *entriesRepo) UpsertBatch(ctx context.Context, rows []persistence.EntryRow) error {
	if len(rows) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareNamedContext(ctx, `
		INSERT INTO market_entries
			(token_address, symbol, chain, liquidity_usd, volume_24h, signal, last_seen, payload)
		VALUES
			(:token_address, :symbol, :chain, :liquidity_usd, :volume_24h, :signal, :last_seen, :payload)
		ON CONFLICT (token_address) DO UPDATE SET
			symbol        = EXCLUDED.symbol,
			chain         = EXCLUDED.chain,
			liquidity_usd = EXCLUDED.liquidity_usd,
			volume_24h    = EXCLUDED.volume_24h,
			signal        = EXCLUDED.signal,
			last_seen     = EXCLUDED.last_seen,
			payload       = EXCLUDED.payload`)
	if err != nil {
		return fmt.Errorf("failed to prepare upsert: %w", err)
	}
	defer stmt.Close()

	for _, row := range rows {
		if _, err := stmt.ExecContext(ctx, row); err != nil {
			return fmt.Errorf("failed to upsert %s: %w", row.TokenAddress, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit upsert batch: %w", err)
	}
	return nil
}

// Recent returns the most recently seen rows, newest first.
func (r *entriesRepo) Recent(ctx context.Context, limit int) ([]persistence.EntryRow, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var rows []persistence.EntryRow
	err := r.db.SelectContext(ctx, &rows, `
		SELECT token_address, symbol, chain, liquidity_usd, volume_24h, signal, last_seen, payload
		FROM market_entries
		ORDER BY last_seen DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent entries: %w", err)
	}
	return rows, nil
}
