// Package db provides PostgreSQL persistence for the signal lifecycle:
// deduplicated signals, the append-only filter audit trail, human review
// decisions, and collector run telemetry. All status transitions are
// enforced here; callers cannot move a signal backward or skip a state.
package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// DB wraps a PostgreSQL connection pool
type DB struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool to the database and ensures the
// schema exists.
func Connect(ctx context.Context, databaseURL string) (*DB, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db := &DB{pool: pool}
	if err := db.ensureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return db, nil
}

// Close closes the connection pool
func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
}

// schema is applied on connect; every statement is idempotent.
// Dedup is enforced by the UNIQUE constraint on content_hash: the database
// is the single place where at-most-one-row-per-fingerprint holds, even
// under concurrent inserts.
const schema = `
CREATE TABLE IF NOT EXISTS signals (
    id             UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    source_api     TEXT NOT NULL,
    source_id      TEXT NOT NULL,
    title          TEXT NOT NULL DEFAULT '',
    url            TEXT NOT NULL DEFAULT '',
    description    TEXT NOT NULL DEFAULT '',
    raw_metadata   JSONB,
    collected_at   TIMESTAMPTZ NOT NULL,
    content_hash   CHAR(32) NOT NULL UNIQUE,
    status         TEXT NOT NULL DEFAULT 'new',
    notion_page_id TEXT,
    created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_signals_status ON signals(status);
CREATE INDEX IF NOT EXISTS idx_signals_notion_page ON signals(notion_page_id);

CREATE TABLE IF NOT EXISTS filter_results (
    id                UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    signal_id         UUID NOT NULL REFERENCES signals(id) ON DELETE CASCADE,
    result_type       TEXT NOT NULL,
    disqualify_result JSONB,
    classification    JSONB,
    error_message     TEXT NOT NULL DEFAULT '',
    evaluated_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_filter_results_signal ON filter_results(signal_id);

CREATE TABLE IF NOT EXISTS user_actions (
    signal_id        UUID PRIMARY KEY REFERENCES signals(id) ON DELETE CASCADE,
    decision         TEXT NOT NULL,
    rejection_reason TEXT NOT NULL DEFAULT '',
    notes            TEXT NOT NULL DEFAULT '',
    synced_at        TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS collector_runs (
    id            UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    source_api    TEXT NOT NULL,
    started_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    completed_at  TIMESTAMPTZ,
    signals_found INT NOT NULL DEFAULT 0,
    signals_new   INT NOT NULL DEFAULT 0,
    error_message TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_collector_runs_started ON collector_runs(started_at);
`

func (db *DB) ensureSchema(ctx context.Context) error {
	if _, err := db.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}
