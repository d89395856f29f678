package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jonathan/signal-scout/internal/types"
)

// StartCollectorRun records the start of a collection pass and returns the
// run id. Telemetry failures are surfaced so the caller can log them, but
// they must never be fatal to the pipeline.
func (db *DB) StartCollectorRun(ctx context.Context, source types.SourceAPI) (uuid.UUID, error) {
	var id uuid.UUID
	err := db.pool.QueryRow(ctx,
		`INSERT INTO collector_runs (source_api) VALUES ($1) RETURNING id`,
		source,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to start collector run: %w", err)
	}
	return id, nil
}

// CompleteCollectorRun finalizes a collection pass. Runs are never mutated
// after completion.
func (db *DB) CompleteCollectorRun(ctx context.Context, runID uuid.UUID, found, newCount int, errMsg string) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE collector_runs
		 SET completed_at = NOW(), signals_found = $1, signals_new = $2, error_message = $3
		 WHERE id = $4 AND completed_at IS NULL`,
		found, newCount, errMsg, runID)
	if err != nil {
		return fmt.Errorf("failed to complete collector run: %w", err)
	}
	return nil
}

// RecentCollectorRuns retrieves the latest collection passes for health
// monitoring, newest first.
func (db *DB) RecentCollectorRuns(ctx context.Context, limit int) ([]types.CollectorRun, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := db.pool.Query(ctx,
		`SELECT id, source_api, started_at, completed_at, signals_found, signals_new, error_message
		 FROM collector_runs ORDER BY started_at DESC LIMIT $1`,
		limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list collector runs: %w", err)
	}
	defer rows.Close()

	var runs []types.CollectorRun
	for rows.Next() {
		var run types.CollectorRun
		if err := rows.Scan(&run.ID, &run.SourceAPI, &run.StartedAt, &run.CompletedAt,
			&run.SignalsFound, &run.SignalsNew, &run.Error); err != nil {
			return nil, fmt.Errorf("failed to scan collector run: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}
