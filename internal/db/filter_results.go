package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/signal-scout/internal/types"
)

// RecordFilterResult appends one audit row and transitions the signal
// according to the result type, in a single transaction. The signal must
// currently be pending_filter; anything else means a double-filter race or
// a caller bug, reported as InvalidTransitionError without touching the row.
// A classification_error result appends its audit row but leaves the status
// at pending_filter so a retry pass can pick the signal up.
func (db *DB) RecordFilterResult(ctx context.Context, signalID uuid.UUID, result *types.FilterResult) error {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var status types.SignalStatus
	err = tx.QueryRow(ctx,
		`SELECT status FROM signals WHERE id = $1 FOR UPDATE`, signalID,
	).Scan(&status)
	if err != nil {
		if err == pgx.ErrNoRows {
			return &NotFoundError{SignalID: signalID}
		}
		return fmt.Errorf("failed to lock signal: %w", err)
	}
	if status != types.StatusPendingFilter {
		return &InvalidTransitionError{SignalID: signalID, From: status, To: types.StatusPendingFilter}
	}

	var dqJSON, classJSON []byte
	if result.DisqualifyResult != nil {
		if dqJSON, err = json.Marshal(result.DisqualifyResult); err != nil {
			return fmt.Errorf("failed to marshal disqualify result: %w", err)
		}
	}
	if result.Classification != nil {
		if classJSON, err = json.Marshal(result.Classification); err != nil {
			return fmt.Errorf("failed to marshal classification: %w", err)
		}
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO filter_results (signal_id, result_type, disqualify_result, classification, error_message, evaluated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		signalID, result.ResultType, dqJSON, classJSON, result.Error, result.EvaluatedAt)
	if err != nil {
		return fmt.Errorf("failed to record filter result: %w", err)
	}

	if newStatus, ok := result.ResultType.StatusFor(); ok {
		if _, err := tx.Exec(ctx,
			`UPDATE signals SET status = $1 WHERE id = $2`, newStatus, signalID); err != nil {
			return fmt.Errorf("failed to transition signal: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit filter result: %w", err)
	}
	return nil
}

// ListFilterResults retrieves the audit trail for one signal, oldest first.
// Rows are append-only; re-evaluations accumulate rather than overwrite.
func (db *DB) ListFilterResults(ctx context.Context, signalID uuid.UUID) ([]types.FilterResult, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, signal_id, result_type, disqualify_result, classification, error_message, evaluated_at
		 FROM filter_results WHERE signal_id = $1 ORDER BY evaluated_at ASC`,
		signalID)
	if err != nil {
		return nil, fmt.Errorf("failed to list filter results: %w", err)
	}
	defer rows.Close()

	var results []types.FilterResult
	for rows.Next() {
		var result types.FilterResult
		var dqJSON, classJSON []byte
		if err := rows.Scan(&result.ID, &result.SignalID, &result.ResultType,
			&dqJSON, &classJSON, &result.Error, &result.EvaluatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan filter result: %w", err)
		}
		if len(dqJSON) > 0 {
			result.DisqualifyResult = &types.DisqualifyResult{}
			_ = json.Unmarshal(dqJSON, result.DisqualifyResult)
		}
		if len(classJSON) > 0 {
			result.Classification = &types.ThesisClassification{}
			_ = json.Unmarshal(classJSON, result.Classification)
		}
		results = append(results, result)
	}
	return results, rows.Err()
}
