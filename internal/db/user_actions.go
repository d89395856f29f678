package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/signal-scout/internal/types"
)

// RecordUserAction writes a human review decision and transitions the
// signal to its terminal state. Re-applying the identical decision is a
// no-op, so polling the review inbox is safely idempotent; a different
// decision for a signal that already has one is a ConflictingDecisionError,
// because review decisions are append-only truth, never overwritable.
func (db *DB) RecordUserAction(ctx context.Context, action *types.UserAction) error {
	if !action.Decision.Valid() {
		return fmt.Errorf("invalid decision %q for signal %s", action.Decision, action.SignalID)
	}

	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var existing types.Decision
	err = tx.QueryRow(ctx,
		`SELECT decision FROM user_actions WHERE signal_id = $1 FOR UPDATE`,
		action.SignalID,
	).Scan(&existing)
	if err == nil {
		if existing == action.Decision {
			return nil // same decision observed twice on re-sync
		}
		return &ConflictingDecisionError{
			SignalID:  action.SignalID,
			Existing:  existing,
			Attempted: action.Decision,
		}
	}
	if err != pgx.ErrNoRows {
		return fmt.Errorf("failed to check existing action: %w", err)
	}

	var status types.SignalStatus
	err = tx.QueryRow(ctx,
		`SELECT status FROM signals WHERE id = $1 FOR UPDATE`, action.SignalID,
	).Scan(&status)
	if err != nil {
		if err == pgx.ErrNoRows {
			return &NotFoundError{SignalID: action.SignalID}
		}
		return fmt.Errorf("failed to lock signal: %w", err)
	}

	terminal := types.StatusApproved
	if action.Decision == types.DecisionRejected {
		terminal = types.StatusRejected
	}
	if !types.CanTransition(status, terminal) {
		return &InvalidTransitionError{SignalID: action.SignalID, From: status, To: terminal}
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO user_actions (signal_id, decision, rejection_reason, notes, synced_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		action.SignalID, action.Decision, action.RejectionReason, action.Notes, action.SyncedAt)
	if err != nil {
		return fmt.Errorf("failed to record user action: %w", err)
	}

	if _, err := tx.Exec(ctx,
		`UPDATE signals SET status = $1 WHERE id = $2`, terminal, action.SignalID); err != nil {
		return fmt.Errorf("failed to finalize signal: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit user action: %w", err)
	}
	return nil
}

// GetUserAction retrieves the recorded decision for a signal, or nil.
func (db *DB) GetUserAction(ctx context.Context, signalID uuid.UUID) (*types.UserAction, error) {
	var action types.UserAction
	err := db.pool.QueryRow(ctx,
		`SELECT signal_id, decision, rejection_reason, notes, synced_at
		 FROM user_actions WHERE signal_id = $1`, signalID,
	).Scan(&action.SignalID, &action.Decision, &action.RejectionReason, &action.Notes, &action.SyncedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user action: %w", err)
	}
	return &action, nil
}
