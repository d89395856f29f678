package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/signal-scout/internal/dedup"
	"github.com/jonathan/signal-scout/internal/types"
)

// SaveSignal computes the content fingerprint and attempts an insert. On a
// fingerprint collision it returns the existing record with isNew=false and
// performs no mutation. This is the sole deduplication enforcement point:
// the ON CONFLICT clause makes the check-and-insert atomic, so two
// concurrent callers can never both insert the same fingerprint.
func (db *DB) SaveSignal(ctx context.Context, signal *types.Signal) (*types.StoredSignal, bool, error) {
	if err := signal.Validate(); err != nil {
		return nil, false, err
	}

	hash := dedup.FingerprintSignal(signal)

	var metadataJSON []byte
	if len(signal.RawMetadata) > 0 {
		var err error
		metadataJSON, err = json.Marshal(signal.RawMetadata)
		if err != nil {
			return nil, false, fmt.Errorf("failed to marshal signal metadata: %w", err)
		}
	}

	stored := types.StoredSignal{Signal: *signal, ContentHash: hash}
	err := db.pool.QueryRow(ctx,
		`INSERT INTO signals (source_api, source_id, title, url, description, raw_metadata, collected_at, content_hash, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 ON CONFLICT (content_hash) DO NOTHING
		 RETURNING id, status, created_at`,
		signal.SourceAPI, signal.SourceID, signal.Title, signal.URL, signal.Description,
		metadataJSON, signal.CollectedAt, hash, types.StatusNew,
	).Scan(&stored.ID, &stored.Status, &stored.CreatedAt)
	if err == nil {
		return &stored, true, nil
	}
	if err != pgx.ErrNoRows {
		return nil, false, fmt.Errorf("failed to save signal: %w", err)
	}

	// Conflict: return the row that won, untouched.
	existing, err := db.getSignalBy(ctx, "content_hash = $1", hash)
	if err != nil {
		return nil, false, err
	}
	if existing == nil {
		// The winning insert's transaction has not committed yet; rare
		// enough to treat as a transient failure for this collector pass.
		return nil, false, fmt.Errorf("signal %s conflicted but is not yet visible", hash)
	}
	return existing, false, nil
}

// GetSignal retrieves a stored signal by id
func (db *DB) GetSignal(ctx context.Context, id uuid.UUID) (*types.StoredSignal, error) {
	return db.getSignalBy(ctx, "id = $1", id)
}

// GetSignalByNotionPage retrieves the signal pushed as the given Notion page
func (db *DB) GetSignalByNotionPage(ctx context.Context, pageID string) (*types.StoredSignal, error) {
	return db.getSignalBy(ctx, "notion_page_id = $1", pageID)
}

func (db *DB) getSignalBy(ctx context.Context, where string, arg any) (*types.StoredSignal, error) {
	row := db.pool.QueryRow(ctx,
		`SELECT id, source_api, source_id, title, url, description, raw_metadata,
		        collected_at, content_hash, status, COALESCE(notion_page_id, ''), created_at
		 FROM signals WHERE `+where, arg)

	stored, err := scanSignal(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get signal: %w", err)
	}
	return stored, nil
}

// ListSignalsByStatus retrieves signals in any of the given states, oldest first.
func (db *DB) ListSignalsByStatus(ctx context.Context, limit int, statuses ...types.SignalStatus) ([]types.StoredSignal, error) {
	if limit <= 0 {
		limit = 100
	}
	states := make([]string, len(statuses))
	for i, s := range statuses {
		states[i] = string(s)
	}

	rows, err := db.pool.Query(ctx,
		`SELECT id, source_api, source_id, title, url, description, raw_metadata,
		        collected_at, content_hash, status, COALESCE(notion_page_id, ''), created_at
		 FROM signals WHERE status = ANY($1) ORDER BY created_at ASC LIMIT $2`,
		states, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list signals: %w", err)
	}
	defer rows.Close()

	var signals []types.StoredSignal
	for rows.Next() {
		stored, err := scanSignal(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan signal: %w", err)
		}
		signals = append(signals, *stored)
	}
	return signals, rows.Err()
}

// CountByStatus returns the number of stored signals in each state.
func (db *DB) CountByStatus(ctx context.Context) (map[types.SignalStatus]int, error) {
	rows, err := db.pool.Query(ctx, `SELECT status, COUNT(*) FROM signals GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("failed to count signals: %w", err)
	}
	defer rows.Close()

	counts := make(map[types.SignalStatus]int)
	for rows.Next() {
		var status types.SignalStatus
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("failed to scan count: %w", err)
		}
		counts[status] = count
	}
	return counts, rows.Err()
}

// MarkPendingFilter claims a newly-stored signal for filtering (new ->
// pending_filter). The guarded update makes the claim atomic.
func (db *DB) MarkPendingFilter(ctx context.Context, signalID uuid.UUID) error {
	tag, err := db.pool.Exec(ctx,
		`UPDATE signals SET status = $1 WHERE id = $2 AND status = $3`,
		types.StatusPendingFilter, signalID, types.StatusNew)
	if err != nil {
		return fmt.Errorf("failed to mark signal pending: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return db.transitionFailure(ctx, signalID, types.StatusPendingFilter)
	}
	return nil
}

// MarkPushed transitions a routed signal to in_notion and stores the
// external page reference. Only llm_review and llm_auto_approve signals are
// eligible.
func (db *DB) MarkPushed(ctx context.Context, signalID uuid.UUID, externalRef string) error {
	tag, err := db.pool.Exec(ctx,
		`UPDATE signals SET status = $1, notion_page_id = $2
		 WHERE id = $3 AND status = ANY($4)`,
		types.StatusInNotion, externalRef, signalID,
		[]string{string(types.StatusLLMReview), string(types.StatusLLMApproved)})
	if err != nil {
		return fmt.Errorf("failed to mark signal pushed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return db.transitionFailure(ctx, signalID, types.StatusInNotion)
	}
	return nil
}

// transitionFailure diagnoses a zero-row guarded update into the right
// contract error.
func (db *DB) transitionFailure(ctx context.Context, signalID uuid.UUID, to types.SignalStatus) error {
	current, err := db.GetSignal(ctx, signalID)
	if err != nil {
		return err
	}
	if current == nil {
		return &NotFoundError{SignalID: signalID}
	}
	return &InvalidTransitionError{SignalID: signalID, From: current.Status, To: to}
}

// scanner covers both pgx.Row and pgx.Rows
type scanner interface {
	Scan(dest ...any) error
}

func scanSignal(row scanner) (*types.StoredSignal, error) {
	var stored types.StoredSignal
	var metadataJSON []byte

	err := row.Scan(&stored.ID, &stored.Signal.SourceAPI, &stored.Signal.SourceID,
		&stored.Signal.Title, &stored.Signal.URL, &stored.Signal.Description,
		&metadataJSON, &stored.Signal.CollectedAt, &stored.ContentHash,
		&stored.Status, &stored.NotionPageID, &stored.CreatedAt)
	if err != nil {
		return nil, err
	}

	if len(metadataJSON) > 0 {
		_ = json.Unmarshal(metadataJSON, &stored.Signal.RawMetadata)
	}
	return &stored, nil
}
