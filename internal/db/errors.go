package db

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/jonathan/signal-scout/internal/types"
)

// NotFoundError indicates an operation referenced an unknown signal
type NotFoundError struct {
	SignalID uuid.UUID
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("signal not found: %s", e.SignalID)
}

// InvalidTransitionError indicates an attempt to move a signal backward or
// skip a required intermediate state. This is a programming-contract error:
// fatal to the calling operation, but it never touches other rows.
type InvalidTransitionError struct {
	SignalID uuid.UUID
	From     types.SignalStatus
	To       types.SignalStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid status transition for signal %s: %s -> %s", e.SignalID, e.From, e.To)
}

// ConflictingDecisionError indicates a synced review decision differs from
// one already recorded. Decisions are append-only truth, never overwritten.
type ConflictingDecisionError struct {
	SignalID  uuid.UUID
	Existing  types.Decision
	Attempted types.Decision
}

func (e *ConflictingDecisionError) Error() string {
	return fmt.Sprintf("conflicting decision for signal %s: already %s, got %s", e.SignalID, e.Existing, e.Attempted)
}
