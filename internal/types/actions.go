package types

import (
	"time"

	"github.com/google/uuid"
)

// Decision is a human review outcome synced back from the review inbox
type Decision string

// Review decisions
const (
	DecisionApproved Decision = "approved"
	DecisionRejected Decision = "rejected"
)

// Valid reports whether d is a known review decision. The inbox select
// options are human-editable, so anything read back must be checked before
// it can finalize a signal.
func (d Decision) Valid() bool {
	return d == DecisionApproved || d == DecisionRejected
}

// RejectionReason explains why a reviewer rejected a signal
type RejectionReason string

// Rejection reasons, mirroring the review inbox's fixed select options
const (
	ReasonNotConsumer      RejectionReason = "not_consumer"
	ReasonWrongCategory    RejectionReason = "wrong_category"
	ReasonTooEarly         RejectionReason = "too_early"
	ReasonTooLate          RejectionReason = "too_late"
	ReasonInsufficientInfo RejectionReason = "insufficient_info"
	ReasonOther            RejectionReason = "other"
)

// UserAction is a human review decision, written once per signal.
// Re-syncing the same decision is a no-op; a different decision for a
// signal that already has one is a conflict, never an overwrite.
type UserAction struct {
	SignalID        uuid.UUID       `json:"signal_id"`
	Decision        Decision        `json:"decision"`
	RejectionReason RejectionReason `json:"rejection_reason,omitempty"`
	Notes           string          `json:"notes,omitempty"`
	SyncedAt        time.Time       `json:"synced_at"`
}

// CollectorRun records one collection pass for health monitoring.
// Never mutated after completion.
type CollectorRun struct {
	ID           uuid.UUID  `json:"id"`
	SourceAPI    SourceAPI  `json:"source_api"`
	StartedAt    time.Time  `json:"started_at"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
	SignalsFound int        `json:"signals_found"`
	SignalsNew   int        `json:"signals_new"`
	Error        string     `json:"error,omitempty"`
}
