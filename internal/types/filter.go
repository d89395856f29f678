package types

import (
	"time"

	"github.com/google/uuid"
)

// DisqualifyCategory names the keyword set that rejected a signal
type DisqualifyCategory string

// Disqualifier categories, in evaluation priority order
const (
	DisqualifyB2B      DisqualifyCategory = "b2b"
	DisqualifyCrypto   DisqualifyCategory = "crypto"
	DisqualifyServices DisqualifyCategory = "services"
	DisqualifyJob      DisqualifyCategory = "job"
)

// DisqualifyResult is the outcome of the free keyword-based stage-1 filter.
// It is never persisted on its own; it is folded into the FilterResult audit row.
type DisqualifyResult struct {
	Passed   bool               `json:"passed"`
	Reason   string             `json:"reason,omitempty"`
	Category DisqualifyCategory `json:"category,omitempty"`
}

// ThesisCategory is the investment-thesis bucket assigned by the classifier
type ThesisCategory string

// Thesis categories
const (
	CategoryConsumerCPG ThesisCategory = "consumer_cpg"
	CategoryHealthTech  ThesisCategory = "consumer_health_tech"
	CategoryTravel      ThesisCategory = "travel_hospitality"
	CategoryMarketplace ThesisCategory = "consumer_marketplace"
	CategoryOther       ThesisCategory = "other"
)

// ThesisClassification is the LLM-produced thesis-fit assessment for a signal.
// The core only consumes it; computing it belongs to the classifier adapter.
type ThesisClassification struct {
	Score        float64        `json:"score"`
	Category     ThesisCategory `json:"category"`
	Rationale    string         `json:"rationale"`
	ModelVersion string         `json:"model_version"`
}

// FilterResultType is the routing outcome of one filter evaluation
type FilterResultType string

// Filter outcomes. ClassificationError is distinct from rejection: the
// signal stays retryable and must never be silently dropped.
const (
	ResultAutoReject          FilterResultType = "auto_reject"
	ResultLLMReject           FilterResultType = "llm_reject"
	ResultLLMReview           FilterResultType = "llm_review"
	ResultLLMAutoApprove      FilterResultType = "llm_auto_approve"
	ResultClassificationError FilterResultType = "classification_error"
)

// StatusFor returns the signal status a filter outcome transitions to, and
// false for outcomes that leave the status unchanged.
func (t FilterResultType) StatusFor() (SignalStatus, bool) {
	switch t {
	case ResultAutoReject:
		return StatusAutoRejected, true
	case ResultLLMReject:
		return StatusLLMRejected, true
	case ResultLLMReview:
		return StatusLLMReview, true
	case ResultLLMAutoApprove:
		return StatusLLMApproved, true
	default:
		return "", false
	}
}

// FilterResult is one append-only audit record of a filter evaluation.
// A signal may accumulate several if re-evaluated after classifier errors.
type FilterResult struct {
	ID               uuid.UUID             `json:"id"`
	SignalID         uuid.UUID             `json:"signal_id"`
	ResultType       FilterResultType      `json:"result_type"`
	DisqualifyResult *DisqualifyResult     `json:"disqualify_result,omitempty"`
	Classification   *ThesisClassification `json:"classification,omitempty"`
	Error            string                `json:"error,omitempty"`
	EvaluatedAt      time.Time             `json:"evaluated_at"`
}
