// Package types provides type definitions for structured data used throughout the signal-scout system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// SourceAPI identifies the external source a signal was collected from
type SourceAPI string

// Known signal sources
const (
	SourceHackerNews SourceAPI = "hn"
	SourceReddit     SourceAPI = "reddit"
	SourceBevNET     SourceAPI = "bevnet_rss"
	SourceNosh       SourceAPI = "nosh_rss"
	SourceUSPTO      SourceAPI = "uspto_tm"
)

// Signal is a raw candidate lead emitted by a collector, ephemeral until stored.
// The (SourceAPI, SourceID) pair is immutable for the life of the signal.
type Signal struct {
	SourceAPI   SourceAPI         `json:"source_api" validate:"required,oneof=hn reddit bevnet_rss nosh_rss uspto_tm"`
	SourceID    string            `json:"source_id" validate:"required"`
	Title       string            `json:"title"`
	URL         string            `json:"url" validate:"omitempty,url"`
	Description string            `json:"description,omitempty"`
	RawMetadata map[string]string `json:"raw_metadata,omitempty"`
	CollectedAt time.Time         `json:"collected_at"`
}

// Text returns the free text used for filtering: title plus description.
func (s *Signal) Text() string {
	if s.Description == "" {
		return s.Title
	}
	return s.Title + "\n" + s.Description
}

var signalValidator = validator.New()

// Validate checks that a raw signal has the required fields before it may
// be stored. Invalid signals are rejected at ingestion and never persisted.
func (s *Signal) Validate() error {
	if err := signalValidator.Struct(s); err != nil {
		return fmt.Errorf("invalid signal from %s: %w", s.SourceAPI, err)
	}
	return nil
}

// SignalStatus tracks a stored signal through its lifecycle
type SignalStatus string

// Signal lifecycle states. Transitions are one-directional; see CanTransition.
const (
	StatusNew           SignalStatus = "new"
	StatusPendingFilter SignalStatus = "pending_filter"
	StatusAutoRejected  SignalStatus = "auto_rejected"
	StatusLLMRejected   SignalStatus = "llm_rejected"
	StatusLLMReview     SignalStatus = "llm_review"
	StatusLLMApproved   SignalStatus = "llm_auto_approve"
	StatusInNotion      SignalStatus = "in_notion"
	StatusApproved      SignalStatus = "approved"
	StatusRejected      SignalStatus = "rejected"
)

// statusTransitions maps each state to the states reachable from it.
// auto_rejected, llm_rejected, approved, and rejected are terminal.
var statusTransitions = map[SignalStatus][]SignalStatus{
	StatusNew:           {StatusPendingFilter},
	StatusPendingFilter: {StatusAutoRejected, StatusLLMRejected, StatusLLMReview, StatusLLMApproved},
	StatusLLMReview:     {StatusInNotion},
	StatusLLMApproved:   {StatusInNotion},
	StatusInNotion:      {StatusApproved, StatusRejected},
}

// CanTransition reports whether a signal may move from one status to another.
func CanTransition(from, to SignalStatus) bool {
	for _, next := range statusTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether a status has no outgoing transitions.
func (s SignalStatus) IsTerminal() bool {
	return len(statusTransitions[s]) == 0
}

// StoredSignal is a signal as persisted by the store. Owned exclusively by
// the store; collectors only ever hold the raw Signal they produced.
type StoredSignal struct {
	ID           uuid.UUID    `json:"id"`
	Signal       Signal       `json:"signal"`
	ContentHash  string       `json:"content_hash"`
	Status       SignalStatus `json:"status"`
	NotionPageID string       `json:"notion_page_id,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
}
