// Package filter composes the hard disqualifier and the LLM classifier into
// a single routing decision per signal, producing an append-only audit
// record for the store.
package filter

import (
	"context"
	"time"

	"github.com/jonathan/signal-scout/internal/classify"
	"github.com/jonathan/signal-scout/internal/disqualify"
	"github.com/jonathan/signal-scout/internal/types"
)

// Routing thresholds. Each value is the inclusive lower bound of its bucket:
// score < 0.5 rejects, [0.5, 0.85) goes to human review, >= 0.85 auto-approves.
const (
	ReviewThreshold  = 0.5
	ApproveThreshold = 0.85
)

// Pipeline evaluates signals in two stages: the free keyword disqualifier
// first, then the paid classifier only for signals that survive it.
type Pipeline struct {
	classifier classify.Classifier
}

// New creates a filter pipeline around the given classifier
func New(classifier classify.Classifier) *Pipeline {
	return &Pipeline{classifier: classifier}
}

// Evaluate produces the audit record for one signal. Classifier failures
// are reported as a distinct classification_error result, never conflated
// with rejection, so the signal stays eligible for a retry pass.
func (p *Pipeline) Evaluate(ctx context.Context, stored *types.StoredSignal) types.FilterResult {
	result := types.FilterResult{
		SignalID:    stored.ID,
		EvaluatedAt: time.Now().UTC(),
	}

	// Stage 1: free keyword rejection. A failure here avoids the LLM call
	// entirely, which is the whole reason this stage exists.
	dq := disqualify.Evaluate(stored.Signal.Text())
	result.DisqualifyResult = &dq
	if !dq.Passed {
		result.ResultType = types.ResultAutoReject
		return result
	}

	// Stage 2: paid LLM classification with confidence routing.
	classification, err := p.classifier.Classify(ctx, &stored.Signal)
	if err != nil {
		result.ResultType = types.ResultClassificationError
		result.Error = err.Error()
		return result
	}

	result.Classification = classification
	result.ResultType = RouteScore(classification.Score)
	return result
}

// RouteScore maps a thesis-fit score to its outcome bucket.
func RouteScore(score float64) types.FilterResultType {
	switch {
	case score < ReviewThreshold:
		return types.ResultLLMReject
	case score < ApproveThreshold:
		return types.ResultLLMReview
	default:
		return types.ResultLLMAutoApprove
	}
}
