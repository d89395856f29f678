// Package classify adapts an LLM into the thesis classifier consumed by the
// filter pipeline. The pipeline only sees the Classifier interface; the
// Gemini-backed implementation here can be swapped or faked without
// touching routing logic.
package classify

import (
	"context"
	"encoding/json"
	"fmt"
	"unicode/utf8"

	"github.com/jonathan/signal-scout/internal/llm"
	"github.com/jonathan/signal-scout/internal/prompts"
	"github.com/jonathan/signal-scout/internal/schemas"
	"github.com/jonathan/signal-scout/internal/types"
)

// Classifier produces a thesis-fit assessment for a signal's text.
// Any returned error means the signal was not scored and stays retryable.
type Classifier interface {
	Classify(ctx context.Context, signal *types.Signal) (*types.ThesisClassification, error)
}

// maxTextLength caps the text sent to the model; signal titles plus RSS
// descriptions rarely come close, but collector metadata occasionally does.
const maxTextLength = 8000

// classificationSchema rejects malformed model output before decoding.
const classificationSchema = `{
	"type": "object",
	"required": ["score", "category", "rationale"],
	"properties": {
		"score": {"type": "number", "minimum": 0, "maximum": 1},
		"category": {
			"type": "string",
			"enum": ["consumer_cpg", "consumer_health_tech", "travel_hospitality", "consumer_marketplace", "other"]
		},
		"rationale": {"type": "string"}
	}
}`

// LLMClassifier implements Classifier on top of an llm.Client
type LLMClassifier struct {
	client llm.Client
}

// New creates a classifier backed by the given LLM client
func New(client llm.Client) *LLMClassifier {
	return &LLMClassifier{client: client}
}

// Classify scores a signal against the investment thesis. The response is
// schema-validated: an out-of-range score or unknown category is a
// classification error, never a silently-clamped result.
func (c *LLMClassifier) Classify(ctx context.Context, signal *types.Signal) (*types.ThesisClassification, error) {
	text := signal.Text()
	if len(text) > maxTextLength {
		cut := maxTextLength
		// Back up so the cut never splits a UTF-8 sequence.
		for cut > 0 && !utf8.RuneStart(text[cut]) {
			cut--
		}
		text = text[:cut] + "..."
	}

	template := prompts.MustGet("classify.json", "thesis-classification")
	prompt := prompts.Format(template, map[string]string{
		"Source": string(signal.SourceAPI),
		"Text":   text,
	})

	jsonResp, err := c.client.GenerateJSON(ctx, prompt, llm.TierLite)
	if err != nil {
		return nil, fmt.Errorf("LLM generation failed: %w", err)
	}
	jsonResp = llm.CleanJSONBlock(jsonResp)

	if err := schemas.ValidateJSONString(classificationSchema, jsonResp); err != nil {
		return nil, fmt.Errorf("malformed classification response: %w", err)
	}

	var classification types.ThesisClassification
	if err := json.Unmarshal([]byte(jsonResp), &classification); err != nil {
		return nil, fmt.Errorf("failed to parse classification response: %w", err)
	}

	classification.ModelVersion = c.client.GetModel(llm.TierLite)
	return &classification, nil
}
