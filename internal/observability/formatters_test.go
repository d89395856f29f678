package observability

import (
	"bytes"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/jonathan/signal-scout/internal/types"
)

func TestPrintSignal(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	stored := &types.StoredSignal{
		ID: uuid.New(),
		Signal: types.Signal{
			SourceAPI: types.SourceHackerNews,
			SourceID:  "41234567",
			Title:     "Show HN: Cold brew subscription",
		},
		ContentHash:  "0123456789abcdef0123456789abcdef",
		Status:       types.StatusInNotion,
		NotionPageID: "page-abc",
	}

	p.PrintSignal(stored)
	output := buf.String()

	assert.Contains(t, output, "hn")
	assert.Contains(t, output, "Cold brew subscription")
	assert.Contains(t, output, "in_notion")
	assert.Contains(t, output, "page-abc")
}

func TestPrintSignal_Nil(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintSignal(nil)

	assert.Empty(t, buf.String())
}

func TestPrintFilterResult_Disqualified(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	stored := &types.StoredSignal{
		ID:     uuid.New(),
		Signal: types.Signal{SourceAPI: types.SourceReddit, SourceID: "t3_x", Title: "Enterprise CRM"},
	}
	result := &types.FilterResult{
		ResultType: types.ResultAutoReject,
		DisqualifyResult: &types.DisqualifyResult{
			Passed:   false,
			Reason:   `matched b2b keyword "enterprise software"`,
			Category: types.DisqualifyB2B,
		},
	}

	p.PrintFilterResult(stored, result)
	output := buf.String()

	assert.Contains(t, output, "auto_reject")
	assert.Contains(t, output, "b2b keyword")
}

func TestPrintFilterResult_Classified(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	stored := &types.StoredSignal{
		ID:     uuid.New(),
		Signal: types.Signal{SourceAPI: types.SourceHackerNews, SourceID: "1", Title: "DTC skincare"},
	}
	result := &types.FilterResult{
		ResultType: types.ResultLLMReview,
		Classification: &types.ThesisClassification{
			Score:        0.72,
			Category:     types.CategoryConsumerCPG,
			ModelVersion: "gemini-2.5-flash-lite",
		},
	}

	p.PrintFilterResult(stored, result)
	output := buf.String()

	assert.Contains(t, output, "llm_review")
	assert.Contains(t, output, "0.72")
	assert.Contains(t, output, "consumer_cpg")
}

func TestPrintStatusCounts(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintStatusCounts(map[types.SignalStatus]int{
		types.StatusNew:      3,
		types.StatusApproved: 1,
	})
	output := buf.String()

	assert.Contains(t, output, "new")
	assert.Contains(t, output, "approved")
	assert.Contains(t, output, "total")
	assert.Contains(t, output, "4")
}

func TestPrintCollectorRuns(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	completed := time.Now().UTC()
	p.PrintCollectorRuns([]types.CollectorRun{
		{SourceAPI: types.SourceHackerNews, CompletedAt: &completed, SignalsFound: 40, SignalsNew: 12},
		{SourceAPI: types.SourceReddit, CompletedAt: &completed, Error: "listing failed"},
		{SourceAPI: types.SourceUSPTO},
	})
	output := buf.String()

	assert.Contains(t, output, "hn")
	assert.Contains(t, output, "found=40")
	assert.Contains(t, output, "failed")
	assert.Contains(t, output, "listing failed")
	assert.Contains(t, output, "running")
}

func TestPrintCollectorRuns_Empty(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintCollectorRuns(nil)

	assert.Empty(t, buf.String())
}
