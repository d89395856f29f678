package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSignalValidate(t *testing.T) {
	tests := []struct {
		name    string
		signal  Signal
		wantErr bool
	}{
		{
			name: "valid signal",
			signal: Signal{
				SourceAPI:   SourceHackerNews,
				SourceID:    "38971204",
				Title:       "Olipop raises Series B",
				URL:         "https://example.com/story",
				CollectedAt: time.Now(),
			},
			wantErr: false,
		},
		{
			name: "missing source id",
			signal: Signal{
				SourceAPI: SourceReddit,
				Title:     "no id",
			},
			wantErr: true,
		},
		{
			name: "unknown source api",
			signal: Signal{
				SourceAPI: SourceAPI("myspace"),
				SourceID:  "x",
			},
			wantErr: true,
		},
		{
			name: "malformed url",
			signal: Signal{
				SourceAPI: SourceHackerNews,
				SourceID:  "1",
				URL:       "not a url",
			},
			wantErr: true,
		},
		{
			name: "empty url is fine",
			signal: Signal{
				SourceAPI: SourceUSPTO,
				SourceID:  "97123456",
			},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.signal.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSignalText(t *testing.T) {
	s := Signal{Title: "Title only"}
	assert.Equal(t, "Title only", s.Text())

	s.Description = "And a description"
	assert.Equal(t, "Title only\nAnd a description", s.Text())
}

func TestCanTransition(t *testing.T) {
	allowed := []struct{ from, to SignalStatus }{
		{StatusNew, StatusPendingFilter},
		{StatusPendingFilter, StatusAutoRejected},
		{StatusPendingFilter, StatusLLMRejected},
		{StatusPendingFilter, StatusLLMReview},
		{StatusPendingFilter, StatusLLMApproved},
		{StatusLLMReview, StatusInNotion},
		{StatusLLMApproved, StatusInNotion},
		{StatusInNotion, StatusApproved},
		{StatusInNotion, StatusRejected},
	}
	for _, tr := range allowed {
		assert.True(t, CanTransition(tr.from, tr.to), "%s -> %s should be allowed", tr.from, tr.to)
	}

	forbidden := []struct{ from, to SignalStatus }{
		{StatusPendingFilter, StatusNew},            // backward
		{StatusInNotion, StatusPendingFilter},       // backward
		{StatusNew, StatusInNotion},                 // skips filtering
		{StatusPendingFilter, StatusInNotion},       // skips routing
		{StatusAutoRejected, StatusInNotion},        // terminal
		{StatusLLMRejected, StatusInNotion},         // terminal
		{StatusApproved, StatusRejected},            // terminal
		{StatusRejected, StatusApproved},            // terminal
		{StatusLLMReview, StatusApproved},           // must pass through in_notion
	}
	for _, tr := range forbidden {
		assert.False(t, CanTransition(tr.from, tr.to), "%s -> %s should be forbidden", tr.from, tr.to)
	}
}

func TestIsTerminal(t *testing.T) {
	for _, status := range []SignalStatus{StatusAutoRejected, StatusLLMRejected, StatusApproved, StatusRejected} {
		assert.True(t, status.IsTerminal(), "%s should be terminal", status)
	}
	for _, status := range []SignalStatus{StatusNew, StatusPendingFilter, StatusLLMReview, StatusLLMApproved, StatusInNotion} {
		assert.False(t, status.IsTerminal(), "%s should not be terminal", status)
	}
}
