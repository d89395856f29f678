package collect

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/jonathan/signal-scout/internal/fetch"
	"github.com/jonathan/signal-scout/internal/types"
)

// DefaultHNBaseURL is the Algolia-backed Hacker News search API.
const DefaultHNBaseURL = "https://hn.algolia.com/api/v1"

// DefaultHNQueries are the launch-adjacent searches worth watching.
var DefaultHNQueries = []string{
	"consumer brand launch",
	"DTC startup",
	"Show HN food",
	"Show HN fitness",
}

// HackerNews collects recent stories matching a set of search queries.
type HackerNews struct {
	BaseURL string
	Queries []string
	PerPage int
}

// NewHackerNews creates a collector with the default endpoint and queries.
func NewHackerNews() *HackerNews {
	return &HackerNews{
		BaseURL: DefaultHNBaseURL,
		Queries: DefaultHNQueries,
		PerPage: 50,
	}
}

// Source identifies this collector's source
func (h *HackerNews) Source() types.SourceAPI { return types.SourceHackerNews }

// hnSearchResponse is the Algolia search payload
type hnSearchResponse struct {
	Hits []struct {
		ObjectID  string `json:"objectID"`
		Title     string `json:"title"`
		URL       string `json:"url"`
		StoryText string `json:"story_text"`
		Points    int    `json:"points"`
		CreatedAt string `json:"created_at"`
	} `json:"hits"`
}

// Collect runs each configured query against the search API. Stories seen
// under multiple queries are returned multiple times; the store's dedup
// makes that harmless.
func (h *HackerNews) Collect(ctx context.Context) ([]types.Signal, error) {
	var signals []types.Signal
	now := time.Now().UTC()

	for _, query := range h.Queries {
		endpoint := fmt.Sprintf("%s/search_by_date?tags=story&hitsPerPage=%d&query=%s",
			h.BaseURL, h.PerPage, url.QueryEscape(query))

		var resp hnSearchResponse
		if err := fetch.JSON(ctx, endpoint, nil, &resp); err != nil {
			return signals, &Error{Source: h.Source(), Message: "search failed", Cause: err}
		}

		for _, hit := range resp.Hits {
			if hit.ObjectID == "" || hit.Title == "" {
				continue
			}
			storyURL := hit.URL
			if storyURL == "" {
				// Self-posts have no external URL; link the discussion.
				storyURL = "https://news.ycombinator.com/item?id=" + hit.ObjectID
			}
			signals = append(signals, types.Signal{
				SourceAPI:   types.SourceHackerNews,
				SourceID:    hit.ObjectID,
				Title:       hit.Title,
				URL:         storyURL,
				Description: fetch.HTMLToText(hit.StoryText),
				RawMetadata: map[string]string{
					"points": fmt.Sprintf("%d", hit.Points),
					"query":  query,
				},
				CollectedAt: now,
			})
		}
	}

	return signals, nil
}
