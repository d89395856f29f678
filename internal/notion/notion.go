// Package notion pushes qualified signals into the review inbox database
// and polls human decisions back out. The property names here must match
// the inbox database schema exactly; Notion silently drops unknown keys.
package notion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/jonathan/signal-scout/internal/ratelimit"
	"github.com/jonathan/signal-scout/internal/types"
)

// DefaultBaseURL is the Notion API root
const DefaultBaseURL = "https://api.notion.com"

// notionVersion pins the API behavior we parse against
const notionVersion = "2022-06-28"

// requestsPerSecond matches Notion's documented integration rate limit.
const requestsPerSecond = 3.0

// Error represents a review-inbox API failure
type Error struct {
	Operation  string
	StatusCode int
	Message    string
	Cause      error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("notion %s: %s", e.Operation, e.Message)
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("notion %s: status %d: %s", e.Operation, e.StatusCode, e.Message)
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Client is a review-inbox API client scoped to one database.
type Client struct {
	BaseURL    string
	httpClient *http.Client
	limiter    *ratelimit.TokenBucket
	token      string
	databaseID string
}

// NewClient creates a client for the given integration token and database.
func NewClient(token, databaseID string) *Client {
	return &Client{
		BaseURL:    DefaultBaseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		limiter:    ratelimit.NewTokenBucket(3, requestsPerSecond),
		token:      token,
		databaseID: databaseID,
	}
}

// DecisionRecord is one human decision read back from the inbox.
type DecisionRecord struct {
	PageID          string
	Decision        types.Decision
	RejectionReason types.RejectionReason
	Notes           string
}

// PushSignal creates an inbox page for a filtered signal and returns the
// page ID. The caller records the ID on the signal; a signal that already
// carries a page ID must not be pushed again.
func (c *Client) PushSignal(ctx context.Context, stored *types.StoredSignal, result *types.FilterResult) (string, error) {
	reviewStatus := "Needs Review"
	if result.ResultType == types.ResultLLMAutoApprove {
		reviewStatus = "Auto Approved"
	}

	properties := map[string]any{
		"Name":      titleProperty(stored.Signal.Title),
		"Source":    selectProperty(string(stored.Signal.SourceAPI)),
		"Status":    selectProperty(reviewStatus),
		"Signal ID": richTextProperty(stored.ID.String()),
	}
	if stored.Signal.URL != "" {
		properties["URL"] = map[string]any{"url": stored.Signal.URL}
	}
	if result.Classification != nil {
		properties["Score"] = map[string]any{"number": result.Classification.Score}
		properties["Category"] = selectProperty(string(result.Classification.Category))
		properties["Rationale"] = richTextProperty(result.Classification.Rationale)
	}

	payload := map[string]any{
		"parent":     map[string]any{"database_id": c.databaseID},
		"properties": properties,
	}

	var created struct {
		ID string `json:"id"`
	}
	if err := c.do(ctx, "push", http.MethodPost, "/v1/pages", payload, &created); err != nil {
		return "", err
	}
	if created.ID == "" {
		return "", &Error{Operation: "push", Message: "response missing page id"}
	}
	return created.ID, nil
}

// queryResponse is the subset of a database query response we read
type queryResponse struct {
	Results []struct {
		ID         string `json:"id"`
		Properties struct {
			Decision struct {
				Select *struct {
					Name string `json:"name"`
				} `json:"select"`
			} `json:"Decision"`
			RejectionReason struct {
				Select *struct {
					Name string `json:"name"`
				} `json:"select"`
			} `json:"Rejection Reason"`
			Notes struct {
				RichText []struct {
					PlainText string `json:"plain_text"`
				} `json:"rich_text"`
			} `json:"Notes"`
		} `json:"properties"`
	} `json:"results"`
	HasMore    bool   `json:"has_more"`
	NextCursor string `json:"next_cursor"`
}

// PollDecisions queries the inbox for pages where a reviewer has set the
// Decision property, paging through the full result set.
func (c *Client) PollDecisions(ctx context.Context) ([]DecisionRecord, error) {
	var records []DecisionRecord
	cursor := ""

	for {
		payload := map[string]any{
			"filter": map[string]any{
				"property": "Decision",
				"select":   map[string]any{"is_not_empty": true},
			},
			"page_size": 100,
		}
		if cursor != "" {
			payload["start_cursor"] = cursor
		}

		var resp queryResponse
		path := "/v1/databases/" + c.databaseID + "/query"
		if err := c.do(ctx, "poll", http.MethodPost, path, payload, &resp); err != nil {
			return nil, err
		}

		for _, page := range resp.Results {
			if page.Properties.Decision.Select == nil {
				continue
			}
			record := DecisionRecord{
				PageID:   page.ID,
				Decision: types.Decision(page.Properties.Decision.Select.Name),
			}
			if page.Properties.RejectionReason.Select != nil {
				record.RejectionReason = types.RejectionReason(page.Properties.RejectionReason.Select.Name)
			}
			for _, rt := range page.Properties.Notes.RichText {
				record.Notes += rt.PlainText
			}
			records = append(records, record)
		}

		if !resp.HasMore || resp.NextCursor == "" {
			break
		}
		cursor = resp.NextCursor
	}

	return records, nil
}

// do runs one rate-limited API request and decodes the JSON response.
func (c *Client) do(ctx context.Context, operation, method, path string, payload, target any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return &Error{Operation: operation, Message: "rate limit wait interrupted", Cause: err}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return &Error{Operation: operation, Message: "failed to encode request", Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return &Error{Operation: operation, Message: "failed to build request", Cause: err}
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Notion-Version", notionVersion)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &Error{Operation: operation, Message: "request failed", Cause: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return &Error{Operation: operation, StatusCode: resp.StatusCode, Message: "failed to read response", Cause: err}
	}

	if resp.StatusCode != http.StatusOK {
		return &Error{Operation: operation, StatusCode: resp.StatusCode, Message: apiErrorMessage(respBody)}
	}

	if target != nil {
		if err := json.Unmarshal(respBody, target); err != nil {
			return &Error{Operation: operation, StatusCode: resp.StatusCode, Message: "failed to decode response", Cause: err}
		}
	}
	return nil
}

// apiErrorMessage pulls the human-readable message out of an error body.
func apiErrorMessage(body []byte) string {
	var apiErr struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Message != "" {
		return apiErr.Message
	}
	return string(body)
}

func titleProperty(text string) map[string]any {
	return map[string]any{
		"title": []map[string]any{
			{"text": map[string]any{"content": text}},
		},
	}
}

func selectProperty(name string) map[string]any {
	return map[string]any{"select": map[string]any{"name": name}}
}

func richTextProperty(text string) map[string]any {
	return map[string]any{
		"rich_text": []map[string]any{
			{"text": map[string]any{"content": text}},
		},
	}
}
