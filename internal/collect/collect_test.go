package collect

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/signal-scout/internal/types"
)

func TestHackerNewsCollect(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search_by_date", r.URL.Path)
		assert.Equal(t, "story", r.URL.Query().Get("tags"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"hits": [
				{"objectID": "41234567", "title": "Show HN: Cold brew subscription", "url": "https://example.com/coldbrew", "story_text": "", "points": 42, "created_at": "2026-08-30T12:00:00Z"},
				{"objectID": "41234568", "title": "Launching a protein bar brand", "url": "", "story_text": "<p>We make <b>bars</b></p>", "points": 5, "created_at": "2026-08-30T13:00:00Z"},
				{"objectID": "", "title": "no id, dropped"}
			]
		}`))
	}))
	defer server.Close()

	collector := &HackerNews{BaseURL: server.URL, Queries: []string{"consumer brand"}, PerPage: 50}
	assert.Equal(t, types.SourceHackerNews, collector.Source())

	signals, err := collector.Collect(context.Background())
	require.NoError(t, err)
	require.Len(t, signals, 2)

	assert.Equal(t, "41234567", signals[0].SourceID)
	assert.Equal(t, "https://example.com/coldbrew", signals[0].URL)
	assert.Equal(t, "42", signals[0].RawMetadata["points"])

	// Self-post falls back to the discussion link and strips story HTML.
	assert.Equal(t, "https://news.ycombinator.com/item?id=41234568", signals[1].URL)
	assert.Equal(t, "We make bars", signals[1].Description)

	for _, sig := range signals {
		assert.NoError(t, sig.Validate())
	}
}

func TestHackerNewsCollectServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	collector := &HackerNews{BaseURL: server.URL, Queries: []string{"anything"}, PerPage: 10}
	_, err := collector.Collect(context.Background())
	require.Error(t, err)

	var collectErr *Error
	require.ErrorAs(t, err, &collectErr)
	assert.Equal(t, types.SourceHackerNews, collectErr.Source)
}

func TestRedditCollect(t *testing.T) {
	var gotAgent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAgent = r.Header.Get("User-Agent")
		assert.Equal(t, "/r/foodstartups/new.json", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"data": {"children": [
				{"data": {"name": "t3_1abcde", "title": "Launched my kombucha brand", "url": "https://reddit.com/r/foodstartups/1abcde", "selftext": "Year one recap", "subreddit": "foodstartups", "ups": 120, "created_utc": 1756500000}},
				{"data": {"name": "", "title": "deleted post"}}
			]}
		}`))
	}))
	defer server.Close()

	collector := &Reddit{BaseURL: server.URL, Subreddits: []string{"foodstartups"}, Limit: 25}
	signals, err := collector.Collect(context.Background())
	require.NoError(t, err)
	require.Len(t, signals, 1)

	assert.Equal(t, "t3_1abcde", signals[0].SourceID)
	assert.Equal(t, "Launched my kombucha brand", signals[0].Title)
	assert.Equal(t, "Year one recap", signals[0].Description)
	assert.Equal(t, "foodstartups", signals[0].RawMetadata["subreddit"])
	assert.Contains(t, gotAgent, "signal-scout")
}

func TestRSSFeedCollect(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = w.Write([]byte(`<?xml version="1.0"?>
<rss version="2.0">
  <channel>
    <title>BevNET</title>
    <item>
      <title>Sparkling Water Startup Raises Seed Round</title>
      <link>https://www.bevnet.com/news/sparkling-seed</link>
      <guid>https://www.bevnet.com/?p=1001</guid>
      <description>&lt;p&gt;The &lt;em&gt;category&lt;/em&gt; keeps growing.&lt;/p&gt;</description>
      <pubDate>Sun, 30 Aug 2026 09:00:00 +0000</pubDate>
    </item>
    <item>
      <title>Distributor Roundup</title>
      <link>https://www.bevnet.com/news/distributor-roundup</link>
      <guid></guid>
      <description>Plain text body</description>
    </item>
  </channel>
</rss>`))
	}))
	defer server.Close()

	collector := NewRSSFeed(types.SourceBevNET, server.URL)
	assert.Equal(t, types.SourceBevNET, collector.Source())

	signals, err := collector.Collect(context.Background())
	require.NoError(t, err)
	require.Len(t, signals, 2)

	assert.Equal(t, "https://www.bevnet.com/?p=1001", signals[0].SourceID)
	assert.Equal(t, "The category keeps growing.", signals[0].Description)
	assert.Equal(t, "Sun, 30 Aug 2026 09:00:00 +0000", signals[0].RawMetadata["pub_date"])

	// Missing GUID falls back to the item link.
	assert.Equal(t, "https://www.bevnet.com/news/distributor-roundup", signals[1].SourceID)
}

func TestRSSFeedCollectBadXML(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"not": "xml"}`))
	}))
	defer server.Close()

	collector := NewRSSFeed(types.SourceNosh, server.URL)
	_, err := collector.Collect(context.Background())
	require.Error(t, err)

	var collectErr *Error
	require.ErrorAs(t, err, &collectErr)
	assert.Equal(t, types.SourceNosh, collectErr.Source)
	assert.Contains(t, collectErr.Error(), "parse")
}

func TestUSPTOCollect(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/trademark/search", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"results": [
				{"serialNumber": "97-123-456", "markIdentification": "GLOW HYDRATION", "ownerName": "Glow Labs LLC", "filingDate": "2026-08-28", "gsDescription": "Bottled water beverages"},
				{"serialNumber": "", "markIdentification": "no serial"}
			]
		}`))
	}))
	defer server.Close()

	collector := &USPTO{BaseURL: server.URL, SearchTerms: []string{"beverage"}, Rows: 10}
	signals, err := collector.Collect(context.Background())
	require.NoError(t, err)
	require.Len(t, signals, 1)

	assert.Equal(t, "97-123-456", signals[0].SourceID)
	assert.Equal(t, "GLOW HYDRATION", signals[0].Title)
	assert.Contains(t, signals[0].URL, "tsdr.uspto.gov")
	assert.Equal(t, "Glow Labs LLC", signals[0].RawMetadata["owner"])
	assert.Equal(t, "beverage", signals[0].RawMetadata["search_term"])
}

func TestCollectErrorUnwrap(t *testing.T) {
	cause := errors.New("boom")
	err := &Error{Source: types.SourceReddit, Message: "listing failed", Cause: cause}
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "reddit")
	assert.Contains(t, err.Error(), "listing failed")
}
