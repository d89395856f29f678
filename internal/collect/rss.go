package collect

import (
	"context"
	"encoding/xml"
	"time"

	"github.com/jonathan/signal-scout/internal/fetch"
	"github.com/jonathan/signal-scout/internal/types"
)

// Trade-press feed endpoints
const (
	DefaultBevNETFeedURL = "https://www.bevnet.com/feed"
	DefaultNoshFeedURL   = "https://www.nosh.com/feed"
)

// RSSFeed collects items from one RSS 2.0 trade-press feed. The feed GUID
// is the source identity; titles and descriptions are mutable upstream and
// never participate in dedup.
type RSSFeed struct {
	source  types.SourceAPI
	FeedURL string
}

// NewBevNET creates the BevNET beverage-industry feed collector.
func NewBevNET() *RSSFeed {
	return &RSSFeed{source: types.SourceBevNET, FeedURL: DefaultBevNETFeedURL}
}

// NewNosh creates the NOSH food-industry feed collector.
func NewNosh() *RSSFeed {
	return &RSSFeed{source: types.SourceNosh, FeedURL: DefaultNoshFeedURL}
}

// NewRSSFeed creates a collector for an arbitrary feed under a known source.
func NewRSSFeed(source types.SourceAPI, feedURL string) *RSSFeed {
	return &RSSFeed{source: source, FeedURL: feedURL}
}

// Source identifies this collector's source
func (f *RSSFeed) Source() types.SourceAPI { return f.source }

// rssDocument is the RSS 2.0 shape; only the fields signals need.
type rssDocument struct {
	Channel struct {
		Items []rssItem `xml:"item"`
	} `xml:"channel"`
}

type rssItem struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	GUID        string `xml:"guid"`
	Description string `xml:"description"`
	PubDate     string `xml:"pubDate"`
}

// Collect fetches and parses the feed.
func (f *RSSFeed) Collect(ctx context.Context) ([]types.Signal, error) {
	result, err := fetch.URL(ctx, f.FeedURL, nil)
	if err != nil {
		return nil, &Error{Source: f.source, Message: "feed fetch failed", Cause: err}
	}

	var doc rssDocument
	if err := xml.Unmarshal(result.Body, &doc); err != nil {
		return nil, &Error{Source: f.source, Message: "feed parse failed", Cause: err}
	}

	var signals []types.Signal
	now := time.Now().UTC()

	for _, item := range doc.Channel.Items {
		guid := item.GUID
		if guid == "" {
			// Some feeds omit GUIDs; the link is the next-most-stable id.
			guid = item.Link
		}
		if guid == "" || item.Title == "" {
			continue
		}
		signals = append(signals, types.Signal{
			SourceAPI:   f.source,
			SourceID:    guid,
			Title:       item.Title,
			URL:         item.Link,
			Description: fetch.HTMLToText(item.Description),
			RawMetadata: map[string]string{"pub_date": item.PubDate},
			CollectedAt: now,
		})
	}

	return signals, nil
}
