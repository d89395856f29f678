package collect

import (
	"context"
	"fmt"
	"time"

	"github.com/jonathan/signal-scout/internal/fetch"
	"github.com/jonathan/signal-scout/internal/types"
)

// DefaultRedditBaseURL is Reddit's public JSON API.
const DefaultRedditBaseURL = "https://www.reddit.com"

// DefaultSubreddits are communities where consumer founders announce things.
var DefaultSubreddits = []string{"Entrepreneur", "smallbusiness", "foodstartups", "fitness"}

// Reddit collects new posts from a set of subreddits.
type Reddit struct {
	BaseURL    string
	Subreddits []string
	Limit      int
}

// NewReddit creates a collector with the default endpoint and subreddits.
func NewReddit() *Reddit {
	return &Reddit{
		BaseURL:    DefaultRedditBaseURL,
		Subreddits: DefaultSubreddits,
		Limit:      50,
	}
}

// Source identifies this collector's source
func (r *Reddit) Source() types.SourceAPI { return types.SourceReddit }

// redditListing is the listing payload shape
type redditListing struct {
	Data struct {
		Children []struct {
			Data struct {
				Name      string  `json:"name"` // fullname, e.g. t3_1abcde
				Title     string  `json:"title"`
				URL       string  `json:"url"`
				SelfText  string  `json:"selftext"`
				Subreddit string  `json:"subreddit"`
				Ups       int     `json:"ups"`
				Created   float64 `json:"created_utc"`
			} `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

// Collect fetches the newest posts from each subreddit.
func (r *Reddit) Collect(ctx context.Context) ([]types.Signal, error) {
	opts := fetch.DefaultOptions()
	// Reddit throttles default agents hard.
	opts.UserAgent = "signal-scout/1.0 (consumer signal collector)"

	var signals []types.Signal
	now := time.Now().UTC()

	for _, sub := range r.Subreddits {
		endpoint := fmt.Sprintf("%s/r/%s/new.json?limit=%d", r.BaseURL, sub, r.Limit)

		var listing redditListing
		if err := fetch.JSON(ctx, endpoint, opts, &listing); err != nil {
			return signals, &Error{Source: r.Source(), Message: "listing failed for r/" + sub, Cause: err}
		}

		for _, child := range listing.Data.Children {
			post := child.Data
			if post.Name == "" || post.Title == "" {
				continue
			}
			signals = append(signals, types.Signal{
				SourceAPI:   types.SourceReddit,
				SourceID:    post.Name,
				Title:       post.Title,
				URL:         post.URL,
				Description: post.SelfText,
				RawMetadata: map[string]string{
					"subreddit": post.Subreddit,
					"ups":       fmt.Sprintf("%d", post.Ups),
				},
				CollectedAt: now,
			})
		}
	}

	return signals, nil
}
