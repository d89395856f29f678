package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/signal-scout/internal/classify"
	"github.com/jonathan/signal-scout/internal/collect"
	"github.com/jonathan/signal-scout/internal/config"
	"github.com/jonathan/signal-scout/internal/db"
	"github.com/jonathan/signal-scout/internal/llm"
	"github.com/jonathan/signal-scout/internal/notion"
	"github.com/jonathan/signal-scout/internal/types"
)

// loadConfig resolves the effective configuration: config file, then CLI
// overrides for flags that were explicitly set, then environment fallbacks.
func loadConfig(cmd *cobra.Command, configPath, apiKey, databaseURL string, verbose bool) (config.Config, error) {
	var cfg config.Config
	if configPath != "" {
		loaded, err := config.LoadConfig(configPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = *loaded
	}

	if cmd.Flags().Changed("api-key") {
		cfg.APIKey = apiKey
	}
	if cmd.Flags().Changed("db-url") {
		cfg.DatabaseURL = databaseURL
	}
	if cmd.Flags().Changed("verbose") {
		cfg.Verbose = verbose
	}

	cfg.FromEnv()

	cfg = cfg.MergeWithDefaults(config.Config{
		FilterLimit:   200,
		FilterWorkers: 4,
	})

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// openStore connects to the signal database, which every command needs.
func openStore(ctx context.Context, cfg *config.Config) (*db.DB, error) {
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("database URL is required (set --db-url, config 'database_url', or %s)", config.EnvDatabaseURL)
	}
	return db.Connect(ctx, cfg.DatabaseURL)
}

// buildCollectors assembles the configured source collectors.
func buildCollectors(cfg *config.Config) []collect.Collector {
	hn := collect.NewHackerNews()
	if len(cfg.HNQueries) > 0 {
		hn.Queries = cfg.HNQueries
	}
	reddit := collect.NewReddit()
	if len(cfg.Subreddits) > 0 {
		reddit.Subreddits = cfg.Subreddits
	}
	uspto := collect.NewUSPTO()
	if len(cfg.USPTOTerms) > 0 {
		uspto.SearchTerms = cfg.USPTOTerms
	}

	return []collect.Collector{
		hn,
		reddit,
		collect.NewRSSFeed(types.SourceBevNET, collect.DefaultBevNETFeedURL),
		collect.NewRSSFeed(types.SourceNosh, collect.DefaultNoshFeedURL),
		uspto,
	}
}

// buildClassifier creates the Gemini-backed thesis classifier.
func buildClassifier(ctx context.Context, cfg *config.Config) (classify.Classifier, func(), error) {
	if cfg.APIKey == "" {
		return nil, nil, fmt.Errorf("Gemini API key is required (set --api-key, config 'api_key', or %s)", config.EnvAPIKey)
	}
	client, err := llm.NewClient(ctx, llm.DefaultConfig(), cfg.APIKey)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create LLM client: %w", err)
	}
	return classify.New(client), func() { _ = client.Close() }, nil
}

// buildInbox creates the review-inbox client.
func buildInbox(cfg *config.Config) (*notion.Client, error) {
	if cfg.NotionToken == "" || cfg.NotionDatabaseID == "" {
		return nil, fmt.Errorf("Notion credentials are required (set config 'notion_token' and 'notion_database_id', or %s and %s)",
			config.EnvNotionToken, config.EnvNotionDatabaseID)
	}
	return notion.NewClient(cfg.NotionToken, cfg.NotionDatabaseID), nil
}
