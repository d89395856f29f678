// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config represents the CLI configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults or must be provided via
// CLI flags or environment variables.
type Config struct {
	// Credentials
	APIKey           string `json:"api_key,omitempty"`            // Gemini API key
	NotionToken      string `json:"notion_token,omitempty"`       // Notion integration token
	NotionDatabaseID string `json:"notion_database_id,omitempty"` // Review inbox database ID
	DatabaseURL      string `json:"database_url,omitempty"`       // PostgreSQL connection URL

	// Collection
	Subreddits []string `json:"subreddits,omitempty"`  // Subreddits to watch
	HNQueries  []string `json:"hn_queries,omitempty"`  // Hacker News search queries
	USPTOTerms []string `json:"uspto_terms,omitempty"` // Trademark search terms

	// Limits
	FilterLimit   int `json:"filter_limit,omitempty"`   // Max signals evaluated per filter pass
	FilterWorkers int `json:"filter_workers,omitempty"` // Concurrent classifier calls

	// Behavior
	Verbose bool `json:"verbose,omitempty"` // Print detailed debug information
}

// Environment variable names read by FromEnv
const (
	EnvAPIKey           = "GEMINI_API_KEY"
	EnvNotionToken      = "NOTION_TOKEN"
	EnvNotionDatabaseID = "NOTION_DATABASE_ID"
	EnvDatabaseURL      = "DATABASE_URL"
)

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// FromEnv fills credential fields that are still empty from the environment.
func (c *Config) FromEnv() {
	if c.APIKey == "" {
		c.APIKey = os.Getenv(EnvAPIKey)
	}
	if c.NotionToken == "" {
		c.NotionToken = os.Getenv(EnvNotionToken)
	}
	if c.NotionDatabaseID == "" {
		c.NotionDatabaseID = os.Getenv(EnvNotionDatabaseID)
	}
	if c.DatabaseURL == "" {
		c.DatabaseURL = os.Getenv(EnvDatabaseURL)
	}
}

// Validate checks that the configuration has valid values.
// Required fields are checked by the commands that need them, after env
// and flag merging.
func (c *Config) Validate() error {
	if c.FilterLimit < 0 {
		return fmt.Errorf("config error: 'filter_limit' must be non-negative")
	}
	if c.FilterWorkers < 0 {
		return fmt.Errorf("config error: 'filter_workers' must be non-negative")
	}
	if c.NotionToken != "" && c.NotionDatabaseID == "" {
		return fmt.Errorf("config error: 'notion_database_id' is required when 'notion_token' is set")
	}
	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}
	if result.NotionToken == "" {
		result.NotionToken = defaults.NotionToken
	}
	if result.NotionDatabaseID == "" {
		result.NotionDatabaseID = defaults.NotionDatabaseID
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if len(result.Subreddits) == 0 {
		result.Subreddits = defaults.Subreddits
	}
	if len(result.HNQueries) == 0 {
		result.HNQueries = defaults.HNQueries
	}
	if len(result.USPTOTerms) == 0 {
		result.USPTOTerms = defaults.USPTOTerms
	}
	if result.FilterLimit == 0 {
		result.FilterLimit = defaults.FilterLimit
	}
	if result.FilterWorkers == 0 {
		result.FilterWorkers = defaults.FilterWorkers
	}
	if !result.Verbose {
		result.Verbose = defaults.Verbose
	}

	return result
}
