package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/signal-scout/internal/pipeline"
)

var filterCommand = &cobra.Command{
	Use:   "filter",
	Short: "Filter unprocessed signals",
	Long: `Evaluates stored signals that have not been routed yet: the keyword
disqualifier first, then the LLM thesis classifier for survivors. Signals
stranded in pending_filter by an earlier classifier outage are retried.`,
	RunE: runFilterCmd,
}

var (
	filterConfigPath  string
	filterAPIKey      string
	filterDatabaseURL string
	filterLimitFlag   int
	filterWorkersFlag int
	filterVerbose     bool
)

func init() {
	filterCommand.Flags().StringVar(&filterConfigPath, "config", "", "Path to config.json file")
	filterCommand.Flags().StringVar(&filterAPIKey, "api-key", "", "Gemini API Key (optional, defaults to GEMINI_API_KEY env var)")
	filterCommand.Flags().StringVar(&filterDatabaseURL, "db-url", "", "PostgreSQL connection URL (optional, defaults to DATABASE_URL env var)")
	filterCommand.Flags().IntVar(&filterLimitFlag, "limit", 0, "Maximum signals evaluated in this pass")
	filterCommand.Flags().IntVar(&filterWorkersFlag, "workers", 0, "Concurrent classifier calls")
	filterCommand.Flags().BoolVarP(&filterVerbose, "verbose", "v", false, "Print detailed debug information")

	rootCmd.AddCommand(filterCommand)
}

func runFilterCmd(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	cfg, err := loadConfig(cmd, filterConfigPath, filterAPIKey, filterDatabaseURL, filterVerbose)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("limit") {
		cfg.FilterLimit = filterLimitFlag
	}
	if cmd.Flags().Changed("workers") {
		cfg.FilterWorkers = filterWorkersFlag
	}

	store, err := openStore(ctx, &cfg)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer store.Close()

	classifier, closeClassifier, err := buildClassifier(ctx, &cfg)
	if err != nil {
		return err
	}
	defer closeClassifier()

	stats, err := pipeline.RunFilter(ctx, pipeline.RunOptions{
		Store:         store,
		Classifier:    classifier,
		FilterLimit:   cfg.FilterLimit,
		FilterWorkers: cfg.FilterWorkers,
		Verbose:       cfg.Verbose,
	})
	if err != nil {
		return err
	}

	fmt.Printf("Evaluated %d signals (%d auto-rejected, %d llm-rejected, %d review, %d auto-approved, %d errors)\n",
		stats.Evaluated, stats.AutoRejected, stats.LLMRejected, stats.Review, stats.AutoApproved, stats.Errors)
	return nil
}
