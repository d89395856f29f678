package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/signal-scout/internal/pipeline"
)

var runCommand = &cobra.Command{
	Use:   "run",
	Short: "Run the full signal pipeline end-to-end",
	Long: `Orchestrates the entire signal lifecycle: collect -> filter -> push -> poll.

Each stage reads its input from stored signal state, so an interrupted run
resumes where it left off. Configuration can be loaded from a JSON file
using --config; command-line arguments override config file values.`,
	RunE: runPipelineCmd,
}

var (
	runConfigPath    string
	runAPIKey        string
	runDatabaseURL   string
	runFilterLimit   int
	runFilterWorkers int
	runVerbose       bool
)

func init() {
	runCommand.Flags().StringVar(&runConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")
	runCommand.Flags().StringVar(&runAPIKey, "api-key", "", "Gemini API Key (optional, defaults to GEMINI_API_KEY env var)")
	runCommand.Flags().StringVar(&runDatabaseURL, "db-url", "", "PostgreSQL connection URL (optional, defaults to DATABASE_URL env var)")
	runCommand.Flags().IntVar(&runFilterLimit, "filter-limit", 0, "Maximum signals evaluated per filter pass")
	runCommand.Flags().IntVar(&runFilterWorkers, "filter-workers", 0, "Concurrent classifier calls")
	runCommand.Flags().BoolVarP(&runVerbose, "verbose", "v", false, "Print detailed debug information")

	rootCmd.AddCommand(runCommand)
}

func runPipelineCmd(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	cfg, err := loadConfig(cmd, runConfigPath, runAPIKey, runDatabaseURL, runVerbose)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("filter-limit") {
		cfg.FilterLimit = runFilterLimit
	}
	if cmd.Flags().Changed("filter-workers") {
		cfg.FilterWorkers = runFilterWorkers
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

	inbox, err := buildInbox(&cfg)
	if err != nil {
		return err
	}

	return pipeline.RunPipeline(ctx, pipeline.RunOptions{
		Collectors:    buildCollectors(&cfg),
		Store:         store,
		Classifier:    classifier,
		Inbox:         inbox,
		FilterLimit:   cfg.FilterLimit,
		FilterWorkers: cfg.FilterWorkers,
		Verbose:       cfg.Verbose,
	})
}
