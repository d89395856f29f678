package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/signal-scout/internal/pipeline"
)

var collectCommand = &cobra.Command{
	Use:   "collect",
	Short: "Collect signals from all configured sources",
	Long:  "Runs every configured collector once and stores what it finds. Signals already seen (by content hash) are skipped; collector telemetry is recorded per source.",
	RunE:  runCollectCmd,
}

var (
	collectConfigPath  string
	collectDatabaseURL string
	collectVerbose     bool
)

func init() {
	collectCommand.Flags().StringVar(&collectConfigPath, "config", "", "Path to config.json file")
	collectCommand.Flags().StringVar(&collectDatabaseURL, "db-url", "", "PostgreSQL connection URL (optional, defaults to DATABASE_URL env var)")
	collectCommand.Flags().BoolVarP(&collectVerbose, "verbose", "v", false, "Print detailed debug information")

	rootCmd.AddCommand(collectCommand)
}

func runCollectCmd(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	cfg, err := loadConfig(cmd, collectConfigPath, "", collectDatabaseURL, collectVerbose)
	if err != nil {
		return err
	}

	store, err := openStore(ctx, &cfg)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer store.Close()

	collectors := buildCollectors(&cfg)
	fmt.Printf("Collecting from %d sources...\n", len(collectors))

	stats, err := pipeline.RunCollect(ctx, pipeline.RunOptions{
		Collectors: collectors,
		Store:      store,
		Verbose:    cfg.Verbose,
	})
	if err != nil {
		return err
	}

	fmt.Printf("Collected %d signals (%d new, %d source failures)\n", stats.Found, stats.New, stats.Failures)
	return nil
}
