package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/signal-scout/internal/observability"
)

var statusCommand = &cobra.Command{
	Use:   "status",
	Short: "Show signal counts and recent collector runs",
	RunE:  runStatusCmd,
}

var (
	statusConfigPath  string
	statusDatabaseURL string
	statusRunLimit    int
)

func init() {
	statusCommand.Flags().StringVar(&statusConfigPath, "config", "", "Path to config.json file")
	statusCommand.Flags().StringVar(&statusDatabaseURL, "db-url", "", "PostgreSQL connection URL (optional, defaults to DATABASE_URL env var)")
	statusCommand.Flags().IntVar(&statusRunLimit, "runs", 10, "Number of recent collector runs to show")

	rootCmd.AddCommand(statusCommand)
}

func runStatusCmd(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	cfg, err := loadConfig(cmd, statusConfigPath, "", statusDatabaseURL, false)
	if err != nil {
		return err
	}

	store, err := openStore(ctx, &cfg)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer store.Close()

	counts, err := store.CountByStatus(ctx)
	if err != nil {
		return fmt.Errorf("failed to count signals: %w", err)
	}

	runs, err := store.RecentCollectorRuns(ctx, statusRunLimit)
	if err != nil {
		return fmt.Errorf("failed to list collector runs: %w", err)
	}

	printer := observability.NewPrinter(os.Stdout)
	printer.PrintStatusCounts(counts)
	printer.PrintCollectorRuns(runs)
	return nil
}
