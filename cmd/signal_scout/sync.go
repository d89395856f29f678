package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/signal-scout/internal/pipeline"
)

var syncCommand = &cobra.Command{
	Use:   "sync",
	Short: "Push qualified signals to the review inbox and pull decisions back",
	Long: `Pushes every qualified signal that is not yet in the Notion review
inbox, then polls the inbox for reviewer decisions and records them. A
decision that conflicts with one already recorded is reported and skipped.`,
	RunE: runSyncCmd,
}

var (
	syncConfigPath  string
	syncDatabaseURL string
	syncPushOnly    bool
	syncPollOnly    bool
	syncVerbose     bool
)

func init() {
	syncCommand.Flags().StringVar(&syncConfigPath, "config", "", "Path to config.json file")
	syncCommand.Flags().StringVar(&syncDatabaseURL, "db-url", "", "PostgreSQL connection URL (optional, defaults to DATABASE_URL env var)")
	syncCommand.Flags().BoolVar(&syncPushOnly, "push-only", false, "Only push qualified signals; skip decision polling")
	syncCommand.Flags().BoolVar(&syncPollOnly, "poll-only", false, "Only poll decisions; skip pushing")
	syncCommand.Flags().BoolVarP(&syncVerbose, "verbose", "v", false, "Print detailed debug information")

	rootCmd.AddCommand(syncCommand)
}

func runSyncCmd(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	if syncPushOnly && syncPollOnly {
		return fmt.Errorf("--push-only and --poll-only are mutually exclusive")
	}

	cfg, err := loadConfig(cmd, syncConfigPath, "", syncDatabaseURL, syncVerbose)
	if err != nil {
		return err
	}

	store, err := openStore(ctx, &cfg)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer store.Close()

	inbox, err := buildInbox(&cfg)
	if err != nil {
		return err
	}

	opts := pipeline.RunOptions{
		Store:   store,
		Inbox:   inbox,
		Verbose: cfg.Verbose,
	}

	if !syncPollOnly {
		pushStats, err := pipeline.RunPush(ctx, opts)
		if err != nil {
			return err
		}
		fmt.Printf("Pushed %d signals (%d failed)\n", pushStats.Pushed, pushStats.Failed)
	}

	if !syncPushOnly {
		pollStats, err := pipeline.RunPoll(ctx, opts)
		if err != nil {
			return err
		}
		fmt.Printf("Synced %d decisions (%d conflicts, %d unknown pages)\n",
			pollStats.Synced, pollStats.Conflicts, pollStats.Unknown)
	}

	return nil
}
