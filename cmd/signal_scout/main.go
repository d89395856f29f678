// Package main provides the entry point for the Signal Scout CLI.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "signal_scout",
	Short: "Consumer signal lifecycle engine",
	Long:  "Signal Scout collects early consumer-company signals from Hacker News, Reddit, trade-press feeds, and USPTO trademark filings, filters them against an investment thesis, and routes qualified signals to a Notion review inbox.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
