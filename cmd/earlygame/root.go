package main

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"match-analyzer/internal/config"
)

var (
	configPath  string
	datasetPath string

	// cfg is loaded before any subcommand runs
	cfg config.Config
)

var rootCmd = &cobra.Command{
	Use:   "earlygame",
	Short: "Early-game feature dataset builder",
	Long: `Fetch ranked matches from the Riot API, extract gold and kill state at
minute 10 from the tracked player's perspective, and append one row per match
to a dataset (CSV, SQLite, Turso or Postgres).`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: loadConfig,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to YAML config file")
	rootCmd.PersistentFlags().StringVar(&datasetPath, "dataset", "", "dataset CSV path, .db/.sqlite file, or postgres:// / libsql:// URL (overrides DATASET_PATH)")

	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(ladderCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(checkKeyCmd)
}

func loadConfig(cmd *cobra.Command, args []string) error {
	if path := config.LoadDotEnv(); path != "" {
		fmt.Printf("Loaded .env from: %s\n", path)
	} else {
		log.Println("No .env file found, using environment variables")
	}

	c, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if datasetPath != "" {
		c.DatasetPath = datasetPath
	}
	cfg = c
	return nil
}
