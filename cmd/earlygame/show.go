package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"match-analyzer/internal/dataset"
	"match-analyzer/internal/report"
)

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Summarize the dataset",
	Long: `Print how often the tracked players won when their team was ahead, even
or behind in gold and kills at the cutoff minute, plus first-objective win
rates when the backend stores them.`,
	Args: cobra.NoArgs,
	RunE: runShow,
}

func runShow(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	store, closeStore, err := openStore(ctx, cfg.DatasetPath, cfg.TursoAuthToken)
	if err != nil {
		return err
	}
	defer closeStore()

	d, err := store.Load(ctx)
	if err != nil {
		return fmt.Errorf("load dataset %s: %w", cfg.DatasetPath, err)
	}

	report.PrintDatasetStats(os.Stdout, dataset.Summarize(d))
	return nil
}
