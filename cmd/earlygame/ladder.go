package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"match-analyzer/internal/collector"
	"match-analyzer/internal/riot"
)

var (
	ladderTier        string
	ladderDivision    string
	ladderPage        int
	ladderPlayers     int
	ladderCount       int
	ladderCheckpoint  int
	ladderMetricsAddr string
)

var ladderCmd = &cobra.Command{
	Use:   "ladder",
	Short: "Harvest matches from the players of a ranked ladder",
	Long: `List the players of a ranked solo queue ladder and build each one's
recent matches from their own perspective. A match seen through an earlier
player is not fetched again. A rejected API key stops the harvest; other
per-player failures are logged and skipped.`,
	Example: `  earlygame ladder --tier CHALLENGER --players 50
  earlygame ladder --tier DIAMOND --division II --page 3 --count 10`,
	Args: cobra.NoArgs,
	RunE: runLadder,
}

func init() {
	ladderCmd.Flags().StringVar(&ladderTier, "tier", "CHALLENGER", "ladder tier (IRON..CHALLENGER)")
	ladderCmd.Flags().StringVar(&ladderDivision, "division", "I", "division for tiers below MASTER (I-IV)")
	ladderCmd.Flags().IntVar(&ladderPage, "page", 1, "first ladder page for divisional tiers")
	ladderCmd.Flags().IntVar(&ladderPlayers, "players", 20, "maximum players to harvest")
	ladderCmd.Flags().IntVar(&ladderCount, "count", 20, "matches to request per player (max 100)")
	ladderCmd.Flags().IntVar(&ladderCheckpoint, "checkpoint", 0, "persist the dataset after every N added rows (0 = only at the end)")
	ladderCmd.Flags().StringVar(&ladderMetricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address (e.g. :9100)")
}

func runLadder(cmd *cobra.Command, args []string) error {
	tier, division := strings.ToUpper(ladderTier), strings.ToUpper(ladderDivision)
	if err := riot.ValidateLadder(tier, division); err != nil {
		return err
	}
	if ladderCount < 1 || ladderCount > 100 {
		return fmt.Errorf("--count must be between 1 and 100, got %d", ladderCount)
	}

	ctx, stop := collector.SetupSignalHandler(cmd.Context(), nil)
	defer stop()

	s, err := newSession(ctx, sessionOptions{checkpoint: ladderCheckpoint, metricsAddr: ladderMetricsAddr})
	if err != nil {
		return err
	}

	source := tier + " ladder"
	if !riot.IsApexTier(tier) {
		source = fmt.Sprintf("%s %s ladder", tier, division)
	}

	fmt.Printf("Listing %s...\n", source)
	players, err := collector.LadderPlayers(ctx, s.client, tier, division, ladderPage, ladderPlayers)
	if err != nil {
		s.close()
		return err
	}
	fmt.Printf("  Found %d players\n", len(players))

	h := collector.NewHarvester(s.client, s.builder, s.pacer, s.historyQuery(0, ladderCount))
	res, err := h.Run(ctx, players, s.existing)

	fmt.Printf("\nPlayers built: %d, failed: %d, overlapping matches skipped: %d\n",
		res.Players, res.PlayersFailed, res.Overlapping)
	return s.finish(source, res.Dataset, res.Summary, nil, err)
}
