package main

import (
	"fmt"
	"log"
	"time"

	"github.com/spf13/cobra"

	"match-analyzer/internal/collector"
	"match-analyzer/internal/dataset"
	"match-analyzer/internal/riot"
)

var (
	buildRiotID      string
	buildPUUID       string
	buildCount       int
	buildStart       int
	buildCheckpoint  int
	buildMetricsAddr string
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Add a player's recent ranked matches to the dataset",
	Long: `Resolve the player, fetch their match history and append one feature row
per new match. Matches already in the dataset are skipped, so re-running is
safe. Ctrl-C stops after the current match and keeps what was built.`,
	Example: `  earlygame build --riot-id 'Faker#KR1' --count 50
  earlygame build --puuid <PUUID> --dataset early.db --checkpoint 10`,
	Args: cobra.NoArgs,
	RunE: runBuild,
}

func init() {
	buildCmd.Flags().StringVar(&buildRiotID, "riot-id", "", "player Riot ID (e.g. 'Player#NA1')")
	buildCmd.Flags().StringVar(&buildPUUID, "puuid", "", "player PUUID")
	buildCmd.Flags().IntVar(&buildCount, "count", 20, "number of matches to request (max 100)")
	buildCmd.Flags().IntVar(&buildStart, "start", 0, "history offset, most recent first")
	buildCmd.Flags().IntVar(&buildCheckpoint, "checkpoint", 0, "persist the dataset after every N added rows (0 = only at the end)")
	buildCmd.Flags().StringVar(&buildMetricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address (e.g. :9100)")
	buildCmd.MarkFlagsMutuallyExclusive("riot-id", "puuid")
	buildCmd.MarkFlagsOneRequired("riot-id", "puuid")
}

func runBuild(cmd *cobra.Command, args []string) error {
	if buildCount < 1 || buildCount > 100 {
		return fmt.Errorf("--count must be between 1 and 100, got %d", buildCount)
	}

	ctx, stop := collector.SetupSignalHandler(cmd.Context(), nil)
	defer stop()

	s, err := newSession(ctx, sessionOptions{checkpoint: buildCheckpoint, metricsAddr: buildMetricsAddr})
	if err != nil {
		return err
	}

	puuid, source := buildPUUID, buildPUUID
	if buildRiotID != "" {
		gameName, tagLine, err := riot.ParseRiotID(buildRiotID)
		if err != nil {
			s.close()
			return err
		}
		fmt.Printf("Looking up Riot ID: %s#%s...\n", gameName, tagLine)
		account, err := s.client.GetAccountByRiotID(ctx, gameName, tagLine)
		if err != nil {
			s.close()
			return fmt.Errorf("lookup %s: %w", buildRiotID, err)
		}
		fmt.Printf("  Found PUUID: %s\n", account.PUUID)
		puuid, source = account.PUUID, account.RiotID()
	} else if account, err := s.client.GetAccountByPUUID(ctx, puuid); err != nil {
		// Reports fall back to the raw PUUID
		log.Printf("[Build] Could not resolve Riot ID for %s: %v", puuid, err)
	} else {
		fmt.Printf("Building for %s\n", account.RiotID())
		source = account.RiotID()
	}

	ids, err := s.client.GetMatchHistory(ctx, puuid, s.historyQuery(buildStart, buildCount))
	if err != nil {
		if ctx.Err() != nil || collector.IsAPIKeyError(err) {
			return s.finish(source, nil, dataset.Summary{}, nil, err)
		}
		s.close()
		return fmt.Errorf("match history: %w", err)
	}
	fmt.Printf("Found %d matches (queue %d, minute %d, %s between requests)\n",
		len(ids), cfg.Queue, cfg.Minute, cfg.Interval.Round(time.Millisecond))

	res, err := s.builder.Build(ctx, ids, puuid, s.existing)
	if res == nil {
		s.close()
		return err
	}
	if err == nil {
		err = rejectedKey(res.Outcomes)
	}
	return s.finish(source, res.Dataset, res.Summary, res.Outcomes, err)
}

// rejectedKey returns the first match error caused by a rejected API key
func rejectedKey(outcomes []dataset.Outcome) error {
	for _, o := range outcomes {
		if o.Status == dataset.StatusError && collector.IsAPIKeyError(o.Err) {
			return fmt.Errorf("match %s: %w", o.MatchID, o.Err)
		}
	}
	return nil
}
