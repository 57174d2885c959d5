package collector

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/bits-and-blooms/bloom/v3"

	"match-analyzer/internal/dataset"
	"match-analyzer/internal/riot"
)

// HistoryAPI is the part of the Riot client the harvester needs
type HistoryAPI interface {
	GetMatchHistory(ctx context.Context, puuid string, q riot.HistoryQuery) ([]string, error)
}

// LadderAPI lists the players of a ranked ladder
type LadderAPI interface {
	GetLeagueEntries(ctx context.Context, tier, division string, page int) ([]string, error)
}

// HarvestResult is the outcome of a harvest across several players
type HarvestResult struct {
	Dataset dataset.Dataset
	Summary dataset.Summary
	// Players whose history was built; failed players are counted separately
	Players       int
	PlayersFailed int
	// Match ids dropped because an earlier player already settled them
	Overlapping int
}

// Harvester builds the dataset from the match histories of many players.
// Each player is built from their own perspective, one at a time.
type Harvester struct {
	history HistoryAPI
	builder *dataset.Builder
	pacer   dataset.Pacer
	query   riot.HistoryQuery

	// Matches already built or deliberately skipped by an earlier player
	// (bloom filter for memory efficiency). Errored matches stay out so a
	// later player can retry them.
	queued *bloom.BloomFilter

	startTime time.Time
}

// NewHarvester creates a harvester. The pacer is awaited before each history
// request; match fetches are paced by the builder.
func NewHarvester(history HistoryAPI, builder *dataset.Builder, pacer dataset.Pacer, query riot.HistoryQuery) *Harvester {
	return &Harvester{
		history: history,
		builder: builder,
		pacer:   pacer,
		query:   query,
		queued:  bloom.NewWithEstimates(500000, 0.001),
	}
}

// Run harvests every player in order, carrying the dataset forward. A
// rejected API key aborts the harvest; other per-player failures are logged
// and skipped. On cancellation the partial result is returned with ctx.Err().
func (h *Harvester) Run(ctx context.Context, puuids []string, existing dataset.Dataset) (*HarvestResult, error) {
	h.startTime = time.Now()
	res := &HarvestResult{Dataset: existing}

	for i, puuid := range puuids {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		if err := h.pacer.Wait(ctx); err != nil {
			return res, err
		}
		ids, err := h.history.GetMatchHistory(ctx, puuid, h.query)
		if err != nil {
			if ctx.Err() != nil {
				return res, ctx.Err()
			}
			if IsAPIKeyError(err) {
				return res, keyError(err, "match history")
			}
			log.Printf("[Harvester] Failed to fetch match history for %s: %v (skipping)", shortID(puuid), err)
			res.PlayersFailed++
			continue
		}

		fresh := h.filterQueued(ids)
		res.Overlapping += len(ids) - len(fresh)

		fmt.Printf("[Player %d/%d] [%s] %s...: %d matches, %d new to this harvest\n",
			i+1, len(puuids), formatDuration(time.Since(h.startTime)), shortID(puuid), len(ids), len(fresh))

		built, err := h.builder.Build(ctx, fresh, puuid, res.Dataset)
		if built != nil {
			res.Dataset = built.Dataset
			res.Summary.Merge(built.Summary)
			h.markQueued(built.Outcomes)
		}
		if err != nil {
			return res, err
		}
		res.Players++

		if keyErr := firstKeyError(built.Outcomes); keyErr != nil {
			return res, keyError(keyErr, "match fetch")
		}
	}

	return res, nil
}

// filterQueued drops ids an earlier player already settled and repeats
// within ids
func (h *Harvester) filterQueued(ids []string) []string {
	fresh := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup || h.queued.TestString(id) {
			continue
		}
		seen[id] = struct{}{}
		fresh = append(fresh, id)
	}
	return fresh
}

// markQueued records every match the build settled. Errored matches are left
// out so the next player whose history contains them fetches them again.
func (h *Harvester) markQueued(outcomes []dataset.Outcome) {
	for _, o := range outcomes {
		if o.Status != dataset.StatusError {
			h.queued.AddString(o.MatchID)
		}
	}
}

func firstKeyError(outcomes []dataset.Outcome) error {
	for _, o := range outcomes {
		if o.Status == dataset.StatusError && IsAPIKeyError(o.Err) {
			return o.Err
		}
	}
	return nil
}

// LadderPlayers collects up to limit PUUIDs from a ranked ladder, paging
// through divisional ladders as needed
func LadderPlayers(ctx context.Context, api LadderAPI, tier, division string, page, limit int) ([]string, error) {
	if page < 1 {
		page = 1
	}

	var players []string
	for {
		batch, err := api.GetLeagueEntries(ctx, tier, division, page)
		if err != nil {
			if IsAPIKeyError(err) {
				return nil, keyError(err, "ladder")
			}
			return nil, fmt.Errorf("ladder %s %s page %d: %w", tier, division, page, err)
		}
		players = append(players, batch...)

		// Apex ladders come back whole; divisional pages end with an empty page
		if riot.IsApexTier(tier) || len(batch) == 0 || (limit > 0 && len(players) >= limit) {
			break
		}
		page++
	}

	if limit > 0 && len(players) > limit {
		players = players[:limit]
	}
	if len(players) == 0 {
		return nil, errors.New("ladder is empty")
	}
	return players, nil
}

func shortID(puuid string) string {
	if len(puuid) > 16 {
		return puuid[:16]
	}
	return puuid
}

func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	} else if d < time.Hour {
		mins := int(d.Minutes())
		secs := int(d.Seconds()) % 60
		return fmt.Sprintf("%dm%02ds", mins, secs)
	}
	hours := int(d.Hours())
	mins := int(d.Minutes()) % 60
	secs := int(d.Seconds()) % 60
	return fmt.Sprintf("%dh%02dm%02ds", hours, mins, secs)
}
