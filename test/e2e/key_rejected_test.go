//go:build e2e

package e2e

import (
	"context"
	"testing"

	"match-analyzer/internal/collector"
	"match-analyzer/internal/dataset"
	"match-analyzer/internal/riot"
)

// TestKeyRejected_StopsLadderHarvest harvests a two-player Challenger ladder
// where the key is revoked partway through the second player:
// - the harvest stops with an API key error
// - the first player's rows are kept
func TestKeyRejected_StopsLadderHarvest(t *testing.T) {
	ctx := context.Background()
	server := newFakeRiotServer(t)
	server.challenger = []string{"P1", "P6"}
	server.histories["P1"] = []string{"LA1_1", "LA1_2"}
	server.histories["P6"] = []string{"LA1_2", "LA1_3"}
	server.rejected["LA1_3"] = true

	client := server.client(t)
	players, err := collector.LadderPlayers(ctx, client, "CHALLENGER", "", 1, 10)
	if err != nil {
		t.Fatalf("LadderPlayers: %v", err)
	}
	if len(players) != 2 || players[0] != "P1" {
		t.Fatalf("players = %v", players)
	}

	h := collector.NewHarvester(client, newBuilder(client, nil), dataset.NoPacer{}, riot.HistoryQuery{Queue: 420, Count: 20})
	res, err := h.Run(ctx, players, nil)
	if !collector.IsAPIKeyError(err) {
		t.Fatalf("Run error = %v, want API key error", err)
	}
	if got := res.Dataset.IDs(); len(got) != 2 || got[0] != "LA1_1" || got[1] != "LA1_2" {
		t.Errorf("ids = %v", got)
	}
	if res.Overlapping != 1 {
		t.Errorf("Overlapping = %d, want 1", res.Overlapping)
	}
}
