package riot

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/joho/godotenv"
)

func TestTierOrder(t *testing.T) {
	expectedOrder := []string{
		"IRON", "BRONZE", "SILVER", "GOLD", "PLATINUM",
		"EMERALD", "DIAMOND", "MASTER", "GRANDMASTER", "CHALLENGER",
	}

	for i := 0; i < len(expectedOrder)-1; i++ {
		current, next := expectedOrder[i], expectedOrder[i+1]
		if TierOrder[current] >= TierOrder[next] {
			t.Errorf("Tier order incorrect: %s (%d) should be less than %s (%d)",
				current, TierOrder[current], next, TierOrder[next])
		}
	}
}

func TestIsApexTier(t *testing.T) {
	for tier, want := range map[string]bool{
		"DIAMOND":     false,
		"MASTER":      true,
		"GRANDMASTER": true,
		"CHALLENGER":  true,
		"":            false,
	} {
		if got := IsApexTier(tier); got != want {
			t.Errorf("IsApexTier(%q) = %v, want %v", tier, got, want)
		}
	}
}

// TestChallengerMatch_Integration walks ladder -> history -> match -> timeline
// against the live API
func TestChallengerMatch_Integration(t *testing.T) {
	godotenv.Load("../../.env")

	apiKey := os.Getenv("RIOT_API_KEY")
	if apiKey == "" {
		t.Skip("RIOT_API_KEY not set, skipping integration test")
	}

	client, err := NewClient(apiKey)
	if err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	players, err := client.GetChallengerLadder(ctx)
	if err != nil {
		t.Fatalf("GetChallengerLadder failed: %v", err)
	}
	if len(players) == 0 {
		t.Fatal("Challenger ladder is empty")
	}
	t.Logf("Got %d challenger players", len(players))

	ids, err := client.GetMatchHistory(ctx, players[0], HistoryQuery{Queue: 420, Type: "ranked", Count: 1})
	if err != nil {
		t.Fatalf("GetMatchHistory failed: %v", err)
	}
	if len(ids) == 0 {
		t.Skip("Top player has no recent ranked matches")
	}

	m, err := client.GetMatch(ctx, ids[0])
	if err != nil {
		t.Fatalf("GetMatch failed: %v", err)
	}
	if len(m.Info.Participants) != 10 {
		t.Errorf("Expected 10 participants, got %d", len(m.Info.Participants))
	}

	tl, err := client.GetTimeline(ctx, ids[0])
	if err != nil {
		t.Fatalf("GetTimeline failed: %v", err)
	}
	if len(tl.Info.Frames) == 0 {
		t.Error("Timeline has no frames")
	}
	t.Logf("Match %s: %d frames", ids[0], len(tl.Info.Frames))
}
