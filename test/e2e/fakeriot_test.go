//go:build e2e

package e2e

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	json "github.com/goccy/go-json"

	"match-analyzer/internal/collector"
	"match-analyzer/internal/dataset"
	"match-analyzer/internal/match"
	"match-analyzer/internal/riot"
	"match-analyzer/internal/storage"
)

// fakeRiotServer serves Match-V5 and League-V4 over HTTP. Every match has
// players P1..P10, blue wins, and blue leads 7000 to 5500 gold at minute 10.
type fakeRiotServer struct {
	*httptest.Server

	mu         sync.Mutex
	histories  map[string][]string
	challenger []string
	// matches answered with 403, as a revoked key would be
	rejected   map[string]bool
	matchCalls int
}

func newFakeRiotServer(t *testing.T) *fakeRiotServer {
	t.Helper()
	f := &fakeRiotServer{
		histories: make(map[string][]string),
		rejected:  make(map[string]bool),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /lol/match/v5/matches/by-puuid/{puuid}/ids", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		ids := f.histories[r.PathValue("puuid")]
		f.mu.Unlock()
		writeJSON(w, ids)
	})
	mux.HandleFunc("GET /lol/match/v5/matches/{id}", func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		f.mu.Lock()
		f.matchCalls++
		rejected := f.rejected[id]
		f.mu.Unlock()
		if rejected {
			http.Error(w, `{"status":{"status_code":403,"message":"Forbidden"}}`, http.StatusForbidden)
			return
		}
		writeJSON(w, matchPayload(id))
	})
	mux.HandleFunc("GET /lol/match/v5/matches/{id}/timeline", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, timelinePayload(r.PathValue("id")))
	})
	mux.HandleFunc("GET /lol/league/v4/challengerleagues/by-queue/RANKED_SOLO_5x5", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		list := riot.LeagueListResponse{Tier: "CHALLENGER", Queue: "RANKED_SOLO_5x5"}
		for i, puuid := range f.challenger {
			list.Entries = append(list.Entries, riot.LeagueItemResponse{PUUID: puuid, LeaguePoints: 2000 - i})
		}
		f.mu.Unlock()
		writeJSON(w, list)
	})

	f.Server = httptest.NewServer(mux)
	t.Cleanup(f.Close)
	return f
}

func (f *fakeRiotServer) MatchCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.matchCalls
}

// client returns a Riot client pointed at the fake with rate limits lifted
func (f *fakeRiotServer) client(t *testing.T) *riot.Client {
	t.Helper()
	c, err := riot.NewClient("RGAPI-e2e-test-key",
		riot.WithRegionalURL(f.URL),
		riot.WithPlatformURL(f.URL),
		riot.WithRateWindows(1000, 100000),
		riot.WithHTTPClient(f.Client()),
	)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return c
}

func newBuilder(c *riot.Client, archive collector.Archiver, opts ...dataset.Option) *dataset.Builder {
	opts = append([]dataset.Option{dataset.WithPacer(dataset.NoPacer{})}, opts...)
	return dataset.NewBuilder(collector.NewRiotSource(c, archive), opts...)
}

func newRotator(t *testing.T, dir string) *storage.FileRotator {
	t.Helper()
	r, err := storage.NewFileRotator(dir)
	if err != nil {
		t.Fatalf("NewFileRotator: %v", err)
	}
	return r
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func intPtr(v int) *int    { return &v }
func boolPtr(v bool) *bool { return &v }

func matchPayload(id string) riot.MatchResponse {
	var m riot.MatchResponse
	m.Metadata.MatchID = id
	m.Info.QueueID = 420
	for slot := 1; slot <= match.MaxSlot; slot++ {
		team := 100
		if slot > match.SlotsPerTeam {
			team = 200
		}
		puuid := fmt.Sprintf("P%d", slot)
		m.Metadata.Participants = append(m.Metadata.Participants, puuid)
		m.Info.Participants = append(m.Info.Participants, riot.MatchParticipant{
			ParticipantID: slot,
			PUUID:         puuid,
			TeamID:        intPtr(team),
			Win:           boolPtr(team == 100),
		})
	}
	m.Info.Teams = []riot.MatchTeam{
		{TeamID: intPtr(100), Win: boolPtr(true)},
		{TeamID: intPtr(200), Win: boolPtr(false)},
	}
	return m
}

func timelinePayload(id string) riot.TimelineResponse {
	var tl riot.TimelineResponse
	tl.Metadata.MatchID = id
	tl.Info.FrameInterval = 60000
	for minute := 0; minute <= match.FeatureMinute; minute++ {
		frame := riot.TimelineFrame{
			Timestamp:         minute * 60000,
			ParticipantFrames: make(map[string]riot.ParticipantFrame),
		}
		for slot := 1; slot <= match.MaxSlot; slot++ {
			gold := 1400
			if slot > match.SlotsPerTeam {
				gold = 1100
			}
			frame.ParticipantFrames[fmt.Sprint(slot)] = riot.ParticipantFrame{ParticipantID: slot, TotalGold: intPtr(gold)}
		}
		if minute == 5 {
			frame.Events = []riot.TimelineEvent{
				{Type: riot.EventChampionKill, Timestamp: 5*60000 + 1000, KillerID: 2, VictimID: 7},
				{Type: riot.EventEliteMonsterKill, Timestamp: 5*60000 + 2000, KillerTeamID: 200, MonsterType: "DRAGON"},
			}
		}
		tl.Info.Frames = append(tl.Info.Frames, frame)
	}
	return tl
}
