package dataset

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"match-analyzer/internal/match"
)

func sampleRecord(id string) match.FeatureRecord {
	return match.FeatureRecord{
		MatchID:          id,
		MyTeam:           match.TeamRed,
		Team1Gold:        7000,
		Team2Gold:        5500,
		GoldDiff:         -1500,
		GoldLeadingTeam:  match.TeamBlue,
		MyTeamAheadGold:  false,
		Team1Kills:       1,
		Team2Kills:       1,
		KillDiff:         0,
		KillLeadingTeam:  match.TeamNone,
		MyTeamAheadKills: false,
		MyTeamWin:        true,
		Winner:           match.TeamRed,
	}
}

func TestCSVStore_PersistAndLoad(t *testing.T) {
	store := NewCSVStore(filepath.Join(t.TempDir(), "data", "early.csv"))
	ctx := context.Background()

	anomaly := sampleRecord("LA1_2")
	anomaly.Winner, anomaly.WinnerAnomaly = match.TeamNone, true
	want := Dataset{sampleRecord("LA1_1"), anomaly}

	if err := store.Persist(ctx, want); err != nil {
		t.Fatalf("Persist: %v", err)
	}
	got, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("rows = %d", len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("row %d\n got: %+v\nwant: %+v", i, got[i], want[i])
		}
	}

	entries, _ := os.ReadDir(filepath.Dir(store.Path))
	if len(entries) != 1 {
		t.Errorf("temp files left behind: %d entries", len(entries))
	}
}

func TestCSVStore_Format(t *testing.T) {
	var b strings.Builder
	if err := WriteCSV(&b, Dataset{sampleRecord("LA1_1")}); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	want := strings.Join(Columns, ",") + "\n" +
		"LA1_1,200,7000,5500,-1500,100,False,1,1,0,0,False,True,200\n"
	if b.String() != want {
		t.Errorf("csv =\n%s\nwant\n%s", b.String(), want)
	}
}

func TestCSVStore_LoadMissingFile(t *testing.T) {
	d, err := NewCSVStore(filepath.Join(t.TempDir(), "none.csv")).Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(d) != 0 {
		t.Errorf("rows = %d, want 0", len(d))
	}
}

func TestReadCSV_Tolerant(t *testing.T) {
	// Float-typed integers, lowercase booleans, an empty winner and an
	// extra column all load.
	raw := "extra," + strings.Join(Columns, ",") + "\n" +
		"x,LA1_1,100.0,7000.0,5500,1500,100,true,3,1,2,100,TRUE,1,\n"

	d, err := ReadCSV(context.Background(), strings.NewReader(raw))
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	r := d[0]
	if r.MyTeam != match.TeamBlue || r.Team1Gold != 7000 || !r.MyTeamAheadGold || !r.MyTeamWin {
		t.Errorf("record = %+v", r)
	}
	if r.Winner != match.TeamNone || !r.WinnerAnomaly {
		t.Errorf("winner = %v anomaly = %v", r.Winner, r.WinnerAnomaly)
	}
}

func TestReadCSV_Corrupt(t *testing.T) {
	header := strings.Join(Columns, ",") + "\n"
	tests := []struct {
		name string
		raw  string
	}{
		{"missing column", "match_id,my_team\nLA1_1,100\n"},
		{"empty match id", header + ",100,1,1,0,0,False,0,0,0,0,False,False,100\n"},
		{"bad integer", header + "LA1_1,100,lots,1,0,0,False,0,0,0,0,False,False,100\n"},
		{"bad boolean", header + "LA1_1,100,1,1,0,0,maybe,0,0,0,0,False,False,100\n"},
		{"bad team", header + "LA1_1,300,1,1,0,0,False,0,0,0,0,False,False,100\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadCSV(context.Background(), strings.NewReader(tt.raw))
			if !errors.Is(err, ErrCorruptDataset) {
				t.Errorf("err = %v, want ErrCorruptDataset", err)
			}
		})
	}
}

func TestSummarize(t *testing.T) {
	ahead := sampleRecord("A")
	ahead.MyTeam, ahead.GoldLeadingTeam, ahead.MyTeamWin = match.TeamBlue, match.TeamBlue, true
	ahead.Objectives.FirstTower = match.TeamBlue

	behind := sampleRecord("B")
	behind.MyTeamWin = false

	anomaly := sampleRecord("C")
	anomaly.GoldLeadingTeam = match.TeamNone
	anomaly.Winner, anomaly.WinnerAnomaly = match.TeamNone, true

	s := Summarize(Dataset{ahead, behind, anomaly})
	if s.Rows != 3 || s.Anomalies != 1 {
		t.Errorf("rows=%d anomalies=%d", s.Rows, s.Anomalies)
	}
	if s.Gold.Ahead != (Rate{Games: 1, Wins: 1}) {
		t.Errorf("gold ahead = %+v", s.Gold.Ahead)
	}
	if s.Gold.Behind != (Rate{Games: 1, Wins: 0}) {
		t.Errorf("gold behind = %+v", s.Gold.Behind)
	}
	if s.Gold.Even.Games != 1 {
		t.Errorf("gold even = %+v", s.Gold.Even)
	}
	if s.Kills.Even.Games != 3 {
		t.Errorf("kills even = %+v", s.Kills.Even)
	}
	if !s.HasObjectives || s.FirstTower.Ahead.Games != 1 {
		t.Errorf("first tower = %+v", s.FirstTower)
	}
	if got := s.Overall.Pct(); got < 66 || got > 67 {
		t.Errorf("overall pct = %.2f", got)
	}
}
