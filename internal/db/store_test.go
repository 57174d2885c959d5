package db

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"match-analyzer/internal/dataset"
	"match-analyzer/internal/match"
)

func openMemDB(t *testing.T) *SQLStore {
	t.Helper()
	s, err := OpenSQLite(context.Background(), ":memory:")
	if err != nil {
		t.Fatalf("open in-memory db: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func testRecord(id string, winner match.TeamID) match.FeatureRecord {
	return match.FeatureRecord{
		MatchID:          id,
		MyTeam:           match.TeamBlue,
		Team1Gold:        7000,
		Team2Gold:        5500,
		GoldDiff:         1500,
		GoldLeadingTeam:  match.TeamBlue,
		MyTeamAheadGold:  true,
		Team1Kills:       1,
		Team2Kills:       1,
		KillLeadingTeam:  match.TeamNone,
		MyTeamAheadKills: false,
		MyTeamWin:        winner == match.TeamBlue,
		Winner:           winner,
		WinnerAnomaly:    !winner.Valid(),
		Objectives:       match.Objectives{FirstTower: match.TeamRed, FirstDragon: match.TeamBlue},
	}
}

func TestSQLStore_PersistAndLoad(t *testing.T) {
	s := openMemDB(t)
	ctx := context.Background()

	want := dataset.Dataset{
		testRecord("LA1_9", match.TeamBlue),
		testRecord("LA1_1", match.TeamNone),
	}
	if err := s.Persist(ctx, want); err != nil {
		t.Fatalf("Persist: %v", err)
	}

	got, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("rows = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("row %d\n got: %+v\nwant: %+v", i, got[i], want[i])
		}
	}
}

func TestSQLStore_PersistIsAppendOnly(t *testing.T) {
	s := openMemDB(t)
	ctx := context.Background()

	first := dataset.Dataset{testRecord("B", match.TeamBlue), testRecord("A", match.TeamRed)}
	if err := s.Persist(ctx, first); err != nil {
		t.Fatalf("Persist: %v", err)
	}
	// Persisting the grown dataset again must not duplicate or reorder.
	grown := append(first, testRecord("C", match.TeamBlue))
	if err := s.Persist(ctx, grown); err != nil {
		t.Fatalf("second Persist: %v", err)
	}

	got, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	ids := got.IDs()
	want := []string{"B", "A", "C"}
	if len(ids) != len(want) {
		t.Fatalf("ids = %v, want %v", ids, want)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("ids = %v, want %v", ids, want)
		}
	}
}

func TestSQLStore_FileReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "early.db")

	s, err := OpenSQLite(ctx, path)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	if err := s.Persist(ctx, dataset.Dataset{testRecord("LA1_1", match.TeamRed)}); err != nil {
		t.Fatalf("Persist: %v", err)
	}
	s.Close()

	s, err = OpenSQLite(ctx, path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()

	got, err := s.Load(ctx)
	if err != nil || len(got) != 1 || got[0].Winner != match.TeamRed {
		t.Errorf("Load = %+v, %v", got, err)
	}
}

func TestPGStore_Integration(t *testing.T) {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		t.Skip("DATABASE_URL not set, skipping Postgres integration test")
	}
	ctx := context.Background()

	s, err := OpenPostgres(ctx, dbURL)
	if err != nil {
		t.Fatalf("OpenPostgres: %v", err)
	}
	defer s.Close()

	if _, err := s.pool.Exec(ctx, `DELETE FROM early_features WHERE match_id LIKE 'TEST_%'`); err != nil {
		t.Fatalf("cleanup: %v", err)
	}

	d := dataset.Dataset{testRecord("TEST_1", match.TeamBlue), testRecord("TEST_2", match.TeamNone)}
	if err := s.Persist(ctx, d); err != nil {
		t.Fatalf("Persist: %v", err)
	}
	if err := s.Persist(ctx, d); err != nil {
		t.Fatalf("second Persist: %v", err)
	}

	got, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	found := 0
	for _, r := range got {
		if r.MatchID == "TEST_2" && !r.WinnerAnomaly {
			t.Error("NULL winner should load as an anomaly")
		}
		if r.MatchID == "TEST_1" || r.MatchID == "TEST_2" {
			found++
		}
	}
	if found != 2 {
		t.Errorf("found %d test rows, want 2", found)
	}
}
