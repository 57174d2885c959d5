package main

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
)

func TestOpenStore_PicksBackend(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	tests := []struct {
		locator string
		want    string
	}{
		{filepath.Join(dir, "early.csv"), "*dataset.CSVStore"},
		{filepath.Join(dir, "early"), "*dataset.CSVStore"},
		{filepath.Join(dir, "early.db"), "*db.SQLStore"},
		{filepath.Join(dir, "early.SQLITE"), "*db.SQLStore"},
	}
	for _, tt := range tests {
		store, closeStore, err := openStore(ctx, tt.locator, "")
		if err != nil {
			t.Fatalf("openStore(%s): %v", tt.locator, err)
		}
		if got := fmt.Sprintf("%T", store); got != tt.want {
			t.Errorf("openStore(%s) = %s, want %s", tt.locator, got, tt.want)
		}
		if err := closeStore(); err != nil {
			t.Errorf("close %s: %v", tt.locator, err)
		}
	}
}

func TestOpenStore_EmptyDataset(t *testing.T) {
	store, closeStore, err := openStore(context.Background(), filepath.Join(t.TempDir(), "new.db"), "")
	if err != nil {
		t.Fatalf("openStore: %v", err)
	}
	defer closeStore()

	d, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(d) != 0 {
		t.Errorf("new store has %d rows", len(d))
	}
}
