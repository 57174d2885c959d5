package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"match-analyzer/internal/dataset"
	"match-analyzer/internal/db"
)

// openStore picks the dataset backend from its locator. The returned close
// func is never nil.
func openStore(ctx context.Context, locator, tursoToken string) (dataset.Store, func() error, error) {
	switch {
	case strings.HasPrefix(locator, "postgres://"), strings.HasPrefix(locator, "postgresql://"):
		s, err := db.OpenPostgres(ctx, locator)
		if err != nil {
			return nil, nil, fmt.Errorf("open postgres dataset: %w", err)
		}
		return s, s.Close, nil

	case strings.HasPrefix(locator, "libsql://"):
		s, err := db.OpenTurso(ctx, locator, tursoToken)
		if err != nil {
			return nil, nil, fmt.Errorf("open turso dataset: %w", err)
		}
		return s, s.Close, nil
	}

	switch strings.ToLower(filepath.Ext(locator)) {
	case ".db", ".sqlite", ".sqlite3":
		s, err := db.OpenSQLite(ctx, locator)
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite dataset: %w", err)
		}
		return s, s.Close, nil
	}

	return dataset.NewCSVStore(locator), func() error { return nil }, nil
}
