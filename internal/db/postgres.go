package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"match-analyzer/internal/dataset"
)

// PGStore keeps the dataset in Postgres
type PGStore struct {
	pool *pgxpool.Pool
}

// OpenPostgres creates a connection pool for dbURL and ensures the table
// exists
func OpenPostgres(ctx context.Context, dbURL string) (*PGStore, error) {
	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool: %w", err)
	}

	// Test connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := &PGStore{pool: pool}
	if err := s.CreateTables(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the database connection pool
func (s *PGStore) Close() error {
	s.pool.Close()
	return nil
}

// CreateTables creates the early_features table if it doesn't exist
func (s *PGStore) CreateTables(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS early_features (
			seq BIGINT NOT NULL,
			match_id TEXT PRIMARY KEY,
			my_team INTEGER NOT NULL,
			team1_gold INTEGER NOT NULL,
			team2_gold INTEGER NOT NULL,
			gold_diff INTEGER NOT NULL,
			gold_leading_team INTEGER NOT NULL,
			my_team_ahead_gold BOOLEAN NOT NULL,
			team1_kills INTEGER NOT NULL,
			team2_kills INTEGER NOT NULL,
			kill_diff INTEGER NOT NULL,
			kill_leading_team INTEGER NOT NULL,
			my_team_ahead_kills BOOLEAN NOT NULL,
			my_team_win BOOLEAN NOT NULL,
			winner INTEGER,
			first_tower_team INTEGER NOT NULL DEFAULT 0,
			first_dragon_team INTEGER NOT NULL DEFAULT 0,
			first_herald_team INTEGER NOT NULL DEFAULT 0
		)
	`)
	if err != nil {
		return fmt.Errorf("create early_features: %w", err)
	}
	return nil
}

// Load returns every row in insertion order
func (s *PGStore) Load(ctx context.Context) (dataset.Dataset, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+strings.Join(featureColumns, ", ")+` FROM early_features ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("query early_features: %w", err)
	}
	defer rows.Close()

	d := dataset.Dataset{}
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		d = append(d, r)
	}
	return d, rows.Err()
}

// Persist inserts the rows of d that are not stored yet, in one transaction
func (s *PGStore) Persist(ctx context.Context, d dataset.Dataset) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var next int64
	if err := tx.QueryRow(ctx, `SELECT COALESCE(MAX(seq), -1) + 1 FROM early_features`).Scan(&next); err != nil {
		return fmt.Errorf("read next seq: %w", err)
	}

	placeholders := make([]string, len(featureColumns)+1)
	for i := range placeholders {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}
	query := `INSERT INTO early_features (seq, ` + strings.Join(featureColumns, ", ") + `) VALUES (` +
		strings.Join(placeholders, ", ") + `) ON CONFLICT (match_id) DO NOTHING`

	for _, r := range d {
		tag, err := tx.Exec(ctx, query, append([]any{next}, rowArgs(r)...)...)
		if err != nil {
			return fmt.Errorf("insert %s: %w", r.MatchID, err)
		}
		if tag.RowsAffected() > 0 {
			next++
		}
	}

	return tx.Commit(ctx)
}
