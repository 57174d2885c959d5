package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/tursodatabase/libsql-client-go/libsql"
	_ "modernc.org/sqlite"

	"match-analyzer/internal/dataset"
)

// SQLStore keeps the dataset in an early_features table reachable through
// database/sql: a local SQLite file or a Turso database.
type SQLStore struct {
	db *sql.DB
}

// OpenSQLite opens (or creates) the SQLite database at path. ":memory:" is
// accepted for tests.
func OpenSQLite(ctx context.Context, path string) (*SQLStore, error) {
	dsn := path
	if path != ":memory:" {
		dsn = fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path)
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// SQLite allows one writer; a single connection also keeps a :memory:
	// database alive across calls.
	db.SetMaxOpenConns(1)

	s := &SQLStore{db: db}
	if err := s.CreateTables(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// OpenTurso connects to a Turso database
func OpenTurso(ctx context.Context, url, authToken string) (*SQLStore, error) {
	connStr := url
	if authToken != "" {
		connStr = fmt.Sprintf("%s?authToken=%s", url, authToken)
	}

	db, err := sql.Open("libsql", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Turso: %w", err)
	}

	// Test connection
	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping Turso: %w", err)
	}

	s := &SQLStore{db: db}
	if err := s.CreateTables(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the connection
func (s *SQLStore) Close() error {
	return s.db.Close()
}

// CreateTables creates the required tables if they don't exist
func (s *SQLStore) CreateTables(ctx context.Context) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS early_features (
			seq INTEGER NOT NULL,
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
		)`,
		`CREATE INDEX IF NOT EXISTS idx_early_features_seq ON early_features(seq)`,
	}

	for _, query := range queries {
		if _, err := s.db.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to execute query: %w", err)
		}
	}
	return nil
}

// Load returns every row in insertion order
func (s *SQLStore) Load(ctx context.Context) (dataset.Dataset, error) {
	rows, err := s.db.QueryContext(ctx,
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

// Persist inserts the rows of d that are not stored yet. Rows already in the
// table keep their position; the dataset is append-only.
func (s *SQLStore) Persist(ctx context.Context, d dataset.Dataset) error {
	const batchSize = 100

	var next int64
	if err := s.db.QueryRowContext(ctx, `SELECT COALESCE(MAX(seq), -1) + 1 FROM early_features`).Scan(&next); err != nil {
		return fmt.Errorf("read next seq: %w", err)
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(featureColumns)+1), ", ")
	query := `INSERT INTO early_features (seq, ` + strings.Join(featureColumns, ", ") + `) VALUES (` +
		placeholders + `) ON CONFLICT (match_id) DO NOTHING`

	for i := 0; i < len(d); i += batchSize {
		end := i + batchSize
		if end > len(d) {
			end = len(d)
		}
		batch := d[i:end]

		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return err
		}

		stmt, err := tx.PrepareContext(ctx, query)
		if err != nil {
			tx.Rollback()
			return err
		}

		for _, r := range batch {
			res, err := stmt.ExecContext(ctx, append([]any{next}, rowArgs(r)...)...)
			if err != nil {
				stmt.Close()
				tx.Rollback()
				return fmt.Errorf("insert %s: %w", r.MatchID, err)
			}
			if n, _ := res.RowsAffected(); n > 0 {
				next++
			}
		}

		stmt.Close()
		if err := tx.Commit(); err != nil {
			return err
		}
	}

	return nil
}
