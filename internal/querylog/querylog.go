// Package querylog records the queries a sorex host process runs against
// an index (`sorex mcp --query-log`): the raw query text, how many results
// it got, which tier satisfied it, and how long it took. ZeroResultQueries
// and TopQueries report on the stored log.
package querylog

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // pure Go driver, no CGO
)

// Store persists query log entries to a SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens (creating if necessary) a query log database at path.
// Pass ":memory:" for an ephemeral in-process store.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open query log: %w", err)
	}
	db.SetMaxOpenConns(1) // modernc.org/sqlite: one writer at a time

	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func initSchema(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS queries (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			query_text  TEXT NOT NULL,
			result_count INTEGER NOT NULL,
			top_tier    INTEGER NOT NULL,
			duration_ms REAL NOT NULL,
			logged_at   TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_queries_text ON queries(query_text);
		CREATE INDEX IF NOT EXISTS idx_queries_zero ON queries(result_count) WHERE result_count = 0;
	`)
	return err
}

// Record is one logged query execution.
type Record struct {
	QueryText   string
	ResultCount int
	TopTier     int
	Duration    time.Duration
	LoggedAt    time.Time
}

// Log inserts r into the store.
func (s *Store) Log(r Record) error {
	_, err := s.db.Exec(
		`INSERT INTO queries (query_text, result_count, top_tier, duration_ms, logged_at) VALUES (?, ?, ?, ?, ?)`,
		r.QueryText, r.ResultCount, r.TopTier, float64(r.Duration.Microseconds())/1000.0, r.LoggedAt.Format(time.RFC3339),
	)
	return err
}

// ZeroResultQueries returns the most recent queries that returned no
// results, most-recent first.
func (s *Store) ZeroResultQueries(limit int) ([]string, error) {
	rows, err := s.db.Query(
		`SELECT query_text FROM queries WHERE result_count = 0 ORDER BY id DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var q string
		if err := rows.Scan(&q); err != nil {
			return nil, err
		}
		out = append(out, q)
	}
	return out, rows.Err()
}

// TopQueries returns the limit most frequently logged query texts, most
// frequent first.
func (s *Store) TopQueries(limit int) ([]string, error) {
	rows, err := s.db.Query(
		`SELECT query_text FROM queries GROUP BY query_text ORDER BY COUNT(*) DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var q string
		if err := rows.Scan(&q); err != nil {
			return nil, err
		}
		out = append(out, q)
	}
	return out, rows.Err()
}

// Count returns the total number of logged queries.
func (s *Store) Count() (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM queries`).Scan(&n)
	return n, err
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}
