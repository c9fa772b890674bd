// Package archive keeps a history of produced plans in a local SQLite database.
package archive

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/piwi3910/barcut/internal/model"
	_ "modernc.org/sqlite" // Pure-Go SQLite driver.
)

// ErrNotFound is returned by Get for an unknown id.
var ErrNotFound = errors.New("archive: plan not found")

// DefaultRecentLimit applies when Recent is called with a limit <= 0.
const DefaultRecentLimit = 20

const schema = `
CREATE TABLE IF NOT EXISTS plans (
    id          TEXT PRIMARY KEY,
    created_at  INTEGER NOT NULL, -- unix nanoseconds
    bar_length  REAL NOT NULL,
    kerf        REAL NOT NULL,
    algorithm   TEXT NOT NULL,
    pieces      INTEGER NOT NULL,
    bars        INTEGER NOT NULL,
    efficiency  REAL NOT NULL,
    plan        TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS plans_created_at ON plans(created_at);
`

// Entry is one archived plan.
type Entry struct {
	ID         string     `json:"id"`
	CreatedAt  time.Time  `json:"created_at"`
	BarLength  float64    `json:"bar_length"`
	Kerf       float64    `json:"kerf"`
	Algorithm  string     `json:"algorithm"`
	Pieces     int        `json:"pieces"`
	Bars       int        `json:"bars"`
	Efficiency float64    `json:"efficiency"`
	Plan       model.Plan `json:"plan"`
}

// Store is a SQLite-backed plan history. It is safe for concurrent use.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens (or creates) the archive at path, enables WAL mode and busy
// timeout, and creates the schema if it does not exist.
func Open(ctx context.Context, path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("archive: create directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("archive: open database: %w", err)
	}

	// SQLite has a single writer.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("archive: enable WAL mode: %w", err)
	}
	if _, err := db.ExecContext(ctx, "PRAGMA busy_timeout=5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("archive: set busy timeout: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("archive: create schema: %w", err)
	}

	return &Store{db: db, now: time.Now}, nil
}

// Close releases the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Record stores a plan and returns its generated id.
func (s *Store) Record(ctx context.Context, plan model.Plan) (string, error) {
	data, err := json.Marshal(plan)
	if err != nil {
		return "", fmt.Errorf("archive: encode plan: %w", err)
	}

	id := uuid.New().String()
	const q = `
		INSERT INTO plans (id, created_at, bar_length, kerf, algorithm, pieces, bars, efficiency, plan)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = s.db.ExecContext(ctx, q,
		id,
		s.now().UnixNano(),
		plan.Stock.BarLength,
		plan.Stock.Kerf,
		string(plan.Algorithm),
		plan.Stats.TotalCuts,
		plan.Stats.TotalBars,
		plan.Stats.Efficiency,
		string(data),
	)
	if err != nil {
		return "", fmt.Errorf("archive: insert plan: %w", err)
	}
	return id, nil
}

// Recent returns up to limit plans, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	const q = `
		SELECT id, created_at, bar_length, kerf, algorithm, pieces, bars, efficiency, plan
		FROM plans ORDER BY created_at DESC, rowid DESC LIMIT ?`
	rows, err := s.db.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, fmt.Errorf("archive: query recent: %w", err)
	}
	defer rows.Close()

	entries := []Entry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("archive: iterate recent: %w", err)
	}
	return entries, nil
}

// Get returns the plan stored under id, or ErrNotFound.
func (s *Store) Get(ctx context.Context, id string) (Entry, error) {
	const q = `
		SELECT id, created_at, bar_length, kerf, algorithm, pieces, bars, efficiency, plan
		FROM plans WHERE id = ?`
	e, err := scanEntry(s.db.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, ErrNotFound
	}
	return e, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(row scanner) (Entry, error) {
	var (
		e       Entry
		created int64
		data    string
	)
	err := row.Scan(&e.ID, &created, &e.BarLength, &e.Kerf, &e.Algorithm, &e.Pieces, &e.Bars, &e.Efficiency, &data)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, err
	}
	if err != nil {
		return Entry{}, fmt.Errorf("archive: scan plan: %w", err)
	}
	e.CreatedAt = time.Unix(0, created).UTC()
	if err := json.Unmarshal([]byte(data), &e.Plan); err != nil {
		return Entry{}, fmt.Errorf("archive: decode plan %s: %w", e.ID, err)
	}
	return e, nil
}
