// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package archive persists generated essays in a local SQLite database so
// earlier runs can be listed, shown again, and exported.
package archive

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/shenlun/pkg/types"
)

const dbFile = "essays.db"

// timeLayout is fixed width so created_at sorts correctly as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// ErrNotFound is returned by Get when no essay has the requested ID.
var ErrNotFound = errors.New("essay not found")

// Record is an archived essay with its bookkeeping fields.
type Record struct {
	ID        string    `json:"id" yaml:"id"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`

	// Seed and Index identify the random stream the essay was drawn from.
	Seed  uint64 `json:"seed" yaml:"seed"`
	Index int    `json:"index" yaml:"index"`

	// ActualLength is the character count of the formatted document.
	ActualLength int `json:"actual_length" yaml:"actual_length"`

	types.Essay `yaml:",inline"`
}

// Store manages the essay archive database.
type Store struct {
	db         *sql.DB
	maxResults int
	now        func() time.Time
}

// Open opens or creates the archive at cfg.Dir/essays.db and ensures the
// schema exists.
func Open(cfg types.ArchiveConfig) (*Store, error) {
	dir := cfg.Dir
	if dir == "" {
		dir = types.DefaultArchiveDir
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating archive directory: %w", err)
	}

	dbPath := filepath.Join(dir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 20
	}

	s := &Store{
		db:         db,
		maxResults: maxResults,
		now:        time.Now,
	}

	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS essays (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL UNIQUE,
			created_at TEXT NOT NULL,
			seed INTEGER NOT NULL,
			stream INTEGER NOT NULL,
			theme TEXT NOT NULL,
			requested_length INTEGER NOT NULL,
			actual_length INTEGER NOT NULL,
			title TEXT NOT NULL,
			opening TEXT NOT NULL,
			body TEXT NOT NULL,
			closing TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_essays_theme ON essays(theme)`,
		`CREATE INDEX IF NOT EXISTS idx_essays_created_at ON essays(created_at)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Save archives the given essays in one transaction. Essay i is recorded
// with stream index i under seed. It returns the stored records in order.
func (s *Store) Save(ctx context.Context, seed uint64, essays []types.Essay) ([]Record, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO essays (id, created_at, seed, stream, theme, requested_length,
			actual_length, title, opening, body, closing)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return nil, fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	created := s.now().UTC()
	records := make([]Record, len(essays))
	for i, e := range essays {
		r := Record{
			ID:           uuid.NewString(),
			CreatedAt:    created,
			Seed:         seed,
			Index:        i,
			ActualLength: e.Length(),
			Essay:        e,
		}
		_, err := stmt.ExecContext(ctx,
			r.ID, r.CreatedAt.Format(timeLayout), int64(r.Seed), r.Index,
			e.Theme, e.RequestedLength, r.ActualLength,
			e.Title, e.Opening, e.Body, e.Closing,
		)
		if err != nil {
			return nil, fmt.Errorf("inserting essay %d: %w", i+1, err)
		}
		records[i] = r
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing essays: %w", err)
	}
	return records, nil
}
