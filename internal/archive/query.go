// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package archive

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

const selectColumns = `SELECT id, created_at, seed, stream, theme, requested_length,
	actual_length, title, opening, body, closing FROM essays`

// QueryOptions filters archive listings.
type QueryOptions struct {
	// Theme matches the essay theme exactly.
	Theme string

	// Query is a substring matched against the title and every section.
	// Substring matching is used because CJK text has no word boundaries.
	Query string

	// MaxResults limits result count. Zero uses the store default.
	MaxResults int
}

// List returns archived essays matching opts, newest first.
func (s *Store) List(ctx context.Context, opts QueryOptions) ([]Record, error) {
	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = s.maxResults
	}

	var (
		qb   strings.Builder
		args []any
	)
	qb.WriteString(selectColumns)
	qb.WriteString(` WHERE 1=1`)

	if opts.Theme != "" {
		qb.WriteString(` AND theme = ?`)
		args = append(args, opts.Theme)
	}
	if opts.Query != "" {
		qb.WriteString(` AND (instr(title, ?) > 0 OR instr(opening, ?) > 0
			OR instr(body, ?) > 0 OR instr(closing, ?) > 0)`)
		args = append(args, opts.Query, opts.Query, opts.Query, opts.Query)
	}

	qb.WriteString(` ORDER BY created_at DESC, rowid DESC LIMIT ?`)
	args = append(args, maxResults)

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying archive: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// Get returns the essay with the given ID.
func (s *Store) Get(ctx context.Context, id string) (Record, error) {
	row := s.db.QueryRowContext(ctx, selectColumns+` WHERE id = ?`, id)
	r, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return r, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(sc scanner) (Record, error) {
	var (
		r       Record
		created string
		seed    int64
	)
	err := sc.Scan(
		&r.ID, &created, &seed, &r.Index, &r.Theme, &r.RequestedLength,
		&r.ActualLength, &r.Title, &r.Opening, &r.Body, &r.Closing,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Record{}, err
		}
		return Record{}, fmt.Errorf("scanning row: %w", err)
	}
	r.Seed = uint64(seed)
	if r.CreatedAt, err = time.Parse(timeLayout, created); err != nil {
		return Record{}, fmt.Errorf("parsing created_at %q: %w", created, err)
	}
	return r, nil
}
