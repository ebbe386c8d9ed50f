package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/roach88/lexid"
)

// ErrNotFound is returned by Get when the identifier is not recorded.
var ErrNotFound = errors.New("identifier not found")

// DefaultListLimit caps List when ListOptions.Limit is zero.
const DefaultListLimit = 100

// ListOptions filters and pages List.
type ListOptions struct {
	// After resumes strictly after this identifier. Nil starts at the
	// beginning.
	After lexid.ID

	// Limit caps the page size. Zero means DefaultListLimit.
	Limit int

	// Label, when set, restricts results to that label.
	Label string
}

// Get retrieves a single record by identifier.
// Returns an error wrapping ErrNotFound if absent.
func (s *Store) Get(ctx context.Context, id lexid.ID) (Record, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, label, created_at
		FROM identifiers
		WHERE id = ?
	`, id)

	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, fmt.Errorf("get %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return Record{}, fmt.Errorf("get %s: %w", id, err)
	}
	return rec, nil
}

// List returns records in identifier byte order, which is creation order.
//
// Returns an empty slice (not nil) if nothing matches.
func (s *Store) List(ctx context.Context, opts ListOptions) ([]Record, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultListLimit
	}

	query := `SELECT id, label, created_at FROM identifiers WHERE 1 = 1`
	var args []any
	if !opts.After.IsNil() {
		query += ` AND id > ?`
		args = append(args, opts.After)
	}
	if opts.Label != "" {
		query += ` AND label = ?`
		args = append(args, opts.Label)
	}
	query += ` ORDER BY id ASC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list ids: %w", err)
	}
	defer rows.Close()

	records := []Record{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("list ids: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ids: %w", err)
	}

	return records, nil
}

// Count returns the number of recorded identifiers.
func (s *Store) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM identifiers`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count ids: %w", err)
	}
	return n, nil
}

// CountLabel returns the number of identifiers recorded with label.
func (s *Store) CountLabel(ctx context.Context, label string) (int64, error) {
	var n int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM identifiers WHERE label = ?`, label).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count ids labelled %q: %w", label, err)
	}
	return n, nil
}

// Latest returns the most recently minted identifier for a worker, or
// lexid.Nil if that worker has recorded nothing. A restarted process can
// seed its clock from the timestamp to avoid reissuing values after a
// backwards clock jump across the restart.
func (s *Store) Latest(ctx context.Context, workerID int32) (lexid.ID, error) {
	var id lexid.ID
	err := s.db.QueryRowContext(ctx, `
		SELECT id FROM identifiers
		WHERE worker_id = ?
		ORDER BY id DESC
		LIMIT 1
	`, workerID).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return lexid.Nil, nil
	}
	if err != nil {
		return lexid.Nil, fmt.Errorf("latest id for worker %d: %w", workerID, err)
	}
	return id, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (Record, error) {
	var (
		rec       Record
		createdAt int64
	)
	if err := row.Scan(&rec.ID, &rec.Label, &createdAt); err != nil {
		return Record{}, err
	}
	rec.CreatedAt = time.UnixMicro(createdAt).UTC()
	return rec, nil
}
