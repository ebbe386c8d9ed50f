package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/roach88/lexid"
)

// Record is one ledger row.
type Record struct {
	ID        lexid.ID  `json:"id"`
	Label     string    `json:"label,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// ErrNilID is returned when writing the zero identifier.
var ErrNilID = errors.New("refusing to record the nil identifier")

const insertSQL = `
	INSERT INTO identifiers
	(id, timestamp, jitter, worker_id, text_form, label, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(id) DO NOTHING
`

// Write records an identifier.
// Uses ON CONFLICT(id) DO NOTHING for idempotency - inserted is false when
// the identifier was already present.
//
// A zero CreatedAt is stamped with the store's clock.
func (s *Store) Write(ctx context.Context, rec Record) (inserted bool, err error) {
	args, err := s.insertArgs(rec)
	if err != nil {
		return false, fmt.Errorf("write id: %w", err)
	}

	result, err := s.db.ExecContext(ctx, insertSQL, args...)
	if err != nil {
		return false, fmt.Errorf("write id: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("write id: rows affected: %w", err)
	}
	return n > 0, nil
}

// WriteBatch records several identifiers in one transaction and returns how
// many were new. Either every row is applied or none is.
func (s *Store) WriteBatch(ctx context.Context, recs []Record) (inserted int, err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("write batch: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	stmt, err := tx.PrepareContext(ctx, insertSQL)
	if err != nil {
		return 0, fmt.Errorf("write batch: prepare: %w", err)
	}
	defer stmt.Close()

	for i, rec := range recs {
		args, err := s.insertArgs(rec)
		if err != nil {
			return 0, fmt.Errorf("write batch: record %d: %w", i, err)
		}
		result, err := stmt.ExecContext(ctx, args...)
		if err != nil {
			return 0, fmt.Errorf("write batch: record %d: %w", i, err)
		}
		n, err := result.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("write batch: rows affected: %w", err)
		}
		inserted += int(n)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("write batch: commit: %w", err)
	}

	s.logger.Debug("batch recorded", "records", len(recs), "inserted", inserted)
	return inserted, nil
}

func (s *Store) insertArgs(rec Record) ([]any, error) {
	if rec.ID.IsNil() {
		return nil, ErrNilID
	}
	createdAt := rec.CreatedAt
	if createdAt.IsZero() {
		createdAt = s.now()
	}
	return []any{
		rec.ID, // driver.Valuer: 16-byte BLOB
		rec.ID.Timestamp,
		rec.ID.Jitter,
		rec.ID.WorkerID,
		rec.ID.String(),
		rec.Label,
		createdAt.UnixMicro(),
	}, nil
}
