package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Check is one recorded check of a query.
type Check struct {
	ID          string   `json:"id"`
	Seq         int64    `json:"seq"`
	Document    string   `json:"document"`
	Query       string   `json:"query"`
	Kind        string   `json:"kind"`
	Fingerprint string   `json:"fingerprint"`
	Canonical   string   `json:"canonical"`
	Valid       bool     `json:"valid"`
	ErrorCodes  []string `json:"error_codes,omitempty"`
}

// Write appends c to the catalog and returns it with ID and Seq filled in.
// A caller-supplied ID is kept; otherwise a UUIDv7 is generated. Seq is
// always assigned by the store as one past the current maximum.
//
// Uses ON CONFLICT(id) DO NOTHING for idempotency - writing the same ID twice
// keeps the first row and reports its seq.
func (s *Store) Write(ctx context.Context, c Check) (Check, error) {
	if c.ID == "" {
		c.ID = uuid.Must(uuid.NewV7()).String()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Check{}, fmt.Errorf("write check: begin: %w", err)
	}
	defer tx.Rollback()

	var next int64
	if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(seq), 0) + 1 FROM checks`).Scan(&next); err != nil {
		return Check{}, fmt.Errorf("write check: next seq: %w", err)
	}

	res, err := tx.ExecContext(ctx, `
		INSERT INTO checks
		(id, seq, document, query, kind, fingerprint, canonical, valid, error_codes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		c.ID,
		next,
		c.Document,
		c.Query,
		c.Kind,
		c.Fingerprint,
		c.Canonical,
		boolToInt(c.Valid),
		strings.Join(c.ErrorCodes, ","),
	)
	if err != nil {
		return Check{}, fmt.Errorf("write check: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return Check{}, fmt.Errorf("write check: %w", err)
	}
	if n == 0 {
		if err := tx.QueryRowContext(ctx, `SELECT seq FROM checks WHERE id = ?`, c.ID).Scan(&next); err != nil {
			return Check{}, fmt.Errorf("write check: existing seq: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return Check{}, fmt.Errorf("write check: commit: %w", err)
	}
	c.Seq = next
	return c, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
