package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

const checkColumns = `id, seq, document, query, kind, fingerprint, canonical, valid, error_codes`

// ListChecks returns every recorded check in write order.
// Results are ordered deterministically: ORDER BY seq ASC, id ASC COLLATE BINARY.
//
// Returns an empty slice (not nil) if nothing has been recorded.
func (s *Store) ListChecks(ctx context.Context) ([]Check, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+checkColumns+`
		FROM checks
		ORDER BY seq ASC, id COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query checks: %w", err)
	}
	defer rows.Close()

	checks := []Check{}
	for rows.Next() {
		c, err := scanCheck(rows)
		if err != nil {
			return nil, err
		}
		checks = append(checks, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate checks: %w", err)
	}
	return checks, nil
}

// LatestByFingerprint returns the most recent check of the query with the
// given fingerprint. Returns sql.ErrNoRows (wrapped) if there is none.
func (s *Store) LatestByFingerprint(ctx context.Context, fingerprint string) (Check, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+checkColumns+`
		FROM checks
		WHERE fingerprint = ?
		ORDER BY seq DESC
		LIMIT 1
	`, fingerprint)
	c, err := scanCheck(row)
	if err != nil {
		return Check{}, fmt.Errorf("latest check for %s: %w", fingerprint, err)
	}
	return c, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanCheck(row scanner) (Check, error) {
	var (
		c     Check
		valid int
		codes string
	)
	err := row.Scan(&c.ID, &c.Seq, &c.Document, &c.Query, &c.Kind, &c.Fingerprint, &c.Canonical, &valid, &codes)
	if err != nil {
		if err == sql.ErrNoRows {
			return Check{}, err
		}
		return Check{}, fmt.Errorf("scan check: %w", err)
	}
	c.Valid = valid == 1
	if codes != "" {
		c.ErrorCodes = strings.Split(codes, ",")
	}
	return c, nil
}
