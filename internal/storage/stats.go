package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// IncrementStat bumps one of the per-code counters. The field name is
// resolved through a fixed column map; unknown fields are rejected before
// the database is touched.
func (s *Storage) IncrementStat(ctx context.Context, code int, field string) error {
	column, ok := statColumns[field]
	if !ok {
		return fmt.Errorf("%w: %q", ErrInvalidStatField, field)
	}

	err := withRetry(ctx, "stats.increment", func() error {
		_, execErr := s.db.ExecContext(ctx,
			`UPDATE stats SET `+column+` = `+column+` + 1 WHERE code = $1`, code)
		return execErr
	})
	if err != nil {
		return fmt.Errorf("storage: increment %s for code %d: %w", field, code, err)
	}
	return nil
}

// CodeStat returns the counters for a code, or ErrNotFound.
func (s *Storage) CodeStat(ctx context.Context, code int) (*Stat, error) {
	var st Stat
	err := s.db.GetContext(ctx, &st,
		`SELECT code, searched, viewed FROM stats WHERE code = $1`, code)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("storage: stat for code %d: %w", code, err)
	}
	return &st, nil
}
