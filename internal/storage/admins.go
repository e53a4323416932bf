package storage

import (
	"context"
	"fmt"
)

// AddAdmin grants admin rights to the given user. Idempotent.
func (s *Storage) AddAdmin(ctx context.Context, userID int64) error {
	err := withRetry(ctx, "admins.add", func() error {
		_, execErr := s.db.ExecContext(ctx,
			`INSERT INTO admins (user_id) VALUES ($1) ON CONFLICT DO NOTHING`, userID)
		return execErr
	})
	if err != nil {
		return fmt.Errorf("storage: add admin %d: %w", userID, err)
	}
	return nil
}

// RemoveAdmin revokes admin rights. Removing a non-admin is not an error.
func (s *Storage) RemoveAdmin(ctx context.Context, userID int64) error {
	err := withRetry(ctx, "admins.remove", func() error {
		_, execErr := s.db.ExecContext(ctx, `DELETE FROM admins WHERE user_id = $1`, userID)
		return execErr
	})
	if err != nil {
		return fmt.Errorf("storage: remove admin %d: %w", userID, err)
	}
	return nil
}

// IsAdmin reports whether the given user is in the admins table.
func (s *Storage) IsAdmin(ctx context.Context, userID int64) (bool, error) {
	var ok bool
	err := s.db.GetContext(ctx, &ok,
		`SELECT EXISTS (SELECT 1 FROM admins WHERE user_id = $1)`, userID)
	if err != nil {
		return false, fmt.Errorf("storage: check admin %d: %w", userID, err)
	}
	return ok, nil
}

// AllAdmins returns the ids of every admin.
func (s *Storage) AllAdmins(ctx context.Context) ([]int64, error) {
	var ids []int64
	if err := s.db.SelectContext(ctx, &ids, `SELECT user_id FROM admins`); err != nil {
		return nil, fmt.Errorf("storage: list admins: %w", err)
	}
	return ids, nil
}
