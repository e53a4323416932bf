package storage

import (
	"context"
	"fmt"
)

// AddUser records a user the first time they are seen. Repeat calls are no-ops.
func (s *Storage) AddUser(ctx context.Context, userID int64) error {
	err := withRetry(ctx, "users.add", func() error {
		_, execErr := s.db.ExecContext(ctx,
			`INSERT INTO users (user_id) VALUES ($1) ON CONFLICT DO NOTHING`, userID)
		return execErr
	})
	if err != nil {
		return fmt.Errorf("storage: add user %d: %w", userID, err)
	}
	return nil
}

// UserCount returns the total number of known users.
func (s *Storage) UserCount(ctx context.Context) (int, error) {
	var count int
	if err := s.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM users`); err != nil {
		return 0, fmt.Errorf("storage: count users: %w", err)
	}
	return count, nil
}

// TodayUserCount returns the number of users first seen today (server date).
func (s *Storage) TodayUserCount(ctx context.Context) (int, error) {
	var count int
	err := s.db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM users WHERE DATE(created_at) = CURRENT_DATE`)
	if err != nil {
		return 0, fmt.Errorf("storage: count today users: %w", err)
	}
	return count, nil
}

// AllUserIDs returns every known user id, for broadcast fan-out.
func (s *Storage) AllUserIDs(ctx context.Context) ([]int64, error) {
	var ids []int64
	if err := s.db.SelectContext(ctx, &ids, `SELECT user_id FROM users`); err != nil {
		return nil, fmt.Errorf("storage: list user ids: %w", err)
	}
	return ids, nil
}
