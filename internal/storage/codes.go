package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"kinobot/core/logger"
	"log/slog"
)

const upsertCodeQuery = `
INSERT INTO kino_codes (code, channel, message_id, post_count, title, parts, status, voice, genres, video_file_id, caption)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
ON CONFLICT (code) DO UPDATE SET
    channel       = EXCLUDED.channel,
    message_id    = EXCLUDED.message_id,
    post_count    = EXCLUDED.post_count,
    title         = EXCLUDED.title,
    parts         = EXCLUDED.parts,
    status        = EXCLUDED.status,
    voice         = EXCLUDED.voice,
    genres        = EXCLUDED.genres,
    video_file_id = EXCLUDED.video_file_id,
    caption       = EXCLUDED.caption`

// UpsertCode inserts or fully replaces a code entry and makes sure a stats
// row exists for it. Both statements run in one transaction so a new code
// never ends up without its counters.
func (s *Storage) UpsertCode(ctx context.Context, c Code) error {
	start := time.Now()
	err := withRetry(ctx, "codes.upsert", func() error {
		tx, txErr := s.db.BeginTx(ctx, nil)
		if txErr != nil {
			return txErr
		}
		defer func() { _ = tx.Rollback() }()

		if _, execErr := tx.ExecContext(ctx, upsertCodeQuery,
			c.Code, c.Channel, c.MessageID, c.PostCount, c.Title, c.Parts,
			c.Status, c.Voice, c.Genres, c.VideoFileID, c.Caption,
		); execErr != nil {
			return execErr
		}
		if _, execErr := tx.ExecContext(ctx,
			`INSERT INTO stats (code) VALUES ($1) ON CONFLICT DO NOTHING`, c.Code,
		); execErr != nil {
			return execErr
		}
		return tx.Commit()
	})
	if err != nil {
		return fmt.Errorf("storage: upsert code %d: %w", c.Code, err)
	}

	logger.LogEvent(ctx, logger.SVCStorage, slog.LevelDebug, "code.upserted",
		slog.Int("code", c.Code),
		slog.Int64("duration_ms", logger.RoundMS(time.Since(start)).Milliseconds()),
	)
	return nil
}

// GetCode loads a single code entry, or ErrNotFound.
func (s *Storage) GetCode(ctx context.Context, code int) (*Code, error) {
	var c Code
	err := s.db.GetContext(ctx, &c, `SELECT * FROM kino_codes WHERE code = $1`, code)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("storage: get code %d: %w", code, err)
	}
	return &c, nil
}

// ListCodes returns every code entry ordered by code.
func (s *Storage) ListCodes(ctx context.Context) ([]Code, error) {
	var codes []Code
	if err := s.db.SelectContext(ctx, &codes, `SELECT * FROM kino_codes ORDER BY code`); err != nil {
		return nil, fmt.Errorf("storage: list codes: %w", err)
	}
	return codes, nil
}

// DeleteCode removes a code entry (stats cascade). Returns whether a row was deleted.
func (s *Storage) DeleteCode(ctx context.Context, code int) (bool, error) {
	var affected int64
	err := withRetry(ctx, "codes.delete", func() error {
		res, execErr := s.db.ExecContext(ctx, `DELETE FROM kino_codes WHERE code = $1`, code)
		if execErr != nil {
			return execErr
		}
		affected, execErr = res.RowsAffected()
		return execErr
	})
	if err != nil {
		return false, fmt.Errorf("storage: delete code %d: %w", code, err)
	}
	return affected == 1, nil
}

// RenameCode changes a code's number and title. A collision with an existing
// code surfaces as the driver's uniqueness violation.
func (s *Storage) RenameCode(ctx context.Context, oldCode, newCode int, newTitle string) error {
	err := withRetry(ctx, "codes.rename", func() error {
		_, execErr := s.db.ExecContext(ctx,
			`UPDATE kino_codes SET code = $1, title = $2 WHERE code = $3`,
			newCode, newTitle, oldCode)
		return execErr
	})
	if err != nil {
		return fmt.Errorf("storage: rename code %d -> %d: %w", oldCode, newCode, err)
	}
	return nil
}

// HighestCode returns the largest assigned code, or ErrNotFound when no
// codes exist.
func (s *Storage) HighestCode(ctx context.Context) (int, error) {
	var code int
	err := s.db.GetContext(ctx, &code, `SELECT code FROM kino_codes ORDER BY code DESC LIMIT 1`)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("storage: highest code: %w", err)
	}
	return code, nil
}
