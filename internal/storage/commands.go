package storage

import (
	"context"
	"fmt"
)

// AddCommand registers a panel command. Duplicate names are allowed; each
// registration creates a new row.
func (s *Storage) AddCommand(ctx context.Context, panel, subPanel, name, description string) error {
	err := withRetry(ctx, "commands.add", func() error {
		_, execErr := s.db.ExecContext(ctx,
			`INSERT INTO commands (panel, sub_panel, command_name, description) VALUES ($1, $2, $3, $4)`,
			panel, subPanel, name, description)
		return execErr
	})
	if err != nil {
		return fmt.Errorf("storage: add command %q: %w", name, err)
	}
	return nil
}

// CommandsForPanel returns every command registered under a panel, grouped
// by sub-panel and oldest first within each group.
func (s *Storage) CommandsForPanel(ctx context.Context, panel string) ([]CommandDef, error) {
	var defs []CommandDef
	err := s.db.SelectContext(ctx, &defs,
		`SELECT id, panel, sub_panel, command_name, description, created_at
		   FROM commands WHERE panel = $1 ORDER BY sub_panel, id`,
		panel)
	if err != nil {
		return nil, fmt.Errorf("storage: commands for %s: %w", panel, err)
	}
	return defs, nil
}

// CommandsFor returns the commands registered under a panel/sub-panel pair,
// oldest first.
func (s *Storage) CommandsFor(ctx context.Context, panel, subPanel string) ([]CommandDef, error) {
	var defs []CommandDef
	err := s.db.SelectContext(ctx, &defs,
		`SELECT id, panel, sub_panel, command_name, description, created_at
		   FROM commands WHERE panel = $1 AND sub_panel = $2 ORDER BY id`,
		panel, subPanel)
	if err != nil {
		return nil, fmt.Errorf("storage: commands for %s/%s: %w", panel, subPanel, err)
	}
	return defs, nil
}
