// Package panels holds the fixed panel taxonomy and listing helpers.
package panels

import (
	"context"
	"strings"

	"kinobot/internal/storage"
)

// Panel names shown on the first step of command registration.
const (
	UserPanel  = "User Panel"
	AdminPanel = "Admin Panel"
)

var (
	userSubPanels  = []string{"Anime Izlash", "Testlik", "Hamkorlik"}
	adminSubPanels = []string{"Sozlamalar", "Postlar", "Statistika"}
)

// SubPanels returns the sub-panels of the given panel. Any panel name other
// than UserPanel resolves to the admin set.
func SubPanels(panel string) []string {
	if panel == UserPanel {
		return append([]string(nil), userSubPanels...)
	}
	return append([]string(nil), adminSubPanels...)
}

// CommandLister is the slice of storage the facade needs.
type CommandLister interface {
	CommandsFor(ctx context.Context, panel, subPanel string) ([]storage.CommandDef, error)
}

// PanelLister loads every command of a panel regardless of sub-panel.
type PanelLister interface {
	CommandsForPanel(ctx context.Context, panel string) ([]storage.CommandDef, error)
}

// FormatCommands renders a listing under a "panel / sub-panel" header, one
// "name: description" line per command. An empty list is the header alone.
func FormatCommands(panel, subPanel string, defs []storage.CommandDef) string {
	lines := make([]string, 0, len(defs)+1)
	lines = append(lines, panel+" / "+subPanel+":")
	for _, def := range defs {
		lines = append(lines, def.Name+": "+def.Description)
	}
	return strings.Join(lines, "\n")
}

// FormatPanelCommands renders a whole panel's commands grouped by sub-panel.
// Groups follow the order defs arrive in; an empty panel is the header alone.
func FormatPanelCommands(panel string, defs []storage.CommandDef) string {
	lines := []string{panel + ":"}
	current := ""
	for _, def := range defs {
		if def.SubPanel != current {
			current = def.SubPanel
			lines = append(lines, "", current+":")
		}
		lines = append(lines, def.Name+": "+def.Description)
	}
	return strings.Join(lines, "\n")
}

// ListCommands loads and renders the commands of a panel/sub-panel pair.
func ListCommands(ctx context.Context, src CommandLister, panel, subPanel string) (string, error) {
	defs, err := src.CommandsFor(ctx, panel, subPanel)
	if err != nil {
		return "", err
	}
	return FormatCommands(panel, subPanel, defs), nil
}

// ListPanelCommands loads and renders every command of a panel.
func ListPanelCommands(ctx context.Context, src PanelLister, panel string) (string, error) {
	defs, err := src.CommandsForPanel(ctx, panel)
	if err != nil {
		return "", err
	}
	return FormatPanelCommands(panel, defs), nil
}
