package panels

import (
	"context"
	"errors"
	"testing"

	"kinobot/internal/storage"
)

func TestSubPanelsTaxonomy(t *testing.T) {
	tests := []struct {
		panel string
		want  []string
	}{
		{UserPanel, []string{"Anime Izlash", "Testlik", "Hamkorlik"}},
		{AdminPanel, []string{"Sozlamalar", "Postlar", "Statistika"}},
		// Unknown panels fall through to the admin set.
		{"Whatever Panel", []string{"Sozlamalar", "Postlar", "Statistika"}},
	}
	for _, tt := range tests {
		got := SubPanels(tt.panel)
		if len(got) != len(tt.want) {
			t.Fatalf("SubPanels(%q) = %v, want %v", tt.panel, got, tt.want)
		}
		for i := range tt.want {
			if got[i] != tt.want[i] {
				t.Errorf("SubPanels(%q)[%d] = %q, want %q", tt.panel, i, got[i], tt.want[i])
			}
		}
	}
}

func TestSubPanelsReturnsCopy(t *testing.T) {
	first := SubPanels(UserPanel)
	first[0] = "mutated"
	if SubPanels(UserPanel)[0] != "Anime Izlash" {
		t.Error("SubPanels exposes internal slice")
	}
}

type stubLister struct {
	defs []storage.CommandDef
	err  error
}

func (s stubLister) CommandsFor(context.Context, string, string) ([]storage.CommandDef, error) {
	return s.defs, s.err
}

func TestListCommandsFormatting(t *testing.T) {
	src := stubLister{defs: []storage.CommandDef{
		{Name: "search", Description: "Anime qidirish"},
		{Name: "top", Description: "Eng mashhur kodlar"},
	}}

	got, err := ListCommands(context.Background(), src, UserPanel, "Anime Izlash")
	if err != nil {
		t.Fatalf("ListCommands: %v", err)
	}
	want := "User Panel / Anime Izlash:\nsearch: Anime qidirish\ntop: Eng mashhur kodlar"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestListCommandsEmptyIsHeaderOnly(t *testing.T) {
	got, err := ListCommands(context.Background(), stubLister{}, UserPanel, "Testlik")
	if err != nil {
		t.Fatalf("ListCommands: %v", err)
	}
	if got != "User Panel / Testlik:" {
		t.Errorf("expected header-only listing, got %q", got)
	}
}

type stubPanelLister struct {
	defs []storage.CommandDef
	err  error
}

func (s stubPanelLister) CommandsForPanel(context.Context, string) ([]storage.CommandDef, error) {
	return s.defs, s.err
}

func TestListPanelCommandsGroupsBySubPanel(t *testing.T) {
	src := stubPanelLister{defs: []storage.CommandDef{
		{SubPanel: "Postlar", Name: "ban", Description: "bans a user"},
		{SubPanel: "Postlar", Name: "pin", Description: "pins a post"},
		{SubPanel: "Statistika", Name: "daily", Description: "daily report"},
	}}

	got, err := ListPanelCommands(context.Background(), src, AdminPanel)
	if err != nil {
		t.Fatalf("ListPanelCommands: %v", err)
	}
	want := "Admin Panel:\n\nPostlar:\nban: bans a user\npin: pins a post\n\nStatistika:\ndaily: daily report"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestListPanelCommandsEmptyIsHeaderOnly(t *testing.T) {
	got, err := ListPanelCommands(context.Background(), stubPanelLister{}, UserPanel)
	if err != nil {
		t.Fatalf("ListPanelCommands: %v", err)
	}
	if got != "User Panel:" {
		t.Errorf("expected header-only listing, got %q", got)
	}
}

func TestListPanelCommandsPropagatesError(t *testing.T) {
	srcErr := errors.New("boom")
	_, err := ListPanelCommands(context.Background(), stubPanelLister{err: srcErr}, AdminPanel)
	if !errors.Is(err, srcErr) {
		t.Fatalf("expected wrapped source error, got %v", err)
	}
}

func TestListCommandsPropagatesError(t *testing.T) {
	srcErr := errors.New("boom")
	_, err := ListCommands(context.Background(), stubLister{err: srcErr}, UserPanel, "Testlik")
	if !errors.Is(err, srcErr) {
		t.Fatalf("expected wrapped source error, got %v", err)
	}
}
