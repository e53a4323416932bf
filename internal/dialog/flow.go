// Package dialog drives the multi-step command registration conversation.
package dialog

import (
	"context"
	"errors"
	"strings"

	"kinobot/core/logger"
	"kinobot/core/telegram/state"
	"kinobot/internal/panels"
	"log/slog"
)

// Conversation states, one per step of the registration dialog.
const (
	StateAwaitingPanel       state.State = "awaiting_panel"
	StateAwaitingSubPanel    state.State = "awaiting_sub_panel"
	StateAwaitingName        state.State = "awaiting_name"
	StateAwaitingDescription state.State = "awaiting_description"
)

// Temp data keys for fields captured along the way.
const (
	keyPanel    = "panel"
	keySubPanel = "sub_panel"
	keyName     = "command_name"
)

var (
	// ErrEmptyInput is returned when a step receives blank text. The
	// conversation stays on the same step.
	ErrEmptyInput = errors.New("dialog: empty input")
	// ErrNoConversation is returned when a step arrives out of order,
	// e.g. a sub-panel callback with no panel chosen.
	ErrNoConversation = errors.New("dialog: no active conversation")
)

// Registrar is the slice of storage the flow persists into.
type Registrar interface {
	AddCommand(ctx context.Context, panel, subPanel, name, description string) error
}

// Registration describes a completed command registration.
type Registration struct {
	Panel       string
	SubPanel    string
	Name        string
	Description string
}

// Flow advances per-user registration conversations. All progress lives in
// the state manager keyed by the originating user, so concurrent
// conversations never observe each other's data.
type Flow struct {
	fsm   state.Manager
	store Registrar
}

// NewFlow builds a registration flow on the given session manager and store.
func NewFlow(fsm state.Manager, store Registrar) *Flow {
	return &Flow{fsm: fsm, store: store}
}

// Start begins a registration conversation, discarding any progress from a
// previous unfinished one, and returns the panel choices to offer.
func (f *Flow) Start(userID int64) []string {
	f.fsm.Clear(userID)
	f.fsm.SetState(userID, StateAwaitingPanel)
	logger.LogEvent(context.Background(), logger.SVCDialog, slog.LevelDebug, "dialog.start",
		slog.Int64("user_id", userID),
	)
	return []string{panels.UserPanel, panels.AdminPanel}
}

// ChoosePanel records the chosen panel and returns its sub-panels. A panel
// choice is also accepted mid-conversation and restarts from this step.
func (f *Flow) ChoosePanel(userID int64, panel string) []string {
	f.fsm.ClearTemp(userID, keySubPanel)
	f.fsm.ClearTemp(userID, keyName)
	f.fsm.SetTemp(userID, keyPanel, panel)
	f.fsm.SetState(userID, StateAwaitingSubPanel)
	logger.LogEvent(context.Background(), logger.SVCDialog, slog.LevelDebug, "dialog.panel",
		slog.Int64("user_id", userID),
		slog.String("panel", panel),
	)
	return panels.SubPanels(panel)
}

// ChooseSubPanel records the chosen sub-panel and advances to name capture.
func (f *Flow) ChooseSubPanel(userID int64, subPanel string) error {
	if _, ok := f.fsm.GetTemp(userID, keyPanel); !ok {
		return ErrNoConversation
	}
	f.fsm.SetTemp(userID, keySubPanel, subPanel)
	f.fsm.SetState(userID, StateAwaitingName)
	logger.LogEvent(context.Background(), logger.SVCDialog, slog.LevelDebug, "dialog.sub_panel",
		slog.Int64("user_id", userID),
		slog.String("sub_panel", subPanel),
	)
	return nil
}

// SubmitName captures the command name and advances to description capture.
func (f *Flow) SubmitName(userID int64, name string) error {
	if f.fsm.GetState(userID) != StateAwaitingName {
		return ErrNoConversation
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyInput
	}
	f.fsm.SetTemp(userID, keyName, name)
	f.fsm.SetState(userID, StateAwaitingDescription)
	return nil
}

// SubmitDescription completes the conversation: the command is persisted and
// the session cleared. When persistence fails the captured fields are kept
// and the user stays on this step, so resubmitting the description retries
// without re-collecting anything.
func (f *Flow) SubmitDescription(ctx context.Context, userID int64, description string) (Registration, error) {
	if f.fsm.GetState(userID) != StateAwaitingDescription {
		return Registration{}, ErrNoConversation
	}
	description = strings.TrimSpace(description)
	if description == "" {
		return Registration{}, ErrEmptyInput
	}

	panel, _ := f.fsm.GetTemp(userID, keyPanel)
	subPanel, _ := f.fsm.GetTemp(userID, keySubPanel)
	name, _ := f.fsm.GetTemp(userID, keyName)

	reg := Registration{
		Panel:       panel,
		SubPanel:    subPanel,
		Name:        name,
		Description: description,
	}

	if err := f.store.AddCommand(ctx, panel, subPanel, name, description); err != nil {
		logger.LogEvent(ctx, logger.SVCDialog, slog.LevelWarn, "dialog.register.fail",
			slog.Int64("user_id", userID),
			slog.String("command", name),
			slog.String("err", err.Error()),
		)
		return Registration{}, err
	}

	f.fsm.Clear(userID)
	logger.LogEvent(ctx, logger.SVCDialog, slog.LevelInfo, "dialog.register",
		slog.Int64("user_id", userID),
		slog.String("panel", panel),
		slog.String("sub_panel", subPanel),
		slog.String("command", name),
	)
	return reg, nil
}

// State reports the user's current conversation step.
func (f *Flow) State(userID int64) state.State {
	return f.fsm.GetState(userID)
}

// Abort drops any conversation in progress for the user.
func (f *Flow) Abort(userID int64) {
	f.fsm.Clear(userID)
}
