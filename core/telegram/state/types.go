package state

import tele "gopkg.in/telebot.v4"

// State identifies a finite-state-machine step used in conversations.
type State string

const (
	// StateIdle indicates there is no active conversation with the user.
	StateIdle State = "idle"
)

// Session stores conversation state and captured data for a user.
type Session struct {
	State    State
	TempData map[string]string
}

// Manager orchestrates user sessions and FSM state transitions.
type Manager interface {
	SetState(userID int64, st State)
	GetState(userID int64) State
	ClearState(userID int64)
	InProgress(userID int64) bool

	SetTemp(userID int64, key, value string)
	GetTemp(userID int64, key string) (string, bool)
	ClearTemp(userID int64, key string)
	Clear(userID int64)

	// RegisterHandler associates a state with the handler invoked by Dispatch.
	RegisterHandler(st State, h tele.HandlerFunc)
	// Dispatch executes the handler registered for the sender's current state.
	Dispatch(c tele.Context) error
}
