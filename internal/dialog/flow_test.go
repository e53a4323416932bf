package dialog

import (
	"context"
	"errors"
	"sync"
	"testing"

	"kinobot/core/telegram/state"
	"kinobot/internal/panels"
)

type recordedCommand struct {
	panel, subPanel, name, description string
}

type fakeRegistrar struct {
	mu       sync.Mutex
	commands []recordedCommand
	failNext error
}

func (f *fakeRegistrar) AddCommand(_ context.Context, panel, subPanel, name, description string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failNext != nil {
		err := f.failNext
		f.failNext = nil
		return err
	}
	f.commands = append(f.commands, recordedCommand{panel, subPanel, name, description})
	return nil
}

func newTestFlow() (*Flow, *fakeRegistrar) {
	reg := &fakeRegistrar{}
	return NewFlow(state.NewMemoryManager(), reg), reg
}

func TestFullRegistrationScenario(t *testing.T) {
	flow, reg := newTestFlow()
	const user = int64(100)

	choices := flow.Start(user)
	if len(choices) != 2 || choices[0] != panels.UserPanel || choices[1] != panels.AdminPanel {
		t.Fatalf("unexpected panel choices: %v", choices)
	}

	subs := flow.ChoosePanel(user, panels.UserPanel)
	if len(subs) != 3 || subs[1] != "Testlik" {
		t.Fatalf("unexpected sub-panels: %v", subs)
	}

	if err := flow.ChooseSubPanel(user, "Testlik"); err != nil {
		t.Fatalf("ChooseSubPanel: %v", err)
	}
	if err := flow.SubmitName(user, "quiz"); err != nil {
		t.Fatalf("SubmitName: %v", err)
	}

	done, err := flow.SubmitDescription(context.Background(), user, "Test savollarini yuboradi")
	if err != nil {
		t.Fatalf("SubmitDescription: %v", err)
	}
	want := Registration{
		Panel:       "User Panel",
		SubPanel:    "Testlik",
		Name:        "quiz",
		Description: "Test savollarini yuboradi",
	}
	if done != want {
		t.Errorf("registration = %+v, want %+v", done, want)
	}

	if len(reg.commands) != 1 {
		t.Fatalf("expected 1 stored command, got %d", len(reg.commands))
	}
	got := reg.commands[0]
	if got.panel != want.Panel || got.subPanel != want.SubPanel || got.name != want.Name || got.description != want.Description {
		t.Errorf("stored command = %+v", got)
	}

	if flow.State(user) != state.StateIdle {
		t.Errorf("expected idle after completion, got %q", flow.State(user))
	}
}

func TestOriginatorIsolation(t *testing.T) {
	flow, reg := newTestFlow()
	alice, bob := int64(1), int64(2)

	flow.Start(alice)
	flow.ChoosePanel(alice, panels.UserPanel)
	if err := flow.ChooseSubPanel(alice, "Hamkorlik"); err != nil {
		t.Fatalf("alice ChooseSubPanel: %v", err)
	}

	flow.Start(bob)
	flow.ChoosePanel(bob, panels.AdminPanel)
	if err := flow.ChooseSubPanel(bob, "Postlar"); err != nil {
		t.Fatalf("bob ChooseSubPanel: %v", err)
	}

	if err := flow.SubmitName(alice, "partner"); err != nil {
		t.Fatalf("alice SubmitName: %v", err)
	}
	if err := flow.SubmitName(bob, "newpost"); err != nil {
		t.Fatalf("bob SubmitName: %v", err)
	}

	if _, err := flow.SubmitDescription(context.Background(), bob, "Post joylash"); err != nil {
		t.Fatalf("bob SubmitDescription: %v", err)
	}
	if _, err := flow.SubmitDescription(context.Background(), alice, "Hamkorlik uchun"); err != nil {
		t.Fatalf("alice SubmitDescription: %v", err)
	}

	if len(reg.commands) != 2 {
		t.Fatalf("expected 2 commands, got %d", len(reg.commands))
	}
	byName := map[string]recordedCommand{}
	for _, c := range reg.commands {
		byName[c.name] = c
	}
	if c := byName["partner"]; c.panel != "User Panel" || c.subPanel != "Hamkorlik" {
		t.Errorf("alice's command mixed up: %+v", c)
	}
	if c := byName["newpost"]; c.panel != "Admin Panel" || c.subPanel != "Postlar" {
		t.Errorf("bob's command mixed up: %+v", c)
	}
}

func TestRestartDiscardsProgress(t *testing.T) {
	flow, reg := newTestFlow()
	const user = int64(7)

	flow.Start(user)
	flow.ChoosePanel(user, panels.UserPanel)
	if err := flow.ChooseSubPanel(user, "Testlik"); err != nil {
		t.Fatalf("ChooseSubPanel: %v", err)
	}
	if err := flow.SubmitName(user, "stale"); err != nil {
		t.Fatalf("SubmitName: %v", err)
	}

	// Starting over drops the captured name and sub-panel.
	flow.Start(user)
	flow.ChoosePanel(user, panels.AdminPanel)
	if err := flow.ChooseSubPanel(user, "Statistika"); err != nil {
		t.Fatalf("ChooseSubPanel after restart: %v", err)
	}
	if err := flow.SubmitName(user, "fresh"); err != nil {
		t.Fatalf("SubmitName after restart: %v", err)
	}
	if _, err := flow.SubmitDescription(context.Background(), user, "Statistika chiqaradi"); err != nil {
		t.Fatalf("SubmitDescription: %v", err)
	}

	if len(reg.commands) != 1 {
		t.Fatalf("expected 1 command, got %d", len(reg.commands))
	}
	if c := reg.commands[0]; c.name != "fresh" || c.panel != "Admin Panel" || c.subPanel != "Statistika" {
		t.Errorf("stale progress leaked into registration: %+v", c)
	}
}

func TestEmptyInputRejectedWithoutAdvancing(t *testing.T) {
	flow, _ := newTestFlow()
	const user = int64(9)

	flow.Start(user)
	flow.ChoosePanel(user, panels.UserPanel)
	if err := flow.ChooseSubPanel(user, "Anime Izlash"); err != nil {
		t.Fatalf("ChooseSubPanel: %v", err)
	}

	if err := flow.SubmitName(user, "   "); !errors.Is(err, ErrEmptyInput) {
		t.Fatalf("expected ErrEmptyInput for blank name, got %v", err)
	}
	if flow.State(user) != StateAwaitingName {
		t.Errorf("blank name advanced the conversation to %q", flow.State(user))
	}

	if err := flow.SubmitName(user, "search"); err != nil {
		t.Fatalf("SubmitName: %v", err)
	}
	if _, err := flow.SubmitDescription(context.Background(), user, ""); !errors.Is(err, ErrEmptyInput) {
		t.Fatalf("expected ErrEmptyInput for blank description, got %v", err)
	}
	if flow.State(user) != StateAwaitingDescription {
		t.Errorf("blank description advanced the conversation to %q", flow.State(user))
	}
}

func TestStorageFailureKeepsCapturedFields(t *testing.T) {
	flow, reg := newTestFlow()
	const user = int64(11)

	flow.Start(user)
	flow.ChoosePanel(user, panels.UserPanel)
	if err := flow.ChooseSubPanel(user, "Testlik"); err != nil {
		t.Fatalf("ChooseSubPanel: %v", err)
	}
	if err := flow.SubmitName(user, "quiz"); err != nil {
		t.Fatalf("SubmitName: %v", err)
	}

	dbErr := errors.New("connection refused")
	reg.failNext = dbErr
	if _, err := flow.SubmitDescription(context.Background(), user, "Savollar"); !errors.Is(err, dbErr) {
		t.Fatalf("expected storage error, got %v", err)
	}
	if flow.State(user) != StateAwaitingDescription {
		t.Fatalf("failure moved conversation to %q", flow.State(user))
	}

	// Resubmitting the description alone retries the registration.
	done, err := flow.SubmitDescription(context.Background(), user, "Savollar")
	if err != nil {
		t.Fatalf("retry SubmitDescription: %v", err)
	}
	if done.Name != "quiz" || done.SubPanel != "Testlik" {
		t.Errorf("retry lost captured fields: %+v", done)
	}
	if len(reg.commands) != 1 {
		t.Fatalf("expected 1 stored command after retry, got %d", len(reg.commands))
	}
}

func TestOutOfOrderStepsRejected(t *testing.T) {
	flow, _ := newTestFlow()
	const user = int64(13)

	if err := flow.ChooseSubPanel(user, "Testlik"); !errors.Is(err, ErrNoConversation) {
		t.Errorf("sub-panel without panel: got %v", err)
	}
	if err := flow.SubmitName(user, "quiz"); !errors.Is(err, ErrNoConversation) {
		t.Errorf("name without conversation: got %v", err)
	}
	if _, err := flow.SubmitDescription(context.Background(), user, "x"); !errors.Is(err, ErrNoConversation) {
		t.Errorf("description without conversation: got %v", err)
	}
}
