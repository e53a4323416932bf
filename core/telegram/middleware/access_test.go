package middleware

import (
	"context"
	"testing"

	tele "gopkg.in/telebot.v4"
)

// stubContext carries just enough of tele.Context for the access checks.
type stubContext struct {
	tele.Context
	sender *tele.User
	kv     map[string]interface{}
}

func (s *stubContext) Sender() *tele.User  { return s.sender }
func (s *stubContext) Update() tele.Update { return tele.Update{} }
func (s *stubContext) Chat() *tele.Chat    { return nil }

func (s *stubContext) Get(key string) interface{} { return s.kv[key] }

func (s *stubContext) Set(key string, v interface{}) {
	if s.kv == nil {
		s.kv = map[string]interface{}{}
	}
	s.kv[key] = v
}

func TestAllowedIDOwnerAlwaysPasses(t *testing.T) {
	opts := AdminOptions{
		OwnerID: 42,
		IsAdmin: func(context.Context, int64) bool { return false },
	}
	if !opts.allowedID(context.Background(), 42) {
		t.Error("owner rejected")
	}
	if opts.allowedID(context.Background(), 43) {
		t.Error("non-admin allowed")
	}
}

func TestAllowedIDConsultsAdminLookup(t *testing.T) {
	var asked int64
	opts := AdminOptions{
		IsAdmin: func(_ context.Context, userID int64) bool {
			asked = userID
			return userID == 7
		},
	}
	if !opts.allowedID(context.Background(), 7) {
		t.Error("admin rejected")
	}
	if asked != 7 {
		t.Errorf("lookup asked about %d, want 7", asked)
	}
	if opts.allowedID(context.Background(), 8) {
		t.Error("non-admin allowed")
	}
}

func TestWithAdminCheckBlocksForgedCallers(t *testing.T) {
	handled, rejected := 0, 0
	h := WithAdminCheck(AdminOptions{
		OwnerID:  42,
		OnReject: func(tele.Context) error { rejected++; return nil },
	}, func(tele.Context) error { handled++; return nil })

	if err := h(&stubContext{sender: &tele.User{ID: 99}}); err != nil {
		t.Fatalf("reject path: %v", err)
	}
	if handled != 0 || rejected != 1 {
		t.Fatalf("forged caller reached handler: handled=%d rejected=%d", handled, rejected)
	}

	if err := h(&stubContext{sender: &tele.User{ID: 42}}); err != nil {
		t.Fatalf("owner path: %v", err)
	}
	if handled != 1 {
		t.Fatalf("owner blocked: handled=%d", handled)
	}
}

func TestWithAdminCheckNoSenderNoReject(t *testing.T) {
	h := WithAdminCheck(AdminOptions{OwnerID: 42}, func(tele.Context) error {
		t.Fatal("handler reached without sender")
		return nil
	})
	if err := h(&stubContext{}); err != nil {
		t.Fatalf("expected silent drop, got %v", err)
	}
}
