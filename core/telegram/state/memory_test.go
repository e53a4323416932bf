package state

import (
	"fmt"
	"sync"
	"testing"
)

func TestMemoryManagerIsolatesUsers(t *testing.T) {
	m := NewMemoryManager()
	m.SetState(1, State("step_a"))
	m.SetTemp(1, "panel", "Admin Panel")
	m.SetState(2, State("step_b"))
	m.SetTemp(2, "panel", "User Panel")

	if got := m.GetState(1); got != State("step_a") {
		t.Fatalf("user 1 state = %s", got)
	}
	if got := m.GetState(2); got != State("step_b") {
		t.Fatalf("user 2 state = %s", got)
	}
	if v, _ := m.GetTemp(1, "panel"); v != "Admin Panel" {
		t.Fatalf("user 1 temp = %s", v)
	}
	if v, _ := m.GetTemp(2, "panel"); v != "User Panel" {
		t.Fatalf("user 2 temp = %s", v)
	}
}

func TestMemoryManagerClear(t *testing.T) {
	m := NewMemoryManager()
	m.SetState(5, State("x"))
	m.SetTemp(5, "k", "v")
	if !m.InProgress(5) {
		t.Fatal("expected in progress")
	}

	m.ClearState(5)
	if m.InProgress(5) {
		t.Fatal("expected idle after ClearState")
	}
	if _, ok := m.GetTemp(5, "k"); !ok {
		t.Fatal("ClearState must keep captured data")
	}

	m.Clear(5)
	if _, ok := m.GetTemp(5, "k"); ok {
		t.Fatal("Clear must drop captured data")
	}
	if m.GetState(5) != StateIdle {
		t.Fatal("cleared user must be idle")
	}
}

func TestMemoryManagerConcurrentAccess(t *testing.T) {
	m := NewMemoryManager()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			m.SetState(id, State("busy"))
			m.SetTemp(id, "name", fmt.Sprintf("cmd-%d", id))
			m.GetState(id)
			m.InProgress(id)
		}(int64(i))
	}
	wg.Wait()
	for i := int64(0); i < 50; i++ {
		if v, _ := m.GetTemp(i, "name"); v != fmt.Sprintf("cmd-%d", i) {
			t.Fatalf("user %d temp = %s", i, v)
		}
	}
}
