package app

import (
	"errors"
	"testing"
)

func TestBroadcastAllCountsFailures(t *testing.T) {
	var attempted []int64
	sent, failed := broadcastAll([]int64{1, 2, 3, 4}, func(id int64) error {
		attempted = append(attempted, id)
		if id == 3 {
			return errors.New("blocked by user")
		}
		return nil
	})

	if len(attempted) != 4 {
		t.Fatalf("attempted %d recipients, want 4", len(attempted))
	}
	if sent != 3 || failed != 1 {
		t.Errorf("sent=%d failed=%d, want 3/1", sent, failed)
	}
}

func TestBroadcastAllEmptyAudience(t *testing.T) {
	sent, failed := broadcastAll(nil, func(int64) error {
		t.Fatal("send called with no recipients")
		return nil
	})
	if sent != 0 || failed != 0 {
		t.Errorf("sent=%d failed=%d, want 0/0", sent, failed)
	}
}
