package core

import (
	"testing"
	"time"
)

func mustSnapshot(t *testing.T, ch <-chan *Event) *Snapshot {
	t.Helper()

	deadline := time.After(2 * time.Second)
	for {
		select {
		case ev := <-ch:
			if ev == nil {
				continue
			}
			if ev.Kind == EventSnapshot {
				return ev.Snapshot
			}
		case <-deadline:
			t.Fatal("expected snapshot not received")
			return nil
		}
	}
}

func mustError(t *testing.T, ch <-chan *Event) *CoreError {
	t.Helper()

	deadline := time.After(2 * time.Second)
	for {
		select {
		case ev := <-ch:
			if ev == nil {
				continue
			}
			if ev.Kind == EventError {
				return ev.Error
			}
		case <-deadline:
			t.Fatal("expected error event not received")
			return nil
		}
	}
}

func mustNoEvent(t *testing.T, ch <-chan *Event) {
	t.Helper()

	select {
	case ev := <-ch:
		t.Fatalf("expected no event, got %+v", ev)
	case <-time.After(150 * time.Millisecond):
	}
}

func equalNames(got []string, want ...string) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}
