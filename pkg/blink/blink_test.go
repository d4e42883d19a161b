package blink

import (
	"testing"
	"time"
)

func TestNew_DefaultsAndVisible(t *testing.T) {
	m := New(0)
	if m.Interval != DefaultInterval {
		t.Fatalf("expected default interval, got %v", m.Interval)
	}
	if !m.Visible {
		t.Fatal("cursor should start visible")
	}
	if m.Running() {
		t.Fatal("new blinker should not be running")
	}
	if New(0).ID() == m.ID() {
		t.Fatal("blinkers should get distinct ids")
	}
}

func TestElapse_TogglesEveryInterval(t *testing.T) {
	m := New(530 * time.Millisecond)

	m = m.Elapse(530 * time.Millisecond)
	if m.Visible {
		t.Fatal("expected hidden after 530ms")
	}
	m = m.Elapse(530 * time.Millisecond)
	if !m.Visible {
		t.Fatal("expected visible after 1060ms")
	}

	// Partial intervals accumulate.
	m = m.Elapse(300 * time.Millisecond)
	if !m.Visible {
		t.Fatal("300ms should not flip")
	}
	m = m.Elapse(230 * time.Millisecond)
	if m.Visible {
		t.Fatal("300ms+230ms should flip once")
	}
}

func TestUpdate_OwnTickToggles(t *testing.T) {
	m, cmd := New(DefaultInterval).Start()
	if cmd == nil {
		t.Fatal("Start should schedule a tick")
	}

	m, cmd = m.Update(m.Pending())
	if m.Visible {
		t.Fatal("tick should hide the cursor")
	}
	if cmd == nil {
		t.Fatal("tick should schedule the next one")
	}
	m, _ = m.Update(m.Pending())
	if !m.Visible {
		t.Fatal("second tick should show the cursor")
	}
}

func TestUpdate_IgnoresForeignAndStaleTicks(t *testing.T) {
	m, _ := New(DefaultInterval).Start()
	stale := m.Pending()

	other := New(DefaultInterval)
	m, cmd := m.Update(TickMsg{ID: other.ID(), Tag: stale.Tag})
	if !m.Visible || cmd != nil {
		t.Fatal("tick for another blinker must be ignored")
	}

	// Restarting invalidates the earlier run.
	m, _ = m.Start()
	m, cmd = m.Update(stale)
	if !m.Visible || cmd != nil {
		t.Fatal("tick from a previous run must be ignored")
	}

	m = m.Stop()
	m, cmd = m.Update(m.Pending())
	if !m.Visible || cmd != nil {
		t.Fatal("stopped blinker must ignore ticks")
	}
}

func TestUpdate_IgnoresOtherMessages(t *testing.T) {
	m, _ := New(DefaultInterval).Start()
	m, cmd := m.Update("not a tick")
	if !m.Visible || cmd != nil {
		t.Fatal("unrelated messages must not flip the cursor")
	}
}
