// Package blink drives the flashing text cursor. The visibility flag flips on
// a fixed interval and is independent of the reveal state.
package blink

import (
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// DefaultInterval is the cursor half-period.
const DefaultInterval = 530 * time.Millisecond

var lastID atomic.Int64

func nextID() int {
	return int(lastID.Add(1))
}

// TickMsg asks a blinker to flip. ID selects the blinker and Tag the run that
// scheduled it; ticks from a stopped or restarted run are dropped.
type TickMsg struct {
	ID  int
	Tag int
}

// Model is a cursor blinker. It is a value type, like other Bubble Tea
// components: every method returns the updated copy.
type Model struct {
	Visible  bool
	Interval time.Duration

	id      int
	tag     int
	running bool
	carry   time.Duration
}

// New returns a visible, stopped blinker. A non-positive interval falls back
// to DefaultInterval.
func New(interval time.Duration) Model {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return Model{
		Visible:  true,
		Interval: interval,
		id:       nextID(),
	}
}

// ID identifies the blinker in TickMsg.
func (m Model) ID() int {
	return m.id
}

// Running reports whether ticks are being scheduled.
func (m Model) Running() bool {
	return m.running
}

// Toggle flips visibility once.
func (m Model) Toggle() Model {
	m.Visible = !m.Visible
	return m
}

// Elapse advances simulated time: one flip per whole interval, with the
// remainder kept for the next call.
func (m Model) Elapse(d time.Duration) Model {
	m.carry += d
	for m.carry >= m.Interval {
		m.carry -= m.Interval
		m.Visible = !m.Visible
	}
	return m
}

// Start begins a new run with the cursor shown. Any tick still in flight
// from an earlier run is invalidated.
func (m Model) Start() (Model, tea.Cmd) {
	m.tag++
	m.running = true
	m.Visible = true
	m.carry = 0
	return m, m.schedule()
}

// Stop ends the current run. In-flight ticks become no-ops.
func (m Model) Stop() Model {
	m.tag++
	m.running = false
	return m
}

// Pending returns the tick the current run is waiting for.
func (m Model) Pending() TickMsg {
	return TickMsg{ID: m.id, Tag: m.tag}
}

// Update flips the cursor on its own ticks and schedules the next one.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	tick, ok := msg.(TickMsg)
	if !ok || !m.running || tick.ID != m.id || tick.Tag != m.tag {
		return m, nil
	}
	m.Visible = !m.Visible
	return m, m.schedule()
}

func (m Model) schedule() tea.Cmd {
	msg := m.Pending()
	return tea.Tick(m.Interval, func(time.Time) tea.Msg {
		return msg
	})
}
