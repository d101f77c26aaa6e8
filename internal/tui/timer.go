package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

type tickMsg struct {
	gen uint64
}

// tickTimer runs the engine's polling callback on the Bubble Tea loop
// instead of a goroutine. Every only records the callback; the model picks
// it up with schedule and keeps it going with fire.
type tickTimer struct {
	gen      uint64
	interval time.Duration
	fn       func()
	pending  bool
}

// Every implements session.Timer.
func (t *tickTimer) Every(interval time.Duration, fn func()) func() {
	t.gen++
	gen := t.gen
	t.interval = interval
	t.fn = fn
	t.pending = true
	return func() {
		if t.gen != gen {
			return
		}
		t.gen++
		t.fn = nil
		t.pending = false
	}
}

// schedule returns the first tick of a newly installed callback.
func (t *tickTimer) schedule() tea.Cmd {
	if !t.pending {
		return nil
	}
	t.pending = false
	return t.next()
}

// fire runs the callback for a tick of the current generation and returns
// the following tick. Ticks from a stopped callback are dropped.
func (t *tickTimer) fire(msg tickMsg) tea.Cmd {
	if msg.gen != t.gen || t.fn == nil {
		return nil
	}
	t.fn()
	return t.next()
}

func (t *tickTimer) next() tea.Cmd {
	gen := t.gen
	return tea.Tick(t.interval, func(time.Time) tea.Msg {
		return tickMsg{gen: gen}
	})
}
