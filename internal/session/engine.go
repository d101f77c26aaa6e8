// Package session implements the typing session state machine.
package session

import (
	"log/slog"
	"math/rand"
	"slices"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/verte-zerg/keystroke/internal/model"
	"github.com/verte-zerg/keystroke/internal/stats"
)

// DefaultPollInterval is how often live stats are recomputed while active.
const DefaultPollInterval = 200 * time.Millisecond

// TextSource picks a reference text for a locale.
type TextSource interface {
	Pick(locale string, rnd *rand.Rand) string
}

// Options configures an Engine. Zero values select defaults.
type Options struct {
	Texts        TextSource
	Locale       string
	Clock        Clock
	Timer        Timer
	Rand         *rand.Rand
	PollInterval time.Duration
	Logger       *slog.Logger
	// Focus is called after every reset to request input focus.
	Focus func()
}

// Engine owns one typing session: the reference and typed text, the phase,
// the keystroke log and the live error set. Invalid calls are no-ops.
// An Engine is not safe for concurrent use: the host calls it, and runs
// Timer callbacks, from a single goroutine.
type Engine struct {
	texts    TextSource
	clock    Clock
	timer    Timer
	rnd      *rand.Rand
	interval time.Duration
	logger   *slog.Logger
	focus    func()

	locale     string
	id         string
	reference  []rune
	typed      []rune
	phase      model.Phase
	startedAt  time.Time
	finishedAt time.Time

	snapshot   model.TypingStats
	keystrokes []model.KeystrokeRecord
	errors     map[int]model.ErrorEntry

	stopPoll func()
	pollGen  uint64
}

// New returns an engine with a freshly drawn reference text.
func New(opts Options) *Engine {
	e := &Engine{
		texts:    opts.Texts,
		clock:    opts.Clock,
		timer:    opts.Timer,
		rnd:      opts.Rand,
		interval: opts.PollInterval,
		logger:   opts.Logger,
		focus:    opts.Focus,
		locale:   opts.Locale,
	}
	if e.clock == nil {
		e.clock = SystemClock{}
	}
	if e.rnd == nil {
		e.rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if e.interval <= 0 {
		e.interval = DefaultPollInterval
	}
	if e.logger == nil {
		e.logger = slog.New(slog.DiscardHandler)
	}
	e.Reset()
	return e
}

// Reset discards the session and draws a new reference text.
func (e *Engine) Reset() {
	e.resetSession()
	e.requestFocus()
}

// Start resets and immediately activates the session. It is a no-op unless
// the session is idle.
func (e *Engine) Start() {
	if e.phase != model.PhaseIdle {
		return
	}
	e.resetSession()
	if len(e.reference) > 0 {
		e.activate(e.clock.Now())
	}
	e.requestFocus()
}

// InputChanged applies the full current content of the input widget.
func (e *Engine) InputChanged(input string) {
	if e.phase == model.PhaseFinished || len(e.reference) == 0 {
		return
	}
	next := []rune(input)
	now := e.clock.Now()
	if e.phase == model.PhaseIdle {
		if len(next) == 0 {
			return
		}
		e.activate(now)
	}

	prevLen := len(e.typed)
	if len(next) < prevLen {
		for idx := range e.errors {
			if idx >= len(next) {
				delete(e.errors, idx)
			}
		}
	} else {
		from := prevLen
		if len(next) == prevLen {
			if slices.Equal(next, e.typed) {
				return
			}
			from = len(next) - 1
		}
		for i := from; i < len(next) && i < len(e.reference); i++ {
			e.record(i, next[i], now)
		}
	}
	e.typed = next

	if len(e.typed) >= len(e.reference) && e.finishedAt.IsZero() {
		e.finish(now)
		return
	}
	e.snapshot = e.compute(now)
}

// Poll recomputes live stats. Hosts without a Timer call it themselves.
func (e *Engine) Poll() {
	if e.phase == model.PhaseActive {
		e.snapshot = e.compute(e.clock.Now())
	}
}

// SetLocale selects the text pool used by the next reset.
func (e *Engine) SetLocale(locale string) {
	e.locale = locale
}

// Close stops the polling timer.
func (e *Engine) Close() {
	e.stopPolling()
}

// State returns the current session state.
func (e *Engine) State() model.State {
	st := model.State{
		ID:         e.id,
		Locale:     e.locale,
		SampleText: string(e.reference),
		TypedText:  string(e.typed),
		Phase:      e.phase,
	}
	if !e.startedAt.IsZero() {
		t := e.startedAt
		st.StartedAt = &t
	}
	if !e.finishedAt.IsZero() {
		t := e.finishedAt
		st.FinishedAt = &t
	}
	return st
}

// Stats returns the latest stats snapshot.
func (e *Engine) Stats() model.TypingStats {
	return e.snapshot
}

// Characters returns the reference text annotated for display.
func (e *Engine) Characters() []model.DisplayChar {
	return Format(e.reference, e.typed, e.phase)
}

// Keystrokes returns a copy of the keystroke log in typing order.
func (e *Engine) Keystrokes() []model.KeystrokeRecord {
	return append([]model.KeystrokeRecord(nil), e.keystrokes...)
}

// Errors returns the live errors ordered by index.
func (e *Engine) Errors() []model.ErrorEntry {
	out := make([]model.ErrorEntry, 0, len(e.errors))
	for _, entry := range e.errors {
		out = append(out, entry)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Index < out[j].Index })
	return out
}

func (e *Engine) resetSession() {
	e.stopPolling()
	e.id = uuid.NewString()
	e.typed = nil
	e.phase = model.PhaseIdle
	e.startedAt = time.Time{}
	e.finishedAt = time.Time{}
	e.snapshot = model.DefaultStats()
	e.keystrokes = nil
	e.errors = map[int]model.ErrorEntry{}
	e.reference = nil
	if e.texts != nil {
		e.reference = []rune(e.texts.Pick(e.locale, e.rnd))
	}
	e.logger.Debug("session reset", "session", e.id, "locale", e.locale, "chars", len(e.reference))
}

func (e *Engine) activate(now time.Time) {
	e.phase = model.PhaseActive
	e.startedAt = now
	e.snapshot = e.compute(now)
	e.startPolling()
	e.logger.Debug("session started", "session", e.id)
}

func (e *Engine) finish(now time.Time) {
	e.finishedAt = now
	e.phase = model.PhaseFinished
	e.stopPolling()
	e.snapshot = stats.Final(e.statsInput(), now, e.snapshot)
	e.logger.Debug("session finished", "session", e.id,
		"wpm", e.snapshot.WPM, "accuracy", e.snapshot.Accuracy, "errors", e.snapshot.ErrorCount)
}

func (e *Engine) record(idx int, typed rune, now time.Time) {
	expected := e.reference[idx]
	status := model.KeyCorrect
	if typed != expected {
		status = model.KeyIncorrect
	}
	e.keystrokes = append(e.keystrokes, model.KeystrokeRecord{
		ExpectedChar: string(expected),
		TypedChar:    string(typed),
		Status:       status,
		Timestamp:    now,
	})
	if status == model.KeyCorrect {
		delete(e.errors, idx)
		return
	}
	if existing, ok := e.errors[idx]; ok && existing.Actual == string(typed) {
		return
	}
	e.errors[idx] = model.ErrorEntry{Expected: string(expected), Actual: string(typed), Index: idx}
}

func (e *Engine) compute(at time.Time) model.TypingStats {
	return stats.Compute(e.statsInput(), at, e.snapshot)
}

func (e *Engine) statsInput() stats.Input {
	return stats.Input{
		Reference:  e.reference,
		Typed:      e.typed,
		StartedAt:  e.startedAt,
		ErrorCount: len(e.errors),
	}
}

// startPolling replaces any running poll. Ticks from a previous generation
// are ignored even if already in flight.
func (e *Engine) startPolling() {
	e.stopPolling()
	if e.timer == nil {
		return
	}
	gen := e.pollGen
	e.stopPoll = e.timer.Every(e.interval, func() { e.pollTick(gen) })
}

func (e *Engine) stopPolling() {
	if e.stopPoll != nil {
		e.stopPoll()
		e.stopPoll = nil
	}
	e.pollGen++
}

func (e *Engine) pollTick(gen uint64) {
	if gen != e.pollGen || e.phase != model.PhaseActive {
		return
	}
	e.snapshot = e.compute(e.clock.Now())
}

func (e *Engine) requestFocus() {
	if e.focus != nil {
		e.focus()
	}
}
