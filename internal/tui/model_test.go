package tui

import (
	"bytes"
	"context"
	"errors"
	"math/rand"
	"os"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/keystroke/internal/model"
	"github.com/verte-zerg/keystroke/internal/texts"
)

type testClock struct {
	now time.Time
}

func (c *testClock) Now() time.Time { return c.now }

type memStore struct {
	saved []model.Preferences
	err   error
}

func (s *memStore) SavePreferences(_ context.Context, prefs model.Preferences) error {
	s.saved = append(s.saved, prefs)
	return s.err
}

func newTestModel(t *testing.T, text string, mutate func(*Options)) (*Model, *testClock) {
	t.Helper()
	clock := &testClock{now: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
	opts := Options{
		Config: model.Config{
			Preferences:  model.DefaultPreferences(),
			PollInterval: 200 * time.Millisecond,
			ExportDir:    t.TempDir(),
		},
		Texts: texts.New(map[string][]string{"en": {text}, "es": {text}, "pt": {text}}),
		Bell:  &bytes.Buffer{},
		Clock: clock,
		Rand:  rand.New(rand.NewSource(1)),
	}
	if mutate != nil {
		mutate(&opts)
	}
	m := NewModel(opts)
	t.Cleanup(m.Close)
	return m, clock
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func typeKeys(m *Model, clock *testClock, keys ...tea.KeyMsg) {
	for _, k := range keys {
		clock.now = clock.now.Add(100 * time.Millisecond)
		m.Update(k)
	}
}

func TestRenderFooterFormats(t *testing.T) {
	m, clock := newTestModel(t, "abcd", nil)
	typeKeys(m, clock, runes("a"), runes("b"))

	out := m.renderFooter()
	for _, want := range []string{"Progress 50%", "Accuracy 100%", "Errors 0", "Time 0.1s"} {
		if !strings.Contains(out, want) {
			t.Fatalf("footer missing %q: %s", want, out)
		}
	}
}

func TestTypingFinishesIntoReport(t *testing.T) {
	m, clock := newTestModel(t, "ab", nil)
	typeKeys(m, clock, runes("a"))
	if m.report != nil {
		t.Fatalf("report shown too early")
	}
	typeKeys(m, clock, runes("b"))
	if m.report == nil {
		t.Fatalf("expected report after the last character")
	}
	res := m.Result()
	if !res.Finished || res.Data.Stats.Accuracy != 100 || len(res.Data.Keystrokes) != 2 {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestBackspaceReachesEngine(t *testing.T) {
	m, clock := newTestModel(t, "abc", nil)
	typeKeys(m, clock, runes("x"), tea.KeyMsg{Type: tea.KeyBackspace}, runes("a"))

	if got := m.engine.State().TypedText; got != "a" {
		t.Fatalf("expected typed text %q, got %q", "a", got)
	}
	if errs := m.engine.Errors(); len(errs) != 0 {
		t.Fatalf("expected error set cleared, got %v", errs)
	}
	if got := len(m.engine.Keystrokes()); got != 2 {
		t.Fatalf("expected 2 keystrokes, got %d", got)
	}
}

func TestEnterStartsSession(t *testing.T) {
	m, _ := newTestModel(t, "abc", nil)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.engine.State().Phase != model.PhaseActive {
		t.Fatalf("expected active phase, got %s", m.engine.State().Phase)
	}
	if cmd == nil {
		t.Fatalf("expected polling tick to be scheduled")
	}
}

func TestBellRingsOnMistype(t *testing.T) {
	bell := &bytes.Buffer{}
	m, clock := newTestModel(t, "abc", func(o *Options) {
		o.Bell = bell
		o.Config.Preferences.Bell = true
	})
	typeKeys(m, clock, runes("a"), runes("x"))
	if bell.String() != "\a" {
		t.Fatalf("expected one bell, got %q", bell.String())
	}
}

func TestBellSilentWhenDisabled(t *testing.T) {
	bell := &bytes.Buffer{}
	m, clock := newTestModel(t, "abc", func(o *Options) { o.Bell = bell })
	typeKeys(m, clock, runes("x"))
	if bell.Len() != 0 {
		t.Fatalf("expected no bell, got %q", bell.String())
	}
}

func TestToggleThemeSavesPreferences(t *testing.T) {
	st := &memStore{}
	m, _ := newTestModel(t, "abc", func(o *Options) { o.Store = st })
	m.Update(tea.KeyMsg{Type: tea.KeyCtrlT})
	if m.prefs.Theme != ThemeLight {
		t.Fatalf("expected light theme, got %s", m.prefs.Theme)
	}
	if len(st.saved) != 1 || st.saved[0].Theme != ThemeLight {
		t.Fatalf("expected saved preferences, got %+v", st.saved)
	}
}

func TestSaveFailureShowsStatus(t *testing.T) {
	st := &memStore{err: errors.New("disk full")}
	m, _ := newTestModel(t, "abc", func(o *Options) { o.Store = st })
	m.Update(tea.KeyMsg{Type: tea.KeyCtrlB})
	if !strings.Contains(m.status, "disk full") {
		t.Fatalf("expected failure status, got %q", m.status)
	}
}

func TestCycleLocaleResetsSession(t *testing.T) {
	st := &memStore{}
	m, clock := newTestModel(t, "abc", func(o *Options) { o.Store = st })
	typeKeys(m, clock, runes("a"))
	m.Update(tea.KeyMsg{Type: tea.KeyCtrlL})

	state := m.engine.State()
	if state.Locale != "es" || state.Phase != model.PhaseIdle || state.TypedText != "" {
		t.Fatalf("unexpected state after locale change: %+v", state)
	}
	if m.input.Value() != "" {
		t.Fatalf("expected input cleared, got %q", m.input.Value())
	}
	if len(st.saved) != 1 || st.saved[0].Locale != "es" {
		t.Fatalf("expected saved locale, got %+v", st.saved)
	}
}

func TestExportFromReport(t *testing.T) {
	m, clock := newTestModel(t, "ab", nil)
	typeKeys(m, clock, runes("a"), runes("b"))
	m.Update(runes("e"))

	if !strings.HasPrefix(m.status, "Exported to ") {
		t.Fatalf("unexpected status %q", m.status)
	}
	path := strings.TrimPrefix(m.status, "Exported to ")
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected export file: %v", err)
	}
}

func TestReportNewTextReturnsToTyping(t *testing.T) {
	m, clock := newTestModel(t, "ab", nil)
	typeKeys(m, clock, runes("a"), runes("b"))
	m.Update(runes("r"))
	if m.report != nil {
		t.Fatalf("expected typing screen")
	}
	if m.engine.State().Phase != model.PhaseIdle {
		t.Fatalf("expected idle phase")
	}
}

func TestViewWithoutTexts(t *testing.T) {
	m, _ := newTestModel(t, "abc", func(o *Options) {
		o.Texts = texts.New(nil)
	})
	m.Update(tea.WindowSizeMsg{Width: 80, Height: 20})
	if !strings.Contains(m.View(), "No texts available for en") {
		t.Fatalf("expected empty-pool message")
	}
	m.Update(runes("a"))
	if m.input.Value() != "" {
		t.Fatalf("input should ignore keys without a reference")
	}
}

func TestViewShowsHint(t *testing.T) {
	m, _ := newTestModel(t, "abc", nil)
	m.Update(tea.WindowSizeMsg{Width: 80, Height: 20})
	if !strings.Contains(m.View(), "Start typing to begin") {
		t.Fatalf("expected start hint")
	}
}
