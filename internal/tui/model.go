package tui

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/message"

	"github.com/verte-zerg/keystroke/internal/export"
	"github.com/verte-zerg/keystroke/internal/i18n"
	"github.com/verte-zerg/keystroke/internal/model"
	"github.com/verte-zerg/keystroke/internal/report"
	"github.com/verte-zerg/keystroke/internal/session"
	"github.com/verte-zerg/keystroke/internal/stats"
)

const saveTimeout = 2 * time.Second

// PrefStore persists preferences changed from the UI.
type PrefStore interface {
	SavePreferences(ctx context.Context, prefs model.Preferences) error
}

// Options configures the typing UI. Store, Logger, Bell, Clock and Rand are
// optional.
type Options struct {
	Config model.Config
	Texts  session.TextSource
	Store  PrefStore
	Logger *slog.Logger
	Bell   io.Writer
	Clock  session.Clock
	Rand   *rand.Rand
}

// Result describes the last finished session, if any.
type Result struct {
	Finished bool
	Locale   string
	Data     report.Data
}

// Model implements the Bubble Tea typing UI.
type Model struct {
	cfg    model.Config
	prefs  model.Preferences
	store  PrefStore
	logger *slog.Logger
	bell   io.Writer
	clock  session.Clock

	engine  *session.Engine
	timer   *tickTimer
	input   textinput.Model
	printer *message.Printer
	pal     palette

	report *report.Model
	result Result

	seenKeystrokes int
	status         string

	width  int
	height int
}

// NewModel constructs a typing TUI model with a fresh session.
func NewModel(opts Options) *Model {
	m := &Model{
		cfg:    opts.Config,
		prefs:  opts.Config.Preferences,
		store:  opts.Store,
		logger: opts.Logger,
		bell:   opts.Bell,
		clock:  opts.Clock,
		timer:  &tickTimer{},
		input:  newInput(),
	}
	if m.logger == nil {
		m.logger = slog.New(slog.DiscardHandler)
	}
	if m.bell == nil {
		m.bell = os.Stderr
	}
	if m.clock == nil {
		m.clock = session.SystemClock{}
	}
	m.printer = i18n.Printer(m.prefs.Locale)
	m.pal = paletteFor(m.prefs.Theme)
	m.engine = session.New(session.Options{
		Texts:        opts.Texts,
		Locale:       m.prefs.Locale,
		Clock:        m.clock,
		Timer:        m.timer,
		Rand:         opts.Rand,
		PollInterval: m.cfg.PollInterval,
		Logger:       m.logger,
		Focus:        m.focusInput,
	})
	return m
}

func newInput() textinput.Model {
	input := textinput.New()
	input.Prompt = ""
	input.CharLimit = 0
	// The caret always sits at the end of the typed text.
	for _, binding := range []*key.Binding{
		&input.KeyMap.CharacterForward,
		&input.KeyMap.CharacterBackward,
		&input.KeyMap.WordForward,
		&input.KeyMap.WordBackward,
		&input.KeyMap.DeleteWordForward,
		&input.KeyMap.DeleteAfterCursor,
		&input.KeyMap.DeleteCharacterForward,
		&input.KeyMap.LineStart,
		&input.KeyMap.LineEnd,
	} {
		binding.SetEnabled(false)
	}
	return input
}

// Result returns the last finished session.
func (m *Model) Result() Result {
	return m.result
}

// Close stops background work held by the session.
func (m *Model) Close() {
	m.engine.Close()
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.report != nil {
			m.report.Update(msg)
		}
		return m, nil
	case tickMsg:
		return m, m.timer.fire(msg)
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.report != nil {
			return m.updateReport(msg)
		}
		return m.updateTyping(msg)
	}
	return m, nil
}

func (m *Model) updateTyping(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		m.engine.Start()
		return m, m.timer.schedule()
	case tea.KeyCtrlR:
		m.status = ""
		m.engine.Reset()
		return m, nil
	case tea.KeyCtrlL:
		m.cycleLocale()
		return m, nil
	case tea.KeyCtrlT:
		m.prefs.Theme = nextTheme(m.prefs.Theme)
		m.pal = paletteFor(m.prefs.Theme)
		m.status = m.printer.Sprintf("Theme: %s", m.prefs.Theme)
		m.savePreferences()
		return m, nil
	case tea.KeyCtrlB:
		m.prefs.Bell = !m.prefs.Bell
		if m.prefs.Bell {
			m.status = m.printer.Sprintf("Bell on")
		} else {
			m.status = m.printer.Sprintf("Bell off")
		}
		m.savePreferences()
		return m, nil
	case tea.KeyCtrlE:
		m.export()
		return m, nil
	}

	if m.engine.State().SampleText == "" {
		return m, nil
	}
	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if value := m.input.Value(); value != before {
		m.engine.InputChanged(value)
		m.ringBell()
		if m.engine.State().Phase == model.PhaseFinished {
			m.showReport()
		}
	}
	return m, tea.Batch(cmd, m.timer.schedule())
}

func (m *Model) updateReport(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "r":
		m.report = nil
		m.status = ""
		m.engine.Reset()
		return m, tea.ClearScreen
	case "e":
		m.export()
		return m, nil
	}
	_, cmd := m.report.Update(msg)
	return m, cmd
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.report != nil {
		return m.report.View()
	}
	chars := m.engine.Characters()
	var content string
	if len(chars) == 0 {
		content = m.pal.status.Render(m.printer.Sprintf("No texts available for %s", m.prefs.Locale))
	} else {
		styled := buildStyledRunes(chars, m.pal)
		if m.width == 0 || m.height == 0 {
			return renderStyledRunes(styled)
		}
		contentWidth := int(float64(m.width) * 0.70)
		if contentWidth < 1 {
			contentWidth = 1
		}
		content = lipgloss.NewStyle().Width(contentWidth).Render(wrapStyledRunes(styled, contentWidth))
	}
	if m.width == 0 || m.height == 0 {
		return content
	}

	footer := m.footerLines()
	if m.height <= len(footer)+1 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	bodyHeight := m.height - len(footer)
	lines := []string{lipgloss.Place(m.width, bodyHeight, lipgloss.Center, lipgloss.Center, content)}
	for _, line := range footer {
		lines = append(lines, lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, line))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) footerLines() []string {
	lines := []string{m.renderFooter()}
	if m.engine.State().Phase == model.PhaseIdle && len(m.engine.Characters()) > 0 {
		lines = append(lines, m.pal.footer.Render(m.printer.Sprintf("Start typing to begin")))
	}
	lines = append(lines, m.pal.footer.Render(m.printer.Sprintf("enter: start  ctrl+r: new text  ctrl+l: language  ctrl+t: theme  ctrl+b: bell  ctrl+e: export  ctrl+c: quit")))
	if m.status != "" {
		lines = append(lines, m.pal.status.Render(m.status))
	}
	return lines
}

func (m *Model) renderFooter() string {
	st := m.engine.State()
	s := m.engine.Stats()
	total := len([]rune(st.SampleText))
	progress := 0
	if total > 0 {
		progress = len([]rune(st.TypedText)) * 100 / total
		if progress > 100 {
			progress = 100
		}
	}
	p := m.printer
	segments := []string{
		p.Sprintf("Progress %d%%", progress),
		p.Sprintf("WPM %d", s.WPM),
		p.Sprintf("CPM %d", s.CPM),
		p.Sprintf("Accuracy %d%%", s.Accuracy),
		p.Sprintf("Errors %d", s.ErrorCount),
		p.Sprintf("Time %.1fs", s.TimeElapsedSeconds),
	}
	if st.StartedAt != nil {
		if pace := stats.PaceSeries(m.engine.Keystrokes(), *st.StartedAt); len(pace) > 1 {
			segments = append(segments, stats.Sparkline(tail(pace, sparkWidth)))
		}
	}
	return m.pal.footer.Render(strings.Join(segments, "  "))
}

const sparkWidth = 20

func tail(values []float64, n int) []float64 {
	if len(values) <= n {
		return values
	}
	return values[len(values)-n:]
}

func (m *Model) focusInput() {
	m.input.Reset()
	m.input.Focus()
	m.seenKeystrokes = 0
}

func (m *Model) ringBell() {
	keys := m.engine.Keystrokes()
	if m.seenKeystrokes > len(keys) {
		m.seenKeystrokes = 0
	}
	ring := false
	for _, k := range keys[m.seenKeystrokes:] {
		if k.Status == model.KeyIncorrect {
			ring = true
		}
	}
	m.seenKeystrokes = len(keys)
	if ring && m.prefs.Bell {
		if _, err := io.WriteString(m.bell, "\a"); err != nil {
			// Best-effort bell.
			_ = err
		}
	}
}

func (m *Model) showReport() {
	data := report.Data{
		State:      m.engine.State(),
		Stats:      m.engine.Stats(),
		Keystrokes: m.engine.Keystrokes(),
		Errors:     m.engine.Errors(),
	}
	m.result = Result{Finished: true, Locale: m.prefs.Locale, Data: data}
	m.report = report.NewModel(data, m.printer, report.Options{
		ShowErrors:  m.prefs.ShowErrors,
		ShowHistory: m.prefs.ShowHistory,
	})
	if m.width > 0 && m.height > 0 {
		m.report.Update(tea.WindowSizeMsg{Width: m.width, Height: m.height})
	}
	m.logger.Info("session finished", "session", data.State.ID,
		"wpm", data.Stats.WPM, "accuracy", data.Stats.Accuracy, "errors", data.Stats.ErrorCount)
}

func (m *Model) cycleLocale() {
	m.prefs.Locale = i18n.Next(m.prefs.Locale)
	m.printer = i18n.Printer(m.prefs.Locale)
	m.engine.SetLocale(m.prefs.Locale)
	m.engine.Reset()
	m.status = m.printer.Sprintf("Language: %s", m.prefs.Locale)
	m.savePreferences()
}

func (m *Model) savePreferences() {
	if m.store == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()
	if err := m.store.SavePreferences(ctx, m.prefs); err != nil {
		m.logger.Error("saving preferences failed", "err", err)
		m.setStatus(m.printer.Sprintf("Saving preferences failed: %v", err))
	}
}

func (m *Model) export() {
	st := m.engine.State()
	r := export.Report{
		SessionID:   st.ID,
		Locale:      st.Locale,
		GeneratedAt: m.clock.Now(),
		SampleText:  st.SampleText,
		Stats:       m.engine.Stats(),
		Keystrokes:  m.engine.Keystrokes(),
		Errors:      m.engine.Errors(),
	}
	path, err := export.WriteFile(m.cfg.ExportDir, r, m.printer)
	if err != nil {
		m.logger.Error("export failed", "session", st.ID, "err", err)
		m.setStatus(m.printer.Sprintf("Export failed: %v", err))
		return
	}
	m.logger.Info("exported session", "session", st.ID, "path", path)
	m.setStatus(m.printer.Sprintf("Exported to %s", path))
}

func (m *Model) setStatus(status string) {
	m.status = status
	if m.report != nil {
		m.report.SetStatus(status)
	}
}

// String summarizes the model state for debugging.
func (m *Model) String() string {
	st := m.engine.State()
	return fmt.Sprintf("tui.Model{session=%s phase=%s locale=%s}", st.ID, st.Phase, m.prefs.Locale)
}
