// Package report provides the Bubble Tea post-session report.
package report

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/message"

	"github.com/verte-zerg/keystroke/internal/model"
	"github.com/verte-zerg/keystroke/internal/stats"
)

type tabKind int

const (
	tabOverview tabKind = iota
	tabErrors
	tabKeystrokes
)

const plotHeight = 8

var (
	activeNavStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A"))
	inactiveNavStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#B0B0B0")).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	cardStyle   = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	cardTitleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cardValueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	tableMutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
)

// Data is the finished session shown by the report.
type Data struct {
	State      model.State
	Stats      model.TypingStats
	Keystrokes []model.KeystrokeRecord
	Errors     []model.ErrorEntry
}

// Options selects the optional report tabs.
type Options struct {
	ShowErrors  bool
	ShowHistory bool
}

// Model implements the Bubble Tea report UI. Quitting, exporting and
// starting a new text are left to the host.
type Model struct {
	data    Data
	printer *message.Printer

	tabs      []tabKind
	activeTab int
	viewports map[tabKind]*viewport.Model
	keyTable  table.Model
	status    string

	width  int
	height int
}

// NewModel constructs a report for a finished session.
func NewModel(data Data, p *message.Printer, opts Options) *Model {
	m := &Model{
		data:      data,
		printer:   p,
		tabs:      []tabKind{tabOverview},
		viewports: map[tabKind]*viewport.Model{},
	}
	if opts.ShowErrors {
		m.tabs = append(m.tabs, tabErrors)
	}
	if opts.ShowHistory {
		m.tabs = append(m.tabs, tabKeystrokes)
	}
	for _, tab := range m.tabs {
		if tab != tabKeystrokes {
			vp := viewport.New(0, 0)
			m.viewports[tab] = &vp
		}
	}
	m.keyTable = buildKeystrokeTable(data, p, 0, 1)
	m.renderTabContents()
	return m
}

// SetStatus shows a one-line message under the help line.
func (m *Model) SetStatus(status string) {
	m.status = status
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
		m.updateLayout()
		m.renderTabContents()
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "left", "h", "shift+tab":
			m.moveTab(-1)
			return m, tea.ClearScreen
		case "right", "l", "tab":
			m.moveTab(1)
			return m, tea.ClearScreen
		case "g", "home":
			if m.current() == tabKeystrokes {
				m.keyTable.GotoTop()
			} else {
				m.viewports[m.current()].GotoTop()
			}
			return m, nil
		case "G", "end":
			if m.current() == tabKeystrokes {
				m.keyTable.GotoBottom()
			} else {
				m.viewports[m.current()].GotoBottom()
			}
			return m, nil
		default:
			if m.current() == tabKeystrokes {
				var cmd tea.Cmd
				m.keyTable, cmd = m.keyTable.Update(msg)
				return m, cmd
			}
			vp := m.viewports[m.current()]
			var cmd tea.Cmd
			*vp, cmd = vp.Update(msg)
			return m, cmd
		}
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	headerHeight, bodyHeight, footerHeight := m.layoutHeights()
	header := fitLines(m.renderTabs(), m.width, headerHeight)
	body := fitLines(m.renderBody(), m.width, bodyHeight)
	footer := fitLines(m.renderFooter(), m.width, footerHeight)
	return strings.Join([]string{header, body, footer}, "\n")
}

func (m *Model) current() tabKind {
	return m.tabs[m.activeTab]
}

func (m *Model) tabTitle(tab tabKind) string {
	switch tab {
	case tabErrors:
		return m.printer.Sprintf("Errors")
	case tabKeystrokes:
		return m.printer.Sprintf("Keystrokes")
	default:
		return m.printer.Sprintf("Overview")
	}
}

func (m *Model) layoutHeights() (headerHeight, bodyHeight, footerHeight int) {
	headerHeight = lipgloss.Height(activeNavStyle.Render("X"))
	if headerHeight < 1 {
		headerHeight = 1
	}
	footerHeight = 1
	if m.status != "" {
		footerHeight++
	}
	bodyHeight = m.height - headerHeight - footerHeight
	if bodyHeight < 1 {
		bodyHeight = 1
	}
	return headerHeight, bodyHeight, footerHeight
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	_, bodyHeight, _ := m.layoutHeights()
	for _, vp := range m.viewports {
		vp.Width = m.width
		vp.Height = bodyHeight
	}
	m.keyTable.SetWidth(m.width)
	m.keyTable.SetHeight(maxInt(1, bodyHeight-1))
}

func (m *Model) moveTab(delta int) {
	count := len(m.tabs)
	next := m.activeTab + delta
	if next < 0 {
		next = count - 1
	}
	if next >= count {
		next = 0
	}
	m.activeTab = next
	if m.current() == tabKeystrokes {
		m.keyTable.Focus()
	} else {
		m.keyTable.Blur()
	}
}

func (m *Model) renderTabs() string {
	parts := make([]string, 0, len(m.tabs))
	for i, tab := range m.tabs {
		if i == m.activeTab {
			parts = append(parts, activeNavStyle.Render(m.tabTitle(tab)))
		} else {
			parts = append(parts, inactiveNavStyle.Render(m.tabTitle(tab)))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) renderFooter() string {
	help := headerStyle.Render(truncateLine(m.printer.Sprintf("Nav: left/right  Scroll: up/down  New text: r  Export: e  Quit: q"), m.width))
	if m.status != "" {
		return help + "\n" + statusStyle.Render(truncateLine(m.status, m.width))
	}
	return help
}

func (m *Model) renderBody() string {
	if m.current() == tabKeystrokes {
		if len(m.data.Keystrokes) == 0 {
			return m.printer.Sprintf("No keystrokes.")
		}
		return tableMutedStyle.Render(m.keyTable.View())
	}
	return m.viewports[m.current()].View()
}

func (m *Model) renderTabContents() {
	width := m.width
	if width <= 0 {
		width = 80
	}
	if vp, ok := m.viewports[tabOverview]; ok {
		vp.SetContent(renderOverview(m.data, m.printer, width))
	}
	if vp, ok := m.viewports[tabErrors]; ok {
		vp.SetContent(renderErrors(m.data, m.printer))
	}
}

func renderOverview(data Data, p *message.Printer, width int) string {
	s := data.Stats
	cards := []string{
		metricCard(p.Sprintf("WPM"), strconv.Itoa(s.WPM)),
		metricCard(p.Sprintf("CPM"), strconv.Itoa(s.CPM)),
		metricCard(p.Sprintf("Accuracy"), fmt.Sprintf("%d%%", s.Accuracy)),
		metricCard(p.Sprintf("Time"), fmt.Sprintf("%.1fs", s.TimeElapsedSeconds)),
		metricCard(p.Sprintf("Errors"), strconv.Itoa(s.ErrorCount)),
		metricCard(p.Sprintf("Error rate"), fmt.Sprintf("%.2f%%", s.ErrorRate)),
	}
	var summary string
	if width < 80 {
		summary = strings.Join(cards, "\n")
	} else {
		row1 := lipgloss.JoinHorizontal(lipgloss.Top, cards[0], cards[1], cards[2])
		row2 := lipgloss.JoinHorizontal(lipgloss.Top, cards[3], cards[4], cards[5])
		summary = lipgloss.JoinVertical(lipgloss.Left, row1, row2)
	}

	cmp := stats.Compare(s)
	lines := []string{
		cardValueStyle.Render(p.Sprintf("Session complete")),
		summary,
		p.Sprintf("WPM vs average %d: %s (%+d)", stats.AverageWPM, stats.TrendLabel(p, cmp.WPM), cmp.WPMDiff),
		p.Sprintf("CPM vs average %d: %s (%+d)", stats.AverageCPM, stats.TrendLabel(p, cmp.CPM), cmp.CPMDiff),
		headerStyle.Render(p.Sprintf("Reference characters: %d  Errors: %d  Correct characters: %d",
			len([]rune(data.State.SampleText)), s.ErrorCount, s.CorrectChars)),
	}

	var buf bytes.Buffer
	startedAt := data.State.StartedAt
	if startedAt != nil {
		if err := stats.RenderPace(&buf, p, data.Keystrokes, *startedAt, stats.PlotWidthFor(width), plotHeight); err != nil {
			buf.Reset()
			fmt.Fprintf(&buf, "%v", err)
		}
	}
	if pace := strings.TrimRight(buf.String(), "\n"); pace != "" {
		lines = append(lines, "", pace)
	}
	return strings.Join(lines, "\n")
}

func renderErrors(data Data, p *message.Printer) string {
	lines := stats.ErrorLines(p, data.Errors)
	if weak := stats.WeakCharLines(p, data.Keystrokes); len(weak) > 0 {
		lines = append(append(lines, ""), weak...)
	}
	return strings.Join(lines, "\n")
}

func metricCard(label, value string) string {
	content := fmt.Sprintf("%s\n%s", cardTitleStyle.Render(label), cardValueStyle.Render(value))
	return cardStyle.Render(content)
}
