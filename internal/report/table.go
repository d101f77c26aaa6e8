package report

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/message"

	"github.com/verte-zerg/keystroke/internal/stats"
)

func buildKeystrokeTable(data Data, p *message.Printer, width, height int) table.Model {
	columns := []table.Column{
		{Title: "#", Width: 5},
		{Title: p.Sprintf("Expected"), Width: 10},
		{Title: p.Sprintf("Typed"), Width: 10},
		{Title: p.Sprintf("Status"), Width: 11},
		{Title: p.Sprintf("Offset (ms)"), Width: 18},
	}
	rows := make([]table.Row, 0, len(data.Keystrokes))
	for i, k := range data.Keystrokes {
		offset := ""
		if data.State.StartedAt != nil {
			offset = strconv.FormatInt(k.Timestamp.Sub(*data.State.StartedAt).Milliseconds(), 10)
		}
		rows = append(rows, table.Row{
			strconv.Itoa(i + 1),
			stats.CharLabel(p, k.ExpectedChar),
			stats.CharLabel(p, k.TypedChar),
			p.Sprintf(string(k.Status)),
			offset,
		})
	}
	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithHeight(maxInt(1, height-1)),
	)
	t.SetWidth(width)
	t.SetStyles(keystrokeTableStyles())
	return t
}

func keystrokeTableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		Padding(0, 1).
		PaddingLeft(0)
	styles.Cell = styles.Cell.
		Padding(0, 1).
		PaddingLeft(0)
	styles.Selected = styles.Cell.
		Foreground(lipgloss.Color("#F0F0F0")).
		Bold(true)
	return styles
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func padLine(line string, width int) string {
	lineWidth := lipgloss.Width(line)
	if lineWidth < width {
		return line + strings.Repeat(" ", width-lineWidth)
	}
	return line
}

func fitLines(s string, width, height int) string {
	if width <= 0 || height <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}
	return strings.Join(lines, "\n")
}

func truncateLine(s string, width int) string {
	if width <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width <= 3 {
		return string(runes[:width])
	}
	return string(runes[:width-3]) + "..."
}
