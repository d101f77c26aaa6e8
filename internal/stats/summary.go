package stats

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"golang.org/x/text/message"

	"github.com/verte-zerg/keystroke/internal/model"
)

const (
	// TopErrors is how many error pairs the reports list.
	TopErrors = 5
	// TopWeakChars is how many weak characters the reports list.
	TopWeakChars = 5

	paceWindow = 5
)

// CharLabel renders a character for tables, spelling out the space.
func CharLabel(p *message.Printer, ch string) string {
	if ch == " " {
		return p.Sprintf("<space>")
	}
	return ch
}

// TrendLabel localizes a trend.
func TrendLabel(p *message.Printer, t Trend) string {
	return p.Sprintf(string(t))
}

// SummaryLines returns the localized final stats as aligned lines.
func SummaryLines(p *message.Printer, s model.TypingStats) []string {
	rows := [][]string{
		{p.Sprintf("WPM"), strconv.Itoa(s.WPM)},
		{p.Sprintf("CPM"), strconv.Itoa(s.CPM)},
		{p.Sprintf("Accuracy"), fmt.Sprintf("%d%%", s.Accuracy)},
		{p.Sprintf("Time"), fmt.Sprintf("%.1fs", s.TimeElapsedSeconds)},
		{p.Sprintf("Errors"), strconv.Itoa(s.ErrorCount)},
		{p.Sprintf("Error rate"), fmt.Sprintf("%.2f%%", s.ErrorRate)},
		{p.Sprintf("Words"), strconv.Itoa(s.WordsTyped)},
		{p.Sprintf("Chars"), strconv.Itoa(s.CharsTyped)},
	}
	lines := formatTable(nil, rows, map[int]bool{1: true})
	cmp := Compare(s)
	return append(lines,
		"",
		p.Sprintf("WPM vs average %d: %s (%+d)", AverageWPM, TrendLabel(p, cmp.WPM), cmp.WPMDiff),
		p.Sprintf("CPM vs average %d: %s (%+d)", AverageCPM, TrendLabel(p, cmp.CPM), cmp.CPMDiff),
	)
}

// ErrorLines returns the most frequent error pairs as a table.
func ErrorLines(p *message.Printer, errs []model.ErrorEntry) []string {
	pairs := FrequentErrors(errs, TopErrors)
	if len(pairs) == 0 {
		return []string{p.Sprintf("No errors.")}
	}
	rows := make([][]string, 0, len(pairs))
	for _, pair := range pairs {
		rows = append(rows, []string{
			CharLabel(p, pair.Expected),
			CharLabel(p, pair.Actual),
			strconv.Itoa(pair.Count),
		})
	}
	headers := []string{p.Sprintf("Expected"), p.Sprintf("Typed"), p.Sprintf("Count")}
	return append([]string{p.Sprintf("Most frequent errors")}, formatTable(headers, rows, map[int]bool{2: true})...)
}

// WeakCharLines returns the least accurate characters as a table, or nil
// when every character was typed correctly.
func WeakCharLines(p *message.Printer, records []model.KeystrokeRecord) []string {
	weak := WeakestChars(records, TopWeakChars)
	if len(weak) == 0 {
		return nil
	}
	rows := make([][]string, 0, len(weak))
	for _, c := range weak {
		rows = append(rows, []string{
			CharLabel(p, c.Char),
			fmt.Sprintf("%.0f%%", c.Accuracy()*100),
			strconv.Itoa(c.Incorrect),
		})
	}
	headers := []string{p.Sprintf("Char"), p.Sprintf("Accuracy"), p.Sprintf("Errors")}
	return append([]string{p.Sprintf("Weakest characters")}, formatTable(headers, rows, map[int]bool{1: true, 2: true})...)
}

// RenderSummary prints the session summary, frequent errors and weakest
// characters.
func RenderSummary(w io.Writer, p *message.Printer, s model.TypingStats, errs []model.ErrorEntry, records []model.KeystrokeRecord) error {
	sections := [][]string{
		append([]string{p.Sprintf("Session summary")}, SummaryLines(p, s)...),
		ErrorLines(p, errs),
		WeakCharLines(p, records),
	}
	for _, lines := range sections {
		if len(lines) == 0 {
			continue
		}
		for _, line := range lines {
			if _, err := fmt.Fprintln(w, line); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(w, ""); err != nil {
			return err
		}
	}
	return nil
}

// RenderPace plots WPM over the session with a moving average. Nothing is
// written with fewer than two samples.
func RenderPace(w io.Writer, p *message.Printer, records []model.KeystrokeRecord, startedAt time.Time, width, height int) error {
	pace := PaceSeries(records, startedAt)
	if len(pace) < 2 {
		return nil
	}
	return PlotSeries(w, p.Sprintf("Pace (WPM)"), []Series{
		{Name: p.Sprintf("WPM"), Values: pace},
		{Name: "avg", Values: MovingAverage(pace, paceWindow)},
	}, width, height)
}
