// Package export writes session reports to CSV.
package export

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"golang.org/x/text/message"

	"github.com/verte-zerg/keystroke/internal/model"
)

// Report is everything exported for one finished or in-progress session.
type Report struct {
	SessionID   string
	Locale      string
	GeneratedAt time.Time
	SampleText  string
	Stats       model.TypingStats
	Keystrokes  []model.KeystrokeRecord
	Errors      []model.ErrorEntry
}

// FileName returns the export file name for a session.
func FileName(sessionID string) string {
	return "keystroke-" + sessionID + ".csv"
}

// WriteCSV writes the general stats, keystroke history and error sections.
// Each section has a title row and a header row; sections are separated by
// an empty line.
func WriteCSV(w io.Writer, r Report, p *message.Printer) error {
	cw := csv.NewWriter(w)
	sections := []struct {
		title   string
		headers []string
		rows    [][]string
	}{
		{
			title: p.Sprintf("General stats"),
			headers: []string{
				p.Sprintf("Report generated on"),
				p.Sprintf("Session"),
				p.Sprintf("Locale"),
				p.Sprintf("WPM"),
				p.Sprintf("CPM"),
				p.Sprintf("Accuracy"),
				p.Sprintf("Time elapsed (s)"),
				p.Sprintf("Error count"),
				p.Sprintf("Error rate (%%)"),
				p.Sprintf("Sample text"),
			},
			rows: [][]string{{
				r.GeneratedAt.Format(time.RFC3339),
				r.SessionID,
				r.Locale,
				strconv.Itoa(r.Stats.WPM),
				strconv.Itoa(r.Stats.CPM),
				strconv.Itoa(r.Stats.Accuracy) + "%",
				strconv.FormatFloat(r.Stats.TimeElapsedSeconds, 'f', 1, 64),
				strconv.Itoa(r.Stats.ErrorCount),
				strconv.FormatFloat(r.Stats.ErrorRate, 'f', 2, 64),
				r.SampleText,
			}},
		},
		{
			title: p.Sprintf("Keystroke history"),
			headers: []string{
				p.Sprintf("Expected"),
				p.Sprintf("Typed"),
				p.Sprintf("Status"),
				p.Sprintf("Timestamp"),
			},
			rows: keystrokeRows(r.Keystrokes, p),
		},
		{
			title: p.Sprintf("Errors"),
			headers: []string{
				p.Sprintf("Expected"),
				p.Sprintf("Typed"),
				p.Sprintf("Index"),
			},
			rows: errorRows(r.Errors),
		},
	}

	for i, section := range sections {
		if i > 0 {
			if err := cw.Write([]string{}); err != nil {
				return fmt.Errorf("write CSV separator: %w", err)
			}
		}
		if err := cw.Write([]string{section.title}); err != nil {
			return fmt.Errorf("write CSV title: %w", err)
		}
		if err := cw.Write(section.headers); err != nil {
			return fmt.Errorf("write CSV header: %w", err)
		}
		for _, row := range section.rows {
			if err := cw.Write(row); err != nil {
				return fmt.Errorf("write CSV row: %w", err)
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

func keystrokeRows(records []model.KeystrokeRecord, p *message.Printer) [][]string {
	rows := make([][]string, 0, len(records))
	for _, k := range records {
		rows = append(rows, []string{
			k.ExpectedChar,
			k.TypedChar,
			p.Sprintf(string(k.Status)),
			k.Timestamp.UTC().Format(time.RFC3339Nano),
		})
	}
	return rows
}

func errorRows(errs []model.ErrorEntry) [][]string {
	rows := make([][]string, 0, len(errs))
	for _, e := range errs {
		rows = append(rows, []string{e.Expected, e.Actual, strconv.Itoa(e.Index)})
	}
	return rows
}

// WriteFile writes the report to dir atomically and returns the file path.
func WriteFile(dir string, r Report, p *message.Printer) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create export dir: %w", err)
	}
	path := filepath.Join(dir, FileName(r.SessionID))
	tmpFile, err := os.CreateTemp(dir, "keystroke-*.csv.tmp")
	if err != nil {
		return "", fmt.Errorf("failed to create temp export: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	writer := bufio.NewWriter(tmpFile)
	if err := WriteCSV(writer, r, p); err != nil {
		return "", fmt.Errorf("failed to write export: %w", err)
	}
	if err := writer.Flush(); err != nil {
		return "", fmt.Errorf("failed to flush export: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return "", fmt.Errorf("failed to close export: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return "", fmt.Errorf("failed to write export: %w", err)
	}
	return path, nil
}
