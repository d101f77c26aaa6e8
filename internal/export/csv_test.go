package export

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/keystroke/internal/i18n"
	"github.com/verte-zerg/keystroke/internal/model"
)

func sampleReport() Report {
	at := time.Date(2026, 5, 4, 10, 30, 0, 0, time.UTC)
	return Report{
		SessionID:   "8b1f",
		Locale:      "en",
		GeneratedAt: at,
		SampleText:  "cat, dog",
		Stats:       model.TypingStats{WPM: 36, CPM: 180, Accuracy: 67, TimeElapsedSeconds: 1.5, ErrorCount: 1, ErrorRate: 12.5},
		Keystrokes: []model.KeystrokeRecord{
			{ExpectedChar: "c", TypedChar: "c", Status: model.KeyCorrect, Timestamp: at.Add(-time.Second)},
			{ExpectedChar: "a", TypedChar: "x", Status: model.KeyIncorrect, Timestamp: at.Add(-500 * time.Millisecond)},
		},
		Errors: []model.ErrorEntry{{Expected: "a", Actual: "x", Index: 1}},
	}
}

func readAll(t *testing.T, data []byte) [][]string {
	t.Helper()
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	require.NoError(t, err)
	return records
}

func TestWriteCSVSections(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleReport(), i18n.Printer("en")))

	records := readAll(t, buf.Bytes())
	require.Len(t, records, 3+4+3)

	assert.Equal(t, []string{"General stats"}, records[0])
	assert.Equal(t, "Error rate (%)", records[1][8])
	assert.Equal(t, []string{
		"2026-05-04T10:30:00Z", "8b1f", "en", "36", "180", "67%", "1.5", "1", "12.50", "cat, dog",
	}, records[2])

	assert.Equal(t, []string{"Keystroke history"}, records[3])
	assert.Equal(t, []string{"Expected", "Typed", "Status", "Timestamp"}, records[4])
	assert.Equal(t, []string{"a", "x", "incorrect", "2026-05-04T10:29:59.5Z"}, records[6])

	assert.Equal(t, []string{"Errors"}, records[7])
	assert.Equal(t, []string{"a", "x", "1"}, records[9])
}

func TestWriteCSVLocalizedHeaders(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleReport(), i18n.Printer("es")))
	records := readAll(t, buf.Bytes())
	assert.Equal(t, []string{"Estadísticas generales"}, records[0])
	assert.Equal(t, "correcto", records[5][2])
}

func TestWriteCSVEmptySession(t *testing.T) {
	var buf bytes.Buffer
	r := Report{SessionID: "empty", Stats: model.DefaultStats()}
	require.NoError(t, WriteCSV(&buf, r, i18n.Printer("en")))
	records := readAll(t, buf.Bytes())
	assert.Len(t, records, 3+2+2)
}

func TestWriteFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "exports")
	path, err := WriteFile(dir, sampleReport(), i18n.Printer("pt"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "keystroke-8b1f.csv"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Estatísticas gerais")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file must not remain")
}
