package stats

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/keystroke/internal/i18n"
	"github.com/verte-zerg/keystroke/internal/model"
)

func TestRenderSummary(t *testing.T) {
	var buf bytes.Buffer
	s := model.TypingStats{WPM: 52, CPM: 260, Accuracy: 96, TimeElapsedSeconds: 12.4, ErrorCount: 2, ErrorRate: 3.5}
	errs := []model.ErrorEntry{{Expected: " ", Actual: "x", Index: 4}}
	records := []model.KeystrokeRecord{{ExpectedChar: " ", TypedChar: "x", Status: model.KeyIncorrect}}

	require.NoError(t, RenderSummary(&buf, i18n.Printer("en"), s, errs, records))
	out := buf.String()
	assert.Contains(t, out, "Session summary")
	assert.Contains(t, out, "WPM vs average 40: higher (+12)")
	assert.Contains(t, out, "CPM vs average 200: higher (+60)")
	assert.Contains(t, out, "Most frequent errors")
	assert.Contains(t, out, "<space>")
	assert.Contains(t, out, "Weakest characters")
	assert.Contains(t, out, "12.4s")
}

func TestRenderSummaryLocalized(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderSummary(&buf, i18n.Printer("es"), model.DefaultStats(), nil, nil))
	out := buf.String()
	assert.Contains(t, out, "Resumen de la sesión")
	assert.Contains(t, out, "Sin errores.")
	assert.NotContains(t, out, "Caracteres más débiles")
}

func TestRenderPaceNeedsTwoSamples(t *testing.T) {
	var buf bytes.Buffer
	p := i18n.Printer("en")
	one := []model.KeystrokeRecord{{Status: model.KeyCorrect, Timestamp: start.Add(time.Second)}}
	require.NoError(t, RenderPace(&buf, p, one, start, 20, 3))
	assert.Zero(t, buf.Len())

	two := append(one, model.KeystrokeRecord{Status: model.KeyCorrect, Timestamp: start.Add(2 * time.Second)})
	require.NoError(t, RenderPace(&buf, p, two, start, 20, 3))
	assert.True(t, strings.HasPrefix(buf.String(), "Pace (WPM)\n"))
}
