package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/verte-zerg/keystroke/internal/model"
)

var start = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func TestComputeAllCorrect(t *testing.T) {
	got := Compute(Input{
		Reference: []rune("hello world"),
		Typed:     []rune("hello world"),
		StartedAt: start,
	}, start.Add(6*time.Second), model.DefaultStats())

	assert.Equal(t, model.TypingStats{
		WPM:                22,
		CPM:                110,
		Accuracy:           100,
		TimeElapsedSeconds: 6,
		WordsTyped:         2,
		CharsTyped:         11,
		CorrectChars:       11,
	}, got)
}

func TestComputeWithErrors(t *testing.T) {
	got := Compute(Input{
		Reference:  []rune("cat"),
		Typed:      []rune("cap"),
		StartedAt:  start,
		ErrorCount: 1,
	}, start.Add(1500*time.Millisecond), model.DefaultStats())

	assert.Equal(t, 80, got.CPM)
	assert.Equal(t, 16, got.WPM)
	assert.Equal(t, 67, got.Accuracy)
	assert.Equal(t, 33.33, got.ErrorRate)
	assert.Equal(t, 1.5, got.TimeElapsedSeconds)
	assert.Equal(t, 2, got.CorrectChars)
}

func TestComputeNothingTyped(t *testing.T) {
	got := Compute(Input{Reference: []rune("cat"), StartedAt: start}, start.Add(time.Second), model.DefaultStats())
	assert.Equal(t, 100, got.Accuracy)
	assert.Zero(t, got.CPM)
	assert.Zero(t, got.WordsTyped)
}

func TestComputeKeepsPreviousWithoutElapsedTime(t *testing.T) {
	prev := model.TypingStats{WPM: 42, CPM: 210, Accuracy: 90}
	in := Input{Reference: []rune("cat"), Typed: []rune("c"), StartedAt: start}

	assert.Equal(t, prev, Compute(in, start, prev))
	assert.Equal(t, prev, Compute(in, start.Add(-time.Second), prev))
	assert.Equal(t, prev, Compute(Input{Typed: []rune("c")}, start, prev))
}

func TestFinalFillsCountsWithoutElapsedTime(t *testing.T) {
	prev := model.DefaultStats()
	in := Input{Reference: []rune("cat"), Typed: []rune("cap"), StartedAt: start, ErrorCount: 1}

	got := Final(in, start, prev)
	assert.Equal(t, model.TypingStats{
		Accuracy:     67,
		ErrorCount:   1,
		ErrorRate:    33.33,
		WordsTyped:   1,
		CharsTyped:   3,
		CorrectChars: 2,
	}, got)
}

func TestFinalMatchesComputeWithElapsedTime(t *testing.T) {
	in := Input{Reference: []rune("cat"), Typed: []rune("cap"), StartedAt: start, ErrorCount: 1}
	at := start.Add(1500 * time.Millisecond)
	assert.Equal(t, Compute(in, at, model.DefaultStats()), Final(in, at, model.DefaultStats()))
}

func TestComputeWordsCollapseWhitespace(t *testing.T) {
	got := Compute(Input{
		Reference: []rune("one two  three"),
		Typed:     []rune("  one two  "),
		StartedAt: start,
	}, start.Add(time.Minute), model.DefaultStats())
	assert.Equal(t, 2, got.WordsTyped)
}

func TestCorrectChars(t *testing.T) {
	cases := []struct {
		ref, typed string
		want       int
	}{
		{"cat", "", 0},
		{"cat", "cat", 3},
		{"cat", "cxt", 2},
		{"cat", "catch", 3},
		{"año", "ano", 2},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, CorrectChars([]rune(tc.ref), []rune(tc.typed)), "%q vs %q", tc.ref, tc.typed)
	}
}

func TestAccuracyBounds(t *testing.T) {
	for _, typed := range []string{"", "x", "xxxxxxxx", "cat", "cats and dogs"} {
		got := Compute(Input{Reference: []rune("cat"), Typed: []rune(typed), StartedAt: start}, start.Add(time.Second), model.DefaultStats())
		assert.GreaterOrEqual(t, got.Accuracy, 0)
		assert.LessOrEqual(t, got.Accuracy, 100)
	}
}
