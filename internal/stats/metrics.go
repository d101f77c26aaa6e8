// Package stats contains statistics calculations and reporting.
package stats

import (
	"math"
	"strings"
	"time"

	"github.com/verte-zerg/keystroke/internal/model"
)

// CharsPerWord is the fixed word length used to derive WPM from CPM.
const CharsPerWord = 5

// Input is the session state read by Compute.
type Input struct {
	Reference  []rune
	Typed      []rune
	StartedAt  time.Time
	ErrorCount int
}

// Compute builds a fresh stats snapshot at the given instant. When no time
// has elapsed since StartedAt, prev is returned unchanged.
func Compute(in Input, at time.Time, prev model.TypingStats) model.TypingStats {
	elapsed, ok := elapsedSeconds(in, at)
	if !ok {
		return prev
	}
	s := counts(in)
	s.CPM = roundInt(float64(s.CorrectChars) / elapsed * 60)
	s.WPM = roundInt(float64(s.CPM) / CharsPerWord)
	s.TimeElapsedSeconds = roundTo(elapsed, 1)
	return s
}

// Final is Compute for the completion instant. The count fields always
// describe in; without elapsed time only WPM, CPM and the elapsed seconds
// keep their values from prev.
func Final(in Input, at time.Time, prev model.TypingStats) model.TypingStats {
	if _, ok := elapsedSeconds(in, at); ok {
		return Compute(in, at, prev)
	}
	s := counts(in)
	s.WPM = prev.WPM
	s.CPM = prev.CPM
	s.TimeElapsedSeconds = prev.TimeElapsedSeconds
	return s
}

func elapsedSeconds(in Input, at time.Time) (float64, bool) {
	if in.StartedAt.IsZero() {
		return 0, false
	}
	elapsed := at.Sub(in.StartedAt).Seconds()
	return elapsed, elapsed > 0
}

// counts fills every field that does not depend on elapsed time.
func counts(in Input) model.TypingStats {
	correct := CorrectChars(in.Reference, in.Typed)
	charsTyped := len(in.Typed)

	accuracy := 100
	if charsTyped > 0 {
		accuracy = roundInt(float64(correct) / float64(charsTyped) * 100)
	}

	errorRate := 0.0
	if len(in.Reference) > 0 {
		errorRate = roundTo(float64(in.ErrorCount)/float64(len(in.Reference))*100, 2)
	}

	return model.TypingStats{
		Accuracy:     accuracy,
		ErrorCount:   in.ErrorCount,
		ErrorRate:    errorRate,
		WordsTyped:   len(strings.Fields(string(in.Typed))),
		CharsTyped:   charsTyped,
		CorrectChars: correct,
	}
}

// CorrectChars counts positions where typed matches reference. The whole
// prefix is rescanned because backspace can change earlier positions.
func CorrectChars(reference, typed []rune) int {
	n := len(typed)
	if len(reference) < n {
		n = len(reference)
	}
	correct := 0
	for i := 0; i < n; i++ {
		if typed[i] == reference[i] {
			correct++
		}
	}
	return correct
}

func roundInt(v float64) int {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return int(math.Round(v))
}

func roundTo(v float64, places int) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	scale := math.Pow(10, float64(places))
	return math.Round(v*scale) / scale
}
