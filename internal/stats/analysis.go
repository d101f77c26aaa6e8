package stats

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/verte-zerg/keystroke/internal/model"
)

const sparkChars = " .:-=+*#%@"

// Reference speeds of an average typist.
const (
	AverageWPM = 40
	AverageCPM = 200

	wpmTolerance = 5
	cpmTolerance = 10
)

// Trend compares a value against an average.
type Trend string

const (
	TrendHigher Trend = "higher"
	TrendLower  Trend = "lower"
	TrendOnPar  Trend = "on par"
)

// Comparison rates a session against the average typist.
type Comparison struct {
	WPM     Trend
	WPMDiff int
	CPM     Trend
	CPMDiff int
}

// Compare rates WPM and CPM against AverageWPM and AverageCPM.
func Compare(s model.TypingStats) Comparison {
	wpmDiff := s.WPM - AverageWPM
	cpmDiff := s.CPM - AverageCPM
	return Comparison{
		WPM:     trendFor(wpmDiff, wpmTolerance),
		WPMDiff: wpmDiff,
		CPM:     trendFor(cpmDiff, cpmTolerance),
		CPMDiff: cpmDiff,
	}
}

func trendFor(diff, tolerance int) Trend {
	switch {
	case diff > tolerance:
		return TrendHigher
	case diff < -tolerance:
		return TrendLower
	default:
		return TrendOnPar
	}
}

// ErrorPair counts live errors sharing the same expected and typed character.
type ErrorPair struct {
	Expected string
	Actual   string
	Count    int
}

// FrequentErrors returns the top n error pairs by count.
func FrequentErrors(errs []model.ErrorEntry, n int) []ErrorPair {
	if n <= 0 || len(errs) == 0 {
		return nil
	}
	type pairKey struct{ expected, actual string }
	counts := map[pairKey]int{}
	order := []pairKey{}
	for _, e := range errs {
		k := pairKey{e.Expected, e.Actual}
		if _, ok := counts[k]; !ok {
			order = append(order, k)
		}
		counts[k]++
	}
	pairs := make([]ErrorPair, 0, len(order))
	for _, k := range order {
		pairs = append(pairs, ErrorPair{Expected: k.expected, Actual: k.actual, Count: counts[k]})
	}
	sort.SliceStable(pairs, func(i, j int) bool {
		return pairs[i].Count > pairs[j].Count
	})
	if n > len(pairs) {
		n = len(pairs)
	}
	return pairs[:n]
}

// PaceSeries returns the cumulative WPM after each keystroke, counting only
// correct keystrokes. Records at or before startedAt are skipped.
func PaceSeries(records []model.KeystrokeRecord, startedAt time.Time) []float64 {
	out := make([]float64, 0, len(records))
	correct := 0
	for _, r := range records {
		if r.Status == model.KeyCorrect {
			correct++
		}
		minutes := r.Timestamp.Sub(startedAt).Minutes()
		if minutes <= 0 {
			continue
		}
		out = append(out, float64(correct)/CharsPerWord/minutes)
	}
	return out
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	if window <= 1 {
		copy(out, values)
		return out
	}
	var sum float64
	for i, v := range values {
		sum += v
		den := float64(i + 1)
		if i >= window {
			sum -= values[i-window]
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal, maxVal := minMax(values)
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		idx = clamp(idx, 0, len(sparkChars)-1)
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

func minMax(values []float64) (float64, float64) {
	if len(values) == 0 {
		return 0, 0
	}
	minVal, maxVal := values[0], values[0]
	for _, v := range values[1:] {
		minVal = math.Min(minVal, v)
		maxVal = math.Max(maxVal, v)
	}
	return minVal, maxVal
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
