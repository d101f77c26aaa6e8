package stats

import (
	"sort"

	"github.com/verte-zerg/keystroke/internal/model"
)

// CharStat aggregates keystrokes for one expected character.
type CharStat struct {
	Char      string
	Correct   int
	Incorrect int
}

// Accuracy returns the share of correct keystrokes in [0, 1].
func (c CharStat) Accuracy() float64 {
	total := c.Correct + c.Incorrect
	if total == 0 {
		return 1.0
	}
	return float64(c.Correct) / float64(total)
}

// CharStats aggregates records by expected character in first-seen order.
func CharStats(records []model.KeystrokeRecord) []CharStat {
	index := map[string]int{}
	var out []CharStat
	for _, r := range records {
		i, ok := index[r.ExpectedChar]
		if !ok {
			i = len(out)
			index[r.ExpectedChar] = i
			out = append(out, CharStat{Char: r.ExpectedChar})
		}
		if r.Status == model.KeyCorrect {
			out[i].Correct++
		} else {
			out[i].Incorrect++
		}
	}
	return out
}

// WeakestChars returns up to n mistyped characters ordered by lowest
// accuracy, then by character.
func WeakestChars(records []model.KeystrokeRecord, n int) []CharStat {
	if n <= 0 {
		return nil
	}
	var candidates []CharStat
	for _, c := range CharStats(records) {
		if c.Incorrect > 0 {
			candidates = append(candidates, c)
		}
	}
	sort.Slice(candidates, func(i, j int) bool {
		ai, aj := candidates[i].Accuracy(), candidates[j].Accuracy()
		if ai == aj {
			return candidates[i].Char < candidates[j].Char
		}
		return ai < aj
	})
	if n > len(candidates) {
		n = len(candidates)
	}
	return candidates[:n]
}
