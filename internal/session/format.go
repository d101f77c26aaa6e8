package session

import "github.com/verte-zerg/keystroke/internal/model"

// Format annotates every reference character with its typing status. The
// caret sits right after the last typed character and only while active.
func Format(reference, typed []rune, phase model.Phase) []model.DisplayChar {
	out := make([]model.DisplayChar, len(reference))
	for i, r := range reference {
		dc := model.DisplayChar{Char: r, Status: model.CharPending}
		if i < len(typed) {
			if typed[i] == r {
				dc.Status = model.CharCorrect
			} else {
				dc.Status = model.CharIncorrect
				dc.ActualTyped = string(typed[i])
			}
		}
		dc.CaretHere = phase == model.PhaseActive && i == len(typed)
		out[i] = dc
	}
	return out
}
