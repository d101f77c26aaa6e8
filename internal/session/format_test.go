package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/keystroke/internal/model"
)

func TestFormatStatuses(t *testing.T) {
	chars := Format([]rune("cat"), []rune("cx"), model.PhaseActive)
	require.Len(t, chars, 3)

	assert.Equal(t, model.DisplayChar{Char: 'c', Status: model.CharCorrect}, chars[0])
	assert.Equal(t, model.DisplayChar{Char: 'a', Status: model.CharIncorrect, ActualTyped: "x"}, chars[1])
	assert.Equal(t, model.DisplayChar{Char: 't', Status: model.CharPending, CaretHere: true}, chars[2])
}

func TestFormatCaretOnlyWhileActive(t *testing.T) {
	for _, phase := range []model.Phase{model.PhaseIdle, model.PhaseFinished} {
		for _, dc := range Format([]rune("cat"), nil, phase) {
			assert.False(t, dc.CaretHere, "phase %s", phase)
		}
	}
	chars := Format([]rune("cat"), nil, model.PhaseActive)
	assert.True(t, chars[0].CaretHere)
}

func TestFormatNoCaretWhenFullyTyped(t *testing.T) {
	for _, dc := range Format([]rune("ab"), []rune("ab"), model.PhaseActive) {
		assert.False(t, dc.CaretHere)
	}
}

func TestFormatMultibyte(t *testing.T) {
	chars := Format([]rune("año"), []rune("an"), model.PhaseActive)
	require.Len(t, chars, 3)
	assert.Equal(t, 'ñ', chars[1].Char)
	assert.Equal(t, model.CharIncorrect, chars[1].Status)
	assert.Equal(t, "n", chars[1].ActualTyped)
	assert.True(t, chars[2].CaretHere)
}

func TestFormatTypedBeyondReference(t *testing.T) {
	chars := Format([]rune("ab"), []rune("abcd"), model.PhaseFinished)
	require.Len(t, chars, 2)
	for _, dc := range chars {
		assert.Equal(t, model.CharCorrect, dc.Status)
	}
}
