package tui

import (
	"strings"
	"testing"

	"github.com/verte-zerg/keystroke/internal/model"
	"github.com/verte-zerg/keystroke/internal/session"
)

func styled(target, input string, phase model.Phase) []styledRune {
	return buildStyledRunes(session.Format([]rune(target), []rune(input), phase), paletteFor(ThemeDark))
}

func TestBuildStyledRunesCaret(t *testing.T) {
	pal := paletteFor(ThemeDark)
	runes := styled("ab", "a", model.PhaseActive)
	if len(runes) != 2 {
		t.Fatalf("expected 2 runes, got %d", len(runes))
	}
	if runes[0].s != pal.correct.Render("a") {
		t.Fatalf("expected correct style for first rune")
	}
	if runes[1].s != pal.currentWord.Underline(true).Render("b") {
		t.Fatalf("expected underlined caret on second rune")
	}
}

func TestBuildStyledRunesNoCaretWhenIdle(t *testing.T) {
	pal := paletteFor(ThemeDark)
	runes := styled("ab", "", model.PhaseIdle)
	for i, r := range runes {
		want := pal.pending.Render(string("ab"[i]))
		if r.s != want {
			t.Fatalf("rune %d: expected plain pending style", i)
		}
	}
}

func TestBuildStyledRunesKeepsTargetOnMistype(t *testing.T) {
	pal := paletteFor(ThemeDark)
	runes := styled("abc", "ax", model.PhaseActive)
	if runes[1].s != pal.incorrect.Render("b") {
		t.Fatalf("expected incorrect style showing the reference rune")
	}
}

func TestBuildStyledRunesWordHighlighting(t *testing.T) {
	pal := paletteFor(ThemeDark)
	runes := styled("one two", "o", model.PhaseActive)
	if runes[2].s != pal.currentWord.Render("e") {
		t.Fatalf("expected current word style inside the current word")
	}
	if runes[4].s != pal.pending.Render("t") {
		t.Fatalf("expected pending style for the next word")
	}
}

func TestBuildStyledRunesWrongSpaceDot(t *testing.T) {
	pal := paletteFor(ThemeDark)
	runes := styled("a bc", "ax", model.PhaseActive)
	if runes[1].s != pal.incorrect.Render("•") {
		t.Fatalf("expected dot for a mistyped space")
	}
	if !runes[1].isSpace {
		t.Fatalf("mistyped space should still wrap as a space")
	}
}

func TestWrapStyledRunesBreaksAtSpaces(t *testing.T) {
	runes := make([]styledRune, 0)
	for _, r := range "one two three" {
		runes = append(runes, styledRune{s: string(r), width: 1, isSpace: r == ' '})
	}
	got := wrapStyledRunes(runes, 8)
	want := "one two \nthree"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestWrapStyledRunesLongWord(t *testing.T) {
	runes := make([]styledRune, 0)
	for _, r := range "abcdef" {
		runes = append(runes, styledRune{s: string(r), width: 1})
	}
	got := wrapStyledRunes(runes, 4)
	if lines := strings.Split(got, "\n"); len(lines) != 2 || lines[0] != "abcd" {
		t.Fatalf("unexpected wrap: %q", got)
	}
}
