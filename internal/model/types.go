// Package model defines shared data structures.
package model

import "time"

// Phase is the lifecycle stage of a typing session.
type Phase int

const (
	// PhaseIdle means no input has been received and the timer is not running.
	PhaseIdle Phase = iota
	// PhaseActive means the timer is running and input is accepted.
	PhaseActive
	// PhaseFinished means the input reached the reference length.
	PhaseFinished
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseActive:
		return "active"
	case PhaseFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// KeyStatus is the comparison result of a forward keystroke.
type KeyStatus string

const (
	// KeyCorrect means the typed character matched the reference.
	KeyCorrect KeyStatus = "correct"
	// KeyIncorrect means the typed character differed from the reference.
	KeyIncorrect KeyStatus = "incorrect"
)

// KeystrokeRecord is one forward-typed character. Records are never mutated.
type KeystrokeRecord struct {
	ExpectedChar string
	TypedChar    string
	Status       KeyStatus
	Timestamp    time.Time
}

// ErrorEntry is a live mismatch at a position of the reference text.
type ErrorEntry struct {
	Expected string
	Actual   string
	Index    int
}

// TypingStats is a snapshot of session metrics.
type TypingStats struct {
	WPM                int
	CPM                int
	Accuracy           int
	TimeElapsedSeconds float64
	ErrorCount         int
	ErrorRate          float64
	WordsTyped         int
	CharsTyped         int
	CorrectChars       int
}

// DefaultStats returns the stats of a session with no input.
func DefaultStats() TypingStats {
	return TypingStats{Accuracy: 100}
}

// CharStatus describes how a reference character should be displayed.
type CharStatus string

const (
	// CharPending marks a position not typed yet.
	CharPending CharStatus = "pending"
	// CharCorrect marks a position typed as the reference.
	CharCorrect CharStatus = "correct"
	// CharIncorrect marks a position typed differently from the reference.
	CharIncorrect CharStatus = "incorrect"
)

// DisplayChar annotates a single reference character for rendering.
type DisplayChar struct {
	Char      rune
	Status    CharStatus
	CaretHere bool
	// ActualTyped is set only for incorrect characters.
	ActualTyped string
}

// State is a read-only view of the session.
type State struct {
	ID         string
	Locale     string
	SampleText string
	TypedText  string
	Phase      Phase
	StartedAt  *time.Time
	FinishedAt *time.Time
}

// Preferences are user toggles persisted between runs.
type Preferences struct {
	Locale      string
	Theme       string
	Bell        bool
	ShowErrors  bool
	ShowHistory bool
}

// DefaultPreferences returns the preferences used before anything is stored.
func DefaultPreferences() Preferences {
	return Preferences{
		Locale:      "en",
		Theme:       "dark",
		ShowErrors:  true,
		ShowHistory: true,
	}
}

// Config defines practice settings.
type Config struct {
	Preferences
	TextsDir     string
	PollInterval time.Duration
	ExportDir    string
	LogFile      string
	LogLevel     string
}
