package tui

import "github.com/charmbracelet/lipgloss"

// Theme names.
const (
	ThemeDark  = "dark"
	ThemeLight = "light"
)

type palette struct {
	correct     lipgloss.Style
	incorrect   lipgloss.Style
	pending     lipgloss.Style
	currentWord lipgloss.Style
	footer      lipgloss.Style
	status      lipgloss.Style
}

var palettes = map[string]palette{
	ThemeDark: {
		correct:     lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")),
		incorrect:   lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F")),
		pending:     lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C")),
		currentWord: lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")),
		footer:      lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E")),
		status:      lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")),
	},
	ThemeLight: {
		correct:     lipgloss.NewStyle().Foreground(lipgloss.Color("#1F1F1F")),
		incorrect:   lipgloss.NewStyle().Foreground(lipgloss.Color("#D4380D")),
		pending:     lipgloss.NewStyle().Foreground(lipgloss.Color("#A6A6A6")),
		currentWord: lipgloss.NewStyle().Foreground(lipgloss.Color("#9A6B00")),
		footer:      lipgloss.NewStyle().Foreground(lipgloss.Color("#7A7A7A")),
		status:      lipgloss.NewStyle().Foreground(lipgloss.Color("#9A6B00")),
	},
}

func paletteFor(theme string) palette {
	if p, ok := palettes[theme]; ok {
		return p
	}
	return palettes[ThemeDark]
}

func nextTheme(theme string) string {
	if theme == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}
