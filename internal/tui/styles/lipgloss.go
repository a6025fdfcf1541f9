// Package styles derives lipgloss styles from terminal UI theme tokens.
package styles

import "github.com/charmbracelet/lipgloss"

// Styles contains lipgloss styles derived from theme tokens.
type Styles struct {
	Theme   Theme
	Title   lipgloss.Style
	Text    lipgloss.Style
	Muted   lipgloss.Style
	Accent  lipgloss.Style
	Border  lipgloss.Style
	Focus   lipgloss.Style
	Success lipgloss.Style
	Error   lipgloss.Style
}

// DefaultStyles builds styles from the default theme.
func DefaultStyles() Styles {
	return BuildStyles(DefaultTheme)
}

// BuildStyles converts theme tokens into lipgloss styles.
func BuildStyles(theme Theme) Styles {
	tokens := theme.Tokens

	return Styles{
		Theme:   theme,
		Title:   lipgloss.NewStyle().Foreground(lipgloss.Color(tokens.Text)).Bold(true),
		Text:    lipgloss.NewStyle().Foreground(lipgloss.Color(tokens.Text)),
		Muted:   lipgloss.NewStyle().Foreground(lipgloss.Color(tokens.TextMuted)),
		Accent:  lipgloss.NewStyle().Foreground(lipgloss.Color(tokens.Accent)),
		Border:  lipgloss.NewStyle().Foreground(lipgloss.Color(tokens.Border)),
		Focus:   lipgloss.NewStyle().Foreground(lipgloss.Color(tokens.Focus)).Bold(true),
		Success: lipgloss.NewStyle().Foreground(lipgloss.Color(tokens.Success)),
		Error:   lipgloss.NewStyle().Foreground(lipgloss.Color(tokens.Error)),
	}
}
