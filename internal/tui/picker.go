package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/resumedj/sitegen/internal/theme"
	"github.com/resumedj/sitegen/internal/tui/styles"
)

// pickerModel lets the user choose a theme with live token swatches.
type pickerModel struct {
	themes   []*theme.Theme
	cursor   int
	selected string
	styles   styles.Styles
}

func newPickerModel(themes []*theme.Theme, active string) pickerModel {
	m := pickerModel{
		themes: themes,
		styles: styles.DefaultStyles(),
	}
	for i, t := range themes {
		if t.Name == active {
			m.cursor = i
			break
		}
	}
	return m
}

func (m pickerModel) Init() tea.Cmd {
	return nil
}

func (m pickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.themes)-1 {
				m.cursor++
			}
		case "enter":
			m.selected = m.themes[m.cursor].Name
			return m, tea.Quit
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m pickerModel) View() string {
	var b strings.Builder
	b.WriteString(m.styles.Title.Render("Select a theme"))
	b.WriteString("\n\n")

	for i, t := range m.themes {
		marker := "  "
		name := m.styles.Text.Render(t.Name)
		if i == m.cursor {
			marker = m.styles.Focus.Render("> ")
			name = m.styles.Focus.Render(t.Name)
		}
		fmt.Fprintf(&b, "%s%s %s\n", marker, name, tokenStrip(t))
	}

	b.WriteString("\n")
	b.WriteString(m.styles.Muted.Render("up/down to move, enter to select, q to cancel"))
	b.WriteString("\n")
	return b.String()
}

// tokenStrip renders one swatch cell per token so themes can be compared at
// a glance.
func tokenStrip(t *theme.Theme) string {
	var b strings.Builder
	for _, token := range t.Tokens {
		b.WriteString(lipgloss.NewStyle().
			Background(lipgloss.Color(token.Value)).
			Render("  "))
	}
	return b.String()
}

// RunPicker shows the theme picker and returns the chosen theme name, or ""
// when the user cancels.
func RunPicker(themes []*theme.Theme, active string) (string, error) {
	if len(themes) == 0 {
		return "", fmt.Errorf("no themes available")
	}

	program := tea.NewProgram(newPickerModel(themes, active))
	result, err := program.Run()
	if err != nil {
		return "", fmt.Errorf("run theme picker: %w", err)
	}

	final, ok := result.(pickerModel)
	if !ok {
		return "", fmt.Errorf("unexpected picker state")
	}
	return final.selected, nil
}
