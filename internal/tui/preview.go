// Package tui provides interactive terminal views for theme inspection.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/resumedj/sitegen/internal/theme"
	"github.com/resumedj/sitegen/internal/tui/styles"
)

const swatchWidth = 6

// RenderPreview renders a theme's tokens as color swatches, one per line in
// declaration order.
func RenderPreview(t *theme.Theme) string {
	ui := styles.DefaultStyles()

	var b strings.Builder
	b.WriteString(ui.Title.Render(t.Name))
	if t.Description != "" {
		b.WriteString("  ")
		b.WriteString(ui.Muted.Render(t.Description))
	}
	b.WriteString("\n\n")

	nameWidth := 0
	for _, token := range t.Tokens {
		if len(token.Name) > nameWidth {
			nameWidth = len(token.Name)
		}
	}

	for _, token := range t.Tokens {
		swatch := lipgloss.NewStyle().
			Background(lipgloss.Color(token.Value)).
			Render(strings.Repeat(" ", swatchWidth))
		fmt.Fprintf(&b, "%s  %-*s  %s\n",
			swatch, nameWidth, token.Name, ui.Muted.Render(token.Value))
	}

	return b.String()
}
