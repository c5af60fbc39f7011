package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"stockroom/internal/model"
)

// renderItemDetail draws the right-hand panel for the selected item:
// name, price, canonical id, and the description rendered as markdown.
func renderItemDetail(it model.Item, width, height int) string {
	if width < 20 {
		width = 20
	}

	name := lipgloss.NewStyle().Bold(true).Width(width).Render(strings.TrimSpace(it.Name))
	price := lipgloss.NewStyle().Foreground(colorAccent).Render(formatPrice(it.Price))
	id := styleMuted().Render("id: " + it.ID)

	desc := renderMarkdown(it.Description, width)
	if desc == "" {
		desc = styleMuted().Render("(no description)")
	}

	parts := []string{name, price, id, "", desc}
	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Render(strings.Join(parts, "\n"))
}
