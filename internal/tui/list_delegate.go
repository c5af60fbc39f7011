package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
)

// rowDelegate renders one item per line: name left, price right. Width
// handling goes through x/ansi so styled names truncate cleanly.
type rowDelegate struct {
	normal   lipgloss.Style
	selected lipgloss.Style
	price    lipgloss.Style
}

func newRowDelegate() rowDelegate {
	return rowDelegate{
		normal: lipgloss.NewStyle(),
		selected: lipgloss.NewStyle().
			Foreground(colorSelectedFg).
			Background(colorSelectedBg).
			Bold(true),
		price: lipgloss.NewStyle().Foreground(colorAccent),
	}
}

func (d rowDelegate) Height() int  { return 1 }
func (d rowDelegate) Spacing() int { return 0 }
func (d rowDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

func (d rowDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	contentW := m.Width()
	if contentW < 4 {
		fmt.Fprint(w, "")
		return
	}

	row, ok := item.(catalogRow)
	if !ok {
		fmt.Fprint(w, fmt.Sprint(item))
		return
	}

	price := formatPrice(row.item.Price)
	name := row.Title()

	// Keep at least one space between name and price.
	nameW := contentW - xansi.StringWidth(price) - 1
	if nameW < 1 {
		nameW = 1
	}
	if xansi.StringWidth(name) > nameW {
		name = xansi.Cut(name, 0, nameW)
	}
	pad := contentW - xansi.StringWidth(name) - xansi.StringWidth(price)
	if pad < 1 {
		pad = 1
	}

	line := name + strings.Repeat(" ", pad) + d.price.Render(price)

	style := d.normal
	if index == m.Index() {
		style = d.selected
		// Selection highlight covers the whole line, including the price.
		line = name + strings.Repeat(" ", pad) + price
	}
	fmt.Fprint(w, style.Render(line))
}
