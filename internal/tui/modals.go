package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
)

func modalBodyWidth(width int) int {
	w := width - 12
	if w > 64 {
		w = 64
	}
	if w < 24 {
		w = 24
	}
	return w
}

// renderModalBox draws a titled surface-colored box for modal content.
// No borders: some terminals show background artifacts when nesting
// bordered components inside a colored box.
func renderModalBox(width int, title string, content string) string {
	bodyW := modalBodyWidth(width)

	header := lipgloss.NewStyle().
		Bold(true).
		Foreground(colorSurfaceFg).
		Background(colorSurfaceBg).
		Width(bodyW).
		Render(title)

	body := lipgloss.NewStyle().
		Foreground(colorSurfaceFg).
		Background(colorSurfaceBg).
		Width(bodyW).
		Render(content)

	return lipgloss.NewStyle().
		Background(colorSurfaceBg).
		Padding(1, 2).
		Render(header + "\n\n" + body)
}

func renderConfirmModal(width int, title string, body string, confirmLabel string, cancelLabel string, focus confirmModalFocus) string {
	btnBase := lipgloss.NewStyle().
		Padding(0, 1).
		Foreground(colorSurfaceFg).
		Background(colorControlBg)
	btnActive := btnBase.
		Foreground(colorSelectedFg).
		Background(colorSelectedBg).
		Bold(true)

	confirm := btnBase.Render(confirmLabel)
	cancel := btnBase.Render(cancelLabel)
	if focus == confirmFocusConfirm {
		confirm = btnActive.Render(confirmLabel)
	}
	if focus == confirmFocusCancel {
		cancel = btnActive.Render(cancelLabel)
	}

	sep := lipgloss.NewStyle().Background(colorControlBg).Render(" ")
	controls := lipgloss.JoinHorizontal(lipgloss.Top, confirm, sep, cancel)

	bodyW := modalBodyWidth(width)
	help := styleMuted().Width(bodyW).Render("tab: focus   enter: select   esc: cancel")

	content := strings.Join([]string{
		body,
		"",
		controls,
		"",
		help,
	}, "\n")
	return renderModalBox(width, title, content)
}

// renderFormModal draws the add/edit form: three labeled inputs plus help.
func renderFormModal(width int, title string, name, description, price textinput.Model, submitting bool) string {
	label := styleMuted()

	rows := []string{
		label.Render("Name"),
		name.View(),
		"",
		label.Render("Description"),
		description.View(),
		"",
		label.Render("Price"),
		price.View(),
		"",
	}
	if submitting {
		rows = append(rows, lipgloss.NewStyle().Foreground(colorAccent).Render("submitting…"))
	} else {
		rows = append(rows, styleMuted().Render("tab: next field   enter: save   esc: cancel"))
	}
	return renderModalBox(width, title, strings.Join(rows, "\n"))
}
