package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func (m appModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "loading..."
	}

	header := m.renderHeader()
	search := m.renderSearchLine()
	footer := m.renderFooter()

	chromeHeight := lipgloss.Height(header) + lipgloss.Height(search) + lipgloss.Height(footer)
	bodyHeight := m.height - chromeHeight
	if bodyHeight < 1 {
		bodyHeight = 1
	}

	body := m.renderBody(bodyHeight)

	screen := lipgloss.JoinVertical(lipgloss.Left, header, search, body, footer)

	if m.modal != modalNone {
		return m.renderModalOverlay()
	}
	return screen
}

func (m appModel) renderHeader() string {
	title := lipgloss.NewStyle().Bold(true).Render("stockroom")
	coll := styleMuted().Render("collection: " + m.collection)
	sortInfo := styleMuted().Render("sort: " + sortLabel(m.sortKey, m.sortOrder))

	status := ""
	if m.orc.Loading() {
		status = styleMuted().Render("fetching...")
	} else if m.orc.Submitting() {
		status = styleMuted().Render("submitting...")
	}

	left := title + "  " + coll + "  " + sortInfo
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(status)
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + status
}

func (m appModel) renderSearchLine() string {
	label := styleMuted().Render("search:")
	return label + " " + m.searchInput.View()
}

func (m appModel) renderBody(height int) string {
	listWidth := m.width / 2
	detailWidth := m.width - listWidth - 1
	if detailWidth < 10 {
		return m.itemsList.View()
	}

	listView := lipgloss.NewStyle().Width(listWidth).Height(height).Render(m.itemsList.View())

	var detailView string
	if it, ok := m.selectedItem(); ok {
		detailView = renderItemDetail(it, detailWidth, height)
	} else {
		detailView = styleMuted().Render("No item selected.")
	}
	detailView = lipgloss.NewStyle().Width(detailWidth).Height(height).Render(detailView)

	return lipgloss.JoinHorizontal(lipgloss.Top, listView, " ", detailView)
}

func (m appModel) renderFooter() string {
	if m.flashText != "" {
		st := lipgloss.NewStyle().Foreground(colorSuccess)
		if m.flashErr {
			st = lipgloss.NewStyle().Foreground(colorDanger)
		}
		return st.Render(m.flashText)
	}

	help := "a add  e edit  d delete  / search  s sort  o order  r refresh  q quit"
	return styleMuted().Render(help)
}

func (m appModel) renderModalOverlay() string {
	var box string
	switch m.modal {
	case modalAddItem:
		box = renderFormModal(m.width, "Add item",
			m.nameInput, m.descInput, m.priceInput, m.orc.Submitting())
	case modalEditItem:
		box = renderFormModal(m.width, "Edit item",
			m.nameInput, m.descInput, m.priceInput, m.orc.Submitting())
	case modalConfirmDelete:
		body := fmt.Sprintf("Delete %q? This removes the record from the server.", m.deleteLabel)
		box = renderConfirmModal(m.width, "Confirm delete", body, "Delete", "Cancel", m.confirmFocus)
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}
