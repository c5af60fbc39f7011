package tui

import (
	"errors"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"stockroom/internal/catalog"
	"stockroom/internal/model"
)

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case fetchDoneMsg:
		if msg.err != nil {
			if errors.Is(msg.err, catalog.ErrBusy) {
				return m, m.showFlash("Refresh blocked: an operation is in flight", true)
			}
			return m, m.showFlash("Fetch failed: "+msg.err.Error(), true)
		}
		m.refreshRows()
		return m, m.showFlash("Loaded "+strconv.Itoa(msg.count)+" items", false)

	case createDoneMsg:
		if msg.err != nil {
			// Validation and transport errors keep the form open for a
			// retry; nothing was applied to the mirror either way.
			return m, m.showFlash("Create failed: "+msg.err.Error(), true)
		}
		m.closeForm()
		m.refreshRows()
		selectRowByID(&m.itemsList, msg.item.ID)
		return m, m.showFlash("Created "+msg.item.Name, false)

	case updateDoneMsg:
		if errors.Is(msg.err, catalog.ErrNoMatch) {
			// Logical no-op: the remote matched nothing. The edit target
			// survives, so the form stays open.
			return m, m.showFlash("Nothing changed: no matching record on the server", true)
		}
		if msg.err != nil {
			return m, m.showFlash("Update failed: "+msg.err.Error(), true)
		}
		m.closeForm()
		m.refreshRows()
		selectRowByID(&m.itemsList, msg.item.ID)
		return m, m.showFlash("Updated "+msg.item.Name, false)

	case deleteDoneMsg:
		// The pending-delete slot is cleared on any settle; the confirm
		// modal closes with it.
		m.modal = modalNone
		m.deleteLabel = ""
		if errors.Is(msg.err, catalog.ErrNoMatch) {
			return m, m.showFlash("Nothing removed: no matching record on the server", true)
		}
		if msg.err != nil {
			return m, m.showFlash("Delete failed: "+msg.err.Error(), true)
		}
		m.refreshRows()
		return m, m.showFlash("Deleted item "+msg.id, false)

	case flashDoneMsg:
		if msg.seq == m.flashSeq {
			m.flashText = ""
			m.flashErr = false
		}
		return m, nil

	case tea.KeyMsg:
		switch {
		case m.modal == modalAddItem || m.modal == modalEditItem:
			return m.updateFormModal(msg)
		case m.modal == modalConfirmDelete:
			return m.updateConfirmModal(msg)
		case m.searching:
			return m.updateSearch(msg)
		default:
			return m.updateBrowsing(msg)
		}
	}

	var cmd tea.Cmd
	m.itemsList, cmd = m.itemsList.Update(msg)
	return m, cmd
}

func (m appModel) updateBrowsing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit

	case "r":
		return m, m.fetchCmd()

	case "/":
		m.searching = true
		m.searchInput.Focus()
		return m, nil

	case "s":
		if m.sortKey == catalog.SortByName {
			m.sortKey = catalog.SortByPrice
		} else {
			m.sortKey = catalog.SortByName
		}
		m.refreshRows()
		return m, nil

	case "o":
		if m.sortOrder == catalog.Ascending {
			m.sortOrder = catalog.Descending
		} else {
			m.sortOrder = catalog.Ascending
		}
		m.refreshRows()
		return m, nil

	case "a":
		if m.orc.Submitting() {
			return m, m.showFlash("An operation is already in flight", true)
		}
		m.openForm(modalAddItem, model.Fields{}, "")
		return m, nil

	case "e", "enter":
		it, ok := m.selectedItem()
		if !ok {
			return m, nil
		}
		if m.orc.Submitting() {
			return m, m.showFlash("An operation is already in flight", true)
		}
		// Resolve the canonical id before the dialog opens; an item that
		// cannot resolve never gets an edit form.
		if err := m.orc.BeginEdit(it.Raw()); err != nil {
			return m, m.showFlash(err.Error(), true)
		}
		m.openForm(modalEditItem, it.Fields(), formatPrice(it.Price))
		return m, nil

	case "d":
		it, ok := m.selectedItem()
		if !ok {
			return m, nil
		}
		if m.orc.Submitting() {
			return m, m.showFlash("An operation is already in flight", true)
		}
		if err := m.orc.BeginDelete(it.Raw()); err != nil {
			return m, m.showFlash(err.Error(), true)
		}
		m.modal = modalConfirmDelete
		m.deleteLabel = it.Name
		m.confirmFocus = confirmFocusCancel
		return m, nil
	}

	var cmd tea.Cmd
	m.itemsList, cmd = m.itemsList.Update(msg)
	return m, cmd
}

func (m appModel) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		// Esc abandons the search entirely.
		m.searching = false
		m.searchInput.Blur()
		m.searchInput.SetValue("")
		m.refreshRows()
		return m, nil
	case "enter":
		// Enter keeps the term and returns focus to the list.
		m.searching = false
		m.searchInput.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	m.refreshRows()
	return m, cmd
}

func (m appModel) updateFormModal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		if m.modal == modalEditItem {
			m.orc.CancelEdit()
		}
		m.closeForm()
		return m, nil

	case "tab", "down":
		m.formFocus = (m.formFocus + 1) % formFieldCount
		m.applyFormFocus()
		return m, nil

	case "shift+tab", "up":
		m.formFocus = (m.formFocus + formFieldCount - 1) % formFieldCount
		m.applyFormFocus()
		return m, nil

	case "enter":
		return m.submitForm()
	}

	var cmd tea.Cmd
	switch m.formFocus {
	case focusName:
		m.nameInput, cmd = m.nameInput.Update(msg)
	case focusDescription:
		m.descInput, cmd = m.descInput.Update(msg)
	case focusPrice:
		m.priceInput, cmd = m.priceInput.Update(msg)
	}
	return m, cmd
}

func (m appModel) submitForm() (tea.Model, tea.Cmd) {
	if m.orc.Submitting() {
		return m, m.showFlash("An operation is already in flight", true)
	}

	fields, err := parseForm(m.nameInput.Value(), m.descInput.Value(), m.priceInput.Value())
	if err != nil {
		return m, m.showFlash(err.Error(), true)
	}

	if m.modal == modalEditItem {
		return m, m.updateCmd(fields)
	}
	return m, m.createCmd(fields)
}

func (m appModel) updateConfirmModal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "n":
		m.orc.CancelDelete()
		m.modal = modalNone
		m.deleteLabel = ""
		return m, nil

	case "tab", "left", "right":
		if m.confirmFocus == confirmFocusConfirm {
			m.confirmFocus = confirmFocusCancel
		} else {
			m.confirmFocus = confirmFocusConfirm
		}
		return m, nil

	case "y":
		return m, m.deleteCmd()

	case "enter":
		if m.confirmFocus == confirmFocusConfirm {
			return m, m.deleteCmd()
		}
		m.orc.CancelDelete()
		m.modal = modalNone
		m.deleteLabel = ""
		return m, nil
	}
	return m, nil
}

// parseForm turns raw form input into submit-ready fields. Price parsing
// failures are validation errors here, before the orchestrator sees them.
func parseForm(name, description, price string) (model.Fields, error) {
	p, err := strconv.ParseFloat(strings.TrimSpace(price), 64)
	if err != nil {
		return model.Fields{}, errors.New("invalid price: must be a number")
	}
	return model.Fields{
		Name:        strings.TrimSpace(name),
		Description: strings.TrimSpace(description),
		Price:       p,
	}, nil
}
