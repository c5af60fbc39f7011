package tui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"stockroom/internal/catalog"
	"stockroom/internal/model"
)

type appModel struct {
	orc        *catalog.Orchestrator
	collection string

	width  int
	height int

	itemsList   list.Model
	searchInput textinput.Model
	searching   bool
	sortKey     catalog.SortKey
	sortOrder   catalog.SortOrder

	modal        modalKind
	confirmFocus confirmModalFocus
	// deleteLabel names the item awaiting confirmation; the canonical id
	// itself lives in the orchestrator's pending-delete slot.
	deleteLabel string

	nameInput  textinput.Model
	descInput  textinput.Model
	priceInput textinput.Model
	formFocus  formFocus

	flashText string
	flashErr  bool
	flashSeq  int
}

func newAppModel(orc *catalog.Orchestrator, collection string) appModel {
	m := appModel{
		orc:        orc,
		collection: collection,
		sortKey:    catalog.SortByName,
		sortOrder:  catalog.Ascending,
	}

	m.itemsList = newItemsList()

	m.searchInput = textinput.New()
	m.searchInput.Prompt = "/ "
	m.searchInput.Placeholder = "search name or description"

	m.nameInput = textinput.New()
	m.nameInput.CharLimit = 120
	m.descInput = textinput.New()
	m.descInput.CharLimit = 500
	m.priceInput = textinput.New()
	m.priceInput.CharLimit = 20
	m.priceInput.Placeholder = "0.00"

	return m
}

func (m appModel) Init() tea.Cmd {
	return tea.Batch(m.fetchCmd(), textinput.Blink)
}

// refreshRows recomputes the derived view from the mirror and the current
// search/sort parameters, keeping the cursor on the same item when it is
// still visible. This is the explicit "recompute after mutation" point.
func (m *appModel) refreshRows() {
	curID := ""
	if row, ok := m.itemsList.SelectedItem().(catalogRow); ok {
		curID = row.item.ID
	}
	view := catalog.Derive(m.orc.Items(), m.searchInput.Value(), m.sortKey, m.sortOrder)
	rows := make([]list.Item, 0, len(view))
	for _, it := range view {
		rows = append(rows, catalogRow{item: it})
	}
	m.itemsList.SetItems(rows)
	if curID != "" {
		selectRowByID(&m.itemsList, curID)
	}
}

func (m appModel) selectedItem() (model.Item, bool) {
	row, ok := m.itemsList.SelectedItem().(catalogRow)
	if !ok {
		return model.Item{}, false
	}
	return row.item, true
}

func (m *appModel) openForm(kind modalKind, seed model.Fields, seedPrice string) {
	m.modal = kind
	m.nameInput.SetValue(seed.Name)
	m.descInput.SetValue(seed.Description)
	m.priceInput.SetValue(seedPrice)
	m.formFocus = focusName
	m.applyFormFocus()
}

func (m *appModel) closeForm() {
	m.modal = modalNone
	m.nameInput.Blur()
	m.descInput.Blur()
	m.priceInput.Blur()
}

func (m *appModel) applyFormFocus() {
	m.nameInput.Blur()
	m.descInput.Blur()
	m.priceInput.Blur()
	switch m.formFocus {
	case focusName:
		m.nameInput.Focus()
	case focusDescription:
		m.descInput.Focus()
	case focusPrice:
		m.priceInput.Focus()
	}
}

// showFlash installs a one-shot status message and schedules its clear.
func (m *appModel) showFlash(text string, isErr bool) tea.Cmd {
	m.flashText = text
	m.flashErr = isErr
	m.flashSeq++
	seq := m.flashSeq
	return tea.Tick(3*time.Second, func(time.Time) tea.Msg { return flashDoneMsg{seq: seq} })
}

func (m appModel) fetchCmd() tea.Cmd {
	orc := m.orc
	return func() tea.Msg {
		n, err := orc.Fetch(context.Background())
		return fetchDoneMsg{count: n, err: err}
	}
}

func (m appModel) createCmd(fields model.Fields) tea.Cmd {
	orc := m.orc
	return func() tea.Msg {
		it, err := orc.Create(context.Background(), fields)
		return createDoneMsg{item: it, err: err}
	}
}

func (m appModel) updateCmd(fields model.Fields) tea.Cmd {
	orc := m.orc
	return func() tea.Msg {
		it, err := orc.Update(context.Background(), fields)
		return updateDoneMsg{item: it, err: err}
	}
}

func (m appModel) deleteCmd() tea.Cmd {
	orc := m.orc
	id := orc.PendingDeleteID()
	return func() tea.Msg {
		err := orc.Delete(context.Background())
		return deleteDoneMsg{id: id, err: err}
	}
}

func (m *appModel) resize() {
	// Leave room for header, search line and footer.
	h := m.height - 6
	if h < 8 {
		h = 8
	}
	w := m.width
	if w < 40 {
		w = 40
	}
	// List takes the left half; the detail panel the rest.
	m.itemsList.SetSize(w/2, h)
	m.searchInput.Width = w/2 - 4
}

func sortLabel(key catalog.SortKey, order catalog.SortOrder) string {
	return strings.Join([]string{string(key), string(order)}, "/")
}
