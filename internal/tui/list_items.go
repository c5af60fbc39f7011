package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"

	"stockroom/internal/model"
)

// catalogRow wraps a normalized item for the bubbles list. Filtering is
// disabled on the list itself: the search box feeds the view deriver, and
// the list only ever sees already-derived rows.
type catalogRow struct {
	item model.Item
}

func (r catalogRow) FilterValue() string { return r.item.Name }

func (r catalogRow) Title() string {
	name := strings.TrimSpace(r.item.Name)
	if name == "" {
		name = "(unnamed)"
	}
	return name
}

func (r catalogRow) Description() string { return r.item.Description }

func formatPrice(p float64) string {
	return fmt.Sprintf("%.2f", p)
}

func newItemsList() list.Model {
	l := list.New(nil, newRowDelegate(), 0, 0)
	// We render our own header, search box and footer, so keep the list
	// chrome minimal.
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetShowPagination(false)
	l.SetFilteringEnabled(false)
	l.SetStatusBarItemName("item", "items")
	// Bubble list defaults to quitting on ESC; here ESC is "back/cancel".
	l.KeyMap.Quit.SetKeys("q")
	// Emacs-style navigation aliases.
	cursorUpKeys := append([]string{}, l.KeyMap.CursorUp.Keys()...)
	cursorUpKeys = append(cursorUpKeys, "ctrl+p")
	l.KeyMap.CursorUp.SetKeys(cursorUpKeys...)

	cursorDownKeys := append([]string{}, l.KeyMap.CursorDown.Keys()...)
	cursorDownKeys = append(cursorDownKeys, "ctrl+n")
	l.KeyMap.CursorDown.SetKeys(cursorDownKeys...)
	return l
}

// selectRowByID restores the cursor onto the item with the given id, if it
// is still in the derived view.
func selectRowByID(l *list.Model, id string) {
	for i, li := range l.Items() {
		if row, ok := li.(catalogRow); ok && row.item.ID == id {
			l.Select(i)
			return
		}
	}
}
