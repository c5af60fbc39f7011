package catalog

import "stockroom/internal/model"

// Mirror is the session-local copy of the remote collection: ordered,
// duplicate-free by canonical id, and the single source of truth for every
// derived view. Only the orchestrator mutates it, and only in response to
// a resolved remote outcome.
//
// Insertion order is preserved across ReplaceOne/RemoveOne; sorting happens
// in Derive and never touches the mirror.
type Mirror struct {
	items []model.Item
	index map[string]int
}

// NewMirror returns an empty mirror.
func NewMirror() *Mirror {
	return &Mirror{index: map[string]int{}}
}

// ReplaceAll discards the current contents and installs items in the order
// supplied. Used only as the result of a successful full fetch. A duplicate
// canonical id in the batch is a data-integrity error and leaves the mirror
// unchanged.
func (m *Mirror) ReplaceAll(items []model.Item) error {
	index := make(map[string]int, len(items))
	for i, it := range items {
		if _, dup := index[it.ID]; dup {
			return ErrDuplicateID
		}
		index[it.ID] = i
	}
	m.items = append([]model.Item(nil), items...)
	m.index = index
	return nil
}

// Append inserts at the end. Fails with ErrDuplicateID when the canonical
// id already exists.
func (m *Mirror) Append(it model.Item) error {
	if _, ok := m.index[it.ID]; ok {
		return ErrDuplicateID
	}
	m.index[it.ID] = len(m.items)
	m.items = append(m.items, it)
	return nil
}

// ReplaceOne swaps the whole record whose canonical id matches. Returns
// ErrNotFound (and changes nothing) when absent, including when the new
// record's id differs from id.
func (m *Mirror) ReplaceOne(id string, newItem model.Item) error {
	i, ok := m.index[id]
	if !ok {
		return ErrNotFound
	}
	if newItem.ID != id {
		return ErrNotFound
	}
	m.items[i] = newItem
	return nil
}

// RemoveOne deletes the matching entry, preserving the order of the rest.
func (m *Mirror) RemoveOne(id string) error {
	i, ok := m.index[id]
	if !ok {
		return ErrNotFound
	}
	m.items = append(m.items[:i], m.items[i+1:]...)
	delete(m.index, id)
	for j := i; j < len(m.items); j++ {
		m.index[m.items[j].ID] = j
	}
	return nil
}

// Get returns the item with the given canonical id.
func (m *Mirror) Get(id string) (model.Item, bool) {
	i, ok := m.index[id]
	if !ok {
		return model.Item{}, false
	}
	return m.items[i], true
}

// Items returns a copy of the mirror contents in insertion order.
func (m *Mirror) Items() []model.Item {
	return append([]model.Item(nil), m.items...)
}

// Len reports the number of items in the mirror.
func (m *Mirror) Len() int { return len(m.items) }
