package catalog

import "stockroom/internal/model"

// Selection tracks at most one in-progress edit target and at most one
// pending delete confirmation. The two slots are independent: setting one
// never clears the other. Slots are cleared by explicit cancellation or by
// the corresponding operation settling.
type Selection struct {
	editing         *model.Item
	pendingDeleteID string
}

// StartEdit resolves the target's canonical identifier up front (falling
// back across both identifier fields) so the later update call never starts
// unresolved. A record with no identifier is rejected here, before any
// dialog opens.
func (s *Selection) StartEdit(raw model.RawItem) error {
	it, err := Normalize(raw)
	if err != nil {
		return validationErr("id", "item has no identifier; cannot edit")
	}
	s.editing = &it
	return nil
}

// EditingTarget returns the current edit target, if any.
func (s *Selection) EditingTarget() (model.Item, bool) {
	if s.editing == nil {
		return model.Item{}, false
	}
	return *s.editing, true
}

// CancelEdit clears the edit slot.
func (s *Selection) CancelEdit() { s.editing = nil }

// StartDelete records the canonical id awaiting delete confirmation.
func (s *Selection) StartDelete(id string) { s.pendingDeleteID = id }

// PendingDeleteID returns the id awaiting confirmation, or "".
func (s *Selection) PendingDeleteID() string { return s.pendingDeleteID }

// CancelDelete clears the pending-delete slot.
func (s *Selection) CancelDelete() { s.pendingDeleteID = "" }
