package tui

import (
	"stockroom/internal/model"
)

type modalKind int

const (
	modalNone modalKind = iota
	modalAddItem
	modalEditItem
	modalConfirmDelete
)

type confirmModalFocus int

const (
	confirmFocusConfirm confirmModalFocus = iota
	confirmFocusCancel
)

// formFocus tracks which input of the add/edit form is active.
type formFocus int

const (
	focusName formFocus = iota
	focusDescription
	focusPrice
	formFieldCount
)

// fetchDoneMsg settles a full fetch started by Init or the refresh key.
type fetchDoneMsg struct {
	count int
	err   error
}

// createDoneMsg settles an add-form submission.
type createDoneMsg struct {
	item model.Item
	err  error
}

// updateDoneMsg settles an edit-form submission.
type updateDoneMsg struct {
	item model.Item
	err  error
}

// deleteDoneMsg settles a confirmed delete.
type deleteDoneMsg struct {
	id  string
	err error
}

// flashDoneMsg clears the one-shot status flash; seq guards against an
// older tick clearing a newer flash.
type flashDoneMsg struct{ seq int }
