package catalog

import (
	"errors"
	"fmt"
)

var (
	// ErrNoIdentifier means a raw record carried neither identifier field.
	// Surfaced by fetch as a data-integrity failure, never silently dropped.
	ErrNoIdentifier = errors.New("record has no identifier field")

	// ErrDuplicateID is returned by Mirror.Append when the canonical id is
	// already present.
	ErrDuplicateID = errors.New("duplicate canonical id")

	// ErrNotFound signals a mirror lookup that matched nothing.
	ErrNotFound = errors.New("item not found in mirror")

	// ErrBusy means another mutating operation holds the in-flight slot.
	ErrBusy = errors.New("another operation is in flight")

	// ErrNoMatch is the logical no-op: the remote call completed without
	// error but reported that no record was changed or removed.
	ErrNoMatch = errors.New("remote matched no record")
)

// ValidationError reports a local pre-flight rejection. No remote call is
// made when validation fails.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func validationErr(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// IsValidation reports whether err is a local validation rejection.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
