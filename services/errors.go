package services

import (
	"errors"
	"strings"
)

// Error kinds surfaced by the tracking core. Controllers map these onto
// HTTP statuses; none of them should crash the process.
var (
	ErrInvalidValue         = errors.New("invalid value for trackable type")
	ErrInvalidDate          = errors.New("invalid date")
	ErrConflictingFilters   = errors.New("query either by day, or start and end dates, not both")
	ErrUnauthenticated      = errors.New("unauthenticated")
	ErrNotFound             = errors.New("not found")
	ErrInvalidTrackableType = errors.New("invalid trackable type")

	// ErrDuplicateEntry is returned by Store implementations when an
	// insert hits the (trackable, day) unique constraint. The core folds
	// it into the overwrite branch; it never reaches callers.
	ErrDuplicateEntry = errors.New("duplicate entry for trackable and day")
)

// FieldError records a validation failure for one request parameter.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e FieldError) Error() string { return e.Field + ": " + e.Message }

// ValidationErrors collects independent parameter failures so a request
// with several bad dates reports all of them together instead of
// failing on the first.
type ValidationErrors []FieldError

func (e ValidationErrors) Error() string {
	msgs := make([]string, len(e))
	for i, fe := range e {
		msgs[i] = fe.Error()
	}
	return strings.Join(msgs, "; ")
}
