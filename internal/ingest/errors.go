package ingest

import (
	"errors"
	"fmt"
)

var (
	ErrMissingColumn = errors.New("missing required column")
	ErrInvalidValue  = errors.New("invalid value")
	ErrDuplicateDate = errors.New("duplicate date")
)

// MissingColumnError reports a record lacking a required field. It is fatal
// for the source it came from.
type MissingColumnError struct {
	Table  string
	Column string
	Row    int
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("%s: missing required column %q (row %d)", e.Table, e.Column, e.Row)
}

func (e *MissingColumnError) Unwrap() error { return ErrMissingColumn }

// InvalidValueError reports a field that is present but malformed or out of range.
type InvalidValueError struct {
	Table   string
	Column  string
	Row     int
	Message string
	Err     error
}

func (e *InvalidValueError) Error() string {
	return fmt.Sprintf("%s: %s (row %d)", e.Table, e.Message, e.Row)
}

func (e *InvalidValueError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrInvalidValue, e.Err}
	}
	return []error{ErrInvalidValue}
}
