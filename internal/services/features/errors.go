package features

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsortedSeries is returned when price bars are not strictly ascending by date.
	ErrUnsortedSeries = errors.New("price series not strictly ascending by date")
	// ErrMixedQueries is returned when trend points carry several queries and no filter was given.
	ErrMixedQueries = errors.New("trend points mix several queries")
	// ErrDuplicateKey is returned when a feature table reaches the merger with a repeated date.
	ErrDuplicateKey = errors.New("duplicate date key")
)

// DuplicateKeyError reports a table that reached the merger with a repeated date.
type DuplicateKeyError struct {
	Table string
	Date  string
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("%s table: duplicate date %s", e.Table, e.Date)
}

func (e *DuplicateKeyError) Unwrap() error { return ErrDuplicateKey }
