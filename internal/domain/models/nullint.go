package models

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"fmt"
)

// NullInt is an optional integer column that remembers whether the column
// was there at all. Present is false when a JSON object lacks the key; Valid
// is false when the key holds null.
type NullInt struct {
	Value   int
	Valid   bool
	Present bool
}

// IntOf returns a present, non-null NullInt.
func IntOf(v int) NullInt {
	return NullInt{Value: v, Valid: true, Present: true}
}

// Ptr returns nil for an absent or null value.
func (n NullInt) Ptr() *int {
	if !n.Valid {
		return nil
	}
	v := n.Value
	return &v
}

// UnmarshalJSON only runs when the key exists.
func (n *NullInt) UnmarshalJSON(b []byte) error {
	n.Present = true
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		n.Valid = false
		return nil
	}
	var v int
	if err := json.Unmarshal(b, &v); err != nil {
		return fmt.Errorf("decode int: %w", err)
	}
	n.Value, n.Valid = v, true
	return nil
}

func (n NullInt) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(n.Value)
}

// Scan implements sql.Scanner. A selected column is always present.
func (n *NullInt) Scan(src interface{}) error {
	var v sql.NullInt64
	if err := v.Scan(src); err != nil {
		return err
	}
	n.Present = true
	n.Valid = v.Valid
	n.Value = int(v.Int64)
	return nil
}
