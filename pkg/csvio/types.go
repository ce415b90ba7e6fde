// Package csvio reads input rows from and writes normalized rows to CSV files.
package csvio

import "errors"

var (
	// ErrEmptyInput is returned when the input has no header row.
	ErrEmptyInput = errors.New("input is empty: missing header row")

	// ErrHeaderShape is returned when the header has fewer columns than the schema.
	ErrHeaderShape = errors.New("header has too few columns")
)

// Row is a single input record before normalization.
type Row struct {
	// Fields are the decoded field values.
	Fields []string

	// Line is the 1-based line in the source file where the record starts.
	Line int

	// Source is the file path this row came from.
	Source string
}
