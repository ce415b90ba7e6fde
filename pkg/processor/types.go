// Package processor runs the normalization pipeline over a row source.
package processor

import (
	"errors"
	"fmt"
	"time"

	"github.com/madhujoshi/trusspass/pkg/config"
	"github.com/madhujoshi/trusspass/pkg/normalize"
)

// Result contains the outcome of a run, including a partial run that was
// aborted.
type Result struct {
	// Stats counts rows by outcome.
	Stats Stats

	// Failures lists the rows that failed normalization, in input order.
	Failures []RowFailure

	// Metadata provides context about the run.
	Metadata Metadata
}

// Stats counts rows by outcome.
type Stats struct {
	// RowsRead is the number of data rows read, header excluded.
	RowsRead int

	// RowsWritten is the number of normalized rows written.
	RowsWritten int

	// RowsSkipped is the number of rows dropped under the skip policy.
	RowsSkipped int
}

// Metadata provides context about the run.
type Metadata struct {
	// Source is the input file.
	Source string

	// Destination is the output file.
	Destination string

	// Policy is the malformed-row policy that was applied.
	Policy config.ErrorPolicy

	// Aborted is true when the run stopped before the end of the input.
	Aborted bool

	// StartTime is when processing began.
	StartTime time.Time

	// EndTime is when processing completed.
	EndTime time.Time
}

// HasFailures returns true if any row failed normalization.
func (r *Result) HasFailures() bool {
	return len(r.Failures) > 0
}

// RowFailure describes one row that could not be normalized.
type RowFailure struct {
	// Line is the 1-based line of the row in the input.
	Line int `json:"line"`

	// Column is the output column that failed, empty for shape errors.
	Column string `json:"column,omitempty"`

	// Kind categorizes the failure (timestamp, duration, shape).
	Kind string `json:"kind"`

	// Value is the raw field value that failed, if any.
	Value string `json:"value,omitempty"`

	// Message is the full error text.
	Message string `json:"message"`
}

// KindShape marks a row with too few fields.
const KindShape = "shape"

// RowError is returned when a row aborts a fail-fast run.
type RowError struct {
	Line int
	Err  error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *RowError) Unwrap() error {
	return e.Err
}

func newRowFailure(line int, err error) RowFailure {
	f := RowFailure{
		Line:    line,
		Message: err.Error(),
	}

	var pe *normalize.ParseError
	if errors.As(err, &pe) {
		f.Column = pe.Column
		f.Kind = string(pe.Kind)
		f.Value = pe.Value
		return f
	}
	if errors.Is(err, normalize.ErrInputShape) {
		f.Kind = KindShape
	}
	return f
}
