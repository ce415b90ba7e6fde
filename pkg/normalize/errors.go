package normalize

import (
	"errors"
	"fmt"
)

// ErrInputShape is matched by ShapeError via errors.Is.
var ErrInputShape = errors.New("input row has too few fields")

// ErrorKind categorizes a field normalization failure.
type ErrorKind string

const (
	// KindTimestamp indicates the timestamp did not match the expected layout.
	KindTimestamp ErrorKind = "timestamp"

	// KindDuration indicates a duration was not four integer components.
	KindDuration ErrorKind = "duration"
)

// ParseError reports a field that could not be normalized.
type ParseError struct {
	// Kind is the category of value that failed.
	Kind ErrorKind

	// Column is the output column name, set by the pipeline.
	Column string

	// Value is the raw field value.
	Value string

	// Err is the underlying cause.
	Err error
}

func (e *ParseError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("%s: invalid %s %q: %v", e.Column, e.Kind, e.Value, e.Err)
	}
	return fmt.Sprintf("invalid %s %q: %v", e.Kind, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ShapeError reports an input row with fewer fields than the schema requires.
type ShapeError struct {
	Got  int
	Want int
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("row has %d fields, want at least %d", e.Got, e.Want)
}

// Is lets errors.Is(err, ErrInputShape) match any ShapeError.
func (e *ShapeError) Is(target error) bool {
	return target == ErrInputShape
}
