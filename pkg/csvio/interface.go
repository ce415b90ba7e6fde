package csvio

import (
	"context"

	"github.com/madhujoshi/trusspass/pkg/normalize"
)

// RowSource provides an iterator over input rows, header excluded.
// Implementations must be safe for sequential access (not concurrent).
type RowSource interface {
	// Header returns the header row, reading it if needed.
	Header() ([]string, error)

	// Next returns the next data row.
	// Returns io.EOF when no more rows are available.
	Next(ctx context.Context) (*Row, error)

	// Close releases any resources held by the source.
	Close() error
}

// RowSink consumes normalized rows.
type RowSink interface {
	// WriteHeader writes the fixed output header.
	WriteHeader() error

	// Write writes one normalized row.
	Write(row *normalize.OutputRow) error

	// Close flushes buffered rows and releases the destination.
	Close() error
}
