package csvio

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/madhujoshi/trusspass/pkg/normalize"
)

// DefaultOutputPath is where normalized rows are written unless overridden.
const DefaultOutputPath = "sample-fixed.csv"

// StdoutPath selects standard output as the destination.
const StdoutPath = "-"

// FileSink implements RowSink over a CSV writer.
type FileSink struct {
	path   string
	writer *csv.Writer
	closer io.Closer
	rows   int
}

// NewFileSink creates or truncates the file at path. StdoutPath writes to
// standard output.
func NewFileSink(path string) (*FileSink, error) {
	if path == StdoutPath {
		return NewWriterSink(os.Stdout, "<stdout>"), nil
	}

	f, err := os.Create(path) // #nosec G304 -- user-provided output path is expected
	if err != nil {
		return nil, fmt.Errorf("creating output %s: %w", path, err)
	}

	sink := NewWriterSink(f, path)
	sink.closer = f
	return sink, nil
}

// NewWriterSink creates a RowSink writing to w. name is used in error messages.
func NewWriterSink(w io.Writer, name string) *FileSink {
	return &FileSink{
		path:   name,
		writer: csv.NewWriter(w),
	}
}

// Path returns the destination name.
func (s *FileSink) Path() string {
	return s.path
}

// Rows returns the number of data rows written.
func (s *FileSink) Rows() int {
	return s.rows
}

// WriteHeader writes the fixed output header.
func (s *FileSink) WriteHeader() error {
	if err := s.writer.Write(normalize.Header); err != nil {
		return fmt.Errorf("writing header to %s: %w", s.path, err)
	}
	return nil
}

// Write writes one normalized row.
func (s *FileSink) Write(row *normalize.OutputRow) error {
	if err := s.writer.Write(row.Record()); err != nil {
		return fmt.Errorf("writing %s: %w", s.path, err)
	}
	s.rows++
	return nil
}

// Close flushes buffered rows and closes the file, if this sink opened one.
// Rows written before a failed run are kept.
func (s *FileSink) Close() error {
	s.writer.Flush()
	flushErr := s.writer.Error()

	if s.closer != nil {
		closeErr := s.closer.Close()
		s.closer = nil
		if flushErr == nil && closeErr != nil {
			return fmt.Errorf("closing %s: %w", s.path, closeErr)
		}
	}

	if flushErr != nil {
		return fmt.Errorf("flushing %s: %w", s.path, flushErr)
	}
	return nil
}
