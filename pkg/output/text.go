package output

import (
	"context"
	"fmt"
	"io"

	"github.com/madhujoshi/trusspass/pkg/processor"
)

// TextFormatter formats reports as human-readable text.
type TextFormatter struct {
	opts FormatOptions
}

// NewTextFormatter creates a new text formatter with the given options.
func NewTextFormatter(opts FormatOptions) *TextFormatter {
	return &TextFormatter{opts: opts}
}

// Name returns the format name.
func (f *TextFormatter) Name() string {
	return "text"
}

// Format renders the report as text.
func (f *TextFormatter) Format(ctx context.Context, report *Report, w io.Writer) error {
	if f.opts.Quiet {
		return f.formatQuiet(report, w)
	}
	return f.formatFull(report, w)
}

func (f *TextFormatter) formatQuiet(report *Report, w io.Writer) error {
	_, err := fmt.Fprintf(w, "trusspass: %d rows read, %d written, %d skipped%s\n",
		report.Summary.RowsRead,
		report.Summary.RowsWritten,
		report.Summary.RowsSkipped,
		abortedSuffix(report))
	return err
}

func (f *TextFormatter) formatFull(report *Report, w io.Writer) error {
	fmt.Fprintln(w, "=== trusspass Normalization Report ===")
	fmt.Fprintf(w, "Input:  %s\n", report.Metadata.Input)
	fmt.Fprintf(w, "Output: %s\n", report.Metadata.Output)
	fmt.Fprintln(w)

	if len(report.Failures) == 0 {
		fmt.Fprintln(w, "No malformed rows")
	} else {
		fmt.Fprintf(w, "Malformed rows: %d\n", len(report.Failures))
		for i := range report.Failures {
			f.formatFailure(&report.Failures[i], w)
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "---")
	fmt.Fprintf(w, "Summary: %d rows read, %d written, %d skipped%s\n",
		report.Summary.RowsRead,
		report.Summary.RowsWritten,
		report.Summary.RowsSkipped,
		abortedSuffix(report))

	if report.Metadata.Error != "" {
		fmt.Fprintf(w, "Error: %s\n", report.Metadata.Error)
	}

	if f.opts.Verbose {
		fmt.Fprintf(w, "Policy: %s\n", report.Metadata.OnError)
		_, err := fmt.Fprintf(w, "Duration: %s\n", report.Metadata.Duration.Round(1e6))
		return err
	}

	return nil
}

func (f *TextFormatter) formatFailure(failure *processor.RowFailure, w io.Writer) {
	switch {
	case failure.Kind == processor.KindShape:
		fmt.Fprintf(w, "  - line %d: too few fields\n", failure.Line)
	case failure.Column != "":
		fmt.Fprintf(w, "  - line %d: %s: invalid %s %q\n", failure.Line, failure.Column, failure.Kind, failure.Value)
	default:
		fmt.Fprintf(w, "  - line %d: %s\n", failure.Line, failure.Message)
	}

	if f.opts.Verbose {
		fmt.Fprintf(w, "    %s\n", failure.Message)
	}
}

func abortedSuffix(report *Report) string {
	if report.Summary.Aborted {
		return " (aborted)"
	}
	return ""
}
