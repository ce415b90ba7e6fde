package output

import (
	"context"
	"encoding/json"
	"io"
)

// JSONFormatter writes reports as indented JSON.
type JSONFormatter struct {
	opts FormatOptions
}

// NewJSONFormatter creates a new JSON formatter with the given options.
func NewJSONFormatter(opts FormatOptions) *JSONFormatter {
	return &JSONFormatter{opts: opts}
}

// Name returns the format name.
func (f *JSONFormatter) Name() string {
	return "json"
}

// quietReport is the summary-only JSON form, plus the run error if any.
type quietReport struct {
	Summary
	Error string `json:"error,omitempty"`
}

// Format writes the report, or only its summary in quiet mode.
func (f *JSONFormatter) Format(ctx context.Context, report *Report, w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	if f.opts.Quiet {
		return encoder.Encode(quietReport{
			Summary: report.Summary,
			Error:   report.Metadata.Error,
		})
	}

	return encoder.Encode(report)
}
