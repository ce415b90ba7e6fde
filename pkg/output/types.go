// Package output provides formatting for normalization run reports.
package output

import (
	"time"

	"github.com/madhujoshi/trusspass/pkg/processor"
)

// Report is the complete run output.
type Report struct {
	// Summary provides aggregate statistics.
	Summary Summary `json:"summary"`

	// Failures lists rows that could not be normalized.
	Failures []processor.RowFailure `json:"failures"`

	// Metadata provides context about the run.
	Metadata Metadata `json:"metadata"`
}

// Summary provides aggregate statistics.
type Summary struct {
	RowsRead    int  `json:"rows_read"`
	RowsWritten int  `json:"rows_written"`
	RowsSkipped int  `json:"rows_skipped"`
	Aborted     bool `json:"aborted"`
}

// Metadata provides context about the run.
type Metadata struct {
	// Input is the file that was normalized.
	Input string `json:"input"`

	// Output is the file normalized rows were written to.
	Output string `json:"output"`

	// OnError is the malformed-row policy that was applied.
	OnError string `json:"on_error"`

	// Error is the message of the error that stopped the run, if any.
	Error string `json:"error,omitempty"`

	// ProcessedAt is when the run finished.
	ProcessedAt time.Time `json:"processed_at"`

	// Duration is how long the run took.
	Duration time.Duration `json:"duration"`
}

// NewReport creates a Report from a processor result and the error the run
// returned, if any.
func NewReport(result *processor.Result, runErr error) *Report {
	report := &Report{
		Failures: result.Failures,
		Summary: Summary{
			RowsRead:    result.Stats.RowsRead,
			RowsWritten: result.Stats.RowsWritten,
			RowsSkipped: result.Stats.RowsSkipped,
			Aborted:     result.Metadata.Aborted,
		},
		Metadata: Metadata{
			Input:       result.Metadata.Source,
			Output:      result.Metadata.Destination,
			OnError:     string(result.Metadata.Policy),
			ProcessedAt: result.Metadata.EndTime,
			Duration:    result.Metadata.EndTime.Sub(result.Metadata.StartTime),
		},
	}

	if report.Failures == nil {
		report.Failures = []processor.RowFailure{}
	}
	if runErr != nil {
		report.Metadata.Error = runErr.Error()
		report.Summary.Aborted = true
	}

	return report
}

// HasFailures returns true if the run stopped early or skipped rows.
func (r *Report) HasFailures() bool {
	return r.Summary.Aborted || r.Summary.RowsSkipped > 0
}
