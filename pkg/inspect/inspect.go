// Package inspect samples an input file and reports how well each column
// normalizes, without writing any output.
package inspect

import (
	"context"
	"io"

	"github.com/madhujoshi/trusspass/pkg/csvio"
	"github.com/madhujoshi/trusspass/pkg/normalize"
)

// Result holds the outcome of inspecting an input.
type Result struct {
	Header      []string      `json:"header"`
	HeaderError string        `json:"header_error,omitempty"`
	SampledRows int           `json:"sampled_rows"`
	ShortRows   []int         `json:"short_rows,omitempty"` // Lines with too few fields
	Columns     []ColumnCheck `json:"columns"`
}

// ColumnCheck is the outcome of one column's rule over the sample.
type ColumnCheck struct {
	Column       string   `json:"column"`
	Checked      int      `json:"checked"`
	Passed       int      `json:"passed"`
	Confidence   float64  `json:"confidence"` // 0.0 to 1.0 (fraction of checked values that passed)
	SampleValue  string   `json:"sample_value,omitempty"`
	FirstFailure *Failure `json:"first_failure,omitempty"`
}

// Failure records the first value of a column that did not pass.
type Failure struct {
	Line    int    `json:"line"`
	Value   string `json:"value"`
	Message string `json:"message"`
}

// Inspector samples rows and applies column rules.
type Inspector struct {
	rules       []ColumnRule
	sampleSize  int
	headerCheck csvio.HeaderCheck
}

// Option configures the Inspector.
type Option func(*Inspector)

// WithSampleSize sets the number of rows to sample (default 100).
func WithSampleSize(n int) Option {
	return func(i *Inspector) {
		if n > 0 {
			i.sampleSize = n
		}
	}
}

// WithTimestampConverter sets the converter used to check timestamps.
func WithTimestampConverter(c *normalize.TimestampConverter) Option {
	return func(i *Inspector) {
		if c != nil {
			i.rules = DefaultRules(c)
		}
	}
}

// WithHeaderCheck sets how the header row is validated.
func WithHeaderCheck(check csvio.HeaderCheck) Option {
	return func(i *Inspector) {
		if check != "" {
			i.headerCheck = check
		}
	}
}

// New creates a new Inspector with default rules.
func New(opts ...Option) *Inspector {
	i := &Inspector{
		rules:       DefaultRules(normalize.DefaultTimestampConverter()),
		sampleSize:  100,
		headerCheck: csvio.HeaderCheckCount,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// InspectFile samples rows from the CSV file at path.
func (i *Inspector) InspectFile(ctx context.Context, path string) (*Result, error) {
	src := csvio.NewFileSource(path)
	defer src.Close()
	return i.InspectSource(ctx, src)
}

// InspectSource samples up to the configured number of rows from src.
func (i *Inspector) InspectSource(ctx context.Context, src csvio.RowSource) (*Result, error) {
	header, err := src.Header()
	if err != nil {
		return nil, err
	}

	var rows []*csvio.Row
	for len(rows) < i.sampleSize {
		row, err := src.Next(ctx)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}

	result := i.InspectRows(rows)
	result.Header = header
	if err := csvio.ValidateHeader(header, i.headerCheck); err != nil {
		result.HeaderError = err.Error()
	}
	return result, nil
}

// InspectRows applies every column rule to the given rows.
func (i *Inspector) InspectRows(rows []*csvio.Row) *Result {
	result := &Result{
		SampledRows: len(rows),
		Columns:     make([]ColumnCheck, len(i.rules)),
	}
	for c, rule := range i.rules {
		result.Columns[c].Column = rule.Name
	}

	for _, row := range rows {
		if len(row.Fields) < normalize.InputWidth {
			result.ShortRows = append(result.ShortRows, row.Line)
			continue
		}

		for c, rule := range i.rules {
			check := &result.Columns[c]
			value := row.Fields[rule.Index]
			check.Checked++

			if err := rule.Check(value); err != nil {
				if check.FirstFailure == nil {
					check.FirstFailure = &Failure{
						Line:    row.Line,
						Value:   value,
						Message: err.Error(),
					}
				}
				continue
			}

			check.Passed++
			if check.SampleValue == "" {
				check.SampleValue = value
			}
		}
	}

	for c := range result.Columns {
		check := &result.Columns[c]
		if check.Checked > 0 {
			check.Confidence = float64(check.Passed) / float64(check.Checked)
		}
	}

	return result
}

// Clean returns true if the header is valid, no row is short and every
// checked value passed.
func (r *Result) Clean() bool {
	if r.HeaderError != "" || len(r.ShortRows) > 0 {
		return false
	}
	for _, c := range r.Columns {
		if c.Passed != c.Checked {
			return false
		}
	}
	return true
}

// Weakest returns the column with the lowest confidence among those that
// had failures, or nil if none did.
func (r *Result) Weakest() *ColumnCheck {
	var weakest *ColumnCheck
	for c := range r.Columns {
		check := &r.Columns[c]
		if check.Passed == check.Checked {
			continue
		}
		if weakest == nil || check.Confidence < weakest.Confidence {
			weakest = check
		}
	}
	return weakest
}
