// Package normalize implements the per-column normalization rules and the
// row pipeline that applies them.
package normalize

import (
	"errors"
	"strconv"
	"strings"
)

// Input column positions. Column 6 is present in the source data but unused.
const (
	ColTimestamp = iota
	ColAddress
	ColZIP
	ColFullName
	ColFooDuration
	ColBarDuration
	colUnused
	ColNotes

	// InputWidth is the minimum number of fields in an input row.
	InputWidth
)

// Header is the fixed output header.
var Header = []string{
	"Timestamp",
	"Address",
	"ZIP",
	"FullName",
	"FooDuration",
	"BarDuration",
	"TotalDuration",
	"Notes",
}

// OutputRow is one normalized row.
type OutputRow struct {
	Timestamp     string  `json:"timestamp"`
	Address       string  `json:"address"`
	ZIP           string  `json:"zip"`
	FullName      string  `json:"full_name"`
	FooDuration   float64 `json:"foo_duration"`
	BarDuration   float64 `json:"bar_duration"`
	TotalDuration float64 `json:"total_duration"`
	Notes         string  `json:"notes"`
}

// Record renders the row as CSV fields in Header order.
func (r *OutputRow) Record() []string {
	return []string{
		r.Timestamp,
		r.Address,
		r.ZIP,
		r.FullName,
		FormatSeconds(r.FooDuration),
		FormatSeconds(r.BarDuration),
		FormatSeconds(r.TotalDuration),
		r.Notes,
	}
}

// FormatSeconds renders f in shortest round-trip form, always with a decimal
// point (60 -> "60.0").
func FormatSeconds(f float64) string {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// Pipeline applies the column normalizers to input rows.
type Pipeline struct {
	timestamps *TimestampConverter
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithTimestampConverter sets the converter used for the timestamp column.
func WithTimestampConverter(c *TimestampConverter) Option {
	return func(p *Pipeline) {
		if c != nil {
			p.timestamps = c
		}
	}
}

// NewPipeline creates a pipeline. Without options timestamps are converted
// from US-Pacific to US-Eastern.
func NewPipeline(opts ...Option) *Pipeline {
	p := &Pipeline{
		timestamps: DefaultTimestampConverter(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Normalize maps one input row to an output row. The first column that fails
// aborts the row; the returned *ParseError names that column.
func (p *Pipeline) Normalize(row []string) (*OutputRow, error) {
	if len(row) < InputWidth {
		return nil, &ShapeError{Got: len(row), Want: InputWidth}
	}

	var (
		out OutputRow
		err error
	)

	if out.Timestamp, err = p.timestamps.Convert(row[ColTimestamp]); err != nil {
		return nil, withColumn(err, "Timestamp")
	}
	out.Address = NormalizeAddress(row[ColAddress])
	out.ZIP = NormalizeZIP(row[ColZIP])
	out.FullName = NormalizeName(row[ColFullName])
	if out.FooDuration, err = DurationToSeconds(row[ColFooDuration]); err != nil {
		return nil, withColumn(err, "FooDuration")
	}
	if out.BarDuration, err = DurationToSeconds(row[ColBarDuration]); err != nil {
		return nil, withColumn(err, "BarDuration")
	}
	if out.TotalDuration, err = TotalDuration(row[ColFooDuration], row[ColBarDuration]); err != nil {
		return nil, withColumn(err, "TotalDuration")
	}
	out.Notes = NormalizeNotes(row[ColNotes])

	return &out, nil
}

// NormalizeRow normalizes a row with the default pipeline.
func NormalizeRow(row []string) (*OutputRow, error) {
	return NewPipeline().Normalize(row)
}

func withColumn(err error, column string) error {
	var pe *ParseError
	if errors.As(err, &pe) {
		pe.Column = column
	}
	return err
}
