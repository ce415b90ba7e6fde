package processor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/madhujoshi/trusspass/internal/logger"
	"github.com/madhujoshi/trusspass/pkg/config"
	"github.com/madhujoshi/trusspass/pkg/csvio"
	"github.com/madhujoshi/trusspass/pkg/normalize"
)

// Processor reads rows from a source, normalizes them and writes them to a
// sink, one row at a time in input order.
type Processor struct {
	pipeline    *normalize.Pipeline
	policy      config.ErrorPolicy
	headerCheck csvio.HeaderCheck
}

// Option configures processor behavior.
type Option func(*Processor)

// WithPipeline sets the row pipeline.
func WithPipeline(p *normalize.Pipeline) Option {
	return func(pr *Processor) {
		if p != nil {
			pr.pipeline = p
		}
	}
}

// WithErrorPolicy sets the malformed-row policy.
func WithErrorPolicy(policy config.ErrorPolicy) Option {
	return func(pr *Processor) {
		if policy != "" {
			pr.policy = policy
		}
	}
}

// WithHeaderCheck sets how the header row is validated.
func WithHeaderCheck(check csvio.HeaderCheck) Option {
	return func(pr *Processor) {
		if check != "" {
			pr.headerCheck = check
		}
	}
}

// New creates a processor. Defaults: default pipeline, fail-fast, header
// column count checked.
func New(opts ...Option) *Processor {
	p := &Processor{
		pipeline:    normalize.NewPipeline(),
		policy:      config.DefaultOnError,
		headerCheck: config.DefaultHeaderCheck,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// NewFromConfig creates a processor from a validated configuration.
func NewFromConfig(cfg *config.Config) *Processor {
	return New(
		WithPipeline(normalize.NewPipeline(normalize.WithTimestampConverter(cfg.TimestampConverter()))),
		WithErrorPolicy(cfg.OnError),
		WithHeaderCheck(cfg.HeaderCheck),
	)
}

// Policy returns the malformed-row policy in effect.
func (p *Processor) Policy() config.ErrorPolicy {
	return p.policy
}

// Run processes every row of src into sink. Under the fail policy the first
// failing row stops the run with a *RowError; rows written before it stay in
// the sink. The returned Result is non-nil even when err is not.
func (p *Processor) Run(ctx context.Context, src csvio.RowSource, sink csvio.RowSink, meta Metadata) (*Result, error) {
	result := &Result{Metadata: meta}
	result.Metadata.Policy = p.policy
	result.Metadata.StartTime = time.Now()
	defer func() {
		result.Metadata.EndTime = time.Now()
	}()

	log := logger.With("source", meta.Source)
	log.Info("normalizing", "destination", meta.Destination, "on_error", p.policy)

	header, err := src.Header()
	if err != nil {
		result.Metadata.Aborted = true
		return result, err
	}
	if err := csvio.ValidateHeader(header, p.headerCheck); err != nil {
		result.Metadata.Aborted = true
		return result, fmt.Errorf("validating header: %w", err)
	}

	if err := sink.WriteHeader(); err != nil {
		result.Metadata.Aborted = true
		return result, err
	}

	for {
		row, err := src.Next(ctx)
		if err == io.EOF {
			break
		}
		if err != nil {
			result.Metadata.Aborted = true
			return result, err
		}
		result.Stats.RowsRead++

		out, err := p.pipeline.Normalize(row.Fields)
		if err != nil {
			failure := newRowFailure(row.Line, err)
			result.Failures = append(result.Failures, failure)

			if p.policy == config.ErrorPolicySkip {
				result.Stats.RowsSkipped++
				log.Warn("skipping row", "row", row.Line, "column", failure.Column, "err", err)
				continue
			}

			result.Metadata.Aborted = true
			return result, &RowError{Line: row.Line, Err: err}
		}

		if err := sink.Write(out); err != nil {
			result.Metadata.Aborted = true
			return result, err
		}
		result.Stats.RowsWritten++
		log.Debug("row normalized", "row", row.Line)
	}

	log.Info("done",
		"read", result.Stats.RowsRead,
		"written", result.Stats.RowsWritten,
		"skipped", result.Stats.RowsSkipped)

	return result, nil
}

// IsRowError reports whether err stopped the run at a specific input row.
func IsRowError(err error) bool {
	var re *RowError
	return errors.As(err, &re)
}
