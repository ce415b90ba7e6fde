package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/madhujoshi/trusspass/pkg/config"
	"github.com/madhujoshi/trusspass/pkg/inspect"
)

// InspectOptions holds command-line options for the inspect command.
type InspectOptions struct {
	ConfigPath string
	Output     string
	SampleSize int
}

// NewInspectCommand creates the inspect command.
func NewInspectCommand() *cobra.Command {
	opts := &InspectOptions{}

	cmd := &cobra.Command{
		Use:   "inspect <input-path>",
		Short: "Check how well an input file normalizes",
		Long: `Sample rows from an input file and run each column through its normalizer
without writing any output.

Reports, per column, how many sampled values normalized and the first value
that did not. Rows with fewer than 8 fields and header problems are listed
separately.

Example:
  trusspass inspect sample.csv
  trusspass inspect --sample 500 -o json export.csv`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.ConfigPath, "config", "c", "", "Configuration file (optional)")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "text", "Output format (text|json)")
	cmd.Flags().IntVarP(&opts.SampleSize, "sample", "n", 100, "Number of rows to sample")

	return cmd
}

func runInspect(cmd *cobra.Command, args []string, opts *InspectOptions) error {
	inputPath := args[0]
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if _, err := os.Stat(inputPath); os.IsNotExist(err) {
		return fmt.Errorf("input file not found: %s", inputPath)
	}

	cfg, err := config.Load(ctx, opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	in := inspect.New(
		inspect.WithSampleSize(opts.SampleSize),
		inspect.WithTimestampConverter(cfg.TimestampConverter()),
		inspect.WithHeaderCheck(cfg.HeaderCheck),
	)

	result, err := in.InspectFile(ctx, inputPath)
	if err != nil {
		return fmt.Errorf("inspection failed: %w", err)
	}

	w := cmd.OutOrStdout()
	switch opts.Output {
	case "json":
		return outputInspectJSON(w, result, inputPath)
	case "text":
		return outputInspectText(w, result, inputPath)
	default:
		return fmt.Errorf("unknown output format %q (use text or json)", opts.Output)
	}
}

func outputInspectText(w io.Writer, result *inspect.Result, inputPath string) error {
	fmt.Fprintln(w, "=== Input Inspection ===")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "File: %s\n", inputPath)
	fmt.Fprintf(w, "Rows sampled: %d\n", result.SampledRows)
	if result.HeaderError != "" {
		fmt.Fprintf(w, "Header: %s\n", result.HeaderError)
	}
	if len(result.ShortRows) > 0 {
		fmt.Fprintf(w, "Short rows (lines): %v\n", result.ShortRows)
	}
	fmt.Fprintln(w)

	for _, c := range result.Columns {
		fmt.Fprintf(w, "%-12s %5.1f%% (%d/%d)\n", c.Column, c.Confidence*100, c.Passed, c.Checked)
		if c.FirstFailure != nil {
			fmt.Fprintf(w, "  line %d: %q: %s\n", c.FirstFailure.Line, c.FirstFailure.Value, c.FirstFailure.Message)
		}
	}
	fmt.Fprintln(w)

	if result.Clean() {
		fmt.Fprintln(w, "All sampled rows normalize.")
		return nil
	}

	if weakest := result.Weakest(); weakest != nil {
		fmt.Fprintf(w, "Weakest column: %s\n", weakest.Column)
	}
	fmt.Fprintln(w, "Tip: run with --on-error skip to keep the rows that do normalize.")
	return nil
}

// InspectJSON is the JSON form of an inspection.
type InspectJSON struct {
	File string `json:"file"`
	*inspect.Result
	Clean bool `json:"clean"`
}

func outputInspectJSON(w io.Writer, result *inspect.Result, inputPath string) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(InspectJSON{
		File:   inputPath,
		Result: result,
		Clean:  result.Clean(),
	})
}
