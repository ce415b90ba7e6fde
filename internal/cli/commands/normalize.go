package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/madhujoshi/trusspass/internal/logger"
	"github.com/madhujoshi/trusspass/pkg/config"
	"github.com/madhujoshi/trusspass/pkg/csvio"
	"github.com/madhujoshi/trusspass/pkg/output"
	"github.com/madhujoshi/trusspass/pkg/processor"
	"github.com/madhujoshi/trusspass/pkg/webhook"
)

// ExitCode is set by commands to indicate the result
var ExitCode = 0

// NormalizeOptions holds command-line options for a normalization run.
type NormalizeOptions struct {
	ConfigPath string
	Output     string
	OnError    string
	Report     string
	Verbose    bool
	Quiet      bool

	// Webhook options
	WebhookURL     string
	WebhookToken   string
	WebhookTrigger string
}

// NewNormalizeCommand creates the command that normalizes one input file.
// It serves as the root command; subcommands are attached by the caller.
func NewNormalizeCommand() *cobra.Command {
	opts := &NormalizeOptions{}

	cmd := &cobra.Command{
		Use:   "trusspass <input-path>",
		Short: "Normalize a CSV export into a consistent format",
		Long: `trusspass reads a CSV file and writes a normalized copy.

Each row is rewritten as follows:
  - Timestamp converted from US/Pacific to US/Eastern, ISO-8601 with offset
  - ZIP left-padded with zeros to 5 digits
  - FullName uppercased
  - FooDuration and BarDuration converted from HH:MM:SS.MS to seconds
  - TotalDuration replaced by FooDuration + BarDuration
  - Address and Notes passed through unchanged

Invalid UTF-8 in the input is replaced with U+FFFD.

Exit codes:
  0 - All rows normalized
  1 - Rows were skipped (--on-error skip)
  2 - Configuration or runtime error`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runNormalize(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.ConfigPath, "config", "c", "", "Configuration file (optional)")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "Output file, - for stdout (default "+csvio.DefaultOutputPath+")")
	cmd.Flags().StringVar(&opts.OnError, "on-error", "", "Malformed row policy (fail|skip, default fail)")
	cmd.Flags().StringVar(&opts.Report, "report", "text", "Run report written to stderr (text|json|none)")
	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Include timing and policy in the report")
	cmd.Flags().BoolVarP(&opts.Quiet, "quiet", "q", false, "Summary line only")

	// Webhook flags
	cmd.Flags().StringVar(&opts.WebhookURL, "webhook-url", "", "Webhook endpoint URL")
	cmd.Flags().StringVar(&opts.WebhookToken, "webhook-token", "", "Bearer token for webhook auth")
	cmd.Flags().StringVar(&opts.WebhookTrigger, "webhook-trigger", "on_failures", "When to fire webhook (on_failures|always|never)")

	return cmd
}

func runNormalize(cmd *cobra.Command, args []string, opts *NormalizeOptions) error {
	inputPath := args[0]
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := loadConfig(ctx, opts)
	if err != nil {
		return err
	}

	var formatter output.Formatter
	if opts.Report != "none" {
		formatter, err = output.NewFormatter(opts.Report, output.FormatOptions{
			Verbose: opts.Verbose,
			Quiet:   opts.Quiet,
		})
		if err != nil {
			return err
		}
	}

	src := csvio.NewFileSource(inputPath)
	defer src.Close()

	// Read the header before touching the output so a missing or empty
	// input leaves no output file behind.
	if _, err := src.Header(); err != nil {
		return err
	}

	sink, err := newSink(cmd, cfg.Output)
	if err != nil {
		return err
	}
	defer sink.Close()

	p := processor.NewFromConfig(cfg)
	result, runErr := p.Run(ctx, src, sink, processor.Metadata{
		Source:      inputPath,
		Destination: sink.Path(),
	})
	if err := sink.Close(); err != nil && runErr == nil {
		runErr = fmt.Errorf("writing %s: %w", sink.Path(), err)
	}

	report := output.NewReport(result, runErr)

	if formatter != nil {
		if err := formatter.Format(ctx, report, cmd.ErrOrStderr()); err != nil {
			return fmt.Errorf("formatting report: %w", err)
		}
	}

	// Send webhooks (errors logged but don't fail the run)
	sendWebhooks(ctx, cfg, opts, report)

	if runErr != nil {
		if processor.IsRowError(runErr) {
			logger.Error("row aborted the run",
				"on_error", p.Policy(),
				"rows_kept", sink.Rows(),
				"output", sink.Path())
		}
		return runErr
	}

	if result.Stats.RowsSkipped > 0 {
		ExitCode = 1
	}

	return nil
}

// loadConfig reads the configuration and applies flag overrides.
func loadConfig(ctx context.Context, opts *NormalizeOptions) (*config.Config, error) {
	cfg, err := config.Load(ctx, opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	if opts.Output != "" {
		cfg.Output = opts.Output
	}
	if opts.OnError != "" {
		policy := config.ErrorPolicy(opts.OnError)
		if err := config.ValidateErrorPolicy(policy); err != nil {
			return nil, fmt.Errorf("--on-error: %w", err)
		}
		cfg.OnError = policy
	}

	if err := validateWebhookTrigger(opts.WebhookTrigger); err != nil {
		return nil, fmt.Errorf("--webhook-trigger: %w", err)
	}

	return cfg, nil
}

// validateWebhookTrigger rejects trigger names the webhook client does not know.
func validateWebhookTrigger(trigger string) error {
	switch config.WebhookTrigger(trigger) {
	case "", config.WebhookTriggerOnFailures, config.WebhookTriggerAlways, config.WebhookTriggerNever:
		return nil
	default:
		return fmt.Errorf("invalid trigger %q (must be on_failures, always, or never)", trigger)
	}
}

// newSink opens the output, routing "-" to the command's stdout.
func newSink(cmd *cobra.Command, path string) (*csvio.FileSink, error) {
	if path == csvio.StdoutPath {
		return csvio.NewWriterSink(cmd.OutOrStdout(), "stdout"), nil
	}
	return csvio.NewFileSink(path)
}

// sendWebhooks sends the report to all configured webhooks.
// Errors are logged but don't fail the run.
func sendWebhooks(ctx context.Context, cfg *config.Config, opts *NormalizeOptions, report *output.Report) {
	webhooks := collectWebhooks(cfg, opts)
	if len(webhooks) == 0 {
		return
	}

	client := webhook.NewClient()

	for _, wh := range webhooks {
		if !webhook.ShouldFire(wh.Trigger, report.HasFailures()) {
			continue
		}

		resp := client.Send(ctx, report, webhook.SendOptions{
			URL:     wh.URL,
			Token:   wh.Token,
			Timeout: wh.Timeout,
		})

		name := wh.Name
		if name == "" {
			name = wh.URL
		}

		log := logger.Get().With("webhook", name)
		if resp.Success() {
			log.Info("webhook sent", "status", resp.StatusCode, "duration", resp.Duration)
		} else {
			log.Warn("webhook failed", "err", resp.Error)
		}
	}
}

// collectWebhooks merges config file webhooks with the CLI webhook.
func collectWebhooks(cfg *config.Config, opts *NormalizeOptions) []config.WebhookConfig {
	webhooks := make([]config.WebhookConfig, 0, len(cfg.Webhooks)+1)
	webhooks = append(webhooks, cfg.Webhooks...)

	if opts.WebhookURL != "" {
		trigger := config.WebhookTrigger(opts.WebhookTrigger)
		if trigger == "" {
			trigger = config.WebhookTriggerOnFailures
		}

		webhooks = append(webhooks, config.WebhookConfig{
			Name:    "cli",
			URL:     opts.WebhookURL,
			Token:   opts.WebhookToken,
			Trigger: trigger,
			Timeout: config.DefaultWebhookTimeout,
		})
	}

	return webhooks
}
