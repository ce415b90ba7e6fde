package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/madhujoshi/trusspass/pkg/config"
)

// NewValidateCommand creates the validate command.
func NewValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <config-file>",
		Short: "Validate a configuration file",
		Long: `Validate a trusspass configuration file without processing any input.

Checks:
  - YAML syntax
  - on_error and header_check values
  - Time zone names
  - Webhook URLs and triggers`,
		Args: cobra.ExactArgs(1),
		RunE: runValidate,
	}
}

func runValidate(cmd *cobra.Command, args []string) error {
	configPath := args[0]
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	w := cmd.OutOrStdout()

	fmt.Fprintf(w, "Validating %s...\n", configPath)

	cfg, err := config.Load(ctx, configPath)
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	fmt.Fprintf(w, "\nConfiguration valid!\n")
	fmt.Fprintf(w, "  Output:       %s\n", cfg.Output)
	fmt.Fprintf(w, "  On error:     %s\n", cfg.OnError)
	fmt.Fprintf(w, "  Header check: %s\n", cfg.HeaderCheck)
	fmt.Fprintf(w, "  Time zones:   %s -> %s\n", cfg.Timezones.Source, cfg.Timezones.Target)
	fmt.Fprintf(w, "  Webhooks:     %d\n", len(cfg.Webhooks))

	for i, wh := range cfg.Webhooks {
		name := wh.Name
		if name == "" {
			name = wh.URL
		}
		fmt.Fprintf(w, "    %d. [%s] %s\n", i+1, wh.Trigger, name)
	}

	return nil
}
