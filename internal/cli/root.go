// Package cli provides the command-line interface for trusspass.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/madhujoshi/trusspass/internal/cli/commands"
	"github.com/madhujoshi/trusspass/internal/logger"
)

// Execute runs the root command and returns the exit code.
func Execute() int {
	commands.ExitCode = 0
	rootCmd := NewRootCommand()

	if err := rootCmd.Execute(); err != nil {
		// Print error to stderr (SilenceErrors prevents Cobra from doing this)
		_, _ = fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2 // Configuration or runtime error
	}
	return commands.ExitCode
}

// NewRootCommand creates the root cobra command. Running it with an input
// path normalizes that file; the subcommands are auxiliary tools.
func NewRootCommand() *cobra.Command {
	var (
		logLevel string
		logJSON  bool
	)

	rootCmd := commands.NewNormalizeCommand()
	rootCmd.SilenceUsage = true
	rootCmd.SilenceErrors = true

	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level (debug|info|warn|error)")
	rootCmd.PersistentFlags().BoolVar(&logJSON, "log-json", false, "Write logs as JSON")
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if err := logger.SetupLogger(logLevel, logJSON, cmd.ErrOrStderr()); err != nil {
			return fmt.Errorf("--log-level: %w", err)
		}
		return nil
	}

	// Add subcommands
	rootCmd.AddCommand(commands.NewInspectCommand())
	rootCmd.AddCommand(commands.NewValidateCommand())
	rootCmd.AddCommand(commands.NewVersionCommand())

	return rootCmd
}
