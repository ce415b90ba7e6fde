// Package logger configures the process-wide structured logger.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"

	charmlog "github.com/charmbracelet/log"
	"github.com/charmbracelet/lipgloss"
)

var defaultLogger = charmlog.NewWithOptions(os.Stderr, charmlog.Options{
	Level: charmlog.WarnLevel,
})

// Config holds the logger configuration
type Config struct {
	Level      charmlog.Level
	Output     io.Writer
	JSON       bool
	TimeFormat string
}

// DefaultConfig returns the default logger configuration
func DefaultConfig() *Config {
	return &Config{
		Level:      charmlog.InfoLevel,
		Output:     os.Stderr,
		JSON:       false,
		TimeFormat: "15:04:05",
	}
}

// Init initializes the logger with the given configuration
func Init(cfg *Config) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if cfg.Output == nil {
		cfg.Output = os.Stderr
	}
	logger := charmlog.NewWithOptions(cfg.Output, charmlog.Options{
		ReportTimestamp: true,
		TimeFormat:      cfg.TimeFormat,
		Level:           cfg.Level,
	})
	if cfg.JSON {
		logger.SetFormatter(charmlog.JSONFormatter)
	} else {
		logger.SetFormatter(charmlog.TextFormatter)
		logger.SetStyles(getDefaultStyles())
	}
	defaultLogger = logger
}

// SetupLogger initializes the logger from CLI flag values.
func SetupLogger(level string, logJSON bool, out io.Writer) error {
	lvl, err := ParseLevel(level)
	if err != nil {
		return err
	}
	Init(&Config{
		Level:      lvl,
		Output:     out,
		JSON:       logJSON,
		TimeFormat: "15:04:05",
	})
	return nil
}

// ParseLevel maps a level name to a charm log level. An empty name is info.
func ParseLevel(level string) (charmlog.Level, error) {
	if strings.TrimSpace(level) == "" {
		return charmlog.InfoLevel, nil
	}
	lvl, err := charmlog.ParseLevel(strings.TrimSpace(level))
	if err != nil {
		return 0, fmt.Errorf("invalid log level %q (use debug, info, warn or error)", level)
	}
	return lvl, nil
}

func getDefaultStyles() *charmlog.Styles {
	styles := charmlog.DefaultStyles()
	styles.Levels[charmlog.DebugLevel] = lipgloss.NewStyle().
		SetString("DEBUG").
		Bold(true).
		Foreground(lipgloss.Color("63"))
	styles.Levels[charmlog.InfoLevel] = lipgloss.NewStyle().
		SetString("INFO").
		Bold(true).
		Foreground(lipgloss.Color("86"))
	styles.Levels[charmlog.WarnLevel] = lipgloss.NewStyle().
		SetString("WARN").
		Bold(true).
		Foreground(lipgloss.Color("192"))
	styles.Levels[charmlog.ErrorLevel] = lipgloss.NewStyle().
		SetString("ERROR").
		Bold(true).
		Foreground(lipgloss.Color("204"))
	styles.Keys["row"] = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	return styles
}

// Get returns the current logger.
func Get() *charmlog.Logger {
	return defaultLogger
}

func Debug(msg string, args ...any) {
	defaultLogger.Debug(msg, args...)
}

func Info(msg string, args ...any) {
	defaultLogger.Info(msg, args...)
}

func Warn(msg string, args ...any) {
	defaultLogger.Warn(msg, args...)
}

func Error(msg string, args ...any) {
	defaultLogger.Error(msg, args...)
}

func With(args ...any) *charmlog.Logger {
	return defaultLogger.With(args...)
}
