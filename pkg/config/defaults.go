package config

import (
	"os"
	"time"

	"github.com/madhujoshi/trusspass/pkg/csvio"
	"github.com/madhujoshi/trusspass/pkg/normalize"
)

// Default values for configuration.
const (
	DefaultWebhookTimeout = 10 * time.Second
	DefaultOnError        = ErrorPolicyFail
	DefaultHeaderCheck    = csvio.HeaderCheckCount
)

// Environment variable names.
const (
	EnvOutput  = "TRUSSPASS_OUTPUT"
	EnvOnError = "TRUSSPASS_ON_ERROR"
)

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Output:      csvio.DefaultOutputPath,
		OnError:     DefaultOnError,
		HeaderCheck: DefaultHeaderCheck,
		Timezones: TimezoneConfig{
			Source: normalize.DefaultSourceZone,
			Target: normalize.DefaultTargetZone,
		},
	}
}

// applyEnvironmentOverrides applies environment variable overrides to the config.
func (c *Config) applyEnvironmentOverrides() {
	if output := os.Getenv(EnvOutput); output != "" {
		c.Output = output
	}
	if policy := os.Getenv(EnvOnError); policy != "" {
		c.OnError = ErrorPolicy(policy)
	}
}
