// Package config provides configuration loading and validation for trusspass.
package config

import (
	"time"

	"github.com/madhujoshi/trusspass/pkg/csvio"
	"github.com/madhujoshi/trusspass/pkg/normalize"
)

// Config is the root configuration structure loaded from YAML.
type Config struct {
	// Output is the destination CSV path ("-" for stdout).
	Output string `yaml:"output"`

	// OnError selects the malformed-row policy.
	OnError ErrorPolicy `yaml:"on_error"`

	// HeaderCheck selects how the discarded header row is validated.
	HeaderCheck csvio.HeaderCheck `yaml:"header_check"`

	Timezones TimezoneConfig  `yaml:"timezones"`
	Webhooks  []WebhookConfig `yaml:"webhooks,omitempty"`

	// converter is built from Timezones during validation.
	converter *normalize.TimestampConverter
}

// TimestampConverter returns the converter built from the configured zones.
func (c *Config) TimestampConverter() *normalize.TimestampConverter {
	return c.converter
}

// TimezoneConfig names the IANA zones timestamps are converted between.
type TimezoneConfig struct {
	// Source is the zone input timestamps are recorded in.
	Source string `yaml:"source"`

	// Target is the zone output timestamps are expressed in.
	Target string `yaml:"target"`
}

// ErrorPolicy determines what happens to a row that fails normalization.
type ErrorPolicy string

const (
	// ErrorPolicyFail aborts the run at the first failing row (default).
	ErrorPolicyFail ErrorPolicy = "fail"

	// ErrorPolicySkip drops the failing row, records it and continues.
	ErrorPolicySkip ErrorPolicy = "skip"
)

// WebhookTrigger determines when a webhook fires.
type WebhookTrigger string

const (
	// WebhookTriggerOnFailures fires only when rows were skipped or the run failed (default).
	WebhookTriggerOnFailures WebhookTrigger = "on_failures"

	// WebhookTriggerAlways fires after every run.
	WebhookTriggerAlways WebhookTrigger = "always"

	// WebhookTriggerNever disables the webhook.
	WebhookTriggerNever WebhookTrigger = "never"
)

// WebhookConfig defines a webhook endpoint for sending run reports.
type WebhookConfig struct {
	// Name is an optional identifier for the webhook.
	Name string `yaml:"name,omitempty"`

	// URL is the webhook endpoint (required).
	URL string `yaml:"url"`

	// Token is an optional bearer token for authentication.
	Token string `yaml:"token,omitempty"`

	// Trigger determines when the webhook fires.
	// Defaults to "on_failures" if not specified.
	Trigger WebhookTrigger `yaml:"trigger,omitempty"`

	// Timeout is the HTTP request timeout.
	// Defaults to 10s if not specified.
	Timeout time.Duration `yaml:"timeout,omitempty"`
}
