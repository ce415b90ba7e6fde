package config

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/madhujoshi/trusspass/pkg/csvio"
	"github.com/madhujoshi/trusspass/pkg/normalize"
)

// Load reads and validates a configuration file. An empty path yields the
// defaults, still subject to environment overrides and validation.
func Load(_ context.Context, path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path) // #nosec G304 -- user-provided config path is expected
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}

		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	cfg.applyEnvironmentOverrides()

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// Validate checks a configuration for errors and resolves the time zones.
func Validate(cfg *Config) error {
	if cfg.Output == "" {
		return errors.New("output: an output path is required")
	}

	// Empty values fall back to the defaults
	if cfg.OnError == "" {
		cfg.OnError = DefaultOnError
	}
	if err := ValidateErrorPolicy(cfg.OnError); err != nil {
		return fmt.Errorf("on_error: %w", err)
	}

	if cfg.HeaderCheck == "" {
		cfg.HeaderCheck = DefaultHeaderCheck
	}
	switch cfg.HeaderCheck {
	case csvio.HeaderCheckCount, csvio.HeaderCheckNames, csvio.HeaderCheckOff:
		// Valid
	default:
		return fmt.Errorf("header_check: invalid value %q (must be count, names, or off)", cfg.HeaderCheck)
	}

	if err := validateTimezones(cfg); err != nil {
		return fmt.Errorf("timezones: %w", err)
	}

	// Webhooks are optional, but validate if present
	for i := range cfg.Webhooks {
		if err := validateWebhook(&cfg.Webhooks[i]); err != nil {
			name := cfg.Webhooks[i].Name
			if name == "" {
				name = cfg.Webhooks[i].URL
			}
			return fmt.Errorf("webhooks[%d] (%s): %w", i, name, err)
		}
	}

	return nil
}

// ValidateErrorPolicy checks that p is a known malformed-row policy.
func ValidateErrorPolicy(p ErrorPolicy) error {
	switch p {
	case ErrorPolicyFail, ErrorPolicySkip:
		return nil
	default:
		return fmt.Errorf("invalid policy %q (must be fail or skip)", p)
	}
}

func validateTimezones(cfg *Config) error {
	tz := &cfg.Timezones
	if tz.Source == "" {
		tz.Source = normalize.DefaultSourceZone
	}
	if tz.Target == "" {
		tz.Target = normalize.DefaultTargetZone
	}

	converter, err := normalize.LoadTimestampConverter(tz.Source, tz.Target)
	if err != nil {
		return err
	}
	cfg.converter = converter
	return nil
}

func validateWebhook(wh *WebhookConfig) error {
	if wh.URL == "" {
		return errors.New("url is required")
	}

	// Validate URL format
	u, err := url.Parse(wh.URL)
	if err != nil {
		return fmt.Errorf("invalid url: %w", err)
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("url scheme must be http or https, got %q", u.Scheme)
	}

	if u.Host == "" {
		return errors.New("url must have a host")
	}

	// Expand environment variables in token
	wh.Token = expandEnvVar(wh.Token)

	// Validate trigger if specified
	if wh.Trigger != "" {
		switch wh.Trigger {
		case WebhookTriggerOnFailures, WebhookTriggerAlways, WebhookTriggerNever:
			// Valid
		default:
			return fmt.Errorf("invalid trigger %q (must be on_failures, always, or never)", wh.Trigger)
		}
	} else {
		// Default to on_failures
		wh.Trigger = WebhookTriggerOnFailures
	}

	// Default timeout
	if wh.Timeout <= 0 {
		wh.Timeout = DefaultWebhookTimeout
	}

	return nil
}

// expandEnvVar expands environment variables in the format ${VAR} or $VAR.
func expandEnvVar(s string) string {
	if s == "" {
		return s
	}

	if strings.HasPrefix(s, "${") && strings.HasSuffix(s, "}") {
		return os.Getenv(s[2 : len(s)-1])
	}

	if strings.HasPrefix(s, "$") && !strings.HasPrefix(s, "${") {
		return os.Getenv(s[1:])
	}

	return s
}
