package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/madhujoshi/trusspass/pkg/config"
	"github.com/madhujoshi/trusspass/pkg/normalize"
	"github.com/madhujoshi/trusspass/pkg/processor"
)

const testHeader = "Timestamp,Address,ZIP,FullName,FooDuration,BarDuration,TotalDuration,Notes\n"

const goodRow = `4/1/11 11:00:00 AM,"123 Main St, Apt 4",9,jane doe,0:01:00.000,0:02:00.000,zzsasdfa,ok` + "\n"

const wantRow = `2011-04-01T14:00:00-04:00,"123 Main St, Apt 4",00009,JANE DOE,60.0,120.0,180.0,ok` + "\n"

const badRow = "4/1/11 11:00:00 AM,addr,1,name,1:00,0:00:01.000,,n\n"

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write %s: %v", name, err)
	}
	return path
}

func executeNormalize(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	ExitCode = 0
	t.Cleanup(func() { ExitCode = 0 })

	cmd := NewNormalizeCommand()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err = cmd.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func TestNewNormalizeCommand(t *testing.T) {
	cmd := NewNormalizeCommand()

	if cmd.Use != "trusspass <input-path>" {
		t.Errorf("Unexpected Use: %s", cmd.Use)
	}

	flags := []string{"config", "output", "on-error", "report", "verbose", "quiet",
		"webhook-url", "webhook-token", "webhook-trigger"}
	for _, flag := range flags {
		if cmd.Flags().Lookup(flag) == nil {
			t.Errorf("Missing flag: %s", flag)
		}
	}
}

func TestRunNormalize_WritesOutputFile(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "sample.csv", testHeader+goodRow)
	outPath := filepath.Join(dir, "fixed.csv")

	_, stderr, err := executeNormalize(t, input, "-o", outPath)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if ExitCode != 0 {
		t.Errorf("ExitCode = %d, want 0", ExitCode)
	}

	got, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	if string(got) != testHeader+wantRow {
		t.Errorf("output =\n%s\nwant\n%s", got, testHeader+wantRow)
	}

	if !strings.Contains(stderr, "Normalization Report") {
		t.Errorf("stderr missing report:\n%s", stderr)
	}
}

func TestRunNormalize_Stdout(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "sample.csv", testHeader+goodRow)

	stdout, stderr, err := executeNormalize(t, input, "-o", "-", "--report", "none")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if stdout != testHeader+wantRow {
		t.Errorf("stdout = %q, want %q", stdout, testHeader+wantRow)
	}
	if stderr != "" {
		t.Errorf("stderr = %q, want empty with --report none", stderr)
	}
}

func TestRunNormalize_DefaultOutputPath(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "sample.csv", testHeader+goodRow)
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd() error = %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Chdir() error = %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })

	if _, _, err := executeNormalize(t, input, "--report", "none"); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "sample-fixed.csv")); err != nil {
		t.Errorf("default output not written: %v", err)
	}
}

func TestRunNormalize_FailFast(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "sample.csv", testHeader+goodRow+badRow+goodRow)
	outPath := filepath.Join(dir, "fixed.csv")

	_, _, err := executeNormalize(t, input, "-o", outPath, "--report", "none")
	if err == nil {
		t.Fatal("Execute() expected error for malformed row")
	}

	var re *processor.RowError
	if !errors.As(err, &re) || re.Line != 3 {
		t.Errorf("error = %v, want RowError on line 3", err)
	}
	if !strings.Contains(err.Error(), "FooDuration") {
		t.Errorf("error = %q, want column name", err.Error())
	}

	got, readErr := os.ReadFile(outPath)
	if readErr != nil {
		t.Fatalf("reading output: %v", readErr)
	}
	if string(got) != testHeader+wantRow {
		t.Errorf("output = %q, want rows before the failure", got)
	}
}

func TestRunNormalize_Skip(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "sample.csv", testHeader+goodRow+badRow+goodRow)

	stdout, stderr, err := executeNormalize(t, input, "-o", "-", "--on-error", "skip", "--report", "json")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if ExitCode != 1 {
		t.Errorf("ExitCode = %d, want 1", ExitCode)
	}
	if stdout != testHeader+wantRow+wantRow {
		t.Errorf("stdout = %q", stdout)
	}

	var report struct {
		Summary struct {
			RowsSkipped int `json:"rows_skipped"`
		} `json:"summary"`
		Failures []processor.RowFailure `json:"failures"`
	}
	if err := json.Unmarshal([]byte(stderr), &report); err != nil {
		t.Fatalf("report is not JSON: %v\n%s", err, stderr)
	}
	if report.Summary.RowsSkipped != 1 || len(report.Failures) != 1 {
		t.Errorf("report = %+v, want one skipped row", report)
	}
	if report.Failures[0].Kind != string(normalize.KindDuration) {
		t.Errorf("Failures[0].Kind = %q", report.Failures[0].Kind)
	}
}

func TestRunNormalize_MissingInput(t *testing.T) {
	dir := t.TempDir()
	outPath := filepath.Join(dir, "fixed.csv")

	_, _, err := executeNormalize(t, filepath.Join(dir, "missing.csv"), "-o", outPath)
	if err == nil {
		t.Fatal("Execute() expected error for missing input")
	}
	if _, statErr := os.Stat(outPath); !os.IsNotExist(statErr) {
		t.Error("output file created for missing input")
	}
}

func TestRunNormalize_InvalidFlags(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "sample.csv", testHeader+goodRow)

	tests := []struct {
		name string
		args []string
	}{
		{"bad policy", []string{input, "--on-error", "ignore"}},
		{"bad report", []string{input, "--report", "xml"}},
		{"bad webhook trigger", []string{input, "--webhook-trigger", "sometimes"}},
		{"no args", []string{}},
		{"two args", []string{input, input}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := executeNormalize(t, tt.args...); err == nil {
				t.Error("Execute() expected error")
			}
		})
	}
}

func TestRunNormalize_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "sample.csv", testHeader+goodRow)
	cfgPath := writeFile(t, dir, "trusspass.yaml", "timezones:\n  source: UTC\n  target: UTC\n")

	stdout, _, err := executeNormalize(t, input, "-c", cfgPath, "-o", "-", "--report", "none")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !strings.Contains(stdout, "2011-04-01T11:00:00+00:00") {
		t.Errorf("stdout = %q, want UTC timestamp", stdout)
	}
}

func TestRunNormalize_Webhook(t *testing.T) {
	var received map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &received)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	dir := t.TempDir()
	input := writeFile(t, dir, "sample.csv", testHeader+goodRow+badRow)

	_, _, err := executeNormalize(t, input, "-o", "-", "--on-error", "skip", "--report", "none",
		"--webhook-url", server.URL)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	if received == nil {
		t.Fatal("webhook not received")
	}
	if received["event"] != "run.failed" {
		t.Errorf("event = %v, want run.failed", received["event"])
	}
}

func TestCollectWebhooks(t *testing.T) {
	t.Run("config only", func(t *testing.T) {
		cfg := &config.Config{
			Webhooks: []config.WebhookConfig{
				{Name: "slack", URL: "https://slack.com/webhook"},
				{Name: "pagerduty", URL: "https://pagerduty.com/webhook"},
			},
		}

		webhooks := collectWebhooks(cfg, &NormalizeOptions{})
		if len(webhooks) != 2 {
			t.Errorf("got %d webhooks, want 2", len(webhooks))
		}
	})

	t.Run("cli appended", func(t *testing.T) {
		cfg := &config.Config{
			Webhooks: []config.WebhookConfig{{Name: "slack", URL: "https://slack.com/webhook"}},
		}
		opts := &NormalizeOptions{
			WebhookURL:   "https://example.com/hook",
			WebhookToken: "secret",
		}

		webhooks := collectWebhooks(cfg, opts)
		if len(webhooks) != 2 {
			t.Fatalf("got %d webhooks, want 2", len(webhooks))
		}
		cli := webhooks[1]
		if cli.Name != "cli" || cli.Token != "secret" {
			t.Errorf("cli webhook = %+v", cli)
		}
		if cli.Trigger != config.WebhookTriggerOnFailures {
			t.Errorf("Trigger = %q, want default on_failures", cli.Trigger)
		}
		if cli.Timeout != config.DefaultWebhookTimeout {
			t.Errorf("Timeout = %v, want default", cli.Timeout)
		}
	})
}

func TestValidateWebhookTrigger(t *testing.T) {
	for _, trigger := range []string{"", "on_failures", "always", "never"} {
		if err := validateWebhookTrigger(trigger); err != nil {
			t.Errorf("validateWebhookTrigger(%q) error = %v", trigger, err)
		}
	}
	if err := validateWebhookTrigger("on_issues"); err == nil {
		t.Error("validateWebhookTrigger() expected error for unknown trigger")
	}
}
