package command

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/statedump/internal/core/domain"
)

// run executes the app with args and returns what it wrote to stdout and
// stderr.
func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("STATEDUMP_CONFIG", "")

	var stdout, stderr bytes.Buffer
	app := App()
	app.Writer = &stdout
	app.ErrWriter = &stderr
	err := app.Run(append([]string{"statedump"}, args...))
	return stdout.String(), stderr.String(), err
}

func TestApp(t *testing.T) {
	app := App()

	if app.Name != "statedump" {
		t.Errorf("Name = %q, want statedump", app.Name)
	}
	if app.Version == "" {
		t.Error("Version should not be empty")
	}

	want := []string{"restore", "capture", "inspect", "roots", "config"}
	if len(app.Commands) != len(want) {
		t.Fatalf("got %d commands, want %d", len(app.Commands), len(want))
	}
	for i, name := range want {
		if app.Commands[i].Name != name {
			t.Errorf("command %d = %q, want %q", i, app.Commands[i].Name, name)
		}
	}
}

func TestGlobalFlags(t *testing.T) {
	names := make(map[string]bool)
	for _, f := range globalFlags() {
		for _, n := range f.Names() {
			names[n] = true
		}
	}
	for _, want := range []string{"config", "c", "log-level", "log-format", "output", "o", "metrics-textfile"} {
		if !names[want] {
			t.Errorf("missing global flag %q", want)
		}
	}
}

func TestParseGlobalFlags(t *testing.T) {
	var got *GlobalFlags
	app := App()
	app.Before = nil
	app.After = nil
	app.Commands = nil
	app.Action = func(c *cli.Context) error {
		got = ParseGlobalFlags(c)
		return nil
	}

	err := app.Run([]string{"statedump", "-c", "cfg.yaml", "--log-level", "debug", "-o", "json", "--metrics-textfile", "m.prom"})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got.ConfigFile != "cfg.yaml" || got.LogLevel != "debug" || got.Output != "json" || got.MetricsTextfile != "m.prom" {
		t.Errorf("ParseGlobalFlags = %+v", got)
	}
	if got.LogFormat != "" {
		t.Errorf("LogFormat = %q, want empty", got.LogFormat)
	}
}

func TestSetup_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"bad output", []string{"-o", "xml", "config", "show"}, "xml"},
		{"bad log level", []string{"--log-level", "loud", "config", "show"}, "log.level"},
		{"bad log format", []string{"--log-format", "logfmt", "config", "show"}, "log.format"},
		{"missing config file", []string{"-c", "/nonexistent/statedump.yaml", "config", "show"}, "statedump.yaml"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := run(t, tt.args...)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %v, want it to mention %q", err, tt.want)
			}
		})
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{nil, 0},
		{errors.New("usage"), 1},
		{domain.ErrMalformed.WithDetails("short record"), 3},
		{fmt.Errorf("shard 2: %w", domain.ErrInvalidRoot), 3},
		{domain.ErrStoreOpen, 4},
		{domain.ErrStoreAccess.Wrap(errors.New("io")), 4},
		{domain.ErrFilesystem, 5},
	}
	for _, tt := range tests {
		if got := ExitCode(tt.err); got != tt.want {
			t.Errorf("ExitCode(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestPrintError(t *testing.T) {
	var buf bytes.Buffer
	PrintError(&buf, domain.ErrMalformed.WithDetails("short record"))
	if got := buf.String(); !strings.HasPrefix(got, "error (SD-DATA-4001): ") {
		t.Errorf("PrintError = %q", got)
	}

	buf.Reset()
	PrintError(&buf, errors.New("plain"))
	if got := buf.String(); got != "error: plain\n" {
		t.Errorf("PrintError = %q, want %q", got, "error: plain\n")
	}
}
