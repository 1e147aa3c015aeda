package command

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/statedump/internal/cli/output"
	"github.com/yndnr/statedump/internal/config"
	"github.com/yndnr/statedump/internal/core/domain"
	"github.com/yndnr/statedump/internal/infra/buildinfo"
	"github.com/yndnr/statedump/internal/telemetry/logger"
	"github.com/yndnr/statedump/internal/telemetry/metric"
)

const stateKey = "state"

// App creates the CLI application.
func App() *cli.App {
	return &cli.App{
		Name:    "statedump",
		Usage:   "Capture and restore bootstrap state snapshots",
		Version: buildinfo.String(),
		Flags:   globalFlags(),
		Commands: []*cli.Command{
			RestoreCommand(),
			CaptureCommand(),
			InspectCommand(),
			RootsCommand(),
			ConfigCommand(),
		},
		Before: setup,
		After:  teardown,
	}
}

// globalFlags returns the global CLI flags.
func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to a YAML configuration file",
			EnvVars: []string{"STATEDUMP_CONFIG"},
		},
		&cli.StringFlag{
			Name:  "log-level",
			Usage: "Log level: debug, info, warn, error",
		},
		&cli.StringFlag{
			Name:  "log-format",
			Usage: "Log format: text, json",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output format: table, json, yaml",
			Value:   "table",
		},
		&cli.StringFlag{
			Name:  "metrics-textfile",
			Usage: "Write Prometheus metrics to this file on exit",
		},
	}
}

// GlobalFlags defines flags available to all commands.
type GlobalFlags struct {
	ConfigFile      string
	LogLevel        string
	LogFormat       string
	Output          string
	MetricsTextfile string
}

// ParseGlobalFlags extracts global flags from context.
func ParseGlobalFlags(c *cli.Context) *GlobalFlags {
	return &GlobalFlags{
		ConfigFile:      c.String("config"),
		LogLevel:        c.String("log-level"),
		LogFormat:       c.String("log-format"),
		Output:          c.String("output"),
		MetricsTextfile: c.String("metrics-textfile"),
	}
}

// overrides maps the global flags that were set onto configuration keys.
func (g *GlobalFlags) overrides(c *cli.Context) map[string]any {
	m := make(map[string]any)
	if c.IsSet("log-level") {
		m["log.level"] = g.LogLevel
	}
	if c.IsSet("log-format") {
		m["log.format"] = g.LogFormat
	}
	if c.IsSet("metrics-textfile") {
		m["metrics.textfile"] = g.MetricsTextfile
	}
	return m
}

// state is what setup resolves for every command.
type state struct {
	cfg       *config.Config
	log       logger.Logger
	metrics   *metric.Registry
	formatter output.Formatter
}

func setup(c *cli.Context) error {
	flags := ParseGlobalFlags(c)

	format, err := output.ParseFormat(flags.Output)
	if err != nil {
		return err
	}

	cfg, err := config.Load(flags.ConfigFile, flags.overrides(c))
	if err != nil {
		return err
	}

	log, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: c.App.ErrWriter,
	})
	if err != nil {
		return err
	}
	logger.SetDefault(log)

	if c.App.Metadata == nil {
		c.App.Metadata = make(map[string]any)
	}
	c.App.Metadata[stateKey] = &state{
		cfg:       cfg,
		log:       log,
		metrics:   metric.NewRegistry(),
		formatter: output.NewFormatter(format),
	}
	return nil
}

func teardown(c *cli.Context) error {
	st, err := getState(c)
	if err != nil {
		// setup failed; its error is already being reported
		return nil
	}
	if path := st.cfg.Metrics.Textfile; path != "" {
		if err := st.metrics.WriteTextfile(path); err != nil {
			return fmt.Errorf("write metrics textfile: %w", err)
		}
		st.log.Debug("metrics written", "path", path)
	}
	return nil
}

func getState(c *cli.Context) (*state, error) {
	if st, ok := c.App.Metadata[stateKey].(*state); ok {
		return st, nil
	}
	return nil, errors.New("command: configuration not loaded")
}

// print writes a command result in the selected output format.
func (st *state) print(c *cli.Context, data any) error {
	return st.formatter.Format(c.App.Writer, data)
}

func commandContext(c *cli.Context) context.Context {
	if c.Context != nil {
		return c.Context
	}
	return context.Background()
}

// PrintError writes err to w, with its error code when it has one.
func PrintError(w io.Writer, err error) {
	if code := domain.GetErrorCode(err); code != "" {
		fmt.Fprintf(w, "error (%s): %v\n", code, err)
		return
	}
	fmt.Fprintf(w, "error: %v\n", err)
}

// ExitCode maps an error to the process exit status.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, domain.ErrMalformed), errors.Is(err, domain.ErrInvalidRoot):
		return 3
	case errors.Is(err, domain.ErrStoreOpen), errors.Is(err, domain.ErrStoreAccess):
		return 4
	case errors.Is(err, domain.ErrFilesystem):
		return 5
	default:
		return 1
	}
}
