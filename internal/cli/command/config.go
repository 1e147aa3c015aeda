package command

import (
	"fmt"

	"github.com/urfave/cli/v2"
)

// ConfigCommand returns the config subcommand group.
func ConfigCommand() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Configuration management",
		Subcommands: []*cli.Command{
			{
				Name:   "show",
				Usage:  "Show the effective configuration",
				Action: configShow,
			},
			{
				Name:   "validate",
				Usage:  "Validate the configuration",
				Action: configValidate,
			},
		},
	}
}

func configShow(c *cli.Context) error {
	st, err := getState(c)
	if err != nil {
		return err
	}
	return st.print(c, st.cfg)
}

// configValidate succeeds when setup could load and verify the
// configuration; the work happens before the action runs.
func configValidate(c *cli.Context) error {
	st, err := getState(c)
	if err != nil {
		return err
	}
	source := ParseGlobalFlags(c).ConfigFile
	if source == "" {
		source = "(defaults and environment)"
	}
	st.log.Debug("configuration verified", "source", source)
	_, err = fmt.Fprintf(c.App.Writer, "configuration is valid: %s\n", source)
	return err
}
