package command

import (
	"bufio"
	"errors"
	"os"
	"strconv"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/statedump/internal/cli/output"
	"github.com/yndnr/statedump/internal/core/domain"
	"github.com/yndnr/statedump/internal/storage/snapshot"
)

// RootsCommand returns the roots subcommand group.
func RootsCommand() *cli.Command {
	return &cli.Command{
		Name:  "roots",
		Usage: "Encode and decode genesis_roots files",
		Subcommands: []*cli.Command{
			{
				Name:      "encode",
				Usage:     "Write hex roots to a genesis_roots file",
				ArgsUsage: "[ROOT...]",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "out",
						Usage:    "Destination file",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "roots-file",
						Usage: "Text file with one hex state root per line",
					},
				},
				Action: rootsEncode,
			},
			{
				Name:      "decode",
				Usage:     "Print the roots stored in a genesis_roots file",
				ArgsUsage: "FILE",
				Action:    rootsDecode,
			},
		},
	}
}

func rootsEncode(c *cli.Context) error {
	st, err := getState(c)
	if err != nil {
		return err
	}

	values := c.Args().Slice()
	if path := c.String("roots-file"); path != "" {
		fromFile, err := readRootsFile(path)
		if err != nil {
			return err
		}
		values = append(values, fromFile...)
	}
	roots, err := domain.ParseStateRoots(values)
	if err != nil {
		return err
	}

	out := c.String("out")
	if err := snapshot.SaveRoots(out, roots); err != nil {
		return err
	}
	st.log.Info("roots written", "path", out, "shards", len(roots))
	return st.print(c, rootsTable(roots))
}

func rootsDecode(c *cli.Context) error {
	st, err := getState(c)
	if err != nil {
		return err
	}
	path := c.Args().First()
	if path == "" {
		return errors.New("roots file path required")
	}
	roots, err := snapshot.LoadRoots(path)
	if err != nil {
		return err
	}
	return st.print(c, rootsTable(roots))
}

// rootsTable lists roots by shard. JSON and YAML output is a plain list.
type rootsTable []domain.StateRoot

func (r rootsTable) Table() *output.Table {
	t := &output.Table{Headers: []string{"SHARD", "ROOT"}}
	for i, root := range r {
		t.AddRow(strconv.Itoa(i), root.String())
	}
	return t
}

// rootsFromFlags collects roots from --roots and --roots-file, in that
// order.
func rootsFromFlags(c *cli.Context) ([]domain.StateRoot, error) {
	values := c.StringSlice("roots")
	if path := c.String("roots-file"); path != "" {
		fromFile, err := readRootsFile(path)
		if err != nil {
			return nil, err
		}
		values = append(values, fromFile...)
	}
	return domain.ParseStateRoots(values)
}

// readRootsFile reads one root per line. Blank lines and lines starting
// with '#' are skipped.
func readRootsFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, domain.ErrFilesystem.Wrapf(err, "open %s", path)
	}
	defer f.Close()

	var values []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		values = append(values, line)
	}
	if err := sc.Err(); err != nil {
		return nil, domain.ErrFilesystem.Wrapf(err, "read %s", path)
	}
	return values, nil
}

