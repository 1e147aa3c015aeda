package command

import (
	"strconv"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/statedump/internal/cli/output"
	"github.com/yndnr/statedump/internal/statedump"
)

// InspectCommand returns the inspect command.
func InspectCommand() *cli.Command {
	return &cli.Command{
		Name:   "inspect",
		Usage:  "Summarize a snapshot directory without restoring it",
		Flags:  []cli.Flag{dirFlag()},
		Action: inspectAction,
	}
}

func inspectAction(c *cli.Context) error {
	st, err := getState(c)
	if err != nil {
		return err
	}
	dir, err := snapshotDir(c, st)
	if err != nil {
		return err
	}
	summary, err := statedump.Inspect(dir)
	if err != nil {
		return err
	}
	return st.print(c, summaryView{*summary})
}

// summaryView renders a Summary as one table with a row per shard root.
// JSON and YAML output use the Summary fields directly.
type summaryView struct {
	statedump.Summary `yaml:",inline"`
}

func (v summaryView) Table() *output.Table {
	t := &output.Table{Headers: []string{"FIELD", "VALUE"}}
	t.AddRow("dir", v.Dir)
	t.AddRow("records", strconv.Itoa(v.Records))
	t.AddRow("bytes", strconv.FormatInt(v.Bytes, 10))
	t.AddRow("shards", strconv.Itoa(len(v.Roots)))
	for i, r := range v.Roots {
		t.AddRow("root["+strconv.Itoa(i)+"]", r.String())
	}
	return t
}
