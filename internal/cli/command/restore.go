package command

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/statedump/internal/statedump"
	"github.com/yndnr/statedump/internal/storage"
)

// RestoreCommand returns the restore command.
func RestoreCommand() *cli.Command {
	return &cli.Command{
		Name:  "restore",
		Usage: "Load a snapshot directory into a store",
		Description: `Imports DIR/state_dump into the state column of the store and reads
DIR/genesis_roots. Existing keys with the same name are overwritten; other
keys are left alone.

With --backend memory the snapshot is loaded into a throwaway store, which
checks that both files decode.`,
		Flags: append([]cli.Flag{
			dirFlag(),
			&cli.StringFlag{
				Name:  "backend",
				Usage: "Store backend: persistent, memory (overrides store.backend)",
			},
		}, storeFlags()...),
		Action: restoreAction,
	}
}

// restoreResult is printed after a successful restore.
type restoreResult struct {
	Dir     string `json:"dir" yaml:"dir"`
	Backend string `json:"backend" yaml:"backend"`
	Engine  string `json:"engine,omitempty" yaml:"engine,omitempty"`
	Home    string `json:"home,omitempty" yaml:"home,omitempty"`
	Records int    `json:"records" yaml:"records"`
	Bytes   int64  `json:"bytes" yaml:"bytes"`
	Shards  int    `json:"shards" yaml:"shards"`
}

func restoreAction(c *cli.Context) error {
	st, err := getState(c)
	if err != nil {
		return err
	}
	dir, err := snapshotDir(c, st)
	if err != nil {
		return err
	}
	section, err := storeSection(c, st)
	if err != nil {
		return err
	}

	sd, err := statedump.Restore(commandContext(c), dir, st.opener(section), st.options(0)...)
	if err != nil {
		return err
	}
	if err := sd.Store.Close(); err != nil {
		return fmt.Errorf("close store: %w", err)
	}

	res := restoreResult{
		Dir:     dir,
		Backend: section.Backend,
		Records: sd.Imported.Records,
		Bytes:   sd.Imported.Bytes,
		Shards:  len(sd.Roots),
	}
	if section.StorageConfig().Backend == storage.BackendPersistent {
		res.Engine = section.Engine
		res.Home = section.Home
	}
	return st.print(c, res)
}
