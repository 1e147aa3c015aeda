package command

import (
	"errors"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/statedump/internal/statedump"
	"github.com/yndnr/statedump/internal/storage"
)

// CaptureCommand returns the capture command.
func CaptureCommand() *cli.Command {
	return &cli.Command{
		Name:  "capture",
		Usage: "Write a store's state column and shard roots to a snapshot directory",
		Description: `Opens the persistent store at --home, writes its state column to
DIR/state_dump and the given roots, in shard order, to DIR/genesis_roots.
DIR is created if needed and existing files are replaced.`,
		Flags: append([]cli.Flag{
			dirFlag(),
			&cli.StringSliceFlag{
				Name:  "roots",
				Usage: "Hex state root per shard, in shard order",
			},
			&cli.StringFlag{
				Name:  "roots-file",
				Usage: "Text file with one hex state root per line",
			},
			&cli.IntFlag{
				Name:  "rate-limit",
				Usage: "Write throughput cap in bytes per second (overrides snapshot.rate_limit_bytes)",
			},
		}, storeFlags()...),
		Action: captureAction,
	}
}

func captureAction(c *cli.Context) error {
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
	if section.StorageConfig().Backend != storage.BackendPersistent {
		return errors.New("capture needs a persistent store; a fresh memory store has nothing to dump")
	}

	roots, err := rootsFromFlags(c)
	if err != nil {
		return err
	}

	rateLimit := st.cfg.Snapshot.RateLimitBytes
	if c.IsSet("rate-limit") {
		rateLimit = c.Int("rate-limit")
		if rateLimit < 0 {
			return errors.New("--rate-limit must not be negative")
		}
	}

	store, err := st.opener(section)()
	if err != nil {
		return err
	}
	if err := statedump.New(store, roots).Capture(commandContext(c), dir, st.options(rateLimit)...); err != nil {
		return err
	}

	summary, err := statedump.Inspect(dir)
	if err != nil {
		return err
	}
	return st.print(c, summaryView{*summary})
}

