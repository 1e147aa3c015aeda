package command

import (
	"errors"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/statedump/internal/config"
	"github.com/yndnr/statedump/internal/statedump"
	"github.com/yndnr/statedump/internal/storage"
	"github.com/yndnr/statedump/internal/telemetry/logger"
)

// storeFlags are shared by commands that open a store.
func storeFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "home",
			Usage: "Store home directory (overrides store.home)",
		},
		&cli.StringFlag{
			Name:  "engine",
			Usage: "Persistent engine: badger, leveldb (overrides store.engine)",
		},
	}
}

// dirFlag is the snapshot directory flag.
func dirFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "dir",
		Aliases: []string{"d"},
		Usage:   "Snapshot directory (overrides snapshot.dir)",
	}
}

// storeSection applies command flags on top of the loaded store section and
// verifies the result.
func storeSection(c *cli.Context, st *state) (config.StoreSection, error) {
	cfg := *st.cfg
	if c.IsSet("home") {
		cfg.Store.Home = c.String("home")
	}
	if c.IsSet("engine") {
		cfg.Store.Engine = c.String("engine")
	}
	if c.IsSet("backend") {
		cfg.Store.Backend = c.String("backend")
	}
	if err := config.Verify(&cfg); err != nil {
		return config.StoreSection{}, err
	}
	if err := config.RequireHome(&cfg.Store); err != nil {
		return config.StoreSection{}, err
	}
	return cfg.Store, nil
}

// snapshotDir resolves the snapshot directory from --dir or snapshot.dir.
func snapshotDir(c *cli.Context, st *state) (string, error) {
	if dir := c.String("dir"); dir != "" {
		return dir, nil
	}
	if st.cfg.Snapshot.Dir != "" {
		return st.cfg.Snapshot.Dir, nil
	}
	return "", errors.New("snapshot directory required: use --dir or set snapshot.dir")
}

func (st *state) opener(s config.StoreSection) storage.Opener {
	return storage.OpenerFor(s.StorageConfig(), logger.Slog(st.log))
}

func (st *state) options(rateLimit int) []statedump.Option {
	opts := []statedump.Option{
		statedump.WithLogger(st.log),
		statedump.WithMetrics(st.metrics),
	}
	if rateLimit > 0 {
		opts = append(opts, statedump.WithRateLimit(rateLimit))
	}
	return opts
}
