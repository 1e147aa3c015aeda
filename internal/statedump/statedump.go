package statedump

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/yndnr/statedump/internal/core/domain"
	"github.com/yndnr/statedump/internal/storage"
	"github.com/yndnr/statedump/internal/storage/snapshot"
	"github.com/yndnr/statedump/internal/telemetry/logger"
	"github.com/yndnr/statedump/internal/telemetry/metric"
)

// File names inside a snapshot directory.
const (
	StateDumpFile    = "state_dump"
	GenesisRootsFile = "genesis_roots"
)

// ErrConsumed is returned when a StateDump is captured twice.
var ErrConsumed = errors.New("statedump: state dump already captured")

// StateDump pairs a store handle with the state roots of every shard.
// Roots[i] is the root of shard i.
//
// The StateDump owns Store. Capture closes it, after which the value must
// not be used again.
type StateDump struct {
	Store storage.Store
	Roots []domain.StateRoot

	// Imported is what Restore read from state_dump. Zero for bundles
	// built with New.
	Imported snapshot.Stats

	consumed bool
}

// New bundles an already populated store with its roots.
func New(store storage.Store, roots []domain.StateRoot) *StateDump {
	return &StateDump{Store: store, Roots: roots}
}

// Restore opens a store with open, imports dir/state_dump into its state
// column and loads dir/genesis_roots.
//
// On any failure the opened store is closed and no StateDump is returned.
func Restore(ctx context.Context, dir string, open storage.Opener, opts ...Option) (sd *StateDump, err error) {
	o := newOptions(opts)
	ctx, log := beginOp(ctx, o, metric.OpRestore, "dir", dir)
	start := time.Now()
	defer func() { o.finish(log, metric.OpRestore, start, err) }()

	store, err := open()
	if err != nil {
		if !domain.IsDomainError(err, "") {
			err = domain.ErrStoreOpen.Wrap(err)
		}
		return nil, err
	}
	if store == nil {
		return nil, domain.ErrStoreOpen.WithDetails("opener returned no store")
	}
	defer func() {
		if err != nil {
			if cerr := store.Close(); cerr != nil {
				log.Warn("close store after failed restore", "error", cerr)
			}
		}
	}()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	stats, err := snapshot.ImportColumn(ctx, store, storage.ColState, filepath.Join(dir, StateDumpFile))
	if err != nil {
		return nil, err
	}
	log.Debug("state column imported", "records", stats.Records, "bytes", stats.Bytes)

	if c, ok := store.(compacter); ok {
		if err := c.Compact(); err != nil {
			return nil, domain.ErrStoreAccess.Wrapf(err, "compact after import")
		}
		log.Debug("store compacted")
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	roots, err := snapshot.LoadRoots(filepath.Join(dir, GenesisRootsFile))
	if err != nil {
		return nil, err
	}

	if o.metrics != nil {
		o.metrics.ObserveColumn(metric.OpRestore, storage.ColState.String(), stats.Records, stats.Bytes)
		o.metrics.SetRoots(metric.OpRestore, len(roots))
		registerStoreMetrics(log, store, o.metrics)
	}
	log.Info("state dump restored", "records", stats.Records, "bytes", stats.Bytes, "shards", len(roots))
	sd = New(store, roots)
	sd.Imported = stats
	return sd, nil
}

// RestoreFromHome restores into a store of the given backend. home is
// ignored for storage.BackendMemory.
func RestoreFromHome(ctx context.Context, dir, home string, backend storage.Backend, opts ...Option) (*StateDump, error) {
	cfg := storage.MemoryConfig()
	if backend != storage.BackendMemory {
		cfg = storage.DefaultConfig(home)
		cfg.Backend = backend
	}
	o := newOptions(opts)
	return Restore(ctx, dir, storage.OpenerFor(cfg, logger.Slog(o.logger)), opts...)
}

// Capture writes the state column to dir/state_dump and the roots to
// dir/genesis_roots, creating dir if needed. Existing files are replaced.
//
// The store is closed when Capture returns, whether it succeeded or not.
// A failed capture can leave a fresh state_dump next to a stale or missing
// genesis_roots; retry the whole capture.
func (d *StateDump) Capture(ctx context.Context, dir string, opts ...Option) (err error) {
	if d.consumed {
		return ErrConsumed
	}
	if d.Store == nil {
		return domain.ErrStoreAccess.WithDetails("state dump has no store")
	}
	d.consumed = true

	o := newOptions(opts)
	ctx, log := beginOp(ctx, o, metric.OpCapture, "dir", dir, "shards", len(d.Roots))
	start := time.Now()
	defer func() {
		if cerr := d.Store.Close(); cerr != nil {
			err = errors.Join(err, domain.ErrStoreAccess.Wrapf(cerr, "close store"))
		}
		o.finish(log, metric.OpCapture, start, err)
	}()

	if err := os.MkdirAll(dir, 0o750); err != nil {
		return domain.ErrFilesystem.Wrapf(err, "create %s", dir)
	}

	var exportOpts []snapshot.Option
	if o.rateLimit > 0 {
		exportOpts = append(exportOpts, snapshot.WithRateLimit(o.rateLimit))
	}
	stats, err := snapshot.ExportColumn(ctx, d.Store, storage.ColState, filepath.Join(dir, StateDumpFile), exportOpts...)
	if err != nil {
		return err
	}
	log.Debug("state column exported", "records", stats.Records, "bytes", stats.Bytes)

	if err := ctx.Err(); err != nil {
		return err
	}
	if err := snapshot.SaveRoots(filepath.Join(dir, GenesisRootsFile), d.Roots); err != nil {
		return err
	}

	if o.metrics != nil {
		o.metrics.ObserveColumn(metric.OpCapture, storage.ColState.String(), stats.Records, stats.Bytes)
		o.metrics.SetRoots(metric.OpCapture, len(d.Roots))
		registerStoreMetrics(log, d.Store, o.metrics)
	}
	log.Info("state dump captured", "records", stats.Records, "bytes", stats.Bytes)
	return nil
}

// beginOp tags ctx with a fresh operation id and returns the scoped logger.
func beginOp(ctx context.Context, o *options, op string, args ...any) (context.Context, logger.Logger) {
	ctx = logger.WithOpID(logger.WithLogger(ctx, o.logger), ulid.Make().String())
	log := logger.L(ctx).With(append([]any{"op", op}, args...)...)
	log.Debug("operation started")
	return ctx, log
}

func (o *options) finish(log logger.Logger, op string, start time.Time, err error) {
	if o.metrics != nil {
		o.metrics.ObserveOperation(op, start, err)
	}
	if err != nil {
		log.Error("operation failed", "error", err, "code", domain.GetErrorCode(err), "elapsed", time.Since(start))
	}
}

// compacter is implemented by engines that benefit from a compaction after
// a bulk load.
type compacter interface {
	Compact() error
}

// registerStoreMetrics exports engine gauges for stores that have them.
// Metric failures are logged and never fail the operation.
func registerStoreMetrics(log logger.Logger, store storage.Store, r *metric.Registry) {
	if bs, ok := store.(*storage.BadgerStore); ok {
		if err := bs.RegisterMetrics(r.Registerer()); err != nil {
			log.Warn("store metrics unavailable", "error", err)
		}
	}
}
