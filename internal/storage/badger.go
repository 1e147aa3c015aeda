package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dgraph-io/badger/v3"
	"github.com/prometheus/client_golang/prometheus"
)

// BadgerStore implements Store on Badger v3.
type BadgerStore struct {
	db     *badger.DB
	cfg    BadgerConfig
	logger *slog.Logger
	closed atomic.Bool

	// Metrics (internal counters)
	lastGCTime  atomic.Int64 // Unix milliseconds
	gcRuns      atomic.Uint64
	metricsLSM  prometheus.Gauge
	metricsVlog prometheus.Gauge
	metricsGC   prometheus.Counter

	// Shutdown
	stopCh    chan struct{}
	doneCh    chan struct{}
	closeOnce sync.Once
	closeErr  error
}

// NewBadgerStore opens (or creates) a Badger store at cfg.Home.
func NewBadgerStore(cfg Config, logger *slog.Logger) (*BadgerStore, error) {
	if cfg.Home == "" {
		return nil, fmt.Errorf("badger: home is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	if err := os.MkdirAll(cfg.Home, 0750); err != nil {
		return nil, fmt.Errorf("badger: create home: %w", err)
	}

	badgerCfg := cfg.Badger
	if badgerCfg == (BadgerConfig{}) {
		badgerCfg = DefaultBadgerConfig()
	}
	if badgerCfg.GCThreshold <= 0 || badgerCfg.GCThreshold >= 1 {
		badgerCfg.GCThreshold = DefaultBadgerConfig().GCThreshold
	}

	opts := badger.DefaultOptions(cfg.Home)
	opts.Logger = &badgerLogger{logger: logger}
	if badgerCfg.CacheSize > 0 {
		opts.BlockCacheSize = badgerCfg.CacheSize
	}
	if badgerCfg.ValueLogFileSize > 0 {
		opts.ValueLogFileSize = badgerCfg.ValueLogFileSize
	}
	if badgerCfg.NumMemtables > 0 {
		opts.NumMemtables = badgerCfg.NumMemtables
	}
	opts.SyncWrites = badgerCfg.SyncWrites

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("badger: open db: %w", err)
	}

	s := &BadgerStore{
		db:     db,
		cfg:    badgerCfg,
		logger: logger,
		stopCh: make(chan struct{}),
		doneCh: make(chan struct{}),
	}

	go s.gcLoop()

	logger.Info("badger store opened",
		"home", cfg.Home,
		"cache_size", badgerCfg.CacheSize,
		"gc_interval", badgerCfg.GCInterval)

	return s, nil
}

func (s *BadgerStore) check(col Column) error {
	if s.closed.Load() {
		return ErrClosed
	}
	return checkColumn(col)
}

// Get retrieves a value by key.
func (s *BadgerStore) Get(_ context.Context, col Column, key []byte) ([]byte, error) {
	if err := s.check(col); err != nil {
		return nil, err
	}

	var value []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(prefixedKey(col, key))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return ErrKeyNotFound
			}
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		return nil, err
	}
	return value, nil
}

// Set stores a key-value pair.
func (s *BadgerStore) Set(_ context.Context, col Column, key, value []byte) error {
	if err := s.check(col); err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(prefixedKey(col, key), value)
	})
}

// Delete removes a key.
func (s *BadgerStore) Delete(_ context.Context, col Column, key []byte) error {
	if err := s.check(col); err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(prefixedKey(col, key))
	})
}

// Iterate visits the column in key order inside one read transaction.
func (s *BadgerStore) Iterate(_ context.Context, col Column, fn func(key, value []byte) error) error {
	if err := s.check(col); err != nil {
		return err
	}
	return s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte{byte(col)}
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			key := item.Key()[1:]
			if err := item.Value(func(value []byte) error {
				return fn(key, value)
			}); err != nil {
				return err
			}
		}
		return nil
	})
}

// WriteBatch writes all pairs through a Badger WriteBatch and flushes it.
func (s *BadgerStore) WriteBatch(_ context.Context, col Column, pairs []KV) error {
	if err := s.check(col); err != nil {
		return err
	}

	wb := s.db.NewWriteBatch()
	defer wb.Cancel()

	for _, p := range pairs {
		if err := wb.Set(prefixedKey(col, p.Key), p.Value); err != nil {
			return fmt.Errorf("badger: batch set: %w", err)
		}
	}
	if err := wb.Flush(); err != nil {
		return fmt.Errorf("badger: batch flush: %w", err)
	}
	return nil
}

// GC runs value log garbage collection until nothing more can be rewritten.
// Returns the number of value log files rewritten.
func (s *BadgerStore) GC() (int, error) {
	if s.closed.Load() {
		return 0, ErrClosed
	}
	startTime := time.Now()

	rewrites := 0
	for {
		err := s.db.RunValueLogGC(s.cfg.GCThreshold)
		if err != nil {
			if errors.Is(err, badger.ErrNoRewrite) {
				break
			}
			return rewrites, fmt.Errorf("badger: gc: %w", err)
		}
		rewrites++
	}

	s.lastGCTime.Store(time.Now().UnixMilli())
	s.gcRuns.Add(1)
	if s.metricsGC != nil {
		s.metricsGC.Add(float64(rewrites))
	}

	s.logger.Debug("badger gc completed",
		"rewrites", rewrites,
		"elapsed", time.Since(startTime))

	return rewrites, nil
}

// Size returns the LSM and value log sizes in bytes.
func (s *BadgerStore) Size() (lsm, vlog int64) {
	return s.db.Size()
}

// Close stops background work and closes the database.
// Closing twice is a no-op.
func (s *BadgerStore) Close() error {
	s.closeOnce.Do(func() {
		s.closed.Store(true)
		close(s.stopCh)
		<-s.doneCh

		if err := s.db.Close(); err != nil {
			s.closeErr = fmt.Errorf("badger: close db: %w", err)
			return
		}
		s.logger.Info("badger store closed")
	})
	return s.closeErr
}

// RegisterMetrics registers Badger size gauges and a GC counter.
//
// Collectors already present in registry, for example from an earlier store
// in the same process, are reused and now report this store. Calling it
// again on the same store only refreshes the gauges.
func (s *BadgerStore) RegisterMetrics(registry prometheus.Registerer) error {
	if s.metricsLSM != nil {
		s.UpdateMetrics()
		return nil
	}

	lsm, err := registerOrReuse(registry, prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "statedump",
		Subsystem: "badger",
		Name:      "lsm_size_bytes",
		Help:      "Badger LSM tree size in bytes",
	}))
	if err != nil {
		return err
	}
	vlog, err := registerOrReuse(registry, prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "statedump",
		Subsystem: "badger",
		Name:      "value_log_size_bytes",
		Help:      "Badger value log size in bytes",
	}))
	if err != nil {
		return err
	}
	gc, err := registerOrReuse(registry, prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "statedump",
		Subsystem: "badger",
		Name:      "gc_rewrites_total",
		Help:      "Value log files rewritten by Badger garbage collection",
	}))
	if err != nil {
		return err
	}

	s.metricsLSM, s.metricsVlog, s.metricsGC = lsm, vlog, gc
	s.UpdateMetrics()
	return nil
}

// registerOrReuse registers c, or returns the equivalent collector that is
// already registered.
func registerOrReuse[C prometheus.Collector](registry prometheus.Registerer, c C) (C, error) {
	err := registry.Register(c)
	if err == nil {
		return c, nil
	}
	var are prometheus.AlreadyRegisteredError
	if errors.As(err, &are) {
		if existing, ok := are.ExistingCollector.(C); ok {
			return existing, nil
		}
	}
	var zero C
	return zero, fmt.Errorf("badger: register metrics: %w", err)
}

// UpdateMetrics refreshes the size gauges. No-op before RegisterMetrics.
func (s *BadgerStore) UpdateMetrics() {
	if s.metricsLSM == nil || s.closed.Load() {
		return
	}
	lsm, vlog := s.db.Size()
	s.metricsLSM.Set(float64(lsm))
	s.metricsVlog.Set(float64(vlog))
}

// gcLoop runs periodic garbage collection and refreshes metrics.
func (s *BadgerStore) gcLoop() {
	defer close(s.doneCh)

	interval, err := time.ParseDuration(s.cfg.GCInterval)
	if err != nil || interval <= 0 {
		s.logger.Warn("invalid gc_interval, using default 10m", "value", s.cfg.GCInterval)
		interval = 10 * time.Minute
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if _, err := s.GC(); err != nil {
				s.logger.Error("auto gc failed", "error", err)
			}
			s.UpdateMetrics()
		case <-s.stopCh:
			return
		}
	}
}

// badgerLogger adapts slog.Logger to Badger's Logger interface.
type badgerLogger struct {
	logger *slog.Logger
}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warn(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}
