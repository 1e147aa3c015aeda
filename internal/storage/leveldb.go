package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"

	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/util"
)

// LevelDBStore implements Store on goleveldb.
type LevelDBStore struct {
	db     *leveldb.DB
	cfg    LevelDBConfig
	logger *slog.Logger
	closed atomic.Bool

	closeOnce sync.Once
	closeErr  error
}

// NewLevelDBStore opens (or creates) a LevelDB store at cfg.Home.
// A corrupted manifest is reported rather than silently recovered.
func NewLevelDBStore(cfg Config, logger *slog.Logger) (*LevelDBStore, error) {
	if cfg.Home == "" {
		return nil, fmt.Errorf("leveldb: home is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	if err := os.MkdirAll(cfg.Home, 0750); err != nil {
		return nil, fmt.Errorf("leveldb: create home: %w", err)
	}

	ldbCfg := cfg.LevelDB
	if ldbCfg == (LevelDBConfig{}) {
		ldbCfg = DefaultLevelDBConfig()
	}

	db, err := leveldb.OpenFile(cfg.Home, &opt.Options{
		BlockCacheCapacity: ldbCfg.BlockCacheCapacity,
		WriteBuffer:        ldbCfg.WriteBuffer,
		NoSync:             ldbCfg.NoSync,
		ErrorIfMissing:     false,
	})
	if err != nil {
		return nil, fmt.Errorf("leveldb: open db: %w", err)
	}

	logger.Info("leveldb store opened",
		"home", cfg.Home,
		"block_cache", ldbCfg.BlockCacheCapacity,
		"write_buffer", ldbCfg.WriteBuffer)

	return &LevelDBStore{db: db, cfg: ldbCfg, logger: logger}, nil
}

func (s *LevelDBStore) check(col Column) error {
	if s.closed.Load() {
		return ErrClosed
	}
	return checkColumn(col)
}

// Get retrieves a value by key.
func (s *LevelDBStore) Get(_ context.Context, col Column, key []byte) ([]byte, error) {
	if err := s.check(col); err != nil {
		return nil, err
	}
	v, err := s.db.Get(prefixedKey(col, key), nil)
	if err != nil {
		if errors.Is(err, leveldb.ErrNotFound) {
			return nil, ErrKeyNotFound
		}
		return nil, err
	}
	return v, nil
}

// Set stores a key-value pair.
func (s *LevelDBStore) Set(_ context.Context, col Column, key, value []byte) error {
	if err := s.check(col); err != nil {
		return err
	}
	return s.db.Put(prefixedKey(col, key), value, s.writeOptions())
}

// Delete removes a key.
func (s *LevelDBStore) Delete(_ context.Context, col Column, key []byte) error {
	if err := s.check(col); err != nil {
		return err
	}
	return s.db.Delete(prefixedKey(col, key), s.writeOptions())
}

// Iterate visits the column in key order over a database snapshot.
func (s *LevelDBStore) Iterate(_ context.Context, col Column, fn func(key, value []byte) error) error {
	if err := s.check(col); err != nil {
		return err
	}

	snap, err := s.db.GetSnapshot()
	if err != nil {
		return fmt.Errorf("leveldb: snapshot: %w", err)
	}
	defer snap.Release()

	it := snap.NewIterator(util.BytesPrefix([]byte{byte(col)}), nil)
	defer it.Release()

	for it.Next() {
		if err := fn(it.Key()[1:], it.Value()); err != nil {
			return err
		}
	}
	return it.Error()
}

// WriteBatch applies all pairs in one atomic leveldb.Batch.
func (s *LevelDBStore) WriteBatch(_ context.Context, col Column, pairs []KV) error {
	if err := s.check(col); err != nil {
		return err
	}

	batch := new(leveldb.Batch)
	for _, p := range pairs {
		batch.Put(prefixedKey(col, p.Key), p.Value)
	}
	if err := s.db.Write(batch, s.writeOptions()); err != nil {
		return fmt.Errorf("leveldb: batch write: %w", err)
	}
	return nil
}

// Compact compacts the whole keyspace. Run after a bulk import so the
// freshly written tables are merged before the store is handed over.
func (s *LevelDBStore) Compact() error {
	if s.closed.Load() {
		return ErrClosed
	}
	return s.db.CompactRange(util.Range{})
}

// Close closes the database. Closing twice is a no-op.
func (s *LevelDBStore) Close() error {
	s.closeOnce.Do(func() {
		s.closed.Store(true)
		if err := s.db.Close(); err != nil {
			s.closeErr = fmt.Errorf("leveldb: close db: %w", err)
			return
		}
		s.logger.Info("leveldb store closed")
	})
	return s.closeErr
}

func (s *LevelDBStore) writeOptions() *opt.WriteOptions {
	return &opt.WriteOptions{Sync: !s.cfg.NoSync}
}
