package storage

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/yndnr/statedump/internal/core/domain"
)

// Backend selects the storage medium for a store handle.
type Backend string

const (
	// BackendMemory is an ephemeral in-memory store. No home directory.
	BackendMemory Backend = "memory"

	// BackendPersistent is an on-disk store rooted at Config.Home.
	BackendPersistent Backend = "persistent"
)

// ParseBackend resolves a backend name. "in-memory" and "disk" are accepted
// as aliases.
func ParseBackend(s string) (Backend, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "memory", "in-memory", "inmemory", "mem":
		return BackendMemory, nil
	case "persistent", "disk", "":
		return BackendPersistent, nil
	default:
		return "", fmt.Errorf("storage: unknown backend %q", s)
	}
}

// Persistent engine names.
const (
	EngineBadger  = "badger"
	EngineLevelDB = "leveldb"
)

// Config configures a store handle.
type Config struct {
	// Backend chooses memory or persistent storage.
	Backend Backend

	// Engine is the persistent engine ("badger", "leveldb").
	// Default: "badger". Ignored for BackendMemory.
	Engine string

	// Home is the store home directory. Required for BackendPersistent.
	Home string

	// Badger-specific configuration
	Badger BadgerConfig

	// LevelDB-specific configuration
	LevelDB LevelDBConfig
}

// BadgerConfig contains Badger-specific tuning parameters.
type BadgerConfig struct {
	// GCInterval is the interval between automatic value log GC runs.
	// Default: 10m
	GCInterval string

	// GCThreshold is the GC discard ratio threshold (0.0-1.0).
	// Default: 0.5
	GCThreshold float64

	// CacheSize is the block cache size in bytes.
	// Default: 64MB
	CacheSize int64

	// ValueLogFileSize is the max value log file size in bytes.
	// Default: 1GB
	ValueLogFileSize int64

	// NumMemtables is the number of memtables.
	// Default: 2
	NumMemtables int

	// SyncWrites enables fsync after each write.
	// Default: true, a restored genesis state must survive a crash.
	SyncWrites bool
}

// LevelDBConfig contains goleveldb tuning parameters.
type LevelDBConfig struct {
	// BlockCacheCapacity is the block cache size in bytes.
	// Default: 8MB
	BlockCacheCapacity int

	// WriteBuffer is the memtable size in bytes.
	// Default: 4MB
	WriteBuffer int

	// NoSync disables fsync on batch writes.
	NoSync bool
}

// DefaultConfig returns a persistent badger configuration rooted at home.
func DefaultConfig(home string) Config {
	return Config{
		Backend: BackendPersistent,
		Engine:  EngineBadger,
		Home:    home,
		Badger:  DefaultBadgerConfig(),
		LevelDB: DefaultLevelDBConfig(),
	}
}

// MemoryConfig returns the configuration of an ephemeral store.
func MemoryConfig() Config {
	return Config{Backend: BackendMemory}
}

// DefaultBadgerConfig returns the default Badger configuration.
func DefaultBadgerConfig() BadgerConfig {
	return BadgerConfig{
		GCInterval:       "10m",
		GCThreshold:      0.5,
		CacheSize:        64 << 20, // 64MB
		ValueLogFileSize: 1 << 30,  // 1GB
		NumMemtables:     2,
		SyncWrites:       true,
	}
}

// DefaultLevelDBConfig returns the default goleveldb configuration.
func DefaultLevelDBConfig() LevelDBConfig {
	return LevelDBConfig{
		BlockCacheCapacity: 8 << 20,
		WriteBuffer:        4 << 20,
	}
}

// Opener acquires a ready store handle. Callers own the returned store.
type Opener func() (Store, error)

// Open opens a store handle as described by cfg.
//
// Every failure is reported as domain.ErrStoreOpen.
func Open(cfg Config, logger *slog.Logger) (Store, error) {
	if logger == nil {
		logger = slog.Default()
	}

	switch cfg.Backend {
	case BackendMemory:
		return NewMemoryStore(), nil
	case BackendPersistent:
	default:
		return nil, domain.ErrStoreOpen.WithDetails(fmt.Sprintf("unknown backend %q", cfg.Backend))
	}

	if cfg.Home == "" {
		return nil, domain.ErrStoreOpen.WithDetails("home directory is required for persistent backend")
	}

	var (
		s   Store
		err error
	)
	switch strings.ToLower(cfg.Engine) {
	case EngineBadger, "":
		s, err = NewBadgerStore(cfg, logger)
	case EngineLevelDB:
		s, err = NewLevelDBStore(cfg, logger)
	default:
		return nil, domain.ErrStoreOpen.WithDetails(fmt.Sprintf("unknown engine %q", cfg.Engine))
	}
	if err != nil {
		return nil, domain.ErrStoreOpen.Wrapf(err, "%s at %s", cfg.Engine, cfg.Home)
	}
	return s, nil
}

// OpenerFor binds cfg and logger into an Opener.
func OpenerFor(cfg Config, logger *slog.Logger) Opener {
	return func() (Store, error) {
		return Open(cfg, logger)
	}
}
