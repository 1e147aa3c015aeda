package config

import "github.com/yndnr/statedump/internal/storage"

// Default configuration values.
const (
	DefaultBackend     = "persistent"
	DefaultEngine      = storage.EngineBadger
	DefaultSnapshotDir = ""

	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"
)

// Default returns the default configuration.
func Default() *Config {
	badger := storage.DefaultBadgerConfig()
	leveldb := storage.DefaultLevelDBConfig()

	return &Config{
		Store: StoreSection{
			Backend: DefaultBackend,
			Engine:  DefaultEngine,
			Badger: BadgerSection{
				GCInterval:       badger.GCInterval,
				GCThreshold:      badger.GCThreshold,
				CacheSize:        badger.CacheSize,
				ValueLogFileSize: badger.ValueLogFileSize,
				NumMemtables:     badger.NumMemtables,
				SyncWrites:       badger.SyncWrites,
			},
			LevelDB: LevelDBSection{
				BlockCacheCapacity: leveldb.BlockCacheCapacity,
				WriteBuffer:        leveldb.WriteBuffer,
				NoSync:             leveldb.NoSync,
			},
		},
		Snapshot: SnapshotSection{
			Dir: DefaultSnapshotDir,
		},
		Log: LogSection{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}
