package config

import "github.com/yndnr/statedump/internal/storage"

// Config is the root configuration for statedump.
type Config struct {
	Store    StoreSection    `koanf:"store" yaml:"store" json:"store"`
	Snapshot SnapshotSection `koanf:"snapshot" yaml:"snapshot" json:"snapshot"`
	Log      LogSection      `koanf:"log" yaml:"log" json:"log"`
	Metrics  MetricsSection  `koanf:"metrics" yaml:"metrics" json:"metrics"`
}

// StoreSection selects and tunes the store a snapshot is restored into or
// captured from.
type StoreSection struct {
	// Backend is "memory" or "persistent".
	Backend string `koanf:"backend" yaml:"backend" json:"backend"`

	// Engine is the persistent engine: "badger" or "leveldb".
	Engine string `koanf:"engine" yaml:"engine" json:"engine"`

	// Home is the store directory. Required for the persistent backend.
	Home string `koanf:"home" yaml:"home" json:"home"`

	Badger  BadgerSection  `koanf:"badger" yaml:"badger" json:"badger"`
	LevelDB LevelDBSection `koanf:"leveldb" yaml:"leveldb" json:"leveldb"`
}

// BadgerSection mirrors storage.BadgerConfig.
type BadgerSection struct {
	GCInterval       string  `koanf:"gc_interval" yaml:"gc_interval" json:"gc_interval"`
	GCThreshold      float64 `koanf:"gc_threshold" yaml:"gc_threshold" json:"gc_threshold"`
	CacheSize        int64   `koanf:"cache_size" yaml:"cache_size" json:"cache_size"`
	ValueLogFileSize int64   `koanf:"value_log_file_size" yaml:"value_log_file_size" json:"value_log_file_size"`
	NumMemtables     int     `koanf:"num_memtables" yaml:"num_memtables" json:"num_memtables"`
	SyncWrites       bool    `koanf:"sync_writes" yaml:"sync_writes" json:"sync_writes"`
}

// LevelDBSection mirrors storage.LevelDBConfig.
type LevelDBSection struct {
	BlockCacheCapacity int  `koanf:"block_cache_capacity" yaml:"block_cache_capacity" json:"block_cache_capacity"`
	WriteBuffer        int  `koanf:"write_buffer" yaml:"write_buffer" json:"write_buffer"`
	NoSync             bool `koanf:"no_sync" yaml:"no_sync" json:"no_sync"`
}

// SnapshotSection configures the snapshot directory.
type SnapshotSection struct {
	Dir string `koanf:"dir" yaml:"dir" json:"dir"`

	// RateLimitBytes caps capture write throughput in bytes per second.
	// 0 disables throttling.
	RateLimitBytes int `koanf:"rate_limit_bytes" yaml:"rate_limit_bytes" json:"rate_limit_bytes"`
}

// LogSection configures logging.
type LogSection struct {
	Level  string `koanf:"level" yaml:"level" json:"level"`
	Format string `koanf:"format" yaml:"format" json:"format"`
}

// MetricsSection configures metric export.
type MetricsSection struct {
	// Textfile is where metrics are written on exit, for the node-exporter
	// textfile collector. Empty disables export.
	Textfile string `koanf:"textfile" yaml:"textfile" json:"textfile"`
}

// StorageConfig converts the section into a storage.Config. The backend
// must already be verified.
func (s StoreSection) StorageConfig() storage.Config {
	backend, _ := storage.ParseBackend(s.Backend)
	return storage.Config{
		Backend: backend,
		Engine:  s.Engine,
		Home:    s.Home,
		Badger: storage.BadgerConfig{
			GCInterval:       s.Badger.GCInterval,
			GCThreshold:      s.Badger.GCThreshold,
			CacheSize:        s.Badger.CacheSize,
			ValueLogFileSize: s.Badger.ValueLogFileSize,
			NumMemtables:     s.Badger.NumMemtables,
			SyncWrites:       s.Badger.SyncWrites,
		},
		LevelDB: storage.LevelDBConfig{
			BlockCacheCapacity: s.LevelDB.BlockCacheCapacity,
			WriteBuffer:        s.LevelDB.WriteBuffer,
			NoSync:             s.LevelDB.NoSync,
		},
	}
}
