package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/yndnr/statedump/internal/storage"
	"github.com/yndnr/statedump/internal/telemetry/logger"
)

// Verify validates the configuration. It does not require store.home;
// commands that open a persistent store call RequireHome.
func Verify(cfg *Config) error {
	if err := verifyStore(&cfg.Store); err != nil {
		return err
	}
	if err := verifySnapshot(&cfg.Snapshot); err != nil {
		return err
	}
	return verifyLog(&cfg.Log)
}

// RequireHome fails when a persistent store has no home directory.
func RequireHome(s *StoreSection) error {
	backend, err := storage.ParseBackend(s.Backend)
	if err != nil {
		return err
	}
	if backend == storage.BackendPersistent && s.Home == "" {
		return errors.New("store.home is required for the persistent backend")
	}
	return nil
}

func verifyStore(s *StoreSection) error {
	if _, err := storage.ParseBackend(s.Backend); err != nil {
		return fmt.Errorf("store.backend: %w", err)
	}

	switch strings.ToLower(s.Engine) {
	case storage.EngineBadger, storage.EngineLevelDB:
	default:
		return fmt.Errorf("store.engine must be %q or %q, got %q", storage.EngineBadger, storage.EngineLevelDB, s.Engine)
	}

	if s.Badger.GCInterval != "" {
		d, err := time.ParseDuration(s.Badger.GCInterval)
		if err != nil {
			return fmt.Errorf("store.badger.gc_interval: %w", err)
		}
		if d <= 0 {
			return errors.New("store.badger.gc_interval must be positive")
		}
	}
	if s.Badger.GCThreshold < 0 || s.Badger.GCThreshold >= 1 {
		return fmt.Errorf("store.badger.gc_threshold must be in [0, 1), got %v", s.Badger.GCThreshold)
	}
	if s.Badger.CacheSize < 0 || s.Badger.ValueLogFileSize < 0 || s.Badger.NumMemtables < 0 {
		return errors.New("store.badger sizes must not be negative")
	}
	if s.LevelDB.BlockCacheCapacity < 0 || s.LevelDB.WriteBuffer < 0 {
		return errors.New("store.leveldb sizes must not be negative")
	}
	return nil
}

func verifySnapshot(s *SnapshotSection) error {
	if s.RateLimitBytes < 0 {
		return fmt.Errorf("snapshot.rate_limit_bytes must not be negative, got %d", s.RateLimitBytes)
	}
	return nil
}

func verifyLog(l *LogSection) error {
	if !logger.ValidLevel(l.Level) {
		return fmt.Errorf("log.level must be one of debug, info, warn, error; got %q", l.Level)
	}
	switch strings.ToLower(l.Format) {
	case "json", "text":
	default:
		return fmt.Errorf("log.format must be json or text, got %q", l.Format)
	}
	return nil
}
