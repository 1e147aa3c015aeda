package confloader

import (
	"os"
	"path/filepath"
	"testing"
)

type testConfig struct {
	Store struct {
		Backend string `koanf:"backend" yaml:"backend"`
		Home    string `koanf:"home" yaml:"home"`
		Badger  struct {
			GCInterval string `koanf:"gc_interval" yaml:"gc_interval"`
			SyncWrites bool   `koanf:"sync_writes" yaml:"sync_writes"`
		} `koanf:"badger" yaml:"badger"`
	} `koanf:"store" yaml:"store"`
	Snapshot struct {
		Dir            string `koanf:"dir" yaml:"dir"`
		RateLimitBytes int    `koanf:"rate_limit_bytes" yaml:"rate_limit_bytes"`
	} `koanf:"snapshot" yaml:"snapshot"`
	Log struct {
		Level string `koanf:"level" yaml:"level"`
	} `koanf:"log" yaml:"log"`
}

func unmarshal(t *testing.T, l *Loader) testConfig {
	t.Helper()
	var cfg testConfig
	if err := l.Unmarshal(&cfg); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	return cfg
}

func defaultTestConfig() testConfig {
	var cfg testConfig
	cfg.Store.Backend = "persistent"
	cfg.Store.Badger.GCInterval = "10m"
	cfg.Store.Badger.SyncWrites = true
	cfg.Snapshot.Dir = "./snapshot"
	return cfg
}

func TestNewLoader(t *testing.T) {
	l := NewLoader()
	if l == nil {
		t.Fatal("NewLoader() returned nil")
	}
	if l.envPrefix != DefaultEnvPrefix {
		t.Errorf("envPrefix = %q, want %q", l.envPrefix, DefaultEnvPrefix)
	}
}

func TestNewLoader_WithOptions(t *testing.T) {
	l := NewLoader(
		WithEnvPrefix("TEST_"),
		WithConfigFile("/path/to/config.yaml"),
	)

	if l.envPrefix != "TEST_" {
		t.Errorf("envPrefix = %q, want %q", l.envPrefix, "TEST_")
	}
	if l.filePath != "/path/to/config.yaml" {
		t.Errorf("filePath = %q, want %q", l.filePath, "/path/to/config.yaml")
	}
}

func TestLoader_LoadFile(t *testing.T) {
	// Create temp config file
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	content := `
store:
  home: "/var/lib/node"
  badger:
    sync_writes: true
snapshot:
  dir: "/srv/genesis"
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	l := NewLoader()
	if err := l.LoadFile(configPath); err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}

	cfg := unmarshal(t, l)
	if cfg.Store.Home != "/var/lib/node" {
		t.Errorf("store.home = %q, want %q", cfg.Store.Home, "/var/lib/node")
	}
	if !cfg.Store.Badger.SyncWrites {
		t.Error("store.badger.sync_writes should be true")
	}
}

func TestLoader_LoadFile_NotFound(t *testing.T) {
	l := NewLoader()
	err := l.LoadFile("/nonexistent/config.yaml")
	if err == nil {
		t.Error("LoadFile() should return error for nonexistent file")
	}
}

func TestLoader_LoadFile_Empty(t *testing.T) {
	l := NewLoader()
	// Empty path should not error
	if err := l.LoadFile(""); err != nil {
		t.Errorf("LoadFile(\"\") should not error, got: %v", err)
	}
}

func TestLoader_LoadEnv(t *testing.T) {
	// Set environment variables
	t.Setenv("STATEDUMP_STORE_BACKEND", "memory")
	t.Setenv("STATEDUMP_LOG_LEVEL", "debug")

	l := NewLoader()
	if err := l.LoadEnv(); err != nil {
		t.Fatalf("LoadEnv() error = %v", err)
	}

	cfg := unmarshal(t, l)
	if cfg.Store.Backend != "memory" {
		t.Errorf("store.backend = %q, want %q", cfg.Store.Backend, "memory")
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("log.level = %q, want %q", cfg.Log.Level, "debug")
	}
}

func TestLoader_LoadEnv_CustomPrefix(t *testing.T) {
	t.Setenv("MYAPP_STORE_HOME", "/data")

	l := NewLoader(WithEnvPrefix("MYAPP_"))
	if err := l.LoadEnv(); err != nil {
		t.Fatalf("LoadEnv() error = %v", err)
	}

	if home := unmarshal(t, l).Store.Home; home != "/data" {
		t.Errorf("store.home = %q, want %q", home, "/data")
	}
}

func TestLoader_LoadMap(t *testing.T) {
	l := NewLoader()

	data := map[string]any{
		"store.home":                "/tmp/node",
		"snapshot.rate_limit_bytes": 1024,
	}

	if err := l.LoadMap(data); err != nil {
		t.Fatalf("LoadMap() error = %v", err)
	}

	cfg := unmarshal(t, l)
	if cfg.Store.Home != "/tmp/node" {
		t.Errorf("flat map key should unmarshal into nested field, got %q", cfg.Store.Home)
	}
	if cfg.Snapshot.RateLimitBytes != 1024 {
		t.Errorf("rate_limit_bytes = %d, want 1024", cfg.Snapshot.RateLimitBytes)
	}
}

func TestLoader_Load_Priority(t *testing.T) {
	// Create temp config file with low priority value
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	content := `
snapshot:
  dir: "from-file"
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	t.Setenv("STATEDUMP_SNAPSHOT_DIR", "from-env")

	l := NewLoader(WithConfigFile(configPath))

	var cfg testConfig
	if err := l.Load(&cfg); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	// Environment should override file
	if cfg.Snapshot.Dir != "from-env" {
		t.Errorf("Dir = %q, want %q (env should override file)", cfg.Snapshot.Dir, "from-env")
	}

	// Flags override environment
	l = NewLoader(WithConfigFile(configPath), WithFlags(map[string]any{"snapshot.dir": "from-flag"}))
	cfg = testConfig{}
	if err := l.Load(&cfg); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Snapshot.Dir != "from-flag" {
		t.Errorf("Dir = %q, want %q (flag should override env)", cfg.Snapshot.Dir, "from-flag")
	}
}

func TestLoader_Unmarshal(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	content := `
store:
  home: "/var/lib/node"
  badger:
    sync_writes: true
snapshot:
  dir: "/srv/genesis"
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	l := NewLoader(WithConfigFile(configPath))

	var cfg testConfig
	if err := l.Load(&cfg); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Store.Home != "/var/lib/node" {
		t.Errorf("Home = %q, want %q", cfg.Store.Home, "/var/lib/node")
	}
	if !cfg.Store.Badger.SyncWrites {
		t.Error("SyncWrites should be true")
	}
	if cfg.Snapshot.Dir != "/srv/genesis" {
		t.Errorf("Dir = %q, want %q", cfg.Snapshot.Dir, "/srv/genesis")
	}
}

func TestLoader_LoadDefaults(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("store:\n  home: /from/file\n"), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	l := NewLoader(WithConfigFile(configPath))
	if err := l.LoadDefaults(defaultTestConfig()); err != nil {
		t.Fatalf("LoadDefaults() error = %v", err)
	}

	var cfg testConfig
	if err := l.Load(&cfg); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Store.Backend != "persistent" {
		t.Errorf("Backend = %q, want default %q", cfg.Store.Backend, "persistent")
	}
	if cfg.Store.Badger.GCInterval != "10m" {
		t.Errorf("GCInterval = %q, want default %q", cfg.Store.Badger.GCInterval, "10m")
	}
	if cfg.Store.Home != "/from/file" {
		t.Errorf("Home = %q, want %q (file should override default)", cfg.Store.Home, "/from/file")
	}
}

func TestLoader_LoadEnv_UnderscoreKeys(t *testing.T) {
	t.Setenv("STATEDUMP_SNAPSHOT_RATE_LIMIT_BYTES", "4096")
	t.Setenv("STATEDUMP_STORE_BADGER_GC_INTERVAL", "1h")
	t.Setenv("STATEDUMP_STORE_BADGER_SYNC_WRITES", "false")

	l := NewLoader()
	if err := l.LoadDefaults(defaultTestConfig()); err != nil {
		t.Fatalf("LoadDefaults() error = %v", err)
	}

	var cfg testConfig
	if err := l.Load(&cfg); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Snapshot.RateLimitBytes != 4096 {
		t.Errorf("RateLimitBytes = %d, want 4096", cfg.Snapshot.RateLimitBytes)
	}
	if cfg.Store.Badger.GCInterval != "1h" {
		t.Errorf("GCInterval = %q, want %q", cfg.Store.Badger.GCInterval, "1h")
	}
	if cfg.Store.Badger.SyncWrites {
		t.Error("SyncWrites should be overridden to false")
	}
}

func TestLoader_Load_BadFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte("store: [unclosed"), 0644); err != nil {
		t.Fatal(err)
	}

	var cfg testConfig
	if err := NewLoader(WithConfigFile(configPath)).Load(&cfg); err == nil {
		t.Error("Load() should fail on invalid YAML")
	}
}
