package config

import (
	"fmt"

	"github.com/yndnr/statedump/internal/infra/confloader"
)

// Load builds the effective configuration: defaults, then the YAML file at
// path (optional), then STATEDUMP_* environment variables, then flags.
// The result is verified.
func Load(path string, flags map[string]any) (*Config, error) {
	opts := []confloader.Option{confloader.WithFlags(flags)}
	if path != "" {
		opts = append(opts, confloader.WithConfigFile(path))
	}
	loader := confloader.NewLoader(opts...)

	cfg := Default()
	if err := loader.LoadDefaults(cfg); err != nil {
		return nil, err
	}
	if err := loader.Load(cfg); err != nil {
		return nil, err
	}

	if err := Verify(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}
