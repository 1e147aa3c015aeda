// Package config defines the statedump configuration.
//
//   - spec.go: Config struct definition
//   - default.go: default values
//   - verify.go: validation
//   - load.go: merging defaults, file, environment and flags
//
// Configuration is loaded via internal/infra/confloader.
package config
