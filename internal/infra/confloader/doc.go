// Package confloader provides configuration loading mechanism.
//
// It uses koanf to merge configuration from several sources into one
// typed struct.
//
// Priority (highest to lowest):
//
//  1. Command-line flags
//  2. Environment variables (STATEDUMP_ prefix)
//  3. Configuration file (YAML)
//  4. Default values
package confloader
