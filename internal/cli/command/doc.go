// Package command provides the statedump command-line interface.
//
// It uses urfave/cli/v2. Global flags and configuration are resolved once
// in the app's Before hook; each command then works against that resolved
// state:
//
//   - restore: load a snapshot directory into a store
//   - capture: write a store's state column and roots to a directory
//   - inspect: summarize a snapshot directory
//   - roots:   encode and decode genesis_roots files
//   - config:  show or validate the effective configuration
package command
