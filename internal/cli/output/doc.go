// Package output renders command results.
//
//   - formatter.go: Formatter interface and factory
//   - table.go: aligned key/value and row tables
//   - json.go: indented JSON
//   - yaml.go: YAML
//
// Table output is for people; JSON and YAML are stable for scripts.
package output
