// Package statedump captures and restores a bootstrap state snapshot.
//
// A snapshot directory holds two files:
//
//	state_dump     every pair of the store's state column
//	genesis_roots  the ordered per-shard state roots
//
// Restore opens a store through an injected storage.Opener, imports the
// column and decodes the roots into a StateDump. Capture writes a StateDump
// back out and closes its store. Both are single-pass: any failure aborts
// the whole operation and a failed capture must be retried in full, since
// the two files are not written as a unit.
//
// Callers serialize access. Two operations against the same directory or
// store must not run concurrently.
package statedump
