// Package snapshot converts store columns and state root lists to and from
// their on-disk dump formats.
//
// Column dump file: a bare record stream, one record per key-value pair,
// in the store's native iteration order. No header, trailer, compression
// or sorting:
//
//	[keyLen:4 LE][key:keyLen][valueLen:4 LE][value:valueLen] ...
//
// A clean EOF on a record boundary ends the stream. EOF anywhere else, or a
// length that runs past the end of the file, is a malformed record.
//
// Roots file: a little-endian count followed by fixed-width hashes:
//
//	[count:4 LE][root:32]*count
//
// Writers go through a temp file in the destination directory that is
// fsynced and renamed over the target, so a failed write never leaves a
// partial file under the final name.
package snapshot
