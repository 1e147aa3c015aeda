// Package storage provides the key-value store abstraction used by the
// state dump codec.
//
// A Store holds a fixed, enumerated set of columns. Each column is an
// independent keyspace. The dump codec only needs two bulk primitives from
// a store: Iterate (export a whole column) and WriteBatch (import a set of
// pairs, overwriting duplicates).
//
// Backends:
//
//   - Memory: ephemeral, sharded in-memory maps, no home directory
//   - Persistent/badger: Badger v3 LSM store rooted at a home directory
//   - Persistent/leveldb: goleveldb store rooted at a home directory
//
// Persistent engines share one keyspace and separate columns with a
// one-byte prefix equal to the column id.
package storage
