// Package cmap provides a concurrent map with string keys.
//
// The map is split into a power-of-two number of shards, each guarded by
// its own RWMutex. Keys are routed to shards with murmur3 so byte-string
// keys taken from a key-value column spread evenly.
//
// Usage:
//
//	m := cmap.New[[]byte]()
//	m.Set("key", value)
//	val, ok := m.Get("key")
//
// Thread Safety:
//
// All operations are thread-safe. Read operations (Get, Count, Snapshot) use RLock,
// write operations (Set, Delete) use Lock. SetAll locks every shard, in
// index order, for the duration of the batch.
package cmap
