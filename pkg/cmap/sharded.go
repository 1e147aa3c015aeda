package cmap

import (
	"sort"
	"sync"

	"github.com/spaolacci/murmur3"
)

// DefaultShardCount is the default number of shards.
const DefaultShardCount = 16

// Map is a concurrent-safe sharded map keyed by string.
type Map[V any] struct {
	shards    []*shard[V]
	shardMask uint64
}

type shard[V any] struct {
	mu    sync.RWMutex
	items map[string]V
}

// Entry is one key-value pair passed to SetAll.
type Entry[V any] struct {
	Key   string
	Value V
}

// New creates a new sharded map with the default shard count.
func New[V any]() *Map[V] {
	return NewWithShards[V](DefaultShardCount)
}

// NewWithShards creates a new sharded map with the specified shard count.
// shardCount must be a power of 2; anything else falls back to the default.
func NewWithShards[V any](shardCount int) *Map[V] {
	if shardCount <= 0 || shardCount&(shardCount-1) != 0 {
		shardCount = DefaultShardCount
	}

	m := &Map[V]{
		shards:    make([]*shard[V], shardCount),
		shardMask: uint64(shardCount - 1),
	}
	for i := 0; i < shardCount; i++ {
		m.shards[i] = &shard[V]{items: make(map[string]V)}
	}
	return m
}

func (m *Map[V]) shardIndex(key string) uint64 {
	return murmur3.Sum64([]byte(key)) & m.shardMask
}

func (m *Map[V]) getShard(key string) *shard[V] {
	return m.shards[m.shardIndex(key)]
}

// Get retrieves a value by key.
func (m *Map[V]) Get(key string) (V, bool) {
	s := m.getShard(key)
	s.mu.RLock()
	defer s.mu.RUnlock()
	val, ok := s.items[key]
	return val, ok
}

// Set stores a key-value pair.
func (m *Map[V]) Set(key string, value V) {
	s := m.getShard(key)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[key] = value
}

// SetAll stores every entry while holding all shard locks, so concurrent
// readers observe either none or all of the batch. Later entries with the
// same key overwrite earlier ones.
func (m *Map[V]) SetAll(entries []Entry[V]) {
	for _, s := range m.shards {
		s.mu.Lock()
	}
	for _, e := range entries {
		m.shards[m.shardIndex(e.Key)].items[e.Key] = e.Value
	}
	for i := len(m.shards) - 1; i >= 0; i-- {
		m.shards[i].mu.Unlock()
	}
}

// Delete removes a key.
func (m *Map[V]) Delete(key string) {
	s := m.getShard(key)
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, key)
}

// Count returns the total number of items.
func (m *Map[V]) Count() int {
	count := 0
	for _, s := range m.shards {
		s.mu.RLock()
		count += len(s.items)
		s.mu.RUnlock()
	}
	return count
}

// Clear removes all items.
func (m *Map[V]) Clear() {
	for _, s := range m.shards {
		s.mu.Lock()
		s.items = make(map[string]V)
		s.mu.Unlock()
	}
}

// Snapshot copies every entry, sorted by key, while holding all shard read
// locks, so the result is a consistent point-in-time view.
func (m *Map[V]) Snapshot() []Entry[V] {
	for _, s := range m.shards {
		s.mu.RLock()
	}
	n := 0
	for _, s := range m.shards {
		n += len(s.items)
	}
	out := make([]Entry[V], 0, n)
	for _, s := range m.shards {
		for k, v := range s.items {
			out = append(out, Entry[V]{Key: k, Value: v})
		}
	}
	for i := len(m.shards) - 1; i >= 0; i-- {
		m.shards[i].mu.RUnlock()
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}
