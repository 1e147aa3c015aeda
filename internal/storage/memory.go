package storage

import (
	"context"
	"sync/atomic"

	"github.com/yndnr/statedump/pkg/cmap"
)

// MemoryStore is an ephemeral Store backed by one sharded map per column.
//
// Iterate visits keys in ascending byte order, matching the persistent
// engines, so dumps taken from memory are deterministic.
type MemoryStore struct {
	columns [numColumns]*cmap.Map[[]byte]
	closed  atomic.Bool
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	s := &MemoryStore{}
	for i := range s.columns {
		s.columns[i] = cmap.New[[]byte]()
	}
	return s
}

func (s *MemoryStore) column(col Column) (*cmap.Map[[]byte], error) {
	if s.closed.Load() {
		return nil, ErrClosed
	}
	if err := checkColumn(col); err != nil {
		return nil, err
	}
	return s.columns[col], nil
}

// Get retrieves a copy of the value stored under key.
func (s *MemoryStore) Get(_ context.Context, col Column, key []byte) ([]byte, error) {
	m, err := s.column(col)
	if err != nil {
		return nil, err
	}
	v, ok := m.Get(string(key))
	if !ok {
		return nil, ErrKeyNotFound
	}
	return clone(v), nil
}

// Set stores a copy of value under key.
func (s *MemoryStore) Set(_ context.Context, col Column, key, value []byte) error {
	m, err := s.column(col)
	if err != nil {
		return err
	}
	m.Set(string(key), clone(value))
	return nil
}

// Delete removes key.
func (s *MemoryStore) Delete(_ context.Context, col Column, key []byte) error {
	m, err := s.column(col)
	if err != nil {
		return err
	}
	m.Delete(string(key))
	return nil
}

// Iterate visits a point-in-time copy of the column in key order.
func (s *MemoryStore) Iterate(_ context.Context, col Column, fn func(key, value []byte) error) error {
	m, err := s.column(col)
	if err != nil {
		return err
	}
	for _, e := range m.Snapshot() {
		if err := fn([]byte(e.Key), e.Value); err != nil {
			return err
		}
	}
	return nil
}

// WriteBatch applies all pairs atomically with respect to other callers.
func (s *MemoryStore) WriteBatch(_ context.Context, col Column, pairs []KV) error {
	m, err := s.column(col)
	if err != nil {
		return err
	}
	entries := make([]cmap.Entry[[]byte], len(pairs))
	for i, p := range pairs {
		entries[i] = cmap.Entry[[]byte]{Key: string(p.Key), Value: clone(p.Value)}
	}
	m.SetAll(entries)
	return nil
}

// Len returns the number of keys in col.
func (s *MemoryStore) Len(col Column) int {
	m, err := s.column(col)
	if err != nil {
		return 0
	}
	return m.Count()
}

// Close drops all data. Closing twice is a no-op.
func (s *MemoryStore) Close() error {
	if s.closed.Swap(true) {
		return nil
	}
	for _, m := range s.columns {
		m.Clear()
	}
	return nil
}

func clone(b []byte) []byte {
	if b == nil {
		return []byte{}
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
