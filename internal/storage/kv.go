package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Common errors
var (
	ErrKeyNotFound   = errors.New("key not found")
	ErrClosed        = errors.New("store closed")
	ErrUnknownColumn = errors.New("unknown column")
)

// Column identifies one logical keyspace inside a Store.
//
// Ids are stable: they are persisted as key prefixes by the on-disk
// engines, so existing values must never be renumbered.
type Column uint8

const (
	ColDBVersion    Column = 0
	ColBlockMisc    Column = 1
	ColBlock        Column = 2
	ColChunks       Column = 3
	ColState        Column = 4
	ColStateChanges Column = 5

	numColumns = 6
)

var columnNames = [numColumns]string{
	ColDBVersion:    "db_version",
	ColBlockMisc:    "block_misc",
	ColBlock:        "block",
	ColChunks:       "chunks",
	ColState:        "state",
	ColStateChanges: "state_changes",
}

// Columns returns every known column in id order.
func Columns() []Column {
	cols := make([]Column, numColumns)
	for i := range cols {
		cols[i] = Column(i)
	}
	return cols
}

// Valid reports whether c is a known column.
func (c Column) Valid() bool {
	return c < numColumns
}

func (c Column) String() string {
	if !c.Valid() {
		return fmt.Sprintf("column(%d)", uint8(c))
	}
	return columnNames[c]
}

// ParseColumn resolves a column by name.
func ParseColumn(name string) (Column, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range columnNames {
		if n == name {
			return Column(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownColumn, name)
}

// KV is a single key-value pair.
type KV struct {
	Key   []byte
	Value []byte
}

// Store defines the column-oriented key-value store used by the dump codec.
//
// Implementations must be safe for concurrent use, but the dump codec
// itself never issues concurrent calls against one store.
type Store interface {
	// Get retrieves a value. Returns ErrKeyNotFound if the key is absent.
	Get(ctx context.Context, col Column, key []byte) ([]byte, error)

	// Set stores a single key-value pair.
	Set(ctx context.Context, col Column, key, value []byte) error

	// Delete removes a key. Deleting an absent key is not an error.
	Delete(ctx context.Context, col Column, key []byte) error

	// Iterate visits every pair of the column in the engine's native order.
	// The key and value slices are only valid for the duration of the call.
	// A non-nil error from fn stops iteration and is returned unchanged.
	Iterate(ctx context.Context, col Column, fn func(key, value []byte) error) error

	// WriteBatch stores all pairs. Pairs with an existing key overwrite it,
	// and a key repeated inside the batch keeps its last value. Keys not in
	// the batch are left untouched.
	WriteBatch(ctx context.Context, col Column, pairs []KV) error

	// Close releases the store. Further calls return ErrClosed.
	Close() error
}

// checkColumn is shared by the engines' argument validation.
func checkColumn(col Column) error {
	if !col.Valid() {
		return fmt.Errorf("%w: %d", ErrUnknownColumn, uint8(col))
	}
	return nil
}

// prefixedKey returns col's one-byte prefix followed by key.
func prefixedKey(col Column, key []byte) []byte {
	out := make([]byte, 1+len(key))
	out[0] = byte(col)
	copy(out[1:], key)
	return out
}
