package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
)

// StateRootSize is the width in bytes of a StateRoot.
const StateRootSize = sha256.Size

// StateRoot identifies the root of one shard's state trie at genesis.
//
// Within a roots list the index is the shard id, so order is significant.
type StateRoot [StateRootSize]byte

// String returns the root as lowercase hex.
func (r StateRoot) String() string {
	return hex.EncodeToString(r[:])
}

// IsZero reports whether every byte of the root is zero.
func (r StateRoot) IsZero() bool {
	return r == StateRoot{}
}

// MarshalText implements encoding.TextMarshaler.
func (r StateRoot) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *StateRoot) UnmarshalText(text []byte) error {
	parsed, err := ParseStateRoot(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// ParseStateRoot parses a hex-encoded root. An optional 0x prefix is accepted.
func ParseStateRoot(s string) (StateRoot, error) {
	var r StateRoot
	s = strings.TrimPrefix(strings.TrimSpace(s), "0x")
	if len(s) != hex.EncodedLen(StateRootSize) {
		return r, ErrInvalidRoot.WithDetails("want 64 hex characters, got " + strconv.Itoa(len(s)))
	}
	if _, err := hex.Decode(r[:], []byte(s)); err != nil {
		return r, ErrInvalidRoot.WithCause(err)
	}
	return r, nil
}

// ParseStateRoots parses each element with ParseStateRoot, keeping order.
func ParseStateRoots(values []string) ([]StateRoot, error) {
	roots := make([]StateRoot, 0, len(values))
	for i, v := range values {
		r, err := ParseStateRoot(v)
		if err != nil {
			return nil, fmt.Errorf("shard %d: %w", i, err)
		}
		roots = append(roots, r)
	}
	return roots, nil
}

// HashStateRoot returns the SHA-256 of data as a StateRoot. Used by tools and
// tests that need deterministic roots; it does not compute a trie root.
func HashStateRoot(data []byte) StateRoot {
	return StateRoot(sha256.Sum256(data))
}
