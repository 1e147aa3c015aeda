package snapshot

import (
	"bufio"
	"encoding/binary"
	"fmt"

	"github.com/yndnr/statedump/internal/core/domain"
)

const rootCountSize = 4

// EncodeRoots serializes roots as a little-endian count followed by each
// root's bytes. Identical input always yields identical output.
func EncodeRoots(roots []domain.StateRoot) []byte {
	out := make([]byte, rootCountSize, rootCountSize+len(roots)*domain.StateRootSize)
	binary.LittleEndian.PutUint32(out, uint32(len(roots)))
	for _, r := range roots {
		out = append(out, r[:]...)
	}
	return out
}

// DecodeRoots is the inverse of EncodeRoots. It fails with
// domain.ErrMalformed when the count prefix is missing, the payload is not
// a whole number of roots, or the count disagrees with the payload.
func DecodeRoots(data []byte) ([]domain.StateRoot, error) {
	if len(data) < rootCountSize {
		return nil, domain.ErrMalformed.WithDetails(
			fmt.Sprintf("roots: %d bytes, need at least %d for the count", len(data), rootCountSize))
	}

	count := uint64(binary.LittleEndian.Uint32(data))
	payload := data[rootCountSize:]
	if len(payload)%domain.StateRootSize != 0 {
		return nil, domain.ErrMalformed.WithDetails(
			fmt.Sprintf("roots: payload of %d bytes is not a multiple of %d", len(payload), domain.StateRootSize))
	}
	if have := uint64(len(payload) / domain.StateRootSize); have != count {
		return nil, domain.ErrMalformed.WithDetails(
			fmt.Sprintf("roots: count says %d, payload holds %d", count, have))
	}

	roots := make([]domain.StateRoot, count)
	for i := range roots {
		copy(roots[i][:], payload[i*domain.StateRootSize:])
	}
	return roots, nil
}

// SaveRoots writes EncodeRoots(roots) to path atomically.
func SaveRoots(path string, roots []domain.StateRoot) error {
	data := EncodeRoots(roots)
	return writeFileAtomic(path, len(data), nil, func(w *bufio.Writer) error {
		_, err := w.Write(data)
		return err
	})
}

// LoadRoots reads and decodes a roots file.
func LoadRoots(path string) ([]domain.StateRoot, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}
	roots, err := DecodeRoots(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return roots, nil
}
