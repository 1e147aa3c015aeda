package snapshot

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/yndnr/statedump/internal/core/domain"
)

func makeRoots(n int) []domain.StateRoot {
	roots := make([]domain.StateRoot, n)
	for i := range roots {
		roots[i] = domain.HashStateRoot([]byte(fmt.Sprintf("shard-%d", i)))
	}
	return roots
}

func TestRoots_RoundTrip(t *testing.T) {
	for _, n := range []int{0, 1, 3, 4, 100} {
		t.Run(fmt.Sprintf("n=%d", n), func(t *testing.T) {
			roots := makeRoots(n)
			data := EncodeRoots(roots)
			if len(data) != 4+n*domain.StateRootSize {
				t.Errorf("len(EncodeRoots) = %d, want %d", len(data), 4+n*domain.StateRootSize)
			}

			got, err := DecodeRoots(data)
			if err != nil {
				t.Fatalf("DecodeRoots: %v", err)
			}
			if len(got) != n {
				t.Fatalf("len = %d, want %d", len(got), n)
			}
			for i := range roots {
				if got[i] != roots[i] {
					t.Errorf("roots[%d] = %s, want %s", i, got[i], roots[i])
				}
			}
		})
	}
}

func TestEncodeRoots_Deterministic(t *testing.T) {
	roots := makeRoots(5)
	a := EncodeRoots(roots)
	b := EncodeRoots(append([]domain.StateRoot(nil), roots...))
	if !bytes.Equal(a, b) {
		t.Error("EncodeRoots should be deterministic")
	}
	if !bytes.Equal(a[:4], []byte{5, 0, 0, 0}) {
		t.Errorf("count prefix = %v, want little-endian 5", a[:4])
	}
	if !bytes.Equal(a[4:36], roots[0][:]) {
		t.Error("first root should follow the count prefix")
	}
}

func TestDecodeRoots_Malformed(t *testing.T) {
	valid := EncodeRoots(makeRoots(3))

	tests := []struct {
		name string
		data []byte
	}{
		{"nil", nil},
		{"short prefix", []byte{1, 0}},
		{"last byte truncated", valid[:len(valid)-1]},
		{"trailing byte", append(append([]byte{}, valid...), 0)},
		{"count larger than payload", append([]byte{4, 0, 0, 0}, valid[4:]...)},
		{"count smaller than payload", append([]byte{2, 0, 0, 0}, valid[4:]...)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			roots, err := DecodeRoots(tt.data)
			if !errors.Is(err, domain.ErrMalformed) {
				t.Errorf("DecodeRoots error = %v, want ErrMalformed", err)
			}
			if roots != nil {
				t.Errorf("DecodeRoots returned %d roots on failure", len(roots))
			}
		})
	}
}

func TestSaveLoadRoots(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "genesis_roots")
	roots := makeRoots(3)

	if err := SaveRoots(path, roots); err != nil {
		t.Fatalf("SaveRoots: %v", err)
	}
	got, err := LoadRoots(path)
	if err != nil {
		t.Fatalf("LoadRoots: %v", err)
	}
	if len(got) != 3 || got[0] != roots[0] || got[2] != roots[2] {
		t.Errorf("LoadRoots = %v, want %v", got, roots)
	}

	// Overwrite with fewer roots.
	if err := SaveRoots(path, roots[:1]); err != nil {
		t.Fatalf("SaveRoots overwrite: %v", err)
	}
	got, err = LoadRoots(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Errorf("len after overwrite = %d, want 1", len(got))
	}
	assertNoTempFiles(t, dir)
}

func TestLoadRoots_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadRoots(filepath.Join(dir, "genesis_roots"))
	if !errors.Is(err, domain.ErrFilesystem) {
		t.Errorf("missing file error = %v, want ErrFilesystem", err)
	}

	path := filepath.Join(dir, "truncated")
	data := EncodeRoots(makeRoots(2))
	if err := os.WriteFile(path, data[:len(data)-1], 0644); err != nil {
		t.Fatal(err)
	}
	_, err = LoadRoots(path)
	if !errors.Is(err, domain.ErrMalformed) {
		t.Errorf("truncated file error = %v, want ErrMalformed", err)
	}
}
