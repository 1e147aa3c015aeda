package statedump

import (
	"path/filepath"

	"github.com/yndnr/statedump/internal/core/domain"
	"github.com/yndnr/statedump/internal/storage/snapshot"
)

// Summary describes a snapshot directory without loading it into a store.
type Summary struct {
	Dir     string             `json:"dir" yaml:"dir"`
	Records int                `json:"records" yaml:"records"`
	Bytes   int64              `json:"bytes" yaml:"bytes"`
	Roots   []domain.StateRoot `json:"roots" yaml:"roots"`
}

// Inspect decodes both files of dir and reports their contents. Every
// record of state_dump is read, so a malformed dump fails here the same way
// Restore would.
func Inspect(dir string) (*Summary, error) {
	stats, err := snapshot.ScanColumnFile(filepath.Join(dir, StateDumpFile), func(_, _ []byte) error {
		return nil
	})
	if err != nil {
		return nil, err
	}

	roots, err := snapshot.LoadRoots(filepath.Join(dir, GenesisRootsFile))
	if err != nil {
		return nil, err
	}

	return &Summary{
		Dir:     dir,
		Records: stats.Records,
		Bytes:   stats.Bytes,
		Roots:   roots,
	}, nil
}
