package snapshot

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/yndnr/statedump/internal/core/domain"
)

// fileMode is the permission of every exported file. os.CreateTemp opens
// with 0600, so the temp file is widened before it is renamed into place.
const fileMode os.FileMode = 0o644

// writeFileAtomic streams fn's output into a temp file next to path, then
// fsyncs and renames it over path. On any failure the temp file is removed
// and path is left as it was.
//
// Errors returned by fn that are already domain errors pass through; every
// other failure is reported as domain.ErrFilesystem.
func writeFileAtomic(path string, bufSize int, wrap func(io.Writer) io.Writer, fn func(w *bufio.Writer) error) (err error) {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return domain.ErrFilesystem.Wrapf(err, "create temp file in %s", dir)
	}
	tmpPath := tmp.Name()
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmpPath)
		}
	}()

	var w io.Writer = tmp
	if wrap != nil {
		w = wrap(w)
	}
	bw := bufio.NewWriterSize(w, bufSize)

	if err := fn(bw); err != nil {
		if domain.IsDomainError(err, "") {
			return err
		}
		return domain.ErrFilesystem.Wrapf(err, "write %s", path)
	}
	if err := bw.Flush(); err != nil {
		return domain.ErrFilesystem.Wrapf(err, "flush %s", path)
	}
	if err := tmp.Chmod(fileMode); err != nil {
		return domain.ErrFilesystem.Wrapf(err, "chmod %s", path)
	}
	if err := tmp.Sync(); err != nil {
		return domain.ErrFilesystem.Wrapf(err, "sync %s", path)
	}
	if err := tmp.Close(); err != nil {
		return domain.ErrFilesystem.Wrapf(err, "close %s", path)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return domain.ErrFilesystem.Wrapf(err, "rename into %s", path)
	}
	return nil
}

// readFile reads a whole file, reporting failures as domain.ErrFilesystem.
func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, domain.ErrFilesystem.Wrapf(err, "read %s", path)
	}
	return data, nil
}

func malformed(path string, offset int64, format string, args ...any) error {
	return domain.ErrMalformed.WithDetails(fmt.Sprintf("%s at offset %d: %s", path, offset, fmt.Sprintf(format, args...)))
}
