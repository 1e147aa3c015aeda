package snapshot

import (
	"bufio"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/yndnr/statedump/internal/core/domain"
	"github.com/yndnr/statedump/internal/storage"
)

// lenSize is the width of each length field in a column record.
const lenSize = 4

// Stats describes one column dump file.
type Stats struct {
	Records int   `json:"records"`
	Bytes   int64 `json:"bytes"`
}

// ExportColumn writes every pair of col to path in the store's iteration
// order, creating or replacing path.
//
// Store failures are reported as domain.ErrStoreAccess, filesystem failures
// as domain.ErrFilesystem. On failure path is not touched.
func ExportColumn(ctx context.Context, store storage.Store, col storage.Column, path string, opts ...Option) (Stats, error) {
	o := newOptions(opts)

	var wrap func(io.Writer) io.Writer
	if o.limiter != nil {
		wrap = func(w io.Writer) io.Writer {
			return &limitedWriter{ctx: ctx, w: w, limiter: o.limiter}
		}
	}

	var stats Stats
	err := writeFileAtomic(path, o.bufferSize, wrap, func(w *bufio.Writer) error {
		err := store.Iterate(ctx, col, func(key, value []byte) error {
			n, err := writeRecord(w, key, value)
			if err != nil {
				return domain.ErrFilesystem.Wrapf(err, "write %s record %d", path, stats.Records)
			}
			stats.Records++
			stats.Bytes += n
			return nil
		})
		if err != nil && !domain.IsDomainError(err, "") {
			return domain.ErrStoreAccess.Wrapf(err, "iterate column %s", col)
		}
		return err
	})
	if err != nil {
		return Stats{}, err
	}
	return stats, nil
}

// ImportColumn reads every record of path and writes them into col with a
// single WriteBatch. Existing keys are overwritten; keys absent from the
// file are left alone.
//
// The whole file is parsed before anything is written, so a missing file
// (domain.ErrFilesystem) or a truncated/malformed record
// (domain.ErrMalformed) leaves the store unchanged.
//
// That guarantee costs memory: every decoded record is held until the
// batch is written, so peak usage is at least the size of the dump. The
// engines add their own copy on top (the LevelDB batch buffer, cloned
// values in the memory store). Size the host for about twice the dump.
func ImportColumn(ctx context.Context, store storage.Store, col storage.Column, path string) (Stats, error) {
	var pairs []storage.KV
	stats, err := ScanColumnFile(path, func(key, value []byte) error {
		pairs = append(pairs, storage.KV{Key: key, Value: value})
		return nil
	})
	if err != nil {
		return Stats{}, err
	}

	if err := store.WriteBatch(ctx, col, pairs); err != nil {
		return Stats{}, domain.ErrStoreAccess.Wrapf(err, "write column %s", col)
	}
	return stats, nil
}

// ScanColumnFile decodes path record by record and calls fn for each pair.
// fn owns the key and value slices. A non-nil error from fn stops the scan
// and is returned unchanged.
func ScanColumnFile(path string, fn func(key, value []byte) error) (Stats, error) {
	f, err := os.Open(path)
	if err != nil {
		return Stats{}, domain.ErrFilesystem.Wrapf(err, "open %s", path)
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return Stats{}, domain.ErrFilesystem.Wrapf(err, "stat %s", path)
	}
	size := st.Size()

	r := bufio.NewReaderSize(f, defaultBufferSize)
	var (
		offset int64
		stats  Stats
	)
	for {
		key, err := readField(r, path, &offset, size, true)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return Stats{}, err
		}
		value, err := readField(r, path, &offset, size, false)
		if err != nil {
			return Stats{}, err
		}
		if err := fn(key, value); err != nil {
			return Stats{}, err
		}
		stats.Records++
	}
	stats.Bytes = offset
	return stats, nil
}

// writeRecord appends one record and returns the bytes written.
func writeRecord(w io.Writer, key, value []byte) (int64, error) {
	if uint64(len(key)) > math.MaxUint32 || uint64(len(value)) > math.MaxUint32 {
		return 0, fmt.Errorf("record field exceeds %d bytes", uint32(math.MaxUint32))
	}

	var hdr [lenSize]byte
	var n int64
	for _, field := range [][]byte{key, value} {
		binary.LittleEndian.PutUint32(hdr[:], uint32(len(field)))
		if _, err := w.Write(hdr[:]); err != nil {
			return n, err
		}
		if _, err := w.Write(field); err != nil {
			return n, err
		}
		n += int64(lenSize + len(field))
	}
	return n, nil
}

// readField reads one length-prefixed field. When atBoundary is set, a clean
// EOF before the length prefix returns io.EOF; any other short read is
// malformed.
func readField(r *bufio.Reader, path string, offset *int64, size int64, atBoundary bool) ([]byte, error) {
	var hdr [lenSize]byte
	n, err := io.ReadFull(r, hdr[:])
	if err != nil {
		if errors.Is(err, io.EOF) && n == 0 && atBoundary {
			return nil, io.EOF
		}
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, malformed(path, *offset, "truncated length prefix")
		}
		return nil, domain.ErrFilesystem.Wrapf(err, "read %s", path)
	}
	*offset += lenSize

	length := int64(binary.LittleEndian.Uint32(hdr[:]))
	if remaining := size - *offset; length > remaining {
		return nil, malformed(path, *offset, "declared length %d exceeds remaining %d bytes", length, remaining)
	}

	field := make([]byte, length)
	if _, err := io.ReadFull(r, field); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, malformed(path, *offset, "truncated field")
		}
		return nil, domain.ErrFilesystem.Wrapf(err, "read %s", path)
	}
	*offset += length
	return field, nil
}
