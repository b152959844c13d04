// Package blockio reads and writes exact byte ranges of a file by
// decomposing them into 4096-byte aligned block operations.
//
// Two layers are provided. The block layer (ReadBlockAt, WriteBlockAt)
// issues a single aligned operation: reads cover whole blocks and are then
// trimmed to the requested range, writes are positioned on the block
// boundary at or below the requested offset. The range layer (ReadRangeAt,
// WriteRangeAt) splits arbitrary ranges into pieces of at most one block and
// performs read-modify-write on partially covered blocks, so callers see
// exact byte counts at exact offsets.
//
// Nothing here coordinates concurrent writers to the same file; callers
// that share a file across goroutines or processes must serialize writes.
package blockio

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
)

// BlockSize is the fixed unit of file I/O.
const BlockSize = 4096

var (
	// ErrRangeOverflow is returned when offset+length does not fit in an int64 file offset.
	ErrRangeOverflow = errors.New("byte range exceeds addressable file offsets")

	// ErrShortBuffer is returned when a write length exceeds the supplied buffer.
	ErrShortBuffer = errors.New("write length exceeds buffer size")
)

// IOError reports a failed open, read or write against a file.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Cause())
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Cause())
}

// Cause is the underlying error without the operation and path an
// *os.PathError repeats.
func (e *IOError) Cause() error {
	var pe *os.PathError
	if errors.As(e.Err, &pe) {
		return pe.Err
	}
	return e.Err
}

func (e *IOError) Unwrap() error { return e.Err }

// ReaderWriterAt is the handle needed for read-modify-write of boundary blocks.
type ReaderWriterAt interface {
	io.ReaderAt
	io.WriterAt
}

// Range is a byte range [Offset, Offset+Length) within a file.
type Range struct {
	Offset uint64
	Length uint64
}

// Validate checks that the range end is addressable with int64 offsets.
func (r Range) Validate() error {
	if r.Offset > math.MaxInt64 || r.Length > math.MaxInt64-r.Offset {
		return ErrRangeOverflow
	}
	return nil
}

// End returns the exclusive end offset. The range must be valid.
func (r Range) End() uint64 {
	return r.Offset + r.Length
}

// FirstBlock is the index of the block containing Offset.
func (r Range) FirstBlock() uint64 {
	return r.Offset / BlockSize
}

// BlockCount is the number of whole blocks covering the range.
// An empty range covers no blocks.
func (r Range) BlockCount() uint64 {
	if r.Length == 0 {
		return 0
	}
	return (r.Offset%BlockSize + r.Length + BlockSize - 1) / BlockSize
}

// Window returns the aligned range of whole blocks covering r.
func (r Range) Window() Range {
	return Range{
		Offset: r.FirstBlock() * BlockSize,
		Length: r.BlockCount() * BlockSize,
	}
}

// ReadBlockAt reads [offset, offset+length) with a single aligned read of
// whole blocks, then trims the head and truncates to length. At end of file
// fewer bytes are returned; an empty, non-nil slice means offset is at or
// past EOF.
func ReadBlockAt(r io.ReaderAt, offset, length uint64) ([]byte, error) {
	rng := Range{Offset: offset, Length: length}
	if err := rng.Validate(); err != nil {
		return nil, err
	}
	if length == 0 {
		return []byte{}, nil
	}
	window := rng.Window()
	if err := window.Validate(); err != nil {
		return nil, err
	}
	if window.Length > math.MaxInt {
		return nil, ErrRangeOverflow
	}
	buf := make([]byte, window.Length)
	n, err := r.ReadAt(buf, int64(window.Offset))
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	head := offset - window.Offset
	if uint64(n) <= head {
		return []byte{}, nil
	}
	data := buf[head:n]
	if uint64(len(data)) > length {
		data = data[:length]
	}
	return data, nil
}

// WriteBlockAt writes data starting at the block boundary at or below
// offset. It never truncates: bytes beyond the written span are kept.
// Sub-block placement is the caller's job (see WriteRangeAt).
func WriteBlockAt(w io.WriterAt, offset uint64, data []byte) error {
	start := (offset / BlockSize) * BlockSize
	if err := (Range{Offset: start, Length: uint64(len(data))}).Validate(); err != nil {
		return err
	}
	if len(data) == 0 {
		return nil
	}
	_, err := w.WriteAt(data, int64(start))
	return err
}
