package blockio

import (
	"os"

	"github.com/rcarmo/go-zed/pkg/core/fs"
)

// File is an open file handle addressed through the block and range layers.
// Errors other than ErrRangeOverflow and ErrShortBuffer are returned as *IOError.
type File struct {
	f    *os.File
	path string
}

// Open opens path for block reads.
func Open(path string) (*File, error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, &IOError{Op: "open", Path: path, Err: err}
	}
	return &File{f: f, path: path}, nil
}

// OpenWrite opens path for in-place reads and writes, creating it if needed.
// Existing content is never truncated.
func OpenWrite(path string) (*File, error) {
	f, err := fs.OpenReadWrite(path)
	if err != nil {
		return nil, &IOError{Op: "open", Path: path, Err: err}
	}
	return &File{f: f, path: path}, nil
}

// Create opens path for writing, truncating any existing content.
func Create(path string) (*File, error) {
	f, err := fs.Create(path)
	if err != nil {
		return nil, &IOError{Op: "create", Path: path, Err: err}
	}
	return &File{f: f, path: path}, nil
}

// Name returns the path the file was opened with.
func (f *File) Name() string { return f.path }

// Close closes the underlying handle.
func (f *File) Close() error {
	if err := f.f.Close(); err != nil {
		return &IOError{Op: "close", Path: f.path, Err: err}
	}
	return nil
}

// ReadBlock is ReadBlockAt on this file.
func (f *File) ReadBlock(offset, length uint64) ([]byte, error) {
	data, err := ReadBlockAt(f.f, offset, length)
	return data, f.wrap("read", err)
}

// WriteBlock is WriteBlockAt on this file.
func (f *File) WriteBlock(offset uint64, data []byte) error {
	return f.wrap("write", WriteBlockAt(f.f, offset, data))
}

// ReadRange is ReadRangeAt on this file.
func (f *File) ReadRange(offset, length uint64) ([]byte, error) {
	data, err := ReadRangeAt(f.f, offset, length)
	return data, f.wrap("read", err)
}

// WriteRange is WriteRangeAt on this file.
func (f *File) WriteRange(offset, length uint64, buf []byte) error {
	return f.wrap("write", WriteRangeAt(f.f, offset, length, buf))
}

// NewReader returns a sequential reader over the file starting at offset.
func (f *File) NewReader(offset uint64) *Reader {
	return NewReader(f.f, offset)
}

// NewWriter returns a sequential writer into the file starting at offset.
func (f *File) NewWriter(offset uint64) *Writer {
	return NewWriter(f.f, offset)
}

func (f *File) wrap(op string, err error) error {
	switch err {
	case nil, ErrRangeOverflow, ErrShortBuffer:
		return err
	}
	return &IOError{Op: op, Path: f.path, Err: err}
}

// ReadBlock reads [offset, offset+length) from the file at path using a
// single aligned block read.
func ReadBlock(path string, offset, length uint64) ([]byte, error) {
	f, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return f.ReadBlock(offset, length)
}

// WriteBlock writes data at the block boundary at or below offset in the
// file at path, creating the file if needed and keeping trailing content.
func WriteBlock(path string, offset uint64, data []byte) error {
	f, err := OpenWrite(path)
	if err != nil {
		return err
	}
	if err := f.WriteBlock(offset, data); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ReadRange reads exactly [offset, offset+length) from the file at path,
// or less at EOF.
func ReadRange(path string, offset, length uint64) ([]byte, error) {
	f, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return f.ReadRange(offset, length)
}

// WriteRange writes buf[:length] at exactly offset in the file at path.
// A zero length writes all of buf; an empty buf does not touch the file.
func WriteRange(path string, offset, length uint64, buf []byte) error {
	if len(buf) == 0 {
		return nil
	}
	f, err := OpenWrite(path)
	if err != nil {
		return err
	}
	if err := f.WriteRange(offset, length, buf); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
