package blockio

import (
	"bytes"
	"errors"
	"io"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pattern(n int) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = byte(i % 251)
	}
	return b
}

func tempFileWith(t *testing.T, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.bin")
	require.NoError(t, os.WriteFile(path, content, 0644))
	return path
}

func openRW(t *testing.T, path string) *os.File {
	t.Helper()
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })
	return f
}

func TestRange_Blocks(t *testing.T) {
	tests := []struct {
		name      string
		rng       Range
		wantFirst uint64
		wantCount uint64
	}{
		{"empty", Range{Offset: 10, Length: 0}, 0, 0},
		{"inside first block", Range{Offset: 10, Length: 5}, 0, 1},
		{"whole first block", Range{Offset: 0, Length: BlockSize}, 0, 1},
		{"crosses boundary", Range{Offset: 4090, Length: 10}, 0, 2},
		{"second block aligned", Range{Offset: BlockSize, Length: BlockSize}, 1, 1},
		{"three blocks", Range{Offset: 1, Length: 2 * BlockSize}, 0, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantFirst, tt.rng.FirstBlock())
			assert.Equal(t, tt.wantCount, tt.rng.BlockCount())
		})
	}
}

func TestRange_Window(t *testing.T) {
	w := Range{Offset: 4100, Length: 5000}.Window()
	assert.Equal(t, Range{Offset: BlockSize, Length: 2 * BlockSize}, w)
}

func TestRange_ValidateOverflow(t *testing.T) {
	assert.NoError(t, Range{Offset: math.MaxInt64, Length: 0}.Validate())
	assert.ErrorIs(t, Range{Offset: math.MaxInt64, Length: 1}.Validate(), ErrRangeOverflow)
	assert.ErrorIs(t, Range{Offset: math.MaxUint64, Length: 0}.Validate(), ErrRangeOverflow)
	assert.ErrorIs(t, Range{Offset: 1, Length: math.MaxUint64}.Validate(), ErrRangeOverflow)
}

func TestReadBlockAt_TrimsToRange(t *testing.T) {
	content := pattern(3 * BlockSize)
	r := bytes.NewReader(content)

	got, err := ReadBlockAt(r, 10, 5)
	require.NoError(t, err)
	assert.Equal(t, content[10:15], got)

	got, err = ReadBlockAt(r, 4090, 20)
	require.NoError(t, err)
	assert.Equal(t, content[4090:4110], got)

	got, err = ReadBlockAt(r, BlockSize, BlockSize)
	require.NoError(t, err)
	assert.Equal(t, content[BlockSize:2*BlockSize], got)
}

func TestReadBlockAt_ShortAtEOF(t *testing.T) {
	content := pattern(100)
	r := bytes.NewReader(content)

	got, err := ReadBlockAt(r, 90, 50)
	require.NoError(t, err)
	assert.Equal(t, content[90:], got)

	got, err = ReadBlockAt(r, 200, 10)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)

	got, err = ReadBlockAt(r, 5000, 10)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestReadBlockAt_ZeroLength(t *testing.T) {
	got, err := ReadBlockAt(bytes.NewReader(pattern(10)), 3, 0)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestReadBlockAt_Overflow(t *testing.T) {
	_, err := ReadBlockAt(bytes.NewReader(nil), math.MaxInt64, 2)
	assert.ErrorIs(t, err, ErrRangeOverflow)
}

func TestReadRange_SingleBlock(t *testing.T) {
	content := make([]byte, BlockSize)
	for i := range content {
		content[i] = byte(i)
	}
	path := tempFileWith(t, content)

	got, err := ReadRange(path, 10, 5)
	require.NoError(t, err)
	assert.Equal(t, []byte{10, 11, 12, 13, 14}, got)
}

func TestReadRangeAt_ManyBlocks(t *testing.T) {
	content := pattern(10000)
	r := bytes.NewReader(content)

	got, err := ReadRangeAt(r, 100, 9000)
	require.NoError(t, err)
	assert.Equal(t, content[100:9100], got)

	got, err = ReadRangeAt(r, 8000, 5000)
	require.NoError(t, err)
	assert.Equal(t, content[8000:], got, "read past EOF is short, not an error")
}

func TestReadRangeAt_HugeLengthSmallFile(t *testing.T) {
	content := pattern(50)
	got, err := ReadRangeAt(bytes.NewReader(content), 0, math.MaxInt64)
	require.NoError(t, err)
	assert.Equal(t, content, got)
}

func TestWriteBlockAt_AlignsDown(t *testing.T) {
	path := tempFileWith(t, bytes.Repeat([]byte("a"), 2*BlockSize))
	f := openRW(t, path)

	require.NoError(t, WriteBlockAt(f, 4100, []byte("XYZ")))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Len(t, got, 2*BlockSize)
	assert.Equal(t, []byte("XYZ"), got[BlockSize:BlockSize+3])
	assert.Equal(t, bytes.Repeat([]byte("a"), BlockSize), got[:BlockSize])
	assert.Equal(t, bytes.Repeat([]byte("a"), BlockSize-3), got[BlockSize+3:])
}

func TestWriteRangeAt_ExactOffset(t *testing.T) {
	path := tempFileWith(t, bytes.Repeat([]byte("a"), 2*BlockSize))
	f := openRW(t, path)

	payload := bytes.Repeat([]byte("B"), 12)
	require.NoError(t, WriteRangeAt(f, 4090, 0, payload))

	want := bytes.Repeat([]byte("a"), 2*BlockSize)
	copy(want[4090:], payload)
	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestWriteRangeAt_SpansWholeBlocks(t *testing.T) {
	path := tempFileWith(t, bytes.Repeat([]byte("a"), 4*BlockSize))
	f := openRW(t, path)

	payload := pattern(2*BlockSize + 100)
	require.NoError(t, WriteRangeAt(f, 50, 0, payload))

	want := bytes.Repeat([]byte("a"), 4*BlockSize)
	copy(want[50:], payload)
	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestWriteRangeAt_Length(t *testing.T) {
	path := tempFileWith(t, []byte("0123456789"))
	f := openRW(t, path)

	require.NoError(t, WriteRangeAt(f, 2, 3, []byte("abcdef")))
	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "01abc56789", string(got))

	assert.ErrorIs(t, WriteRangeAt(f, 0, 7, []byte("abc")), ErrShortBuffer)
	assert.NoError(t, WriteRangeAt(f, 0, 0, nil))
}

func TestWriteRangeAt_PastEOF(t *testing.T) {
	path := tempFileWith(t, nil)
	f := openRW(t, path)

	require.NoError(t, WriteRangeAt(f, 5, 0, []byte("hi")))
	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte("\x00\x00\x00\x00\x00hi"), got)
}

func TestWriteRange_EmptyBufferDoesNotCreate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "none")
	require.NoError(t, WriteRange(path, 0, 0, nil))
	_, err := os.Stat(path)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestWriteRange_ThenReadRange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "new.bin")
	payload := pattern(5000)

	require.NoError(t, WriteRange(path, 123, 0, payload))
	got, err := ReadRange(path, 123, uint64(len(payload)))
	require.NoError(t, err)
	assert.Equal(t, payload, got)
}

func TestWriteBlock_KeepsTrailingContent(t *testing.T) {
	path := tempFileWith(t, bytes.Repeat([]byte("z"), BlockSize+10))
	require.NoError(t, WriteBlock(path, BlockSize, []byte("new")))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Len(t, got, BlockSize+10)
	assert.Equal(t, "newzzzzzzz", string(got[BlockSize:]))
}

func TestReadBlock_MissingFile(t *testing.T) {
	_, err := ReadBlock(filepath.Join(t.TempDir(), "missing"), 0, 10)
	require.Error(t, err)

	var ioe *IOError
	require.True(t, errors.As(err, &ioe))
	assert.Equal(t, "open", ioe.Op)
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestIOError_NamesPathOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing")
	_, err := ReadRange(path, 0, 10)
	require.Error(t, err)
	assert.Equal(t, "open "+path+": no such file or directory", err.Error())

	var ioe *IOError
	require.True(t, errors.As(err, &ioe))
	var pe *fs.PathError
	assert.False(t, errors.As(ioe.Cause(), &pe))
	assert.ErrorIs(t, ioe.Cause(), fs.ErrNotExist)

	boom := errors.New("boom")
	plain := &IOError{Op: "read", Path: "-", Err: boom}
	assert.Equal(t, boom, plain.Cause())
	assert.Equal(t, "read -: boom", plain.Error())
}

func TestFile_WriteReadOnly(t *testing.T) {
	path := tempFileWith(t, []byte("data"))
	f, err := Open(path)
	require.NoError(t, err)
	defer f.Close()

	err = f.WriteRange(0, 0, []byte("x"))
	var ioe *IOError
	require.True(t, errors.As(err, &ioe))
	assert.Equal(t, path, ioe.Path)
}

func TestFile_OverflowIsNotWrapped(t *testing.T) {
	path := tempFileWith(t, []byte("data"))
	f, err := Open(path)
	require.NoError(t, err)
	defer f.Close()

	_, err = f.ReadRange(math.MaxInt64, 10)
	assert.Equal(t, ErrRangeOverflow, err)
}

func TestReaderWriter_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stream.bin")
	f, err := OpenWrite(path)
	require.NoError(t, err)

	payload := pattern(10000)
	w := f.NewWriter(3)
	for chunk := payload; len(chunk) > 0; {
		n := min(7, len(chunk))
		written, err := w.Write(chunk[:n])
		require.NoError(t, err)
		require.Equal(t, n, written)
		chunk = chunk[n:]
	}
	require.NoError(t, w.Flush())
	assert.Equal(t, uint64(3+len(payload)), w.Offset())
	require.NoError(t, f.Close())

	f, err = Open(path)
	require.NoError(t, err)
	defer f.Close()
	r := f.NewReader(3)
	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, payload, got)
	assert.Equal(t, uint64(3+len(payload)), r.Offset())
}

func TestReader_EmptyFile(t *testing.T) {
	r := NewReader(bytes.NewReader(nil), 0)
	n, err := r.Read(make([]byte, 16))
	assert.Zero(t, n)
	assert.Equal(t, io.EOF, err)
}

func FuzzReadRangeAt(f *testing.F) {
	content := pattern(3*BlockSize + 17)
	f.Add(uint64(0), uint64(10))
	f.Add(uint64(4095), uint64(2))
	f.Add(uint64(12000), uint64(5000))
	f.Fuzz(func(t *testing.T, offset, length uint64) {
		offset %= uint64(len(content)) + BlockSize
		length %= 4 * BlockSize
		got, err := ReadRangeAt(bytes.NewReader(content), offset, length)
		require.NoError(t, err)

		var want []byte
		if offset < uint64(len(content)) {
			want = content[offset:min(offset+length, uint64(len(content)))]
		}
		assert.Equal(t, len(want), len(got))
		assert.True(t, bytes.Equal(want, got))
	})
}
