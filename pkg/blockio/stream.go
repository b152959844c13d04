package blockio

import "io"

// Reader is a sequential io.Reader built on ReadRangeAt.
type Reader struct {
	r   io.ReaderAt
	off uint64
}

// NewReader returns a Reader that starts at offset.
func NewReader(r io.ReaderAt, offset uint64) *Reader {
	return &Reader{r: r, off: offset}
}

// Read fills p from the current offset. An empty range read is io.EOF.
func (r *Reader) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	data, err := ReadRangeAt(r.r, r.off, uint64(len(p)))
	n := copy(p, data)
	r.off += uint64(n)
	if err != nil {
		return n, err
	}
	if n == 0 {
		return 0, io.EOF
	}
	return n, nil
}

// Offset is the position of the next byte to be read.
func (r *Reader) Offset() uint64 { return r.off }

// Writer is a sequential io.Writer built on WriteRangeAt. It buffers until
// it can write up to a block boundary; Flush writes whatever is left.
type Writer struct {
	w   ReaderWriterAt
	off uint64
	buf []byte
}

// NewWriter returns a Writer that starts at offset.
func NewWriter(w ReaderWriterAt, offset uint64) *Writer {
	return &Writer{w: w, off: offset, buf: make([]byte, 0, 2*BlockSize)}
}

// Write buffers p and writes out every complete block.
func (w *Writer) Write(p []byte) (int, error) {
	w.buf = append(w.buf, p...)
	if uint64(len(w.buf)) < BlockSize {
		return len(p), nil
	}
	// Stop at the last block boundary inside the buffer.
	n := uint64(len(w.buf)) - (w.off+uint64(len(w.buf)))%BlockSize
	if err := w.emit(n); err != nil {
		return 0, err
	}
	return len(p), nil
}

// Flush writes any buffered bytes.
func (w *Writer) Flush() error {
	return w.emit(uint64(len(w.buf)))
}

// Offset is the position the next flushed byte will land on.
func (w *Writer) Offset() uint64 { return w.off + uint64(len(w.buf)) }

func (w *Writer) emit(n uint64) error {
	if n == 0 {
		return nil
	}
	if err := WriteRangeAt(w.w, w.off, n, w.buf[:n]); err != nil {
		return err
	}
	w.off += n
	w.buf = append(w.buf[:0], w.buf[n:]...)
	return nil
}
