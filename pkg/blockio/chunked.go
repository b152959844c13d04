package blockio

import "io"

// maxPrealloc bounds the capacity reserved up front by ReadRangeAt so that a
// huge requested length against a small file does not allocate the length.
const maxPrealloc = 1 << 20

// ReadRangeAt reads [offset, offset+length) as a sequence of reads that each
// stay within one block. It stops at the first short piece and returns what
// was read so far; a short result means EOF was reached.
func ReadRangeAt(r io.ReaderAt, offset, length uint64) ([]byte, error) {
	rng := Range{Offset: offset, Length: length}
	if err := rng.Validate(); err != nil {
		return nil, err
	}
	out := make([]byte, 0, min(length, maxPrealloc))
	pos, remaining := offset, length
	for remaining > 0 {
		n := min(BlockSize-pos%BlockSize, remaining)
		piece, err := ReadBlockAt(r, pos, n)
		if err != nil {
			return out, err
		}
		out = append(out, piece...)
		if uint64(len(piece)) < n {
			break
		}
		pos += n
		remaining -= n
	}
	return out, nil
}

// WriteRangeAt writes buf[:length] at exactly offset. A zero length means
// the whole of buf; an empty buf is a no-op. Blocks fully covered by the
// range are written directly; the partially covered first and last blocks
// are read, patched and written back so surrounding bytes survive.
// Writing past EOF leaves a zero-filled gap, as a sparse write would.
func WriteRangeAt(rw ReaderWriterAt, offset, length uint64, buf []byte) error {
	if length == 0 {
		length = uint64(len(buf))
	}
	if length > uint64(len(buf)) {
		return ErrShortBuffer
	}
	if length == 0 {
		return nil
	}
	if err := (Range{Offset: offset, Length: length}).Validate(); err != nil {
		return err
	}

	data := buf[:length]
	pos := offset
	for len(data) > 0 {
		head := pos % BlockSize
		n := min(BlockSize-head, uint64(len(data)))
		blockStart := pos - head

		if head == 0 && n == BlockSize {
			if err := WriteBlockAt(rw, blockStart, data[:n]); err != nil {
				return err
			}
		} else {
			existing, err := ReadBlockAt(rw, blockStart, BlockSize)
			if err != nil {
				return err
			}
			block := make([]byte, max(uint64(len(existing)), head+n))
			copy(block, existing)
			copy(block[head:], data[:n])
			if err := WriteBlockAt(rw, blockStart, block); err != nil {
				return err
			}
		}

		pos += n
		data = data[n:]
	}
	return nil
}
