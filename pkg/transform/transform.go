// Package transform applies a parsed expression to a stream of lines.
package transform

import (
	"bufio"
	"bytes"
	"errors"
	"io"

	"github.com/rcarmo/go-zed/pkg/core/textutil"
	"github.com/rcarmo/go-zed/pkg/expr"
)

// readSize is the bufio read buffer; one block from blockio per fill.
const readSize = 4096

// Stats counts the work done by Run.
type Stats struct {
	LinesIn  int64
	LinesOut int64
	BytesOut int64
}

// Add accumulates o into s.
func (s *Stats) Add(o Stats) {
	s.LinesIn += o.LinesIn
	s.LinesOut += o.LinesOut
	s.BytesOut += o.BytesOut
}

// Transformer holds the only state kept across lines: the parsed form.
type Transformer struct {
	expr        *expr.Expression
	pattern     []byte
	replacement []byte
}

// New returns a Transformer for e.
func New(e *expr.Expression) (*Transformer, error) {
	if e == nil {
		return nil, &expr.Error{Err: expr.ErrUnrecognized}
	}
	if err := e.Validate(); err != nil {
		return nil, err
	}
	return &Transformer{
		expr:        e,
		pattern:     []byte(e.Pattern),
		replacement: []byte(e.Replacement),
	}, nil
}

// Expression returns the expression the transformer applies.
func (t *Transformer) Expression() *expr.Expression { return t.expr }

// Line transforms a single line, given without its terminator. The boolean
// is false when the line produces no output.
func (t *Transformer) Line(line []byte) ([]byte, bool) {
	switch t.expr.Kind {
	case expr.Cat:
		return line, true
	case expr.Substitute:
		if !bytes.Contains(line, t.pattern) {
			return line, true
		}
		n := 1
		if t.expr.Global {
			n = -1
		}
		return bytes.Replace(line, t.pattern, t.replacement, n), true
	case expr.DeleteMatching:
		return line, !bytes.Contains(line, t.pattern)
	case expr.PrintMatching:
		return line, bytes.Contains(line, t.pattern)
	case expr.PrintField:
		return textutil.Field(line, t.expr.Field)
	case expr.PrintFieldMatching:
		if !bytes.Contains(line, t.pattern) {
			return nil, false
		}
		return textutil.Field(line, t.expr.Field)
	}
	return nil, false
}

// Run reads r one line at a time and writes the transformed lines to w.
// Each emitted line keeps the terminator its input line had, so a final
// line without a newline is written without one.
func (t *Transformer) Run(r io.Reader, w io.Writer) (Stats, error) {
	var stats Stats
	lr := newLineReader(r)
	bw := bufio.NewWriter(w)
	for {
		line, newline, err := lr.next()
		if len(line) > 0 || newline {
			stats.LinesIn++
			if out, ok := t.Line(line); ok {
				if _, werr := bw.Write(out); werr != nil {
					return stats, werr
				}
				n := int64(len(out))
				if newline {
					if werr := bw.WriteByte('\n'); werr != nil {
						return stats, werr
					}
					n++
				}
				stats.LinesOut++
				stats.BytesOut += n
			}
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			// A failed sink outranks the read error: nothing more can be written.
			if werr := bw.Flush(); werr != nil {
				return stats, werr
			}
			return stats, err
		}
	}
	return stats, bw.Flush()
}

// Bytes transforms an in-memory input and returns the output buffer.
func (t *Transformer) Bytes(input []byte) []byte {
	var out bytes.Buffer
	// Neither side can fail for in-memory buffers.
	_, _ = t.Run(bytes.NewReader(input), &out)
	return out.Bytes()
}

// lineReader yields lines of any length. Returned slices are only valid
// until the next call.
type lineReader struct {
	br      *bufio.Reader
	scratch []byte
}

func newLineReader(r io.Reader) *lineReader {
	return &lineReader{br: bufio.NewReaderSize(r, readSize)}
}

func (lr *lineReader) next() ([]byte, bool, error) {
	lr.scratch = lr.scratch[:0]
	for {
		chunk, err := lr.br.ReadSlice('\n')
		if errors.Is(err, bufio.ErrBufferFull) {
			lr.scratch = append(lr.scratch, chunk...)
			continue
		}
		if len(lr.scratch) > 0 {
			lr.scratch = append(lr.scratch, chunk...)
			chunk = lr.scratch
		}
		if err != nil {
			return chunk, false, err
		}
		return chunk[:len(chunk)-1], true, nil
	}
}
