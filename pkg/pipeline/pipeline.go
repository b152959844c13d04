// Package pipeline feeds an ordered list of input sources through a
// transformer and routes the output to a single sink.
//
// Sources are drained strictly in order, one line at a time; nothing is
// read ahead and no two sources are open at once. Named files are read
// through blockio; standard input is streamed directly. A named sink is
// truncated and then written through blockio's sequential writer.
package pipeline

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/rcarmo/go-zed/pkg/blockio"
	"github.com/rcarmo/go-zed/pkg/core"
	"github.com/rcarmo/go-zed/pkg/core/fs"
	"github.com/rcarmo/go-zed/pkg/expr"
	"github.com/rcarmo/go-zed/pkg/transform"
)

// StdinMarker names standard input as a source and standard output as a sink.
const StdinMarker = "-"

var (
	// ErrMissingInput means no source could be resolved: none were named and
	// stdin is a terminal, or every named source failed to open.
	ErrMissingInput = errors.New("missing input")

	// ErrSinkIsSource means the sink file is also one of the sources and
	// would be truncated before it is read.
	ErrSinkIsSource = errors.New("output file is also an input")
)

// Result describes a completed run.
type Result struct {
	transform.Stats

	// Sources is the number of sources that were read to the end.
	Sources int

	// Failed lists sources that could not be opened or read. They are
	// reported on stderr and skipped.
	Failed []string
}

// Driver runs one transformation over a list of sources.
type Driver struct {
	Stdio  *core.Stdio
	Logger *slog.Logger

	// Applet prefixes per-source diagnostics; defaults to "zed".
	Applet string
}

// Run parses nothing itself: e is validated before any file is touched, so
// an invalid expression produces no output and leaves a named sink alone.
// An empty sources list reads stdin when it is piped. A sink of "" or "-"
// is stdout.
func (d *Driver) Run(e *expr.Expression, sources []string, sink string) (Result, error) {
	var res Result
	log := d.logger()

	t, err := transform.New(e)
	if err != nil {
		return res, err
	}
	log.Debug("expression parsed", "form", e.Kind, "expr", e.String())

	if len(sources) == 0 {
		if !d.Stdio.StdinIsPiped() {
			return res, ErrMissingInput
		}
		log.Debug("no sources named, reading piped stdin")
		sources = []string{StdinMarker}
	}

	// A sole named source that cannot be opened fails the run before the
	// sink is created.
	var first *blockio.File
	if len(sources) == 1 && sources[0] != StdinMarker {
		first, err = blockio.Open(sources[0])
		if err != nil {
			return res, fmt.Errorf("%w: %w", ErrMissingInput, err)
		}
		defer first.Close()
	}

	out, closeSink, err := d.openSink(sink, sources)
	if err != nil {
		return res, err
	}

	for i, src := range sources {
		var (
			stats transform.Stats
			rerr  error
		)
		switch {
		case src == StdinMarker:
			log.Debug("reading source", "source", "stdin")
			stats, rerr = t.Run(&sourceReader{r: d.Stdio.In, name: src}, out)
		case i == 0 && first != nil:
			log.Debug("reading source", "source", src)
			stats, rerr = t.Run(&sourceReader{r: first.NewReader(0), name: src}, out)
		default:
			f, oerr := blockio.Open(src)
			if oerr != nil {
				d.report(src, oerr)
				res.Failed = append(res.Failed, src)
				log.Debug("source skipped", "source", src, "err", oerr)
				continue
			}
			log.Debug("reading source", "source", src)
			stats, rerr = t.Run(&sourceReader{r: f.NewReader(0), name: src}, out)
			f.Close()
		}
		res.Stats.Add(stats)

		if rerr != nil {
			var ioe *blockio.IOError
			if errors.As(rerr, &ioe) && ioe.Op == "read" {
				d.report(src, ioe)
				res.Failed = append(res.Failed, src)
				log.Debug("source aborted", "source", src, "err", ioe.Cause())
				continue
			}
			closeSink()
			return res, rerr
		}
		res.Sources++
		log.Debug("source done", "source", src, "lines_in", stats.LinesIn, "lines_out", stats.LinesOut, "bytes_out", stats.BytesOut)
	}

	if err := closeSink(); err != nil {
		return res, err
	}
	if res.Sources == 0 && len(res.Failed) > 0 {
		return res, ErrMissingInput
	}
	return res, nil
}

func (d *Driver) openSink(sink string, sources []string) (io.Writer, func() error, error) {
	log := d.logger()
	if sink == "" || sink == StdinMarker {
		log.Debug("writing to stdout")
		return d.Stdio.Out, func() error { return nil }, nil
	}
	if err := checkSinkNotSource(sink, sources); err != nil {
		return nil, nil, err
	}
	f, err := blockio.Create(sink)
	if err != nil {
		return nil, nil, err
	}
	log.Debug("writing to file", "sink", sink)
	bw := f.NewWriter(0)
	w := &sinkWriter{w: bw, name: sink}
	closed := false
	closeFn := func() error {
		if closed {
			return nil
		}
		closed = true
		if err := bw.Flush(); err != nil {
			f.Close()
			return &blockio.IOError{Op: "write", Path: sink, Err: err}
		}
		return f.Close()
	}
	return w, closeFn, nil
}

func checkSinkNotSource(sink string, sources []string) error {
	sinkInfo, err := fs.Stat(sink)
	if err != nil {
		return nil
	}
	for _, src := range sources {
		if src == StdinMarker {
			continue
		}
		info, err := fs.Stat(src)
		if err == nil && os.SameFile(sinkInfo, info) {
			return fmt.Errorf("%w: %s", ErrSinkIsSource, sink)
		}
	}
	return nil
}

func (d *Driver) report(src string, err error) {
	var ioe *blockio.IOError
	if errors.As(err, &ioe) {
		err = ioe.Cause()
	}
	d.Stdio.Errorf("%s: %s: %v\n", d.applet(), src, err)
}

func (d *Driver) applet() string {
	if d.Applet == "" {
		return "zed"
	}
	return d.Applet
}

func (d *Driver) logger() *slog.Logger {
	if d.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return d.Logger
}

// sourceReader tags read failures with the source name.
type sourceReader struct {
	r    io.Reader
	name string
}

func (s *sourceReader) Read(p []byte) (int, error) {
	n, err := s.r.Read(p)
	if err != nil && !errors.Is(err, io.EOF) {
		return n, &blockio.IOError{Op: "read", Path: s.name, Err: err}
	}
	return n, err
}

// sinkWriter tags write failures with the sink name.
type sinkWriter struct {
	w    io.Writer
	name string
}

func (s *sinkWriter) Write(p []byte) (int, error) {
	n, err := s.w.Write(p)
	if err != nil {
		return n, &blockio.IOError{Op: "write", Path: s.name, Err: err}
	}
	return n, nil
}
