// Package blk implements the blk command, which exposes the block I/O
// primitives: exact byte-range reads to stdout and in-place writes from stdin.
package blk

import (
	"errors"
	"io"
	"strconv"

	"github.com/spf13/pflag"

	"github.com/rcarmo/go-zed/pkg/blockio"
	"github.com/rcarmo/go-zed/pkg/core"
)

const usageText = `Usage: blk read [-a] FILE OFFSET LENGTH
       blk write [-a] FILE OFFSET

read copies LENGTH bytes starting at OFFSET to stdout (fewer at EOF).
write copies stdin into FILE starting at OFFSET without truncating it.
Numbers accept 0x and 0 prefixes.

Options:
`

// Run executes the blk command with the given arguments.
func Run(stdio *core.Stdio, args []string) int {
	var (
		aligned bool
		debug   bool
		help    bool
	)
	flags := pflag.NewFlagSet("blk", pflag.ContinueOnError)
	flags.SetOutput(stdio.Err)
	flags.BoolVarP(&aligned, "aligned", "a", false, "use a single block-granular operation (writes land on the block boundary at or below OFFSET)")
	flags.BoolVarP(&debug, "debug", "d", false, "log debug records to stderr")
	flags.BoolVarP(&help, "help", "h", false, "show this help")
	flags.Usage = func() {
		stdio.Errorf("%s", usageText)
		stdio.Errorf("%s", flags.FlagUsages())
	}
	if err := flags.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			flags.Usage()
			return core.ExitSuccess
		}
		return core.UsageError(stdio, "blk", err.Error())
	}
	if help {
		flags.Usage()
		return core.ExitSuccess
	}
	log := core.NewLogger(stdio, debug)

	rest := flags.Args()
	if len(rest) == 0 {
		return core.UsageError(stdio, "blk", "missing command")
	}
	switch rest[0] {
	case "read":
		if len(rest) != 4 {
			return core.UsageError(stdio, "blk", "read needs FILE OFFSET LENGTH")
		}
		offset, err := parseNumber(rest[2])
		if err != nil {
			return core.UsageError(stdio, "blk", "invalid offset: "+rest[2])
		}
		length, err := parseNumber(rest[3])
		if err != nil {
			return core.UsageError(stdio, "blk", "invalid length: "+rest[3])
		}
		log.Debug("block read", "file", rest[1], "offset", offset, "length", length, "aligned", aligned)
		return read(stdio, rest[1], offset, length, aligned)
	case "write":
		if len(rest) != 3 {
			return core.UsageError(stdio, "blk", "write needs FILE OFFSET")
		}
		offset, err := parseNumber(rest[2])
		if err != nil {
			return core.UsageError(stdio, "blk", "invalid offset: "+rest[2])
		}
		log.Debug("block write", "file", rest[1], "offset", offset, "aligned", aligned)
		return write(stdio, rest[1], offset, aligned)
	}
	return core.UsageError(stdio, "blk", "unknown command: "+rest[0])
}

func read(stdio *core.Stdio, path string, offset, length uint64, aligned bool) int {
	var (
		data []byte
		err  error
	)
	if aligned {
		data, err = blockio.ReadBlock(path, offset, length)
	} else {
		data, err = blockio.ReadRange(path, offset, length)
	}
	if err != nil {
		return fail(stdio, path, err)
	}
	if _, err := stdio.Out.Write(data); err != nil {
		stdio.Errorf("blk: %v\n", err)
		return core.ExitFailure
	}
	return core.ExitSuccess
}

func write(stdio *core.Stdio, path string, offset uint64, aligned bool) int {
	if aligned {
		data, err := io.ReadAll(stdio.In)
		if err != nil {
			stdio.Errorf("blk: %v\n", err)
			return core.ExitFailure
		}
		if err := blockio.WriteBlock(path, offset, data); err != nil {
			return fail(stdio, path, err)
		}
		return core.ExitSuccess
	}

	f, err := blockio.OpenWrite(path)
	if err != nil {
		return fail(stdio, path, err)
	}
	w := f.NewWriter(offset)
	if _, err := io.Copy(w, stdio.In); err != nil {
		f.Close()
		return fail(stdio, path, err)
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return fail(stdio, path, err)
	}
	if err := f.Close(); err != nil {
		return fail(stdio, path, err)
	}
	return core.ExitSuccess
}

func fail(stdio *core.Stdio, path string, err error) int {
	var ioe *blockio.IOError
	if errors.As(err, &ioe) {
		err = ioe.Cause()
	}
	return core.FileError(stdio, "blk", path, err)
}

func parseNumber(s string) (uint64, error) {
	return strconv.ParseUint(s, 0, 64)
}
