// Package core provides shared functionality for zed applets.
package core

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"golang.org/x/term"
)

// Exit codes following POSIX conventions
const (
	ExitSuccess = 0
	ExitFailure = 1
	ExitUsage   = 2
	ExitNoInput = 3
)

// DebugEnv enables debug logging when set to a non-empty value.
const DebugEnv = "ZED_DEBUG"

// Stdio holds the standard I/O streams for an applet.
// This allows for easy testing by injecting mock streams.
type Stdio struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// DefaultStdio returns Stdio configured with os.Stdin, os.Stdout, os.Stderr.
func DefaultStdio() *Stdio {
	return &Stdio{
		In:  os.Stdin,
		Out: os.Stdout,
		Err: os.Stderr,
	}
}

// Errorf writes a formatted error message to stderr.
func (s *Stdio) Errorf(format string, args ...any) {
	fmt.Fprintf(s.Err, format, args...)
}

// StdinIsPiped reports whether stdio.In carries data from a pipe, file or
// in-memory reader rather than an interactive terminal.
func (s *Stdio) StdinIsPiped() bool {
	if s.In == nil {
		return false
	}
	if f, ok := s.In.(*os.File); ok {
		return !term.IsTerminal(int(f.Fd()))
	}
	return true
}

// NewLogger returns a text logger on stderr. Debug records are emitted when
// debug is true or DebugEnv is set; otherwise only warnings and errors.
func NewLogger(stdio *Stdio, debug bool) *slog.Logger {
	level := slog.LevelWarn
	if debug || os.Getenv(DebugEnv) != "" {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(stdio.Err, &slog.HandlerOptions{
		Level: level,
	}))
}

// UsageError prints a usage error and returns ExitUsage.
func UsageError(stdio *Stdio, applet, message string) int {
	stdio.Errorf("%s: %s\n", applet, message)
	return ExitUsage
}

// FileError prints a file-related error and returns ExitFailure.
func FileError(stdio *Stdio, applet, path string, err error) int {
	stdio.Errorf("%s: %s: %v\n", applet, path, err)
	return ExitFailure
}
