// Package grep implements fixed-string grep on top of the zed pipeline.
package grep

import (
	"io"

	"github.com/spf13/pflag"

	"github.com/rcarmo/go-zed/pkg/core"
	"github.com/rcarmo/go-zed/pkg/expr"
	"github.com/rcarmo/go-zed/pkg/pipeline"
)

// Run executes the grep command. Exit status is 0 when a line was
// selected, 1 when none was, and 2 or more on error.
func Run(stdio *core.Stdio, args []string) int {
	var invert bool
	flags := pflag.NewFlagSet("grep", pflag.ContinueOnError)
	flags.SetOutput(stdio.Err)
	flags.BoolVarP(&invert, "invert-match", "v", false, "select non-matching lines")
	if err := flags.Parse(args); err != nil {
		return core.UsageError(stdio, "grep", err.Error())
	}

	rest := flags.Args()
	if len(rest) == 0 {
		return core.UsageError(stdio, "grep", "missing pattern")
	}
	files := rest[1:]
	if len(files) == 0 {
		files = []string{pipeline.StdinMarker}
	}

	driver := &pipeline.Driver{
		Stdio:  stdio,
		Logger: core.NewLogger(stdio, false),
		Applet: "grep",
	}
	e := &expr.Expression{Kind: expr.PrintMatching, Pattern: rest[0]}
	if invert {
		e.Kind = expr.DeleteMatching
	}
	// The empty pattern matches every line: -v selects nothing, but the
	// inputs are still read so unreadable files are reported.
	if rest[0] == "" {
		e = &expr.Expression{Kind: expr.Cat}
		if invert {
			quiet := *stdio
			quiet.Out = io.Discard
			driver.Stdio = &quiet
		}
	}

	res, err := driver.Run(e, files, pipeline.StdinMarker)
	if err != nil || len(res.Failed) > 0 {
		pipeline.ExitCode(stdio, "grep", res, err)
		return core.ExitUsage
	}
	if res.LinesOut == 0 || (invert && rest[0] == "") {
		return core.ExitFailure
	}
	return core.ExitSuccess
}
