// Package sed implements the subset of sed that maps onto zed expressions:
// s/old/new/[g], /re/d and, with -n, /re/p. Patterns are literal.
package sed

import (
	"github.com/spf13/pflag"

	"github.com/rcarmo/go-zed/pkg/core"
	"github.com/rcarmo/go-zed/pkg/expr"
	"github.com/rcarmo/go-zed/pkg/pipeline"
)

// Run executes the sed command with the given arguments.
func Run(stdio *core.Stdio, args []string) int {
	var quiet bool
	var scripts []string
	flags := pflag.NewFlagSet("sed", pflag.ContinueOnError)
	flags.SetOutput(stdio.Err)
	flags.BoolVarP(&quiet, "quiet", "n", false, "suppress automatic printing")
	flags.StringArrayVarP(&scripts, "expression", "e", nil, "add `SCRIPT` (only one is supported)")
	if err := flags.Parse(args); err != nil {
		return core.UsageError(stdio, "sed", err.Error())
	}

	files := flags.Args()
	var script string
	switch len(scripts) {
	case 0:
		if len(files) == 0 {
			return core.UsageError(stdio, "sed", "missing script")
		}
		script, files = files[0], files[1:]
	case 1:
		script = scripts[0]
	default:
		return core.UsageError(stdio, "sed", "only one script is supported")
	}

	e, err := expr.Parse(script)
	if err != nil {
		return core.UsageError(stdio, "sed", err.Error())
	}
	switch e.Kind {
	case expr.Cat, expr.Substitute, expr.DeleteMatching:
		if quiet {
			return core.UsageError(stdio, "sed", "-n is only supported with /PATTERN/p")
		}
	case expr.PrintMatching:
		if !quiet {
			return core.UsageError(stdio, "sed", "/PATTERN/p needs -n")
		}
	default:
		return core.UsageError(stdio, "sed", "unsupported command: "+script)
	}

	if len(files) == 0 {
		files = []string{pipeline.StdinMarker}
	}
	driver := &pipeline.Driver{
		Stdio:  stdio,
		Logger: core.NewLogger(stdio, false),
		Applet: "sed",
	}
	res, err := driver.Run(e, files, pipeline.StdinMarker)
	return pipeline.AppletExitCode(stdio, "sed", res, err)
}
