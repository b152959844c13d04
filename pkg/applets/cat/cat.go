// Package cat implements the cat command on top of the zed pipeline.
package cat

import (
	"github.com/spf13/pflag"

	"github.com/rcarmo/go-zed/pkg/core"
	"github.com/rcarmo/go-zed/pkg/expr"
	"github.com/rcarmo/go-zed/pkg/pipeline"
)

// Run executes the cat command with the given arguments.
func Run(stdio *core.Stdio, args []string) int {
	var output string
	flags := pflag.NewFlagSet("cat", pflag.ContinueOnError)
	flags.SetOutput(stdio.Err)
	flags.StringVarP(&output, "output", "o", "", "write to `FILE` instead of stdout")
	if err := flags.Parse(args); err != nil {
		return core.UsageError(stdio, "cat", err.Error())
	}

	// If no files specified, read from stdin
	files := flags.Args()
	if len(files) == 0 {
		files = []string{pipeline.StdinMarker}
	}

	driver := &pipeline.Driver{
		Stdio:  stdio,
		Logger: core.NewLogger(stdio, false),
		Applet: "cat",
	}
	res, err := driver.Run(&expr.Expression{Kind: expr.Cat}, files, output)
	return pipeline.AppletExitCode(stdio, "cat", res, err)
}
