// Package zed implements the zed command: one expression applied to a
// sequence of input files, written to a single output.
package zed

import (
	"errors"

	"github.com/spf13/pflag"

	"github.com/rcarmo/go-zed/pkg/core"
	"github.com/rcarmo/go-zed/pkg/expr"
	"github.com/rcarmo/go-zed/pkg/pipeline"
)

const usageText = `Usage: zed [-d] [-o FILE] EXPRESSION [INPUT...] [OUTPUT]

Apply EXPRESSION to every line of the inputs, in order.

  ''                      copy lines unchanged
  s/PATTERN/REPLACEMENT/  replace the first PATTERN on each line (g: every one)
  /PATTERN/d              drop lines containing PATTERN
  /PATTERN/p              keep only lines containing PATTERN
  {print $N}              print field N ($0 is the whole line)
  /PATTERN/ {print $N}    print field N of lines containing PATTERN

With two or more operands the last one is the output file; "-" means
stdout. With -o every operand is an input. "-" as an input is stdin.
With no inputs, piped stdin is read.

Options must come before EXPRESSION: every argument after it is an
operand, so "zed EXPR in -o out" reads a file named "-o".

Options:
`

// Run executes the zed command with the given arguments.
func Run(stdio *core.Stdio, args []string) int {
	var (
		output string
		debug  bool
		help   bool
	)
	flags := pflag.NewFlagSet("zed", pflag.ContinueOnError)
	flags.SetOutput(stdio.Err)
	flags.SetInterspersed(false)
	flags.StringVarP(&output, "output", "o", "", "write output to `FILE`; all operands are inputs")
	flags.BoolVarP(&debug, "debug", "d", false, "log debug records to stderr (also $"+core.DebugEnv+")")
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
		return core.UsageError(stdio, "zed", err.Error())
	}
	if help {
		flags.Usage()
		return core.ExitSuccess
	}

	rest := flags.Args()
	if len(rest) == 0 {
		return core.UsageError(stdio, "zed", "missing expression")
	}

	e, err := expr.Parse(rest[0])
	if err != nil {
		return core.UsageError(stdio, "zed", err.Error())
	}
	sources, sink := SplitOperands(rest[1:], output)

	driver := &pipeline.Driver{
		Stdio:  stdio,
		Logger: core.NewLogger(stdio, debug),
		Applet: "zed",
	}
	res, err := driver.Run(e, sources, sink)
	return pipeline.ExitCode(stdio, "zed", res, err)
}

// SplitOperands separates input operands from the output operand. An
// explicit output wins; otherwise, with two or more operands, the last one
// is the output. A single operand is always an input.
func SplitOperands(operands []string, output string) (sources []string, sink string) {
	if output != "" {
		return operands, output
	}
	if len(operands) >= 2 {
		return operands[:len(operands)-1], operands[len(operands)-1]
	}
	return operands, pipeline.StdinMarker
}
