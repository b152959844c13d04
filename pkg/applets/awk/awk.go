// Package awk implements the awk command with the goawk interpreter.
//
// zed's field forms follow awk's default field splitting but drop lines
// whose requested field is absent, where awk prints an empty line; awk
// programs therefore always run through goawk.
package awk

import (
	"errors"
	"io"
	"strings"

	"github.com/benhoyt/goawk/interp"
	"github.com/benhoyt/goawk/parser"
	"github.com/spf13/pflag"

	"github.com/rcarmo/go-zed/pkg/core"
	"github.com/rcarmo/go-zed/pkg/core/fs"
)

// Run executes the awk command with the given arguments.
//
// Supported flags:
//
//	-F SEP      Set field separator (default whitespace)
//	-v VAR=VAL  Assign variable before execution
//	-f FILE     Read program from FILE
//
// The first operand is the program text unless -f is used. Remaining
// operands are input files or VAR=VAL assignments; stdin is read if there
// are no files.
func Run(stdio *core.Stdio, args []string) int {
	var (
		fieldSep    string
		assigns     []string
		programFile string
	)
	flags := pflag.NewFlagSet("awk", pflag.ContinueOnError)
	flags.SetOutput(stdio.Err)
	flags.SetInterspersed(false)
	flags.StringVarP(&fieldSep, "field-separator", "F", "", "use `SEP` as the input field separator")
	flags.StringArrayVarP(&assigns, "assign", "v", nil, "assign `VAR=VAL` before execution")
	flags.StringVarP(&programFile, "file", "f", "", "read the program from `FILE`")
	if err := flags.Parse(args); err != nil {
		return core.UsageError(stdio, "awk", err.Error())
	}

	operands := flags.Args()
	var program string
	if programFile != "" {
		src, err := readProgram(programFile)
		if err != nil {
			return core.FileError(stdio, "awk", programFile, err)
		}
		program = src
	} else {
		if len(operands) == 0 {
			return core.UsageError(stdio, "awk", "missing program")
		}
		program, operands = operands[0], operands[1:]
	}

	prog, err := parser.ParseProgram([]byte(program), nil)
	if err != nil {
		var pe *parser.ParseError
		if errors.As(err, &pe) {
			stdio.Errorf("awk: cmd. line:%d: %s\n", pe.Position.Line, pe.Message)
			return core.ExitUsage
		}
		stdio.Errorf("awk: %v\n", err)
		return core.ExitUsage
	}

	config := &interp.Config{
		Argv0:  "awk",
		Stdin:  stdio.In,
		Output: stdio.Out,
		Error:  stdio.Err,
		Args:   operands,
	}
	if len(operands) == 0 {
		config.Args = []string{"-"}
	}
	if fieldSep != "" {
		config.Vars = append(config.Vars, "FS", fieldSep)
	}
	for _, assign := range assigns {
		name, value, ok := strings.Cut(assign, "=")
		if !ok {
			return core.UsageError(stdio, "awk", "invalid -v argument: "+assign)
		}
		config.Vars = append(config.Vars, name, value)
	}

	status, err := interp.ExecProgram(prog, config)
	if err != nil {
		stdio.Errorf("awk: %v\n", err)
		return core.ExitFailure
	}
	return status
}

func readProgram(path string) (string, error) {
	f, err := fs.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	src, err := io.ReadAll(f)
	return string(src), err
}
