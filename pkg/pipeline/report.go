package pipeline

import (
	"errors"

	"github.com/rcarmo/go-zed/pkg/core"
	"github.com/rcarmo/go-zed/pkg/expr"
)

// ExitCode maps the outcome of Run to an exit status and prints the fatal
// error, if any, as "applet: message".
//
//	expression errors      ExitUsage
//	missing input          ExitNoInput
//	other I/O failures     ExitFailure
//	skipped sources        ExitFailure (output was still produced)
func ExitCode(stdio *core.Stdio, applet string, res Result, err error) int {
	if err != nil {
		stdio.Errorf("%s: %v\n", applet, err)
		var exprErr *expr.Error
		switch {
		case errors.As(err, &exprErr):
			return core.ExitUsage
		case errors.Is(err, ErrMissingInput):
			return core.ExitNoInput
		}
		return core.ExitFailure
	}
	if len(res.Failed) > 0 {
		return core.ExitFailure
	}
	return core.ExitSuccess
}

// AppletExitCode is ExitCode for the busybox-style front ends, which have
// no missing-input status: an input that cannot be read is ExitFailure.
func AppletExitCode(stdio *core.Stdio, applet string, res Result, err error) int {
	code := ExitCode(stdio, applet, res, err)
	if code == core.ExitNoInput {
		return core.ExitFailure
	}
	return code
}
