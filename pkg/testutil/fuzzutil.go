package testutil

import (
	"bytes"
	"errors"
	"os/exec"
	"strings"
	"testing"
)

const MaxFuzzBytes = 2048

func ClampBytes(data []byte, max int) []byte {
	if len(data) > max {
		return data[:max]
	}
	return data
}

// RunAppletInDir runs an applet with dir as the working directory.
func RunAppletInDir(t *testing.T, run RunApplet, args []string, input string, dir string) (string, string, int) {
	t.Helper()
	t.Chdir(dir)
	stdio, out, errBuf := CaptureStdio(input)
	code := run(stdio, args)
	return out.String(), errBuf.String(), code
}

// RunBusyboxInDir runs the system busybox applet, if there is one.
func RunBusyboxInDir(t *testing.T, applet string, args []string, input string, dir string) (string, int, bool) {
	t.Helper()
	busyboxPath, err := exec.LookPath("busybox")
	if err != nil {
		return "", 0, false
	}
	cmd := Command(busyboxPath, append([]string{applet}, args...)...)
	cmd.Dir = dir
	cmd.Stdin = strings.NewReader(input)
	var outBuf bytes.Buffer
	cmd.Stdout = &outBuf
	exitCode := 0
	if err := cmd.Run(); err != nil {
		var ee *exec.ExitError
		if !errors.As(err, &ee) {
			t.Fatalf("busybox run %s: %v", applet, err)
		}
		exitCode = ee.ExitCode()
	}
	return outBuf.String(), exitCode, true
}

// FuzzCompare runs our applet and, when available, busybox on the same
// files and input, and fails if stdout or exit status differ.
func FuzzCompare(t *testing.T, applet string, run RunApplet, args []string, input string, files map[string]string) {
	t.Helper()
	dir := TempDirWithFiles(t, files)
	ourOut, _, ourCode := RunAppletInDir(t, run, args, input, dir)
	busyOut, busyCode, ok := RunBusyboxInDir(t, applet, args, input, dir)
	if !ok {
		return
	}
	if ourCode != busyCode {
		t.Fatalf("exit code mismatch: ours=%d busybox=%d", ourCode, busyCode)
	}
	if ourOut != busyOut {
		t.Fatalf("stdout mismatch:\nours:   %q\nbusybox:%q", ourOut, busyOut)
	}
}
