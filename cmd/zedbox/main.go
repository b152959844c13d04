// Command zedbox is a multi-call binary for the zed applets. The applet is
// chosen by the name it is invoked as, or by the first argument when
// invoked as zedbox.
package main

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/rcarmo/go-zed/pkg/applets/awk"
	"github.com/rcarmo/go-zed/pkg/applets/blk"
	"github.com/rcarmo/go-zed/pkg/applets/cat"
	"github.com/rcarmo/go-zed/pkg/applets/grep"
	"github.com/rcarmo/go-zed/pkg/applets/sed"
	"github.com/rcarmo/go-zed/pkg/applets/zed"
	"github.com/rcarmo/go-zed/pkg/core"
)

type appletFunc func(stdio *core.Stdio, args []string) int

var applets = map[string]appletFunc{
	"zed":  zed.Run,
	"blk":  blk.Run,
	"cat":  cat.Run,
	"sed":  sed.Run,
	"grep": grep.Run,
	"awk":  awk.Run,
}

func main() {
	stdio := core.DefaultStdio()

	applet, args := resolveApplet(os.Args)
	if applet == "" {
		printAppletList(stdio)
		os.Exit(core.ExitUsage)
	}

	run, ok := applets[applet]
	if !ok {
		stdio.Errorf("zedbox: applet not found: %s\n", applet)
		printAppletList(stdio)
		os.Exit(core.ExitUsage)
	}

	// Applets expect args without the applet name.
	os.Exit(run(stdio, args))
}

func resolveApplet(args []string) (string, []string) {
	if len(args) == 0 {
		return "", nil
	}

	// If invoked as "zedbox applet ..."
	if filepath.Base(args[0]) == "zedbox" {
		if len(args) < 2 {
			return "", nil
		}
		return args[1], args[2:]
	}

	// If invoked as a symlink named after the applet
	return filepath.Base(args[0]), args[1:]
}

func printAppletList(stdio *core.Stdio) {
	names := make([]string, 0, len(applets))
	for name := range applets {
		names = append(names, name)
	}
	sort.Strings(names)
	stdio.Errorf("Currently defined functions:\n")
	for _, name := range names {
		stdio.Errorf(" %s", name)
	}
	stdio.Errorf("\n")
}
