// Command zed is a standalone entry point for the zed applet.
package main

import (
	"os"

	"github.com/rcarmo/go-zed/pkg/applets/zed"
	"github.com/rcarmo/go-zed/pkg/core"
)

func main() {
	stdio := core.DefaultStdio()
	os.Exit(zed.Run(stdio, os.Args[1:]))
}
