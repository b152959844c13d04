// Command blk is a standalone entry point for the blk applet.
package main

import (
	"os"

	"github.com/rcarmo/go-zed/pkg/applets/blk"
	"github.com/rcarmo/go-zed/pkg/core"
)

func main() {
	stdio := core.DefaultStdio()
	os.Exit(blk.Run(stdio, os.Args[1:]))
}
