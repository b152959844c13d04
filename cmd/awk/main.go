// Command awk is a standalone entry point for the awk applet.
package main

import (
	"os"

	"github.com/rcarmo/go-zed/pkg/applets/awk"
	"github.com/rcarmo/go-zed/pkg/core"
)

func main() {
	stdio := core.DefaultStdio()
	os.Exit(awk.Run(stdio, os.Args[1:]))
}
