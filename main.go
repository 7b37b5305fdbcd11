package main

import (
	"fmt"
	"os"

	"github.com/mzalewski/filetag/cli"
)

// Version is injected at build time via -ldflags "-X main.Version=...".
var Version = "0.3.0"

func main() {
	if err := cli.NewRootCommand(Version).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
