// Copyright (c) 2026 Parsight. All rights reserved.

// Command parsight is the terminal client for the PARS package-label
// service.
//
// All wiring lives in the cli package; this entry point only translates the
// command outcome into a process exit code.
package main

import (
	"os"

	"parsight/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
