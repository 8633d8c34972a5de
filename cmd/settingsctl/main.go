// Command settingsctl inspects and edits persisted settings from the shell.
package main

import (
	"fmt"
	"os"
)

// Build information injected via ldflags at build time.
var version = "dev"

func main() {
	root := newRootCmd()
	root.Version = version
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "settingsctl:", err)
		os.Exit(1)
	}
}
