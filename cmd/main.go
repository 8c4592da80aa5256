package main

// Entry point: runs the Cobra command tree and exits 1 on failure.

import (
	"fmt"
	"os"

	"demand-graphs/cmd/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
