package main

import (
	"fmt"
	"os"
)

// ============================================================================
// CUBE CLI: OLAP operations over a delimited file or SQLite table
// ============================================================================

const version = "0.3.0"

func main() {
	cli := NewCLI(os.Stdout)
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
