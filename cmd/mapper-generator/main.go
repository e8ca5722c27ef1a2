// Package main provides the CLI entrypoint for mapper-generator.
//
// mapper-generator loads Go packages, reads a YAML mapping file and plans
// the mapping functions between the declared source and target types.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
