// Package main is promptctl, the terminal client for a Promptozer prompt
// library.
package main

import (
	"fmt"
	"os"

	"github.com/promptozer/promptozer/internal/client"
)

func main() {
	c := newCLI(os.Stdin, os.Stdout, os.Stderr)
	err := newRootCmd(c).Execute()
	// Post-run hooks are skipped when a command fails.
	_ = c.close()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", client.Describe(err))
		os.Exit(1)
	}
}
