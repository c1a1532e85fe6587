// Package main provides the entry point for the paramedit CLI.
package main

import (
	"fmt"
	"os"

	"github.com/paramedit/paramedit/cmd/paramedit/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
