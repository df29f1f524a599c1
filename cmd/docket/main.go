// Package main provides the entry point for the docket CLI.
package main

import (
	"os"

	"github.com/randalmurphal/docket/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		cli.PrintError(err)
		os.Exit(cli.ExitCode(err))
	}
}
