// Package cli provides error handling utilities for CLI output.
package cli

import (
	"fmt"
	"os"

	docketerrors "github.com/randalmurphal/docket/internal/errors"
)

// PrintError prints an error to stderr with appropriate formatting.
// If the error is a DocketError, it uses the user-friendly format.
// Otherwise, it prints a simple error message.
func PrintError(err error) {
	if derr := docketerrors.AsDocketError(err); derr != nil {
		fmt.Fprintln(os.Stderr, derr.UserMessage())
		if verbose {
			// In verbose mode, also print the error code and cause
			fmt.Fprintf(os.Stderr, "\nCode: %s\n", derr.Code)
			if derr.Cause != nil {
				fmt.Fprintf(os.Stderr, "Cause: %v\n", derr.Cause)
			}
		}
		return
	}
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
}

// ExitCode maps an error to a process exit code. DocketErrors carry
// their own code per category; anything else exits 1.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	if derr := docketerrors.AsDocketError(err); derr != nil {
		return derr.ExitCode()
	}
	return 1
}
