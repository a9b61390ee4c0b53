package main

import (
	"errors"
	"fmt"
	"os"
)

// Exit codes for different failure modes
const (
	ExitClean    = 0 // No problems found
	ExitFindings = 1 // The audit ran and reported warnings or errors
	ExitError    = 2 // Configuration or runtime error
)

// FindingsError indicates that the audit ran successfully, but one or
// more rules reported a problem.
type FindingsError struct {
	Warnings int
	Errors   int
}

func (e *FindingsError) Error() string {
	return fmt.Sprintf("found %d warning(s) and %d error(s)", e.Warnings, e.Errors)
}

func main() {
	if err := execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)

		var findingsErr *FindingsError
		if errors.As(err, &findingsErr) {
			os.Exit(ExitFindings)
		}

		// All other errors are configuration/runtime errors
		os.Exit(ExitError)
	}
}
