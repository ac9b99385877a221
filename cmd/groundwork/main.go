// Package main provides the entry point for the groundwork CLI.
package main

import (
	"errors"
	"os"

	"github.com/felixgeelhaar/groundwork/internal/app"
)

func main() {
	if err := Execute(); err != nil {
		var stepErr *app.StepFailureError
		if errors.As(err, &stepErr) {
			os.Exit(stepErr.ExitCode())
		}
		os.Exit(1)
	}
}
