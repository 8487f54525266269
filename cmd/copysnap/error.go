package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
)

// warning prints a warning message to standard error.
func warning(message string) {
	fmt.Fprintln(color.Error, color.YellowString("Warning:"), message)
}

// fail prints an error message to standard error and terminates the process
// with an error exit code.
func fail(err error) {
	fmt.Fprintln(os.Stderr, "Error:", err)
	os.Exit(1)
}
