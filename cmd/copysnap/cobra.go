package main

import (
	"github.com/spf13/cobra"
)

// mainify wraps a non-standard cobra entry point (one returning an error)
// into a standard cobra Run function, so subcommand bodies can use ordinary
// Go error handling and defer-based cleanup instead of calling os.Exit
// directly.
func mainify(entry func(*cobra.Command, []string) error) func(*cobra.Command, []string) {
	return func(command *cobra.Command, arguments []string) {
		if err := entry(command, arguments); err != nil {
			fail(err)
		}
	}
}
