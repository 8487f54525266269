// Command copysnap takes incremental, content-addressed snapshots of a
// directory tree, aliasing unchanged subtrees with symbolic links instead of
// copying their bytes again. Its command layering — a root cobra.Command
// with one subcommand per verb, each validating its own arguments and
// returning an error rather than calling os.Exit directly — is adapted from
// the teacher's cmd/mutagen package.
package main

import (
	"github.com/spf13/cobra"
)

var rootCommand = &cobra.Command{
	Use:   "copysnap",
	Short: "copysnap takes incremental, content-addressed filesystem snapshots",
	Run: func(command *cobra.Command, arguments []string) {
		command.Help()
	},
}

func init() {
	cobra.EnableCommandSorting = false

	rootCommand.PersistentFlags().StringVar(&rootConfiguration.storeDir, "store", ".copysnap", "path to the snapshot store directory")
	rootCommand.PersistentFlags().StringVar(&rootConfiguration.logLevel, "log-level", "info", "logging verbosity: disabled, error, warn, info, debug")

	rootCommand.AddCommand(
		snapshotCommand,
		listCommand,
		showCommand,
	)
}

var rootConfiguration struct {
	storeDir string
	logLevel string
}

func main() {
	if err := rootCommand.Execute(); err != nil {
		fail(err)
	}
}
