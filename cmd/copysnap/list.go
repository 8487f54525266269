package main

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/johannesbuchholz/copysnap/internal/snapshotstore"
)

func listMain(command *cobra.Command, arguments []string) error {
	if len(arguments) != 0 {
		return errors.New("list takes no arguments")
	}

	store := snapshotstore.New(rootConfiguration.storeDir, nil)
	names, err := store.List()
	if err != nil {
		return errors.Wrap(err, "list snapshots")
	}

	if len(names) == 0 {
		fmt.Println("No snapshots.")
		return nil
	}
	for _, name := range names {
		fmt.Println(name)
	}
	return nil
}

var listCommand = &cobra.Command{
	Use:   "list",
	Short: "List published snapshots, oldest first",
	Run:   mainify(listMain),
}
