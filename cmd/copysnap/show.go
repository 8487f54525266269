package main

import (
	"fmt"
	"sort"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/johannesbuchholz/copysnap/internal/snapshotstore"
)

func showMain(command *cobra.Command, arguments []string) error {
	if len(arguments) != 1 {
		return errors.New("expected exactly one snapshot name argument")
	}
	name := arguments[0]

	store := snapshotstore.New(rootConfiguration.storeDir, nil)
	state, err := store.LoadState(name)
	if err != nil {
		return errors.Wrapf(err, "load snapshot %q", name)
	}

	paths := state.Paths()
	sort.Slice(paths, func(i, j int) bool { return paths[i] < paths[j] })

	fmt.Printf("Snapshot %s: %d files, anchored at %s\n", name, len(paths), state.Location())
	for _, p := range paths {
		fs, _ := state.Get(p)
		fmt.Printf("  %s  %s  %s\n", fs.LastModified().Format("2006-01-02T15:04:05Z07:00"), fs.Checksum().String(), p)
	}
	return nil
}

var showCommand = &cobra.Command{
	Use:   "show <snapshot-name>",
	Short: "Show the recorded file states for one published snapshot",
	Run:   mainify(showMain),
}
