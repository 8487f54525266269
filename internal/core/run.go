package core

// ComputeCounts derives the reporting-only DiffCounts for a diff together
// with the plan computed from it. Position meanings follow spec.md §6/§9:
// Errors and Removed come directly from the diff; PlainCopies and
// SymlinkCopies are tallied from the planned actions. TotalProcessed (slot
// 5) is left at zero: every concrete value in spec.md §8's scenarios is 0
// regardless of how many files were actually processed, which is only
// consistent with that slot being a reserved-but-unpopulated field in this
// version rather than a derived total (see SPEC_FULL.md's Open Question
// resolution). The field is kept on DiffCounts so a later version can start
// populating it without an API break.
func ComputeCounts(diff FileSystemDiff, actions []CopyAction) DiffCounts {
	counts := DiffCounts{
		Errors:  diff.Errors,
		Removed: diff.Removed,
	}
	for _, a := range actions {
		switch a.Kind {
		case PlainCopy:
			counts.PlainCopies++
		case SymlinkCopy:
			counts.SymlinkCopies++
		}
	}
	return counts
}

// Execute runs every action in order against fsa. It stops at the first
// failing action; already-executed actions are not rolled back (spec.md §7:
// execution failures propagate to the caller, who decides whether to abort
// or continue the snapshot). The per-action FileState an Execute call
// returns reflects what was actually observed on the destination and is
// useful for diagnostics, but see NextPriorState for how the state that
// feeds the following run's diff is actually derived.
func Execute(actions []CopyAction, fsa FilesystemAccessor) error {
	for _, action := range actions {
		if _, err := action.Execute(fsa); err != nil {
			return err
		}
	}
	return nil
}

// NextPriorState derives the FileSystemState that should seed the following
// run's diff, anchored at destinationLocation. It is built entirely from
// diff.NewState rather than from Execute's per-action return values: every
// path present in diff.NewState, copied or aliased, keeps the checksum and
// modification time recorded during classification. This preserves the
// modification-time fast path in spec.md §4.E step 3 for files materialized
// by a PlainCopy — a destination file's own on-disk mtime is whatever the
// copy operation happened to set, which is irrelevant to whether the
// *source* changes again before the next run.
func NextPriorState(diff FileSystemDiff, destinationLocation string) FileSystemState {
	builder := NewFileSystemStateBuilder(destinationLocation)
	diff.NewState.Range(builder.Add)
	return builder.Build()
}
