package core

import "fmt"

// FileSystemDiff is the result of comparing a current source tree against a
// prior recorded FileSystemState. It carries everything the copy-action
// planner needs: the classified entries, the freshly built state for paths
// that currently exist, and the prior state for reference.
type FileSystemDiff struct {
	// Entries holds one ClassifiedEntry per path touched by the diff: every
	// path currently found under the source root, plus every path recorded
	// in the prior state that was not found (classified Removed).
	Entries map[RelativePath]ClassifiedEntry

	// NewState is the FileSystemState built from every entry classified New,
	// Changed, Unchanged, or UnchangedButTouched.
	NewState FileSystemState

	// PriorState is the state the diff was computed against, retained for
	// the planner's subtree-promotion decisions.
	PriorState FileSystemState

	// Errors is the number of paths that could not be classified due to an
	// I/O failure. Such paths are omitted from NewState and recorded in
	// Entries with Classification Error; a path that cannot be relativized
	// against the source root is counted here but appears in neither.
	Errors int

	// Removed is the number of paths present in PriorState but not found
	// under the current source root.
	Removed int
}

// ComputeDiff walks sourceRoot via fsa, classifies every file found against
// priorState, and returns the resulting FileSystemDiff. An error is returned
// only for a fatal enumeration failure (spec.md §7); per-file classification
// failures are recorded as Error entries and never abort the run.
func ComputeDiff(sourceRoot Root, priorState FileSystemState, fsa FilesystemAccessor) (FileSystemDiff, error) {
	seq, err := fsa.FindFiles(sourceRoot.PathToRootDir())
	if err != nil {
		return FileSystemDiff{}, fmt.Errorf("enumerate source root %q: %w", sourceRoot.PathToRootDir(), err)
	}
	absPaths, err := collectFileSequence(seq)
	if err != nil {
		return FileSystemDiff{}, fmt.Errorf("enumerate source root %q: %w", sourceRoot.PathToRootDir(), err)
	}

	entries := make(map[RelativePath]ClassifiedEntry, len(absPaths))
	newStateBuilder := NewFileSystemStateBuilder(sourceRoot.Location)
	visited := make(map[RelativePath]struct{}, len(absPaths))

	var errCount int
	for _, absPath := range absPaths {
		rel, err := sourceRoot.Relativize(absPath)
		if err != nil {
			// A path returned by the accessor's own enumeration of this
			// exact root that can't be relativized against it indicates a
			// broken accessor, not a transient per-file failure; treat it
			// the same as any other classification failure rather than
			// aborting the whole run.
			errCount++
			continue
		}
		visited[rel] = struct{}{}

		classified, ok := classifyPath(rel, absPath, priorState, fsa)
		if !ok {
			errCount++
			entries[rel] = ClassifiedEntry{RelPath: rel, Classification: Error}
			continue
		}
		entries[rel] = classified
		if classified.NewState != nil {
			newStateBuilder.Add(*classified.NewState)
		}
	}

	var removedCount int
	for _, rel := range priorState.Paths() {
		if _, ok := visited[rel]; ok {
			continue
		}
		entries[rel] = ClassifiedEntry{RelPath: rel, Classification: Removed}
		removedCount++
	}

	return FileSystemDiff{
		Entries:    entries,
		NewState:   newStateBuilder.Build(),
		PriorState: priorState,
		Errors:     errCount,
		Removed:    removedCount,
	}, nil
}

// classifyPath determines the classification of a single currently-existing
// path, per spec.md §4.E step 3. The boolean return is false if an I/O
// failure occurred during classification.
func classifyPath(rel RelativePath, absPath string, priorState FileSystemState, fsa FilesystemAccessor) (ClassifiedEntry, bool) {
	prior, hadPrior := priorState.Get(rel)

	if !hadPrior {
		mtime, err := fsa.GetLastModifiedTime(absPath)
		if err != nil {
			return ClassifiedEntry{}, false
		}
		checksum, err := fsa.ComputeChecksum(absPath)
		if err != nil {
			return ClassifiedEntry{}, false
		}
		state := NewFileState(rel, mtime, checksum)
		return ClassifiedEntry{RelPath: rel, Classification: New, NewState: &state}, true
	}

	currentMtime, err := fsa.GetLastModifiedTime(absPath)
	if err != nil {
		return ClassifiedEntry{}, false
	}

	if currentMtime.Equal(prior.LastModified()) {
		state := NewFileState(rel, currentMtime, prior.Checksum())
		return ClassifiedEntry{RelPath: rel, Classification: Unchanged, NewState: &state}, true
	}

	equal, err := fsa.AreChecksumsEqual(prior.Checksum(), absPath)
	if err != nil {
		return ClassifiedEntry{}, false
	}
	if equal {
		state := NewFileState(rel, currentMtime, prior.Checksum())
		return ClassifiedEntry{RelPath: rel, Classification: UnchangedButTouched, NewState: &state}, true
	}

	checksum, err := fsa.ComputeChecksum(absPath)
	if err != nil {
		return ClassifiedEntry{}, false
	}
	state := NewFileState(rel, currentMtime, checksum)
	return ClassifiedEntry{RelPath: rel, Classification: Changed, NewState: &state}, true
}
