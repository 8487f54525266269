package core

import (
	"testing"
	"time"
)

func priorStateWith(location string, entries ...FileState) FileSystemState {
	b := NewFileSystemStateBuilder(location)
	for _, e := range entries {
		b.Add(e)
	}
	return b.Build()
}

func runScenario(t *testing.T, fs *memFS, sourceRoot Root, prior FileSystemState, destination string) (FileSystemDiff, []CopyAction, DiffCounts) {
	t.Helper()
	diff, err := ComputeDiff(sourceRoot, prior, fs)
	if err != nil {
		t.Fatalf("ComputeDiff failed: %v", err)
	}
	actions := Plan(diff, destination)
	counts := ComputeCounts(diff, actions)
	return diff, actions, counts
}

func assertActions(t *testing.T, got, want []CopyAction) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("action count mismatch: got %d %v, want %d %v", len(got), got, len(want), want)
	}
	matched := make([]bool, len(want))
	for _, g := range got {
		found := false
		for i, w := range want {
			if matched[i] {
				continue
			}
			if g.Equal(w) {
				matched[i] = true
				found = true
				break
			}
		}
		if !found {
			t.Fatalf("unexpected action %+v not found in expected set %+v", g, want)
		}
	}
}

func assertCounts(t *testing.T, got, want DiffCounts) {
	t.Helper()
	if got != want {
		t.Fatalf("counts mismatch: got %+v, want %+v", got, want)
	}
}

// S1 — plain copy of a single changed file.
func TestScenarioS1PlainCopyOfChangedFile(t *testing.T) {
	t0 := time.Unix(1000, 0)
	t1 := t0.Add(time.Second)

	sourceRoot := NewRoot("/x/y/z/r")
	fs := newMemFS()
	fs.put(sourceRoot.Resolve("r/a/b/c/f"), H("newHash"), t1)

	prior := priorStateWith("/p/q/rold",
		NewFileState("r/a/b/c/f", t0, H("oldHash")),
	)

	diff, actions, counts := runScenario(t, fs, sourceRoot, prior, "/p/q/rnew")

	if entry := diff.Entries["r/a/b/c/f"]; entry.Classification != Changed {
		t.Fatalf("expected Changed, got %s", entry.Classification)
	}

	assertActions(t, actions, []CopyAction{
		{Kind: PlainCopy, SourceLocation: "/x/y/z", DestinationLocation: "/p/q/rnew", RelPath: "r/a/b/c/f"},
	})
	assertCounts(t, counts, DiffCounts{Errors: 0, Removed: 0, PlainCopies: 1, SymlinkCopies: 0})
}

// S2 — whole-tree alias (nothing changed).
func TestScenarioS2WholeTreeAlias(t *testing.T) {
	t0 := time.Unix(1000, 0)
	t1 := t0.Add(time.Second)

	sourceRoot := NewRoot("/x/y/z/r")
	fs := newMemFS()
	fs.put(sourceRoot.Resolve("r/a/b/c/f"), H("{0}"), t1)

	prior := priorStateWith("/p/q/rold",
		NewFileState("r/a/b/c/f", t0, H("{0}")),
	)

	diff, actions, counts := runScenario(t, fs, sourceRoot, prior, "/p/q/rnew")

	if entry := diff.Entries["r/a/b/c/f"]; entry.Classification != UnchangedButTouched {
		t.Fatalf("expected UnchangedButTouched, got %s", entry.Classification)
	}

	assertActions(t, actions, []CopyAction{
		{Kind: SymlinkCopy, SourceLocation: "/p/q/rold", DestinationLocation: "/p/q/rnew", RelPath: "r"},
	})
	assertCounts(t, counts, DiffCounts{Errors: 0, Removed: 0, PlainCopies: 0, SymlinkCopies: 1})
}

// S3 — mixed changed + unchanged sibling subtrees.
func TestScenarioS3MixedSubtrees(t *testing.T) {
	t0 := time.Unix(1000, 0)
	t1 := t0.Add(time.Second)

	sourceRoot := NewRoot("/x/y/z/r")
	fs := newMemFS()
	fs.put(sourceRoot.Resolve("r/a/b/c/f"), H("0"), t1)
	fs.put(sourceRoot.Resolve("r/a/v/w/F"), H("9"), t1)

	prior := priorStateWith("/p/q/rold/r",
		NewFileState("r/a/b/c/f", t0, H("1")),
		NewFileState("r/a/v/w/F", t0, H("9")),
	)

	diff, actions, counts := runScenario(t, fs, sourceRoot, prior, "/p/q/rnew")

	if entry := diff.Entries["r/a/b/c/f"]; entry.Classification != Changed {
		t.Fatalf("expected r/a/b/c/f Changed, got %s", entry.Classification)
	}
	if entry := diff.Entries["r/a/v/w/F"]; entry.Classification != UnchangedButTouched {
		t.Fatalf("expected r/a/v/w/F UnchangedButTouched, got %s", entry.Classification)
	}

	assertActions(t, actions, []CopyAction{
		{Kind: PlainCopy, SourceLocation: "/x/y/z", DestinationLocation: "/p/q/rnew", RelPath: "r/a/b/c/f"},
		{Kind: SymlinkCopy, SourceLocation: "/p/q/rold/r", DestinationLocation: "/p/q/rnew", RelPath: "r/a/v"},
	})
	assertCounts(t, counts, DiffCounts{Errors: 0, Removed: 0, PlainCopies: 1, SymlinkCopies: 1})
}

// S4 — deletion forces direct copy of otherwise-unchanged sibling.
func TestScenarioS4DeletionForcesDirectCopy(t *testing.T) {
	t0 := time.Unix(1000, 0)
	t1 := t0.Add(time.Second)

	sourceRoot := NewRoot("/src/tmp")
	fs := newMemFS()
	fs.put(sourceRoot.Resolve("tmp/d/file.txt"), H("C9"), t1)

	prior := priorStateWith("/prior/tmp",
		NewFileState("tmp/d/file.txt", t0, H("C0")),
		NewFileState("tmp/d/d2/fileOld.txt", t0, H("C0")),
	)

	diff, actions, counts := runScenario(t, fs, sourceRoot, prior, "/dest/tmp")

	if entry := diff.Entries["tmp/d/file.txt"]; entry.Classification != Changed {
		t.Fatalf("expected Changed, got %s", entry.Classification)
	}
	if entry := diff.Entries["tmp/d/d2/fileOld.txt"]; entry.Classification != Removed {
		t.Fatalf("expected Removed, got %s", entry.Classification)
	}

	assertActions(t, actions, []CopyAction{
		{Kind: PlainCopy, SourceLocation: sourceRoot.Location, DestinationLocation: "/dest/tmp", RelPath: "tmp/d/file.txt"},
	})
	assertCounts(t, counts, DiffCounts{Errors: 0, Removed: 1, PlainCopies: 1, SymlinkCopies: 0})
}

// S5 — deletion forces per-file alias even when the remaining file is unchanged.
func TestScenarioS5DeletionForcesFileLevelAlias(t *testing.T) {
	t0 := time.Unix(1000, 0)

	sourceRoot := NewRoot("/src/tmp")
	fs := newMemFS()
	fs.put(sourceRoot.Resolve("tmp/d/file.txt"), H("C1"), t0)

	prior := priorStateWith("/prior/tmp",
		NewFileState("tmp/d/file.txt", t0, H("C1")),
		NewFileState("tmp/d/d2/fileOld.txt", t0, H("C0")),
	)

	diff, actions, counts := runScenario(t, fs, sourceRoot, prior, "/dest/tmp")

	if entry := diff.Entries["tmp/d/file.txt"]; entry.Classification != Unchanged {
		t.Fatalf("expected Unchanged, got %s", entry.Classification)
	}

	assertActions(t, actions, []CopyAction{
		{Kind: SymlinkCopy, SourceLocation: "/prior/tmp", DestinationLocation: "/dest/tmp", RelPath: "tmp/d/file.txt"},
	})
	assertCounts(t, counts, DiffCounts{Errors: 0, Removed: 1, PlainCopies: 0, SymlinkCopies: 1})
}

// S6 — all-new tree.
func TestScenarioS6AllNewTree(t *testing.T) {
	t0 := time.Unix(1000, 0)

	sourceRoot := NewRoot("/x/y/z/r")
	fs := newMemFS()
	fs.put(sourceRoot.Resolve("r/a"), H("a"), t0)
	fs.put(sourceRoot.Resolve("r/b"), H("b"), t0)

	prior := EmptyFileSystemState("/p/q/rold")

	diff, actions, counts := runScenario(t, fs, sourceRoot, prior, "/p/q/rnew")

	for _, rel := range []RelativePath{"r/a", "r/b"} {
		if entry := diff.Entries[rel]; entry.Classification != New {
			t.Fatalf("expected %s New, got %s", rel, entry.Classification)
		}
	}

	assertActions(t, actions, []CopyAction{
		{Kind: PlainCopy, SourceLocation: "/x/y/z", DestinationLocation: "/p/q/rnew", RelPath: "r/a"},
		{Kind: PlainCopy, SourceLocation: "/x/y/z", DestinationLocation: "/p/q/rnew", RelPath: "r/b"},
	})
	assertCounts(t, counts, DiffCounts{Errors: 0, Removed: 0, PlainCopies: 2, SymlinkCopies: 0})
}

// Property 4: if priorState is empty, every produced action is a Plain.
func TestPropertyEmptyPriorYieldsOnlyPlainActions(t *testing.T) {
	sourceRoot := NewRoot("/x/y/r")
	fs := newMemFS()
	t0 := time.Unix(1, 0)
	fs.put(sourceRoot.Resolve("r/a/b"), H("x"), t0)
	fs.put(sourceRoot.Resolve("r/c"), H("y"), t0)

	diff, err := ComputeDiff(sourceRoot, EmptyFileSystemState("/prior"), fs)
	if err != nil {
		t.Fatalf("ComputeDiff failed: %v", err)
	}
	actions := Plan(diff, "/dest")
	for _, a := range actions {
		if a.Kind != PlainCopy {
			t.Fatalf("expected only Plain actions with empty prior state, got %v", a)
		}
	}
	if len(actions) != 2 {
		t.Fatalf("expected 2 actions, got %d", len(actions))
	}
}

// Property 5 / 8: nothing changed and nothing removed yields exactly one
// Symlink action for the top-level root directory, and this is stable
// across a second run seeded from NextPriorState.
func TestPropertyNoChangeYieldsSingleRootSymlinkAndIsIdempotent(t *testing.T) {
	t0 := time.Unix(1000, 0)
	sourceRoot := NewRoot("/x/y/r")
	fs := newMemFS()
	fs.put(sourceRoot.Resolve("r/a/b"), H("x"), t0)
	fs.put(sourceRoot.Resolve("r/c"), H("y"), t0)

	prior := priorStateWith("/prior/r",
		NewFileState("r/a/b", t0, H("x")),
		NewFileState("r/c", t0, H("y")),
	)

	diff, err := ComputeDiff(sourceRoot, prior, fs)
	if err != nil {
		t.Fatalf("ComputeDiff failed: %v", err)
	}
	actions := Plan(diff, "/dest/r")
	assertActions(t, actions, []CopyAction{
		{Kind: SymlinkCopy, SourceLocation: "/prior/r", DestinationLocation: "/dest/r", RelPath: "r"},
	})

	next := NextPriorState(diff, "/dest/r")

	diff2, err := ComputeDiff(sourceRoot, next, fs)
	if err != nil {
		t.Fatalf("second ComputeDiff failed: %v", err)
	}
	actions2 := Plan(diff2, "/dest2/r")
	assertActions(t, actions2, []CopyAction{
		{Kind: SymlinkCopy, SourceLocation: "/dest/r", DestinationLocation: "/dest2/r", RelPath: "r"},
	})
}

// Property 6: no two actions share a destination relative path.
func TestPropertyNoDuplicateDestinations(t *testing.T) {
	t0 := time.Unix(1000, 0)
	t1 := t0.Add(time.Second)
	sourceRoot := NewRoot("/x/y/r")
	fs := newMemFS()
	fs.put(sourceRoot.Resolve("r/a/1"), H("1"), t1)
	fs.put(sourceRoot.Resolve("r/a/2"), H("2new"), t1)
	fs.put(sourceRoot.Resolve("r/b/3"), H("3"), t1)

	prior := priorStateWith("/prior/r",
		NewFileState("r/a/1", t0, H("1")),
		NewFileState("r/a/2", t0, H("2old")),
		NewFileState("r/b/3", t0, H("3")),
	)

	diff, err := ComputeDiff(sourceRoot, prior, fs)
	if err != nil {
		t.Fatalf("ComputeDiff failed: %v", err)
	}
	actions := Plan(diff, "/dest/r")

	seen := make(map[RelativePath]bool)
	for _, a := range actions {
		if seen[a.RelPath] {
			t.Fatalf("duplicate destination relPath %s", a.RelPath)
		}
		seen[a.RelPath] = true
	}
}

// Per-file classification errors are isolated: one unreadable file does not
// abort the run, and it is both dropped from the new state and counted.
func TestPerFileErrorIsIsolated(t *testing.T) {
	t0 := time.Unix(1000, 0)
	sourceRoot := NewRoot("/x/y/r")
	fs := newMemFS()
	good := sourceRoot.Resolve("r/good")
	bad := sourceRoot.Resolve("r/bad")
	fs.put(good, H("g"), t0)
	fs.put(bad, H("b"), t0)
	fs.failOn[bad] = true

	diff, err := ComputeDiff(sourceRoot, EmptyFileSystemState("/prior"), fs)
	if err != nil {
		t.Fatalf("ComputeDiff failed: %v", err)
	}
	if diff.Errors != 1 {
		t.Fatalf("expected 1 error, got %d", diff.Errors)
	}
	if _, ok := diff.NewState.Get("r/bad"); ok {
		t.Fatalf("errored path must not appear in new state")
	}
	if entry := diff.Entries["r/bad"]; entry.Classification != Error {
		t.Fatalf("expected Error classification, got %s", entry.Classification)
	}
	if _, ok := diff.NewState.Get("r/good"); !ok {
		t.Fatalf("good path must still be classified")
	}
}

// Determinism: running the diff twice against identical accessor state
// yields equal CopyAction sets and equal DiffCounts (property 3).
func TestDeterminismAcrossRepeatedRuns(t *testing.T) {
	t0 := time.Unix(1000, 0)
	t1 := t0.Add(time.Second)
	sourceRoot := NewRoot("/x/y/r")
	fs := newMemFS()
	fs.put(sourceRoot.Resolve("r/a/1"), H("1new"), t1)
	fs.put(sourceRoot.Resolve("r/b/2"), H("2"), t1)

	prior := priorStateWith("/prior/r",
		NewFileState("r/a/1", t0, H("1old")),
		NewFileState("r/b/2", t0, H("2")),
	)

	diff1, _ := ComputeDiff(sourceRoot, prior, fs)
	actions1 := Plan(diff1, "/dest/r")
	counts1 := ComputeCounts(diff1, actions1)

	diff2, _ := ComputeDiff(sourceRoot, prior, fs)
	actions2 := Plan(diff2, "/dest/r")
	counts2 := ComputeCounts(diff2, actions2)

	assertActions(t, actions1, actions2)
	assertCounts(t, counts1, counts2)
}
