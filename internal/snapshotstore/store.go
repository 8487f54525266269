// Package snapshotstore manages the on-disk directory of snapshots that
// internal/core deliberately stays agnostic to (spec.md §1 excludes
// "management of snapshot directories on disk" from the core's concerns).
// It drives the engine end to end — load prior state, diff, plan, execute,
// persist — and publishes each new snapshot directory atomically via a
// rename, the same temp-then-rename idiom the teacher uses for individual
// files in filesystem/atomic.go, applied here at directory granularity
// (mirroring pkg/filesystem/directory_rename_posix.go's rename-based
// directory replacement).
package snapshotstore

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/johannesbuchholz/copysnap/internal/core"
	"github.com/johannesbuchholz/copysnap/internal/logging"
)

// snapshotDirLayout names snapshot directories by their creation instant in
// UTC, sortable lexically in creation order.
const snapshotDirLayout = "20060102T150405Z"

const (
	stateFileName  = ".state.yaml"
	latestLinkName = "latest"
)

// Store manages the snapshot directories beneath a single root directory.
type Store struct {
	rootDir string
	logger  *logging.Logger
}

// New constructs a Store rooted at rootDir. A relative rootDir is resolved
// against the current working directory. rootDir is created on first use if
// it does not already exist.
func New(rootDir string, logger *logging.Logger) *Store {
	if abs, err := filepath.Abs(rootDir); err == nil {
		rootDir = abs
	}
	return &Store{rootDir: rootDir, logger: logger}
}

// RootDir returns the absolute path of the store's root directory.
func (s *Store) RootDir() string { return s.rootDir }

// Result summarizes one completed Create run.
type Result struct {
	// SnapshotDir is the absolute path of the newly published snapshot
	// directory.
	SnapshotDir string
	// Counts is the reporting summary for this run (spec.md §6).
	Counts core.DiffCounts
	// Actions is the plan that was executed, for diagnostics.
	Actions []core.CopyAction
}

// Create runs one full snapshot cycle against sourceDir: load the prior
// state from the most recent snapshot (or start from empty if this is the
// first run), diff the current tree against it, plan and execute the
// resulting copy actions into a new snapshot directory, persist the
// resulting state, and atomically publish the directory and the "latest"
// pointer. now is accepted as a parameter, rather than read internally via
// time.Now, so that snapshot naming is deterministic in tests.
func (s *Store) Create(sourceDir string, fsa core.FilesystemAccessor, now time.Time) (Result, error) {
	if err := os.MkdirAll(s.rootDir, 0o755); err != nil {
		return Result{}, errors.Wrapf(err, "create store root %q", s.rootDir)
	}

	sourceRoot := core.NewRoot(sourceDir)

	prior, err := s.loadLatestState(sourceRoot.Location)
	if err != nil {
		return Result{}, errors.Wrap(err, "load prior state")
	}

	stagingDir := filepath.Join(s.rootDir, "."+uuid.NewString()+".tmp")
	finalDir := filepath.Join(s.rootDir, now.UTC().Format(snapshotDirLayout))

	if err := os.MkdirAll(stagingDir, 0o755); err != nil {
		return Result{}, errors.Wrapf(err, "create staging directory %q", stagingDir)
	}

	diff, err := core.ComputeDiff(sourceRoot, prior, fsa)
	if err != nil {
		_ = os.RemoveAll(stagingDir)
		return Result{}, errors.Wrap(err, "compute diff")
	}

	actions := core.Plan(diff, stagingDir)
	for _, action := range actions {
		s.logger.Debugf("%s %s", action.Kind, action.RelPath)
	}
	if err := core.Execute(actions, fsa); err != nil {
		_ = os.RemoveAll(stagingDir)
		return Result{}, errors.Wrap(err, "execute copy plan")
	}
	counts := core.ComputeCounts(diff, actions)

	nextState := core.NextPriorState(diff, finalDir)
	if err := writeState(filepath.Join(stagingDir, stateFileName), nextState); err != nil {
		_ = os.RemoveAll(stagingDir)
		return Result{}, errors.Wrap(err, "persist snapshot state")
	}

	if err := os.Rename(stagingDir, finalDir); err != nil {
		_ = os.RemoveAll(stagingDir)
		return Result{}, errors.Wrapf(err, "publish snapshot directory %q", finalDir)
	}
	s.logger.Printf("published snapshot %s (%d plain, %d symlink, %d removed, %d errors)",
		finalDir, counts.PlainCopies, counts.SymlinkCopies, counts.Removed, counts.Errors)

	if err := s.updateLatestLink(finalDir); err != nil {
		return Result{}, errors.Wrap(err, "update latest pointer")
	}

	return Result{SnapshotDir: finalDir, Counts: counts, Actions: actions}, nil
}

// updateLatestLink atomically repoints the store's "latest" symlink at
// snapshotDir: a new symlink is created under a temporary name and renamed
// over the existing one, so a reader never observes a missing or
// half-updated pointer.
func (s *Store) updateLatestLink(snapshotDir string) error {
	linkPath := filepath.Join(s.rootDir, latestLinkName)
	tmpLinkPath := linkPath + "." + uuid.NewString() + ".tmp"

	if err := os.Symlink(snapshotDir, tmpLinkPath); err != nil {
		return errors.Wrapf(err, "create temporary link %q", tmpLinkPath)
	}
	if err := os.Rename(tmpLinkPath, linkPath); err != nil {
		_ = os.Remove(tmpLinkPath)
		return errors.Wrapf(err, "rename latest link into place")
	}
	return nil
}

// loadLatestState reads the most recently published snapshot's state, or
// returns an empty state anchored at sourceLocation if no snapshot has been
// published yet.
func (s *Store) loadLatestState(sourceLocation string) (core.FileSystemState, error) {
	linkPath := filepath.Join(s.rootDir, latestLinkName)

	target, err := os.Readlink(linkPath)
	if err != nil {
		if os.IsNotExist(err) {
			return core.EmptyFileSystemState(sourceLocation), nil
		}
		return core.FileSystemState{}, errors.Wrapf(err, "read latest pointer %q", linkPath)
	}

	state, err := readState(filepath.Join(target, stateFileName))
	if err != nil {
		return core.FileSystemState{}, errors.Wrapf(err, "read state for snapshot %q", target)
	}
	return state, nil
}

// List returns every published snapshot directory name beneath the store's
// root, sorted oldest first (snapshotDirLayout sorts lexically in creation
// order).
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.rootDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "list store root %q", s.rootDir)
	}

	var names []string
	for _, e := range entries {
		if !e.IsDir() || e.Name() == latestLinkName {
			continue
		}
		if _, err := time.Parse(snapshotDirLayout, e.Name()); err != nil {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names, nil
}

// LoadState loads the persisted FileSystemState for a named snapshot
// (one of the names List returns).
func (s *Store) LoadState(name string) (core.FileSystemState, error) {
	state, err := readState(filepath.Join(s.rootDir, name, stateFileName))
	if err != nil {
		return core.FileSystemState{}, fmt.Errorf("load state for snapshot %q: %w", name, err)
	}
	return state, nil
}
