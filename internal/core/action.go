package core

import (
	"fmt"
	"io"
	"path/filepath"
)

// CopyActionKind distinguishes the two ways a CopyAction can materialize a
// path in the new snapshot.
type CopyActionKind int

const (
	// PlainCopy streams the current file's bytes to the destination.
	PlainCopy CopyActionKind = iota
	// SymlinkCopy creates a symbolic link at the destination pointing into
	// the prior snapshot.
	SymlinkCopy
)

// String renders a CopyActionKind for diagnostics.
func (k CopyActionKind) String() string {
	switch k {
	case PlainCopy:
		return "Plain"
	case SymlinkCopy:
		return "Symlink"
	default:
		return "Unknown"
	}
}

// CopyAction is a single planned step toward materializing a new snapshot:
// either a plain file copy from the current source, or a symbolic-link
// alias into the prior snapshot. Equality is structural across every field,
// matching spec.md §3/§6 so that test harnesses can compare plans directly.
type CopyAction struct {
	Kind                CopyActionKind
	SourceLocation      string
	DestinationLocation string
	RelPath             RelativePath
}

// Equal reports structural equality on variant and all three location/path
// fields.
func (a CopyAction) Equal(other CopyAction) bool {
	return a.Kind == other.Kind &&
		a.SourceLocation == other.SourceLocation &&
		a.DestinationLocation == other.DestinationLocation &&
		a.RelPath == other.RelPath
}

func (a CopyAction) sourcePath() string {
	return filepath.Join(a.SourceLocation, filepath.FromSlash(string(a.RelPath)))
}

func (a CopyAction) destinationPath() string {
	return filepath.Join(a.DestinationLocation, filepath.FromSlash(string(a.RelPath)))
}

// Execute performs a single CopyAction against fsa, first ensuring the
// destination's parent directories exist. A PlainCopy returns the FileState
// the copy produced; a SymlinkCopy returns nil, since the files reachable
// through the new symlink retain whatever FileState the prior snapshot
// recorded for them — the caller inherits those from PriorState rather than
// re-deriving them here.
func (a CopyAction) Execute(fsa FilesystemAccessor) (*FileState, error) {
	destPath := a.destinationPath()
	if err := fsa.CreateDirectories(filepath.Dir(destPath)); err != nil {
		return nil, fmt.Errorf("create parent directories for %q: %w", destPath, err)
	}

	switch a.Kind {
	case SymlinkCopy:
		if err := fsa.CreateSymbolicLink(destPath, a.sourcePath()); err != nil {
			return nil, fmt.Errorf("create symlink %q -> %q: %w", destPath, a.sourcePath(), err)
		}
		return nil, nil
	case PlainCopy:
		return a.executePlain(fsa, destPath)
	default:
		return nil, fmt.Errorf("unknown copy action kind %v", a.Kind)
	}
}

func (a CopyAction) executePlain(fsa FilesystemAccessor, destPath string) (*FileState, error) {
	srcPath := a.sourcePath()

	in, err := fsa.OpenInputStream(srcPath)
	if err != nil {
		return nil, fmt.Errorf("open source %q: %w", srcPath, err)
	}
	defer in.Close()

	out, err := fsa.OpenOutputStream(destPath)
	if err != nil {
		return nil, fmt.Errorf("open destination %q: %w", destPath, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return nil, fmt.Errorf("copy %q to %q: %w", srcPath, destPath, err)
	}
	if err := out.Close(); err != nil {
		return nil, fmt.Errorf("close destination %q: %w", destPath, err)
	}

	mtime, err := fsa.GetLastModifiedTime(destPath)
	if err != nil {
		return nil, fmt.Errorf("stat destination %q: %w", destPath, err)
	}
	checksum, err := fsa.ComputeChecksum(destPath)
	if err != nil {
		return nil, fmt.Errorf("checksum destination %q: %w", destPath, err)
	}

	state := NewFileState(a.RelPath, mtime, checksum)
	return &state, nil
}
