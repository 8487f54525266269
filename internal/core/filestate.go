package core

import "time"

// FileState records the recorded state of one regular file at one point in
// time: its path relative to a Root, its last-modified timestamp, and the
// checksum of its content. FileState is immutable once constructed.
type FileState struct {
	relPath      RelativePath
	lastModified time.Time
	checksum     Checksum
}

// NewFileState constructs a FileState. The timestamp is stored exactly as
// given; no truncation or rounding is applied.
func NewFileState(relPath RelativePath, lastModified time.Time, checksum Checksum) FileState {
	return FileState{relPath: relPath, lastModified: lastModified, checksum: checksum}
}

// RelPath returns the path of this file relative to its Root.
func (f FileState) RelPath() RelativePath { return f.relPath }

// LastModified returns the recorded modification timestamp.
func (f FileState) LastModified() time.Time { return f.lastModified }

// Checksum returns the recorded content checksum.
func (f FileState) Checksum() Checksum { return f.checksum }

// Equal reports structural equality: same path, same modification instant,
// same checksum bytes.
func (f FileState) Equal(other FileState) bool {
	return f.relPath == other.relPath &&
		f.lastModified.Equal(other.lastModified) &&
		f.checksum.Equal(other.checksum)
}

// FileSystemState is an immutable, unordered collection of FileState values
// with pairwise-unique relative paths, anchored at a single absolute root
// location. It is built incrementally via FileSystemStateBuilder and then
// frozen; persistence of this value across runs is outside the core's
// concerns (see internal/snapshotstore).
type FileSystemState struct {
	location string
	entries  map[RelativePath]FileState
}

// Location returns the absolute root location the contained paths are
// relative to.
func (s FileSystemState) Location() string { return s.location }

// Get looks up the FileState recorded for relPath, if any.
func (s FileSystemState) Get(relPath RelativePath) (FileState, bool) {
	fs, ok := s.entries[relPath]
	return fs, ok
}

// Len returns the number of recorded file states.
func (s FileSystemState) Len() int { return len(s.entries) }

// Paths returns every relative path recorded in this state, in no
// particular order.
func (s FileSystemState) Paths() []RelativePath {
	paths := make([]RelativePath, 0, len(s.entries))
	for p := range s.entries {
		paths = append(paths, p)
	}
	return paths
}

// Range calls fn for every recorded FileState. Iteration order is
// unspecified.
func (s FileSystemState) Range(fn func(FileState)) {
	for _, fs := range s.entries {
		fn(fs)
	}
}

// FileSystemStateBuilder accumulates FileState values into a new
// FileSystemState. It is the in-memory stand-in the spec calls for in place
// of a persisted representation (format out of scope for the core).
type FileSystemStateBuilder struct {
	location string
	entries  map[RelativePath]FileState
}

// NewFileSystemStateBuilder creates a builder for states anchored at
// location.
func NewFileSystemStateBuilder(location string) *FileSystemStateBuilder {
	return &FileSystemStateBuilder{
		location: location,
		entries:  make(map[RelativePath]FileState),
	}
}

// Add records a FileState in the builder, overwriting any prior entry for
// the same relative path. Callers constructing a FileSystemState from a
// single scan should never hit the overwrite path, since relPaths are
// enumerated once each; it exists so callers merging per-worker partial
// builders can do so without a separate conflict-detection pass.
func (b *FileSystemStateBuilder) Add(fs FileState) {
	b.entries[fs.RelPath()] = fs
}

// Build freezes the builder into a FileSystemState. The builder remains
// usable afterward; subsequent Adds do not affect states already built.
func (b *FileSystemStateBuilder) Build() FileSystemState {
	frozen := make(map[RelativePath]FileState, len(b.entries))
	for k, v := range b.entries {
		frozen[k] = v
	}
	return FileSystemState{location: b.location, entries: frozen}
}

// EmptyFileSystemState returns a FileSystemState with no entries, for use as
// a prior state when no previous snapshot exists.
func EmptyFileSystemState(location string) FileSystemState {
	return FileSystemState{location: location, entries: map[RelativePath]FileState{}}
}
