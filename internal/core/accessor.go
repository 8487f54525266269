package core

import (
	"io"
	"time"
)

// FilesystemAccessor is the sole boundary between the diffing/planning
// engine and a real filesystem. Every method may fail with an I/O error; the
// engine treats such failures per the error taxonomy in spec.md §7.
//
// Implementations must be safe to back with OS calls, an in-memory map, or a
// recording mock: the engine never assumes anything about the concrete
// backing store beyond what this interface promises.
type FilesystemAccessor interface {
	// FindFiles enumerates every regular file beneath absDir as absolute
	// paths. The returned sequence is finite and single-pass: callers that
	// need to traverse it more than once must materialize it first.
	FindFiles(absDir string) (FileSequence, error)

	// GetLastModifiedTime returns the last-modified timestamp of the file at
	// absPath.
	GetLastModifiedTime(absPath string) (time.Time, error)

	// AreChecksumsEqual streams the file at absPath and reports whether its
	// content checksum equals expected.
	AreChecksumsEqual(expected Checksum, absPath string) (bool, error)

	// ComputeChecksum streams the file at absPath and returns its content
	// checksum.
	ComputeChecksum(absPath string) (Checksum, error)

	// CreateDirectories ensures that absPath and all of its ancestors exist
	// as directories, creating any that are missing.
	CreateDirectories(absPath string) error

	// CreateSymbolicLink creates a symbolic link at linkPath pointing at
	// targetPath.
	CreateSymbolicLink(linkPath, targetPath string) error

	// OpenInputStream opens absPath for reading.
	OpenInputStream(absPath string) (io.ReadCloser, error)

	// OpenOutputStream opens (creating if necessary) absPath for writing,
	// truncating any existing content.
	OpenOutputStream(absPath string) (io.WriteCloser, error)
}

// FileSequence is a finite, single-pass, non-restartable sequence of
// absolute file paths, as returned by FilesystemAccessor.FindFiles. Order is
// unspecified.
type FileSequence interface {
	// Next advances the sequence and returns the next absolute path. It
	// returns io.EOF once the sequence is exhausted.
	Next() (string, error)

	// Close releases any resources held by the sequence (e.g. open
	// directory handles). It is safe to call Close before the sequence is
	// exhausted and safe to call more than once.
	Close() error
}

// collectFileSequence drains seq into a materialized slice, closing it
// deterministically once consumed. The engine needs the full path set
// before computing REMOVED entries (step 4 of the diff algorithm), so a
// single-pass enumeration must be collected up front.
func collectFileSequence(seq FileSequence) ([]string, error) {
	defer seq.Close()

	var paths []string
	for {
		p, err := seq.Next()
		if err != nil {
			if err == io.EOF {
				return paths, nil
			}
			return nil, err
		}
		paths = append(paths, p)
	}
}
