package core

import (
	"bytes"
	"errors"
	"io"
	"time"
)

// memFile is a single regular file in a memFS. Its checksum is supplied
// directly by the test rather than derived from content, since these tests
// exercise the engine's classification and planning logic against the
// accessor interface, not any particular hash algorithm (spec.md §1 scopes
// checksum-algorithm selection out of the core).
type memFile struct {
	checksum Checksum
	mtime    time.Time
}

// memFS is an in-memory FilesystemAccessor used to drive the engine through
// the scenarios in spec.md §8 without touching a real filesystem.
type memFS struct {
	files  map[string]*memFile
	failOn map[string]bool

	// The following record activity for action-execution tests; they play
	// no role in diffing/planning tests.
	createdDirs []string
	symlinks    map[string]string
	outMTime    time.Time
}

func newMemFS() *memFS {
	return &memFS{
		files:    make(map[string]*memFile),
		failOn:   make(map[string]bool),
		symlinks: make(map[string]string),
		outMTime: time.Unix(5000, 0),
	}
}

func (m *memFS) put(absPath string, checksum Checksum, mtime time.Time) {
	m.files[absPath] = &memFile{checksum: checksum, mtime: mtime}
}

var errSimulatedIO = errors.New("simulated I/O failure")

type memSequence struct {
	paths []string
	idx   int
}

func (s *memSequence) Next() (string, error) {
	if s.idx >= len(s.paths) {
		return "", io.EOF
	}
	p := s.paths[s.idx]
	s.idx++
	return p, nil
}

func (s *memSequence) Close() error { return nil }

func (m *memFS) FindFiles(absDir string) (FileSequence, error) {
	var paths []string
	for p := range m.files {
		if p == absDir || hasPathPrefix(p, absDir) {
			paths = append(paths, p)
		}
	}
	return &memSequence{paths: paths}, nil
}

func hasPathPrefix(p, prefix string) bool {
	if len(p) <= len(prefix) {
		return false
	}
	if p[:len(prefix)] != prefix {
		return false
	}
	sep := p[len(prefix)]
	return sep == '/' || sep == '\\'
}

func (m *memFS) GetLastModifiedTime(absPath string) (time.Time, error) {
	if m.failOn[absPath] {
		return time.Time{}, errSimulatedIO
	}
	f, ok := m.files[absPath]
	if !ok {
		return time.Time{}, errors.New("no such file: " + absPath)
	}
	return f.mtime, nil
}

func (m *memFS) AreChecksumsEqual(expected Checksum, absPath string) (bool, error) {
	if m.failOn[absPath] {
		return false, errSimulatedIO
	}
	f, ok := m.files[absPath]
	if !ok {
		return false, errors.New("no such file: " + absPath)
	}
	return bytes.Equal(expected, f.checksum), nil
}

func (m *memFS) ComputeChecksum(absPath string) (Checksum, error) {
	if m.failOn[absPath] {
		return nil, errSimulatedIO
	}
	f, ok := m.files[absPath]
	if !ok {
		return nil, errors.New("no such file: " + absPath)
	}
	return f.checksum, nil
}

func (m *memFS) CreateDirectories(absPath string) error {
	if m.failOn[absPath] {
		return errSimulatedIO
	}
	m.createdDirs = append(m.createdDirs, absPath)
	return nil
}

func (m *memFS) CreateSymbolicLink(linkPath, targetPath string) error {
	if m.failOn[linkPath] {
		return errSimulatedIO
	}
	m.symlinks[linkPath] = targetPath
	return nil
}

func (m *memFS) OpenInputStream(absPath string) (io.ReadCloser, error) {
	if m.failOn[absPath] {
		return nil, errSimulatedIO
	}
	f, ok := m.files[absPath]
	if !ok {
		return nil, errors.New("no such file: " + absPath)
	}
	return io.NopCloser(bytes.NewReader(f.checksum)), nil
}

func (m *memFS) OpenOutputStream(absPath string) (io.WriteCloser, error) {
	if m.failOn[absPath] {
		return nil, errSimulatedIO
	}
	return &memWriter{fs: m, absPath: absPath}, nil
}

// memWriter captures bytes written to a destination path and, on Close,
// materializes a memFile for it so that a subsequent GetLastModifiedTime or
// ComputeChecksum against that same path (as CopyAction.Execute performs
// after a plain copy) succeeds.
type memWriter struct {
	fs      *memFS
	absPath string
	buf     bytes.Buffer
}

func (w *memWriter) Write(p []byte) (int, error) { return w.buf.Write(p) }

func (w *memWriter) Close() error {
	w.fs.put(w.absPath, Checksum(append([]byte(nil), w.buf.Bytes()...)), w.fs.outMTime)
	return nil
}

// H mirrors the spec's H("...") notation for test readability: an opaque
// checksum value derived from a label, not from any real file content.
func H(s string) Checksum {
	return Checksum([]byte("H:" + s))
}
