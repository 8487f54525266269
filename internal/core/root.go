package core

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Root anchors a tree of relative paths to an absolute location on disk.
// Given an absolute path to a directory "/a/b/c/r", the root's Location is
// "/a/b/c" and its RootDir is "r"; PathToRootDir is "/a/b/c/r". Every
// RelativePath produced against this root begins with RootDir.
type Root struct {
	// Location is the absolute parent directory of the root directory.
	Location string
	// RootDir is the name of the topmost directory anchored by this root.
	RootDir string
}

// NewRoot constructs a Root from the absolute path to a root directory. The
// path is cleaned but not required to exist; existence is a scanning-time
// concern, not a construction-time one.
func NewRoot(pathToRootDir string) Root {
	cleaned := filepath.Clean(pathToRootDir)
	return Root{
		Location: filepath.Dir(cleaned),
		RootDir:  filepath.Base(cleaned),
	}
}

// PathToRootDir returns the absolute path to this root's root directory.
func (r Root) PathToRootDir() string {
	return filepath.Join(r.Location, r.RootDir)
}

// Resolve turns a RelativePath (which must begin with r.RootDir) into an
// absolute path anchored at r.Location.
func (r Root) Resolve(rel RelativePath) string {
	return filepath.Join(r.Location, filepath.FromSlash(string(rel)))
}

// Relativize converts an absolute path beneath r.PathToRootDir() into a
// RelativePath anchored at r.Location. It returns an error if absPath does
// not lie beneath r.Location.
func (r Root) Relativize(absPath string) (RelativePath, error) {
	rel, err := filepath.Rel(r.Location, absPath)
	if err != nil {
		return "", fmt.Errorf("relativize %q against %q: %w", absPath, r.Location, err)
	}
	if rel == "." || strings.HasPrefix(rel, "..") {
		return "", fmt.Errorf("path %q does not lie beneath root location %q", absPath, r.Location)
	}
	return RelativePath(filepath.ToSlash(rel)), nil
}

// RelativePath is a forward-slash-separated path rooted at a Root's parent
// Location, always beginning with the root directory's name. It never
// carries a leading or trailing slash.
type RelativePath string

// pathDir returns the parent of a relative path, or "" if path has no
// parent (i.e. it is a direct child of the root). plan.go's ancestor walk
// (dirNode/childDirs) is the sole caller: it climbs from a changed file up
// to the root one pathDir call at a time to find which directories need a
// fresh subtree rather than a promoted alias.
func pathDir(path RelativePath) RelativePath {
	idx := strings.LastIndexByte(string(path), '/')
	if idx == -1 {
		return ""
	}
	return path[:idx]
}
