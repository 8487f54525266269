// Package core implements the differencing and copy-planning engine at the
// heart of CopySnap: walking a source tree, classifying each file against a
// prior recorded state, and computing the minimal set of copy actions
// (plain copies or symbolic-link aliases into the prior snapshot) needed to
// materialize a new snapshot.
//
// The package is deliberately independent of any concrete filesystem or
// hashing implementation; all I/O is performed through the FilesystemAccessor
// interface so that the diffing and planning logic can be tested without
// touching a real filesystem.
package core
