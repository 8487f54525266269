package core

import "sort"

// dirNode accumulates the facts the planner needs to decide whether a
// directory is purely-unchanged: whether it has any current file beneath it
// at all, whether any current descendant is New or Changed, and whether any
// prior descendant was Removed.
type dirNode struct {
	hasCurrentDescendant bool
	hasDivergentDescendant bool
	hasRemovedDescendant   bool
}

// planner accumulates the directory tree induced by a FileSystemDiff and
// recursively promotes purely-unchanged subtrees to single Symlink actions.
type planner struct {
	diff        FileSystemDiff
	destination string

	dirs       map[RelativePath]*dirNode
	childDirs  map[RelativePath]map[RelativePath]struct{}
	filesByDir map[RelativePath][]ClassifiedEntry
}

// Plan converts a classified FileSystemDiff into the minimal set of
// CopyActions that materialize destination as a correct copy of the current
// source tree, promoting whole unchanged subtrees to a single symlink alias
// wherever that is safe (spec.md §4.F). Plan is a pure function of its
// inputs: it performs no I/O.
func Plan(diff FileSystemDiff, destination string) []CopyAction {
	p := &planner{
		diff:        diff,
		destination: destination,
		dirs:        make(map[RelativePath]*dirNode),
		childDirs:   make(map[RelativePath]map[RelativePath]struct{}),
		filesByDir:  make(map[RelativePath][]ClassifiedEntry),
	}
	p.build()

	var actions []CopyAction
	for _, top := range p.topLevelDirs() {
		actions = append(actions, p.promote(top)...)
	}
	return actions
}

// build populates the directory-tree bookkeeping from every current file and
// every removed entry in the diff.
func (p *planner) build() {
	for _, rel := range p.diff.NewState.Paths() {
		entry := p.diff.Entries[rel]
		dir := pathDir(rel)
		p.filesByDir[dir] = append(p.filesByDir[dir], entry)
		p.markAncestors(rel, func(n *dirNode) {
			n.hasCurrentDescendant = true
			if !entry.Classification.treatedAsUnchanged() {
				n.hasDivergentDescendant = true
			}
		})
	}

	for _, entry := range p.diff.Entries {
		if entry.Classification != Removed {
			continue
		}
		p.markAncestors(entry.RelPath, func(n *dirNode) {
			n.hasRemovedDescendant = true
		})
	}
}

// markAncestors walks every ancestor directory of path (from its immediate
// parent up to the top-level root directory, inclusive) applying fn to each
// directory's node, creating nodes and parent/child links on first visit.
func (p *planner) markAncestors(path RelativePath, fn func(*dirNode)) {
	for dir := pathDir(path); dir != ""; dir = pathDir(dir) {
		node, ok := p.dirs[dir]
		if !ok {
			node = &dirNode{}
			p.dirs[dir] = node
		}
		fn(node)

		parent := pathDir(dir)
		if _, ok := p.childDirs[parent]; !ok {
			p.childDirs[parent] = make(map[RelativePath]struct{})
		}
		p.childDirs[parent][dir] = struct{}{}
	}
}

// topLevelDirs returns the distinct root-dir-level directories touched by
// this diff (normally exactly one: the source root's root-dir name), sorted
// for deterministic output.
func (p *planner) topLevelDirs() []RelativePath {
	tops := p.childDirs[""]
	result := make([]RelativePath, 0, len(tops))
	for dir := range tops {
		result = append(result, dir)
	}
	sort.Slice(result, func(i, j int) bool { return result[i] < result[j] })
	return result
}

// purelyUnchanged reports whether directory D (which must have at least one
// current file beneath it) contains no New/Changed current descendant and
// no Removed prior descendant.
func (p *planner) purelyUnchanged(dir RelativePath) bool {
	node := p.dirs[dir]
	if node == nil {
		return false
	}
	return node.hasCurrentDescendant && !node.hasDivergentDescendant && !node.hasRemovedDescendant
}

// promote implements the top-down walk from spec.md §4.F and §9: if dir is
// purely-unchanged, emit a single Symlink and stop descending; otherwise
// emit Plain/Symlink actions for its direct files and recurse into child
// directories that still have a current descendant.
func (p *planner) promote(dir RelativePath) []CopyAction {
	if p.purelyUnchanged(dir) {
		return []CopyAction{{
			Kind:                SymlinkCopy,
			SourceLocation:      p.diff.PriorState.Location(),
			DestinationLocation: p.destination,
			RelPath:             dir,
		}}
	}

	var actions []CopyAction
	files := append([]ClassifiedEntry(nil), p.filesByDir[dir]...)
	sort.Slice(files, func(i, j int) bool { return files[i].RelPath < files[j].RelPath })
	for _, entry := range files {
		if entry.Classification.treatedAsUnchanged() {
			actions = append(actions, CopyAction{
				Kind:                SymlinkCopy,
				SourceLocation:      p.diff.PriorState.Location(),
				DestinationLocation: p.destination,
				RelPath:             entry.RelPath,
			})
		} else {
			actions = append(actions, CopyAction{
				Kind:                PlainCopy,
				SourceLocation:      p.diff.NewState.Location(),
				DestinationLocation: p.destination,
				RelPath:             entry.RelPath,
			})
		}
	}

	children := make([]RelativePath, 0, len(p.childDirs[dir]))
	for child := range p.childDirs[dir] {
		children = append(children, child)
	}
	sort.Slice(children, func(i, j int) bool { return children[i] < children[j] })
	for _, child := range children {
		if p.dirs[child].hasCurrentDescendant {
			actions = append(actions, p.promote(child)...)
		}
	}

	return actions
}
