package core

// DiffCounts is a reporting-only summary of a diff's outcome; no planning or
// execution logic depends on it. Field order and meaning are fixed by
// spec.md §6 and §9: (errors, removed, plainCopies, symlinkCopies,
// totalProcessed). TotalProcessed is the reserved fifth slot: every
// concrete value in spec.md's scenarios is 0 regardless of how many files
// were processed, so this implementation never populates it (see
// SPEC_FULL.md's Open Question resolution). It is kept as a field so a
// future version can start reporting a real total without changing the
// struct's shape.
//
// PlainCopies and SymlinkCopies are filled in once a CopyAction plan has
// been computed from the diff (see ComputeCounts); a DiffCounts produced
// directly from classification alone leaves both at zero.
type DiffCounts struct {
	Errors         int
	Removed        int
	PlainCopies    int
	SymlinkCopies  int
	TotalProcessed int
}
