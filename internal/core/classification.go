package core

// Classification is the outcome of comparing one path's current state
// against its prior recorded state.
type Classification int

const (
	// New indicates a path with no prior recorded state.
	New Classification = iota
	// Changed indicates a path whose content checksum differs from the
	// prior recorded state.
	Changed
	// Unchanged indicates a path whose content is identical to the prior
	// recorded state, determined via the modification-time fast path.
	Unchanged
	// UnchangedButTouched indicates a path whose modification time advanced
	// but whose content checksum is unchanged from the prior recorded
	// state. For planning purposes this is treated identically to
	// Unchanged; it exists only so callers can distinguish a cheap mtime
	// match from an expensive content re-verification.
	UnchangedButTouched
	// Removed indicates a path recorded in the prior state that was not
	// found while enumerating the current source tree.
	Removed
	// Error indicates that classifying a path failed due to an I/O error.
	// The path is omitted from the new FileSystemState and reported in
	// DiffCounts, but the diff as a whole continues.
	Error
)

// String renders a Classification for diagnostics.
func (c Classification) String() string {
	switch c {
	case New:
		return "NEW"
	case Changed:
		return "CHANGED"
	case Unchanged:
		return "UNCHANGED"
	case UnchangedButTouched:
		return "UNCHANGED_BUT_TOUCHED"
	case Removed:
		return "REMOVED"
	case Error:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// treatedAsUnchanged reports whether this classification should be treated
// as Unchanged for the purposes of subtree alias promotion (spec.md §4.E).
func (c Classification) treatedAsUnchanged() bool {
	return c == Unchanged || c == UnchangedButTouched
}

// ClassifiedEntry is the per-path result of diffing, carrying the new
// FileState for every classification except Removed and Error.
type ClassifiedEntry struct {
	RelPath        RelativePath
	Classification Classification
	NewState       *FileState
}
