// Package report renders a core.DiffCounts as a human-readable end-of-run
// summary, the way the teacher's cmd/mutagen/sync/list.go formats sync
// session state for a terminal: byte-ish counts through
// github.com/dustin/go-humanize rather than hand-rolled pluralization.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/johannesbuchholz/copysnap/internal/core"
)

// Summary renders counts and the time a run took into a multi-line, terminal-
// friendly report.
func Summary(snapshotDir string, counts core.DiffCounts, elapsed time.Duration) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Snapshot: %s\n", snapshotDir)
	fmt.Fprintf(&b, "  copied:    %s\n", humanize.Comma(int64(counts.PlainCopies)))
	fmt.Fprintf(&b, "  aliased:   %s\n", humanize.Comma(int64(counts.SymlinkCopies)))
	fmt.Fprintf(&b, "  removed:   %s\n", humanize.Comma(int64(counts.Removed)))
	fmt.Fprintf(&b, "  errors:    %s\n", humanize.Comma(int64(counts.Errors)))
	fmt.Fprintf(&b, "  took:      %s\n", elapsed.Round(time.Millisecond))
	return b.String()
}

// OneLine renders a condensed single-line summary, suitable for logging.
func OneLine(counts core.DiffCounts) string {
	return fmt.Sprintf("%s copied, %s aliased, %s removed, %s errors",
		humanize.Comma(int64(counts.PlainCopies)),
		humanize.Comma(int64(counts.SymlinkCopies)),
		humanize.Comma(int64(counts.Removed)),
		humanize.Comma(int64(counts.Errors)))
}
