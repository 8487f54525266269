package logging

import "fmt"

// Level controls how much of a snapshot run narrates itself. Unlike the
// teacher's Level, which a process-wide flag gates through a single global
// (mutagen.DebugEnabled) and which carries a sixth LevelTrace for its
// agent/transport internals, copysnap has no comparable wire-protocol
// layer to trace: a Logger here is a per-run value (see Logger.level in
// logger.go), and the levels below are sized to what one snapshot run
// actually reports.
type Level uint

const (
	// LevelDisabled silences the logger entirely; every Logger method
	// becomes a no-op.
	LevelDisabled Level = iota
	// LevelError enables only Logger.Error. A failing run does not log
	// through the Logger: its error is returned to the caller, and the CLI
	// prints it to standard error itself.
	LevelError
	// LevelWarn additionally enables Logger.Warn. Files that fail
	// classification are not logged individually; they are only counted in
	// DiffCounts.Errors.
	LevelWarn
	// LevelInfo additionally reports the shape of a completed run: the
	// published snapshot directory and its end-of-run DiffCounts summary.
	// This is the default level for `copysnap snapshot`.
	LevelInfo
	// LevelDebug additionally reports the configuration file a run loaded
	// from and every planned CopyAction (plain copy or symlink alias), all
	// logged before the plan executes, for diagnosing why a particular path was or wasn't
	// aliased into the prior snapshot.
	LevelDebug
)

// levelNames holds the canonical name for each Level, indexed by its value,
// so NameToLevel and String share one table instead of two parallel
// switches.
var levelNames = [...]string{
	LevelDisabled: "disabled",
	LevelError:    "error",
	LevelWarn:     "warn",
	LevelInfo:     "info",
	LevelDebug:    "debug",
}

// NameToLevel converts a --log-level flag value to a Level. It returns false
// for any name outside levelNames, in which case LevelDisabled is returned.
func NameToLevel(name string) (Level, bool) {
	for value, candidate := range levelNames {
		if candidate == name {
			return Level(value), true
		}
	}
	return LevelDisabled, false
}

// String implements fmt.Stringer.
func (l Level) String() string {
	if int(l) < len(levelNames) {
		return levelNames[l]
	}
	return fmt.Sprintf("level(%d)", uint(l))
}
