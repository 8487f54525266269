// Package ignore implements glob-based exclusion of paths from a snapshot,
// a supplemental feature not named in spec.md but a direct extension of
// scanning a real source tree (see SPEC_FULL.md's "Supplemental feature:
// ignore patterns"). It is grounded on the shape of the teacher's own
// pkg/synchronization/core/ignore package: a compiled Matcher consulted
// during enumeration, independent of the classification/planning logic.
package ignore

import "github.com/bmatcuk/doublestar/v4"

// Matcher reports whether a root-relative, forward-slash path should be
// excluded from a snapshot.
type Matcher interface {
	// Matches reports whether relPath (forward-slash separated, relative to
	// the directory being scanned) should be ignored.
	Matches(relPath string) bool
}

// None returns a Matcher that never ignores anything, used when no ignore
// patterns are configured.
func None() Matcher {
	return matcherFunc(func(string) bool { return false })
}

type matcherFunc func(string) bool

func (f matcherFunc) Matches(relPath string) bool { return f(relPath) }

// patternMatcher matches a path against a fixed list of doublestar glob
// patterns. A path is ignored if any pattern matches either the full path
// or any of its path segments (so a bare pattern like ".git" excludes a
// ".git" directory no matter how deep it is nested, matching the common
// expectation set by .gitignore-style tools).
type patternMatcher struct {
	patterns []string
}

// Compile validates and compiles a list of doublestar glob patterns into a
// Matcher. An invalid pattern is reported immediately rather than surfacing
// as a runtime match failure later.
func Compile(patterns []string) (Matcher, error) {
	compiled := make([]string, 0, len(patterns))
	for _, p := range patterns {
		if p == "" {
			continue
		}
		if !doublestar.ValidatePattern(p) {
			return nil, &InvalidPatternError{Pattern: p}
		}
		compiled = append(compiled, p)
	}
	if len(compiled) == 0 {
		return None(), nil
	}
	return &patternMatcher{patterns: compiled}, nil
}

// InvalidPatternError reports a malformed glob pattern.
type InvalidPatternError struct {
	Pattern string
}

func (e *InvalidPatternError) Error() string {
	return "ignore: invalid glob pattern: " + e.Pattern
}

func (m *patternMatcher) Matches(relPath string) bool {
	for _, pattern := range m.patterns {
		if ok, _ := doublestar.Match(pattern, relPath); ok {
			return true
		}
		if matchesAnySegment(pattern, relPath) {
			return true
		}
	}
	return false
}

// matchesAnySegment reports whether pattern matches the base name of any
// path-segment prefix of relPath, letting a pattern like "node_modules"
// exclude that directory wherever it occurs rather than only at the root.
func matchesAnySegment(pattern, relPath string) bool {
	start := 0
	for i := 0; i <= len(relPath); i++ {
		if i == len(relPath) || relPath[i] == '/' {
			segment := relPath[start:i]
			if segment != "" {
				if ok, _ := doublestar.Match(pattern, segment); ok {
					return true
				}
			}
			start = i + 1
		}
	}
	return false
}
