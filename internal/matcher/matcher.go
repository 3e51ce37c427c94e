// Package matcher compiles the two user-supplied patterns of a search: the
// filename filter and the content pattern. Both are case-insensitive and
// safe for concurrent use once constructed.
package matcher

import (
	"regexp"

	searcherrors "github.com/standardbeagle/searcher/internal/errors"
)

const caseInsensitiveFlag = "(?i)"

// NameFilter decides which bare filenames are scanned.
type NameFilter struct {
	pattern  string
	compiled *regexp.Regexp
}

// NewNameFilter compiles pattern case-insensitively. An invalid pattern
// returns a *errors.PatternError.
func NewNameFilter(pattern string) (*NameFilter, error) {
	compiled, err := regexp.Compile(caseInsensitiveFlag + pattern)
	if err != nil {
		return nil, searcherrors.NewPatternError("filename", pattern, err)
	}
	return &NameFilter{pattern: pattern, compiled: compiled}, nil
}

// Matches reports whether filename contains a match anywhere.
func (f *NameFilter) Matches(filename string) bool {
	return f.compiled.MatchString(filename)
}

// Pattern returns the pattern as supplied by the user
func (f *NameFilter) Pattern() string {
	return f.pattern
}

// ContentMatcher finds the first match of the content pattern in a line.
type ContentMatcher struct {
	pattern  string
	compiled *regexp.Regexp
}

// NewContentMatcher compiles pattern case-insensitively and wrapped in a
// group, so alternations stay scoped to the user's pattern.
func NewContentMatcher(pattern string) (*ContentMatcher, error) {
	compiled, err := regexp.Compile(caseInsensitiveFlag + "(" + pattern + ")")
	if err != nil {
		return nil, searcherrors.NewPatternError("content", pattern, err)
	}
	return &ContentMatcher{pattern: pattern, compiled: compiled}, nil
}

// FirstMatch returns the byte offsets of the leftmost match in line.
// Later matches on the same line are never reported.
func (m *ContentMatcher) FirstMatch(line []byte) (start, end int, ok bool) {
	loc := m.compiled.FindIndex(line)
	if loc == nil {
		return 0, 0, false
	}
	return loc[0], loc[1], true
}

// Pattern returns the pattern as supplied by the user
func (m *ContentMatcher) Pattern() string {
	return m.pattern
}
