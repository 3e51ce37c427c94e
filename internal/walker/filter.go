package walker

import (
	"github.com/bmatcuk/doublestar/v4"
)

// Ignorer decides whether a root-relative slash path is ignored, as a
// parsed .gitignore does.
type Ignorer interface {
	ShouldIgnore(path string, isDir bool) bool
}

// PathFilter prunes the walk with doublestar globs and optional ignore rules,
// all matched against paths relative to the walk root with forward slashes.
type PathFilter struct {
	include []string
	exclude []string
	ignorer Ignorer
}

// NewPathFilter returns nil when there is nothing to filter. A nil
// *PathFilter lets every path through.
func NewPathFilter(include, exclude []string, ignorer Ignorer) *PathFilter {
	if len(include) == 0 && len(exclude) == 0 && ignorer == nil {
		return nil
	}
	return &PathFilter{
		include: append([]string(nil), include...),
		exclude: append([]string(nil), exclude...),
		ignorer: ignorer,
	}
}

// SkipDir reports whether a directory and everything below it is pruned.
// Include patterns never prune directories; they only select files.
func (f *PathFilter) SkipDir(rel string) bool {
	if f == nil {
		return false
	}
	if f.ignorer != nil && f.ignorer.ShouldIgnore(rel, true) {
		return true
	}
	// Check with trailing slash for directory patterns
	return matchAny(f.exclude, rel) || matchAny(f.exclude, rel+"/")
}

// SkipFile reports whether a file is filtered out
func (f *PathFilter) SkipFile(rel string) bool {
	if f == nil {
		return false
	}
	if f.ignorer != nil && f.ignorer.ShouldIgnore(rel, false) {
		return true
	}
	if matchAny(f.exclude, rel) {
		return true
	}
	return len(f.include) > 0 && !matchAny(f.include, rel)
}

func matchAny(patterns []string, path string) bool {
	for _, pattern := range patterns {
		// Patterns are validated with the config; a bad one simply never matches
		if matched, err := doublestar.Match(pattern, path); err == nil && matched {
			return true
		}
	}
	return false
}
