package config

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// GitignoreParser holds the rules of a .gitignore file compiled to doublestar
// globs over root-relative slash paths.
type GitignoreParser struct {
	patterns []GitignorePattern
}

type GitignorePattern struct {
	Pattern   string // as written, minus modifiers
	Negate    bool
	Directory bool // trailing slash: matches directories only
	Anchored  bool // leading or inner slash: relative to the root only

	glob string
}

// NewGitignoreParser creates a new gitignore parser
func NewGitignoreParser() *GitignoreParser {
	return &GitignoreParser{}
}

// LoadGitignore loads patterns from rootPath/.gitignore. A missing file is
// not an error and leaves the parser empty.
func (gp *GitignoreParser) LoadGitignore(rootPath string) error {
	file, err := os.Open(filepath.Join(rootPath, ".gitignore"))
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	defer file.Close()

	return gp.Parse(file)
}

// Parse adds every rule read from r
func (gp *GitignoreParser) Parse(r io.Reader) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		gp.AddPattern(scanner.Text())
	}
	return scanner.Err()
}

// AddPattern adds a single .gitignore line. Blank lines and comments are ignored.
func (gp *GitignoreParser) AddPattern(line string) {
	line = strings.TrimRight(line, " \t\r")
	if line == "" || strings.HasPrefix(line, "#") {
		return
	}
	if p, ok := parsePattern(line); ok {
		gp.patterns = append(gp.patterns, p)
	}
}

// Len returns the number of rules loaded
func (gp *GitignoreParser) Len() int {
	return len(gp.patterns)
}

func parsePattern(line string) (GitignorePattern, bool) {
	var p GitignorePattern

	if strings.HasPrefix(line, "!") {
		p.Negate = true
		line = line[1:]
	} else if strings.HasPrefix(line, `\!`) || strings.HasPrefix(line, `\#`) {
		line = line[1:]
	}

	if strings.HasSuffix(line, "/") {
		p.Directory = true
		line = strings.TrimRight(line, "/")
	}

	if strings.Contains(line, "/") {
		p.Anchored = true
		line = strings.TrimPrefix(line, "/")
	}
	if line == "" {
		return p, false
	}

	p.Pattern = line
	p.glob = line
	if !p.Anchored {
		p.glob = "**/" + line
	}
	if !doublestar.ValidatePattern(p.glob) {
		return p, false
	}
	return p, true
}

// ShouldIgnore reports whether the root-relative path is ignored. A path
// inside an ignored directory is ignored whatever later rules say, as in git.
func (gp *GitignoreParser) ShouldIgnore(path string, isDir bool) bool {
	if len(gp.patterns) == 0 {
		return false
	}
	path = strings.TrimPrefix(filepath.ToSlash(path), "./")

	for i := 0; i < len(path); i++ {
		if path[i] == '/' && gp.match(path[:i], true) {
			return true
		}
	}
	return gp.match(path, isDir)
}

// match applies every rule in order; the last one that matches decides
func (gp *GitignoreParser) match(path string, isDir bool) bool {
	ignored := false
	for _, p := range gp.patterns {
		if p.Directory && !isDir {
			continue
		}
		if ok, _ := doublestar.Match(p.glob, path); ok {
			ignored = !p.Negate
		}
	}
	return ignored
}
