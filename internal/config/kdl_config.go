package config

import (
	"fmt"
	"os"
	"strings"

	kdl "github.com/sblinch/kdl-go"
	"github.com/sblinch/kdl-go/document"

	searcherrors "github.com/standardbeagle/searcher/internal/errors"
)

// LoadKDLInto applies the KDL file at path on top of cfg. It reports whether
// a file was found; a missing file leaves cfg untouched and is not an error.
func LoadKDLInto(cfg *Config, path string) (bool, error) {
	content, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, searcherrors.NewConfigError("file", path, err)
	}

	if err := parseKDLInto(cfg, string(content)); err != nil {
		return false, searcherrors.NewConfigError("file", path, err)
	}
	return true, nil
}

// parseKDLInto overrides the fields of cfg named in content. Exclusions are
// appended to the ones cfg already has; a non-empty include list replaces it.
//
//	search { color "auto"; stats true }
//	walk { respect_gitignore true; skip_build_artifacts true }
//	include "**/*.go" "**/*.md"
//	exclude { "**/vendor/**" }
func parseKDLInto(cfg *Config, content string) error {
	doc, err := kdl.Parse(strings.NewReader(content))
	if err != nil {
		return fmt.Errorf("failed to parse KDL config: %w", err)
	}

	var includes []string
	for _, n := range doc.Nodes {
		switch nodeName(n) {
		case "search":
			for _, cn := range n.Children {
				switch nodeName(cn) {
				case "color":
					if s, ok := firstStringArg(cn); ok {
						cfg.Search.Color = strings.ToLower(s)
					} else if b, ok := firstBoolArg(cn); ok {
						// color true / color false
						cfg.Search.Color = ColorNever
						if b {
							cfg.Search.Color = ColorAlways
						}
					}
				case "stats":
					if b, ok := firstBoolArg(cn); ok {
						cfg.Search.Stats = b
					}
				}
			}
		case "walk":
			for _, cn := range n.Children {
				switch nodeName(cn) {
				case "respect_gitignore":
					if b, ok := firstBoolArg(cn); ok {
						cfg.Walk.RespectGitignore = b
					}
				case "skip_build_artifacts":
					if b, ok := firstBoolArg(cn); ok {
						cfg.Walk.SkipBuildArtifacts = b
					}
				}
			}
		case "include":
			includes = append(includes, collectStringArgs(n)...)
		case "exclude":
			cfg.Exclude = DeduplicatePatterns(append(cfg.Exclude, collectStringArgs(n)...))
		}
	}

	if len(includes) > 0 {
		cfg.Include = includes
	}
	return nil
}

// Helpers over the kdl-go document model
func nodeName(n *document.Node) string {
	if n == nil || n.Name == nil {
		return ""
	}
	return n.Name.NodeNameString()
}

func firstStringArg(n *document.Node) (string, bool) {
	if len(n.Arguments) == 0 {
		return "", false
	}
	if s, ok := n.Arguments[0].Value.(string); ok {
		return s, true
	}
	return "", false
}

func firstBoolArg(n *document.Node) (bool, bool) {
	if len(n.Arguments) == 0 {
		return false, false
	}
	if b, ok := n.Arguments[0].Value.(bool); ok {
		return b, true
	}
	return false, false
}

func collectStringArgs(n *document.Node) []string {
	if n == nil {
		return nil
	}
	// Inline form: exclude "a" "b"
	out := make([]string, 0, len(n.Arguments))
	for _, a := range n.Arguments {
		if s, ok := a.Value.(string); ok {
			out = append(out, s)
		}
	}

	// Block form: exclude { "a"; "b" }, where each child's name is the value
	if len(out) == 0 && len(n.Children) > 0 {
		for _, child := range n.Children {
			if s, ok := firstStringArg(child); ok {
				out = append(out, s)
			} else if child.Name != nil {
				if s, ok := child.Name.Value.(string); ok {
					out = append(out, s)
				}
			}
		}
	}

	return out
}
