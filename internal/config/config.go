package config

import (
	"os"
	"path/filepath"

	"github.com/standardbeagle/searcher/internal/debug"
)

// FileName is the per-project (and per-user, in $HOME) config file name
const FileName = ".searcher.kdl"

// Color modes accepted by Search.Color
const (
	ColorAlways = "always"
	ColorAuto   = "auto"
	ColorNever  = "never"
)

type Config struct {
	Version int
	Project Project
	Search  Search
	Walk    Walk
	Include []string // doublestar globs; empty means every file
	Exclude []string // doublestar globs, matched against root-relative paths
}

type Project struct {
	Root string
}

type Search struct {
	Color string // "always", "auto" or "never"
	Stats bool   // Print a run summary to stderr
}

type Walk struct {
	RespectGitignore   bool // Prune paths ignored by the root .gitignore
	SkipBuildArtifacts bool // Exclude build output dirs detected from project manifests
}

// Default returns the configuration used when no config file exists. It
// filters nothing, so every file under root is a candidate.
func Default(root string) *Config {
	return &Config{
		Version: 1,
		Project: Project{Root: root},
		Search: Search{
			Color: ColorAlways,
		},
		Include: []string{},
		Exclude: []string{},
	}
}

// Load builds the configuration for a search rooted at root.
//
// Layering: defaults, then $HOME/.searcher.kdl, then the project file. The
// project file is configPath when non-empty, otherwise root/.searcher.kdl.
// Missing files are skipped; a file that exists but cannot be parsed is an error.
func Load(configPath, root string) (*Config, error) {
	cfg := Default(root)

	if homeDir, err := os.UserHomeDir(); err == nil {
		globalPath := filepath.Join(homeDir, FileName)
		if !samePath(globalPath, projectConfigPath(configPath, root)) {
			if _, err := LoadKDLInto(cfg, globalPath); err != nil {
				return nil, err
			}
		}
	}

	loaded, err := LoadKDLInto(cfg, projectConfigPath(configPath, root))
	if err != nil {
		return nil, err
	}
	if loaded {
		debug.LogConfig("loaded project config for %s\n", root)
	}

	return cfg, nil
}

func projectConfigPath(configPath, root string) string {
	if configPath != "" {
		return configPath
	}
	return filepath.Join(root, FileName)
}

func samePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	return errA == nil && errB == nil && absA == absB
}

// EnrichExclusionsWithBuildArtifacts detects build output directories from
// project manifests and adds them to the exclusion list
func (c *Config) EnrichExclusionsWithBuildArtifacts() {
	if c.Project.Root == "" {
		return
	}

	detector := NewBuildArtifactDetector(c.Project.Root)
	detectedPatterns := detector.DetectOutputDirectories()

	if len(detectedPatterns) > 0 {
		debug.LogConfig("detected build artifact exclusions: %v\n", detectedPatterns)
		c.Exclude = DeduplicatePatterns(append(c.Exclude, detectedPatterns...))
	}
}

// DeduplicatePatterns removes duplicate patterns, keeping first occurrences in order
func DeduplicatePatterns(patterns []string) []string {
	seen := make(map[string]bool)
	result := make([]string, 0, len(patterns))

	for _, pattern := range patterns {
		if !seen[pattern] {
			seen[pattern] = true
			result = append(result, pattern)
		}
	}

	return result
}
