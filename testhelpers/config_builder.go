// Package testhelpers provides shared utilities for testing searcher
package testhelpers

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/standardbeagle/searcher/internal/config"
)

// TestConfigBuilder provides a fluent API for building test configs, either
// as a *config.Config or as the .searcher.kdl text that loads into one.
// Usage:
//
//	cfg := testhelpers.NewTestConfigBuilder(root).
//		WithExclusions("**/vendor/**").
//		WithColor(config.ColorNever).
//		Build()
type TestConfigBuilder struct {
	projectRoot        string
	color              string
	stats              bool
	respectGitignore   bool
	skipBuildArtifacts bool
	exclusions         []string
	inclusions         []string
}

// NewTestConfigBuilder creates a config builder starting from the defaults
func NewTestConfigBuilder(projectRoot string) *TestConfigBuilder {
	return &TestConfigBuilder{
		projectRoot: projectRoot,
		color:       config.ColorAlways,
	}
}

// WithExclusions adds additional exclusion patterns
func (b *TestConfigBuilder) WithExclusions(patterns ...string) *TestConfigBuilder {
	b.exclusions = append(b.exclusions, patterns...)
	return b
}

// WithIncludePatterns sets the include patterns
func (b *TestConfigBuilder) WithIncludePatterns(patterns ...string) *TestConfigBuilder {
	b.inclusions = patterns
	return b
}

func (b *TestConfigBuilder) WithColor(mode string) *TestConfigBuilder {
	b.color = mode
	return b
}

func (b *TestConfigBuilder) WithStats(enabled bool) *TestConfigBuilder {
	b.stats = enabled
	return b
}

func (b *TestConfigBuilder) WithGitignore(enabled bool) *TestConfigBuilder {
	b.respectGitignore = enabled
	return b
}

func (b *TestConfigBuilder) WithBuildArtifacts(skip bool) *TestConfigBuilder {
	b.skipBuildArtifacts = skip
	return b
}

// Build creates the final test config
func (b *TestConfigBuilder) Build() *config.Config {
	cfg := config.Default(b.projectRoot)
	cfg.Search.Color = b.color
	cfg.Search.Stats = b.stats
	cfg.Walk.RespectGitignore = b.respectGitignore
	cfg.Walk.SkipBuildArtifacts = b.skipBuildArtifacts
	cfg.Include = append(cfg.Include, b.inclusions...)
	cfg.Exclude = append(cfg.Exclude, b.exclusions...)
	return cfg
}

// KDL renders the builder as a config file
func (b *TestConfigBuilder) KDL() string {
	var sb strings.Builder
	sb.WriteString("search {\n")
	sb.WriteString("    color " + kdlString(b.color) + "\n")
	sb.WriteString("    stats " + strconv.FormatBool(b.stats) + "\n")
	sb.WriteString("}\n")
	sb.WriteString("walk {\n")
	sb.WriteString("    respect_gitignore " + strconv.FormatBool(b.respectGitignore) + "\n")
	sb.WriteString("    skip_build_artifacts " + strconv.FormatBool(b.skipBuildArtifacts) + "\n")
	sb.WriteString("}\n")
	writeList(&sb, "include", b.inclusions)
	writeList(&sb, "exclude", b.exclusions)
	return sb.String()
}

// WriteKDL writes the config to dir/.searcher.kdl and returns its path
func (b *TestConfigBuilder) WriteKDL(t testing.TB, dir string) string {
	t.Helper()
	path := filepath.Join(dir, config.FileName)
	if err := os.WriteFile(path, []byte(b.KDL()), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}

func writeList(sb *strings.Builder, node string, values []string) {
	if len(values) == 0 {
		return
	}
	sb.WriteString(node)
	for _, v := range values {
		sb.WriteString(" " + kdlString(v))
	}
	sb.WriteString("\n")
}

func kdlString(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return `"` + s + `"`
}
