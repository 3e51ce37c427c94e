// Build artifact detection from language-specific manifests.
// Reads package.json, tsconfig.json, Cargo.toml and pyproject.toml to find
// output directories worth pruning from a search.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// BuildArtifactDetector finds language-specific build output directories
type BuildArtifactDetector struct {
	projectRoot string
}

// NewBuildArtifactDetector creates a new build artifact detector
func NewBuildArtifactDetector(projectRoot string) *BuildArtifactDetector {
	return &BuildArtifactDetector{projectRoot: projectRoot}
}

// DetectOutputDirectories returns "**/<dir>/**" exclusion globs for every
// output directory declared by a manifest in the project root, sorted.
func (d *BuildArtifactDetector) DetectOutputDirectories() []string {
	dirs := make(map[string]bool)
	for _, detect := range []func() []string{
		d.detectPackageJSON,
		d.detectTSConfig,
		d.detectCargo,
		d.detectPyProject,
	} {
		for _, dir := range detect() {
			if dir = cleanOutputDir(dir); dir != "" {
				dirs[dir] = true
			}
		}
	}

	patterns := make([]string, 0, len(dirs))
	for dir := range dirs {
		patterns = append(patterns, "**/"+dir+"/**")
	}
	sort.Strings(patterns)
	return patterns
}

// cleanOutputDir normalizes a declared directory to a slash path relative to
// the project, dropping values that point outside of it.
func cleanOutputDir(dir string) string {
	dir = strings.Trim(strings.TrimSpace(dir), `"'`)
	dir = filepath.ToSlash(filepath.Clean(dir))
	dir = strings.TrimPrefix(dir, "./")
	if dir == "" || dir == "." || dir == ".." || strings.HasPrefix(dir, "../") || strings.HasPrefix(dir, "/") {
		return ""
	}
	return dir
}

func (d *BuildArtifactDetector) read(name string) ([]byte, bool) {
	data, err := os.ReadFile(filepath.Join(d.projectRoot, name))
	return data, err == nil
}

type packageJSON struct {
	Scripts map[string]string `json:"scripts"`
	Build   struct {
		OutDir string `json:"outDir"`
	} `json:"build"`
}

// detectPackageJSON finds --outDir flags in npm scripts and build.outDir
func (d *BuildArtifactDetector) detectPackageJSON() []string {
	data, ok := d.read("package.json")
	if !ok {
		return nil
	}
	var pkg packageJSON
	if json.Unmarshal(data, &pkg) != nil {
		return nil
	}

	var dirs []string
	for _, script := range pkg.Scripts {
		fields := strings.Fields(script)
		for i, field := range fields {
			switch {
			case (field == "--outDir" || field == "-outDir") && i+1 < len(fields):
				dirs = append(dirs, fields[i+1])
			case strings.HasPrefix(field, "--outDir="):
				dirs = append(dirs, strings.TrimPrefix(field, "--outDir="))
			}
		}
	}
	if pkg.Build.OutDir != "" {
		dirs = append(dirs, pkg.Build.OutDir)
	}
	return dirs
}

type tsConfig struct {
	CompilerOptions struct {
		OutDir string `json:"outDir"`
	} `json:"compilerOptions"`
}

func (d *BuildArtifactDetector) detectTSConfig() []string {
	data, ok := d.read("tsconfig.json")
	if !ok {
		return nil
	}
	var ts tsConfig
	if json.Unmarshal(data, &ts) != nil || ts.CompilerOptions.OutDir == "" {
		return nil
	}
	return []string{ts.CompilerOptions.OutDir}
}

type cargoManifest struct {
	Build struct {
		TargetDir string `toml:"target-dir"`
	} `toml:"build"`
	Profile map[string]struct {
		TargetDir string `toml:"target-dir"`
	} `toml:"profile"`
}

// detectCargo reports target/ for any Cargo project plus custom target dirs
func (d *BuildArtifactDetector) detectCargo() []string {
	data, ok := d.read("Cargo.toml")
	if !ok {
		return nil
	}
	var cargo cargoManifest
	if toml.Unmarshal(data, &cargo) != nil {
		return nil
	}

	dirs := []string{"target"}
	if cargo.Build.TargetDir != "" {
		dirs = append(dirs, cargo.Build.TargetDir)
	}
	for _, profile := range cargo.Profile {
		if profile.TargetDir != "" {
			dirs = append(dirs, profile.TargetDir)
		}
	}
	return dirs
}

type pyProject struct {
	Tool struct {
		Poetry struct {
			Build struct {
				TargetDir string `toml:"target-dir"`
			} `toml:"build"`
		} `toml:"poetry"`
		Setuptools struct {
			BuildDir string `toml:"build-dir"`
		} `toml:"setuptools"`
	} `toml:"tool"`
}

func (d *BuildArtifactDetector) detectPyProject() []string {
	data, ok := d.read("pyproject.toml")
	if !ok {
		return nil
	}
	var py pyProject
	if toml.Unmarshal(data, &py) != nil {
		return nil
	}

	var dirs []string
	if dir := py.Tool.Poetry.Build.TargetDir; dir != "" {
		dirs = append(dirs, dir)
	}
	if dir := py.Tool.Setuptools.BuildDir; dir != "" {
		dirs = append(dirs, dir)
	}
	return dirs
}
