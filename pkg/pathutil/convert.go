// Package pathutil converts the paths produced during a walk into the
// root-relative, forward-slash form that glob and .gitignore rules match against.
//
// Paths are reported to the user exactly as the walk formed them; only
// filtering works on the relative form.
package pathutil

import (
	"path/filepath"
	"strings"
)

// ToRelative converts path to be relative to rootDir.
// Falls back to the original path if conversion fails or path is outside root.
//
// Examples:
//   - ToRelative("/home/user/project/src/main.go", "/home/user/project") → "src/main.go"
//   - ToRelative("./src/main.go", ".") → "src/main.go"
//   - ToRelative("/other/location/file.go", "/home/user/project") → "/other/location/file.go" (outside root)
func ToRelative(path, rootDir string) string {
	if path == "" || rootDir == "" {
		return path
	}

	// Mixing absolute and relative forms cannot be resolved without the cwd
	if filepath.IsAbs(path) != filepath.IsAbs(rootDir) {
		return path
	}

	relPath, err := filepath.Rel(filepath.Clean(rootDir), filepath.Clean(path))
	if err != nil {
		return path
	}

	if relPath == ".." || strings.HasPrefix(relPath, ".."+string(filepath.Separator)) {
		return path
	}

	return relPath
}

// ToSlashRelative is ToRelative with forward slashes, the form used for glob
// matching. The root itself maps to ".".
func ToSlashRelative(path, rootDir string) string {
	return filepath.ToSlash(ToRelative(path, rootDir))
}
