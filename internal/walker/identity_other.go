//go:build !unix

package walker

import (
	"io/fs"
	"path/filepath"

	"github.com/cespare/xxhash/v2"
)

// Without device/inode numbers a directory is identified by the hash of its
// resolved absolute path.
func identityOf(path string, _ fs.FileInfo) (fileIdentity, bool) {
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		return fileIdentity{}, false
	}
	abs, err := filepath.Abs(resolved)
	if err != nil {
		return fileIdentity{}, false
	}
	return fileIdentity{ino: xxhash.Sum64String(abs)}, true
}
