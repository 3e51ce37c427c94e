package testhelpers

import (
	"os"
	"path/filepath"
	"testing"
)

// TreeBuilder writes a file tree under a per-test temporary directory.
// Paths are given with forward slashes relative to the root.
//
//	root := testhelpers.NewTreeBuilder(t).
//		File("a.txt", "foo\n").
//		Dir("empty").
//		Symlink("loop", ".").
//		Root()
type TreeBuilder struct {
	t    testing.TB
	root string
}

func NewTreeBuilder(t testing.TB) *TreeBuilder {
	t.Helper()
	return &TreeBuilder{t: t, root: t.TempDir()}
}

// Root returns the directory the tree was written to
func (b *TreeBuilder) Root() string {
	return b.root
}

// Path returns the native path of rel inside the tree
func (b *TreeBuilder) Path(rel string) string {
	return filepath.Join(b.root, filepath.FromSlash(rel))
}

// File writes content to rel, creating parent directories
func (b *TreeBuilder) File(rel, content string) *TreeBuilder {
	b.t.Helper()
	path := b.Path(rel)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		b.t.Fatalf("failed to create parent of %s: %v", rel, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		b.t.Fatalf("failed to write %s: %v", rel, err)
	}
	return b
}

// Files writes every rel -> content pair
func (b *TreeBuilder) Files(files map[string]string) *TreeBuilder {
	b.t.Helper()
	for rel, content := range files {
		b.File(rel, content)
	}
	return b
}

func (b *TreeBuilder) Dir(rel string) *TreeBuilder {
	b.t.Helper()
	if err := os.MkdirAll(b.Path(rel), 0755); err != nil {
		b.t.Fatalf("failed to create %s: %v", rel, err)
	}
	return b
}

// Symlink creates rel pointing at target, which is used verbatim
func (b *TreeBuilder) Symlink(rel, target string) *TreeBuilder {
	b.t.Helper()
	path := b.Path(rel)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		b.t.Fatalf("failed to create parent of %s: %v", rel, err)
	}
	if err := os.Symlink(filepath.FromSlash(target), path); err != nil {
		b.t.Skipf("symlinks unavailable: %v", err)
	}
	return b
}

// Unreadable removes every permission bit from rel until the test ends.
// Tests using it should skip when running as root.
func (b *TreeBuilder) Unreadable(rel string) *TreeBuilder {
	b.t.Helper()
	path := b.Path(rel)
	info, err := os.Stat(path)
	if err != nil {
		b.t.Fatalf("failed to stat %s: %v", rel, err)
	}
	if err := os.Chmod(path, 0); err != nil {
		b.t.Fatalf("failed to chmod %s: %v", rel, err)
	}
	b.t.Cleanup(func() { _ = os.Chmod(path, info.Mode().Perm()) })
	return b
}

// SkipIfPrivileged skips tests that depend on permission bits being enforced
func SkipIfPrivileged(t testing.TB) {
	t.Helper()
	if os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced for root")
	}
}
