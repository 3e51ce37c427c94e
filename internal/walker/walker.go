// Package walker traverses a directory tree in parallel and hands every
// regular file whose name passes the filename filter to a callback.
//
// Directories are kept on an explicit queue consumed by a fixed pool of
// workers, so deep trees never grow goroutine stacks. Errors on one path are
// reported and never stop the walk.
package walker

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sync/atomic"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/standardbeagle/searcher/internal/debug"
	searcherrors "github.com/standardbeagle/searcher/internal/errors"
	"github.com/standardbeagle/searcher/internal/matcher"
	"github.com/standardbeagle/searcher/pkg/pathutil"
)

// readBatch bounds how many entries are held per ReadDir call
const readBatch = 256

// openDir is replaced in tests to inject listing failures
var openDir = os.Open

// Reporter receives per-path diagnostics. It must be safe for concurrent use.
type Reporter interface {
	ReportError(err error)
}

type Options struct {
	NameFilter *matcher.NameFilter // required; tested against the bare file name
	OnFile     func(path string)   // called on the worker that listed the file's directory
	Reporter   Reporter            // required
	Filter     *PathFilter         // optional include/exclude/ignore pruning
}

// Stats counts what one walk saw
type Stats struct {
	Dirs     int64 // directories listed
	Files    int64 // files handed to OnFile
	Filtered int64 // regular files rejected by the name or path filter
}

type Walker struct {
	opts Options

	dirs     atomic.Int64
	files    atomic.Int64
	filtered atomic.Int64
}

func New(opts Options) *Walker {
	return &Walker{opts: opts}
}

// Stats returns the counters accumulated so far
func (w *Walker) Stats() Stats {
	return Stats{
		Dirs:     w.dirs.Load(),
		Files:    w.files.Load(),
		Filtered: w.filtered.Load(),
	}
}

type fileIdentity struct {
	dev, ino uint64
}

// ancestor is one link of the chain of directories above a queued directory.
// Chains share their common prefix, so a task only adds one node.
type ancestor struct {
	id     fileIdentity
	parent *ancestor
}

func (a *ancestor) contains(id fileIdentity) bool {
	for ; a != nil; a = a.parent {
		if a.id == id {
			return true
		}
	}
	return false
}

// walk is the state of a single Walk call
type walk struct {
	*Walker
	root  string
	queue *dirQueue
}

// Walk lists root and everything below it, returning once every reachable
// directory has been processed. It only fails when ctx is cancelled; all
// filesystem errors go to the Reporter.
func (w *Walker) Walk(ctx context.Context, root string) error {
	state := &walk{
		Walker: w,
		root:   root,
		queue:  newDirQueue(),
	}
	stop := context.AfterFunc(ctx, state.queue.close)
	defer stop()

	state.queue.push(dirTask{path: root})

	workers := runtime.GOMAXPROCS(0)
	debug.LogWalk("walking %s with %d workers\n", root, workers)

	var g errgroup.Group
	for i := 0; i < workers; i++ {
		g.Go(func() error {
			for {
				task, ok := state.queue.pop()
				if !ok {
					return ctx.Err()
				}
				state.listDir(ctx, task)
				state.queue.done()
			}
		})
	}
	return g.Wait()
}

// listDir processes every entry of the task's directory. Files are handled on
// this worker; subdirectories go back on the queue.
func (s *walk) listDir(ctx context.Context, task dirTask) {
	dir := task.path
	f, err := openDir(dir)
	if err != nil {
		s.report(searcherrors.NewTraversalError(searcherrors.OpOpen, dir, err))
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		s.report(searcherrors.NewTraversalError(searcherrors.OpOpen, dir, err))
		return
	}
	if !info.IsDir() {
		s.report(searcherrors.NewTraversalError(searcherrors.OpOpen, dir, syscall.ENOTDIR))
		return
	}
	self, ok := s.enter(task, info)
	if !ok {
		debug.LogWalk("skipping %s: symlink cycle\n", dir)
		return
	}
	s.dirs.Add(1)

	count := 0
	for ctx.Err() == nil {
		entries, err := f.ReadDir(readBatch)
		for _, entry := range entries {
			s.handleEntry(dir, self, entry)
		}
		count += len(entries)

		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			s.report(searcherrors.NewTraversalError(searcherrors.OpEntry, dir, err))
			break
		}
	}
	debug.LogWalk("listed %s: %d entries\n", dir, count)
}

func (s *walk) handleEntry(dir string, parent *ancestor, entry fs.DirEntry) {
	path := joinPath(dir, entry.Name())

	mode := entry.Type()
	if mode&fs.ModeSymlink != 0 {
		target, err := os.Stat(path)
		if err != nil {
			s.report(searcherrors.NewTraversalError(searcherrors.OpEntry, dir, err))
			return
		}
		mode = target.Mode().Type()
	}

	switch {
	case mode.IsDir():
		if s.opts.Filter != nil && s.opts.Filter.SkipDir(s.relative(path)) {
			debug.LogWalk("pruned %s\n", path)
			return
		}
		s.queue.push(dirTask{path: path, parent: parent})

	case mode.IsRegular():
		if !s.opts.NameFilter.Matches(entry.Name()) {
			s.filtered.Add(1)
			return
		}
		if s.opts.Filter != nil && s.opts.Filter.SkipFile(s.relative(path)) {
			s.filtered.Add(1)
			return
		}
		s.files.Add(1)
		if s.opts.OnFile != nil {
			s.opts.OnFile(path)
		}

	default:
		// sockets, fifos and devices are not searched
	}
}

// enter returns the ancestor chain for the directory's children. It fails
// when the directory is one of its own ancestors, which only a symlink cycle
// can cause. A directory reachable through two unrelated paths is listed
// under both.
func (s *walk) enter(task dirTask, info fs.FileInfo) (*ancestor, bool) {
	id, ok := identityOf(task.path, info)
	if !ok {
		return task.parent, true
	}
	if task.parent.contains(id) {
		return nil, false
	}
	return &ancestor{id: id, parent: task.parent}, true
}

func (s *walk) relative(path string) string {
	return pathutil.ToSlashRelative(path, s.root)
}

func (s *walk) report(err error) {
	debug.LogWalk("%v\n", err)
	s.opts.Reporter.ReportError(err)
}

// joinPath appends name to dir without cleaning, so the reported path keeps
// the form of the root it was reached from ("./a.txt" for a root of ".").
func joinPath(dir, name string) string {
	if dir != "" && os.IsPathSeparator(dir[len(dir)-1]) {
		return dir + name
	}
	return dir + string(filepath.Separator) + name
}
