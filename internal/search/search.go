// Package search wires the pieces of one search run together: the walker
// finds candidate files, the scanner matches their lines, and a single output
// sink serializes everything that is printed.
package search

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/standardbeagle/searcher/internal/debug"
	"github.com/standardbeagle/searcher/internal/matcher"
	"github.com/standardbeagle/searcher/internal/output"
	"github.com/standardbeagle/searcher/internal/scanner"
	"github.com/standardbeagle/searcher/internal/walker"
)

// Request describes a search before its patterns are compiled
type Request struct {
	FilePattern    string // regex tested against bare file names
	ContentPattern string // regex tested against each line
	Colored        bool

	Include []string       // optional doublestar globs selecting files
	Exclude []string       // optional doublestar globs pruning paths
	Ignorer walker.Ignorer // optional, usually a parsed .gitignore
}

// Config is the compiled, read-only state shared by every worker
type Config struct {
	NameFilter *matcher.NameFilter
	Content    *matcher.ContentMatcher
	Colored    bool
	Filter     *walker.PathFilter
}

// Summary describes one finished run
type Summary struct {
	Dirs     int64
	Files    int64
	Filtered int64
	Matches  int64
	Errors   int64
	Duration time.Duration
}

func (s Summary) String() string {
	return fmt.Sprintf("%d matching lines in %d files (%d directories, %d files filtered, %d errors) in %s",
		s.Matches, s.Files, s.Dirs, s.Filtered, s.Errors, s.Duration.Round(time.Millisecond))
}

type Searcher struct {
	cfg    Config
	stdout io.Writer
	stderr io.Writer
}

// New compiles both patterns. An invalid pattern is returned as a
// *errors.PatternError before anything is read from disk.
func New(req Request, stdout, stderr io.Writer) (*Searcher, error) {
	nameFilter, err := matcher.NewNameFilter(req.FilePattern)
	if err != nil {
		return nil, err
	}
	content, err := matcher.NewContentMatcher(req.ContentPattern)
	if err != nil {
		return nil, err
	}

	return &Searcher{
		cfg: Config{
			NameFilter: nameFilter,
			Content:    content,
			Colored:    req.Colored,
			Filter:     walker.NewPathFilter(req.Include, req.Exclude, req.Ignorer),
		},
		stdout: stdout,
		stderr: stderr,
	}, nil
}

// Config returns the compiled configuration
func (s *Searcher) Config() Config {
	return s.cfg
}

// Search scans every matching file under root, streaming matches to stdout
// and per-path diagnostics to stderr as they occur. Diagnostics never make
// Search fail; it returns an error only when ctx is cancelled or stdout
// cannot be written.
func (s *Searcher) Search(ctx context.Context, root string) (Summary, error) {
	start := time.Now()

	sink := output.NewSink(s.stdout, s.stderr, s.cfg.Colored)
	fileScanner := scanner.New(s.cfg.Content, sink)
	w := walker.New(walker.Options{
		NameFilter: s.cfg.NameFilter,
		OnFile: func(path string) {
			fileScanner.ScanFile(path)
		},
		Reporter: sink,
		Filter:   s.cfg.Filter,
	})

	err := w.Walk(ctx, root)
	if err == nil {
		if werr := sink.WriteErr(); werr != nil {
			err = fmt.Errorf("writing results: %w", werr)
		}
	}

	stats := w.Stats()
	summary := Summary{
		Dirs:     stats.Dirs,
		Files:    stats.Files,
		Filtered: stats.Filtered,
		Matches:  sink.Matches(),
		Errors:   sink.Errors(),
		Duration: time.Since(start),
	}
	debug.Printf("search %q in %s: %s\n", s.cfg.Content.Pattern(), root, summary)
	return summary, err
}
