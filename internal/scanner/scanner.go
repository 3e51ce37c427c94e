// Package scanner reads one file at a time and streams every line matching
// the content pattern to an output sink.
package scanner

import (
	"bytes"
	"io"
	"os"
	"unicode/utf8"

	"github.com/standardbeagle/searcher/internal/debug"
	searcherrors "github.com/standardbeagle/searcher/internal/errors"
	"github.com/standardbeagle/searcher/internal/matcher"
	"github.com/standardbeagle/searcher/internal/output"
)

// Sink receives matched lines and per-file diagnostics. Implementations must
// be safe for concurrent use and must not retain Match.Text after Emit returns.
type Sink interface {
	Emit(m output.Match)
	ReportError(err error)
}

// Scanner scans files for the first content match on each line
type Scanner struct {
	matcher *matcher.ContentMatcher
	sink    Sink
}

// New creates a scanner. Both arguments are shared read-only across workers.
func New(m *matcher.ContentMatcher, sink Sink) *Scanner {
	return &Scanner{matcher: m, sink: sink}
}

// ScanFile scans path and returns the number of matched lines. Open,
// mapping and decoding failures are reported to the sink and yield zero.
func (s *Scanner) ScanFile(path string) int {
	file, err := os.Open(path)
	if err != nil {
		s.sink.ReportError(searcherrors.NewFileAccessError(searcherrors.OpOpen, path, err))
		return 0
	}
	defer file.Close()

	data, release, err := loadContent(file)
	if err != nil {
		s.sink.ReportError(searcherrors.NewFileAccessError(searcherrors.OpMap, path, err))
		return 0
	}
	defer release()

	if offset := firstInvalidUTF8(data); offset >= 0 {
		s.sink.ReportError(searcherrors.NewDecodingError(path, offset))
		return 0
	}

	matches := s.scanLines(path, data)
	debug.LogScan("%s: %d bytes, %d matches\n", path, len(data), matches)
	return matches
}

// scanLines walks data line by line. Each line keeps its trailing newline;
// the final line has none when the file does not end in one.
func (s *Scanner) scanLines(path string, data []byte) int {
	matches := 0
	lineNumber := 1

	for len(data) > 0 {
		end := bytes.IndexByte(data, '\n') + 1
		if end == 0 {
			end = len(data)
		}
		line := data[:end]

		if start, stop, ok := s.matcher.FirstMatch(line); ok {
			s.sink.Emit(output.Match{
				Path:  path,
				Line:  lineNumber,
				Text:  line,
				Start: start,
				End:   stop,
			})
			matches++
		}

		data = data[end:]
		lineNumber++
	}

	return matches
}

// loadContent returns the whole file as one byte slice. Regular files are
// memory-mapped where the platform supports it; anything else is read.
func loadContent(file *os.File) ([]byte, func(), error) {
	info, err := file.Stat()
	if err != nil {
		return nil, nil, err
	}

	if !info.Mode().IsRegular() {
		data, err := io.ReadAll(file)
		if err != nil {
			return nil, nil, err
		}
		return data, func() {}, nil
	}

	if info.Size() == 0 {
		return nil, func() {}, nil
	}

	return mapFile(file, info.Size())
}

// firstInvalidUTF8 returns the byte offset of the first invalid UTF-8
// sequence in data, or -1 if data is valid text.
func firstInvalidUTF8(data []byte) int {
	if utf8.Valid(data) {
		return -1
	}

	for i := 0; i < len(data); {
		if data[i] < utf8.RuneSelf {
			i++
			continue
		}
		r, size := utf8.DecodeRune(data[i:])
		if r == utf8.RuneError && size == 1 {
			return i
		}
		i += size
	}
	return -1
}
