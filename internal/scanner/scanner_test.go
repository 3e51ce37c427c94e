package scanner

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	searcherrors "github.com/standardbeagle/searcher/internal/errors"
	"github.com/standardbeagle/searcher/internal/matcher"
	"github.com/standardbeagle/searcher/internal/output"
)

// recordingSink copies every match so tests can inspect them after the
// mapped file has been released.
type recordingSink struct {
	mu      sync.Mutex
	matches []output.Match
	errs    []error
}

func (r *recordingSink) Emit(m output.Match) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m.Text = append([]byte(nil), m.Text...)
	r.matches = append(r.matches, m)
}

func (r *recordingSink) ReportError(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errs = append(r.errs, err)
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func newScanner(t *testing.T, pattern string) (*Scanner, *recordingSink) {
	t.Helper()
	m, err := matcher.NewContentMatcher(pattern)
	require.NoError(t, err)
	sink := &recordingSink{}
	return New(m, sink), sink
}

func TestScanFile_KeepsLineTerminators(t *testing.T) {
	path := writeFile(t, "a.txt", "foo\nbar baz\n")
	s, sink := newScanner(t, "foo")

	n := s.ScanFile(path)

	assert.Equal(t, 1, n)
	require.Len(t, sink.matches, 1)
	m := sink.matches[0]
	assert.Equal(t, path, m.Path)
	assert.Equal(t, 1, m.Line)
	assert.Equal(t, "foo\n", string(m.Text))
	assert.Equal(t, 0, m.Start)
	assert.Equal(t, 3, m.End)
	assert.Empty(t, sink.errs)
}

func TestScanFile_LineNumbersAdvanceOnEveryLine(t *testing.T) {
	path := writeFile(t, "n.txt", "one\n\nthree\nfour\n\nsix")
	s, sink := newScanner(t, "^")

	n := s.ScanFile(path)

	assert.Equal(t, 6, n, "every line is considered exactly once")
	for i, m := range sink.matches {
		assert.Equal(t, i+1, m.Line)
	}
	assert.Equal(t, "six", string(sink.matches[5].Text), "last line has no terminator")
}

func TestScanFile_OnlyMatchingLines(t *testing.T) {
	path := writeFile(t, "m.txt", "alpha\nbeta\ngamma beta\ndelta\n")
	s, sink := newScanner(t, "beta")

	s.ScanFile(path)

	require.Len(t, sink.matches, 2)
	assert.Equal(t, 2, sink.matches[0].Line)
	assert.Equal(t, 3, sink.matches[1].Line)
	assert.Equal(t, 6, sink.matches[1].Start)
}

func TestScanFile_FirstOccurrenceOnly(t *testing.T) {
	path := writeFile(t, "dup.txt", "foo foo foo\n")
	s, sink := newScanner(t, "foo")

	s.ScanFile(path)

	require.Len(t, sink.matches, 1)
	assert.Equal(t, 0, sink.matches[0].Start)
	assert.Equal(t, 3, sink.matches[0].End)
}

func TestScanFile_CRLFPassesThrough(t *testing.T) {
	path := writeFile(t, "crlf.txt", "first\r\nsecond\r\n")
	s, sink := newScanner(t, "second")

	s.ScanFile(path)

	require.Len(t, sink.matches, 1)
	assert.Equal(t, "second\r\n", string(sink.matches[0].Text))
	assert.Equal(t, 2, sink.matches[0].Line)
}

func TestScanFile_EmptyFile(t *testing.T) {
	path := writeFile(t, "empty.txt", "")
	s, sink := newScanner(t, "^")

	assert.Equal(t, 0, s.ScanFile(path))
	assert.Empty(t, sink.matches)
	assert.Empty(t, sink.errs)
}

func TestScanFile_InvalidUTF8(t *testing.T) {
	path := writeFile(t, "blob.bin", "foo\n\xff\xfefoo\n")
	s, sink := newScanner(t, "foo")

	n := s.ScanFile(path)

	assert.Equal(t, 0, n)
	assert.Empty(t, sink.matches, "no partial output for undecodable files")
	require.Len(t, sink.errs, 1)

	var decodeErr *searcherrors.DecodingError
	require.True(t, errors.As(sink.errs[0], &decodeErr))
	assert.Equal(t, 4, decodeErr.Offset)
	assert.True(t, strings.HasPrefix(sink.errs[0].Error(), "Error reading file '"+path+"'"))
}

func TestScanFile_TruncatedMultibyteSequence(t *testing.T) {
	path := writeFile(t, "trunc.txt", "ok line\nh\xc3")
	s, sink := newScanner(t, "ok")

	s.ScanFile(path)

	assert.Empty(t, sink.matches, "the whole file is skipped")
	require.Len(t, sink.errs, 1)
}

func TestScanFile_MissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gone.txt")
	s, sink := newScanner(t, "foo")

	assert.Equal(t, 0, s.ScanFile(path))
	require.Len(t, sink.errs, 1)

	var accessErr *searcherrors.FileAccessError
	require.True(t, errors.As(sink.errs[0], &accessErr))
	assert.Equal(t, searcherrors.OpOpen, accessErr.Op)
	assert.Equal(t, "Error occurred for file '"+path+"': no such file or directory", sink.errs[0].Error())
}

func TestScanFile_UnreadableContentIsAMappingError(t *testing.T) {
	dir := t.TempDir()
	s, sink := newScanner(t, "foo")

	s.ScanFile(dir)

	require.Len(t, sink.errs, 1)
	var accessErr *searcherrors.FileAccessError
	require.True(t, errors.As(sink.errs[0], &accessErr))
	assert.Equal(t, searcherrors.OpMap, accessErr.Op)
	assert.True(t, strings.HasPrefix(sink.errs[0].Error(), "Error mapping file '"+dir+"'"))
}

func TestScanFile_LargeFile(t *testing.T) {
	var b bytes.Buffer
	for i := 0; i < 50000; i++ {
		if i == 41234 {
			b.WriteString("the needle is here\n")
			continue
		}
		b.WriteString("hay hay hay hay hay hay hay\n")
	}
	path := writeFile(t, "large.txt", b.String())
	s, sink := newScanner(t, "NEEDLE")

	assert.Equal(t, 1, s.ScanFile(path))
	require.Len(t, sink.matches, 1)
	assert.Equal(t, 41235, sink.matches[0].Line)
	assert.Equal(t, "needle", string(sink.matches[0].Text[sink.matches[0].Start:sink.matches[0].End]))
}

func TestScanFile_WritesThroughRealSink(t *testing.T) {
	path := writeFile(t, "x.txt", "a\nb\nhello world\n")
	m, err := matcher.NewContentMatcher("world")
	require.NoError(t, err)

	var out, errOut bytes.Buffer
	s := New(m, output.NewSink(&out, &errOut, false))
	s.ScanFile(path)

	assert.Equal(t, path+":3:hello world\n", out.String())
	assert.Empty(t, errOut.String())
}

func TestFirstInvalidUTF8(t *testing.T) {
	assert.Equal(t, -1, firstInvalidUTF8([]byte("plain ascii")))
	assert.Equal(t, -1, firstInvalidUTF8([]byte("héllo wörld ✓")))
	assert.Equal(t, -1, firstInvalidUTF8([]byte("� is a real rune")))
	assert.Equal(t, 0, firstInvalidUTF8([]byte{0xff}))
	assert.Equal(t, 3, firstInvalidUTF8([]byte("abc\x80")))
	assert.Equal(t, 1, firstInvalidUTF8([]byte("a\xe2\x82")))
}
