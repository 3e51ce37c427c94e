package matcher

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	searcherrors "github.com/standardbeagle/searcher/internal/errors"
)

func TestNameFilter_CaseInsensitive(t *testing.T) {
	f, err := NewNameFilter("ABC")
	require.NoError(t, err)

	assert.True(t, f.Matches("xabcx"))
	assert.True(t, f.Matches("ABC.txt"))
	assert.False(t, f.Matches("ab.c"))
	assert.Equal(t, "ABC", f.Pattern())
}

func TestNameFilter_Anchors(t *testing.T) {
	f, err := NewNameFilter(`\.txt$`)
	require.NoError(t, err)

	tests := []struct {
		name     string
		expected bool
	}{
		{"a.txt", true},
		{"A.TXT", true},
		{"b.log", false},
		{"a.txt.bak", false},
		{"txt", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, f.Matches(tt.name))
		})
	}
}

func TestNameFilter_InvalidPattern(t *testing.T) {
	f, err := NewNameFilter("[unclosed")
	require.Error(t, err)
	assert.Nil(t, f)

	var patternErr *searcherrors.PatternError
	require.True(t, errors.As(err, &patternErr))
	assert.Equal(t, "filename", patternErr.Kind)
	assert.Equal(t, "[unclosed", patternErr.Pattern)
}

func TestContentMatcher_FirstMatchOnly(t *testing.T) {
	m, err := NewContentMatcher("foo")
	require.NoError(t, err)

	start, end, ok := m.FirstMatch([]byte("a foo and another foo\n"))
	require.True(t, ok)
	assert.Equal(t, 2, start)
	assert.Equal(t, 5, end)
}

func TestContentMatcher_CaseInsensitive(t *testing.T) {
	m, err := NewContentMatcher("ABC")
	require.NoError(t, err)

	start, end, ok := m.FirstMatch([]byte("xAbCx"))
	require.True(t, ok)
	assert.Equal(t, "AbC", "xAbCx"[start:end])
}

func TestContentMatcher_NoMatch(t *testing.T) {
	m, err := NewContentMatcher("nomatch")
	require.NoError(t, err)

	_, _, ok := m.FirstMatch([]byte("hello world\n"))
	assert.False(t, ok)
}

// Lines keep their terminator, so $ only matches an unterminated last line.
func TestContentMatcher_DollarSeesLineTerminator(t *testing.T) {
	m, err := NewContentMatcher("world$")
	require.NoError(t, err)

	_, _, ok := m.FirstMatch([]byte("hello world\n"))
	assert.False(t, ok)

	start, end, ok := m.FirstMatch([]byte("hello world"))
	require.True(t, ok)
	assert.Equal(t, 6, start)
	assert.Equal(t, 11, end)
}

func TestContentMatcher_AlternationIsGrouped(t *testing.T) {
	m, err := NewContentMatcher("cat|dog")
	require.NoError(t, err)

	start, end, ok := m.FirstMatch([]byte("hot DOG stand\n"))
	require.True(t, ok)
	assert.Equal(t, 4, start)
	assert.Equal(t, 7, end)
}

func TestContentMatcher_ByteOffsetsWithMultibyteText(t *testing.T) {
	m, err := NewContentMatcher("world")
	require.NoError(t, err)

	line := []byte("héllo world\n")
	start, end, ok := m.FirstMatch(line)
	require.True(t, ok)
	assert.Equal(t, 7, start, "offsets are bytes, not runes")
	assert.Equal(t, "world", string(line[start:end]))
}

func TestContentMatcher_InvalidPattern(t *testing.T) {
	_, err := NewContentMatcher("foo(")
	require.Error(t, err)

	var patternErr *searcherrors.PatternError
	require.True(t, errors.As(err, &patternErr))
	assert.Equal(t, "content", patternErr.Kind)
}

func TestCompilationIsDeterministic(t *testing.T) {
	patterns := []string{`fo+`, `\d{2,}`, `^\s*func`, `a|b|c`, `[[:upper:]]x`}
	lines := []string{"foo\n", "FOOOO bar", "id 42", "  func main()", "B", "Zx", "nothing here"}

	for _, p := range patterns {
		first, err := NewContentMatcher(p)
		require.NoError(t, err)
		second, err := NewContentMatcher(p)
		require.NoError(t, err)

		for _, line := range lines {
			s1, e1, ok1 := first.FirstMatch([]byte(line))
			s2, e2, ok2 := second.FirstMatch([]byte(line))
			assert.Equal(t, ok1, ok2, "pattern %q line %q", p, line)
			assert.Equal(t, s1, s2, "pattern %q line %q", p, line)
			assert.Equal(t, e1, e2, "pattern %q line %q", p, line)
		}

		nf1, err := NewNameFilter(p)
		require.NoError(t, err)
		nf2, err := NewNameFilter(p)
		require.NoError(t, err)
		for _, line := range lines {
			assert.Equal(t, nf1.Matches(line), nf2.Matches(line))
		}
	}
}

func BenchmarkContentMatcher_FirstMatch(b *testing.B) {
	m, err := NewContentMatcher(`err(or)?`)
	if err != nil {
		b.Fatal(err)
	}
	line := []byte("\tif err := doSomething(); err != nil { return err }\n")
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		m.FirstMatch(line)
	}
}
