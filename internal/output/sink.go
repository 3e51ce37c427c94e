// Package output serializes everything the search prints. A single Sink is
// shared by all workers; its mutex is the output guard that keeps one
// rendered line, or one diagnostic, from interleaving with another.
package output

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"sync"

	"github.com/fatih/color"
)

// Match is one matched line ready to be rendered. Text is the full line
// including its terminator; Start and End are byte offsets into Text.
type Match struct {
	Path  string
	Line  int
	Text  []byte
	Start int
	End   int
}

// Sink writes matches to out and diagnostics to errOut.
type Sink struct {
	mu      sync.Mutex
	out     io.Writer
	errOut  io.Writer
	colored bool

	prefix    *color.Color
	highlight *color.Color

	// buf is reused across renderings; only touched under mu
	buf bytes.Buffer

	matches  int64
	errors   int64
	writeErr error
}

// NewSink creates a sink. When colored is true styling is emitted even if
// out is not a terminal; use ResolveColor to decide from a ColorMode.
func NewSink(out, errOut io.Writer, colored bool) *Sink {
	prefix := color.New(color.FgHiBlack)
	highlight := color.New(color.FgGreen, color.Bold)
	prefix.EnableColor()
	highlight.EnableColor()

	return &Sink{
		out:       out,
		errOut:    errOut,
		colored:   colored,
		prefix:    prefix,
		highlight: highlight,
	}
}

// Emit renders one matched line and writes it in a single call. Once a write
// has failed later matches are only counted.
func (s *Sink) Emit(m Match) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.matches++
	if s.writeErr != nil {
		return
	}

	s.buf.Reset()
	if s.colored {
		s.renderColored(m)
	} else {
		s.renderPlain(m)
	}

	if _, err := s.out.Write(s.buf.Bytes()); err != nil {
		s.writeErr = err
	}
}

func (s *Sink) renderPlain(m Match) {
	s.writeHeader(&s.buf, m)
	s.buf.Write(m.Text)
}

func (s *Sink) renderColored(m Match) {
	var header bytes.Buffer
	s.writeHeader(&header, m)

	s.buf.WriteString(s.prefix.Sprint(header.String()))
	s.buf.Write(m.Text[:m.Start])
	s.buf.WriteString(s.highlight.Sprint(string(m.Text[m.Start:m.End])))
	s.buf.Write(m.Text[m.End:])
}

func (s *Sink) writeHeader(b *bytes.Buffer, m Match) {
	b.WriteString(m.Path)
	b.WriteByte(':')
	b.WriteString(strconv.Itoa(m.Line))
	b.WriteByte(':')
}

// ReportError writes err as one diagnostic line to the error stream.
func (s *Sink) ReportError(err error) {
	if err == nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.errors++
	fmt.Fprintln(s.errOut, err.Error())
}

// Matches returns the number of lines emitted so far
func (s *Sink) Matches() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.matches
}

// Errors returns the number of diagnostics reported so far
func (s *Sink) Errors() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.errors
}

// WriteErr returns the first error returned by the match writer, if any.
func (s *Sink) WriteErr() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeErr
}
