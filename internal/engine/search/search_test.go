package search

import (
	"errors"
	"testing"

	"github.com/dshills/modalkit/internal/engine/session"
	"github.com/dshills/modalkit/internal/host"
	"github.com/dshills/modalkit/internal/host/membuf"
)

const sample = "alpha beta gamma\nbeta delta\nno match here\ngamma beta alpha\n"

func newBuf(t *testing.T) *membuf.Buffer {
	t.Helper()
	return membuf.New("search_test", sample)
}

func TestTranslate(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{`foo`, `foo`},
		{`\<foo\>`, `\bfoo\b`},
		{`\<f\>o\<o\>`, `\bf\bo\bo\b`},
		{`\\<foo`, `\\<foo`},
		{`a\d+b`, `a\d+b`},
		{`end\>`, `end\b`},
	}
	for _, tt := range tests {
		if got := translate(tt.in); got != tt.want {
			t.Errorf("translate(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCompileCase(t *testing.T) {
	s := NewService()

	re, err := s.Compile("beta", Options{IgnoreCase: true})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if !re.MatchString("BETA") {
		t.Error("ignorecase pattern should match uppercase text")
	}

	// Smartcase keeps a lowercase pattern insensitive.
	re, err = s.Compile("beta", Options{IgnoreCase: true, SmartCase: true})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if !re.MatchString("Beta") {
		t.Error("smartcase with lowercase pattern should stay insensitive")
	}

	// An uppercase letter in the pattern restores sensitivity.
	re, err = s.Compile("Beta", Options{IgnoreCase: true, SmartCase: true})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if re.MatchString("beta") {
		t.Error("smartcase with uppercase pattern should be sensitive")
	}

	re, err = s.Compile("Beta", Options{IgnoreCase: true})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if !re.MatchString("beta") {
		t.Error("ignorecase without smartcase ignores pattern case")
	}
}

func TestCompileErrors(t *testing.T) {
	s := NewService()
	if _, err := s.Compile("", Options{}); !errors.Is(err, ErrNoPreviousPattern) {
		t.Errorf("empty pattern: got %v, want ErrNoPreviousPattern", err)
	}
	if _, err := s.Compile("[unclosed", Options{}); !errors.Is(err, ErrBadPattern) {
		t.Errorf("bad pattern: got %v, want ErrBadPattern", err)
	}
}

func TestNextForward(t *testing.T) {
	s := NewService()
	buf := newBuf(t)

	// From the start of line 0 the first beta is on line 0 col 6.
	m, wrapped, err := s.Next(buf, host.Position{Line: 0, Col: 0}, "beta", session.Forward, Options{})
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if wrapped {
		t.Error("unexpected wrap")
	}
	if m.Start != (host.Position{Line: 0, Col: 6}) || m.End != (host.Position{Line: 0, Col: 10}) {
		t.Errorf("match = %v-%v, want 0:6-0:10", m.Start, m.End)
	}

	// A match at the cursor itself is skipped.
	m, _, err = s.Next(buf, host.Position{Line: 0, Col: 6}, "beta", session.Forward, Options{})
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if m.Start != (host.Position{Line: 1, Col: 0}) {
		t.Errorf("match start = %v, want 1:0", m.Start)
	}

	// From line 1 the next beta is on line 3.
	m, _, err = s.Next(buf, host.Position{Line: 1, Col: 0}, "beta", session.Forward, Options{})
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if m.Start != (host.Position{Line: 3, Col: 6}) {
		t.Errorf("match start = %v, want 3:6", m.Start)
	}
}

func TestNextBackward(t *testing.T) {
	s := NewService()
	buf := newBuf(t)

	m, wrapped, err := s.Next(buf, host.Position{Line: 3, Col: 6}, "beta", session.Backward, Options{})
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if wrapped {
		t.Error("unexpected wrap")
	}
	if m.Start != (host.Position{Line: 1, Col: 0}) {
		t.Errorf("match start = %v, want 1:0", m.Start)
	}

	// A match at the cursor does not count; the one before it does.
	m, _, err = s.Next(buf, host.Position{Line: 1, Col: 0}, "beta", session.Backward, Options{})
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if m.Start != (host.Position{Line: 0, Col: 6}) {
		t.Errorf("match start = %v, want 0:6", m.Start)
	}
}

func TestNextWraps(t *testing.T) {
	s := NewService()
	buf := newBuf(t)
	opts := Options{WrapScan: true}

	// Forward past the last alpha wraps to the first.
	m, wrapped, err := s.Next(buf, host.Position{Line: 3, Col: 11}, "alpha", session.Forward, opts)
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if !wrapped {
		t.Error("expected wrapped scan")
	}
	if m.Start != (host.Position{Line: 0, Col: 0}) {
		t.Errorf("match start = %v, want 0:0", m.Start)
	}

	// Backward before the first alpha wraps to the last.
	m, wrapped, err = s.Next(buf, host.Position{Line: 0, Col: 0}, "alpha", session.Backward, opts)
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if !wrapped {
		t.Error("expected wrapped scan")
	}
	if m.Start != (host.Position{Line: 3, Col: 11}) {
		t.Errorf("match start = %v, want 3:11", m.Start)
	}
}

func TestNextNoWrap(t *testing.T) {
	s := NewService()
	buf := newBuf(t)

	_, _, err := s.Next(buf, host.Position{Line: 3, Col: 11}, "alpha", session.Forward, Options{})
	if !errors.Is(err, ErrPatternNotFound) {
		t.Errorf("got %v, want ErrPatternNotFound", err)
	}
	_, _, err = s.Next(buf, host.Position{Line: 0, Col: 0}, "alpha", session.Backward, Options{})
	if !errors.Is(err, ErrPatternNotFound) {
		t.Errorf("got %v, want ErrPatternNotFound", err)
	}
}

func TestNextSingleMatchWrapsToItself(t *testing.T) {
	s := NewService()
	buf := membuf.New("t", "one delta two\n")

	m, wrapped, err := s.Next(buf, host.Position{Line: 0, Col: 4}, "delta", session.Forward, Options{WrapScan: true})
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if !wrapped {
		t.Error("expected wrapped scan")
	}
	if m.Start != (host.Position{Line: 0, Col: 4}) {
		t.Errorf("match start = %v, want 0:4", m.Start)
	}
}

func TestNextNotFound(t *testing.T) {
	s := NewService()
	buf := newBuf(t)
	_, _, err := s.Next(buf, host.Position{}, "zeta", session.Forward, Options{WrapScan: true})
	if !errors.Is(err, ErrPatternNotFound) {
		t.Errorf("got %v, want ErrPatternNotFound", err)
	}
}

func TestFindAll(t *testing.T) {
	s := NewService()
	buf := newBuf(t)

	ms, err := s.FindAll(buf, "beta", Options{})
	if err != nil {
		t.Fatalf("FindAll: %v", err)
	}
	want := []host.Position{{Line: 0, Col: 6}, {Line: 1, Col: 0}, {Line: 3, Col: 6}}
	if len(ms) != len(want) {
		t.Fatalf("got %d matches, want %d", len(ms), len(want))
	}
	for i, m := range ms {
		if m.Start != want[i] {
			t.Errorf("match %d start = %v, want %v", i, m.Start, want[i])
		}
	}
}

func TestFindInLine(t *testing.T) {
	s := NewService()
	buf := newBuf(t)

	ms, err := s.FindInLine(buf, 3, "a", Options{})
	if err != nil {
		t.Fatalf("FindInLine: %v", err)
	}
	if len(ms) != 5 {
		t.Fatalf("got %d matches, want 5", len(ms))
	}
	if ms[0].Start != (host.Position{Line: 3, Col: 1}) {
		t.Errorf("first match = %v, want 3:1", ms[0].Start)
	}
}

func TestMultibyteColumns(t *testing.T) {
	s := NewService()
	buf := membuf.New("t", "héllo wörld wörd\n")

	ms, err := s.FindAll(buf, "wö", Options{})
	if err != nil {
		t.Fatalf("FindAll: %v", err)
	}
	if len(ms) != 2 {
		t.Fatalf("got %d matches, want 2", len(ms))
	}
	if ms[0].Start.Col != 6 || ms[0].End.Col != 8 {
		t.Errorf("first match cols = %d-%d, want 6-8", ms[0].Start.Col, ms[0].End.Col)
	}
	if ms[1].Start.Col != 12 {
		t.Errorf("second match col = %d, want 12", ms[1].Start.Col)
	}
}

func TestWordBoundaries(t *testing.T) {
	s := NewService()
	buf := membuf.New("t", "cat catalog concat cat\n")

	ms, err := s.FindAll(buf, WordPattern("cat"), Options{})
	if err != nil {
		t.Fatalf("FindAll: %v", err)
	}
	if len(ms) != 2 {
		t.Fatalf("got %d matches, want 2", len(ms))
	}
	if ms[0].Start.Col != 0 || ms[1].Start.Col != 19 {
		t.Errorf("match cols = %d, %d, want 0, 19", ms[0].Start.Col, ms[1].Start.Col)
	}
}

func TestWordPatternQuotesMeta(t *testing.T) {
	s := NewService()
	buf := membuf.New("t", "x a.b y a.b\n")

	ms, err := s.FindAll(buf, WordPattern("a.b"), Options{})
	if err != nil {
		t.Fatalf("FindAll: %v", err)
	}
	// The dot is literal, so "a.b" matches but "axb" would not.
	if len(ms) != 2 {
		t.Fatalf("got %d matches, want 2", len(ms))
	}
}
