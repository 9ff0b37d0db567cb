package search

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"github.com/dshills/modalkit/internal/engine/session"
	"github.com/dshills/modalkit/internal/host"
)

var (
	// ErrBadPattern indicates the pattern did not compile.
	ErrBadPattern = errors.New("invalid pattern")
	// ErrPatternNotFound indicates no occurrence exists in the scanned range.
	ErrPatternNotFound = errors.New("pattern not found")
	// ErrNoPreviousPattern indicates an empty pattern with no previous search to reuse.
	ErrNoPreviousPattern = errors.New("no previous search pattern")
)

// Options control how a pattern is compiled and how far a scan runs.
type Options struct {
	// IgnoreCase makes matching case-insensitive.
	IgnoreCase bool
	// SmartCase restores case sensitivity when the pattern contains an
	// uppercase letter. Only consulted when IgnoreCase is set.
	SmartCase bool
	// WrapScan lets Next continue past the buffer edge back to the origin.
	WrapScan bool
}

// Match is a single pattern occurrence. End is exclusive.
type Match struct {
	Start host.Position
	End   host.Position
}

// Service compiles patterns and scans buffers for them. Compiled
// patterns are cached, so repeated searches with n and N do not pay
// for recompilation. Safe for concurrent use.
type Service struct {
	mu    sync.Mutex
	cache map[string]*regexp.Regexp
}

// NewService returns an empty search service.
func NewService() *Service {
	return &Service{cache: make(map[string]*regexp.Regexp)}
}

// maxCache bounds the compiled-pattern cache. The cache is cleared
// wholesale when full; patterns are cheap to recompile.
const maxCache = 128

// Compile translates a pattern and compiles it under the given case
// options. The result is cached by translated source.
func (s *Service) Compile(pattern string, opts Options) (*regexp.Regexp, error) {
	if pattern == "" {
		return nil, ErrNoPreviousPattern
	}
	src := translate(pattern)
	if opts.IgnoreCase && !(opts.SmartCase && hasUpper(pattern)) {
		src = "(?i)" + src
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if re, ok := s.cache[src]; ok {
		return re, nil
	}
	re, err := regexp.Compile(src)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrBadPattern, pattern, err)
	}
	if len(s.cache) >= maxCache {
		s.cache = make(map[string]*regexp.Regexp)
	}
	s.cache[src] = re
	return re, nil
}

// Next finds the nearest match relative to from. Forward takes the
// first match starting strictly after from, Backward the last match
// starting strictly before it. The returned bool reports whether the
// scan wrapped around the buffer edge.
func (s *Service) Next(buf host.Buffer, from host.Position, pattern string, dir session.Direction, opts Options) (Match, bool, error) {
	re, err := s.Compile(pattern, opts)
	if err != nil {
		return Match{}, false, err
	}
	count := buf.LineCount()
	if count == 0 {
		return Match{}, false, ErrPatternNotFound
	}
	if from.Line >= count {
		from.Line = count - 1
	}
	if dir == session.Backward {
		return s.prev(buf, from, re, opts.WrapScan)
	}
	return s.next(buf, from, re, opts.WrapScan)
}

func (s *Service) next(buf host.Buffer, from host.Position, re *regexp.Regexp, wrap bool) (Match, bool, error) {
	count := buf.LineCount()

	// Rest of the origin line, strictly after the cursor.
	for _, m := range lineMatches(re, lineText(buf, from.Line), from.Line) {
		if m.Start.Col > from.Col {
			return m, false, nil
		}
	}
	for line := from.Line + 1; line < count; line++ {
		if ms := lineMatches(re, lineText(buf, line), line); len(ms) > 0 {
			return ms[0], false, nil
		}
	}
	if !wrap {
		return Match{}, false, ErrPatternNotFound
	}
	for line := 0; line < from.Line; line++ {
		if ms := lineMatches(re, lineText(buf, line), line); len(ms) > 0 {
			return ms[0], true, nil
		}
	}
	// Back on the origin line a match at the cursor itself counts.
	for _, m := range lineMatches(re, lineText(buf, from.Line), from.Line) {
		if m.Start.Col <= from.Col {
			return m, true, nil
		}
	}
	return Match{}, false, ErrPatternNotFound
}

func (s *Service) prev(buf host.Buffer, from host.Position, re *regexp.Regexp, wrap bool) (Match, bool, error) {
	count := buf.LineCount()

	origin := lineMatches(re, lineText(buf, from.Line), from.Line)
	for i := len(origin) - 1; i >= 0; i-- {
		if origin[i].Start.Col < from.Col {
			return origin[i], false, nil
		}
	}
	for line := from.Line - 1; line >= 0; line-- {
		if ms := lineMatches(re, lineText(buf, line), line); len(ms) > 0 {
			return ms[len(ms)-1], false, nil
		}
	}
	if !wrap {
		return Match{}, false, ErrPatternNotFound
	}
	for line := count - 1; line > from.Line; line-- {
		if ms := lineMatches(re, lineText(buf, line), line); len(ms) > 0 {
			return ms[len(ms)-1], true, nil
		}
	}
	ms := lineMatches(re, lineText(buf, from.Line), from.Line)
	for i := len(ms) - 1; i >= 0; i-- {
		if ms[i].Start.Col >= from.Col {
			return ms[i], true, nil
		}
	}
	return Match{}, false, ErrPatternNotFound
}

// FindAll returns every match in the buffer in document order.
func (s *Service) FindAll(buf host.Buffer, pattern string, opts Options) ([]Match, error) {
	re, err := s.Compile(pattern, opts)
	if err != nil {
		return nil, err
	}
	var out []Match
	for line := 0; line < buf.LineCount(); line++ {
		out = append(out, lineMatches(re, lineText(buf, line), line)...)
	}
	return out, nil
}

// FindInLine returns every match on a single line.
func (s *Service) FindInLine(buf host.Buffer, line int, pattern string, opts Options) ([]Match, error) {
	re, err := s.Compile(pattern, opts)
	if err != nil {
		return nil, err
	}
	return lineMatches(re, lineText(buf, line), line), nil
}

// WordPattern builds the whole-word pattern used by the * and #
// commands: the word quoted literally between word boundaries.
func WordPattern(word string) string {
	return `\<` + regexp.QuoteMeta(word) + `\>`
}

// LiteralPattern quotes text so it matches itself.
func LiteralPattern(text string) string {
	return regexp.QuoteMeta(text)
}

func lineText(buf host.Buffer, line int) string {
	text, err := buf.Line(line)
	if err != nil {
		return ""
	}
	return text
}

// lineMatches runs the pattern over one line and converts the byte
// offsets reported by regexp into rune columns.
func lineMatches(re *regexp.Regexp, text string, line int) []Match {
	idx := re.FindAllStringIndex(text, -1)
	if len(idx) == 0 {
		return nil
	}
	out := make([]Match, 0, len(idx))
	col := 0
	prev := 0
	for _, pair := range idx {
		col += utf8.RuneCountInString(text[prev:pair[0]])
		start := col
		col += utf8.RuneCountInString(text[pair[0]:pair[1]])
		prev = pair[1]
		out = append(out, Match{
			Start: host.Position{Line: line, Col: start},
			End:   host.Position{Line: line, Col: col},
		})
	}
	return out
}

// translate rewrites the word-boundary atoms \< and \> to Go's \b.
// Other escapes pass through untouched.
func translate(pattern string) string {
	if !strings.Contains(pattern, `\<`) && !strings.Contains(pattern, `\>`) {
		return pattern
	}
	var b strings.Builder
	b.Grow(len(pattern))
	rs := []rune(pattern)
	for i := 0; i < len(rs); i++ {
		if rs[i] == '\\' && i+1 < len(rs) {
			if rs[i+1] == '<' || rs[i+1] == '>' {
				b.WriteString(`\b`)
				i++
				continue
			}
			b.WriteRune(rs[i])
			b.WriteRune(rs[i+1])
			i++
			continue
		}
		b.WriteRune(rs[i])
	}
	return b.String()
}

func hasUpper(pattern string) bool {
	for _, r := range pattern {
		if unicode.IsUpper(r) {
			return true
		}
	}
	return false
}
