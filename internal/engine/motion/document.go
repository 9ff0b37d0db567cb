package motion

import (
	"unicode"

	"github.com/dshills/modalkit/internal/host"
)

// doc is a rune-indexed snapshot of a buffer taken at the start of a
// resolution. A position's column ranges over [0, lineLen]; the column
// equal to lineLen is the line-break slot, where at reports '\n' on
// every line but the last.
type doc struct {
	lines [][]rune
}

func snapshot(buf host.Buffer) *doc {
	n := buf.LineCount()
	lines := make([][]rune, n)
	for i := 0; i < n; i++ {
		text, err := buf.Line(i)
		if err != nil {
			break
		}
		lines[i] = []rune(text)
	}
	return &doc{lines: lines}
}

func (d *doc) lineCount() int {
	return len(d.lines)
}

func (d *doc) lineLen(n int) int {
	if n < 0 || n >= len(d.lines) {
		return 0
	}
	return len(d.lines[n])
}

// at returns the rune at p, with '\n' standing in for the line break.
// The second result is false past the end of the document.
func (d *doc) at(p host.Position) (rune, bool) {
	if p.Line < 0 || p.Line >= len(d.lines) || p.Col < 0 {
		return 0, false
	}
	line := d.lines[p.Line]
	if p.Col < len(line) {
		return line[p.Col], true
	}
	if p.Col == len(line) && p.Line < len(d.lines)-1 {
		return '\n', true
	}
	return 0, false
}

// next steps one rune forward, crossing line breaks. It refuses to
// step past the end position.
func (d *doc) next(p host.Position) (host.Position, bool) {
	if p.Line < 0 || p.Line >= len(d.lines) {
		return p, false
	}
	if p.Col < len(d.lines[p.Line]) {
		return host.Position{Line: p.Line, Col: p.Col + 1}, true
	}
	if p.Line < len(d.lines)-1 {
		return host.Position{Line: p.Line + 1, Col: 0}, true
	}
	return p, false
}

// prev steps one rune backward, crossing line breaks.
func (d *doc) prev(p host.Position) (host.Position, bool) {
	if p.Col > 0 {
		return host.Position{Line: p.Line, Col: p.Col - 1}, true
	}
	if p.Line > 0 {
		return host.Position{Line: p.Line - 1, Col: len(d.lines[p.Line-1])}, true
	}
	return p, false
}

// endPos is the last addressable position: the line-break slot of the
// final line.
func (d *doc) endPos() host.Position {
	last := len(d.lines) - 1
	if last < 0 {
		return host.Position{}
	}
	return host.Position{Line: last, Col: len(d.lines[last])}
}

// clamp forces p into the document.
func (d *doc) clamp(p host.Position) host.Position {
	if p.Line < 0 {
		p.Line = 0
	}
	if p.Line >= len(d.lines) {
		p.Line = len(d.lines) - 1
		if p.Line < 0 {
			return host.Position{}
		}
	}
	if p.Col < 0 {
		p.Col = 0
	}
	if n := len(d.lines[p.Line]); p.Col > n {
		p.Col = n
	}
	return p
}

// blank reports whether the line is empty. Paragraph boundaries are
// strictly empty lines, not whitespace-only ones.
func (d *doc) blank(line int) bool {
	return d.lineLen(line) == 0
}

// firstNonBlank returns the column of the first non-space rune, or the
// last column when the line is all blank.
func (d *doc) firstNonBlank(line int) int {
	if line < 0 || line >= len(d.lines) {
		return 0
	}
	runes := d.lines[line]
	for i, r := range runes {
		if !unicode.IsSpace(r) {
			return i
		}
	}
	if len(runes) == 0 {
		return 0
	}
	return len(runes) - 1
}

// lastNonBlank returns the column of the last non-space rune, or 0 for
// a blank line.
func (d *doc) lastNonBlank(line int) int {
	if line < 0 || line >= len(d.lines) {
		return 0
	}
	runes := d.lines[line]
	for i := len(runes) - 1; i >= 0; i-- {
		if !unicode.IsSpace(runes[i]) {
			return i
		}
	}
	return 0
}

// lastCharCol returns the column of the final rune on the line, 0 for
// an empty line.
func (d *doc) lastCharCol(line int) int {
	n := d.lineLen(line)
	if n == 0 {
		return 0
	}
	return n - 1
}
