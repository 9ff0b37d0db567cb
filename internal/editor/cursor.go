package editor

import (
	"strings"

	"github.com/dshills/modalkit/internal/host"
)

// line returns the text of line n, empty when n is out of range.
func (e *Editor) line(n int) string {
	text, err := e.buffer.Line(n)
	if err != nil {
		return ""
	}
	return text
}

// lineLen returns the rune length of line n.
func (e *Editor) lineLen(n int) int {
	return len([]rune(e.line(n)))
}

// lastLine returns the index of the final line.
func (e *Editor) lastLine() int {
	n := e.buffer.LineCount()
	if n < 1 {
		return 0
	}
	return n - 1
}

// clampNormal confines p to positions the cursor may occupy in normal
// mode: on a character of an existing line, or column zero of an empty
// line.
func (e *Editor) clampNormal(p host.Position) host.Position {
	if p.Line < 0 {
		p.Line = 0
	}
	if last := e.lastLine(); p.Line > last {
		p.Line = last
	}
	if p.Col < 0 {
		p.Col = 0
	}
	if max := e.lineLen(p.Line) - 1; p.Col > max {
		if max < 0 {
			max = 0
		}
		p.Col = max
	}
	return p
}

// clampInsert confines p like clampNormal but allows the column one
// past the end of the line, where insert mode appends.
func (e *Editor) clampInsert(p host.Position) host.Position {
	if p.Line < 0 {
		p.Line = 0
	}
	if last := e.lastLine(); p.Line > last {
		p.Line = last
	}
	if p.Col < 0 {
		p.Col = 0
	}
	if max := e.lineLen(p.Line); p.Col > max {
		p.Col = max
	}
	return p
}

// firstNonBlankCol returns the column of the first non-blank character
// of line n, zero for blank lines.
func (e *Editor) firstNonBlankCol(n int) int {
	for i, r := range []rune(e.line(n)) {
		if r != ' ' && r != '\t' {
			return i
		}
	}
	return 0
}

// spanText extracts the text of the half-open range [start, end).
// Line breaks inside the range appear as single newlines.
func (e *Editor) spanText(start, end host.Position) string {
	if start.Compare(end) >= 0 {
		return ""
	}
	if start.Line == end.Line {
		runes := []rune(e.line(start.Line))
		from, to := clampRange(start.Col, end.Col, len(runes))
		return string(runes[from:to])
	}
	var b strings.Builder
	first := []rune(e.line(start.Line))
	if start.Col < len(first) {
		b.WriteString(string(first[start.Col:]))
	}
	for l := start.Line + 1; l < end.Line; l++ {
		b.WriteByte('\n')
		b.WriteString(e.line(l))
	}
	b.WriteByte('\n')
	last := []rune(e.line(end.Line))
	to := end.Col
	if to > len(last) {
		to = len(last)
	}
	b.WriteString(string(last[:to]))
	return b.String()
}

// linesText joins lines a through b with newlines, without a trailing
// newline.
func (e *Editor) linesText(a, b int) string {
	var parts []string
	for l := a; l <= b; l++ {
		parts = append(parts, e.line(l))
	}
	return strings.Join(parts, "\n")
}

func clampRange(from, to, n int) (int, int) {
	if from < 0 {
		from = 0
	}
	if to > n {
		to = n
	}
	if from > to {
		from = to
	}
	return from, to
}

// retreat steps one column back, stopping at column zero.
func retreat(p host.Position) host.Position {
	if p.Col > 0 {
		p.Col--
	}
	return p
}

// leadingWhitespace returns the run of spaces and tabs that opens text.
func leadingWhitespace(text string) string {
	for i, r := range text {
		if r != ' ' && r != '\t' {
			return text[:i]
		}
	}
	return text
}

// splitIndent separates a line into its leading whitespace and the
// rest.
func splitIndent(text string) (lead, rest string) {
	lead = leadingWhitespace(text)
	return lead, text[len(lead):]
}

// indentWidth measures lead in display columns, expanding tabs to the
// next tabstop multiple.
func indentWidth(lead string, tabstop int) int {
	if tabstop <= 0 {
		tabstop = 1
	}
	width := 0
	for _, r := range lead {
		if r == '\t' {
			width = (width/tabstop + 1) * tabstop
			continue
		}
		width++
	}
	return width
}

// makeIndent renders width display columns of indentation, as spaces
// when expandtab is set and as tabs padded with spaces otherwise.
func makeIndent(width, tabstop int, expand bool) string {
	if width <= 0 {
		return ""
	}
	if expand || tabstop <= 0 {
		return strings.Repeat(" ", width)
	}
	return strings.Repeat("\t", width/tabstop) + strings.Repeat(" ", width%tabstop)
}

func runeLen(s string) int {
	return len([]rune(s))
}
