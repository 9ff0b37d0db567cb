package editor

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/dshills/modalkit/internal/engine/motion"
	"github.com/dshills/modalkit/internal/engine/register"
	"github.com/dshills/modalkit/internal/host"
	"github.com/dshills/modalkit/internal/input/command"
)

// runOperator applies a completed operator command to its resolved
// span. The transaction opens only after the motion resolves, so an
// operator whose motion fails leaves no undo entry behind.
func (e *Editor) runOperator(cmd *command.Command) error {
	span, err := e.operatorSpan(cmd)
	if err != nil {
		return err
	}
	if cmd.Operator.ChangesText {
		e.editBegin()
	}
	switch cmd.Operator.Name {
	case "delete":
		return e.opDelete(span, cmd.Register)
	case "change":
		return e.opChange(span, cmd.Register)
	case "yank":
		return e.opYank(span, cmd.Register)
	case "indent":
		return e.opIndent(span, 1)
	case "outdent":
		return e.opIndent(span, -1)
	case "reindent":
		return e.opReindent(span)
	case "lowercase":
		return e.opCase(span, 'u')
	case "uppercase":
		return e.opCase(span, 'U')
	case "toggle-case":
		return e.opCase(span, '~')
	case "reflow":
		return e.opReflow(span)
	default:
		return fmt.Errorf("no handler for operator %q", cmd.Operator.Name)
	}
}

// operatorSpan resolves the range an operator covers. The doubled form
// selects whole lines through the current-line motion, with the count
// clamped to the lines that remain.
func (e *Editor) operatorSpan(cmd *command.Command) (motion.Span, error) {
	if cmd.Linewise {
		count := cmd.EffectiveCount()
		if avail := e.lastLine() - e.cursor.Line + 1; count > avail {
			count = avail
		}
		return e.motions.Resolve(e.motionContext(true), "_", count, "")
	}
	keys := cmd.Motion.Keys
	if cmd.Operator.Name == "change" {
		keys = e.changeWordAdjust(keys)
	}
	return e.motions.Resolve(e.motionContext(true), keys, cmd.Count, cmd.Arg)
}

// changeWordAdjust rewrites cw and cW to their end-of-word forms when
// the cursor rests on a non-blank, so the change stops short of the
// trailing whitespace.
func (e *Editor) changeWordAdjust(keys string) string {
	if keys != "w" && keys != "W" {
		return keys
	}
	runes := []rune(e.line(e.cursor.Line))
	if e.cursor.Col >= len(runes) || unicode.IsSpace(runes[e.cursor.Col]) {
		return keys
	}
	if keys == "w" {
		return "e"
	}
	return "E"
}

// lastCovered returns the position of the final character a charwise
// span covers. Span ends are exclusive.
func (e *Editor) lastCovered(span motion.Span) host.Position {
	end := span.End
	if end.Col > 0 {
		return host.Position{Line: end.Line, Col: end.Col - 1}
	}
	if end.Line > span.Start.Line {
		return e.clampNormal(host.Position{Line: end.Line - 1, Col: e.lineLen(end.Line - 1)})
	}
	return span.Start
}

// opDelete removes the span's text into the registers. The caller has
// already opened the transaction.
func (e *Editor) opDelete(span motion.Span, reg rune) error {
	if span.Kind == motion.Linewise {
		return e.deleteLines(span.Start.Line, span.End.Line, reg)
	}
	text := e.spanText(span.Start, span.End)
	if text == "" {
		return nil
	}
	if err := e.buffer.Replace(span.Start, span.End, ""); err != nil {
		return err
	}
	small := span.Start.Line == span.End.Line
	if err := e.registers.RecordDelete(reg, register.Value{Text: text}, small); err != nil {
		return err
	}
	e.cursor = e.clampNormal(span.Start)
	e.setChangeMarks(e.cursor, e.cursor)
	return nil
}

// deleteLines removes whole lines a through b into the registers.
func (e *Editor) deleteLines(a, b int, reg rune) error {
	v := register.Value{Text: e.linesText(a, b), Shape: register.ShapeLinewise}
	if err := e.removeLines(a, b); err != nil {
		return err
	}
	if err := e.registers.RecordDelete(reg, v, false); err != nil {
		return err
	}
	line := a
	if last := e.lastLine(); line > last {
		line = last
	}
	e.cursor = host.Position{Line: line, Col: e.firstNonBlankCol(line)}
	e.setChangeMarks(host.Position{Line: line}, host.Position{Line: line})
	return nil
}

// removeLines deletes lines a through b together with one separating
// newline, so the remaining lines close the gap.
func (e *Editor) removeLines(a, b int) error {
	last := e.lastLine()
	switch {
	case b < last:
		return e.buffer.Replace(host.Position{Line: a}, host.Position{Line: b + 1}, "")
	case a > 0:
		start := host.Position{Line: a - 1, Col: e.lineLen(a - 1)}
		return e.buffer.Replace(start, host.Position{Line: b, Col: e.lineLen(b)}, "")
	default:
		return e.buffer.Replace(host.Position{}, host.Position{Line: b, Col: e.lineLen(b)}, "")
	}
}

// opChange deletes the span and enters insert mode at its start. The
// transaction stays open until the insertion ends. A linewise change
// keeps the first line's indent when autoindent is on.
func (e *Editor) opChange(span motion.Span, reg rune) error {
	if span.Kind == motion.Linewise {
		a, b := span.Start.Line, span.End.Line
		v := register.Value{Text: e.linesText(a, b), Shape: register.ShapeLinewise}
		if err := e.registers.RecordDelete(reg, v, false); err != nil {
			return err
		}
		indent := ""
		if e.options.Bool("autoindent") {
			indent = leadingWhitespace(e.line(a))
		}
		end := host.Position{Line: b, Col: e.lineLen(b)}
		if err := e.buffer.Replace(host.Position{Line: a}, end, indent); err != nil {
			return err
		}
		e.cursor = host.Position{Line: a, Col: runeLen(indent)}
		e.setChangeMarks(host.Position{Line: a}, e.cursor)
		return e.enterInsert('c', 1)
	}

	if text := e.spanText(span.Start, span.End); text != "" {
		if err := e.buffer.Replace(span.Start, span.End, ""); err != nil {
			return err
		}
		small := span.Start.Line == span.End.Line
		if err := e.registers.RecordDelete(reg, register.Value{Text: text}, small); err != nil {
			return err
		}
	}
	e.cursor = e.clampInsert(span.Start)
	e.setChangeMarks(e.cursor, e.cursor)
	return e.enterInsert('c', 1)
}

// opYank copies the span's text into the registers. The cursor moves to
// the earlier end of the span, column preserved for linewise yanks.
func (e *Editor) opYank(span motion.Span, reg rune) error {
	if span.Kind == motion.Linewise {
		a, b := span.Start.Line, span.End.Line
		v := register.Value{Text: e.linesText(a, b), Shape: register.ShapeLinewise}
		if err := e.registers.RecordYank(reg, v); err != nil {
			return err
		}
		if a < e.cursor.Line {
			e.cursor = e.clampNormal(host.Position{Line: a, Col: e.cursor.Col})
		}
		e.setChangeMarks(host.Position{Line: a}, host.Position{Line: b, Col: e.lineLen(b)})
		return nil
	}
	v := register.Value{Text: e.spanText(span.Start, span.End)}
	if err := e.registers.RecordYank(reg, v); err != nil {
		return err
	}
	e.setChangeMarks(span.Start, e.lastCovered(span))
	e.cursor = e.clampNormal(host.MinPosition(e.cursor, span.Start))
	return nil
}

// opIndent shifts the covered lines one level right (dir 1) or left
// (dir -1). Empty lines are skipped.
func (e *Editor) opIndent(span motion.Span, dir int) error {
	sw := e.options.Int("shiftwidth")
	if sw <= 0 {
		sw = e.options.Int("tabstop")
	}
	ts := e.options.Int("tabstop")
	expand := e.options.Bool("expandtab")
	a, b := span.Start.Line, span.End.Line
	for n := a; n <= b; n++ {
		text := e.line(n)
		if text == "" {
			continue
		}
		lead, _ := splitIndent(text)
		width := indentWidth(lead, ts) + dir*sw
		if width < 0 {
			width = 0
		}
		newLead := makeIndent(width, ts, expand)
		if newLead == lead {
			continue
		}
		at := host.Position{Line: n}
		if err := e.buffer.Replace(at, host.Position{Line: n, Col: runeLen(lead)}, newLead); err != nil {
			return err
		}
	}
	e.cursor = host.Position{Line: a, Col: e.firstNonBlankCol(a)}
	e.setChangeMarks(host.Position{Line: a}, host.Position{Line: b})
	return nil
}

// opReindent re-renders each covered line's leading whitespace with the
// current tabstop and expandtab settings, keeping its width. Lines with
// nothing but whitespace come out empty.
func (e *Editor) opReindent(span motion.Span) error {
	ts := e.options.Int("tabstop")
	expand := e.options.Bool("expandtab")
	a, b := span.Start.Line, span.End.Line
	for n := a; n <= b; n++ {
		lead, rest := splitIndent(e.line(n))
		if lead == "" {
			continue
		}
		newLead := makeIndent(indentWidth(lead, ts), ts, expand)
		if rest == "" {
			newLead = ""
		}
		if newLead == lead {
			continue
		}
		at := host.Position{Line: n}
		if err := e.buffer.Replace(at, host.Position{Line: n, Col: runeLen(lead)}, newLead); err != nil {
			return err
		}
	}
	e.cursor = host.Position{Line: a, Col: e.firstNonBlankCol(a)}
	e.setChangeMarks(host.Position{Line: a}, host.Position{Line: b})
	return nil
}

// opCase transforms the span's letter case: u lower, U upper, ~ swap.
func (e *Editor) opCase(span motion.Span, kind rune) error {
	transform := strings.ToLower
	switch kind {
	case 'U':
		transform = strings.ToUpper
	case '~':
		transform = swapCase
	}

	if span.Kind == motion.Linewise {
		a, b := span.Start.Line, span.End.Line
		cur := e.cursor
		start := host.Position{Line: a}
		end := host.Position{Line: b, Col: e.lineLen(b)}
		if err := e.buffer.Replace(start, end, transform(e.linesText(a, b))); err != nil {
			return err
		}
		e.cursor = e.clampNormal(cur)
		e.setChangeMarks(start, end)
		return nil
	}

	text := e.spanText(span.Start, span.End)
	if text == "" {
		return nil
	}
	if err := e.buffer.Replace(span.Start, span.End, transform(text)); err != nil {
		return err
	}
	e.cursor = e.clampNormal(span.Start)
	e.setChangeMarks(span.Start, e.lastCovered(span))
	return nil
}

// opReflow rewraps the covered lines at textwidth. Blank lines separate
// paragraphs and pass through; each paragraph keeps its first line's
// indent.
func (e *Editor) opReflow(span motion.Span) error {
	width := e.options.Int("textwidth")
	if width <= 0 {
		width = 79
	}
	ts := e.options.Int("tabstop")
	a, b := span.Start.Line, span.End.Line

	var out []string
	for n := a; n <= b; {
		if strings.TrimSpace(e.line(n)) == "" {
			out = append(out, e.line(n))
			n++
			continue
		}
		first := n
		for n <= b && strings.TrimSpace(e.line(n)) != "" {
			n++
		}
		out = append(out, e.wrapParagraph(first, n-1, width, ts)...)
	}

	start := host.Position{Line: a}
	end := host.Position{Line: b, Col: e.lineLen(b)}
	if err := e.buffer.Replace(start, end, strings.Join(out, "\n")); err != nil {
		return err
	}
	last := a + len(out) - 1
	e.cursor = e.clampNormal(host.Position{Line: last, Col: e.firstNonBlankCol(last)})
	e.setChangeMarks(start, host.Position{Line: last})
	return nil
}

// wrapParagraph joins lines first through last into one word stream and
// wraps it greedily at width columns.
func (e *Editor) wrapParagraph(first, last, width, ts int) []string {
	indent := leadingWhitespace(e.line(first))
	var words []string
	for n := first; n <= last; n++ {
		words = append(words, strings.Fields(e.line(n))...)
	}
	if len(words) == 0 {
		return []string{indent}
	}

	base := indentWidth(indent, ts)
	var lines []string
	cur := indent + words[0]
	curWidth := base + runeLen(words[0])
	for _, w := range words[1:] {
		wlen := runeLen(w)
		if curWidth+1+wlen > width && curWidth > base {
			lines = append(lines, cur)
			cur = indent + w
			curWidth = base + wlen
			continue
		}
		cur += " " + w
		curWidth += 1 + wlen
	}
	return append(lines, cur)
}

// swapCase flips the case of every cased rune.
func swapCase(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case unicode.IsUpper(r):
			return unicode.ToLower(r)
		case unicode.IsLower(r):
			return unicode.ToUpper(r)
		default:
			return r
		}
	}, s)
}
