package motion

import (
	"github.com/dshills/modalkit/internal/host"
)

// paragraphForward implements }. A paragraph boundary is an empty
// line. The motion lands on the boundary itself, or at the end of the
// buffer when no boundary follows.
func paragraphForward(ctx *Context, d *doc, count int, _ string) (Span, error) {
	line := ctx.Pos.Line
	last := d.lineCount() - 1
	for i := 0; i < orOne(count); i++ {
		for line < last && d.blank(line) {
			line++
		}
		for line < last && !d.blank(line) {
			line++
		}
	}
	target := host.Position{Line: line, Col: 0}
	if !d.blank(line) {
		target = d.endPos()
	}
	return charwise(d, ctx.Pos, target, false, ctx), nil
}

// paragraphBackward implements {. It lands on the empty line above the
// current paragraph, or on the first line of the buffer.
func paragraphBackward(ctx *Context, d *doc, count int, _ string) (Span, error) {
	line := ctx.Pos.Line
	for i := 0; i < orOne(count); i++ {
		for line > 0 && d.blank(line) {
			line--
		}
		for line > 0 && !d.blank(line) {
			line--
		}
	}
	target := host.Position{Line: line, Col: 0}
	if !d.blank(line) && line != 0 {
		target = host.Position{Line: 0, Col: 0}
	}
	return charwise(d, ctx.Pos, target, false, ctx), nil
}

// sentenceForward implements ). A sentence ends at '.', '!' or '?'
// followed by any closing quotes or brackets and then whitespace or
// the end of a line. An empty line also ends a sentence.
func sentenceForward(ctx *Context, d *doc, count int, _ string) (Span, error) {
	target := ctx.Pos
	for i := 0; i < orOne(count); i++ {
		next := nextSentenceStart(d, target)
		if next == target {
			break
		}
		target = next
	}
	return charwise(d, ctx.Pos, target, false, ctx), nil
}

// sentenceBackward implements (.
func sentenceBackward(ctx *Context, d *doc, count int, _ string) (Span, error) {
	target := ctx.Pos
	for i := 0; i < orOne(count); i++ {
		prev := prevSentenceStart(d, target)
		if prev == target {
			break
		}
		target = prev
	}
	return charwise(d, ctx.Pos, target, false, ctx), nil
}

func isSentencePunct(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}

func isSentenceCloser(r rune) bool {
	return r == ')' || r == ']' || r == '"' || r == '\''
}

func isSentenceSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n'
}

// nextSentenceStart walks forward from p to the start of the next
// sentence. It returns the end of the buffer when none follows.
func nextSentenceStart(d *doc, p host.Position) host.Position {
	if target, ok := sentenceGapTarget(d, p); ok {
		return target
	}
	cur := p
	for {
		if cur != p && cur.Col == 0 && d.blank(cur.Line) {
			return cur
		}
		r, ok := d.at(cur)
		if !ok {
			return d.endPos()
		}
		if isSentencePunct(r) {
			if target, ok := sentenceStartAfter(d, cur); ok {
				return target
			}
		}
		next, moved := d.next(cur)
		if !moved {
			return d.endPos()
		}
		cur = next
	}
}

// sentenceStartAfter checks that the punctuation at p really ends a
// sentence and skips to the start of the following one.
func sentenceStartAfter(d *doc, p host.Position) (host.Position, bool) {
	q := p
	for {
		next, moved := d.next(q)
		if !moved {
			return d.endPos(), true
		}
		q = next
		r, ok := d.at(q)
		if !ok {
			return d.endPos(), true
		}
		if isSentenceCloser(r) {
			continue
		}
		if !isSentenceSpace(r) {
			return host.Position{}, false
		}
		return skipSentenceSpace(d, q), true
	}
}

// skipSentenceSpace advances over whitespace to the first character of
// the next sentence, stopping on empty lines.
func skipSentenceSpace(d *doc, p host.Position) host.Position {
	q := p
	for {
		if q.Col == 0 && d.blank(q.Line) {
			return q
		}
		r, ok := d.at(q)
		if !ok {
			return d.endPos()
		}
		if !isSentenceSpace(r) {
			return q
		}
		next, moved := d.next(q)
		if !moved {
			return d.endPos()
		}
		q = next
	}
}

// sentenceGapTarget handles a cursor sitting in the closing run of a
// finished sentence. The target is then the start that run leads to.
func sentenceGapTarget(d *doc, p host.Position) (host.Position, bool) {
	r, ok := d.at(p)
	if !ok || (!isSentenceSpace(r) && !isSentenceCloser(r)) {
		return host.Position{}, false
	}
	q := p
	for {
		prev, moved := d.prev(q)
		if !moved {
			return host.Position{}, false
		}
		q = prev
		r, ok = d.at(q)
		if !ok {
			return host.Position{}, false
		}
		if isSentenceSpace(r) {
			continue
		}
		break
	}
	for isSentenceCloser(r) {
		prev, moved := d.prev(q)
		if !moved {
			return host.Position{}, false
		}
		q = prev
		r, _ = d.at(q)
	}
	if !isSentencePunct(r) {
		return host.Position{}, false
	}
	q = p
	for {
		r, ok = d.at(q)
		if !ok || !isSentenceCloser(r) {
			break
		}
		next, moved := d.next(q)
		if !moved {
			return d.endPos(), true
		}
		q = next
	}
	target := skipSentenceSpace(d, q)
	if target == p {
		next, moved := d.next(p)
		if !moved {
			return d.endPos(), true
		}
		target = skipSentenceSpace(d, next)
	}
	return target, true
}

// prevSentenceStart collects the sentence starts within the previous
// two paragraphs and returns the last one before p.
func prevSentenceStart(d *doc, p host.Position) host.Position {
	line := p.Line
	boundaries := 0
	for line > 0 && boundaries < 2 {
		line--
		if d.blank(line) {
			boundaries++
		}
	}
	cur := host.Position{Line: line, Col: 0}
	best := cur
	if !d.blank(line) && line != 0 {
		best = host.Position{Line: 0, Col: 0}
	}
	for {
		next := nextSentenceStart(d, cur)
		if next == cur || !next.Before(p) {
			break
		}
		best = next
		cur = next
	}
	return best
}
