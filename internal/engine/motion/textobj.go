package motion

import (
	"fmt"

	"github.com/dshills/modalkit/internal/host"
)

// standardTextObjects returns the built-in text objects. Text objects
// resolve the exact range themselves, so no operator adjustments are
// applied to the spans they return.
func standardTextObjects() []*Definition {
	defs := []*Definition{
		{Keys: "iw", Name: "inner-word", resolve: wordObject(false, true)},
		{Keys: "aw", Name: "a-word", resolve: wordObject(false, false)},
		{Keys: "iW", Name: "inner-word-big", resolve: wordObject(true, true)},
		{Keys: "aW", Name: "a-word-big", resolve: wordObject(true, false)},
		{Keys: "is", Name: "inner-sentence", resolve: sentenceObject(true)},
		{Keys: "as", Name: "a-sentence", resolve: sentenceObject(false)},
		{Keys: "ip", Name: "inner-paragraph", resolve: paragraphObject(true)},
		{Keys: "ap", Name: "a-paragraph", resolve: paragraphObject(false)},
		{Keys: "it", Name: "inner-tag", resolve: tagObject(true)},
		{Keys: "at", Name: "a-tag", resolve: tagObject(false)},
	}
	brackets := []struct {
		def  pairDef
		keys []string
	}{
		{pairDef{'(', ')'}, []string{"(", ")", "b"}},
		{pairDef{'{', '}'}, []string{"{", "}", "B"}},
		{pairDef{'[', ']'}, []string{"[", "]"}},
		{pairDef{'<', '>'}, []string{"<", ">"}},
	}
	for _, b := range brackets {
		for _, k := range b.keys {
			defs = append(defs,
				&Definition{Keys: "i" + k, Name: "inner-block", resolve: bracketObject(b.def, true)},
				&Definition{Keys: "a" + k, Name: "a-block", resolve: bracketObject(b.def, false)},
			)
		}
	}
	for _, q := range []rune{'"', '\'', '`'} {
		defs = append(defs,
			&Definition{Keys: "i" + string(q), Name: "inner-quote", resolve: quoteObject(q, true)},
			&Definition{Keys: "a" + string(q), Name: "a-quote", resolve: quoteObject(q, false)},
		)
	}
	return defs
}

type runSeg struct {
	start int
	end   int
	class charClass
}

func segmentRuns(line []rune, cls func(rune) charClass) []runSeg {
	var runs []runSeg
	for i := 0; i < len(line); {
		c := cls(line[i])
		j := i + 1
		for j < len(line) && cls(line[j]) == c {
			j++
		}
		runs = append(runs, runSeg{start: i, end: j, class: c})
		i = j
	}
	return runs
}

// wordObject implements iw, aw, iW and aW. The inner form counts runs
// of characters, so whitespace between words counts toward the total.
// The outer form counts words and swallows one neighbouring run of
// whitespace.
func wordObject(big, inner bool) func(*Context, *doc, int, string) (Span, error) {
	return func(ctx *Context, d *doc, count int, _ string) (Span, error) {
		line := d.lines[ctx.Pos.Line]
		if len(line) == 0 {
			pos := host.Position{Line: ctx.Pos.Line, Col: 0}
			return Span{Start: pos, End: pos, Kind: Inclusive, Target: pos}, nil
		}
		cls := classFunc(big)
		runs := segmentRuns(line, cls)
		col := ctx.Pos.Col
		if col >= len(line) {
			col = len(line) - 1
		}
		idx := 0
		for i, r := range runs {
			if col >= r.start && col < r.end {
				idx = i
				break
			}
		}
		n := orOne(count)
		var start, end int
		if inner {
			start = runs[idx].start
			j := idx + n - 1
			if j >= len(runs) {
				j = len(runs) - 1
			}
			end = runs[j].end
		} else {
			start = runs[idx].start
			j := idx
			words := 0
			if runs[idx].class != classWhitespace {
				words = 1
			}
			for words < n && j+1 < len(runs) {
				j++
				if runs[j].class != classWhitespace {
					words++
				}
			}
			end = runs[j].end
			if runs[idx].class != classWhitespace {
				trailing := false
				if j+1 < len(runs) && runs[j+1].class == classWhitespace {
					end = runs[j+1].end
					trailing = true
				}
				if !trailing && idx > 0 && runs[idx-1].class == classWhitespace {
					start = runs[idx-1].start
				}
			}
		}
		s := host.Position{Line: ctx.Pos.Line, Col: start}
		e := host.Position{Line: ctx.Pos.Line, Col: end}
		return Span{Start: s, End: e, Kind: Inclusive, Target: s}, nil
	}
}

// sentenceObject implements is and as. The inner form trims the
// whitespace after the last sentence. The outer form keeps it, or
// takes the leading whitespace when there is none.
func sentenceObject(inner bool) func(*Context, *doc, int, string) (Span, error) {
	return func(ctx *Context, d *doc, count int, _ string) (Span, error) {
		after := ctx.Pos
		if next, moved := d.next(ctx.Pos); moved {
			after = next
		}
		start := prevSentenceStart(d, after)
		end := nextSentenceStart(d, ctx.Pos)
		for i := 1; i < orOne(count); i++ {
			next := nextSentenceStart(d, end)
			if next == end {
				break
			}
			end = next
		}
		if end.Before(start) {
			end = start
		}
		trimmed := end
		for trimmed.After(start) {
			prev, moved := d.prev(trimmed)
			if !moved {
				break
			}
			r, ok := d.at(prev)
			if !ok || !isSentenceSpace(r) {
				break
			}
			trimmed = prev
		}
		if inner {
			end = trimmed
		} else if trimmed == end {
			// no trailing whitespace, take the leading run instead
			for {
				prev, moved := d.prev(start)
				if !moved {
					break
				}
				r, ok := d.at(prev)
				if !ok || !isSentenceSpace(r) {
					break
				}
				start = prev
			}
		}
		return Span{Start: start, End: end, Kind: Inclusive, Target: start}, nil
	}
}

// paragraphObject implements ip and ap, both linewise. A paragraph is
// a block of non-empty lines. From an empty line the inner form
// selects the blank block and the outer form adds the paragraph that
// follows it.
func paragraphObject(inner bool) func(*Context, *doc, int, string) (Span, error) {
	return func(ctx *Context, d *doc, count int, _ string) (Span, error) {
		last := d.lineCount() - 1
		onBlank := d.blank(ctx.Pos.Line)
		startLine := ctx.Pos.Line
		for startLine > 0 && d.blank(startLine-1) == onBlank {
			startLine--
		}
		endLine := ctx.Pos.Line
		for endLine < last && d.blank(endLine+1) == onBlank {
			endLine++
		}
		n := orOne(count)
		if inner {
			cur := onBlank
			for i := 1; i < n && endLine < last; i++ {
				cur = !cur
				for endLine < last && d.blank(endLine+1) == cur {
					endLine++
				}
			}
		} else if onBlank {
			for i := 0; i < n; i++ {
				for endLine < last && d.blank(endLine+1) {
					endLine++
				}
				for endLine < last && !d.blank(endLine+1) {
					endLine++
				}
			}
		} else {
			trailing := false
			for i := 0; i < n; i++ {
				for endLine < last && !d.blank(endLine+1) {
					endLine++
				}
				if endLine < last && d.blank(endLine+1) {
					trailing = true
					for endLine < last && d.blank(endLine+1) {
						endLine++
					}
				}
			}
			if !trailing {
				for startLine > 0 && d.blank(startLine-1) {
					startLine--
				}
			}
		}
		target := host.Position{Line: startLine, Col: d.firstNonBlank(startLine)}
		return linewise(d, startLine, endLine, target), nil
	}
}

// bracketObject implements the block objects such as i( and a{. A
// count selects the count'th enclosing pair.
func bracketObject(def pairDef, inner bool) func(*Context, *doc, int, string) (Span, error) {
	return func(ctx *Context, d *doc, count int, _ string) (Span, error) {
		open, closing, err := enclosingPair(d, ctx.Pos, def, orOne(count))
		if err != nil {
			return Span{}, err
		}
		if inner {
			start, moved := d.next(open)
			if !moved || closing.Before(start) {
				start = closing
			}
			return Span{Start: start, End: closing, Kind: Inclusive, Target: start}, nil
		}
		end, moved := d.next(closing)
		if !moved {
			end = d.endPos()
		}
		return Span{Start: open, End: end, Kind: Inclusive, Target: open}, nil
	}
}

// enclosingPair finds the n'th bracket pair around pos. A cursor on a
// bracket counts as inside that pair.
func enclosingPair(d *doc, pos host.Position, def pairDef, n int) (host.Position, host.Position, error) {
	start := pos
	if r, ok := d.at(pos); ok && r == def.close {
		prev, moved := d.prev(pos)
		if !moved {
			return host.Position{}, host.Position{}, fmt.Errorf("%w: no surrounding %c%c", ErrInvalidTarget, def.open, def.close)
		}
		start = prev
	}
	var open host.Position
	for level := 0; level < n; level++ {
		var ok bool
		open, ok = findUnmatchedOpen(d, start, def)
		if !ok {
			return host.Position{}, host.Position{}, fmt.Errorf("%w: no surrounding %c%c", ErrInvalidTarget, def.open, def.close)
		}
		if level+1 < n {
			prev, moved := d.prev(open)
			if !moved {
				return host.Position{}, host.Position{}, fmt.Errorf("%w: no surrounding %c%c", ErrInvalidTarget, def.open, def.close)
			}
			start = prev
		}
	}
	closing, ok := scanMatch(d, open, def, true)
	if !ok {
		return host.Position{}, host.Position{}, fmt.Errorf("%w: unmatched %c", ErrInvalidTarget, def.open)
	}
	return open, closing, nil
}

// findUnmatchedOpen scans backward from p, inclusive, for an open
// bracket that no close in between balances.
func findUnmatchedOpen(d *doc, p host.Position, def pairDef) (host.Position, bool) {
	depth := 0
	cur := p
	for {
		if r, ok := d.at(cur); ok {
			switch r {
			case def.close:
				depth++
			case def.open:
				if depth == 0 {
					return cur, true
				}
				depth--
			}
		}
		prev, moved := d.prev(cur)
		if !moved {
			return host.Position{}, false
		}
		cur = prev
	}
}

// quoteObject implements i", a", i', a', i` and a`. Quotes pair up
// from the start of the line and never span lines. A backslash
// escapes a quote.
func quoteObject(quote rune, inner bool) func(*Context, *doc, int, string) (Span, error) {
	return func(ctx *Context, d *doc, _ int, _ string) (Span, error) {
		line := d.lines[ctx.Pos.Line]
		var cols []int
		for i := 0; i < len(line); i++ {
			if line[i] == quote && !escapedAt(line, i) {
				cols = append(cols, i)
			}
		}
		for k := 0; k+1 < len(cols); k += 2 {
			openCol, closeCol := cols[k], cols[k+1]
			if ctx.Pos.Col > closeCol {
				continue
			}
			var start, end int
			if inner {
				start, end = openCol+1, closeCol
			} else {
				start, end = openCol, closeCol+1
				trailing := false
				for end < len(line) && (line[end] == ' ' || line[end] == '\t') {
					end++
					trailing = true
				}
				if !trailing {
					for start > 0 && (line[start-1] == ' ' || line[start-1] == '\t') {
						start--
					}
				}
			}
			s := host.Position{Line: ctx.Pos.Line, Col: start}
			e := host.Position{Line: ctx.Pos.Line, Col: end}
			return Span{Start: s, End: e, Kind: Inclusive, Target: s}, nil
		}
		return Span{}, fmt.Errorf("%w: no %c-quoted text", ErrInvalidTarget, quote)
	}
}

func escapedAt(line []rune, i int) bool {
	n := 0
	for j := i - 1; j >= 0 && line[j] == '\\'; j-- {
		n++
	}
	return n%2 == 1
}

type tagToken struct {
	name    string
	closing bool
	self    bool
	start   host.Position
	end     host.Position
}

// tagObject implements it and at. Tags pair by name with nesting, and
// self-closing tags are skipped. A count selects the count'th
// enclosing pair.
func tagObject(inner bool) func(*Context, *doc, int, string) (Span, error) {
	return func(ctx *Context, d *doc, count int, _ string) (Span, error) {
		pairs := tagPairs(collectTags(d))
		var enclosing []int
		for i, p := range pairs {
			if !ctx.Pos.Before(p.open.start) && ctx.Pos.Before(p.close.end) {
				enclosing = append(enclosing, i)
			}
		}
		if len(enclosing) == 0 {
			return Span{}, fmt.Errorf("%w: no surrounding tag", ErrInvalidTarget)
		}
		// innermost first
		for i, j := 0, len(enclosing)-1; i < j; i, j = i+1, j-1 {
			enclosing[i], enclosing[j] = enclosing[j], enclosing[i]
		}
		n := orOne(count)
		if n > len(enclosing) {
			return Span{}, fmt.Errorf("%w: no surrounding tag", ErrInvalidTarget)
		}
		p := pairs[enclosing[n-1]]
		if inner {
			return Span{Start: p.open.end, End: p.close.start, Kind: Inclusive, Target: p.open.end}, nil
		}
		return Span{Start: p.open.start, End: p.close.end, Kind: Inclusive, Target: p.open.start}, nil
	}
}

type tagPair struct {
	open  tagToken
	close tagToken
}

// tagPairs matches close tags to the nearest open tag of the same
// name, discarding anything unbalanced. Pairs come out in document
// order of their open tags.
func tagPairs(tokens []tagToken) []tagPair {
	var stack []tagToken
	var pairs []tagPair
	for _, t := range tokens {
		switch {
		case t.self:
		case !t.closing:
			stack = append(stack, t)
		default:
			for i := len(stack) - 1; i >= 0; i-- {
				if stack[i].name == t.name {
					pairs = append(pairs, tagPair{open: stack[i], close: t})
					stack = stack[:i]
					break
				}
			}
		}
	}
	for i := 0; i < len(pairs); i++ {
		for j := i + 1; j < len(pairs); j++ {
			if pairs[j].open.start.Before(pairs[i].open.start) {
				pairs[i], pairs[j] = pairs[j], pairs[i]
			}
		}
	}
	return pairs
}

// collectTags scans every line for markup tags. A tag token must open
// and close on the same line.
func collectTags(d *doc) []tagToken {
	var tokens []tagToken
	for ln, line := range d.lines {
		for i := 0; i < len(line); i++ {
			if line[i] != '<' {
				continue
			}
			j := i + 1
			closing := false
			if j < len(line) && line[j] == '/' {
				closing = true
				j++
			}
			nameStart := j
			for j < len(line) && isTagNameRune(line[j]) {
				j++
			}
			if j == nameStart {
				continue
			}
			name := string(line[nameStart:j])
			end := -1
			for k := j; k < len(line); k++ {
				if line[k] == '>' {
					end = k
					break
				}
				if line[k] == '<' {
					break
				}
			}
			if end < 0 {
				continue
			}
			tokens = append(tokens, tagToken{
				name:    name,
				closing: closing,
				self:    end > 0 && line[end-1] == '/',
				start:   host.Position{Line: ln, Col: i},
				end:     host.Position{Line: ln, Col: end + 1},
			})
			i = end
		}
	}
	return tokens
}

func isTagNameRune(r rune) bool {
	return r == '-' || r == '_' || r == ':' ||
		(r >= '0' && r <= '9') || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}
