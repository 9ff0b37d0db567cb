package motion

import (
	"fmt"
	"strings"

	"github.com/dshills/modalkit/internal/engine/search"
	"github.com/dshills/modalkit/internal/engine/session"
	"github.com/dshills/modalkit/internal/host"
)

// defaultMatchPairs mirrors the 'matchpairs' default.
const defaultMatchPairs = "(:),{:},[:]"

type pairDef struct {
	open  rune
	close rune
}

func parseMatchPairs(s string) []pairDef {
	if s == "" {
		s = defaultMatchPairs
	}
	var pairs []pairDef
	for _, part := range strings.Split(s, ",") {
		r := []rune(part)
		if len(r) == 3 && r[1] == ':' {
			pairs = append(pairs, pairDef{open: r[0], close: r[2]})
		}
	}
	return pairs
}

// matchPair implements %. Without a count it jumps between matching
// pair characters, searching the rest of the line for the first one.
// With a count it jumps to that percentage of the buffer, linewise.
func matchPair(ctx *Context, d *doc, count int, _ string) (Span, error) {
	if count > 0 {
		if count > 100 {
			return Span{}, fmt.Errorf("%w: %d%% is past the end", ErrInvalidTarget, count)
		}
		line := (count*d.lineCount() + 99) / 100
		if line > 0 {
			line--
		}
		target := host.Position{Line: line, Col: d.firstNonBlank(line)}
		return linewise(d, ctx.Pos.Line, line, target), nil
	}

	pairs := parseMatchPairs(ctx.Opt.MatchPairs)
	line := d.lines[ctx.Pos.Line]
	for col := ctx.Pos.Col; col < len(line); col++ {
		def, opening, ok := lookupPair(pairs, line[col])
		if !ok {
			continue
		}
		from := host.Position{Line: ctx.Pos.Line, Col: col}
		match, found := scanMatch(d, from, def, opening)
		if !found {
			return Span{}, fmt.Errorf("%w: no matching pair", ErrInvalidTarget)
		}
		return charwise(d, ctx.Pos, match, true, ctx), nil
	}
	return Span{}, fmt.Errorf("%w: no pair character on line", ErrInvalidTarget)
}

func lookupPair(pairs []pairDef, r rune) (pairDef, bool, bool) {
	for _, p := range pairs {
		if r == p.open {
			return p, true, true
		}
		if r == p.close {
			return p, false, true
		}
	}
	return pairDef{}, false, false
}

// scanMatch walks from a pair character to its partner, tracking
// nesting depth.
func scanMatch(d *doc, from host.Position, def pairDef, forward bool) (host.Position, bool) {
	depth := 1
	cur := from
	for {
		var moved bool
		if forward {
			cur, moved = d.next(cur)
		} else {
			cur, moved = d.prev(cur)
		}
		if !moved {
			return host.Position{}, false
		}
		r, ok := d.at(cur)
		if !ok {
			continue
		}
		switch r {
		case def.open:
			if forward {
				depth++
			} else {
				depth--
			}
		case def.close:
			if forward {
				depth--
			} else {
				depth++
			}
		}
		if depth == 0 {
			return cur, true
		}
	}
}

// markLine implements '. The target is the first non-blank of the
// marked line and the motion is linewise.
func markLine(ctx *Context, d *doc, _ int, arg string) (Span, error) {
	pos, err := markTarget(ctx, d, arg)
	if err != nil {
		return Span{}, err
	}
	target := host.Position{Line: pos.Line, Col: d.firstNonBlank(pos.Line)}
	return linewise(d, ctx.Pos.Line, pos.Line, target), nil
}

// markExact implements `. It moves to the marked position exactly.
func markExact(ctx *Context, d *doc, _ int, arg string) (Span, error) {
	pos, err := markTarget(ctx, d, arg)
	if err != nil {
		return Span{}, err
	}
	return charwise(d, ctx.Pos, pos, false, ctx), nil
}

func markTarget(ctx *Context, d *doc, arg string) (host.Position, error) {
	runes := []rune(arg)
	if len(runes) == 0 {
		return host.Position{}, fmt.Errorf("%w: missing mark name", ErrInvalidTarget)
	}
	name := runes[0]
	if ctx.Marks == nil {
		return host.Position{}, fmt.Errorf("%w: mark %c not set", ErrInvalidTarget, name)
	}
	m, err := ctx.Marks.Get(name, ctx.Buffer.ID())
	if err != nil {
		return host.Position{}, fmt.Errorf("%w: mark %c: %v", ErrInvalidTarget, name, err)
	}
	if m.Buffer != ctx.Buffer.ID() {
		return host.Position{}, fmt.Errorf("%w: mark %c is in another buffer", ErrInvalidTarget, name)
	}
	return d.clamp(m.Pos), nil
}

// searchMotion implements / and ?. An empty argument repeats the last
// pattern. A successful search becomes the new remembered search.
func searchMotion(backward bool) func(*Context, *doc, int, string) (Span, error) {
	return func(ctx *Context, d *doc, count int, arg string) (Span, error) {
		dir := session.Forward
		if backward {
			dir = session.Backward
		}
		pattern := arg
		if pattern == "" && ctx.Session != nil {
			if last, ok := ctx.Session.LastSearch(); ok {
				pattern = last.Pattern
			}
		}
		target, err := searchTarget(ctx, pattern, dir, orOne(count))
		if err != nil {
			return Span{}, err
		}
		if ctx.Session != nil {
			ctx.Session.SetLastSearch(session.Search{Pattern: pattern, Direction: dir})
		}
		return charwise(d, ctx.Pos, target, false, ctx), nil
	}
}

// searchRepeat implements n and N. Neither updates the remembered
// search, so n after N keeps the original direction.
func searchRepeat(reverse bool) func(*Context, *doc, int, string) (Span, error) {
	return func(ctx *Context, d *doc, count int, _ string) (Span, error) {
		if ctx.Session == nil {
			return Span{}, search.ErrNoPreviousPattern
		}
		last, ok := ctx.Session.LastSearch()
		if !ok {
			return Span{}, search.ErrNoPreviousPattern
		}
		dir := last.Direction
		if reverse {
			dir = dir.Reverse()
		}
		target, err := searchTarget(ctx, last.Pattern, dir, orOne(count))
		if err != nil {
			return Span{}, err
		}
		return charwise(d, ctx.Pos, target, false, ctx), nil
	}
}

// searchWord implements * and #. The identifier at or after the cursor
// is searched as a whole word and becomes the remembered search.
func searchWord(backward bool) func(*Context, *doc, int, string) (Span, error) {
	return func(ctx *Context, d *doc, count int, _ string) (Span, error) {
		word, err := wordAtOrAfter(d, ctx.Pos)
		if err != nil {
			return Span{}, err
		}
		dir := session.Forward
		if backward {
			dir = session.Backward
		}
		pattern := search.WordPattern(word)
		target, err := searchTarget(ctx, pattern, dir, orOne(count))
		if err != nil {
			return Span{}, err
		}
		if ctx.Session != nil {
			ctx.Session.SetLastSearch(session.Search{Pattern: pattern, Direction: dir})
		}
		return charwise(d, ctx.Pos, target, false, ctx), nil
	}
}

func searchTarget(ctx *Context, pattern string, dir session.Direction, n int) (host.Position, error) {
	if ctx.Search == nil {
		return host.Position{}, fmt.Errorf("%w: no search service", ErrInvalidTarget)
	}
	opts := search.Options{
		IgnoreCase: ctx.Opt.IgnoreCase,
		SmartCase:  ctx.Opt.SmartCase,
		WrapScan:   ctx.Opt.WrapScan,
	}
	from := ctx.Pos
	for i := 0; i < n; i++ {
		m, _, err := ctx.Search.Next(ctx.Buffer, from, pattern, dir, opts)
		if err != nil {
			return host.Position{}, err
		}
		from = m.Start
	}
	return from, nil
}

// wordAtOrAfter returns the identifier under the cursor, or the first
// one after it on the same line.
func wordAtOrAfter(d *doc, pos host.Position) (string, error) {
	line := d.lines[pos.Line]
	col := pos.Col
	for col < len(line) && !isWordRune(line[col]) {
		col++
	}
	if col >= len(line) {
		return "", fmt.Errorf("%w: no identifier under cursor", ErrInvalidTarget)
	}
	start := col
	for start > 0 && isWordRune(line[start-1]) {
		start--
	}
	end := col
	for end < len(line) && isWordRune(line[end]) {
		end++
	}
	return string(line[start:end]), nil
}
