package motion

import (
	"fmt"

	"github.com/dshills/modalkit/internal/host"
)

// wordForward implements w and W. For operators the final step stops
// at a line crossing, and a target in column zero of a later line is
// pulled back to the end of the previous line so the span never
// swallows the line break to reach the next word.
func wordForward(big bool) func(*Context, *doc, int, string) (Span, error) {
	class := classFunc(big)
	return func(ctx *Context, d *doc, count int, _ string) (Span, error) {
		pos := ctx.Pos
		n := orOne(count)
		for i := 0; i < n; i++ {
			np, ok := nextWordStart(d, pos, class, ctx.ForOperator && i == n-1)
			if !ok {
				break
			}
			pos = np
		}
		if pos == ctx.Pos {
			return Span{}, fmt.Errorf("%w: at end of buffer", ErrInvalidTarget)
		}
		if ctx.ForOperator && pos.Col == 0 && pos.Line > ctx.Pos.Line {
			pos = host.Position{Line: pos.Line - 1, Col: d.lineLen(pos.Line - 1)}
			if pos.Before(ctx.Pos) {
				pos = ctx.Pos
			}
		}
		return charwise(d, ctx.Pos, pos, false, ctx), nil
	}
}

// wordBackward implements b and B.
func wordBackward(big bool) func(*Context, *doc, int, string) (Span, error) {
	class := classFunc(big)
	return func(ctx *Context, d *doc, count int, _ string) (Span, error) {
		pos := ctx.Pos
		for i, n := 0, orOne(count); i < n; i++ {
			np, ok := prevWordStart(d, pos, class)
			if !ok {
				break
			}
			pos = np
		}
		if pos == ctx.Pos {
			return Span{}, fmt.Errorf("%w: at start of buffer", ErrInvalidTarget)
		}
		return charwise(d, ctx.Pos, pos, false, ctx), nil
	}
}

// wordEnd implements e and E.
func wordEnd(big bool) func(*Context, *doc, int, string) (Span, error) {
	class := classFunc(big)
	return func(ctx *Context, d *doc, count int, _ string) (Span, error) {
		pos := ctx.Pos
		for i, n := 0, orOne(count); i < n; i++ {
			np, ok := nextWordEnd(d, pos, class)
			if !ok {
				break
			}
			pos = np
		}
		if pos == ctx.Pos {
			return Span{}, fmt.Errorf("%w: at end of buffer", ErrInvalidTarget)
		}
		return charwise(d, ctx.Pos, pos, true, ctx), nil
	}
}

// wordEndBackward implements ge and gE.
func wordEndBackward(big bool) func(*Context, *doc, int, string) (Span, error) {
	class := classFunc(big)
	return func(ctx *Context, d *doc, count int, _ string) (Span, error) {
		pos := ctx.Pos
		for i, n := 0, orOne(count); i < n; i++ {
			np, ok := prevWordEnd(d, pos, class)
			if !ok {
				break
			}
			pos = np
		}
		if pos == ctx.Pos {
			return Span{}, fmt.Errorf("%w: at start of buffer", ErrInvalidTarget)
		}
		return charwise(d, ctx.Pos, pos, true, ctx), nil
	}
}

// nextWordStart finds the start of the following word. A run of one
// class is skipped, then whitespace; an empty line counts as a word.
// With stopAtCross the whitespace skip halts as soon as it enters a
// new line.
func nextWordStart(d *doc, p host.Position, class func(rune) charClass, stopAtCross bool) (host.Position, bool) {
	r, ok := d.at(p)
	if !ok {
		return p, false
	}
	sclass := class(r)

	q, moved := d.next(p)
	if !moved {
		return p, false
	}
	if stopAtCross && q.Line > p.Line {
		return q, true
	}
	p = q

	if sclass != classWhitespace {
		for {
			r, ok = d.at(p)
			if !ok {
				return p, true
			}
			if class(r) != sclass {
				break
			}
			q, moved = d.next(p)
			if !moved {
				return p, true
			}
			p = q
		}
	}

	for {
		if p.Col == 0 && d.blank(p.Line) {
			return p, true
		}
		r, ok = d.at(p)
		if !ok {
			return p, true
		}
		if class(r) != classWhitespace {
			return p, true
		}
		q, moved = d.next(p)
		if !moved {
			return p, true
		}
		crossed := q.Line > p.Line
		p = q
		if stopAtCross && crossed {
			return p, true
		}
	}
}

// prevWordStart finds the start of the current or previous word.
func prevWordStart(d *doc, p host.Position, class func(rune) charClass) (host.Position, bool) {
	q, moved := d.prev(p)
	if !moved {
		return p, false
	}
	p = q

	for {
		if p.Col == 0 && d.blank(p.Line) {
			return p, true
		}
		r, ok := d.at(p)
		if !ok || class(r) != classWhitespace {
			break
		}
		q, moved = d.prev(p)
		if !moved {
			return p, true
		}
		p = q
	}

	r, ok := d.at(p)
	if !ok {
		return p, true
	}
	sclass := class(r)
	for p.Col > 0 {
		if class(d.lines[p.Line][p.Col-1]) != sclass {
			break
		}
		p.Col--
	}
	return p, true
}

// nextWordEnd finds the end of the current or next word. Unlike w,
// empty lines are not stops.
func nextWordEnd(d *doc, p host.Position, class func(rune) charClass) (host.Position, bool) {
	r, ok := d.at(p)
	if !ok {
		return p, false
	}
	sclass := class(r)

	q, moved := d.next(p)
	if !moved {
		return p, false
	}
	p = q

	r, ok = d.at(p)
	inRun := ok && sclass != classWhitespace && class(r) == sclass
	if !inRun {
		for {
			r, ok = d.at(p)
			if !ok {
				return p, false
			}
			if class(r) != classWhitespace {
				break
			}
			q, moved = d.next(p)
			if !moved {
				return p, false
			}
			p = q
		}
	}

	sclass = class(r)
	for p.Col+1 < d.lineLen(p.Line) {
		if class(d.lines[p.Line][p.Col+1]) != sclass {
			break
		}
		p.Col++
	}
	return p, true
}

// prevWordEnd finds the end of the previous word.
func prevWordEnd(d *doc, p host.Position, class func(rune) charClass) (host.Position, bool) {
	r, ok := d.at(p)
	if !ok {
		return p, false
	}
	sclass := class(r)

	q, moved := d.prev(p)
	if !moved {
		return p, false
	}
	p = q

	r, ok = d.at(p)
	if ok && sclass != classWhitespace && class(r) == sclass {
		for {
			q, moved = d.prev(p)
			if !moved {
				return p, false
			}
			p = q
			r, ok = d.at(p)
			if !ok || class(r) != sclass {
				break
			}
		}
	}

	for {
		if p.Col == 0 && d.blank(p.Line) {
			return p, true
		}
		r, ok = d.at(p)
		if !ok {
			return p, true
		}
		if class(r) != classWhitespace {
			return p, true
		}
		q, moved = d.prev(p)
		if !moved {
			return p, false
		}
		p = q
	}
}
