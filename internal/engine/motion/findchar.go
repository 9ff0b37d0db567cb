package motion

import (
	"fmt"

	"github.com/dshills/modalkit/internal/engine/session"
	"github.com/dshills/modalkit/internal/host"
)

// findChar implements f, F, t, and T. The sought character is recorded
// in the session so ; and , can repeat it.
func findChar(kind rune) func(*Context, *doc, int, string) (Span, error) {
	return func(ctx *Context, d *doc, count int, arg string) (Span, error) {
		runes := []rune(arg)
		if len(runes) == 0 {
			return Span{}, fmt.Errorf("%w: missing character for %c", ErrInvalidTarget, kind)
		}
		span, err := resolveCharSearch(ctx, d, kind, runes[0], orOne(count), false)
		if err != nil {
			return Span{}, err
		}
		if ctx.Session != nil {
			ctx.Session.SetLastCharSearch(session.CharSearch{Kind: kind, Target: runes[0]})
		}
		return span, nil
	}
}

// repeatFind implements ; and ,. The comma reverses the direction but
// keeps the till-ness, so , after t behaves like T. Repeats do not
// update the remembered search.
func repeatFind(reverse bool) func(*Context, *doc, int, string) (Span, error) {
	return func(ctx *Context, d *doc, count int, _ string) (Span, error) {
		if ctx.Session == nil {
			return Span{}, fmt.Errorf("%w: no previous character search", ErrInvalidTarget)
		}
		cs, ok := ctx.Session.LastCharSearch()
		if !ok {
			return Span{}, fmt.Errorf("%w: no previous character search", ErrInvalidTarget)
		}
		kind := cs.Kind
		if reverse {
			kind = reverseCharSearch(kind)
		}
		return resolveCharSearch(ctx, d, kind, cs.Target, orOne(count), true)
	}
}

func reverseCharSearch(kind rune) rune {
	switch kind {
	case 'f':
		return 'F'
	case 'F':
		return 'f'
	case 't':
		return 'T'
	case 'T':
		return 't'
	}
	return kind
}

// resolveCharSearch finds the count'th occurrence on the current line.
// When repeating a till search that would not move the cursor, the
// following occurrence is used instead.
func resolveCharSearch(ctx *Context, d *doc, kind, c rune, n int, repeat bool) (Span, error) {
	if ctx.Pos.Line < 0 || ctx.Pos.Line >= d.lineCount() {
		return Span{}, fmt.Errorf("%w: %c%c", ErrInvalidTarget, kind, c)
	}
	line := d.lines[ctx.Pos.Line]
	var target host.Position
	inclusive := false

	switch kind {
	case 'f', 't':
		col := nthOccurrenceForward(line, ctx.Pos.Col+1, c, n)
		if col >= 0 && kind == 't' {
			if repeat && col-1 == ctx.Pos.Col {
				col = nthOccurrenceForward(line, ctx.Pos.Col+1, c, n+1)
			}
			if col >= 0 {
				col--
			}
		}
		if col < 0 {
			return Span{}, fmt.Errorf("%w: %c not found", ErrInvalidTarget, c)
		}
		target = host.Position{Line: ctx.Pos.Line, Col: col}
		inclusive = true
	case 'F', 'T':
		col := nthOccurrenceBackward(line, ctx.Pos.Col-1, c, n)
		if col >= 0 && kind == 'T' {
			if repeat && col+1 == ctx.Pos.Col {
				col = nthOccurrenceBackward(line, ctx.Pos.Col-1, c, n+1)
			}
			if col >= 0 {
				col++
			}
		}
		if col < 0 {
			return Span{}, fmt.Errorf("%w: %c not found", ErrInvalidTarget, c)
		}
		target = host.Position{Line: ctx.Pos.Line, Col: col}
	default:
		return Span{}, fmt.Errorf("%w: unknown character search %q", ErrInvalidTarget, kind)
	}
	return charwise(d, ctx.Pos, target, inclusive, ctx), nil
}

func nthOccurrenceForward(line []rune, from int, c rune, n int) int {
	if from < 0 {
		from = 0
	}
	for i := from; i < len(line); i++ {
		if line[i] == c {
			n--
			if n == 0 {
				return i
			}
		}
	}
	return -1
}

func nthOccurrenceBackward(line []rune, from int, c rune, n int) int {
	if from >= len(line) {
		from = len(line) - 1
	}
	for i := from; i >= 0; i-- {
		if line[i] == c {
			n--
			if n == 0 {
				return i
			}
		}
	}
	return -1
}
