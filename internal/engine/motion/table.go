package motion

import (
	"fmt"

	"github.com/dshills/modalkit/internal/host"
)

// standardMotions builds the definitions for every plain motion. Text
// objects are defined separately in textobj.go.
func standardMotions() []*Definition {
	return []*Definition{
		{Keys: "h", Name: "char-left", resolve: charLeft},
		{Keys: "l", Name: "char-right", resolve: charRight},
		{Keys: "0", Name: "line-start", resolve: lineStart},
		{Keys: "^", Name: "first-non-blank", resolve: firstNonBlank},
		{Keys: "$", Name: "line-end", resolve: lineEnd},
		{Keys: "g_", Name: "last-non-blank", resolve: lastNonBlank},
		{Keys: "|", Name: "column", resolve: column},

		{Keys: "j", Name: "line-down", resolve: lineDown},
		{Keys: "k", Name: "line-up", resolve: lineUp},
		{Keys: "+", Name: "line-down-non-blank", resolve: lineDownFirstNonBlank},
		{Keys: "-", Name: "line-up-non-blank", resolve: lineUpFirstNonBlank},
		{Keys: "_", Name: "current-line", resolve: currentLine},
		{Keys: "G", Name: "goto-line", resolve: gotoLine},
		{Keys: "gg", Name: "goto-first-line", resolve: gotoFirstLine},

		{Keys: "w", Name: "word-forward", resolve: wordForward(false)},
		{Keys: "W", Name: "big-word-forward", resolve: wordForward(true)},
		{Keys: "b", Name: "word-backward", resolve: wordBackward(false)},
		{Keys: "B", Name: "big-word-backward", resolve: wordBackward(true)},
		{Keys: "e", Name: "word-end", resolve: wordEnd(false)},
		{Keys: "E", Name: "big-word-end", resolve: wordEnd(true)},
		{Keys: "ge", Name: "word-end-backward", resolve: wordEndBackward(false)},
		{Keys: "gE", Name: "big-word-end-backward", resolve: wordEndBackward(true)},

		{Keys: "f", Name: "find-char", Arg: ArgRune, resolve: findChar('f')},
		{Keys: "F", Name: "find-char-back", Arg: ArgRune, resolve: findChar('F')},
		{Keys: "t", Name: "till-char", Arg: ArgRune, resolve: findChar('t')},
		{Keys: "T", Name: "till-char-back", Arg: ArgRune, resolve: findChar('T')},
		{Keys: ";", Name: "repeat-find", resolve: repeatFind(false)},
		{Keys: ",", Name: "repeat-find-reverse", resolve: repeatFind(true)},

		{Keys: "}", Name: "paragraph-forward", resolve: paragraphForward},
		{Keys: "{", Name: "paragraph-backward", resolve: paragraphBackward},
		{Keys: ")", Name: "sentence-forward", resolve: sentenceForward},
		{Keys: "(", Name: "sentence-backward", resolve: sentenceBackward},

		{Keys: "%", Name: "match-pair", resolve: matchPair},

		{Keys: "'", Name: "mark-line", Arg: ArgRune, resolve: markLine},
		{Keys: "`", Name: "mark-exact", Arg: ArgRune, resolve: markExact},

		{Keys: "/", Name: "search-forward", Arg: ArgPattern, resolve: searchMotion(false)},
		{Keys: "?", Name: "search-backward", Arg: ArgPattern, resolve: searchMotion(true)},
		{Keys: "n", Name: "search-next", resolve: searchRepeat(false)},
		{Keys: "N", Name: "search-next-reverse", resolve: searchRepeat(true)},
		{Keys: "*", Name: "search-word-forward", resolve: searchWord(false)},
		{Keys: "#", Name: "search-word-backward", resolve: searchWord(true)},
	}
}

func charLeft(ctx *Context, d *doc, count int, _ string) (Span, error) {
	target := ctx.Pos
	target.Col -= orOne(count)
	if target.Col < 0 {
		target.Col = 0
	}
	return charwise(d, ctx.Pos, target, false, ctx), nil
}

func charRight(ctx *Context, d *doc, count int, _ string) (Span, error) {
	target := ctx.Pos
	target.Col += orOne(count)
	if n := d.lineLen(target.Line); target.Col > n {
		target.Col = n
	}
	return charwise(d, ctx.Pos, target, false, ctx), nil
}

func lineStart(ctx *Context, d *doc, _ int, _ string) (Span, error) {
	target := host.Position{Line: ctx.Pos.Line}
	return charwise(d, ctx.Pos, target, false, ctx), nil
}

func firstNonBlank(ctx *Context, d *doc, _ int, _ string) (Span, error) {
	target := host.Position{Line: ctx.Pos.Line, Col: d.firstNonBlank(ctx.Pos.Line)}
	return charwise(d, ctx.Pos, target, false, ctx), nil
}

func lineEnd(ctx *Context, d *doc, count int, _ string) (Span, error) {
	line := ctx.Pos.Line + orOne(count) - 1
	if last := d.lineCount() - 1; line > last {
		line = last
	}
	target := host.Position{Line: line, Col: d.lastCharCol(line)}
	return charwise(d, ctx.Pos, target, true, ctx), nil
}

func lastNonBlank(ctx *Context, d *doc, count int, _ string) (Span, error) {
	line := ctx.Pos.Line + orOne(count) - 1
	if last := d.lineCount() - 1; line > last {
		line = last
	}
	target := host.Position{Line: line, Col: d.lastNonBlank(line)}
	return charwise(d, ctx.Pos, target, true, ctx), nil
}

func column(ctx *Context, d *doc, count int, _ string) (Span, error) {
	target := d.clamp(host.Position{Line: ctx.Pos.Line, Col: orOne(count) - 1})
	return charwise(d, ctx.Pos, target, false, ctx), nil
}

func lineDown(ctx *Context, d *doc, count int, _ string) (Span, error) {
	n := orOne(count)
	line := ctx.Pos.Line + n
	if line >= d.lineCount() {
		return Span{}, fmt.Errorf("%w: past last line", ErrInvalidTarget)
	}
	target := d.clamp(host.Position{Line: line, Col: ctx.Pos.Col})
	return linewise(d, ctx.Pos.Line, line, target), nil
}

func lineUp(ctx *Context, d *doc, count int, _ string) (Span, error) {
	n := orOne(count)
	line := ctx.Pos.Line - n
	if line < 0 {
		return Span{}, fmt.Errorf("%w: before first line", ErrInvalidTarget)
	}
	target := d.clamp(host.Position{Line: line, Col: ctx.Pos.Col})
	return linewise(d, ctx.Pos.Line, line, target), nil
}

func lineDownFirstNonBlank(ctx *Context, d *doc, count int, _ string) (Span, error) {
	n := orOne(count)
	line := ctx.Pos.Line + n
	if line >= d.lineCount() {
		return Span{}, fmt.Errorf("%w: past last line", ErrInvalidTarget)
	}
	target := host.Position{Line: line, Col: d.firstNonBlank(line)}
	return linewise(d, ctx.Pos.Line, line, target), nil
}

func lineUpFirstNonBlank(ctx *Context, d *doc, count int, _ string) (Span, error) {
	n := orOne(count)
	line := ctx.Pos.Line - n
	if line < 0 {
		return Span{}, fmt.Errorf("%w: before first line", ErrInvalidTarget)
	}
	target := host.Position{Line: line, Col: d.firstNonBlank(line)}
	return linewise(d, ctx.Pos.Line, line, target), nil
}

func currentLine(ctx *Context, d *doc, count int, _ string) (Span, error) {
	line := ctx.Pos.Line + orOne(count) - 1
	if line >= d.lineCount() {
		return Span{}, fmt.Errorf("%w: past last line", ErrInvalidTarget)
	}
	target := host.Position{Line: line, Col: d.firstNonBlank(line)}
	return linewise(d, ctx.Pos.Line, line, target), nil
}

func gotoLine(ctx *Context, d *doc, count int, _ string) (Span, error) {
	line := d.lineCount() - 1
	if count > 0 {
		line = count - 1
		if last := d.lineCount() - 1; line > last {
			line = last
		}
	}
	return linewise(d, ctx.Pos.Line, line, jumpTarget(ctx, d, line)), nil
}

func gotoFirstLine(ctx *Context, d *doc, count int, _ string) (Span, error) {
	line := 0
	if count > 0 {
		line = count - 1
		if last := d.lineCount() - 1; line > last {
			line = last
		}
	}
	return linewise(d, ctx.Pos.Line, line, jumpTarget(ctx, d, line)), nil
}

// jumpTarget applies the startofline setting to a linewise jump.
func jumpTarget(ctx *Context, d *doc, line int) host.Position {
	if ctx.Opt.StartOfLine {
		return host.Position{Line: line, Col: d.firstNonBlank(line)}
	}
	return d.clamp(host.Position{Line: line, Col: ctx.Pos.Col})
}
