package main

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/uniseg"

	"github.com/dshills/modalkit/internal/editor"
	"github.com/dshills/modalkit/internal/engine/search"
	"github.com/dshills/modalkit/internal/input/mode"
)

var (
	styleText   = tcell.StyleDefault
	styleStatus = tcell.StyleDefault.Reverse(true)
	styleSelect = tcell.StyleDefault.Reverse(true)
	styleMatch  = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorYellow)
	styleError  = tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
	styleTilde  = tcell.StyleDefault.Foreground(tcell.ColorBlue)
)

// render redraws the whole screen: text area, status line, and the
// message or command line.
func (a *app) render() {
	a.screen.Clear()
	w, h := a.screen.Size()
	if w <= 0 || h < 2 {
		a.screen.Show()
		return
	}

	textH := h - 2
	a.scroll(w, textH)
	a.drawText(w, textH)
	a.drawStatus(w, h-2)
	a.drawMessage(h - 1)
	a.placeCursor(w, h, textH)
	a.screen.Show()
}

// scroll keeps the cursor inside the visible text area.
func (a *app) scroll(w, textH int) {
	cur := a.ed.Cursor()
	if cur.Line < a.top {
		a.top = cur.Line
	}
	if cur.Line >= a.top+textH {
		a.top = cur.Line - textH + 1
	}
	if a.top < 0 {
		a.top = 0
	}

	line, err := a.buf.Line(cur.Line)
	if err != nil {
		line = ""
	}
	x := cellX(line, cur.Col, a.tabstop())
	if x < a.left {
		a.left = x
	}
	if x >= a.left+w {
		a.left = x - w + 1
	}
	if a.left < 0 {
		a.left = 0
	}
}

func (a *app) drawText(w, textH int) {
	ts := a.tabstop()
	sel, hasSel := a.ed.Selection()
	last := a.buf.LineCount()
	for row := 0; row < textH; row++ {
		ln := a.top + row
		if ln >= last {
			a.screen.SetContent(0, row, '~', nil, styleTilde)
			continue
		}
		text, err := a.buf.Line(ln)
		if err != nil {
			continue
		}
		a.drawLine(row, text, ln, ts, w, sel, hasSel, a.lineMatches(ln))
	}
}

func (a *app) drawLine(row int, text string, ln, ts, w int, sel editor.Selection, hasSel bool, marks []search.Match) {
	x := 0
	col := 0
	g := uniseg.NewGraphemes(text)
	for g.Next() && x-a.left < w {
		runes := g.Runes()

		style := styleText
		if matchAt(marks, ln, col) {
			style = styleMatch
		}
		if hasSel && selectedAt(sel, ln, col) {
			style = styleSelect
		}

		if runes[0] == '\t' {
			stop := x/ts*ts + ts
			for ; x < stop; x++ {
				sx := x - a.left
				if sx >= 0 && sx < w {
					a.screen.SetContent(sx, row, ' ', nil, style)
				}
			}
		} else {
			if sx := x - a.left; sx >= 0 && sx < w {
				var combc []rune
				if len(runes) > 1 {
					combc = runes[1:]
				}
				a.screen.SetContent(sx, row, runes[0], combc, style)
			}
			x += g.Width()
		}
		col += len(runes)
	}

	// The caret slot past the last character is selectable too.
	if hasSel && selectedAt(sel, ln, col) {
		if sx := x - a.left; sx >= 0 && sx < w {
			a.screen.SetContent(sx, row, ' ', nil, styleSelect)
		}
	}
}

// lineMatches returns the search matches to highlight on one line.
func (a *app) lineMatches(line int) []search.Match {
	if !a.store.Bool("hlsearch") || !a.ed.Session().SearchHighlight() {
		return nil
	}
	last, ok := a.ed.Session().LastSearch()
	if !ok || last.Pattern == "" {
		return nil
	}
	opts := search.Options{
		IgnoreCase: a.store.Bool("ignorecase"),
		SmartCase:  a.store.Bool("smartcase"),
	}
	matches, err := a.search.FindInLine(a.buf, line, last.Pattern, opts)
	if err != nil {
		return nil
	}
	return matches
}

func matchAt(marks []search.Match, line, col int) bool {
	for _, m := range marks {
		if line == m.Start.Line && col >= m.Start.Col && col < m.End.Col {
			return true
		}
	}
	return false
}

// selectedAt reports whether a buffer position falls inside the
// selection. Start and End arrive ordered; End is inclusive.
func selectedAt(sel editor.Selection, line, col int) bool {
	if line < sel.Start.Line || line > sel.End.Line {
		return false
	}
	switch sel.Kind {
	case 'V':
		return true
	case '\x16':
		lo, hi := sel.Start.Col, sel.End.Col
		if lo > hi {
			lo, hi = hi, lo
		}
		return col >= lo && col <= hi
	default:
		if line == sel.Start.Line && col < sel.Start.Col {
			return false
		}
		if line == sel.End.Line && col > sel.End.Col {
			return false
		}
		return true
	}
}

func (a *app) drawStatus(w, row int) {
	name := a.path
	if name == "" {
		name = "[scratch]"
	}
	left := " " + name
	if a.dirty() {
		left += " [+]"
	}

	right := ""
	if reg, on := a.ed.Recording(); on {
		right += fmt.Sprintf("recording @%c  ", reg)
	}
	if p := a.ed.PendingKeys(); p != "" {
		right += p + "  "
	}
	cur := a.ed.Cursor()
	right += fmt.Sprintf("%d:%d ", cur.Line+1, cur.Col+1)

	gap := w - uniseg.StringWidth(left) - uniseg.StringWidth(right)
	if gap < 1 {
		gap = 1
	}
	line := left + strings.Repeat(" ", gap) + right
	end := drawString(a.screen, 0, row, line, styleStatus)
	for x := end; x < w; x++ {
		a.screen.SetContent(x, row, ' ', nil, styleStatus)
	}
}

// drawMessage fills the bottom line with the open command line, the
// last status message, or the mode banner.
func (a *app) drawMessage(row int) {
	if prompt, text, ok := a.ed.CommandLine(); ok {
		a.cmdlineEnd = drawString(a.screen, 0, row, string(prompt)+text, styleText)
		return
	}
	a.cmdlineEnd = -1

	msg := a.message
	style := styleText
	if a.msgIsErr {
		style = styleError
	}
	if msg == "" {
		msg = a.ed.Mode().Display()
		style = styleText
	}
	drawString(a.screen, 0, row, msg, style)
}

func (a *app) placeCursor(w, h, textH int) {
	if a.cmdlineEnd >= 0 {
		a.screen.SetCursorStyle(tcell.CursorStyleSteadyBar)
		a.screen.ShowCursor(a.cmdlineEnd, h-1)
		return
	}

	switch a.ed.Mode() {
	case mode.Insert, mode.Select:
		a.screen.SetCursorStyle(tcell.CursorStyleSteadyBar)
	case mode.Replace:
		a.screen.SetCursorStyle(tcell.CursorStyleSteadyUnderline)
	default:
		a.screen.SetCursorStyle(tcell.CursorStyleSteadyBlock)
	}

	cur := a.ed.Cursor()
	line, err := a.buf.Line(cur.Line)
	if err != nil {
		a.screen.HideCursor()
		return
	}
	x := cellX(line, cur.Col, a.tabstop()) - a.left
	y := cur.Line - a.top
	if x < 0 || x >= w || y < 0 || y >= textH {
		a.screen.HideCursor()
		return
	}
	a.screen.ShowCursor(x, y)
}

// drawString writes width-aware text and returns the x after the last
// cell. tcell clips writes past the screen edge.
func drawString(s tcell.Screen, x, y int, text string, style tcell.Style) int {
	g := uniseg.NewGraphemes(text)
	for g.Next() {
		runes := g.Runes()
		var combc []rune
		if len(runes) > 1 {
			combc = runes[1:]
		}
		s.SetContent(x, y, runes[0], combc, style)
		x += g.Width()
	}
	return x
}

// cellX returns the screen column of rune index col within line, after
// tab expansion.
func cellX(line string, col, tabstop int) int {
	x := 0
	i := 0
	g := uniseg.NewGraphemes(line)
	for g.Next() {
		if i >= col {
			break
		}
		runes := g.Runes()
		if runes[0] == '\t' {
			x = x/tabstop*tabstop + tabstop
		} else {
			x += g.Width()
		}
		i += len(runes)
	}
	return x
}

func (a *app) tabstop() int {
	ts := a.store.Int("tabstop")
	if ts <= 0 {
		ts = 8
	}
	return ts
}
