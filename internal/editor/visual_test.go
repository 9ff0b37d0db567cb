package editor

import (
	"testing"

	"github.com/dshills/modalkit/internal/input/mode"
)

func TestVisualCharwiseDelete(t *testing.T) {
	f := newFixture(t, lines("abc", "def", "ghi"))
	f.feed(t, "vjd")

	f.wantText(t, lines("ef", "ghi"))
	f.wantMode(t, mode.Normal)
	f.wantCursor(t, 0, 0)
	f.wantRegister(t, '"', lines("abc", "d"))
}

func TestVisualLinewiseYankAndPut(t *testing.T) {
	f := newFixture(t, lines("l1", "l2"))
	f.feed(t, "Vy")
	f.wantMode(t, mode.Normal)
	f.wantRegister(t, '0', "l1")

	f.feed(t, "jp")
	f.wantText(t, lines("l1", "l2", "l1"))
	f.wantCursor(t, 2, 0)
}

func TestVisualSelectionTracksMotion(t *testing.T) {
	f := newFixture(t, "hello world")
	f.feed(t, "vll")

	sel, ok := f.ed.Selection()
	if !ok {
		t.Fatalf("Selection() not active in visual mode")
	}
	if sel.Kind != 'v' {
		t.Errorf("Kind = %q, want 'v'", sel.Kind)
	}
	if sel.Start.Col != 0 || sel.End.Col != 2 {
		t.Errorf("selection = %v..%v, want 0:0..0:2", sel.Start, sel.End)
	}
}

func TestVisualSwapEnds(t *testing.T) {
	f := newFixture(t, "hello")
	f.feed(t, "vllo")
	f.wantCursor(t, 0, 0)

	sel, ok := f.ed.Selection()
	if !ok || sel.End.Col != 2 {
		t.Fatalf("selection after o = %+v (%v), want anchor at 0:2", sel, ok)
	}
}

func TestVisualLastRestores(t *testing.T) {
	f := newFixture(t, "hello world")
	f.feed(t, "vll<Esc>")
	f.wantMode(t, mode.Normal)

	f.feed(t, "gv")
	f.wantMode(t, mode.VisualCharacter)
	sel, ok := f.ed.Selection()
	if !ok || sel.Start.Col != 0 || sel.End.Col != 2 {
		t.Errorf("restored selection = %+v (%v), want 0:0..0:2", sel, ok)
	}
}

func TestVisualKindSwitches(t *testing.T) {
	f := newFixture(t, "abc")
	f.feed(t, "v")
	f.wantMode(t, mode.VisualCharacter)

	f.feed(t, "V")
	f.wantMode(t, mode.VisualLine)

	f.feed(t, "v")
	f.wantMode(t, mode.VisualCharacter)

	// The active kind's own key drops back to normal.
	f.feed(t, "v")
	f.wantMode(t, mode.Normal)
}

func TestVisualIndent(t *testing.T) {
	f := newFixture(t, lines("a", "b", "c"))
	f.feed(t, ":set sw=2 et<CR>")
	f.feed(t, "Vj>")

	f.wantText(t, lines("  a", "  b", "c"))
	f.wantMode(t, mode.Normal)
	f.wantCursor(t, 0, 2)
}

func TestVisualUppercase(t *testing.T) {
	f := newFixture(t, "abc")
	f.feed(t, "vlgU")

	f.wantText(t, "ABc")
	f.wantMode(t, mode.Normal)
}

func TestVisualReplaceChars(t *testing.T) {
	f := newFixture(t, "abc")
	f.feed(t, "vlrX")

	f.wantText(t, "XXc")
	f.wantMode(t, mode.Normal)
	f.wantCursor(t, 0, 0)
}

func TestVisualBlockYankAndPut(t *testing.T) {
	f := newFixture(t, lines("abcd", "efgh", "ijkl"))
	f.feed(t, "<C-v>jly")
	f.wantMode(t, mode.Normal)
	f.wantCursor(t, 0, 0)

	v, err := f.ed.Registers().Read('"')
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if v.Text != lines("ab", "ef") {
		t.Errorf("block register = %q, want %q", v.Text, lines("ab", "ef"))
	}

	f.feed(t, "$p")
	f.wantText(t, lines("abcdab", "efghef", "ijkl"))
}

func TestVisualBlockDelete(t *testing.T) {
	f := newFixture(t, lines("abcd", "efgh"))
	f.feed(t, "<C-v>jld")

	f.wantText(t, lines("cd", "gh"))
	f.wantRegister(t, '"', lines("ab", "ef"))
	if got := f.hist.UndoCount(); got != 1 {
		t.Errorf("UndoCount = %d, want 1 for a block delete", got)
	}
}

func TestVisualBlockChange(t *testing.T) {
	f := newFixture(t, lines("abcd", "efgh"))
	f.feed(t, "<C-v>jcX<Esc>")

	// The change inserts on the top line of the removed rectangle.
	f.wantText(t, lines("Xbcd", "fgh"))
}

func TestVisualPutReplacesSelection(t *testing.T) {
	f := newFixture(t, "one two")
	f.feed(t, "yiw")
	f.feed(t, "wvep")

	f.wantText(t, "one one")
	f.wantMode(t, mode.Normal)
	f.wantRegister(t, '"', "two")
}

func TestVisualLinewisePutCharwiseRegister(t *testing.T) {
	f := newFixture(t, lines("abc", "xxx", "def"))
	f.feed(t, "yiw")
	f.feed(t, "jVp")

	f.wantText(t, lines("abc", "abc", "def"))
}

func TestVisualSearchExtendsSelection(t *testing.T) {
	f := newFixture(t, "alpha gamma")
	f.feed(t, "v/gam<CR>")

	f.wantMode(t, mode.VisualCharacter)
	sel, ok := f.ed.Selection()
	if !ok || sel.Start.Col != 0 || sel.End.Col != 6 {
		t.Fatalf("selection = %+v (%v), want 0:0..0:6", sel, ok)
	}

	f.feed(t, "y")
	f.wantRegister(t, '0', "alpha g")
}

func TestVisualColonSeedsRange(t *testing.T) {
	f := newFixture(t, lines("l1", "l2"))
	f.feed(t, "Vj:")

	prompt, text, ok := f.ed.CommandLine()
	if !ok || prompt != ':' {
		t.Fatalf("CommandLine = %q,%q,%v, want an open : prompt", prompt, text, ok)
	}
	if text != "'<,'>" {
		t.Errorf("prefill = %q, want %q", text, "'<,'>")
	}

	f.feed(t, "d<CR>")
	f.wantText(t, "")
}

func TestVisualTextObjectReshapes(t *testing.T) {
	f := newFixture(t, "foo bar baz")
	f.feed(t, "llllviw")

	sel, ok := f.ed.Selection()
	if !ok || sel.Start.Col != 4 || sel.End.Col != 6 {
		t.Fatalf("selection = %+v (%v), want 0:4..0:6", sel, ok)
	}

	f.feed(t, "d")
	f.wantText(t, "foo  baz")
}

func TestVisualEscapeKeepsLastRange(t *testing.T) {
	f := newFixture(t, "abcdef")
	f.feed(t, "vll<Esc>")

	v, ok := f.ed.Session().LastVisual()
	if !ok || v.Kind != 'v' || v.End.Col != 2 {
		t.Errorf("LastVisual = %+v (%v), want charwise ending at col 2", v, ok)
	}
	m, err := f.ed.Marks().Get('<', f.buf.ID())
	if err != nil || m.Pos.Col != 0 {
		t.Errorf("mark < = %+v (%v), want col 0", m, err)
	}
	m, err = f.ed.Marks().Get('>', f.buf.ID())
	if err != nil || m.Pos.Col != 2 {
		t.Errorf("mark > = %+v (%v), want col 2", m, err)
	}
}

func TestSelectModeTypingReplaces(t *testing.T) {
	f := newFixture(t, "abc def")
	f.feed(t, "ghX")

	f.wantMode(t, mode.Insert)
	f.wantText(t, "Xbc def")

	f.feed(t, "<Esc>")
	f.wantMode(t, mode.Normal)
}

func TestSelectModeCtrlGTogglesVisual(t *testing.T) {
	f := newFixture(t, "abc")
	f.feed(t, "v<C-g>")
	f.wantMode(t, mode.Select)

	f.feed(t, "<C-g>")
	f.wantMode(t, mode.VisualCharacter)
}
