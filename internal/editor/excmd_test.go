package editor

import (
	"strings"
	"testing"

	"github.com/dshills/modalkit/internal/input/mode"
)

func TestExRangeDelete(t *testing.T) {
	f := newFixture(t, lines("l1", "l2", "l3"))
	f.feed(t, ":1,2d<CR>")

	f.wantText(t, "l3")
	f.wantRegister(t, '1', lines("l1", "l2"))
	f.wantMode(t, mode.Normal)
}

func TestExDeleteWithCount(t *testing.T) {
	f := newFixture(t, lines("l1", "l2", "l3"))
	f.feed(t, ":1d 2<CR>")

	f.wantText(t, "l3")
}

func TestExYankWholeFile(t *testing.T) {
	f := newFixture(t, lines("l1", "l2"))
	f.feed(t, ":%y<CR>")

	f.wantText(t, lines("l1", "l2"))
	f.wantRegister(t, '0', lines("l1", "l2"))
}

func TestExPut(t *testing.T) {
	t.Run("at range line", func(t *testing.T) {
		f := newFixture(t, lines("l1", "l2"))
		f.feed(t, "yy:2put<CR>")
		f.wantText(t, lines("l1", "l2", "l1"))
		f.wantCursor(t, 2, 0)
	})
	t.Run("above first line", func(t *testing.T) {
		f := newFixture(t, lines("l1", "l2"))
		f.feed(t, "yy:0put<CR>")
		f.wantText(t, lines("l1", "l1", "l2"))
		f.wantCursor(t, 0, 0)
	})
	t.Run("named register", func(t *testing.T) {
		f := newFixture(t, lines("l1", "l2"))
		f.feed(t, `"ayyj:put a<CR>`)
		f.wantText(t, lines("l1", "l2", "l1"))
	})
}

func TestExBareNumberJumps(t *testing.T) {
	f := newFixture(t, lines("l1", "l2", "  l3", "l4"))
	f.feed(t, ":3<CR>")

	f.wantCursor(t, 2, 2)
}

func TestExSubstituteGlobal(t *testing.T) {
	f := newFixture(t, lines("aa", "ba"))
	f.feed(t, ":%s/a/X/g<CR>")

	f.wantText(t, lines("XX", "bX"))
	f.wantRegister(t, '/', "a")
}

func TestExSubstituteFirstMatchPerLine(t *testing.T) {
	f := newFixture(t, "aaa")
	f.feed(t, ":s/a/X/<CR>")

	f.wantText(t, "Xaa")
}

func TestExSubstituteBackreferences(t *testing.T) {
	f := newFixture(t, "bar baz")
	f.feed(t, ":s/ba/[&]/g<CR>")

	f.wantText(t, "[ba]r [ba]z")
}

func TestExSubstituteCountOnly(t *testing.T) {
	f := newFixture(t, lines("aa", "ba"))
	f.feed(t, ":%s/a//n<CR>")

	f.wantText(t, lines("aa", "ba"))
	if got := f.hist.UndoCount(); got != 0 {
		t.Errorf("UndoCount = %d, want 0 for a count-only substitute", got)
	}
	if got := f.note.lastInfo(); !strings.Contains(got, "2 matches") {
		t.Errorf("info = %q, want a 2-match count", got)
	}
}

func TestExSubstituteReusesSearchPattern(t *testing.T) {
	f := newFixture(t, lines("foo", "bar"))
	f.feed(t, "/bar<CR>")
	f.feed(t, ":s//X/<CR>")

	f.wantText(t, lines("foo", "X"))
}

func TestExSubstituteNoMatchFails(t *testing.T) {
	f := newFixture(t, "abc")
	f.feed(t, ":s/zzz/x/<CR>")

	f.wantText(t, "abc")
	if len(f.note.errors) == 0 {
		t.Fatalf("expected a pattern-not-found error")
	}
}

func TestExSubstituteBadPatternFails(t *testing.T) {
	f := newFixture(t, "abc")
	f.feed(t, ":s/[/x/<CR>")

	f.wantText(t, "abc")
	if len(f.note.errors) == 0 {
		t.Fatalf("expected a bad-pattern error")
	}
}

func TestSubstituteConfirmStepwise(t *testing.T) {
	f := newFixture(t, lines("a a", "b a"))
	f.feed(t, ":%s/a/X/c<CR>")
	f.wantMode(t, mode.SubstituteConfirm)
	if got := f.note.lastInfo(); !strings.Contains(got, "replace with X") {
		t.Fatalf("prompt = %q, want a confirm prompt", got)
	}

	f.feed(t, "y")
	f.wantMode(t, mode.SubstituteConfirm)
	f.feed(t, "n")
	f.wantMode(t, mode.Normal)

	f.wantText(t, lines("X a", "b a"))
	if got := f.hist.UndoCount(); got != 1 {
		t.Errorf("UndoCount = %d, want 1 for the confirmed run", got)
	}

	f.feed(t, "u")
	f.wantText(t, lines("a a", "b a"))
}

func TestSubstituteConfirmAll(t *testing.T) {
	f := newFixture(t, lines("a a", "b a"))
	f.feed(t, ":%s/a/X/c<CR>a")

	f.wantMode(t, mode.Normal)
	f.wantText(t, lines("X a", "b X"))
}

func TestSubstituteConfirmQuit(t *testing.T) {
	f := newFixture(t, lines("a a", "b a"))
	f.feed(t, ":%s/a/X/c<CR>q")

	f.wantMode(t, mode.Normal)
	f.wantText(t, lines("a a", "b a"))
	if got := f.hist.UndoCount(); got != 0 {
		t.Errorf("UndoCount = %d, want 0 when nothing was applied", got)
	}
}

func TestSubstituteConfirmLast(t *testing.T) {
	f := newFixture(t, "a a a")
	f.feed(t, ":s/a/X/gc<CR>yl")

	f.wantMode(t, mode.Normal)
	f.wantText(t, "X X a")
}

func TestRepeatSubstituteOnAnotherLine(t *testing.T) {
	f := newFixture(t, lines("aa", "aa"))
	f.feed(t, ":s/a/X/<CR>")
	f.wantText(t, lines("Xa", "aa"))

	f.feed(t, "j&")
	f.wantText(t, lines("Xa", "Xa"))
}

func TestExAmpersandKeepsFlags(t *testing.T) {
	f := newFixture(t, lines("aaa", "aaa"))
	f.feed(t, ":s/a/X/g<CR>")
	f.wantText(t, lines("XXX", "aaa"))

	f.feed(t, "j:&&<CR>")
	f.wantText(t, lines("XXX", "XXX"))
}

func TestExSetForms(t *testing.T) {
	f := newFixture(t, "")

	f.feed(t, ":set sw=4<CR>")
	if got := f.ed.Options().Int("shiftwidth"); got != 4 {
		t.Errorf("shiftwidth = %d, want 4", got)
	}

	f.feed(t, ":set et<CR>")
	if !f.ed.Options().Bool("expandtab") {
		t.Errorf("expandtab = false, want true after :set et")
	}

	f.feed(t, ":set noet<CR>")
	if f.ed.Options().Bool("expandtab") {
		t.Errorf("expandtab = true, want false after :set noet")
	}

	f.feed(t, ":set et!<CR>")
	if !f.ed.Options().Bool("expandtab") {
		t.Errorf("expandtab = false, want true after :set et!")
	}

	f.feed(t, ":set invet<CR>")
	if f.ed.Options().Bool("expandtab") {
		t.Errorf("expandtab = true, want false after :set invet")
	}

	f.feed(t, ":set sw?<CR>")
	if got := f.note.lastInfo(); got != "shiftwidth=4" {
		t.Errorf("info = %q, want %q", got, "shiftwidth=4")
	}

	f.feed(t, ":set bogus<CR>")
	if len(f.note.errors) == 0 {
		t.Errorf("expected an error for an unknown option")
	}
}

func TestExSetAffectsIndentCommands(t *testing.T) {
	f := newFixture(t, "abc")
	f.feed(t, ":set sw=4 et<CR>")
	f.feed(t, ">>")

	f.wantText(t, "    abc")
	f.wantCursor(t, 0, 4)
}

func TestExNoHighlight(t *testing.T) {
	f := newFixture(t, lines("foo", "bar"))
	f.feed(t, "/bar<CR>")
	if !f.ed.Session().SearchHighlight() {
		t.Fatalf("SearchHighlight = false after a search, want true")
	}

	f.feed(t, ":noh<CR>")
	if f.ed.Session().SearchHighlight() {
		t.Errorf("SearchHighlight = true after :noh, want false")
	}
}

func TestExMapRoundTrip(t *testing.T) {
	f := newFixture(t, "hello world")
	f.feed(t, ":nmap Y y$<CR>")

	found := false
	for _, m := range f.ed.Keymaps().Mappings(string(mode.Normal)) {
		if m.Keys == "Y" && m.Replacement == "y$" {
			found = true
		}
	}
	if !found {
		t.Fatalf("mapping Y not registered")
	}

	f.feed(t, "wY")
	f.wantRegister(t, '0', "world")

	f.feed(t, ":nunmap Y<CR>")
	f.feed(t, "Y")
	f.wantRegister(t, '0', "hello world")
}

func TestExMapListing(t *testing.T) {
	f := newFixture(t, "")
	f.feed(t, ":nmap Q gg<CR>")
	f.feed(t, ":nmap<CR>")

	got := f.note.lastInfo()
	if !strings.Contains(got, "Q") || !strings.Contains(got, "gg") {
		t.Errorf("listing = %q, want the Q mapping", got)
	}
}

func TestExUnmapMissingFails(t *testing.T) {
	f := newFixture(t, "")
	f.feed(t, ":nunmap Q<CR>")

	if len(f.note.errors) == 0 {
		t.Fatalf("expected an error unmapping an unknown key")
	}
}

func TestExDelMarks(t *testing.T) {
	f := newFixture(t, lines("l1", "l2"))
	f.feed(t, "majmb")
	f.feed(t, ":delmarks a<CR>")

	if _, err := f.ed.Marks().Get('a', f.buf.ID()); err == nil {
		t.Errorf("mark a survived :delmarks a")
	}
	if _, err := f.ed.Marks().Get('b', f.buf.ID()); err != nil {
		t.Errorf("mark b lost: %v", err)
	}

	f.feed(t, ":delmarks!<CR>")
	if _, err := f.ed.Marks().Get('b', f.buf.ID()); err == nil {
		t.Errorf("mark b survived :delmarks!")
	}
}

func TestExDelMarksRange(t *testing.T) {
	f := newFixture(t, "l1")
	f.feed(t, "mambmc")
	f.feed(t, ":delmarks a-c<CR>")

	for _, name := range []rune{'a', 'b', 'c'} {
		if _, err := f.ed.Marks().Get(name, f.buf.ID()); err == nil {
			t.Errorf("mark %c survived :delmarks a-c", name)
		}
	}
}

func TestExRegistersListing(t *testing.T) {
	f := newFixture(t, "l1")
	f.feed(t, "yy:registers<CR>")

	got := f.note.lastInfo()
	if !strings.Contains(got, "--- Registers ---") || !strings.Contains(got, "l1") {
		t.Errorf("listing = %q, want a register table with l1", got)
	}
}

func TestExMarksListing(t *testing.T) {
	f := newFixture(t, "l1")
	f.feed(t, "ma:marks<CR>")

	got := f.note.lastInfo()
	if !strings.Contains(got, "mark") || !strings.Contains(got, "a") {
		t.Errorf("listing = %q, want a mark table", got)
	}
}

func TestExJumpsListing(t *testing.T) {
	f := newFixture(t, lines("l1", "l2", "l3"))
	f.feed(t, "G:jumps<CR>")

	if got := f.note.lastInfo(); !strings.Contains(got, ">") {
		t.Errorf("listing = %q, want a cursor marker", got)
	}
}

func TestExUnknownCommandFails(t *testing.T) {
	f := newFixture(t, "")
	f.feed(t, ":bogus<CR>")

	if len(f.note.errors) == 0 {
		t.Fatalf("expected an unknown-command error")
	}
	if got := f.note.errors[len(f.note.errors)-1]; !strings.Contains(got, "bogus") {
		t.Errorf("error = %q, want the command name", got)
	}
}

func TestLastCommandRegister(t *testing.T) {
	f := newFixture(t, "")
	f.feed(t, ":set sw=4<CR>")

	f.wantRegister(t, ':', "set sw=4")
}

func TestCmdlineHistoryBrowse(t *testing.T) {
	f := newFixture(t, "")
	f.feed(t, ":set sw=4<CR>")
	f.feed(t, ":set ts=4<CR>")

	f.feed(t, ":<Up>")
	if _, text, _ := f.ed.CommandLine(); text != "set ts=4" {
		t.Errorf("first up = %q, want %q", text, "set ts=4")
	}
	f.feed(t, "<Up>")
	if _, text, _ := f.ed.CommandLine(); text != "set sw=4" {
		t.Errorf("second up = %q, want %q", text, "set sw=4")
	}
	f.feed(t, "<Down>")
	if _, text, _ := f.ed.CommandLine(); text != "set ts=4" {
		t.Errorf("down = %q, want %q", text, "set ts=4")
	}
	f.feed(t, "<Esc>")
	f.wantMode(t, mode.Normal)
}

func TestCmdlineHistoryPrefixFilter(t *testing.T) {
	f := newFixture(t, "")
	f.feed(t, ":set sw=4<CR>")
	f.feed(t, ":set ts=4<CR>")

	f.feed(t, ":set s<Up>")
	if _, text, _ := f.ed.CommandLine(); text != "set sw=4" {
		t.Errorf("filtered up = %q, want %q", text, "set sw=4")
	}
	f.feed(t, "<Esc>")
}

func TestCmdlineCtrlUClearsLine(t *testing.T) {
	f := newFixture(t, "")
	f.feed(t, ":garbage<C-u>set sw=2<CR>")

	if got := f.ed.Options().Int("shiftwidth"); got != 2 {
		t.Errorf("shiftwidth = %d, want 2 after CTRL-U rewrite", got)
	}
}

func TestCmdlineBackspaceOnEmptyCancels(t *testing.T) {
	f := newFixture(t, "")
	f.feed(t, ":<BS>")

	f.wantMode(t, mode.Normal)
}

func TestExpressionRegisterInsert(t *testing.T) {
	f := newFixture(t, "")
	f.feed(t, "i<C-r>=2+3<CR><Esc>")

	f.wantText(t, "5")
}
