package editor

import "testing"

func TestDotRepeatsChangeWord(t *testing.T) {
	f := newFixture(t, "foo bar baz")
	f.feed(t, "ciwX<Esc>")
	f.wantText(t, "X bar baz")

	f.feed(t, "w.")
	f.wantText(t, "X X baz")
	f.wantCursor(t, 0, 2)
}

func TestDotCountOverride(t *testing.T) {
	f := newFixture(t, "abcdef")
	f.feed(t, "x")
	f.wantText(t, "bcdef")

	// A count given to . replaces the remembered one and sticks.
	f.feed(t, "3.")
	f.wantText(t, "ef")
	if got := f.hist.UndoCount(); got != 2 {
		t.Errorf("UndoCount = %d, want 2", got)
	}
	ch, ok := f.ed.Session().LastChange()
	if !ok {
		t.Fatalf("no last change recorded")
	}
	if ch.Count != 3 {
		t.Errorf("remembered count = %d, want 3", ch.Count)
	}

	f.feed(t, "u")
	f.wantText(t, "bcdef")
}

func TestDotRepeatsInsertCommand(t *testing.T) {
	f := newFixture(t, "hello")
	f.feed(t, "oworld<Esc>")
	f.wantText(t, lines("hello", "world"))

	f.feed(t, ".")
	f.wantText(t, lines("hello", "world", "world"))
	f.wantCursor(t, 2, 4)
}

func TestDotRegisterOverride(t *testing.T) {
	f := newFixture(t, lines("l1", "l2", "l3"))
	f.feed(t, "\"add")
	f.wantText(t, lines("l2", "l3"))
	f.wantRegister(t, 'a', "l1")

	f.feed(t, "\"b.")
	f.wantText(t, "l3")
	f.wantRegister(t, 'b', "l2")
	f.wantRegister(t, 'a', "l1")

	ch, ok := f.ed.Session().LastChange()
	if !ok {
		t.Fatalf("no last change recorded")
	}
	if ch.Register != 'b' {
		t.Errorf("remembered register = %q, want 'b'", ch.Register)
	}
}

func TestDotWithNoChangeFails(t *testing.T) {
	f := newFixture(t, "abc")
	f.feed(t, ".")

	f.wantText(t, "abc")
	if len(f.note.errors) == 0 {
		t.Fatalf("expected an error for . with no prior change")
	}
	if got := f.hist.UndoCount(); got != 0 {
		t.Errorf("UndoCount = %d, want 0", got)
	}
}

func TestMacroRecordPlay(t *testing.T) {
	f := newFixture(t, "abcdef")
	f.feed(t, "qa")
	if name, on := f.ed.Recording(); !on || name != 'a' {
		t.Fatalf("Recording() = %q, %v, want 'a', true", name, on)
	}

	f.feed(t, "xq")
	if _, on := f.ed.Recording(); on {
		t.Fatalf("still recording after q")
	}
	f.wantText(t, "bcdef")
	f.wantRegister(t, 'a', "x")

	f.feed(t, "@a")
	f.wantText(t, "cdef")

	f.feed(t, "2@a")
	f.wantText(t, "ef")

	// @@ repeats the last played register.
	f.feed(t, "@@")
	f.wantText(t, "f")
}

func TestMacroRecordsSpecialKeys(t *testing.T) {
	f := newFixture(t, "")
	f.feed(t, "qaihi<Esc>q")
	f.wantText(t, "hi")
	f.wantRegister(t, 'a', "ihi<Esc>")

	f.feed(t, "@a")
	f.wantText(t, "hhii")
	f.wantCursor(t, 0, 2)
}

func TestMacroArgumentQDoesNotStop(t *testing.T) {
	f := newFixture(t, "abc")
	// The q after r is the replacement character, not the recording
	// terminator.
	f.feed(t, "qarqq")
	f.wantText(t, "qbc")
	f.wantRegister(t, 'a', "rq")
	if _, on := f.ed.Recording(); on {
		t.Fatalf("still recording after the closing q")
	}
}

func TestPlayEmptyRegisterFails(t *testing.T) {
	f := newFixture(t, "abc")
	f.feed(t, "@z")

	f.wantText(t, "abc")
	if len(f.note.errors) == 0 {
		t.Fatalf("expected an error for playing an empty register")
	}
}
