package key

import "testing"

func TestInputStructuralEquality(t *testing.T) {
	t.Run("equal values compare equal", func(t *testing.T) {
		a := NewRune('x')
		b := NewRune('x')
		if a != b {
			t.Error("identical rune inputs are not equal")
		}

		m := map[Input]string{a: "hit"}
		if m[b] != "hit" {
			t.Error("Input is not usable as a map key")
		}
	})

	t.Run("shift folds into the rune", func(t *testing.T) {
		a := NewRuneMod('A', ModShift)
		b := NewRune('A')
		if a != b {
			t.Errorf("shifted rune not normalized: %#v vs %#v", a, b)
		}
		if a.Mods.HasShift() {
			t.Error("rune input retained ModShift")
		}
	})

	t.Run("ctrl chords case-fold", func(t *testing.T) {
		a := NewRuneMod('A', ModCtrl)
		b := NewRuneMod('a', ModCtrl)
		if a != b {
			t.Errorf("<C-A> and <C-a> differ: %#v vs %#v", a, b)
		}
	})

	t.Run("special keys keep shift", func(t *testing.T) {
		a := NewSpecial(KeyTab, ModShift)
		b := NewSpecial(KeyTab, ModNone)
		if a == b {
			t.Error("Shift-Tab and Tab compare equal")
		}
	})
}

func TestInputPredicates(t *testing.T) {
	tests := []struct {
		name    string
		in      Input
		isChar  bool
		isDigit bool
	}{
		{"letter", NewRune('a'), true, false},
		{"digit", NewRune('7'), true, true},
		{"space", NewRune(' '), true, false},
		{"ctrl letter", NewRuneMod('a', ModCtrl), false, false},
		{"escape", NewSpecial(KeyEscape, ModNone), false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.in.IsChar(); got != tt.isChar {
				t.Errorf("IsChar() = %v, want %v", got, tt.isChar)
			}
			if got := tt.in.IsDigit(); got != tt.isDigit {
				t.Errorf("IsDigit() = %v, want %v", got, tt.isDigit)
			}
		})
	}
}

func TestIsCancel(t *testing.T) {
	if !NewSpecial(KeyEscape, ModNone).IsCancel() {
		t.Error("Escape is not recognized as cancel")
	}
	if !NewRuneMod('c', ModCtrl).IsCancel() {
		t.Error("Ctrl-C is not recognized as cancel")
	}
	if NewRune('c').IsCancel() {
		t.Error("plain c treated as cancel")
	}
	if NewSpecial(KeyEscape, ModCtrl).IsCancel() {
		t.Error("modified Escape treated as cancel")
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		spec string
		want Input
	}{
		{"a", NewRune('a')},
		{"A", NewRune('A')},
		{"0", NewRune('0')},
		{"@", NewRune('@')},
		{"<", NewRune('<')},
		{"+", NewRune('+')},
		{"Escape", NewSpecial(KeyEscape, ModNone)},
		{"esc", NewSpecial(KeyEscape, ModNone)},
		{"Enter", NewSpecial(KeyEnter, ModNone)},
		{"space", NewRune(' ')},
		{"<Esc>", NewSpecial(KeyEscape, ModNone)},
		{"<CR>", NewSpecial(KeyEnter, ModNone)},
		{"<BS>", NewSpecial(KeyBackspace, ModNone)},
		{"<Tab>", NewSpecial(KeyTab, ModNone)},
		{"<Up>", NewSpecial(KeyUp, ModNone)},
		{"<F5>", NewSpecial(KeyF5, ModNone)},
		{"<Space>", NewRune(' ')},
		{"<lt>", NewRune('<')},
		{"<gt>", NewRune('>')},
		{"<bar>", NewRune('|')},
		{"<bslash>", NewRune('\\')},
		{"<C-s>", NewRuneMod('s', ModCtrl)},
		{"<C-S>", NewRuneMod('s', ModCtrl)},
		{"<A-x>", NewRuneMod('x', ModAlt)},
		{"<C-A-Del>", NewSpecial(KeyDelete, ModCtrl|ModAlt)},
		{"<S-Tab>", NewSpecial(KeyTab, ModShift)},
		{"Ctrl+S", NewRuneMod('s', ModCtrl)},
		{"Ctrl+Shift+P", NewRuneMod('p', ModCtrl)},
		{"Alt+F4", NewSpecial(KeyF4, ModAlt)},
	}

	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			got, err := Parse(tt.spec)
			if err != nil {
				t.Fatalf("Parse(%q) failed: %v", tt.spec, err)
			}
			if got != tt.want {
				t.Errorf("Parse(%q) = %#v, want %#v", tt.spec, got, tt.want)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	for _, spec := range []string{"", "  ", "notakey", "<C-bogus>", "<X-a>"} {
		if _, err := Parse(spec); err == nil {
			t.Errorf("Parse(%q) succeeded, want error", spec)
		}
	}
}

func TestVimStringRoundTrip(t *testing.T) {
	inputs := []Input{
		NewRune('a'),
		NewRune('A'),
		NewRune('<'),
		NewRune(' '),
		NewRune('>'),
		NewRuneMod('s', ModCtrl),
		NewRuneMod('x', ModAlt),
		NewSpecial(KeyEscape, ModNone),
		NewSpecial(KeyEnter, ModNone),
		NewSpecial(KeyBackspace, ModNone),
		NewSpecial(KeyUp, ModNone),
		NewSpecial(KeyTab, ModShift),
		NewSpecial(KeyF9, ModCtrl),
	}

	for _, in := range inputs {
		t.Run(in.VimString(), func(t *testing.T) {
			got, err := Parse(in.VimString())
			if err != nil {
				t.Fatalf("Parse(%q) failed: %v", in.VimString(), err)
			}
			if got != in {
				t.Errorf("round trip of %#v via %q gave %#v", in, in.VimString(), got)
			}
		})
	}
}

func TestInputString(t *testing.T) {
	tests := []struct {
		in   Input
		want string
	}{
		{NewRune('a'), "a"},
		{NewRune(' '), "Space"},
		{NewRuneMod('s', ModCtrl), "C-s"},
		{NewSpecial(KeyEscape, ModNone), "Esc"},
		{NewSpecial(KeyTab, ModShift), "S-Tab"},
		{NewSpecial(KeyPageDown, ModNone), "PgDn"},
	}

	for _, tt := range tests {
		if got := tt.in.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestMatches(t *testing.T) {
	if !NewRuneMod('s', ModCtrl).Matches("<C-s>") {
		t.Error("ctrl-s does not match <C-s>")
	}
	if NewRune('s').Matches("<C-s>") {
		t.Error("plain s matches <C-s>")
	}
	if NewRune('s').Matches("not a key") {
		t.Error("invalid spec matched")
	}
}
