package key

import (
	"fmt"
	"strings"
	"unicode"
)

// Input represents a single key press. It is a comparable value: two inputs
// with the same key, rune, and modifiers are equal under ==, and Input may
// be used directly as a map key.
type Input struct {
	// Key identifies the key pressed.
	Key Key

	// Rune is the character for KeyRune inputs.
	Rune rune

	// Mods contains the active modifier keys. For rune inputs Shift is
	// never set; case is carried by the rune itself.
	Mods Modifier
}

// NewRune creates an input for an unmodified character.
func NewRune(r rune) Input {
	return Input{Key: KeyRune, Rune: r}
}

// NewRuneMod creates an input for a character with modifiers. Shift is
// folded into the rune and stripped from the modifier set, and Ctrl chords
// are case-folded so <C-A> and <C-a> are one value.
func NewRuneMod(r rune, mods Modifier) Input {
	mods = mods.Without(ModShift)
	if mods.HasCtrl() {
		r = unicode.ToLower(r)
	}
	return Input{Key: KeyRune, Rune: r, Mods: mods}
}

// NewSpecial creates an input for a special key.
func NewSpecial(key Key, mods Modifier) Input {
	return Input{Key: key, Mods: mods}
}

// IsRune returns true if this is a character input.
func (in Input) IsRune() bool {
	return in.Key == KeyRune && in.Rune != 0
}

// IsChar returns true if this is a printable character with no Ctrl, Alt,
// or Meta modifier. Such inputs self-insert in Insert mode.
func (in Input) IsChar() bool {
	return in.IsRune() && in.Mods == ModNone && unicode.IsPrint(in.Rune)
}

// IsDigit returns true if this is an unmodified decimal digit.
func (in Input) IsDigit() bool {
	return in.IsRune() && in.Mods == ModNone && in.Rune >= '0' && in.Rune <= '9'
}

// IsModified returns true if any modifier is pressed.
func (in Input) IsModified() bool {
	return in.Mods != ModNone
}

// IsSpecial returns true if this is a special (non-character) key.
func (in Input) IsSpecial() bool {
	return in.Key.IsSpecial()
}

// IsEscape returns true if this is the Escape key with no modifiers.
func (in Input) IsEscape() bool {
	return in.Key == KeyEscape && in.Mods == ModNone
}

// IsEnter returns true if this is the Enter key with no modifiers.
func (in Input) IsEnter() bool {
	return in.Key == KeyEnter && in.Mods == ModNone
}

// IsBackspace returns true if this is Backspace with no modifiers.
func (in Input) IsBackspace() bool {
	return in.Key == KeyBackspace && in.Mods == ModNone
}

// IsCancel returns true for the keys that abort a pending command:
// Escape and Ctrl-C.
func (in Input) IsCancel() bool {
	if in.IsEscape() {
		return true
	}
	return in.Key == KeyRune && in.Rune == 'c' && in.Mods == ModCtrl
}

// Matches checks if this input matches a key specification string.
func (in Input) Matches(spec string) bool {
	parsed, err := Parse(spec)
	if err != nil {
		return false
	}
	return in == parsed
}

// WithModifier returns a copy with the specified modifier added.
func (in Input) WithModifier(mod Modifier) Input {
	in.Mods = in.Mods.With(mod)
	if in.Key == KeyRune {
		in.Mods = in.Mods.Without(ModShift)
	}
	return in
}

// String returns a canonical string representation.
// Examples: "a", "A", "C-s", "Esc", "C-S-F1"
func (in Input) String() string {
	var parts []string

	if in.Mods.HasCtrl() {
		parts = append(parts, "C")
	}
	if in.Mods.HasAlt() {
		parts = append(parts, "A")
	}
	if in.Mods.HasMeta() {
		parts = append(parts, "M")
	}
	if in.Mods.HasShift() && !in.IsRune() {
		parts = append(parts, "S")
	}

	var keyName string
	switch in.Key {
	case KeyRune:
		if in.Rune == ' ' {
			keyName = "Space"
		} else {
			keyName = string(in.Rune)
		}
	case KeyEscape:
		keyName = "Esc"
	case KeyBackspace:
		keyName = "BS"
	case KeyDelete:
		keyName = "Del"
	case KeyInsert:
		keyName = "Ins"
	case KeyPageUp:
		keyName = "PgUp"
	case KeyPageDown:
		keyName = "PgDn"
	default:
		keyName = in.Key.String()
	}

	parts = append(parts, keyName)
	return strings.Join(parts, "-")
}

// VimString returns a Vim-style representation.
// Examples: "<Esc>", "<C-s>", "<CR>", "a", "A", "<Space>", "<lt>"
//
// The output round-trips through ParseSequence: literal '<' becomes "<lt>"
// and space becomes "<Space>".
func (in Input) VimString() string {
	if in.IsRune() && !in.IsModified() {
		switch in.Rune {
		case ' ':
			return "<Space>"
		case '<':
			return "<lt>"
		}
		return string(in.Rune)
	}

	var parts []string

	if in.Mods.HasCtrl() {
		parts = append(parts, "C")
	}
	if in.Mods.HasAlt() {
		parts = append(parts, "A")
	}
	if in.Mods.HasMeta() {
		parts = append(parts, "D") // Vim uses D for command/meta
	}
	if in.Mods.HasShift() && !in.IsRune() {
		parts = append(parts, "S")
	}

	var keyName string
	switch in.Key {
	case KeyRune:
		keyName = strings.ToLower(string(in.Rune))
	case KeyEscape:
		keyName = "Esc"
	case KeyEnter:
		keyName = "CR"
	case KeyBackspace:
		keyName = "BS"
	case KeyDelete:
		keyName = "Del"
	default:
		keyName = in.Key.String()
	}

	parts = append(parts, keyName)
	return "<" + strings.Join(parts, "-") + ">"
}

// GoString implements fmt.GoStringer for debugging.
func (in Input) GoString() string {
	return fmt.Sprintf("Input{Key: %s, Rune: %q, Mods: %s}",
		in.Key.String(), in.Rune, in.Mods.String())
}
