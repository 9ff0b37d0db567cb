package key

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// Parse errors
var (
	ErrEmptySpec   = errors.New("empty key specification")
	ErrInvalidSpec = errors.New("invalid key specification")
)

// Parse parses a key specification string into an Input.
//
// Supported formats:
//   - Single character: "a", "A", "1", "@"
//   - Special keys: "Enter", "Escape", "Tab", "Backspace", "Space"
//   - With modifiers: "Ctrl+S", "Alt+F4", "Ctrl+Shift+P"
//   - Vim-style: "<C-s>", "<A-f>", "<C-S-p>", "<CR>", "<Esc>", "<lt>"
func Parse(spec string) (Input, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return Input{}, ErrEmptySpec
	}

	// Vim-style <...> notation
	if strings.HasPrefix(spec, "<") && strings.HasSuffix(spec, ">") && len(spec) > 2 {
		return parseVimStyle(spec[1 : len(spec)-1])
	}

	// Modifier+key format (Ctrl+S, Alt+F4)
	if strings.Contains(spec, "+") && len([]rune(spec)) > 1 {
		return parseModifierStyle(spec)
	}

	return parseSingle(spec)
}

// parseVimStyle parses the inside of <...> notation like "C-s", "CR", "Esc".
func parseVimStyle(inner string) (Input, error) {
	inner = strings.TrimSpace(inner)
	if inner == "" {
		return Input{}, ErrInvalidSpec
	}

	parts := strings.Split(inner, "-")

	var mods Modifier
	keyPart := parts[len(parts)-1]
	for _, p := range parts[:len(parts)-1] {
		p = strings.ToLower(strings.TrimSpace(p))
		switch p {
		case "c":
			mods = mods.With(ModCtrl)
		case "a":
			mods = mods.With(ModAlt)
		case "s":
			mods = mods.With(ModShift)
		case "m", "d": // D is Vim's notation for Command/Meta
			mods = mods.With(ModMeta)
		default:
			return Input{}, fmt.Errorf("%w: unknown modifier %q", ErrInvalidSpec, p)
		}
	}

	return parseKeyWithModifiers(keyPart, mods)
}

// parseModifierStyle parses "Ctrl+S" style notation.
func parseModifierStyle(spec string) (Input, error) {
	parts := strings.Split(spec, "+")
	if len(parts) < 2 {
		return Input{}, ErrInvalidSpec
	}

	var mods Modifier
	for _, p := range parts[:len(parts)-1] {
		p = strings.TrimSpace(p)
		mod := ModifierFromName(p)
		if mod == ModNone {
			return Input{}, fmt.Errorf("%w: unknown modifier %q", ErrInvalidSpec, p)
		}
		mods = mods.With(mod)
	}

	keyPart := strings.TrimSpace(parts[len(parts)-1])
	if keyPart == "" {
		// "Shift++" style: the key itself is a plus sign.
		keyPart = "+"
	}
	return parseKeyWithModifiers(keyPart, mods)
}

// parseSingle parses a single character or bare key name.
func parseSingle(spec string) (Input, error) {
	if k := KeyFromName(spec); k != KeyNone {
		return NewSpecial(k, ModNone), nil
	}
	if strings.EqualFold(spec, "space") {
		return NewRune(' '), nil
	}

	runes := []rune(spec)
	if len(runes) == 1 {
		return NewRune(runes[0]), nil
	}

	return Input{}, fmt.Errorf("%w: %q", ErrInvalidSpec, spec)
}

// parseKeyWithModifiers parses a key part with already-known modifiers.
func parseKeyWithModifiers(keyPart string, mods Modifier) (Input, error) {
	keyPart = strings.TrimSpace(keyPart)
	if keyPart == "" {
		return Input{}, ErrInvalidSpec
	}

	// Vim aliases for keys that collide with the notation itself.
	switch strings.ToLower(keyPart) {
	case "space":
		return NewRuneMod(' ', mods), nil
	case "lt":
		return NewRuneMod('<', mods), nil
	case "gt":
		return NewRuneMod('>', mods), nil
	case "bar":
		return NewRuneMod('|', mods), nil
	case "bslash":
		return NewRuneMod('\\', mods), nil
	case "minus":
		return NewRuneMod('-', mods), nil
	}

	if k := KeyFromName(keyPart); k != KeyNone {
		return NewSpecial(k, mods), nil
	}

	runes := []rune(keyPart)
	if len(runes) == 1 {
		r := runes[0]
		// Bare uppercase carries its own shift; explicit S- means the
		// shifted character for letters.
		if mods.HasShift() && unicode.IsLetter(r) {
			r = unicode.ToUpper(r)
		}
		return NewRuneMod(r, mods), nil
	}

	return Input{}, fmt.Errorf("%w: unknown key %q", ErrInvalidSpec, keyPart)
}

// MustParse parses a key specification and panics on error.
// Use only for known-valid specs in initialization code.
func MustParse(spec string) Input {
	in, err := Parse(spec)
	if err != nil {
		panic("invalid key specification: " + spec + ": " + err.Error())
	}
	return in
}
