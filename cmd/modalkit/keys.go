package main

import (
	"github.com/gdamore/tcell/v2"

	"github.com/dshills/modalkit/internal/input/key"
)

// translateKey converts a tcell key event into the interpreter's key
// model. Events with no interpreter meaning report ok false.
func translateKey(ev *tcell.EventKey) (in key.Input, ok bool) {
	mods := translateMods(ev.Modifiers())

	switch ev.Key() {
	case tcell.KeyRune:
		if mods == key.ModNone {
			return key.NewRune(ev.Rune()), true
		}
		return key.NewRuneMod(ev.Rune(), mods), true
	case tcell.KeyEscape:
		return key.NewSpecial(key.KeyEscape, mods), true
	case tcell.KeyEnter:
		return key.NewSpecial(key.KeyEnter, mods), true
	case tcell.KeyTab:
		return key.NewSpecial(key.KeyTab, mods), true
	case tcell.KeyBacktab:
		return key.NewSpecial(key.KeyTab, mods|key.ModShift), true
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return key.NewSpecial(key.KeyBackspace, mods), true
	case tcell.KeyDelete:
		return key.NewSpecial(key.KeyDelete, mods), true
	case tcell.KeyInsert:
		return key.NewSpecial(key.KeyInsert, mods), true
	case tcell.KeyHome:
		return key.NewSpecial(key.KeyHome, mods), true
	case tcell.KeyEnd:
		return key.NewSpecial(key.KeyEnd, mods), true
	case tcell.KeyPgUp:
		return key.NewSpecial(key.KeyPageUp, mods), true
	case tcell.KeyPgDn:
		return key.NewSpecial(key.KeyPageDown, mods), true
	case tcell.KeyUp:
		return key.NewSpecial(key.KeyUp, mods), true
	case tcell.KeyDown:
		return key.NewSpecial(key.KeyDown, mods), true
	case tcell.KeyLeft:
		return key.NewSpecial(key.KeyLeft, mods), true
	case tcell.KeyRight:
		return key.NewSpecial(key.KeyRight, mods), true
	case tcell.KeyCtrlSpace:
		return key.NewRuneMod(' ', key.ModCtrl|mods), true
	}

	if k := ev.Key(); k >= tcell.KeyF1 && k <= tcell.KeyF12 {
		return key.NewSpecial(key.KeyF1+key.Key(k-tcell.KeyF1), mods), true
	}

	// Control chords arrive as dedicated tcell keys; Enter, Tab, and
	// Escape never reach here because their cases above return first.
	if k := ev.Key(); k >= tcell.KeyCtrlA && k <= tcell.KeyCtrlZ {
		r := rune('a' + k - tcell.KeyCtrlA)
		return key.NewRuneMod(r, key.ModCtrl|mods), true
	}

	return key.Input{}, false
}

func translateMods(m tcell.ModMask) key.Modifier {
	var mods key.Modifier
	if m&tcell.ModShift != 0 {
		mods |= key.ModShift
	}
	if m&tcell.ModCtrl != 0 {
		mods |= key.ModCtrl
	}
	if m&tcell.ModAlt != 0 {
		mods |= key.ModAlt
	}
	if m&tcell.ModMeta != 0 {
		mods |= key.ModMeta
	}
	return mods
}
