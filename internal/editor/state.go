package editor

import (
	"github.com/dshills/modalkit/internal/config"
	"github.com/dshills/modalkit/internal/engine/mark"
	"github.com/dshills/modalkit/internal/engine/register"
	"github.com/dshills/modalkit/internal/engine/session"
	"github.com/dshills/modalkit/internal/host"
	"github.com/dshills/modalkit/internal/input/command"
	"github.com/dshills/modalkit/internal/input/keymap"
	"github.com/dshills/modalkit/internal/input/mode"
)

// Mode returns the active mode name.
func (e *Editor) Mode() mode.Name {
	return e.modes.CurrentName()
}

// Cursor returns the cursor position.
func (e *Editor) Cursor() host.Position {
	return e.cursor
}

// SetCursor moves the cursor, clamped to what the active mode allows.
func (e *Editor) SetCursor(p host.Position) {
	if e.insertActive() {
		e.cursor = e.clampInsert(p)
		return
	}
	e.cursor = e.clampNormal(p)
}

// Buffer returns the buffer under edit.
func (e *Editor) Buffer() host.Buffer {
	return e.buffer
}

// Session returns the shared session state.
func (e *Editor) Session() *session.State {
	return e.session
}

// Registers returns the register store.
func (e *Editor) Registers() *register.Store {
	return e.registers
}

// Marks returns the mark map.
func (e *Editor) Marks() *mark.Map {
	return e.marks
}

// Jumps returns the jump list.
func (e *Editor) Jumps() *mark.JumpList {
	return e.jumps
}

// Options returns the option store.
func (e *Editor) Options() *config.Store {
	return e.options
}

// Keymaps returns the mapping resolver.
func (e *Editor) Keymaps() *keymap.Resolver {
	return e.keymaps
}

// Recording returns the macro register being recorded to.
func (e *Editor) Recording() (rune, bool) {
	return e.recorder.Target(), e.recorder.Recording()
}

// Pending returns the incomplete command input of the active mode's
// recognizer, for the status line.
func (e *Editor) Pending() command.Pending {
	if r := e.activeRunner(); r != nil {
		return r.Pending()
	}
	return command.Pending{}
}

// PendingKeys returns every key held back from execution: partial
// command input first, then keys waiting on an ambiguous mapping.
func (e *Editor) PendingKeys() string {
	s := ""
	if r := e.activeRunner(); r != nil {
		s = r.Pending().Raw
	}
	return s + e.mapPending.VimString()
}

// Selection describes the active visual range. Start and End are
// ordered; End is the cursor end of the range, inclusive.
type Selection struct {
	// Kind is 'v' for characters, 'V' for lines, '\x16' for a block.
	Kind  rune
	Start host.Position
	End   host.Position
}

// Selection returns the active visual selection, if any.
func (e *Editor) Selection() (Selection, bool) {
	name := e.modes.CurrentName()
	if !name.IsVisual() && name != mode.Select {
		return Selection{}, false
	}
	start, end := e.visual.anchor, e.cursor
	if start.After(end) {
		start, end = end, start
	}
	return Selection{Kind: e.visual.kind, Start: start, End: end}, true
}

// CommandLine returns the prompt and text of the open command line.
func (e *Editor) CommandLine() (prompt rune, text string, ok bool) {
	if e.modes.CurrentName() != mode.CommandLine {
		return 0, "", false
	}
	return e.cmdline.prompt, string(e.cmdline.line), true
}

// Disable parks the editor; every key except the resume key passes
// through to the host untouched.
func (e *Editor) Disable() error {
	return e.switchTo(mode.Disabled, mode.Argument{})
}

// BeginExternalEdit parks the editor while another program edits the
// buffer. Escape resumes normal mode.
func (e *Editor) BeginExternalEdit() error {
	return e.switchTo(mode.ExternalEdit, mode.Argument{})
}
