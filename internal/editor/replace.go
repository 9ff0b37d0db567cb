package editor

import (
	"github.com/dshills/modalkit/internal/host"
	"github.com/dshills/modalkit/internal/input/key"
	"github.com/dshills/modalkit/internal/input/mode"
)

// overwrite remembers one replace-mode keystroke so backspace can take
// it back: the position written, the rune that was there, whether one
// was there at all, and whether the key broke the line instead.
type overwrite struct {
	pos host.Position
	old rune
	had bool
	nl  bool
}

// replaceMode overwrites text at the cursor. Backspace restores what
// each keystroke covered, walking the overwrite stack backwards.
type replaceMode struct {
	ed *Editor

	count int
	typed []rune
	stack []overwrite
	start host.Position
}

func newReplaceMode(e *Editor) *replaceMode {
	return &replaceMode{ed: e}
}

func (m *replaceMode) Name() mode.Name { return mode.Replace }

func (m *replaceMode) CanProcess(in key.Input) bool {
	if in.IsChar() || in.IsCancel() {
		return true
	}
	switch in.Key {
	case key.KeyEnter, key.KeyTab, key.KeyBackspace:
		return in.Mods == key.ModNone
	}
	return false
}

func (m *replaceMode) OnEnter(arg mode.Argument) error {
	m.count = arg.Count
	if m.count < 1 {
		m.count = 1
	}
	m.typed = nil
	m.stack = nil
	m.start = m.ed.cursor
	return nil
}

func (m *replaceMode) Process(in key.Input) (mode.Result, error) {
	if in.IsCancel() {
		return mode.Result{Handled: true}, m.ed.switchTo(mode.Normal, mode.Argument{})
	}
	switch {
	case in.Key == key.KeyEnter:
		return mode.Result{Handled: true}, m.pressEnter(true)
	case in.Key == key.KeyBackspace:
		return mode.Result{Handled: true}, m.backspace()
	case in.Key == key.KeyTab:
		return mode.Result{Handled: true}, m.overwriteRune('\t', true)
	case in.IsChar():
		return mode.Result{Handled: true}, m.overwriteRune(in.Rune, true)
	}
	return mode.Result{}, nil
}

// OnLeave finishes the overwrite like insert mode does: replication,
// the last-insert register, the parked dot-command change, the marks,
// and the step back. Errors go to the notifier so the switch to normal
// mode always completes.
func (m *replaceMode) OnLeave() error {
	e := m.ed
	text := string(m.typed)

	if reps := m.count - 1; reps > 0 && text != "" {
		for i := 0; i < reps; i++ {
			if err := m.replayText(text); err != nil {
				e.notifyError(err)
				break
			}
		}
	}

	if text != "" {
		e.registers.RecordInsert(text)
	}
	if e.pendingChange != nil {
		e.pendingChange.Insert = text
		e.session.SetLastChange(*e.pendingChange)
		e.pendingChange = nil
	}
	_ = e.marks.Set('^', e.buffer.ID(), e.cursor)
	last := e.clampNormal(retreat(e.cursor))
	e.setChangeMarks(m.start, last)
	e.cursor = last

	m.typed = nil
	m.stack = nil
	m.count = 0
	return nil
}

// overwriteRune replaces the character under the cursor, or appends
// past the end of the line.
func (m *replaceMode) overwriteRune(r rune, record bool) error {
	e := m.ed
	e.editBegin()
	at := e.cursor
	runes := []rune(e.line(at.Line))
	if at.Col < len(runes) {
		end := host.Position{Line: at.Line, Col: at.Col + 1}
		if err := e.buffer.Replace(at, end, string(r)); err != nil {
			return err
		}
		m.stack = append(m.stack, overwrite{pos: at, old: runes[at.Col], had: true})
	} else {
		if err := e.buffer.Replace(at, at, string(r)); err != nil {
			return err
		}
		m.stack = append(m.stack, overwrite{pos: at})
	}
	e.cursor = host.Position{Line: at.Line, Col: at.Col + 1}
	if record {
		m.typed = append(m.typed, r)
	}
	return nil
}

// pressEnter breaks the line at the cursor; nothing is overwritten.
func (m *replaceMode) pressEnter(record bool) error {
	e := m.ed
	e.editBegin()
	at := e.cursor
	if err := e.buffer.Replace(at, at, "\n"); err != nil {
		return err
	}
	m.stack = append(m.stack, overwrite{pos: at, nl: true})
	e.cursor = host.Position{Line: at.Line + 1}
	if record {
		m.typed = append(m.typed, '\n')
	}
	return nil
}

// backspace undoes the most recent keystroke, restoring the covered
// character. With nothing left to take back it just steps left.
func (m *replaceMode) backspace() error {
	e := m.ed
	if len(m.stack) == 0 {
		e.cursor = retreat(e.cursor)
		return nil
	}
	entry := m.stack[len(m.stack)-1]
	m.stack = m.stack[:len(m.stack)-1]

	switch {
	case entry.nl:
		if err := e.buffer.Replace(entry.pos, host.Position{Line: entry.pos.Line + 1}, ""); err != nil {
			return err
		}
	case entry.had:
		end := host.Position{Line: entry.pos.Line, Col: entry.pos.Col + 1}
		if err := e.buffer.Replace(entry.pos, end, string(entry.old)); err != nil {
			return err
		}
	default:
		end := host.Position{Line: entry.pos.Line, Col: entry.pos.Col + 1}
		if err := e.buffer.Replace(entry.pos, end, ""); err != nil {
			return err
		}
	}
	e.cursor = e.clampInsert(entry.pos)
	if len(m.typed) > 0 {
		m.typed = m.typed[:len(m.typed)-1]
	}
	return nil
}

func (m *replaceMode) replayText(text string) error {
	for _, r := range text {
		var err error
		if r == '\n' {
			err = m.pressEnter(false)
		} else {
			err = m.overwriteRune(r, false)
		}
		if err != nil {
			return err
		}
	}
	return nil
}
