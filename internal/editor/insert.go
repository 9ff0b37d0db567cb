package editor

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/dshills/modalkit/internal/engine/register"
	"github.com/dshills/modalkit/internal/host"
	"github.com/dshills/modalkit/internal/input/key"
	"github.com/dshills/modalkit/internal/input/mode"
)

// insertStart opens a fresh insertion of the given entry kind: the
// normal-mode command that started it, such as 'i', 'A', 'o', or 'c'.
type insertStart struct {
	kind rune
}

// insertResume returns from the expression command line with the text
// to insert, empty when the prompt was cancelled.
type insertResume struct {
	text string
}

// enterInsert switches to insert mode for an entry command. The count
// replays the typed text when the insertion ends.
func (e *Editor) enterInsert(kind rune, count int) error {
	return e.switchTo(mode.Insert, mode.Argument{
		Count:   count,
		Payload: insertStart{kind: kind},
	})
}

// insertMode accepts text at the cursor. It accumulates the typed text
// for count replication, the dot command, and the last-insert register.
// Line breaks are recorded bare; autoindent is applied again on replay.
type insertMode struct {
	ed *Editor

	kind  rune
	count int
	typed []rune
	start host.Position

	// pendingReg is set after CTRL-R, awaiting the register name.
	pendingReg bool

	// suspended marks a detour to the expression command line; the
	// insertion state survives the round trip.
	suspended bool
}

func newInsertMode(e *Editor) *insertMode {
	return &insertMode{ed: e}
}

func (m *insertMode) Name() mode.Name { return mode.Insert }

func (m *insertMode) CanProcess(in key.Input) bool {
	if in.IsRune() || in.IsCancel() {
		return true
	}
	switch in.Key {
	case key.KeyEnter, key.KeyTab, key.KeyBackspace:
		return in.Mods == key.ModNone
	}
	return false
}

func (m *insertMode) OnEnter(arg mode.Argument) error {
	switch p := arg.Payload.(type) {
	case insertResume:
		m.suspended = false
		m.pendingReg = false
		if p.text != "" {
			return m.replayText(p.text, true)
		}
		return nil
	case insertStart:
		m.kind = p.kind
	default:
		m.kind = 'i'
	}
	m.count = arg.Count
	if m.count < 1 {
		m.count = 1
	}
	m.typed = nil
	m.start = m.ed.cursor
	m.pendingReg = false
	m.suspended = false
	return nil
}

func (m *insertMode) Process(in key.Input) (mode.Result, error) {
	if m.pendingReg {
		m.pendingReg = false
		return mode.Result{Handled: true}, m.insertRegister(in)
	}
	if in.IsCancel() {
		return mode.Result{Handled: true}, m.ed.switchTo(mode.Normal, mode.Argument{})
	}

	switch {
	case in.Key == key.KeyEnter:
		return mode.Result{Handled: true}, m.pressEnter(true)
	case in.Key == key.KeyTab:
		return mode.Result{Handled: true}, m.pressTab(true)
	case in.Key == key.KeyBackspace:
		return mode.Result{Handled: true}, m.backspace()
	case in.Rune == 'r' && in.Mods == key.ModCtrl:
		m.pendingReg = true
		return mode.Result{Handled: true}, nil
	case in.Rune == 'w' && in.Mods == key.ModCtrl:
		return mode.Result{Handled: true}, m.killWord()
	case in.Rune == 'u' && in.Mods == key.ModCtrl:
		return mode.Result{Handled: true}, m.killLine()
	case in.IsChar():
		return mode.Result{Handled: true}, m.selfInsert(in.Rune, true)
	}
	return mode.Result{}, nil
}

// OnLeave finishes the insertion: replication for the entry count, the
// last-insert register, the parked dot-command change, and the marks.
// Failures are surfaced through the notifier; returning an error here
// would abort the mode switch and trap the editor in insert.
func (m *insertMode) OnLeave() error {
	if m.suspended {
		return nil
	}
	e := m.ed
	text := string(m.typed)

	if reps := m.count - 1; reps > 0 && text != "" {
		onLines := m.kind == 'o' || m.kind == 'O'
		for i := 0; i < reps; i++ {
			if onLines {
				if err := m.pressEnter(false); err != nil {
					e.notifyError(err)
					break
				}
			}
			if err := m.replayText(text, false); err != nil {
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
	m.kind = 0
	m.count = 0
	m.pendingReg = false
	return nil
}

// insertText writes text at the cursor inside the open command
// transaction, opening it on the first edit of the insertion.
func (m *insertMode) insertText(text string) error {
	e := m.ed
	e.editBegin()
	at := e.cursor
	if err := e.buffer.Replace(at, at, text); err != nil {
		return err
	}
	e.cursor = host.TextEnd(at, text)
	return nil
}

func (m *insertMode) selfInsert(r rune, record bool) error {
	if err := m.insertText(string(r)); err != nil {
		return err
	}
	if record {
		m.typed = append(m.typed, r)
	}
	return nil
}

// pressEnter splits the line, carrying the current line's indent over
// when autoindent is set. Only the bare line break is recorded.
func (m *insertMode) pressEnter(record bool) error {
	e := m.ed
	indent := ""
	if e.options.Bool("autoindent") {
		indent = leadingWhitespace(e.line(e.cursor.Line))
		if runeLen(indent) > e.cursor.Col {
			indent = string([]rune(indent)[:e.cursor.Col])
		}
	}
	if err := m.insertText("\n" + indent); err != nil {
		return err
	}
	if record {
		m.typed = append(m.typed, '\n')
	}
	return nil
}

// pressTab inserts a tab, expanded to spaces up to the next tabstop
// when expandtab is set. The recording keeps the bare tab.
func (m *insertMode) pressTab(record bool) error {
	e := m.ed
	text := "\t"
	if e.options.Bool("expandtab") {
		ts := e.options.Int("tabstop")
		if ts <= 0 {
			ts = 8
		}
		text = strings.Repeat(" ", ts-e.cursor.Col%ts)
	}
	if err := m.insertText(text); err != nil {
		return err
	}
	if record {
		m.typed = append(m.typed, '\t')
	}
	return nil
}

// replayText re-enters recorded text through the same handlers live
// typing uses, so line breaks and tabs pick up the current settings.
func (m *insertMode) replayText(text string, record bool) error {
	for _, r := range text {
		var err error
		switch r {
		case '\n':
			err = m.pressEnter(record)
		case '\t':
			err = m.pressTab(record)
		default:
			err = m.selfInsert(r, record)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// backspace deletes the rune before the cursor, joining with the
// previous line at column zero.
func (m *insertMode) backspace() error {
	e := m.ed
	at := e.cursor
	if at.Col > 0 {
		e.editBegin()
		if err := e.buffer.Replace(host.Position{Line: at.Line, Col: at.Col - 1}, at, ""); err != nil {
			return err
		}
		e.cursor = host.Position{Line: at.Line, Col: at.Col - 1}
		m.trimTyped(1)
		return nil
	}
	if at.Line == 0 {
		return nil
	}
	prev := at.Line - 1
	col := e.lineLen(prev)
	e.editBegin()
	if err := e.buffer.Replace(host.Position{Line: prev, Col: col}, host.Position{Line: at.Line}, ""); err != nil {
		return err
	}
	e.cursor = host.Position{Line: prev, Col: col}
	m.trimTyped(1)
	return nil
}

// isWordRune matches the word class of the lowercase word motions.
func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// killWord deletes the word before the cursor, like CTRL-W.
func (m *insertMode) killWord() error {
	e := m.ed
	at := e.cursor
	runes := []rune(e.line(at.Line))
	col := at.Col
	if col > len(runes) {
		col = len(runes)
	}
	i := col
	for i > 0 && unicode.IsSpace(runes[i-1]) {
		i--
	}
	if i > 0 && isWordRune(runes[i-1]) {
		for i > 0 && isWordRune(runes[i-1]) {
			i--
		}
	} else {
		for i > 0 && !isWordRune(runes[i-1]) && !unicode.IsSpace(runes[i-1]) {
			i--
		}
	}
	if i == col {
		return nil
	}
	e.editBegin()
	if err := e.buffer.Replace(host.Position{Line: at.Line, Col: i}, at, ""); err != nil {
		return err
	}
	e.cursor = host.Position{Line: at.Line, Col: i}
	m.trimTyped(col - i)
	return nil
}

// killLine deletes back to where the insertion began on this line, or
// to column zero, like CTRL-U.
func (m *insertMode) killLine() error {
	e := m.ed
	at := e.cursor
	col := 0
	if m.start.Line == at.Line && m.start.Col < at.Col {
		col = m.start.Col
	}
	if col == at.Col {
		return nil
	}
	e.editBegin()
	if err := e.buffer.Replace(host.Position{Line: at.Line, Col: col}, at, ""); err != nil {
		return err
	}
	e.cursor = host.Position{Line: at.Line, Col: col}
	m.trimTyped(at.Col - col)
	return nil
}

// trimTyped drops the last n recorded runes; deleting past the start of
// the insertion clears the recording.
func (m *insertMode) trimTyped(n int) {
	if n >= len(m.typed) {
		m.typed = nil
		return
	}
	m.typed = m.typed[:len(m.typed)-n]
}

// insertRegister inserts a register's content at the cursor, the
// CTRL-R tail. The = register detours to the expression prompt and
// resumes the insertion with the result.
func (m *insertMode) insertRegister(in key.Input) error {
	e := m.ed
	if in.IsCancel() {
		return nil
	}
	if !in.IsChar() {
		return fmt.Errorf("invalid register name %s", in.VimString())
	}
	if in.Rune == '=' {
		m.suspended = true
		return e.switchTo(mode.CommandLine, mode.Argument{Prompt: '=', Return: mode.Insert})
	}
	if !register.Valid(in.Rune) {
		return fmt.Errorf("invalid register name %q", in.Rune)
	}
	v, err := e.registers.Read(in.Rune)
	if err != nil {
		return err
	}
	if v.IsEmpty() {
		return fmt.Errorf("nothing in register %s", registerLabel(in.Rune))
	}
	text := v.Text
	if v.Shape == register.ShapeLinewise {
		text += "\n"
	}
	return m.replayText(text, true)
}
