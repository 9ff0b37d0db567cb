package editor

import (
	"fmt"
	"strings"

	"github.com/dshills/modalkit/internal/engine/motion"
	"github.com/dshills/modalkit/internal/engine/register"
	"github.com/dshills/modalkit/internal/engine/session"
	"github.com/dshills/modalkit/internal/host"
	"github.com/dshills/modalkit/internal/input/command"
	"github.com/dshills/modalkit/internal/input/key"
	"github.com/dshills/modalkit/internal/input/mode"
)

// blockKind tags a blockwise selection, the CTRL-V character.
const blockKind = '\x16'

// keepSelection carries the current selection across a switch between
// visual kinds, or into and out of select mode.
type keepSelection struct{}

// visualRestore re-selects a previous range; the anchor travels in the
// mode argument and the cursor end here.
type visualRestore struct {
	end host.Position
}

func visualModeName(kind rune) mode.Name {
	switch kind {
	case 'V':
		return mode.VisualLine
	case blockKind:
		return mode.VisualBlock
	default:
		return mode.VisualCharacter
	}
}

// visualState is the selection shared by the three visual modes and
// select mode: the fixed anchor, the selection kind, and the command
// recognizer. The cursor is the moving end.
type visualState struct {
	ed     *Editor
	anchor host.Position
	kind   rune
	runner *command.Runner
}

func newVisualState(e *Editor) *visualState {
	return &visualState{
		ed:     e,
		kind:   'v',
		runner: command.NewRunner(command.NewTable(visualDefinitions()...), e.motions),
	}
}

// visualMode is one visual kind's face over the shared state.
type visualMode struct {
	st   *visualState
	name mode.Name
	kind rune
}

func newVisualModes(e *Editor, st *visualState) []*visualMode {
	return []*visualMode{
		{st: st, name: mode.VisualCharacter, kind: 'v'},
		{st: st, name: mode.VisualLine, kind: 'V'},
		{st: st, name: mode.VisualBlock, kind: blockKind},
	}
}

func (m *visualMode) Name() mode.Name { return m.name }

func (m *visualMode) CanProcess(in key.Input) bool {
	return m.st.runner.HasPending() || in.IsRune() || in.IsCancel()
}

func (m *visualMode) OnEnter(arg mode.Argument) error {
	st := m.st
	st.kind = m.kind
	if _, ok := arg.Payload.(keepSelection); ok {
		return nil
	}
	st.runner.Reset()
	if arg.Anchor != nil {
		st.anchor = *arg.Anchor
	} else {
		st.anchor = st.ed.cursor
	}
	if restore, ok := arg.Payload.(visualRestore); ok {
		st.ed.cursor = st.ed.clampNormal(restore.end)
	}
	return nil
}

func (m *visualMode) OnLeave() error {
	m.st.recordSelection()
	m.st.runner.Reset()
	return nil
}

func (m *visualMode) Process(in key.Input) (mode.Result, error) {
	st := m.st
	if in.IsCancel() && !st.runner.HasPending() {
		return mode.Result{Handled: true}, st.ed.switchTo(mode.Normal, mode.Argument{})
	}
	hadPending := st.runner.HasPending()
	res := st.runner.ProcessKey(in)
	switch res.Status {
	case command.StatusComplete:
		return mode.Result{Handled: true}, m.runVisual(res.Command)
	case command.StatusError:
		return mode.Result{Handled: true}, res.Err
	case command.StatusNoMatch:
		return mode.Result{Handled: hadPending}, nil
	default:
		return mode.Result{Handled: true}, nil
	}
}

// runVisual applies a completed command to the selection.
func (m *visualMode) runVisual(cmd *command.Command) error {
	st := m.st
	e := st.ed
	if cmd.Action == command.MotionAction {
		return m.visualMotion(cmd)
	}
	switch cmd.Action {
	case "delete":
		return st.deleteSelection(cmd.Register, true)
	case "yank":
		return st.yankSelection(cmd.Register)
	case "change":
		return st.changeSelection(cmd.Register)
	case "indent":
		return st.indentSelection(cmd.EffectiveCount(), 1)
	case "outdent":
		return st.indentSelection(cmd.EffectiveCount(), -1)
	case "reindent":
		e.editBegin()
		if err := e.opReindent(st.lineExtent()); err != nil {
			return err
		}
		return e.switchTo(mode.Normal, mode.Argument{})
	case "lowercase":
		return st.caseSelection('u')
	case "uppercase":
		return st.caseSelection('U')
	case "toggle-case":
		return st.caseSelection('~')
	case "reflow":
		e.editBegin()
		if err := e.opReflow(st.lineExtent()); err != nil {
			return err
		}
		return e.switchTo(mode.Normal, mode.Argument{})
	case "join":
		return st.joinSelection(true)
	case "join-plain":
		return st.joinSelection(false)
	case "replace-chars":
		return st.replaceChars(argRune(cmd))
	case "put":
		return st.putSelection(cmd.Register, false)
	case "put-keep":
		return st.putSelection(cmd.Register, true)
	case "swap-ends":
		st.anchor, e.cursor = e.cursor, e.clampNormal(st.anchor)
		return nil
	case "kind-chars":
		return m.switchKind('v')
	case "kind-lines":
		return m.switchKind('V')
	case "kind-block":
		return m.switchKind(blockKind)
	case "to-select":
		return e.switchTo(mode.Select, mode.Argument{Payload: keepSelection{}})
	case "command-line":
		return e.switchTo(mode.CommandLine, mode.Argument{
			Prompt:  ':',
			Payload: cmdlinePrefill{text: "'<,'>"},
		})
	default:
		return fmt.Errorf("no handler for command %q", cmd.Action)
	}
}

// switchKind toggles between visual kinds; the active kind's own key
// drops back to normal mode.
func (m *visualMode) switchKind(kind rune) error {
	if m.kind == kind {
		return m.st.ed.switchTo(mode.Normal, mode.Argument{})
	}
	return m.st.ed.switchTo(visualModeName(kind), mode.Argument{Payload: keepSelection{}})
}

// visualMotion moves the cursor end of the selection, or reshapes it
// for a text object.
func (m *visualMode) visualMotion(cmd *command.Command) error {
	st := m.st
	e := st.ed

	// Pattern searches detour through the command line and resume the
	// selection when the pattern is accepted.
	if cmd.Motion.Arg == motion.ArgPattern && cmd.Arg == "" {
		prompt := '/'
		if cmd.Motion.Keys == "?" {
			prompt = '?'
		}
		anchor := st.anchor
		task := &searchTask{cmd: cmd, resume: m.name, anchor: &anchor}
		return e.switchTo(mode.CommandLine, mode.Argument{Prompt: prompt, Payload: task})
	}

	keys := cmd.Motion.Keys
	if isTextObjectKeys(keys) {
		return m.applyTextObject(cmd)
	}

	span, err := e.motions.Resolve(e.motionContext(false), keys, cmd.Count, cmd.Arg)
	if err != nil {
		return err
	}
	if motionPushesJump(keys) {
		e.pushJump()
	}
	e.cursor = e.clampNormal(span.Target)
	return nil
}

func isTextObjectKeys(keys string) bool {
	runes := []rune(keys)
	return len(runes) == 2 && (runes[0] == 'i' || runes[0] == 'a')
}

// applyTextObject snaps the selection to the object's bounds. A
// linewise object such as a paragraph pulls the mode to visual-line.
func (m *visualMode) applyTextObject(cmd *command.Command) error {
	st := m.st
	e := st.ed
	span, err := e.motions.Resolve(e.motionContext(false), cmd.Motion.Keys, cmd.Count, cmd.Arg)
	if err != nil {
		return err
	}
	st.anchor = span.Start
	if span.Kind == motion.Linewise {
		e.cursor = e.clampNormal(host.Position{Line: span.End.Line})
		if st.kind != 'V' {
			return e.switchTo(mode.VisualLine, mode.Argument{Payload: keepSelection{}})
		}
		return nil
	}
	e.cursor = e.lastCovered(span)
	return nil
}

// recordSelection stores the departing selection for gv and the < and
// > marks.
func (st *visualState) recordSelection() {
	e := st.ed
	start := e.clampNormal(host.MinPosition(st.anchor, e.cursor))
	end := e.clampNormal(host.MaxPosition(st.anchor, e.cursor))
	e.session.SetLastVisual(session.Visual{Kind: st.kind, Start: start, End: end})
	id := e.buffer.ID()
	_ = e.marks.Set('<', id, start)
	_ = e.marks.Set('>', id, end)
}

// selection returns the selected range as an operator span. Blockwise
// selections go through blockRect instead.
func (st *visualState) selection() motion.Span {
	e := st.ed
	start := host.MinPosition(st.anchor, e.cursor)
	end := host.MaxPosition(st.anchor, e.cursor)
	if st.kind == 'V' {
		return motion.Span{
			Start: host.Position{Line: start.Line},
			End:   host.Position{Line: end.Line},
			Kind:  motion.Linewise,
		}
	}
	// The character under the later end is included.
	end.Col++
	if ll := e.lineLen(end.Line); end.Col > ll {
		end.Col = ll
	}
	return motion.Span{Start: start, End: end, Kind: motion.Inclusive}
}

// lineExtent returns the whole lines the selection touches, for the
// line-oriented operators.
func (st *visualState) lineExtent() motion.Span {
	e := st.ed
	start := host.MinPosition(st.anchor, e.cursor)
	end := host.MaxPosition(st.anchor, e.cursor)
	return motion.Span{
		Start: host.Position{Line: start.Line},
		End:   host.Position{Line: end.Line},
		Kind:  motion.Linewise,
	}
}

// rect is the rectangle of a blockwise selection; right is exclusive.
type rect struct {
	top, bottom, left, right int
}

func (st *visualState) blockRect() rect {
	a, c := st.anchor, st.ed.cursor
	top, bottom := a.Line, c.Line
	if top > bottom {
		top, bottom = bottom, top
	}
	left, right := a.Col, c.Col
	if left > right {
		left, right = right, left
	}
	return rect{top: top, bottom: bottom, left: left, right: right + 1}
}

// fragment returns the part of line n inside the rectangle's columns.
func (e *Editor) fragment(n int, r rect) (from, to int) {
	ll := e.lineLen(n)
	from, to = r.left, r.right
	if from > ll {
		from = ll
	}
	if to > ll {
		to = ll
	}
	return from, to
}

func (st *visualState) blockText(r rect) string {
	e := st.ed
	parts := make([]string, 0, r.bottom-r.top+1)
	for n := r.top; n <= r.bottom; n++ {
		from, to := e.fragment(n, r)
		runes := []rune(e.line(n))
		parts = append(parts, string(runes[from:to]))
	}
	return strings.Join(parts, "\n")
}

func (st *visualState) blockDelete(reg rune) error {
	e := st.ed
	r := st.blockRect()
	v := register.Value{Text: st.blockText(r), Shape: register.ShapeBlockwise}
	for n := r.bottom; n >= r.top; n-- {
		from, to := e.fragment(n, r)
		if from >= to {
			continue
		}
		start := host.Position{Line: n, Col: from}
		if err := e.buffer.Replace(start, host.Position{Line: n, Col: to}, ""); err != nil {
			return err
		}
	}
	if err := e.registers.RecordDelete(reg, v, false); err != nil {
		return err
	}
	e.cursor = e.clampNormal(host.Position{Line: r.top, Col: r.left})
	e.setChangeMarks(host.Position{Line: r.top, Col: r.left}, host.Position{Line: r.bottom, Col: r.left})
	return nil
}

func (st *visualState) blockYank(reg rune) error {
	e := st.ed
	r := st.blockRect()
	v := register.Value{Text: st.blockText(r), Shape: register.ShapeBlockwise}
	if err := e.registers.RecordYank(reg, v); err != nil {
		return err
	}
	e.cursor = e.clampNormal(host.Position{Line: r.top, Col: r.left})
	return nil
}

func (st *visualState) blockCase(transform func(string) string) error {
	e := st.ed
	r := st.blockRect()
	for n := r.bottom; n >= r.top; n-- {
		from, to := e.fragment(n, r)
		if from >= to {
			continue
		}
		runes := []rune(e.line(n))
		start := host.Position{Line: n, Col: from}
		text := transform(string(runes[from:to]))
		if err := e.buffer.Replace(start, host.Position{Line: n, Col: to}, text); err != nil {
			return err
		}
	}
	e.cursor = e.clampNormal(host.Position{Line: r.top, Col: r.left})
	return nil
}

// deleteSelection removes the selected text into the registers. With
// exit set it drops back to normal mode afterwards.
func (st *visualState) deleteSelection(reg rune, exit bool) error {
	e := st.ed
	e.editBegin()
	if st.kind == blockKind {
		if err := st.blockDelete(reg); err != nil {
			return err
		}
	} else if err := e.opDelete(st.selection(), reg); err != nil {
		return err
	}
	if exit {
		return e.switchTo(mode.Normal, mode.Argument{})
	}
	return nil
}

func (st *visualState) yankSelection(reg rune) error {
	e := st.ed
	var err error
	if st.kind == blockKind {
		err = st.blockYank(reg)
	} else {
		err = e.opYank(st.selection(), reg)
	}
	if err != nil {
		return err
	}
	return e.switchTo(mode.Normal, mode.Argument{})
}

// changeSelection deletes the selection and opens an insertion at its
// start. A blockwise change inserts on the top line only.
func (st *visualState) changeSelection(reg rune) error {
	e := st.ed
	e.editBegin()
	if st.kind == blockKind {
		r := st.blockRect()
		if err := st.blockDelete(reg); err != nil {
			return err
		}
		e.cursor = e.clampInsert(host.Position{Line: r.top, Col: r.left})
		return e.enterInsert('c', 1)
	}
	return e.opChange(st.selection(), reg)
}

func (st *visualState) indentSelection(levels, dir int) error {
	e := st.ed
	e.editBegin()
	span := st.lineExtent()
	for i := 0; i < levels; i++ {
		if err := e.opIndent(span, dir); err != nil {
			return err
		}
	}
	return e.switchTo(mode.Normal, mode.Argument{})
}

func (st *visualState) caseSelection(kind rune) error {
	e := st.ed
	e.editBegin()
	if st.kind == blockKind {
		transform := strings.ToLower
		switch kind {
		case 'U':
			transform = strings.ToUpper
		case '~':
			transform = swapCase
		}
		if err := st.blockCase(transform); err != nil {
			return err
		}
		return e.switchTo(mode.Normal, mode.Argument{})
	}
	if err := e.opCase(st.selection(), kind); err != nil {
		return err
	}
	return e.switchTo(mode.Normal, mode.Argument{})
}

func (st *visualState) joinSelection(smart bool) error {
	e := st.ed
	span := st.lineExtent()
	count := span.End.Line - span.Start.Line + 1
	if count < 2 {
		count = 2
	}
	e.cursor = e.clampNormal(host.Position{Line: span.Start.Line})
	e.editBegin()
	if err := e.joinLines(count, smart); err != nil {
		return err
	}
	return e.switchTo(mode.Normal, mode.Argument{})
}

// replaceChars overwrites every selected character with one rune, line
// breaks excepted.
func (st *visualState) replaceChars(r rune) error {
	e := st.ed
	e.editBegin()
	if st.kind == blockKind {
		rc := st.blockRect()
		for n := rc.bottom; n >= rc.top; n-- {
			from, to := e.fragment(n, rc)
			if from >= to {
				continue
			}
			start := host.Position{Line: n, Col: from}
			text := strings.Repeat(string(r), to-from)
			if err := e.buffer.Replace(start, host.Position{Line: n, Col: to}, text); err != nil {
				return err
			}
		}
		e.cursor = e.clampNormal(host.Position{Line: rc.top, Col: rc.left})
		return e.switchTo(mode.Normal, mode.Argument{})
	}

	span := st.selection()
	a, b := span.Start.Line, span.End.Line
	for n := a; n <= b; n++ {
		from, to := 0, e.lineLen(n)
		if span.Kind != motion.Linewise {
			if n == a {
				from = span.Start.Col
			}
			if n == b && span.End.Col < to {
				to = span.End.Col
			}
		}
		if from >= to {
			continue
		}
		start := host.Position{Line: n, Col: from}
		text := strings.Repeat(string(r), to-from)
		if err := e.buffer.Replace(start, host.Position{Line: n, Col: to}, text); err != nil {
			return err
		}
	}
	e.cursor = e.clampNormal(span.Start)
	return e.switchTo(mode.Normal, mode.Argument{})
}

// putSelection replaces the selection with register content. The keep
// form discards the replaced text instead of cycling it into the
// registers.
func (st *visualState) putSelection(reg rune, keep bool) error {
	e := st.ed
	v, err := e.readRegister(reg)
	if err != nil {
		return err
	}
	if v.IsEmpty() {
		return fmt.Errorf("nothing in register %s", registerLabel(reg))
	}

	into := rune(0)
	if keep {
		into = '_'
	}
	e.editBegin()
	after := false
	linewise := false
	var start host.Position
	if st.kind == blockKind {
		if err := st.blockDelete(into); err != nil {
			return err
		}
	} else {
		span := st.selection()
		linewise = span.Kind == motion.Linewise
		start = span.Start
		if linewise && span.End.Line >= e.lastLine() && span.Start.Line > 0 {
			// Deleting the trailing lines leaves the cursor above the
			// gap; the paste must land after it.
			after = true
		}
		if err := e.opDelete(span, into); err != nil {
			return err
		}
	}

	switch {
	case v.Shape == register.ShapeBlockwise:
		err = e.putBlock(v, 1, false)
	case v.Shape == register.ShapeLinewise:
		err = e.putLines(v, 1, after, false)
	case linewise:
		// Charwise text filling a linewise gap becomes its own line.
		err = e.putLines(register.Value{Text: v.Text, Shape: register.ShapeLinewise}, 1, after, false)
	default:
		// The deletion clamps the cursor onto the last remaining
		// character; the put belongs at the removed span's start.
		e.cursor = e.clampInsert(start)
		err = e.putChars(v, 1, false, false)
	}
	if err != nil {
		return err
	}
	return e.switchTo(mode.Normal, mode.Argument{})
}

// visualDefinitions is the visual-mode command table. Operators act on
// the selection immediately, so they are plain commands here.
func visualDefinitions() []command.Definition {
	return []command.Definition{
		{Keys: "d", Name: "delete"},
		{Keys: "x", Name: "delete"},
		{Keys: "y", Name: "yank"},
		{Keys: "c", Name: "change"},
		{Keys: "s", Name: "change"},

		{Keys: ">", Name: "indent"},
		{Keys: "<", Name: "outdent"},
		{Keys: "=", Name: "reindent"},
		{Keys: "gu", Name: "lowercase"},
		{Keys: "gU", Name: "uppercase"},
		{Keys: "g~", Name: "toggle-case"},
		{Keys: "~", Name: "toggle-case"},
		{Keys: "gq", Name: "reflow"},

		{Keys: "J", Name: "join"},
		{Keys: "gJ", Name: "join-plain"},
		{Keys: "r", Name: "replace-chars", Arg: command.ArgChar},
		{Keys: "p", Name: "put"},
		{Keys: "P", Name: "put-keep"},

		{Keys: "o", Name: "swap-ends"},
		{Keys: "v", Name: "kind-chars"},
		{Keys: "V", Name: "kind-lines"},
		{Keys: "<C-v>", Name: "kind-block"},
		{Keys: "<C-g>", Name: "to-select"},
		{Keys: ":", Name: "command-line"},
	}
}

// selectMode is the typing-replaces flavor of a selection: printable
// keys delete the selection and start inserting in its place.
type selectMode struct {
	ed *Editor
	st *visualState
}

func newSelectMode(e *Editor, st *visualState) *selectMode {
	return &selectMode{ed: e, st: st}
}

func (m *selectMode) Name() mode.Name { return mode.Select }

func (m *selectMode) CanProcess(in key.Input) bool {
	if in.IsRune() || in.IsCancel() {
		return true
	}
	return in.Key == key.KeyEnter || in.Key == key.KeyTab
}

func (m *selectMode) OnEnter(arg mode.Argument) error {
	if _, ok := arg.Payload.(keepSelection); ok {
		return nil
	}
	m.st.kind = 'v'
	if arg.Anchor != nil {
		m.st.anchor = *arg.Anchor
	} else {
		m.st.anchor = m.ed.cursor
	}
	return nil
}

func (m *selectMode) OnLeave() error {
	m.st.recordSelection()
	return nil
}

func (m *selectMode) Process(in key.Input) (mode.Result, error) {
	e := m.ed
	if in.IsCancel() {
		return mode.Result{Handled: true}, e.switchTo(mode.Normal, mode.Argument{})
	}
	if in.Rune == 'g' && in.Mods == key.ModCtrl {
		name := visualModeName(m.st.kind)
		return mode.Result{Handled: true}, e.switchTo(name, mode.Argument{Payload: keepSelection{}})
	}
	if in.IsChar() || in.Key == key.KeyEnter || in.Key == key.KeyTab {
		if err := m.st.deleteSelection(0, false); err != nil {
			return mode.Result{Handled: true}, err
		}
		if err := e.enterInsert('c', 1); err != nil {
			return mode.Result{Handled: true}, err
		}
		return e.modes.Current().Process(in)
	}
	return mode.Result{}, nil
}
