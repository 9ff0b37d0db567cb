package editor

import (
	"errors"

	"github.com/dshills/modalkit/internal/config"
	"github.com/dshills/modalkit/internal/engine/expr"
	"github.com/dshills/modalkit/internal/engine/mark"
	"github.com/dshills/modalkit/internal/engine/motion"
	"github.com/dshills/modalkit/internal/engine/register"
	"github.com/dshills/modalkit/internal/engine/search"
	"github.com/dshills/modalkit/internal/engine/session"
	"github.com/dshills/modalkit/internal/host"
	"github.com/dshills/modalkit/internal/input/command"
	"github.com/dshills/modalkit/internal/input/key"
	"github.com/dshills/modalkit/internal/input/keymap"
	"github.com/dshills/modalkit/internal/input/macro"
	"github.com/dshills/modalkit/internal/input/mode"
	"github.com/dshills/modalkit/internal/logging"
)

// jumpListMax bounds the jump list; the oldest entry falls off first.
const jumpListMax = 100

// Editor interprets keys against one host buffer. All methods must be
// called from the same goroutine; the host's event loop owns it.
type Editor struct {
	buffer    host.Buffer
	undo      host.UndoHistory
	notifier  host.Notifier
	clipboard host.Clipboard
	log       *logging.Logger

	options   *config.Store
	session   *session.State
	registers *register.Store
	marks     *mark.Map
	jumps     *mark.JumpList
	searches  *search.Service
	motions   *motion.Resolver
	keymaps   *keymap.Resolver
	evaluator *expr.Evaluator

	modes   *mode.Manager
	normal  *normalMode
	insert  *insertMode
	visual  *visualState
	cmdline *cmdlineMode

	recorder *macro.Recorder
	player   *macro.Player

	cursor     host.Position
	mapPending *key.Sequence

	// txn is the undo transaction of the command in flight, nil when
	// no mutating command is open.
	txn host.Transaction

	// pendingChange is a repeatable change waiting for its insert-mode
	// text before it is recorded for the dot command.
	pendingChange *session.Change

	processing bool
	replaying  bool

	resumeKey key.Input
	cancels   []func()
}

// Option configures an Editor.
type Option func(*Editor)

// WithUndoHistory supplies the host's undo grouping. Without one, undo
// and redo report that no history is available.
func WithUndoHistory(h host.UndoHistory) Option {
	return func(e *Editor) { e.undo = h }
}

// WithNotifier supplies the host's status-line sink.
func WithNotifier(n host.Notifier) Option {
	return func(e *Editor) { e.notifier = n }
}

// WithLogger supplies a logger; the default discards everything.
func WithLogger(l *logging.Logger) Option {
	return func(e *Editor) { e.log = l }
}

// WithOptions supplies a pre-populated option store.
func WithOptions(s *config.Store) Option {
	return func(e *Editor) { e.options = s }
}

// WithClipboard wires the system clipboard behind the * and +
// registers.
func WithClipboard(c host.Clipboard) Option {
	return func(e *Editor) { e.clipboard = c }
}

// WithResumeKey sets the key that leaves Disabled mode.
func WithResumeKey(in key.Input) Option {
	return func(e *Editor) { e.resumeKey = in }
}

// New builds an editor over buf and starts it in normal mode.
func New(buf host.Buffer, opts ...Option) (*Editor, error) {
	if buf == nil {
		return nil, errors.New("editor: nil buffer")
	}
	e := &Editor{
		buffer:     buf,
		undo:       nopUndo{},
		notifier:   host.NopNotifier{},
		log:        logging.Discard(),
		options:    config.NewStore(),
		session:    session.New(),
		registers:  register.NewStore(),
		marks:      mark.NewMap(),
		jumps:      mark.NewJumpList(jumpListMax),
		searches:   search.NewService(),
		motions:    motion.NewResolver(),
		keymaps:    keymap.NewResolver(),
		modes:      mode.NewManager(),
		mapPending: key.NewSequence(),
		resumeKey:  key.NewSpecial(key.KeyF12, key.ModCtrl|key.ModShift),
	}
	for _, opt := range opts {
		opt(e)
	}

	e.recorder = macro.NewRecorder(e.registers)
	e.player = macro.NewPlayer(e.registers)

	if e.clipboard != nil {
		e.registers.SetClipboard(e.clipboard)
	}
	e.registers.SetClipboardMode(register.ParseClipboardMode(e.options.String("clipboard")))
	e.keymaps.SetMaxDepth(e.options.Int("maxmapdepth"))
	e.session.SetHistoryLimit(e.options.Int("history"))

	e.normal = newNormalMode(e)
	e.insert = newInsertMode(e)
	e.visual = newVisualState(e)
	e.cmdline = newCmdlineMode(e)

	e.modes.Register(e.normal)
	e.modes.Register(e.insert)
	e.modes.Register(newReplaceMode(e))
	for _, vm := range newVisualModes(e, e.visual) {
		e.modes.Register(vm)
	}
	e.modes.Register(newSelectMode(e, e.visual))
	e.modes.Register(e.cmdline)
	e.modes.Register(newConfirmMode(e))
	e.modes.Register(newInertMode(e, mode.Disabled, e.resumeKey))
	e.modes.Register(newInertMode(e, mode.ExternalEdit, key.NewSpecial(key.KeyEscape, key.ModNone)))
	if err := e.modes.SetInitial(mode.Normal); err != nil {
		return nil, err
	}

	if err := e.installDefaultMappings(); err != nil {
		return nil, err
	}

	e.cancels = append(e.cancels,
		e.options.Subscribe(e.applyOption),
		e.buffer.Subscribe(e.bufferChanged),
	)
	return e, nil
}

// Close releases subscriptions and the expression evaluator. The
// editor must not be used afterwards.
func (e *Editor) Close() {
	for _, cancel := range e.cancels {
		cancel()
	}
	e.cancels = nil
	if e.evaluator != nil {
		e.evaluator.Close()
		e.evaluator = nil
	}
}

// ProcessKey interprets one key in the active mode. It reports whether
// the key was consumed; an unconsumed key should get the host's native
// treatment. The returned error is ErrBusy on re-entrant calls;
// command failures surface through the notifier instead.
func (e *Editor) ProcessKey(in key.Input) (bool, error) {
	if e.processing {
		return false, ErrBusy
	}
	e.processing = true
	defer func() { e.processing = false }()
	e.log.Debug("key", "input", in.VimString(), "mode", string(e.modes.CurrentName()))
	return e.feedKey(in), nil
}

// CanProcess reports whether ProcessKey would consume the key, without
// consuming it. Hosts use it to route shortcuts around the editor.
func (e *Editor) CanProcess(in key.Input) bool {
	if e.processing {
		return false
	}
	cur := e.modes.Current()
	if cur == nil {
		return false
	}
	name := e.modes.CurrentName()
	if name == mode.Disabled || name == mode.ExternalEdit {
		return cur.CanProcess(in)
	}
	if !e.mapPending.IsEmpty() {
		return true
	}
	if r := e.activeRunner(); r != nil && r.AwaitingArg() {
		return true
	}
	res, _ := e.keymaps.Resolve(string(name), key.NewSequenceFrom(in))
	if res.Outcome == keymap.Mapped || res.Outcome == keymap.NeedsMoreInput {
		return true
	}
	return cur.CanProcess(in)
}

// FlushPending forces a decision on keys held back by an ambiguous
// mapping prefix, after the host's timeoutlen expires. It reports
// whether any key was consumed.
func (e *Editor) FlushPending() (bool, error) {
	if e.processing {
		return false, ErrBusy
	}
	e.processing = true
	defer func() { e.processing = false }()
	if e.mapPending.IsEmpty() {
		return false, nil
	}
	pending := e.mapPending
	e.mapPending = key.NewSequence()
	res, err := e.keymaps.Flush(string(e.modes.CurrentName()), pending)
	if err != nil || res.Outcome != keymap.Mapped {
		return e.dispatchAll(pending.Inputs), nil
	}
	return e.dispatchAll(res.Keys.Inputs), nil
}

// feedKey routes one key through mapping resolution into the active
// mode.
func (e *Editor) feedKey(in key.Input) bool {
	name := e.modes.CurrentName()
	if name == mode.Disabled || name == mode.ExternalEdit {
		return e.dispatchKey(in)
	}
	// An awaited trailing argument is taken literally; mappings do not
	// rewrite the target of f, r, m, or a register name.
	if r := e.activeRunner(); r != nil && r.AwaitingArg() {
		return e.dispatchKey(in)
	}

	e.mapPending.Add(in)
	res, err := e.keymaps.Resolve(string(name), e.mapPending)
	switch res.Outcome {
	case keymap.NeedsMoreInput:
		return true
	case keymap.Mapped:
		e.mapPending = key.NewSequence()
		return e.dispatchAll(res.Keys.Inputs)
	case keymap.Recursive:
		e.log.Warn("recursive mapping", "keys", e.mapPending.VimString(), "error", err)
		e.notifier.Error("recursive mapping: " + e.mapPending.VimString())
		fallthrough
	default:
		pending := e.mapPending
		e.mapPending = key.NewSequence()
		return e.dispatchAll(pending.Inputs)
	}
}

func (e *Editor) dispatchAll(inputs []key.Input) bool {
	handled := false
	for _, in := range inputs {
		if e.dispatchKey(in) {
			handled = true
		}
	}
	return handled
}

// dispatchKey hands one resolved key to the active mode and closes the
// command transaction when the command is done with it.
func (e *Editor) dispatchKey(in key.Input) bool {
	if e.stopsRecording(in) {
		e.normal.runner.Reset()
		if _, err := e.recorder.Stop(); err != nil {
			e.notifyError(err)
		}
		return true
	}
	if e.recorder.Recording() && !e.player.Playing() && !e.replaying {
		e.recorder.Record(in)
	}

	m := e.modes.Current()
	if !m.CanProcess(in) {
		return false
	}
	res, err := m.Process(in)
	if err != nil {
		e.notifyError(err)
	}
	e.settleEdit(err)
	return res.Handled
}

// stopsRecording recognizes the bare q that ends a macro recording. It
// only fires in normal mode with no command pending beyond a count, so
// q as a register argument or inside another mode still records.
func (e *Editor) stopsRecording(in key.Input) bool {
	if !e.recorder.Recording() || e.player.Playing() || e.replaying {
		return false
	}
	if e.modes.CurrentName() != mode.Normal {
		return false
	}
	if in.Key != key.KeyRune || in.Rune != 'q' || in.Mods != key.ModNone {
		return false
	}
	p := e.normal.runner.Pending()
	return p.Keys == "" && p.Operator == nil && p.Register == 0
}

// settleEdit closes the open transaction unless the active mode is
// still extending the command, as insert, replace, the command line,
// and substitute-confirm do.
func (e *Editor) settleEdit(err error) {
	if e.txn == nil {
		return
	}
	switch e.modes.CurrentName() {
	case mode.Insert, mode.Replace, mode.CommandLine, mode.SubstituteConfirm:
		return
	}
	if err != nil {
		e.editRollback()
		return
	}
	e.editCommit()
}

// editBegin opens the command transaction if none is open yet. Every
// mutation site calls it first, so a command that fails before its
// first edit leaves no transaction behind.
func (e *Editor) editBegin() {
	if e.txn == nil {
		e.txn = e.undo.Begin()
	}
}

func (e *Editor) editCommit() {
	if e.txn == nil {
		return
	}
	if err := e.txn.Commit(); err != nil {
		e.log.Error("transaction commit failed", "error", err)
	}
	e.txn = nil
	_ = e.marks.Set('.', e.buffer.ID(), e.cursor)
}

func (e *Editor) editRollback() {
	if e.txn == nil {
		return
	}
	if err := e.txn.Rollback(); err != nil {
		e.log.Error("transaction rollback failed", "error", err)
	}
	e.txn = nil
}

func (e *Editor) notifyError(err error) {
	e.notifier.Error(err.Error())
	e.log.Debug("command failed", "error", err)
}

// switchTo changes modes and surfaces transition failures.
func (e *Editor) switchTo(name mode.Name, arg mode.Argument) error {
	if err := e.modes.Switch(name, arg); err != nil {
		e.log.Error("mode switch failed", "to", string(name), "error", err)
		return err
	}
	return nil
}

func (e *Editor) insertActive() bool {
	n := e.modes.CurrentName()
	return n == mode.Insert || n == mode.Replace
}

// activeRunner returns the command recognizer of the current mode, nil
// for modes without one.
func (e *Editor) activeRunner() *command.Runner {
	switch e.modes.CurrentName() {
	case mode.Normal:
		return e.normal.runner
	case mode.VisualCharacter, mode.VisualLine, mode.VisualBlock:
		return e.visual.runner
	}
	return nil
}

// motionContext assembles the state a motion resolution reads.
func (e *Editor) motionContext(forOperator bool) *motion.Context {
	return &motion.Context{
		Buffer:      e.buffer,
		Pos:         e.cursor,
		Session:     e.session,
		Search:      e.searches,
		Marks:       e.marks,
		ForOperator: forOperator,
		Opt:         e.motionOptions(),
	}
}

func (e *Editor) motionOptions() motion.Options {
	return motion.Options{
		WrapScan:    e.options.Bool("wrapscan"),
		IgnoreCase:  e.options.Bool("ignorecase"),
		SmartCase:   e.options.Bool("smartcase"),
		StartOfLine: e.options.Bool("startofline"),
		MatchPairs:  e.options.String("matchpairs"),
	}
}

func (e *Editor) searchOptions() search.Options {
	return search.Options{
		IgnoreCase: e.options.Bool("ignorecase"),
		SmartCase:  e.options.Bool("smartcase"),
		WrapScan:   e.options.Bool("wrapscan"),
	}
}

// pushJump records the position being jumped away from, on the jump
// list and as the ' context mark.
func (e *Editor) pushJump() {
	id := e.buffer.ID()
	e.jumps.Push(id, e.cursor)
	_ = e.marks.Set('\'', id, e.cursor)
}

func (e *Editor) readRegister(name rune) (register.Value, error) {
	if name == 0 {
		name = '"'
	}
	return e.registers.Read(name)
}

func registerLabel(name rune) string {
	if name == 0 {
		name = '"'
	}
	return string(name)
}

// setChangeMarks records the [ and ] bounds of the last change or
// yank.
func (e *Editor) setChangeMarks(start, end host.Position) {
	id := e.buffer.ID()
	_ = e.marks.Set('[', id, start)
	_ = e.marks.Set(']', id, end)
}

func (e *Editor) evalExpression(text string) (string, error) {
	if e.evaluator == nil {
		e.evaluator = expr.New()
	}
	return e.evaluator.Eval(text)
}

func (e *Editor) applyOption(ch config.Change) {
	switch ch.Name {
	case "history":
		if n, ok := ch.New.(int); ok {
			e.session.SetHistoryLimit(n)
		}
	case "maxmapdepth":
		if n, ok := ch.New.(int); ok {
			e.keymaps.SetMaxDepth(n)
		}
	case "clipboard":
		if s, ok := ch.New.(string); ok {
			e.registers.SetClipboardMode(register.ParseClipboardMode(s))
		}
	}
}

// bufferChanged keeps marks, the jump list, and the cursor in step
// with every buffer mutation, the editor's own and the host's alike.
func (e *Editor) bufferChanged(c host.Change) {
	id := e.buffer.ID()
	e.marks.Adjust(id, c)
	e.jumps.Adjust(id, c)
	if p, ok := mark.AdjustPosition(e.cursor, c); ok {
		e.cursor = p
	} else {
		e.cursor = c.Start
	}
	if e.insertActive() {
		e.cursor = e.clampInsert(e.cursor)
	} else {
		e.cursor = e.clampNormal(e.cursor)
	}
}

func (e *Editor) installDefaultMappings() error {
	motionModes := []string{
		string(mode.Normal),
		string(mode.VisualCharacter),
		string(mode.VisualLine),
		string(mode.VisualBlock),
	}
	pairs := [][2]string{
		{"<Left>", "h"},
		{"<Right>", "l"},
		{"<Up>", "k"},
		{"<Down>", "j"},
		{"<Home>", "0"},
		{"<End>", "$"},
	}
	for _, p := range pairs {
		m := keymap.Mapping{
			Keys:        p[0],
			Replacement: p[1],
			Modes:       motionModes,
			NoRemap:     true,
			Source:      "default",
		}
		if err := e.keymaps.Add(m); err != nil {
			return err
		}
	}
	return nil
}

// nopUndo satisfies host.UndoHistory for hosts without one.
type nopUndo struct{}

type nopTxn struct{}

func (nopTxn) Commit() error   { return nil }
func (nopTxn) Rollback() error { return nil }

func (nopUndo) Begin() host.Transaction { return nopTxn{} }
func (nopUndo) Undo(int) error          { return errors.New("undo history not available") }
func (nopUndo) Redo(int) error          { return errors.New("undo history not available") }
