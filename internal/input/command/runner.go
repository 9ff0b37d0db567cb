package command

import (
	"fmt"
	"strings"

	"github.com/dshills/modalkit/internal/engine/motion"
	"github.com/dshills/modalkit/internal/engine/register"
	"github.com/dshills/modalkit/internal/input/key"
)

// MotionAction is the Action value of a bare movement command.
const MotionAction = "motion"

// Status classifies the outcome of processing one key.
type Status uint8

const (
	// StatusPending means more input is needed.
	StatusPending Status = iota

	// StatusComplete means a command was recognized.
	StatusComplete

	// StatusNoMatch means nothing can match; all pending state was
	// discarded.
	StatusNoMatch

	// StatusError means the key was invalid where it stood; all
	// pending state was discarded.
	StatusError

	// StatusCancelled means Escape or Ctrl-C discarded pending input.
	StatusCancelled
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusComplete:
		return "complete"
	case StatusNoMatch:
		return "nomatch"
	case StatusError:
		return "error"
	case StatusCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Command is a completed recognition.
type Command struct {
	// Action names what to run: a definition name, an operator name,
	// or MotionAction for a bare movement.
	Action string

	// Def is the matched definition for plain actions.
	Def *Definition

	// Operator is set for operator commands.
	Operator *Operator

	// Motion is the motion or text object to apply. It is nil for
	// plain actions and for the doubled linewise operator form.
	Motion *motion.Definition

	// Count is the typed count product, 0 when none was typed.
	Count int

	// Register is the named register, 0 when none.
	Register rune

	// Arg is the trailing argument: the find-char target, replacement
	// character, mark name, or register name. Enter and Tab arrive as
	// "\n" and "\t".
	Arg string

	// Linewise is set when a doubled operator key selected whole
	// lines.
	Linewise bool

	// Keys holds the raw inputs consumed, count and register prefixes
	// included.
	Keys *key.Sequence

	// Bare holds the inputs with every count digit and register prefix
	// stripped. Feeding Bare again, behind a new count and register,
	// reproduces the command.
	Bare *key.Sequence
}

// EffectiveCount returns the count with the no-count default of one.
func (c *Command) EffectiveCount() int {
	if c.Count < 1 {
		return 1
	}
	return c.Count
}

// Result is the outcome of ProcessKey.
type Result struct {
	// Status classifies the outcome.
	Status Status

	// Command is set when Status is StatusComplete.
	Command *Command

	// Err is set when Status is StatusError.
	Err error
}

// Pending is a snapshot of accumulated incomplete command input, for
// the host status line.
type Pending struct {
	// Count1 is the count typed before the operator.
	Count1 int

	// Count2 is the count typed after the operator.
	Count2 int

	// Register is the pending register name, 0 when none.
	Register rune

	// Operator is the pending operator, nil when none.
	Operator *Operator

	// Keys holds partial keys awaiting a match, in Vim notation.
	Keys string

	// Raw holds every consumed key, in Vim notation.
	Raw string
}

// IsEmpty reports whether nothing is pending.
func (p Pending) IsEmpty() bool {
	return p.Count1 == 0 && p.Count2 == 0 && p.Register == 0 &&
		p.Operator == nil && p.Keys == "" && p.Raw == ""
}

// runnerState tracks which phase of the grammar is active.
type runnerState uint8

const (
	// stateStart accumulates the first count and matches action keys.
	stateStart runnerState = iota

	// stateRegister awaits the register name after '"'.
	stateRegister

	// stateOperator accumulates the second count and matches motion
	// keys for the pending operator.
	stateOperator

	// stateArg awaits the trailing argument key of a matched entry.
	stateArg
)

// Runner recognizes commands from a stream of keys. It is a pure
// recognizer: completed commands are returned to the caller for
// execution, and the motion field is resolved into a buffer span there,
// never here.
type Runner struct {
	table   *Table
	motions *motion.Resolver

	state    runnerState
	count1   countState
	count2   countState
	register rune
	operator *Operator
	keys     string
	raw      *key.Sequence
	bare     *key.Sequence

	// opKeys and opLast are the pending operator's trigger and final
	// key in canonical notation, for the doubled linewise form.
	opKeys string
	opLast string

	argDef    *Definition
	argMotion *motion.Definition
}

// NewRunner creates a runner over a mode's definition table and the
// motion definition set.
func NewRunner(table *Table, motions *motion.Resolver) *Runner {
	return &Runner{
		table:   table,
		motions: motions,
		raw:     key.NewSequence(),
		bare:    key.NewSequence(),
	}
}

// Reset discards all pending state. The discard is all-or-nothing:
// count, register, operator, partial keys, and awaited argument go
// together.
func (r *Runner) Reset() {
	r.state = stateStart
	r.count1.reset()
	r.count2.reset()
	r.register = 0
	r.operator = nil
	r.keys = ""
	r.raw = key.NewSequence()
	r.bare = key.NewSequence()
	r.opKeys = ""
	r.opLast = ""
	r.argDef = nil
	r.argMotion = nil
}

// Pending returns a snapshot of the accumulated input.
func (r *Runner) Pending() Pending {
	return Pending{
		Count1:   r.count1.get(),
		Count2:   r.count2.get(),
		Register: r.register,
		Operator: r.operator,
		Keys:     r.keys,
		Raw:      r.raw.VimString(),
	}
}

// HasPending reports whether any command input is accumulated.
func (r *Runner) HasPending() bool {
	return r.Pending().IsEmpty() == false
}

// AwaitingArg reports whether the next key is consumed literally, as a
// register name or the trailing argument of a definition or motion.
func (r *Runner) AwaitingArg() bool {
	return r.state == stateArg || r.state == stateRegister
}

// ProcessKey feeds one key into the recognizer.
func (r *Runner) ProcessKey(in key.Input) Result {
	if in.IsCancel() && r.HasPending() {
		r.Reset()
		return Result{Status: StatusCancelled}
	}

	r.raw.Add(in)

	switch r.state {
	case stateRegister:
		return r.processRegister(in)
	case stateOperator:
		return r.processOperator(in)
	case stateArg:
		return r.processArg(in)
	default:
		return r.processStart(in)
	}
}

func (r *Runner) processStart(in key.Input) Result {
	if r.keys == "" && in.IsDigit() {
		if isCountStart(in.Rune) || r.count1.inSegment() {
			r.count1.push(in.Rune)
			return r.pending()
		}
		// A zero outside a digit run is the line-start motion.
	}

	if r.keys == "" && in.IsChar() && in.Rune == '"' {
		r.count1.closeSegment()
		r.state = stateRegister
		return r.pending()
	}

	return r.matchKeys(in)
}

func (r *Runner) processRegister(in key.Input) Result {
	if !in.IsChar() || !register.Valid(in.Rune) {
		err := fmt.Errorf("%w: %s", register.ErrInvalidName, in.VimString())
		r.Reset()
		return Result{Status: StatusError, Err: err}
	}
	r.register = in.Rune
	r.state = stateStart
	return r.pending()
}

func (r *Runner) processOperator(in key.Input) Result {
	if r.keys == "" && in.IsDigit() {
		if isCountStart(in.Rune) || r.count2.inSegment() {
			r.count2.push(in.Rune)
			return r.pending()
		}
	}
	return r.matchKeys(in)
}

func (r *Runner) processArg(in key.Input) Result {
	arg, ok := argString(in)
	if !ok {
		err := fmt.Errorf("invalid argument key %s", in.VimString())
		r.Reset()
		return Result{Status: StatusError, Err: err}
	}
	r.bare.Add(in)

	if r.argMotion != nil {
		return r.completeMotion(r.argMotion, arg)
	}
	def := r.argDef
	return r.complete(&Command{Action: def.Name, Def: def, Arg: arg})
}

// matchKeys accumulates a key and matches the partial sequence against
// the doubled-operator form, the definition table, and the motion set.
// A complete match wins immediately; a live prefix in any of them
// defers; otherwise nothing can match and everything clears.
func (r *Runner) matchKeys(in key.Input) Result {
	r.keys += in.VimString()
	r.bare.Add(in)

	if r.operator != nil {
		if r.keys == r.opKeys || (r.opLast != "" && r.keys == r.opLast) {
			return r.complete(&Command{
				Action:   r.operator.Name,
				Operator: r.operator,
				Linewise: true,
			})
		}
	}

	def, defPrefix := r.lookupDef(r.keys)
	if def != nil {
		return r.matchedDef(def)
	}
	mdef, motionPrefix := r.motions.Lookup(r.keys)
	if mdef != nil {
		return r.matchedMotion(mdef)
	}

	if defPrefix || motionPrefix || r.doublePrefix() {
		return r.pending()
	}

	r.Reset()
	return Result{Status: StatusNoMatch}
}

// lookupDef consults the definition table. While an operator pends the
// table is restricted to entries that opt in.
func (r *Runner) lookupDef(keys string) (*Definition, bool) {
	def, prefix := r.table.Lookup(keys)
	if def != nil && r.operator != nil && !def.InOperator {
		def = nil
	}
	return def, prefix
}

// doublePrefix reports whether the partial keys could still grow into
// the pending operator's doubled form.
func (r *Runner) doublePrefix() bool {
	if r.operator == nil || r.keys == "" {
		return false
	}
	return r.keys != r.opKeys && strings.HasPrefix(r.opKeys, r.keys)
}

func (r *Runner) matchedDef(def *Definition) Result {
	if def.Operator != nil {
		r.operator = def.Operator
		r.opKeys, r.opLast = operatorKeys(def.Operator)
		r.keys = ""
		r.state = stateOperator
		return r.pending()
	}
	if def.Arg != ArgNone {
		r.argDef = def
		r.state = stateArg
		return r.pending()
	}

	cmd := &Command{Action: def.Name, Def: def}
	if r.operator != nil {
		cmd.Operator = r.operator
	}
	return r.complete(cmd)
}

func (r *Runner) matchedMotion(m *motion.Definition) Result {
	if m.Arg == motion.ArgRune {
		r.argMotion = m
		r.state = stateArg
		return r.pending()
	}
	// Pattern motions complete at once; the caller collects the
	// pattern through its command line before resolving.
	return r.completeMotion(m, "")
}

func (r *Runner) completeMotion(m *motion.Definition, arg string) Result {
	cmd := &Command{Motion: m, Arg: arg}
	if r.operator != nil {
		cmd.Action = r.operator.Name
		cmd.Operator = r.operator
	} else {
		cmd.Action = MotionAction
	}
	return r.complete(cmd)
}

// complete attaches the shared fields, clears all pending state, and
// returns the command.
func (r *Runner) complete(cmd *Command) Result {
	cmd.Count = combineCounts(r.count1.get(), r.count2.get())
	cmd.Register = r.register
	cmd.Keys = r.raw.Clone()
	cmd.Bare = r.bare.Clone()
	r.Reset()
	return Result{Status: StatusComplete, Command: cmd}
}

func (r *Runner) pending() Result {
	return Result{Status: StatusPending}
}

// operatorKeys renders an operator trigger in canonical notation,
// together with its final key for multi-key triggers. gu doubles as
// both gugu and guu; d doubles only as dd.
func operatorKeys(op *Operator) (canon, last string) {
	seq, err := key.ParseSequence(op.Keys)
	if err != nil || seq.IsEmpty() {
		return op.Keys, ""
	}
	canon = seq.VimString()
	if seq.Len() > 1 {
		last = seq.Last().VimString()
	}
	return canon, last
}

// argString renders a trailing argument key. Enter and Tab become
// their control characters so replace targets and find targets work on
// them; other special keys are invalid arguments.
func argString(in key.Input) (string, bool) {
	if in.IsRune() && !in.IsModified() {
		return string(in.Rune), true
	}
	if in.IsEnter() {
		return "\n", true
	}
	if in.Key == key.KeyTab && in.Mods == key.ModNone {
		return "\t", true
	}
	return "", false
}
