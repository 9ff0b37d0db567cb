package editor

import (
	"github.com/dshills/modalkit/internal/input/command"
	"github.com/dshills/modalkit/internal/input/key"
	"github.com/dshills/modalkit/internal/input/mode"
)

// normalMode recognizes and dispatches commands in normal mode.
type normalMode struct {
	ed     *Editor
	runner *command.Runner
}

func newNormalMode(ed *Editor) *normalMode {
	return &normalMode{
		ed:     ed,
		runner: command.NewRunner(command.NewTable(normalDefinitions()...), ed.motions),
	}
}

func (m *normalMode) Name() mode.Name { return mode.Normal }

func (m *normalMode) CanProcess(in key.Input) bool {
	if m.runner.HasPending() {
		return true
	}
	return in.IsRune() || in.IsCancel() || in.Key == key.KeyTab
}

func (m *normalMode) Process(in key.Input) (mode.Result, error) {
	// A lone Escape stays handled so hosts do not see it fall through;
	// it cancels nothing and does nothing.
	if in.IsCancel() && !m.runner.HasPending() {
		return mode.Result{Handled: true}, nil
	}

	hadPending := m.runner.HasPending()
	res := m.runner.ProcessKey(in)
	switch res.Status {
	case command.StatusComplete:
		return mode.Result{Handled: true}, m.ed.runCommand(res.Command)
	case command.StatusError:
		return mode.Result{Handled: true}, res.Err
	case command.StatusNoMatch:
		// The first key of a sequence that matches nothing belongs to
		// the host; mid-sequence dead ends were still consumed.
		return mode.Result{Handled: hadPending}, nil
	default:
		return mode.Result{Handled: true}, nil
	}
}

func (m *normalMode) OnEnter(mode.Argument) error { return nil }

func (m *normalMode) OnLeave() error {
	m.runner.Reset()
	return nil
}

// normalDefinitions is the normal-mode command table: the standard
// operators plus the plain commands.
func normalDefinitions() []command.Definition {
	defs := []command.Definition{
		{Keys: "i", Name: "insert", Repeatable: true, Undoable: true},
		{Keys: "I", Name: "insert-line-start", Repeatable: true, Undoable: true},
		{Keys: "a", Name: "append", Repeatable: true, Undoable: true},
		{Keys: "A", Name: "append-line-end", Repeatable: true, Undoable: true},
		{Keys: "o", Name: "open-below", Repeatable: true, Undoable: true},
		{Keys: "O", Name: "open-above", Repeatable: true, Undoable: true},
		{Keys: "R", Name: "replace-overwrite", Repeatable: true, Undoable: true},

		{Keys: "r", Name: "replace-char", Arg: command.ArgChar, Repeatable: true, Undoable: true},
		{Keys: "x", Name: "delete-char", Repeatable: true, Undoable: true},
		{Keys: "X", Name: "delete-char-back", Repeatable: true, Undoable: true},
		{Keys: "s", Name: "substitute-char", Repeatable: true, Undoable: true},
		{Keys: "S", Name: "change-lines", Repeatable: true, Undoable: true},
		{Keys: "D", Name: "delete-to-end", Repeatable: true, Undoable: true},
		{Keys: "C", Name: "change-to-end", Repeatable: true, Undoable: true},
		{Keys: "Y", Name: "yank-lines"},
		{Keys: "~", Name: "toggle-char-case", Repeatable: true, Undoable: true},
		{Keys: "J", Name: "join-lines", Repeatable: true, Undoable: true},
		{Keys: "gJ", Name: "join-lines-plain", Repeatable: true, Undoable: true},

		{Keys: "p", Name: "put-after", Repeatable: true, Undoable: true},
		{Keys: "P", Name: "put-before", Repeatable: true, Undoable: true},
		{Keys: "gp", Name: "put-after-follow", Repeatable: true, Undoable: true},
		{Keys: "gP", Name: "put-before-follow", Repeatable: true, Undoable: true},

		{Keys: "u", Name: "undo"},
		{Keys: "<C-r>", Name: "redo"},
		{Keys: ".", Name: "repeat-change"},
		{Keys: "&", Name: "repeat-substitute", Undoable: true},

		{Keys: "m", Name: "set-mark", Arg: command.ArgChar},
		{Keys: "q", Name: "record-macro", Arg: command.ArgChar},
		{Keys: "@", Name: "play-macro", Arg: command.ArgChar},

		{Keys: "v", Name: "visual-chars"},
		{Keys: "V", Name: "visual-lines"},
		{Keys: "<C-v>", Name: "visual-block"},
		{Keys: "gv", Name: "visual-last"},
		{Keys: "gh", Name: "select-chars"},

		{Keys: ":", Name: "command-line"},
		{Keys: "<C-o>", Name: "jump-older"},
		{Keys: "<C-i>", Name: "jump-newer"},
		{Keys: "<Tab>", Name: "jump-newer"},
	}
	return append(defs, command.StandardOperators()...)
}

// normalActions routes completed plain commands to their handlers.
var normalActions = map[string]func(*Editor, *command.Command) error{
	"insert":            (*Editor).cmdInsert,
	"insert-line-start": (*Editor).cmdInsertLineStart,
	"append":            (*Editor).cmdAppend,
	"append-line-end":   (*Editor).cmdAppendLineEnd,
	"open-below":        (*Editor).cmdOpenBelow,
	"open-above":        (*Editor).cmdOpenAbove,
	"replace-overwrite": (*Editor).cmdReplaceOverwrite,

	"replace-char":     (*Editor).cmdReplaceChar,
	"delete-char":      (*Editor).cmdDeleteChar,
	"delete-char-back": (*Editor).cmdDeleteCharBack,
	"substitute-char":  (*Editor).cmdSubstituteChar,
	"change-lines":     (*Editor).cmdChangeLines,
	"delete-to-end":    (*Editor).cmdDeleteToEnd,
	"change-to-end":    (*Editor).cmdChangeToEnd,
	"yank-lines":       (*Editor).cmdYankLines,
	"toggle-char-case": (*Editor).cmdToggleCharCase,
	"join-lines":       (*Editor).cmdJoinLines,
	"join-lines-plain": (*Editor).cmdJoinLinesPlain,

	"put-after":         (*Editor).cmdPutAfter,
	"put-before":        (*Editor).cmdPutBefore,
	"put-after-follow":  (*Editor).cmdPutAfterFollow,
	"put-before-follow": (*Editor).cmdPutBeforeFollow,

	"undo":              (*Editor).cmdUndo,
	"redo":              (*Editor).cmdRedo,
	"repeat-change":     (*Editor).cmdRepeatChange,
	"repeat-substitute": (*Editor).cmdRepeatSubstitute,

	"set-mark":     (*Editor).cmdSetMark,
	"record-macro": (*Editor).cmdRecordMacro,
	"play-macro":   (*Editor).cmdPlayMacro,

	"visual-chars": (*Editor).cmdVisualChars,
	"visual-lines": (*Editor).cmdVisualLines,
	"visual-block": (*Editor).cmdVisualBlock,
	"visual-last":  (*Editor).cmdVisualLast,
	"select-chars": (*Editor).cmdSelectChars,

	"command-line": (*Editor).cmdCommandLine,
	"jump-older":   (*Editor).cmdJumpOlder,
	"jump-newer":   (*Editor).cmdJumpNewer,
}
