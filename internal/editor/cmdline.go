package editor

import (
	"strings"

	"github.com/dshills/modalkit/internal/engine/register"
	"github.com/dshills/modalkit/internal/engine/session"
	"github.com/dshills/modalkit/internal/host"
	"github.com/dshills/modalkit/internal/input/command"
	"github.com/dshills/modalkit/internal/input/key"
	"github.com/dshills/modalkit/internal/input/mode"
)

// searchTask is a motion command parked while its pattern is typed on
// the command line. resume names the visual mode to restore, with
// anchor as the fixed end; both are zero when the search began in
// normal mode.
type searchTask struct {
	cmd    *command.Command
	resume mode.Name
	anchor *host.Position
}

// cmdlinePrefill seeds the line with text, such as the '<,'> range a
// visual : inserts.
type cmdlinePrefill struct {
	text string
}

// cmdlineMode collects one line of input for the : / ? and = prompts.
// Up and Down recall history entries sharing the typed prefix.
type cmdlineMode struct {
	ed     *Editor
	prompt rune
	line   []rune
	ret    mode.Name
	task   *searchTask

	browsing    bool
	histEntries []string
	histIdx     int
	saved       []rune
}

func newCmdlineMode(e *Editor) *cmdlineMode {
	return &cmdlineMode{ed: e}
}

func (m *cmdlineMode) Name() mode.Name { return mode.CommandLine }

func (m *cmdlineMode) CanProcess(in key.Input) bool {
	if in.IsRune() || in.IsCancel() {
		return true
	}
	switch in.Key {
	case key.KeyEnter, key.KeyBackspace, key.KeyUp, key.KeyDown:
		return true
	}
	return false
}

func (m *cmdlineMode) OnEnter(arg mode.Argument) error {
	m.prompt = arg.Prompt
	if m.prompt == 0 {
		m.prompt = ':'
	}
	m.line = nil
	m.ret = arg.Return
	m.task = nil
	m.browsing = false
	m.histEntries = nil
	m.saved = nil
	switch p := arg.Payload.(type) {
	case *searchTask:
		m.task = p
	case cmdlinePrefill:
		m.line = []rune(p.text)
	}
	return nil
}

func (m *cmdlineMode) OnLeave() error {
	m.line = nil
	m.task = nil
	m.browsing = false
	m.histEntries = nil
	m.saved = nil
	return nil
}

func (m *cmdlineMode) Process(in key.Input) (mode.Result, error) {
	switch {
	case in.IsCancel():
		return mode.Result{Handled: true}, m.cancel()
	case in.Key == key.KeyEnter:
		return mode.Result{Handled: true}, m.accept()
	case in.Key == key.KeyBackspace:
		if len(m.line) == 0 {
			return mode.Result{Handled: true}, m.cancel()
		}
		m.line = m.line[:len(m.line)-1]
		m.browsing = false
	case in.Key == key.KeyUp:
		m.historyPrev()
	case in.Key == key.KeyDown:
		m.historyNext()
	case in.Rune == 'u' && in.Mods == key.ModCtrl:
		m.line = nil
		m.browsing = false
	case in.Rune == 'w' && in.Mods == key.ModCtrl:
		m.killWord()
	case in.IsChar():
		m.line = append(m.line, in.Rune)
		m.browsing = false
	default:
		return mode.Result{}, nil
	}
	return mode.Result{Handled: true}, nil
}

func (m *cmdlineMode) histKind() session.HistoryKind {
	switch m.prompt {
	case '/', '?':
		return session.HistorySearch
	case '=':
		return session.HistoryExpression
	default:
		return session.HistoryCommand
	}
}

// killWord removes the space run and word before the end of the line.
func (m *cmdlineMode) killWord() {
	i := len(m.line)
	for i > 0 && m.line[i-1] == ' ' {
		i--
	}
	if i > 0 {
		word := isWordRune(m.line[i-1])
		for i > 0 && m.line[i-1] != ' ' && isWordRune(m.line[i-1]) == word {
			i--
		}
	}
	m.line = m.line[:i]
	m.browsing = false
}

// filteredHistory returns the entries sharing the typed prefix, newest
// first.
func (m *cmdlineMode) filteredHistory() []string {
	prefix := string(m.line)
	entries := m.ed.session.History(m.histKind()).Entries()
	out := make([]string, 0, len(entries))
	for i := len(entries) - 1; i >= 0; i-- {
		if strings.HasPrefix(entries[i], prefix) {
			out = append(out, entries[i])
		}
	}
	return out
}

func (m *cmdlineMode) historyPrev() {
	if !m.browsing {
		entries := m.filteredHistory()
		if len(entries) == 0 {
			return
		}
		m.histEntries = entries
		m.histIdx = -1
		m.saved = append([]rune(nil), m.line...)
		m.browsing = true
	}
	if m.histIdx+1 < len(m.histEntries) {
		m.histIdx++
		m.line = []rune(m.histEntries[m.histIdx])
	}
}

func (m *cmdlineMode) historyNext() {
	if !m.browsing {
		return
	}
	if m.histIdx > 0 {
		m.histIdx--
		m.line = []rune(m.histEntries[m.histIdx])
		return
	}
	m.browsing = false
	m.line = m.saved
	m.saved = nil
}

// cancel abandons the line. A search begun in a visual mode restores
// its selection; an expression prompt falls back into the insertion it
// interrupted.
func (m *cmdlineMode) cancel() error {
	e := m.ed
	if m.task != nil && m.task.resume.IsVisual() {
		return e.switchTo(m.task.resume, mode.Argument{Anchor: m.task.anchor})
	}
	if m.prompt == '=' && m.ret == mode.Insert {
		return e.switchTo(mode.Insert, mode.Argument{Payload: insertResume{}})
	}
	return e.switchTo(mode.Normal, mode.Argument{})
}

// accept records the line in history and runs it. The mode switch
// happens before execution so the command acts in the mode it will
// leave the editor in.
func (m *cmdlineMode) accept() error {
	e := m.ed
	prompt := m.prompt
	text := string(m.line)
	task := m.task
	ret := m.ret
	e.session.History(m.histKind()).Add(text)

	switch prompt {
	case '/', '?':
		return m.finishSearch(task, text)
	case '=':
		return m.finishExpression(ret, text)
	default:
		if err := e.switchTo(mode.Normal, mode.Argument{}); err != nil {
			return err
		}
		if strings.TrimSpace(text) == "" {
			return nil
		}
		e.registers.SetLastCommand(text)
		return e.runEx(text)
	}
}

// finishSearch resumes the parked motion with the accepted pattern. An
// empty pattern makes the motion repeat the previous search.
func (m *cmdlineMode) finishSearch(task *searchTask, pattern string) error {
	e := m.ed
	back := mode.Normal
	var restore mode.Argument
	if task != nil && task.resume.IsVisual() {
		back = task.resume
		restore = mode.Argument{Anchor: task.anchor}
	}
	if err := e.switchTo(back, restore); err != nil {
		return err
	}
	if task == nil {
		return nil
	}

	task.cmd.Arg = pattern
	var err error
	if vm, ok := e.modes.Current().(*visualMode); ok {
		err = vm.runVisual(task.cmd)
	} else {
		err = e.runCommand(task.cmd)
	}
	if last, ok := e.session.LastSearch(); ok {
		e.registers.SetLastSearch(last.Pattern)
	}
	if err != nil {
		return err
	}
	e.session.SetSearchHighlight(e.options.Bool("hlsearch"))
	return nil
}

// finishExpression evaluates the = line. The result resumes the
// insertion that opened the prompt and lands in the expression
// register.
func (m *cmdlineMode) finishExpression(ret mode.Name, text string) error {
	e := m.ed
	result := ""
	var evalErr error
	if strings.TrimSpace(text) != "" {
		result, evalErr = e.evalExpression(text)
		if evalErr != nil {
			result = ""
		}
	}

	var arg mode.Argument
	back := mode.Normal
	if ret == mode.Insert {
		back = mode.Insert
		arg = mode.Argument{Payload: insertResume{text: result}}
	}
	if err := e.switchTo(back, arg); err != nil {
		return err
	}
	if evalErr != nil {
		return evalErr
	}
	if strings.TrimSpace(text) != "" {
		e.registers.SetExpression(text)
		e.registers.SetExpressionResult(register.Value{Text: result})
	}
	return nil
}
