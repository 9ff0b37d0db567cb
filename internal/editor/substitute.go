package editor

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/dshills/modalkit/internal/engine/mark"
	"github.com/dshills/modalkit/internal/engine/session"
	"github.com/dshills/modalkit/internal/host"
	"github.com/dshills/modalkit/internal/input/command"
	"github.com/dshills/modalkit/internal/input/key"
	"github.com/dshills/modalkit/internal/input/mode"
)

// exSubstitute handles :s/pattern/replacement/flags. A bare :s repeats
// the previous substitution on the range.
func (e *Editor) exSubstitute(rng exRange, arg string) error {
	arg = strings.TrimLeft(arg, " \t")
	if arg == "" {
		return e.rerunSubstitute(rng, false)
	}
	pattern, replacement, flags, err := splitSubstitute(arg)
	if err != nil {
		return err
	}
	if pattern == "" {
		last, ok := e.session.LastSearch()
		if !ok {
			return errors.New("no previous search pattern")
		}
		pattern = last.Pattern
	}
	return e.substitute(rng, pattern, replacement, flags)
}

// splitSubstitute splits pattern, replacement and flags on the leading
// delimiter. A backslash escapes the delimiter; every other escape
// passes through for the pattern and replacement dialects to handle.
func splitSubstitute(arg string) (pattern, replacement, flags string, err error) {
	delim := arg[0]
	if isExNameByte(delim) || delim >= '0' && delim <= '9' ||
		delim == ' ' || delim == '\\' || delim == '"' || delim == '|' {
		return "", "", "", fmt.Errorf("invalid substitute delimiter %q", rune(delim))
	}

	var parts [2]string
	n := 0
	var cur strings.Builder
	i := 1
	for ; i < len(arg) && n < 2; i++ {
		c := arg[i]
		switch {
		case c == '\\' && i+1 < len(arg):
			i++
			if arg[i] == delim {
				cur.WriteByte(delim)
			} else {
				cur.WriteByte('\\')
				cur.WriteByte(arg[i])
			}
		case c == delim:
			parts[n] = cur.String()
			n++
			cur.Reset()
		default:
			cur.WriteByte(c)
		}
	}
	switch n {
	case 0:
		return cur.String(), "", "", nil
	case 1:
		return parts[0], cur.String(), "", nil
	default:
		return parts[0], parts[1], strings.TrimSpace(arg[i:]), nil
	}
}

// vimReplacement converts a :s replacement to the Expand template
// dialect: & and \N become group references, \r a line break.
func vimReplacement(rep string) string {
	var b strings.Builder
	for i := 0; i < len(rep); i++ {
		c := rep[i]
		switch {
		case c == '\\' && i+1 < len(rep):
			i++
			n := rep[i]
			switch {
			case n >= '0' && n <= '9':
				b.WriteString("${")
				b.WriteByte(n)
				b.WriteString("}")
			case n == '&':
				b.WriteByte('&')
			case n == 'r':
				b.WriteByte('\n')
			case n == 't':
				b.WriteByte('\t')
			default:
				b.WriteByte(n)
			}
		case c == '&':
			b.WriteString("${0}")
		case c == '$':
			b.WriteString("$$")
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// substitute runs a substitution over the range. Flags: g replaces
// every match on a line, i and I force the case handling, n counts
// without changing anything, c confirms each match.
func (e *Editor) substitute(rng exRange, pattern, replacement, flags string) error {
	global := e.options.Bool("gdefault")
	confirm := false
	countOnly := false
	opts := e.searchOptions()
	for _, f := range flags {
		switch f {
		case 'g':
			global = !global
		case 'i':
			opts.IgnoreCase = true
			opts.SmartCase = false
		case 'I':
			opts.IgnoreCase = false
		case 'c':
			confirm = true
		case 'n':
			countOnly = true
		case ' ':
		default:
			return fmt.Errorf("unsupported substitute flag %q", f)
		}
	}

	re, err := e.searches.Compile(pattern, opts)
	if err != nil {
		return err
	}
	template := vimReplacement(replacement)
	a, b := e.exLines(rng)
	matches := e.scanMatches(re, template, a, b, global)

	e.session.SetLastSearch(session.Search{Pattern: pattern, Direction: session.Forward})
	e.registers.SetLastSearch(pattern)
	if len(matches) == 0 {
		return fmt.Errorf("pattern not found: %s", pattern)
	}
	e.session.SetSearchHighlight(e.options.Bool("hlsearch"))

	if countOnly {
		e.notifier.Info(fmt.Sprintf("%d matches on %d lines", len(matches), distinctLines(matches)))
		return nil
	}
	e.session.SetLastSubstitute(session.Substitute{
		Pattern:     pattern,
		Replacement: replacement,
		Flags:       flags,
	})

	task := &subConfirm{ed: e, matches: matches}
	if confirm {
		return e.switchTo(mode.SubstituteConfirm, mode.Argument{Payload: task})
	}
	for !task.done() {
		if err := task.apply(); err != nil {
			return err
		}
	}
	task.report()
	return nil
}

// rerunSubstitute repeats the remembered substitution over the range,
// with its flags when keepFlags is set.
func (e *Editor) rerunSubstitute(rng exRange, keepFlags bool) error {
	sub, ok := e.session.LastSubstitute()
	if !ok {
		return errors.New("no previous substitution")
	}
	flags := ""
	if keepFlags {
		flags = sub.Flags
	}
	return e.substitute(rng, sub.Pattern, sub.Replacement, flags)
}

// cmdRepeatSubstitute is &: the last substitution redone on the cursor
// line, flags dropped. A count extends the range downward.
func (e *Editor) cmdRepeatSubstitute(cmd *command.Command) error {
	line := e.cursor.Line
	rng := exRange{start: line, end: line, set: true}
	if n := cmd.EffectiveCount(); n > 1 {
		rng.end = line + n - 1
		if last := e.lastLine(); rng.end > last {
			rng.end = last
		}
	}
	return e.rerunSubstitute(rng, false)
}

// subMatch is one pending replacement. Positions are rune columns and
// stay current as earlier matches are applied.
type subMatch struct {
	start, end host.Position
	old        string
	text       string
	origLine   int
}

// scanMatches collects the matches in lines a through b with their
// expanded replacements. Without global only the first match of each
// line counts.
func (e *Editor) scanMatches(re *regexp.Regexp, template string, a, b int, global bool) []subMatch {
	var out []subMatch
	for n := a; n <= b; n++ {
		line := e.line(n)
		locs := re.FindAllStringSubmatchIndex(line, -1)
		if len(locs) == 0 {
			continue
		}
		if !global {
			locs = locs[:1]
		}
		for _, loc := range locs {
			out = append(out, subMatch{
				start:    host.Position{Line: n, Col: utf8.RuneCountInString(line[:loc[0]])},
				end:      host.Position{Line: n, Col: utf8.RuneCountInString(line[:loc[1]])},
				old:      line[loc[0]:loc[1]],
				text:     string(re.ExpandString(nil, template, line, loc)),
				origLine: n,
			})
		}
	}
	return out
}

func distinctLines(matches []subMatch) int {
	seen := make(map[int]bool, len(matches))
	for _, m := range matches {
		seen[m.origLine] = true
	}
	return len(seen)
}

// subConfirm is a substitution in flight: the matches still awaiting a
// decision and the tally of those applied.
type subConfirm struct {
	ed      *Editor
	matches []subMatch
	idx     int
	applied int
	lines   map[int]bool
}

func (t *subConfirm) done() bool { return t.idx >= len(t.matches) }

func (t *subConfirm) current() subMatch { return t.matches[t.idx] }

// apply replaces the current match and shifts the positions of the
// remaining ones past the edit.
func (t *subConfirm) apply() error {
	e := t.ed
	m := t.matches[t.idx]
	e.editBegin()
	if err := e.buffer.Replace(m.start, m.end, m.text); err != nil {
		return err
	}
	change := host.NewReplaceChange(m.start, m.end, m.old, m.text)
	for j := t.idx + 1; j < len(t.matches); j++ {
		t.matches[j].start = adjustMatchPos(t.matches[j].start, change)
		t.matches[j].end = adjustMatchPos(t.matches[j].end, change)
	}
	e.cursor = e.clampNormal(m.start)
	if t.lines == nil {
		t.lines = make(map[int]bool)
	}
	t.lines[m.origLine] = true
	t.applied++
	t.idx++
	return nil
}

func (t *subConfirm) skip() { t.idx++ }

func (t *subConfirm) report() {
	if len(t.lines) > 2 {
		t.ed.notifier.Info(fmt.Sprintf("%d substitutions on %d lines", t.applied, len(t.lines)))
	}
}

func adjustMatchPos(p host.Position, c host.Change) host.Position {
	if adjusted, ok := mark.AdjustPosition(p, c); ok {
		return adjusted
	}
	return c.NewEnd
}

// confirmMode steps through the matches of a :s///c, one key per
// match: y applies, n skips, a applies the rest, l applies one last,
// q or Escape stops.
type confirmMode struct {
	ed   *Editor
	task *subConfirm
}

func newConfirmMode(e *Editor) *confirmMode {
	return &confirmMode{ed: e}
}

func (m *confirmMode) Name() mode.Name { return mode.SubstituteConfirm }

func (m *confirmMode) CanProcess(in key.Input) bool {
	return in.IsRune() || in.IsCancel()
}

func (m *confirmMode) OnEnter(arg mode.Argument) error {
	task, ok := arg.Payload.(*subConfirm)
	if !ok || task.done() {
		m.task = nil
		return errors.New("no substitution to confirm")
	}
	m.task = task
	m.ed.cursor = m.ed.clampNormal(task.current().start)
	m.prompt()
	return nil
}

func (m *confirmMode) OnLeave() error {
	m.task = nil
	return nil
}

func (m *confirmMode) prompt() {
	m.ed.notifier.Info(fmt.Sprintf("replace with %s (y/n/a/q/l)?", m.task.current().text))
}

func (m *confirmMode) Process(in key.Input) (mode.Result, error) {
	t := m.task
	e := m.ed
	if t == nil {
		return mode.Result{Handled: true}, e.switchTo(mode.Normal, mode.Argument{})
	}
	if in.IsCancel() {
		return mode.Result{Handled: true}, m.finish()
	}
	if !in.IsChar() {
		return mode.Result{Handled: true}, nil
	}

	switch in.Rune {
	case 'y':
		if err := t.apply(); err != nil {
			ferr := m.finish()
			if ferr != nil {
				return mode.Result{Handled: true}, ferr
			}
			return mode.Result{Handled: true}, err
		}
		if t.done() {
			return mode.Result{Handled: true}, m.finish()
		}
		m.advance()
	case 'n':
		t.skip()
		if t.done() {
			return mode.Result{Handled: true}, m.finish()
		}
		m.advance()
	case 'a':
		for !t.done() {
			if err := t.apply(); err != nil {
				ferr := m.finish()
				if ferr != nil {
					return mode.Result{Handled: true}, ferr
				}
				return mode.Result{Handled: true}, err
			}
		}
		return mode.Result{Handled: true}, m.finish()
	case 'l':
		if err := t.apply(); err != nil {
			ferr := m.finish()
			if ferr != nil {
				return mode.Result{Handled: true}, ferr
			}
			return mode.Result{Handled: true}, err
		}
		return mode.Result{Handled: true}, m.finish()
	case 'q':
		return mode.Result{Handled: true}, m.finish()
	default:
		m.prompt()
	}
	return mode.Result{Handled: true}, nil
}

// advance moves to the next pending match.
func (m *confirmMode) advance() {
	m.ed.cursor = m.ed.clampNormal(m.task.current().start)
	m.prompt()
}

// finish reports the tally and returns to normal mode, committing the
// substitution as one undo step.
func (m *confirmMode) finish() error {
	t := m.task
	m.task = nil
	if t != nil {
		t.report()
	}
	return m.ed.switchTo(mode.Normal, mode.Argument{})
}
