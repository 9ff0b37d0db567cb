package editor

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dshills/modalkit/internal/config"
	"github.com/dshills/modalkit/internal/engine/register"
	"github.com/dshills/modalkit/internal/host"
	"github.com/dshills/modalkit/internal/input/keymap"
	"github.com/dshills/modalkit/internal/input/mode"
)

// exRange is a resolved line range. Lines are zero based; start may be
// -1 for the virtual line above the buffer, which :0put targets.
type exRange struct {
	start, end int
	set        bool
}

// lines returns the range clamped to the buffer, falling back to the
// cursor line when no range was given.
func (e *Editor) exLines(rng exRange) (int, int) {
	if !rng.set {
		return e.cursor.Line, e.cursor.Line
	}
	last := e.lastLine()
	a, b := rng.start, rng.end
	if a < 0 {
		a = 0
	}
	if b < 0 {
		b = 0
	}
	if a > last {
		a = last
	}
	if b > last {
		b = last
	}
	return a, b
}

type exCommand struct {
	name string
	min  int
	run  func(*Editor, exRange, string) error
}

// exCommands is scanned in order; the first entry whose name the typed
// prefix matches wins, so ties resolve the way users expect, such as
// :no for :noremap but :noh for :nohlsearch.
var exCommands = []exCommand{
	{"delete", 1, (*Editor).exDelete},
	{"yank", 1, (*Editor).exYank},
	{"put", 2, (*Editor).exPut},
	{"substitute", 1, (*Editor).exSubstitute},
	{"set", 2, (*Editor).exSet},
	{"registers", 3, (*Editor).exRegisters},
	{"display", 2, (*Editor).exRegisters},
	{"marks", 5, (*Editor).exMarks},
	{"jumps", 2, (*Editor).exJumps},
	{"delmarks", 4, (*Editor).exDelMarks},

	{"nnoremap", 2, exMapCmd(normalScopes, true)},
	{"vnoremap", 2, exMapCmd(visualScopes, true)},
	{"inoremap", 3, exMapCmd(insertScopes, true)},
	{"cnoremap", 3, exMapCmd(cmdlineScopes, true)},
	{"noremap", 2, exMapCmd(mapScopes, true)},
	{"nohlsearch", 3, (*Editor).exNoHighlight},
	{"nmap", 2, exMapCmd(normalScopes, false)},
	{"vmap", 2, exMapCmd(visualScopes, false)},
	{"imap", 2, exMapCmd(insertScopes, false)},
	{"cmap", 2, exMapCmd(cmdlineScopes, false)},
	{"map", 3, exMapCmd(mapScopes, false)},
	{"nunmap", 3, exUnmapCmd(normalScopes)},
	{"vunmap", 2, exUnmapCmd(visualScopes)},
	{"iunmap", 2, exUnmapCmd(insertScopes)},
	{"cunmap", 2, exUnmapCmd(cmdlineScopes)},
	{"unmap", 3, exUnmapCmd(mapScopes)},
}

// runEx executes one ex command line.
func (e *Editor) runEx(text string) error {
	rng, rest, err := e.parseRange(text)
	if err != nil {
		return err
	}
	rest = strings.TrimLeft(rest, " \t")

	// A bare range jumps to its last line.
	if rest == "" {
		if !rng.set {
			return nil
		}
		_, line := e.exLines(rng)
		e.pushJump()
		e.cursor = e.clampNormal(host.Position{Line: line, Col: e.firstNonBlankCol(line)})
		return nil
	}

	if rest[0] == '&' {
		keep := strings.HasPrefix(rest, "&&")
		return e.rerunSubstitute(rng, keep)
	}

	i := 0
	for i < len(rest) && isExNameByte(rest[i]) {
		i++
	}
	name := rest[:i]
	arg := rest[i:]
	if name == "" {
		return fmt.Errorf("%w: %s", ErrUnknownCommand, rest)
	}
	for _, c := range exCommands {
		if len(name) >= c.min && strings.HasPrefix(c.name, name) {
			return c.run(e, rng, arg)
		}
	}
	return fmt.Errorf("%w: %s", ErrUnknownCommand, name)
}

func isExNameByte(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z'
}

// parseRange consumes a leading % or addr[,addr] pair and returns the
// remainder of the line.
func (e *Editor) parseRange(s string) (exRange, string, error) {
	rest := strings.TrimLeft(s, " \t")
	if strings.HasPrefix(rest, "%") {
		return exRange{start: 0, end: e.lastLine(), set: true}, rest[1:], nil
	}

	start, rest, ok, err := e.parseAddress(rest)
	if err != nil {
		return exRange{}, "", err
	}
	if !ok {
		return exRange{}, rest, nil
	}
	rng := exRange{start: start, end: start, set: true}
	if strings.HasPrefix(rest, ",") {
		end, after, ok, err := e.parseAddress(rest[1:])
		if err != nil {
			return exRange{}, "", err
		}
		if !ok {
			end = e.cursor.Line
		}
		rng.end = end
		rest = after
	}
	if rng.start > rng.end {
		rng.start, rng.end = rng.end, rng.start
	}
	return rng, rest, nil
}

// parseAddress reads one address: . $ a line number 'mark or a bare
// offset, each optionally followed by +n or -n offsets.
func (e *Editor) parseAddress(s string) (line int, rest string, ok bool, err error) {
	i := 0
	base := 0
	found := false
	switch {
	case i < len(s) && s[i] == '.':
		base = e.cursor.Line
		i++
		found = true
	case i < len(s) && s[i] == '$':
		base = e.lastLine()
		i++
		found = true
	case i < len(s) && s[i] >= '0' && s[i] <= '9':
		j := i
		for j < len(s) && s[j] >= '0' && s[j] <= '9' {
			j++
		}
		n, convErr := strconv.Atoi(s[i:j])
		if convErr != nil {
			return 0, "", false, convErr
		}
		base = n - 1
		i = j
		found = true
	case i < len(s) && s[i] == '\'':
		if i+1 >= len(s) {
			return 0, "", false, errors.New("missing mark name in range")
		}
		name := rune(s[i+1])
		m, markErr := e.marks.Get(name, e.buffer.ID())
		if markErr != nil {
			return 0, "", false, markErr
		}
		base = m.Pos.Line
		i += 2
		found = true
	}

	for i < len(s) && (s[i] == '+' || s[i] == '-') {
		sign := 1
		if s[i] == '-' {
			sign = -1
		}
		i++
		n := 1
		j := i
		for j < len(s) && s[j] >= '0' && s[j] <= '9' {
			j++
		}
		if j > i {
			parsed, convErr := strconv.Atoi(s[i:j])
			if convErr != nil {
				return 0, "", false, convErr
			}
			n = parsed
			i = j
		}
		if !found {
			base = e.cursor.Line
			found = true
		}
		base += sign * n
	}

	if !found {
		return 0, s, false, nil
	}
	return base, s[i:], true, nil
}

// parseLineArgs reads the optional register and count arguments of
// :delete and :yank.
func parseLineArgs(arg string) (reg rune, count int, err error) {
	for _, f := range strings.Fields(arg) {
		if n, convErr := strconv.Atoi(f); convErr == nil {
			if n <= 0 {
				return 0, 0, fmt.Errorf("invalid count: %s", f)
			}
			count = n
			continue
		}
		r := []rune(f)
		if len(r) == 1 && register.Valid(r[0]) {
			reg = r[0]
			continue
		}
		return 0, 0, fmt.Errorf("invalid argument: %s", f)
	}
	return reg, count, nil
}

func (e *Editor) exDelete(rng exRange, arg string) error {
	reg, count, err := parseLineArgs(arg)
	if err != nil {
		return err
	}
	a, b := e.exLines(rng)
	if count > 0 {
		// A count makes the range start at its last line.
		a = b
		b = a + count - 1
		if last := e.lastLine(); b > last {
			b = last
		}
	}
	e.editBegin()
	if err := e.deleteLines(a, b, reg); err != nil {
		return err
	}
	if n := b - a + 1; n > 2 {
		e.notifier.Info(fmt.Sprintf("%d fewer lines", n))
	}
	return nil
}

func (e *Editor) exYank(rng exRange, arg string) error {
	reg, count, err := parseLineArgs(arg)
	if err != nil {
		return err
	}
	a, b := e.exLines(rng)
	if count > 0 {
		a = b
		b = a + count - 1
		if last := e.lastLine(); b > last {
			b = last
		}
	}
	v := register.Value{Text: e.linesText(a, b), Shape: register.ShapeLinewise}
	if err := e.registers.RecordYank(reg, v); err != nil {
		return err
	}
	if n := b - a + 1; n > 2 {
		e.notifier.Info(fmt.Sprintf("%d lines yanked", n))
	}
	return nil
}

// exPut pastes a register as whole lines after the addressed line,
// whatever the register's shape. Address 0 puts above the first line.
func (e *Editor) exPut(rng exRange, arg string) error {
	reg := rune(0)
	if f := strings.TrimSpace(arg); f != "" {
		r := []rune(f)
		if len(r) != 1 || !register.Valid(r[0]) {
			return fmt.Errorf("invalid register: %s", f)
		}
		reg = r[0]
	}
	v, err := e.readRegister(reg)
	if err != nil {
		return err
	}
	if v.IsEmpty() {
		return fmt.Errorf("nothing in register %s", registerLabel(reg))
	}

	line := e.cursor.Line
	if rng.set {
		line = rng.end
	}
	e.editBegin()
	var first int
	if line < 0 {
		if err := e.buffer.Replace(host.Position{}, host.Position{}, v.Text+"\n"); err != nil {
			return err
		}
		first = 0
	} else {
		if last := e.lastLine(); line > last {
			line = last
		}
		at := host.Position{Line: line, Col: e.lineLen(line)}
		if err := e.buffer.Replace(at, at, "\n"+v.Text); err != nil {
			return err
		}
		first = line + 1
	}
	last := first + strings.Count(v.Text, "\n")
	e.setChangeMarks(host.Position{Line: first}, host.Position{Line: last, Col: e.lineLen(last)})
	e.cursor = e.clampNormal(host.Position{Line: last, Col: e.firstNonBlankCol(last)})
	return nil
}

func (e *Editor) exNoHighlight(_ exRange, _ string) error {
	e.session.SetSearchHighlight(false)
	return nil
}

func (e *Editor) exSet(_ exRange, arg string) error {
	fields := strings.Fields(arg)
	if len(fields) == 0 {
		return e.showModifiedOptions()
	}
	for _, f := range fields {
		if err := e.setOption(f); err != nil {
			return err
		}
	}
	return nil
}

// setOption applies one :set argument in any of its forms: name,
// noname, name!, invname, name?, or name=value.
func (e *Editor) setOption(f string) error {
	if i := strings.IndexByte(f, '='); i >= 0 {
		return e.options.Set(f[:i], f[i+1:])
	}
	if name, ok := strings.CutSuffix(f, "?"); ok {
		return e.showOption(name)
	}
	if name, ok := strings.CutSuffix(f, "!"); ok {
		return e.options.Toggle(name)
	}
	if name, ok := strings.CutPrefix(f, "inv"); ok {
		if _, found := e.options.Lookup(name); found {
			return e.options.Toggle(name)
		}
	}
	if name, ok := strings.CutPrefix(f, "no"); ok {
		if _, found := e.options.Lookup(name); found {
			return e.options.Set(name, false)
		}
	}
	opt, ok := e.options.Lookup(f)
	if !ok {
		return fmt.Errorf("%w: %s", config.ErrUnknownOption, f)
	}
	if opt.Type == config.TypeBool {
		return e.options.Set(f, true)
	}
	return e.showOption(f)
}

func (e *Editor) showOption(name string) error {
	opt, ok := e.options.Lookup(name)
	if !ok {
		return fmt.Errorf("%w: %s", config.ErrUnknownOption, name)
	}
	v, err := e.options.Get(opt.Name)
	if err != nil {
		return err
	}
	e.notifier.Info(formatOption(opt, v))
	return nil
}

func (e *Editor) showModifiedOptions() error {
	names := e.options.Modified()
	if len(names) == 0 {
		e.notifier.Info("no modified options")
		return nil
	}
	parts := make([]string, 0, len(names))
	for _, name := range names {
		opt, ok := e.options.Lookup(name)
		if !ok {
			continue
		}
		v, err := e.options.Get(name)
		if err != nil {
			continue
		}
		parts = append(parts, formatOption(opt, v))
	}
	e.notifier.Info(strings.Join(parts, " "))
	return nil
}

func formatOption(opt config.Option, v any) string {
	if opt.Type == config.TypeBool {
		if b, _ := v.(bool); b {
			return opt.Name
		}
		return "no" + opt.Name
	}
	return fmt.Sprintf("%s=%v", opt.Name, v)
}

func (e *Editor) exRegisters(_ exRange, arg string) error {
	filter := strings.Join(strings.Fields(arg), "")
	snaps := e.registers.All()
	lines := []string{"--- Registers ---"}
	for _, sn := range snaps {
		if filter != "" && !strings.ContainsRune(filter, sn.Name) {
			continue
		}
		text := strings.ReplaceAll(sn.Value.Text, "\n", "^J")
		lines = append(lines, fmt.Sprintf("%c  \"%c   %s", shapeChar(sn.Value.Shape), sn.Name, text))
	}
	if len(lines) == 1 {
		e.notifier.Info("no registers")
		return nil
	}
	e.notifier.Info(strings.Join(lines, "\n"))
	return nil
}

func shapeChar(s register.Shape) rune {
	switch s {
	case register.ShapeLinewise:
		return 'l'
	case register.ShapeBlockwise:
		return 'b'
	default:
		return 'c'
	}
}

func (e *Editor) exMarks(_ exRange, arg string) error {
	filter := strings.Join(strings.Fields(arg), "")
	all := e.marks.All(e.buffer.ID())
	lines := []string{"mark  line  col"}
	for _, mk := range all {
		if filter != "" && !strings.ContainsRune(filter, mk.Name) {
			continue
		}
		lines = append(lines, fmt.Sprintf("   %c %5d %5d", mk.Name, mk.Pos.Line+1, mk.Pos.Col))
	}
	if len(lines) == 1 {
		e.notifier.Info("no marks")
		return nil
	}
	e.notifier.Info(strings.Join(lines, "\n"))
	return nil
}

func (e *Editor) exJumps(_ exRange, _ string) error {
	entries := e.jumps.Entries()
	if len(entries) == 0 {
		e.notifier.Info("jump list empty")
		return nil
	}
	cur := e.jumps.Cursor()
	lines := []string{" jump  line  col"}
	for i, j := range entries {
		marker := ' '
		if i == cur {
			marker = '>'
		}
		dist := i - cur
		if dist < 0 {
			dist = -dist
		}
		lines = append(lines, fmt.Sprintf("%c%4d %5d %4d", marker, dist, j.Pos.Line+1, j.Pos.Col))
	}
	if cur >= len(entries) {
		lines = append(lines, ">")
	}
	e.notifier.Info(strings.Join(lines, "\n"))
	return nil
}

// exDelMarks deletes the named marks. Specs are mark characters or
// a-z style ranges; ! clears every lowercase mark of the buffer.
func (e *Editor) exDelMarks(_ exRange, arg string) error {
	arg = strings.TrimSpace(arg)
	if arg == "" {
		return errors.New("delmarks: argument required")
	}
	if arg == "!" {
		e.marks.DeleteBuffer(e.buffer.ID())
		return nil
	}
	id := e.buffer.ID()
	for _, spec := range strings.Fields(arg) {
		runes := []rune(spec)
		if len(runes) == 3 && runes[1] == '-' {
			if runes[0] > runes[2] {
				return fmt.Errorf("delmarks: invalid range %s", spec)
			}
			for c := runes[0]; c <= runes[2]; c++ {
				if err := e.marks.Delete(c, id); err != nil {
					return err
				}
			}
			continue
		}
		for _, c := range runes {
			if err := e.marks.Delete(c, id); err != nil {
				return err
			}
		}
	}
	return nil
}

func normalScopes() []string {
	return []string{string(mode.Normal)}
}

func visualScopes() []string {
	return []string{
		string(mode.VisualCharacter),
		string(mode.VisualLine),
		string(mode.VisualBlock),
		string(mode.Select),
	}
}

func insertScopes() []string {
	return []string{string(mode.Insert)}
}

func cmdlineScopes() []string {
	return []string{string(mode.CommandLine)}
}

func mapScopes() []string {
	return append(normalScopes(), visualScopes()...)
}

func exMapCmd(scopes func() []string, noRemap bool) func(*Editor, exRange, string) error {
	return func(e *Editor, _ exRange, arg string) error {
		return e.exMap(arg, scopes(), noRemap)
	}
}

func exUnmapCmd(scopes func() []string) func(*Editor, exRange, string) error {
	return func(e *Editor, _ exRange, arg string) error {
		lhs := strings.TrimSpace(arg)
		if lhs == "" {
			return errors.New("unmap: argument required")
		}
		if !e.keymaps.Remove(lhs, scopes()...) {
			return fmt.Errorf("no such mapping: %s", lhs)
		}
		return nil
	}
}

// exMap adds a mapping, or lists the existing ones when no replacement
// is given.
func (e *Editor) exMap(arg string, scopes []string, noRemap bool) error {
	arg = strings.TrimSpace(arg)
	if arg == "" {
		return e.listMappings(scopes, "")
	}
	lhs, rhs, found := strings.Cut(arg, " ")
	rhs = strings.TrimSpace(rhs)
	if !found || rhs == "" {
		return e.listMappings(scopes, lhs)
	}
	return e.keymaps.Add(keymap.Mapping{
		Keys:        lhs,
		Replacement: rhs,
		Modes:       scopes,
		NoRemap:     noRemap,
		Source:      ":map",
	})
}

func (e *Editor) listMappings(scopes []string, prefix string) error {
	type entry struct {
		mapping keymap.Mapping
		modes   string
	}
	var order []string
	grouped := map[string]*entry{}
	for _, scope := range scopes {
		for _, m := range e.keymaps.Mappings(scope) {
			if prefix != "" && !strings.HasPrefix(m.Keys, prefix) {
				continue
			}
			k := m.Keys + "\x00" + m.Replacement
			g, ok := grouped[k]
			if !ok {
				g = &entry{mapping: m}
				grouped[k] = g
				order = append(order, k)
			}
			if c := modeChar(scope); !strings.Contains(g.modes, c) {
				g.modes += c
			}
		}
	}
	if len(order) == 0 {
		e.notifier.Info("no mappings")
		return nil
	}
	lines := make([]string, 0, len(order))
	for _, k := range order {
		g := grouped[k]
		star := " "
		if g.mapping.NoRemap {
			star = "*"
		}
		lines = append(lines, fmt.Sprintf("%-4s %-12s %s%s", g.modes, g.mapping.Keys, star, g.mapping.Replacement))
	}
	e.notifier.Info(strings.Join(lines, "\n"))
	return nil
}

func modeChar(scope string) string {
	switch mode.Name(scope) {
	case mode.Normal:
		return "n"
	case mode.VisualCharacter, mode.VisualLine, mode.VisualBlock:
		return "v"
	case mode.Select:
		return "s"
	case mode.Insert:
		return "i"
	case mode.CommandLine:
		return "c"
	default:
		return " "
	}
}
