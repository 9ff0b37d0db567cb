package editor

import (
	"errors"
	"strings"

	"github.com/dshills/modalkit/internal/engine/motion"
	"github.com/dshills/modalkit/internal/host"
	"github.com/dshills/modalkit/internal/input/command"
	"github.com/dshills/modalkit/internal/input/key"
	"github.com/dshills/modalkit/internal/input/mode"
)

// argRune returns the trailing argument as a rune, 0 when absent.
func argRune(cmd *command.Command) rune {
	for _, r := range cmd.Arg {
		return r
	}
	return 0
}

func (e *Editor) cmdInsert(cmd *command.Command) error {
	return e.enterInsert('i', cmd.EffectiveCount())
}

func (e *Editor) cmdInsertLineStart(cmd *command.Command) error {
	e.cursor.Col = e.firstNonBlankCol(e.cursor.Line)
	return e.enterInsert('I', cmd.EffectiveCount())
}

func (e *Editor) cmdAppend(cmd *command.Command) error {
	e.cursor = e.clampInsert(host.Position{Line: e.cursor.Line, Col: e.cursor.Col + 1})
	return e.enterInsert('a', cmd.EffectiveCount())
}

func (e *Editor) cmdAppendLineEnd(cmd *command.Command) error {
	e.cursor.Col = e.lineLen(e.cursor.Line)
	return e.enterInsert('A', cmd.EffectiveCount())
}

func (e *Editor) cmdOpenBelow(cmd *command.Command) error {
	line := e.cursor.Line
	indent := ""
	if e.options.Bool("autoindent") {
		indent = leadingWhitespace(e.line(line))
	}
	e.editBegin()
	at := host.Position{Line: line, Col: e.lineLen(line)}
	if err := e.buffer.Replace(at, at, "\n"+indent); err != nil {
		return err
	}
	e.cursor = host.Position{Line: line + 1, Col: runeLen(indent)}
	return e.enterInsert('o', cmd.EffectiveCount())
}

func (e *Editor) cmdOpenAbove(cmd *command.Command) error {
	line := e.cursor.Line
	indent := ""
	if e.options.Bool("autoindent") {
		indent = leadingWhitespace(e.line(line))
	}
	e.editBegin()
	at := host.Position{Line: line}
	if err := e.buffer.Replace(at, at, indent+"\n"); err != nil {
		return err
	}
	e.cursor = host.Position{Line: line, Col: runeLen(indent)}
	return e.enterInsert('O', cmd.EffectiveCount())
}

func (e *Editor) cmdReplaceOverwrite(cmd *command.Command) error {
	return e.switchTo(mode.Replace, mode.Argument{Count: cmd.EffectiveCount()})
}

func (e *Editor) cmdReplaceChar(cmd *command.Command) error {
	count := cmd.EffectiveCount()
	line := e.cursor.Line
	ll := e.lineLen(line)
	end := e.cursor.Col + count
	if ll == 0 || end > ll {
		return errors.New("not enough characters to replace")
	}
	e.editBegin()
	if cmd.Arg == "\n" {
		// r<CR> replaces all covered characters with one line break.
		if err := e.buffer.Replace(e.cursor, host.Position{Line: line, Col: end}, "\n"); err != nil {
			return err
		}
		e.cursor = e.clampNormal(host.Position{Line: line + 1})
		return nil
	}
	text := strings.Repeat(string(argRune(cmd)), count)
	if err := e.buffer.Replace(e.cursor, host.Position{Line: line, Col: end}, text); err != nil {
		return err
	}
	e.cursor = host.Position{Line: line, Col: end - 1}
	return nil
}

func (e *Editor) cmdDeleteChar(cmd *command.Command) error {
	line := e.cursor.Line
	ll := e.lineLen(line)
	if ll == 0 {
		return nil
	}
	end := e.cursor.Col + cmd.EffectiveCount()
	if end > ll {
		end = ll
	}
	span := motion.Span{Start: e.cursor, End: host.Position{Line: line, Col: end}}
	e.editBegin()
	return e.opDelete(span, cmd.Register)
}

func (e *Editor) cmdDeleteCharBack(cmd *command.Command) error {
	line := e.cursor.Line
	start := e.cursor.Col - cmd.EffectiveCount()
	if start < 0 {
		start = 0
	}
	if start == e.cursor.Col {
		return nil
	}
	span := motion.Span{Start: host.Position{Line: line, Col: start}, End: e.cursor}
	e.editBegin()
	return e.opDelete(span, cmd.Register)
}

func (e *Editor) cmdSubstituteChar(cmd *command.Command) error {
	line := e.cursor.Line
	end := e.cursor.Col + cmd.EffectiveCount()
	if ll := e.lineLen(line); end > ll {
		end = ll
	}
	span := motion.Span{Start: e.cursor, End: host.Position{Line: line, Col: end}}
	e.editBegin()
	return e.opChange(span, cmd.Register)
}

func (e *Editor) cmdChangeLines(cmd *command.Command) error {
	span := e.lineSpan(cmd.EffectiveCount())
	e.editBegin()
	return e.opChange(span, cmd.Register)
}

func (e *Editor) cmdDeleteToEnd(cmd *command.Command) error {
	span := e.toEndSpan(cmd.EffectiveCount())
	if span.IsEmpty() {
		return nil
	}
	e.editBegin()
	return e.opDelete(span, cmd.Register)
}

func (e *Editor) cmdChangeToEnd(cmd *command.Command) error {
	span := e.toEndSpan(cmd.EffectiveCount())
	e.editBegin()
	return e.opChange(span, cmd.Register)
}

func (e *Editor) cmdYankLines(cmd *command.Command) error {
	return e.opYank(e.lineSpan(cmd.EffectiveCount()), cmd.Register)
}

// lineSpan covers count whole lines from the cursor down.
func (e *Editor) lineSpan(count int) motion.Span {
	line := e.cursor.Line
	end := line + count - 1
	if last := e.lastLine(); end > last {
		end = last
	}
	return motion.Span{
		Start: host.Position{Line: line},
		End:   host.Position{Line: end},
		Kind:  motion.Linewise,
	}
}

// toEndSpan covers from the cursor to the end of the count-th line.
func (e *Editor) toEndSpan(count int) motion.Span {
	end := e.cursor.Line + count - 1
	if last := e.lastLine(); end > last {
		end = last
	}
	return motion.Span{
		Start: e.cursor,
		End:   host.Position{Line: end, Col: e.lineLen(end)},
	}
}

func (e *Editor) cmdToggleCharCase(cmd *command.Command) error {
	line := e.cursor.Line
	ll := e.lineLen(line)
	if ll == 0 {
		return nil
	}
	end := e.cursor.Col + cmd.EffectiveCount()
	if end > ll {
		end = ll
	}
	runes := []rune(e.line(line))
	swapped := swapCase(string(runes[e.cursor.Col:end]))
	e.editBegin()
	if err := e.buffer.Replace(e.cursor, host.Position{Line: line, Col: end}, swapped); err != nil {
		return err
	}
	e.cursor = e.clampNormal(host.Position{Line: line, Col: end})
	return nil
}

func (e *Editor) cmdJoinLines(cmd *command.Command) error {
	return e.joinLines(cmd.EffectiveCount(), true)
}

func (e *Editor) cmdJoinLinesPlain(cmd *command.Command) error {
	return e.joinLines(cmd.EffectiveCount(), false)
}

// joinLines joins count lines (at least two) at the cursor. The smart
// form collapses the second line's leading whitespace into a single
// separating space, with Vim's exceptions for parentheses, trailing
// spaces, and the joinspaces option.
func (e *Editor) joinLines(count int, smart bool) error {
	joins := count - 1
	if joins < 1 {
		joins = 1
	}
	line := e.cursor.Line
	if line >= e.lastLine() {
		return errors.New("no line below to join")
	}
	e.editBegin()
	var seam host.Position
	for i := 0; i < joins; i++ {
		if line >= e.lastLine() {
			break
		}
		cur := e.line(line)
		next := e.line(line + 1)
		seam = host.Position{Line: line, Col: runeLen(cur)}
		end := host.Position{Line: line + 1}
		sep := ""
		if smart {
			trimmed := strings.TrimLeft(next, " \t")
			end.Col = runeLen(next) - runeLen(trimmed)
			switch {
			case trimmed == "" || cur == "":
			case strings.HasSuffix(cur, " "):
			case strings.HasPrefix(trimmed, ")"):
			case e.options.Bool("joinspaces") && endsSentence(cur):
				sep = "  "
			default:
				sep = " "
			}
		}
		if err := e.buffer.Replace(seam, end, sep); err != nil {
			return err
		}
	}
	e.cursor = e.clampNormal(seam)
	return nil
}

func endsSentence(s string) bool {
	return strings.HasSuffix(s, ".") || strings.HasSuffix(s, "!") || strings.HasSuffix(s, "?")
}

func (e *Editor) cmdUndo(cmd *command.Command) error {
	if err := e.undo.Undo(cmd.EffectiveCount()); err != nil {
		return err
	}
	e.cursor = e.clampNormal(e.cursor)
	return nil
}

func (e *Editor) cmdRedo(cmd *command.Command) error {
	if err := e.undo.Redo(cmd.EffectiveCount()); err != nil {
		return err
	}
	e.cursor = e.clampNormal(e.cursor)
	return nil
}

func (e *Editor) cmdSetMark(cmd *command.Command) error {
	return e.marks.Set(argRune(cmd), e.buffer.ID(), e.cursor)
}

func (e *Editor) cmdRecordMacro(cmd *command.Command) error {
	if e.player.Playing() {
		return errors.New("cannot record during playback")
	}
	return e.recorder.Start(argRune(cmd))
}

func (e *Editor) cmdPlayMacro(cmd *command.Command) error {
	name := argRune(cmd)
	if name == '@' {
		last, ok := e.session.LastMacro()
		if !ok {
			return errors.New("no previously used register")
		}
		name = last
	}
	if err := e.player.Play(name, cmd.EffectiveCount(), e.playFeed); err != nil {
		return err
	}
	e.session.SetLastMacro(name)
	return nil
}

// playFeed routes macro keys through the full pipeline. Errors inside
// the played keys reach the notifier; playback runs on.
func (e *Editor) playFeed(in key.Input) error {
	e.feedKey(in)
	return nil
}

func (e *Editor) cmdVisualChars(*command.Command) error {
	return e.switchTo(mode.VisualCharacter, mode.Argument{})
}

func (e *Editor) cmdVisualLines(*command.Command) error {
	return e.switchTo(mode.VisualLine, mode.Argument{})
}

func (e *Editor) cmdVisualBlock(*command.Command) error {
	return e.switchTo(mode.VisualBlock, mode.Argument{})
}

func (e *Editor) cmdVisualLast(*command.Command) error {
	v, ok := e.session.LastVisual()
	if !ok {
		return errors.New("no previous visual range")
	}
	anchor := v.Start
	return e.switchTo(visualModeName(v.Kind), mode.Argument{
		Anchor:  &anchor,
		Payload: visualRestore{end: v.End},
	})
}

func (e *Editor) cmdSelectChars(*command.Command) error {
	return e.switchTo(mode.Select, mode.Argument{})
}

func (e *Editor) cmdCommandLine(*command.Command) error {
	return e.switchTo(mode.CommandLine, mode.Argument{Prompt: ':'})
}

func (e *Editor) cmdJumpOlder(cmd *command.Command) error {
	moved := false
	for i := 0; i < cmd.EffectiveCount(); i++ {
		j, ok := e.jumps.Back(e.buffer.ID(), e.cursor)
		if !ok {
			break
		}
		if j.Buffer != e.buffer.ID() {
			return errors.New("jump target is in another buffer")
		}
		e.cursor = e.clampNormal(j.Pos)
		moved = true
	}
	if !moved {
		return errors.New("at oldest jump")
	}
	return nil
}

func (e *Editor) cmdJumpNewer(cmd *command.Command) error {
	moved := false
	for i := 0; i < cmd.EffectiveCount(); i++ {
		j, ok := e.jumps.Forward()
		if !ok {
			break
		}
		if j.Buffer != e.buffer.ID() {
			return errors.New("jump target is in another buffer")
		}
		e.cursor = e.clampNormal(j.Pos)
		moved = true
	}
	if !moved {
		return errors.New("at newest jump")
	}
	return nil
}
