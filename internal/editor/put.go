package editor

import (
	"fmt"
	"strings"

	"github.com/dshills/modalkit/internal/engine/motion"
	"github.com/dshills/modalkit/internal/engine/register"
	"github.com/dshills/modalkit/internal/host"
	"github.com/dshills/modalkit/internal/input/command"
)

func (e *Editor) cmdPutAfter(cmd *command.Command) error {
	return e.put(cmd, true, false)
}

func (e *Editor) cmdPutBefore(cmd *command.Command) error {
	return e.put(cmd, false, false)
}

func (e *Editor) cmdPutAfterFollow(cmd *command.Command) error {
	return e.put(cmd, true, true)
}

func (e *Editor) cmdPutBeforeFollow(cmd *command.Command) error {
	return e.put(cmd, false, true)
}

// put inserts register content at the cursor, count times. The follow
// forms leave the cursor just past the inserted text instead of on it.
func (e *Editor) put(cmd *command.Command, after, follow bool) error {
	v, err := e.readRegister(cmd.Register)
	if err != nil {
		return err
	}
	if v.IsEmpty() {
		return fmt.Errorf("nothing in register %s", registerLabel(cmd.Register))
	}
	e.editBegin()
	count := cmd.EffectiveCount()
	switch v.Shape {
	case register.ShapeLinewise:
		return e.putLines(v, count, after, follow)
	case register.ShapeBlockwise:
		return e.putBlock(v, count, after)
	default:
		return e.putChars(v, count, after, follow)
	}
}

func (e *Editor) putChars(v register.Value, count int, after, follow bool) error {
	at := e.cursor
	if after && e.lineLen(at.Line) > 0 {
		at.Col++
	}
	text := strings.Repeat(v.Text, count)
	if err := e.buffer.Replace(at, at, text); err != nil {
		return err
	}
	end := host.TextEnd(at, text)
	e.setChangeMarks(at, e.lastCovered(motion.Span{Start: at, End: end}))
	if follow {
		e.cursor = e.clampNormal(end)
	} else {
		e.cursor = e.lastCovered(motion.Span{Start: at, End: end})
	}
	return nil
}

func (e *Editor) putLines(v register.Value, count int, after, follow bool) error {
	block := v.Text
	for i := 1; i < count; i++ {
		block += "\n" + v.Text
	}
	total := strings.Count(block, "\n") + 1

	line := e.cursor.Line
	first := line
	if after {
		at := host.Position{Line: line, Col: e.lineLen(line)}
		if err := e.buffer.Replace(at, at, "\n"+block); err != nil {
			return err
		}
		first = line + 1
	} else {
		at := host.Position{Line: line}
		if err := e.buffer.Replace(at, at, block+"\n"); err != nil {
			return err
		}
	}

	lastPasted := first + total - 1
	e.setChangeMarks(host.Position{Line: first}, host.Position{Line: lastPasted, Col: e.lineLen(lastPasted)})
	if follow {
		e.cursor = e.clampNormal(host.Position{Line: lastPasted + 1})
	} else {
		e.cursor = host.Position{Line: first, Col: e.firstNonBlankCol(first)}
	}
	return nil
}

// putBlock lays the register's lines down as a rectangle starting at
// the cursor column, padding short lines with spaces and extending the
// buffer when the block reaches past the last line. The count repeats
// each fragment within its line.
func (e *Editor) putBlock(v register.Value, count int, after bool) error {
	frags := strings.Split(v.Text, "\n")
	col := e.cursor.Col
	if after && e.lineLen(e.cursor.Line) > 0 {
		col++
	}

	for i, frag := range frags {
		text := strings.Repeat(frag, count)
		target := e.cursor.Line + i
		if last := e.lastLine(); target > last {
			at := host.Position{Line: last, Col: e.lineLen(last)}
			pad := strings.Repeat(" ", col)
			if err := e.buffer.Replace(at, at, "\n"+pad+text); err != nil {
				return err
			}
			continue
		}
		at := host.Position{Line: target, Col: col}
		if ll := e.lineLen(target); ll < col {
			text = strings.Repeat(" ", col-ll) + text
			at.Col = ll
		}
		if err := e.buffer.Replace(at, at, text); err != nil {
			return err
		}
	}

	start := host.Position{Line: e.cursor.Line, Col: col}
	e.setChangeMarks(start, host.Position{Line: e.cursor.Line + len(frags) - 1, Col: col})
	e.cursor = e.clampNormal(start)
	return nil
}
