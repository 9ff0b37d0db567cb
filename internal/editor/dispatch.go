package editor

import (
	"fmt"

	"github.com/dshills/modalkit/internal/engine/motion"
	"github.com/dshills/modalkit/internal/engine/session"
	"github.com/dshills/modalkit/internal/input/command"
	"github.com/dshills/modalkit/internal/input/mode"
)

// jumpMotions are the motions that push the origin onto the jump list.
var jumpMotions = map[string]bool{
	"G": true, "gg": true,
	"/": true, "?": true, "n": true, "N": true,
	"{": true, "}": true, "(": true, ")": true,
	"'": true, "`": true,
}

func motionPushesJump(keys string) bool {
	return jumpMotions[keys]
}

// runCommand executes a completed normal-mode command.
func (e *Editor) runCommand(cmd *command.Command) error {
	// A search motion without a pattern opens the command line; the
	// command is parked there and resumes when the line is accepted.
	if cmd.Motion != nil && cmd.Motion.Arg == motion.ArgPattern && cmd.Arg == "" {
		prompt := '/'
		if cmd.Motion.Keys == "?" {
			prompt = '?'
		}
		task := &searchTask{cmd: cmd}
		return e.switchTo(mode.CommandLine, mode.Argument{Prompt: prompt, Payload: task})
	}

	var err error
	switch {
	case cmd.Operator != nil:
		err = e.runOperator(cmd)
	case cmd.Action == command.MotionAction:
		err = e.runMotion(cmd)
	default:
		err = e.runAction(cmd)
	}
	if err != nil {
		return err
	}
	e.recordChange(cmd)
	return nil
}

// runMotion moves the cursor to the motion target.
func (e *Editor) runMotion(cmd *command.Command) error {
	span, err := e.motions.Resolve(e.motionContext(false), cmd.Motion.Keys, cmd.Count, cmd.Arg)
	if err != nil {
		return err
	}
	if motionPushesJump(cmd.Motion.Keys) {
		e.pushJump()
	}
	e.cursor = e.clampNormal(span.Target)
	return nil
}

func (e *Editor) runAction(cmd *command.Command) error {
	fn, ok := normalActions[cmd.Action]
	if !ok {
		return fmt.Errorf("no handler for command %q", cmd.Action)
	}
	return fn(e, cmd)
}

// recordChange remembers a completed command for the dot command. A
// command that left the editor in insert or replace mode is parked
// until the insertion finishes, so the repeat carries the typed text.
func (e *Editor) recordChange(cmd *command.Command) {
	if e.replaying {
		return
	}
	repeatable := cmd.Def != nil && cmd.Def.Repeatable ||
		cmd.Operator != nil && cmd.Operator.ChangesText
	if !repeatable {
		return
	}
	change := session.Change{
		Keys:     cmd.Bare.Clone().Inputs,
		Count:    cmd.Count,
		Register: cmd.Register,
	}
	if e.insertActive() {
		e.pendingChange = &change
		return
	}
	e.pendingChange = nil
	e.session.SetLastChange(change)
}
