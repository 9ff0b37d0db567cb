package editor

import (
	"errors"
	"strconv"

	"github.com/dshills/modalkit/internal/input/command"
	"github.com/dshills/modalkit/internal/input/key"
)

// cmdRepeatChange is the dot command. The remembered keys replay
// through normal dispatch under the replaying flag, so nothing about
// the replay is recorded again. A count or register given to . swaps
// out the remembered ones and sticks for the next repeat.
func (e *Editor) cmdRepeatChange(cmd *command.Command) error {
	change, ok := e.session.LastChange()
	if !ok {
		return errors.New("no change to repeat")
	}
	count := change.Count
	if cmd.Count > 0 {
		count = cmd.Count
	}
	reg := change.Register
	if cmd.Register != 0 {
		reg = cmd.Register
	}

	e.replaying = true
	defer func() { e.replaying = false }()

	if reg != 0 {
		e.dispatchKey(key.NewRune('"'))
		e.dispatchKey(key.NewRune(reg))
	}
	if count > 0 {
		for _, d := range strconv.Itoa(count) {
			e.dispatchKey(key.NewRune(d))
		}
	}
	for _, in := range change.Keys {
		e.dispatchKey(in)
	}

	// A change that opened an insertion replays its typed text and the
	// closing escape.
	if e.insertActive() {
		for _, r := range change.Insert {
			switch r {
			case '\n':
				e.dispatchKey(key.NewSpecial(key.KeyEnter, key.ModNone))
			case '\t':
				e.dispatchKey(key.NewSpecial(key.KeyTab, key.ModNone))
			default:
				e.dispatchKey(key.NewRune(r))
			}
		}
	}
	if e.insertActive() {
		e.dispatchKey(key.NewSpecial(key.KeyEscape, key.ModNone))
	}

	if count != change.Count || reg != change.Register {
		change.Count = count
		change.Register = reg
		e.session.SetLastChange(change)
	}
	return nil
}
