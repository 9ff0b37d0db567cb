package editor

import (
	"github.com/dshills/modalkit/internal/input/key"
	"github.com/dshills/modalkit/internal/input/mode"
)

// inertMode parks the editor. Every key passes through to the host
// untouched except the single resume key, which restores normal mode.
// Disabled and external-edit are both flavors of this.
type inertMode struct {
	ed     *Editor
	name   mode.Name
	resume key.Input
}

func newInertMode(e *Editor, name mode.Name, resume key.Input) *inertMode {
	return &inertMode{ed: e, name: name, resume: resume}
}

func (m *inertMode) Name() mode.Name { return m.name }

func (m *inertMode) CanProcess(in key.Input) bool {
	return in == m.resume
}

func (m *inertMode) OnEnter(mode.Argument) error { return nil }

func (m *inertMode) OnLeave() error { return nil }

func (m *inertMode) Process(in key.Input) (mode.Result, error) {
	if in != m.resume {
		return mode.Result{}, nil
	}
	return mode.Result{Handled: true}, m.ed.switchTo(mode.Normal, mode.Argument{})
}
