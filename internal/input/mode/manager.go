package mode

import (
	"errors"
	"fmt"
)

// ErrUnknownMode reports a switch to a mode that was never registered.
var ErrUnknownMode = errors.New("unknown mode")

// ChangeFunc observes completed mode transitions.
type ChangeFunc func(from, to Name)

// Manager holds the registered modes and runs the transition
// discipline. It is confined to its controller's goroutine and needs
// no locking.
type Manager struct {
	modes    map[Name]Mode
	current  Mode
	previous Name
	onChange []ChangeFunc
}

// NewManager creates an empty manager.
func NewManager() *Manager {
	return &Manager{modes: make(map[Name]Mode)}
}

// Register adds a mode, replacing any previous registration of the
// same name.
func (m *Manager) Register(mode Mode) {
	m.modes[mode.Name()] = mode
}

// Get returns a registered mode, nil when absent.
func (m *Manager) Get(name Name) Mode {
	return m.modes[name]
}

// Current returns the active mode, nil before SetInitial.
func (m *Manager) Current() Mode {
	return m.current
}

// CurrentName returns the active mode's name, "" before SetInitial.
func (m *Manager) CurrentName() Name {
	if m.current == nil {
		return ""
	}
	return m.current.Name()
}

// Previous returns the mode that was active before the last switch.
func (m *Manager) Previous() Name {
	return m.previous
}

// SetInitial activates a mode without running any OnLeave. It is the
// start-up entry point.
func (m *Manager) SetInitial(name Name) error {
	mode, ok := m.modes[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownMode, name)
	}
	m.current = mode
	if err := mode.OnEnter(Argument{}); err != nil {
		return fmt.Errorf("enter %s: %w", name, err)
	}
	for _, fn := range m.onChange {
		if fn != nil {
			fn("", name)
		}
	}
	return nil
}

// Switch transitions to the target mode: the current mode's OnLeave,
// then the swap of the active reference, then the target's OnEnter.
// The swap sits between the hooks, so OnLeave still observes the old
// mode as current and OnEnter already observes the new one.
//
// An OnLeave error aborts the switch with the current mode unchanged.
// After an OnEnter error the target is active and the error is
// returned; the caller decides where to recover.
func (m *Manager) Switch(target Name, arg Argument) error {
	next, ok := m.modes[target]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownMode, target)
	}

	from := m.CurrentName()
	if m.current != nil {
		if err := m.current.OnLeave(); err != nil {
			return fmt.Errorf("leave %s: %w", from, err)
		}
	}

	m.previous = from
	m.current = next

	if err := next.OnEnter(arg); err != nil {
		return fmt.Errorf("enter %s: %w", target, err)
	}

	for _, fn := range m.onChange {
		if fn != nil {
			fn(from, target)
		}
	}
	return nil
}

// OnChange registers an observer called after every completed
// transition. The returned function unregisters it.
func (m *Manager) OnChange(fn ChangeFunc) func() {
	m.onChange = append(m.onChange, fn)
	index := len(m.onChange) - 1
	return func() {
		if index < len(m.onChange) {
			m.onChange[index] = nil
		}
	}
}
