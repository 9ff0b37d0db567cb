// Package mode defines the editor mode machinery: the closed set of
// mode names, the Mode interface every mode implements, the Argument
// payload carried across transitions, and the Manager that runs them.
//
// # Transition discipline
//
// A switch is three steps in a fixed order: the leaving mode's
// OnLeave, the swap of the active-mode reference, the entering mode's
// OnEnter. There is never a moment without exactly one active mode,
// and no path other than Manager.Switch moves the reference.
//
// Hooks never switch modes themselves. A mode that wants out returns
// from Process and asks its controller, which calls Switch after the
// current key finishes. This keeps transitions flat: no switch ever
// runs inside another.
//
// # Usage
//
//	m := mode.NewManager()
//	m.Register(normal)
//	m.Register(insert)
//	if err := m.SetInitial(mode.Normal); err != nil {
//		return err
//	}
//	err := m.Switch(mode.Insert, mode.Argument{Count: 3})
package mode
