package mode

import (
	"github.com/dshills/modalkit/internal/host"
	"github.com/dshills/modalkit/internal/input/key"
)

// Name identifies an editor mode. The set is closed: every controller
// is in exactly one of these at all times.
type Name string

const (
	// Normal is the command mode keys are interpreted in by default.
	Normal Name = "normal"

	// Insert accepts text at the cursor.
	Insert Name = "insert"

	// Replace overwrites text at the cursor.
	Replace Name = "replace"

	// VisualCharacter selects a character range.
	VisualCharacter Name = "visual"

	// VisualLine selects whole lines.
	VisualLine Name = "visual-line"

	// VisualBlock selects a rectangular block.
	VisualBlock Name = "visual-block"

	// Select behaves like a visual mode where typing replaces the
	// selection.
	Select Name = "select"

	// CommandLine collects a line of input for : / ? or = prompts.
	CommandLine Name = "command-line"

	// SubstituteConfirm steps through :s///c matches awaiting a
	// decision key for each.
	SubstituteConfirm Name = "substitute-confirm"

	// Disabled passes every key back to the host except the resume
	// key.
	Disabled Name = "disabled"

	// ExternalEdit parks the controller while another program edits
	// the buffer.
	ExternalEdit Name = "external-edit"
)

// Valid reports whether n is one of the defined modes.
func (n Name) Valid() bool {
	switch n {
	case Normal, Insert, Replace, VisualCharacter, VisualLine, VisualBlock,
		Select, CommandLine, SubstituteConfirm, Disabled, ExternalEdit:
		return true
	default:
		return false
	}
}

// IsVisual reports whether n is one of the three visual modes.
func (n Name) IsVisual() bool {
	return n == VisualCharacter || n == VisualLine || n == VisualBlock
}

// Display returns the status-line text for the mode, empty when the
// mode shows nothing.
func (n Name) Display() string {
	switch n {
	case Insert:
		return "-- INSERT --"
	case Replace:
		return "-- REPLACE --"
	case VisualCharacter:
		return "-- VISUAL --"
	case VisualLine:
		return "-- VISUAL LINE --"
	case VisualBlock:
		return "-- VISUAL BLOCK --"
	case Select:
		return "-- SELECT --"
	case ExternalEdit:
		return "-- EXTERNAL --"
	case Disabled:
		return "-- DISABLED --"
	default:
		return ""
	}
}

// Argument carries data into a mode transition. The zero value means
// no argument; each mode fills in its own defaults on entry.
type Argument struct {
	// Count is the entry repeat. Insert modes replay the completed
	// insertion count-1 further times when they exit.
	Count int

	// Anchor is the fixed end of the selection for the visual modes,
	// nil to anchor at the cursor.
	Anchor *host.Position

	// Prompt selects the command-line flavor: ':', '/', '?' or '='.
	Prompt rune

	// Return is the mode to restore when a transient mode finishes,
	// Normal when empty.
	Return Name

	// Payload carries mode-specific task data, such as the pending
	// substitute-confirm job or the insert replication rule.
	Payload any
}

// Result reports how a mode handled one key.
type Result struct {
	// Handled is false when the host's native behavior should apply
	// instead.
	Handled bool
}

// Mode is one state of the controller. Hooks must not switch modes
// themselves; they return an error and let the controller decide, or
// the mode requests a switch from its Process method through the
// controller it was built with.
type Mode interface {
	// Name returns the mode's identity.
	Name() Name

	// CanProcess reports whether the mode wants the key at all. A key
	// refused here is handed back to the host untouched.
	CanProcess(in key.Input) bool

	// Process interprets one key.
	Process(in key.Input) (Result, error)

	// OnEnter prepares the mode. The argument is the zero value when
	// the transition carries no data.
	OnEnter(arg Argument) error

	// OnLeave tears the mode down before the switch away from it.
	OnLeave() error
}
