package editor

import "errors"

// Errors returned across the controller boundary.
var (
	// ErrBusy reports a re-entrant call while a key is being processed.
	ErrBusy = errors.New("editor is processing input")

	// ErrUnknownCommand reports an ex command line that matched no
	// command name.
	ErrUnknownCommand = errors.New("not an editor command")
)
