package host

import "errors"

// Errors returned by boundary implementations.
var (
	// ErrLineOutOfRange indicates a line number outside [0, LineCount).
	ErrLineOutOfRange = errors.New("line out of range")

	// ErrPositionOutOfRange indicates a position outside the buffer.
	ErrPositionOutOfRange = errors.New("position out of range")

	// ErrRangeInvalid indicates an invalid range (end before start).
	ErrRangeInvalid = errors.New("invalid range")
)
