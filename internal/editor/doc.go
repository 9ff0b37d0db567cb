// Package editor is the controller that ties the engine together: one
// buffer, one cursor, one mode machine, and the shared stores for
// registers, marks, jumps, and session memory.
//
// The host owns the event loop and feeds keys in one at a time through
// ProcessKey. The controller resolves key mappings, recognizes commands
// in the active mode, executes them against the host buffer, and groups
// every mutating command into a single undo transaction. All methods
// must be called from one goroutine; re-entrant calls fail with
// ErrBusy.
package editor
