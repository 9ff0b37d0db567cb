// Package host defines the boundary between the modal interpreter and the
// application that embeds it.
//
// The interpreter never owns text storage, rendering, or persistence. It
// reads and mutates text through Buffer, reaches the system clipboard
// through Clipboard, groups edits into undo units through UndoHistory, and
// reports human-readable status through Notifier. A host supplies
// implementations of these interfaces at construction time; the membuf
// subpackage provides an in-memory reference implementation used by the
// demo binary and the test suites.
//
// # Positions
//
// Position is a zero-indexed (line, column) pair. Columns count runes, not
// bytes, so motion arithmetic is stable across multibyte text. A position
// is valid for a buffer when its line is within [0, LineCount) and its
// column is within [0, len(line)] where len counts runes; the column equal
// to the line length addresses the line's end (the newline boundary).
//
// # Edit notification
//
// Every successful Replace emits a Change describing the replaced range in
// the old text and the extent of the replacement in the new text. Marks,
// the jump list, and any other position-tracking consumers adjust
// themselves from these deltas rather than holding references into the
// buffer.
package host
