package host

import "github.com/google/uuid"

// Buffer is the text storage contract the interpreter requires from its
// host. Implementations must keep at least one line at all times (an empty
// buffer is a single empty line).
type Buffer interface {
	// ID returns a stable identity for this buffer. Global marks and the
	// jump list use it to refer to buffers across the session.
	ID() uuid.UUID

	// Name returns a display name for the buffer (file name or similar).
	Name() string

	// LineCount returns the number of lines. Always at least 1.
	LineCount() int

	// Line returns line n (0-indexed) without its trailing newline.
	Line(n int) (string, error)

	// Replace substitutes the half-open range [start, end) with text.
	// Text may contain newlines. An insert uses start == end; a delete
	// uses empty text. Implementations emit exactly one Change per call
	// to every subscriber.
	Replace(start, end Position, text string) error

	// Subscribe registers fn to receive every Change applied to the
	// buffer, in application order. The returned function cancels the
	// subscription.
	Subscribe(fn func(Change)) (cancel func())
}

// Clipboard is the system-clipboard accessor used by the clipboard-backed
// registers. It is consulted at register access time, never cached.
type Clipboard interface {
	Write(text string) error
	Read() (string, error)
}

// Transaction is a scoped undo unit. Exactly one of Commit or Rollback must
// be called on every exit path; both are idempotent after the first close.
type Transaction interface {
	// Commit closes the transaction, folding every edit made while it was
	// open into one undo unit.
	Commit() error

	// Rollback closes the transaction and reverts every edit made while
	// it was open.
	Rollback() error
}

// UndoHistory groups buffer edits into host-undo units. One interpreter
// command that mutates text opens exactly one transaction around all its
// primitive edits.
type UndoHistory interface {
	// Begin opens a transaction. Edits applied before the transaction is
	// closed become a single undo unit. Begin while a transaction is open
	// returns a nested handle whose Commit is a no-op.
	Begin() Transaction

	// Undo reverts the n most recent undo units.
	Undo(n int) error

	// Redo reapplies the n most recent undone units.
	Redo(n int) error
}

// Notifier carries human-readable status to the host's status line. It is
// the only channel by which interpreter errors reach the user.
type Notifier interface {
	Info(msg string)
	Error(msg string)
}

// NopNotifier discards all notifications.
type NopNotifier struct{}

// Info implements Notifier.
func (NopNotifier) Info(string) {}

// Error implements Notifier.
func (NopNotifier) Error(string) {}
