package membuf

import (
	"errors"
	"sync"

	"github.com/dshills/modalkit/internal/host"
)

// Errors returned by history operations.
var (
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrNothingToRedo = errors.New("nothing to redo")
)

// undoUnit is one undo-visible step: every change applied while a single
// transaction was open, or one untracked change.
type undoUnit struct {
	changes []host.Change
}

// History implements host.UndoHistory over a membuf Buffer. It observes the
// buffer's change stream; changes made while a transaction is open collapse
// into one unit, changes made outside any transaction each form their own.
type History struct {
	mu sync.Mutex

	buf       *Buffer
	undoStack []*undoUnit
	redoStack []*undoUnit

	open     *undoUnit
	applying bool

	maxEntries int
	cancelSub  func()
}

// NewHistory creates a history observing buf.
func NewHistory(buf *Buffer, maxEntries int) *History {
	if maxEntries <= 0 {
		maxEntries = 1000
	}
	h := &History{buf: buf, maxEntries: maxEntries}
	h.cancelSub = buf.Subscribe(h.record)
	return h
}

// Close detaches the history from its buffer.
func (h *History) Close() {
	if h.cancelSub != nil {
		h.cancelSub()
		h.cancelSub = nil
	}
}

func (h *History) record(c host.Change) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.applying {
		return
	}
	if h.open != nil {
		h.open.changes = append(h.open.changes, c)
		return
	}
	h.pushLocked(&undoUnit{changes: []host.Change{c}})
}

func (h *History) pushLocked(u *undoUnit) {
	h.undoStack = append(h.undoStack, u)
	h.redoStack = nil
	if len(h.undoStack) > h.maxEntries {
		excess := len(h.undoStack) - h.maxEntries
		h.undoStack = h.undoStack[excess:]
	}
}

// Begin implements host.UndoHistory. A Begin while a transaction is already
// open returns a nested handle whose Commit and Rollback do nothing.
func (h *History) Begin() host.Transaction {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.open != nil {
		return nestedTxn{}
	}
	h.open = &undoUnit{}
	return &txn{h: h}
}

// Undo implements host.UndoHistory. Undoing past the oldest unit stops
// there; it is an error only when nothing at all can be undone.
func (h *History) Undo(n int) error {
	if n <= 0 {
		n = 1
	}
	for i := 0; i < n; i++ {
		h.mu.Lock()
		if len(h.undoStack) == 0 {
			h.mu.Unlock()
			if i == 0 {
				return ErrNothingToUndo
			}
			return nil
		}
		u := h.undoStack[len(h.undoStack)-1]
		h.undoStack = h.undoStack[:len(h.undoStack)-1]
		h.applying = true
		h.mu.Unlock()

		err := h.applyInverse(u)

		h.mu.Lock()
		h.applying = false
		if err != nil {
			h.undoStack = append(h.undoStack, u)
			h.mu.Unlock()
			return err
		}
		h.redoStack = append(h.redoStack, u)
		h.mu.Unlock()
	}
	return nil
}

// Redo implements host.UndoHistory.
func (h *History) Redo(n int) error {
	if n <= 0 {
		n = 1
	}
	for i := 0; i < n; i++ {
		h.mu.Lock()
		if len(h.redoStack) == 0 {
			h.mu.Unlock()
			if i == 0 {
				return ErrNothingToRedo
			}
			return nil
		}
		u := h.redoStack[len(h.redoStack)-1]
		h.redoStack = h.redoStack[:len(h.redoStack)-1]
		h.applying = true
		h.mu.Unlock()

		err := h.applyForward(u)

		h.mu.Lock()
		h.applying = false
		if err != nil {
			h.redoStack = append(h.redoStack, u)
			h.mu.Unlock()
			return err
		}
		h.undoStack = append(h.undoStack, u)
		h.mu.Unlock()
	}
	return nil
}

func (h *History) applyInverse(u *undoUnit) error {
	for i := len(u.changes) - 1; i >= 0; i-- {
		inv := u.changes[i].Invert()
		if err := h.buf.Replace(inv.Start, inv.OldEnd, inv.NewText); err != nil {
			return err
		}
	}
	return nil
}

func (h *History) applyForward(u *undoUnit) error {
	for _, c := range u.changes {
		if err := h.buf.Replace(c.Start, c.OldEnd, c.NewText); err != nil {
			return err
		}
	}
	return nil
}

// CanUndo returns true if undo is available.
func (h *History) CanUndo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.undoStack) > 0
}

// CanRedo returns true if redo is available.
func (h *History) CanRedo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.redoStack) > 0
}

// UndoCount returns the number of undo units available.
func (h *History) UndoCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.undoStack)
}

// RedoCount returns the number of redo units available.
func (h *History) RedoCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.redoStack)
}

// Clear removes all undo and redo state.
func (h *History) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.undoStack = nil
	h.redoStack = nil
	h.open = nil
}

// txn is the active transaction handle.
type txn struct {
	h      *History
	closed bool
}

// Commit implements host.Transaction.
func (t *txn) Commit() error {
	t.h.mu.Lock()
	defer t.h.mu.Unlock()
	if t.closed {
		return nil
	}
	t.closed = true
	u := t.h.open
	t.h.open = nil
	if u == nil || len(u.changes) == 0 {
		return nil
	}
	t.h.pushLocked(u)
	return nil
}

// Rollback implements host.Transaction. Edits made while the transaction
// was open are reverted and nothing is pushed to the undo stack.
func (t *txn) Rollback() error {
	t.h.mu.Lock()
	if t.closed {
		t.h.mu.Unlock()
		return nil
	}
	t.closed = true
	u := t.h.open
	t.h.open = nil
	if u == nil || len(u.changes) == 0 {
		t.h.mu.Unlock()
		return nil
	}
	t.h.applying = true
	t.h.mu.Unlock()

	err := t.h.applyInverse(u)

	t.h.mu.Lock()
	t.h.applying = false
	t.h.mu.Unlock()
	return err
}

// nestedTxn is returned for a Begin inside an open transaction.
type nestedTxn struct{}

// Commit implements host.Transaction.
func (nestedTxn) Commit() error { return nil }

// Rollback implements host.Transaction.
func (nestedTxn) Rollback() error { return nil }
