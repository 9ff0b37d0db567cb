package membuf

import (
	"errors"
	"testing"
)

func TestHistoryUntracked(t *testing.T) {
	b := New("test", "hello")
	h := NewHistory(b, 0)
	defer h.Close()

	// Each change outside a transaction is its own undo unit.
	if err := b.Replace(pos(0, 5), pos(0, 5), " world"); err != nil {
		t.Fatalf("Replace failed: %v", err)
	}
	if err := b.Replace(pos(0, 0), pos(0, 1), "H"); err != nil {
		t.Fatalf("Replace failed: %v", err)
	}
	if got := h.UndoCount(); got != 2 {
		t.Fatalf("expected 2 undo units, got %d", got)
	}

	if err := h.Undo(1); err != nil {
		t.Fatalf("Undo failed: %v", err)
	}
	if got := b.String(); got != "hello world" {
		t.Errorf("after undo: %q, want %q", got, "hello world")
	}
	if err := h.Undo(1); err != nil {
		t.Fatalf("Undo failed: %v", err)
	}
	if got := b.String(); got != "hello" {
		t.Errorf("after second undo: %q, want %q", got, "hello")
	}
}

func TestHistoryTransaction(t *testing.T) {
	t.Run("commit folds edits into one unit", func(t *testing.T) {
		b := New("test", "abc")
		h := NewHistory(b, 0)
		defer h.Close()

		tx := h.Begin()
		if err := b.Replace(pos(0, 0), pos(0, 0), "1"); err != nil {
			t.Fatalf("Replace failed: %v", err)
		}
		if err := b.Replace(pos(0, 4), pos(0, 4), "2"); err != nil {
			t.Fatalf("Replace failed: %v", err)
		}
		if err := tx.Commit(); err != nil {
			t.Fatalf("Commit failed: %v", err)
		}

		if got := h.UndoCount(); got != 1 {
			t.Fatalf("expected 1 undo unit, got %d", got)
		}
		if err := h.Undo(1); err != nil {
			t.Fatalf("Undo failed: %v", err)
		}
		if got := b.String(); got != "abc" {
			t.Errorf("after undo: %q, want %q", got, "abc")
		}
	})

	t.Run("rollback reverts edits", func(t *testing.T) {
		b := New("test", "abc")
		h := NewHistory(b, 0)
		defer h.Close()

		tx := h.Begin()
		if err := b.Replace(pos(0, 0), pos(0, 3), "xyz"); err != nil {
			t.Fatalf("Replace failed: %v", err)
		}
		if err := tx.Rollback(); err != nil {
			t.Fatalf("Rollback failed: %v", err)
		}

		if got := b.String(); got != "abc" {
			t.Errorf("after rollback: %q, want %q", got, "abc")
		}
		if h.CanUndo() {
			t.Error("rollback must not leave an undo unit")
		}
	})

	t.Run("empty transaction leaves no unit", func(t *testing.T) {
		b := New("test", "abc")
		h := NewHistory(b, 0)
		defer h.Close()

		tx := h.Begin()
		if err := tx.Commit(); err != nil {
			t.Fatalf("Commit failed: %v", err)
		}
		if h.CanUndo() {
			t.Error("empty transaction produced an undo unit")
		}
	})

	t.Run("close is idempotent", func(t *testing.T) {
		b := New("test", "abc")
		h := NewHistory(b, 0)
		defer h.Close()

		tx := h.Begin()
		if err := b.Replace(pos(0, 0), pos(0, 0), "x"); err != nil {
			t.Fatalf("Replace failed: %v", err)
		}
		if err := tx.Commit(); err != nil {
			t.Fatalf("Commit failed: %v", err)
		}
		if err := tx.Commit(); err != nil {
			t.Fatalf("second Commit failed: %v", err)
		}
		if err := tx.Rollback(); err != nil {
			t.Fatalf("Rollback after Commit failed: %v", err)
		}
		if got := h.UndoCount(); got != 1 {
			t.Errorf("expected 1 undo unit, got %d", got)
		}
		if got := b.String(); got != "xabc" {
			t.Errorf("buffer = %q, want %q", got, "xabc")
		}
	})

	t.Run("nested begin is inert", func(t *testing.T) {
		b := New("test", "abc")
		h := NewHistory(b, 0)
		defer h.Close()

		outer := h.Begin()
		if err := b.Replace(pos(0, 0), pos(0, 0), "1"); err != nil {
			t.Fatalf("Replace failed: %v", err)
		}
		inner := h.Begin()
		if err := b.Replace(pos(0, 0), pos(0, 0), "2"); err != nil {
			t.Fatalf("Replace failed: %v", err)
		}
		if err := inner.Commit(); err != nil {
			t.Fatalf("inner Commit failed: %v", err)
		}
		if h.CanUndo() {
			t.Fatal("inner commit closed the outer transaction")
		}
		if err := outer.Commit(); err != nil {
			t.Fatalf("outer Commit failed: %v", err)
		}
		if got := h.UndoCount(); got != 1 {
			t.Errorf("expected 1 undo unit, got %d", got)
		}
	})
}

func TestUndoRedo(t *testing.T) {
	b := New("test", "one\ntwo\nthree")
	h := NewHistory(b, 0)
	defer h.Close()

	tx := h.Begin()
	if err := b.Replace(pos(0, 0), pos(1, 0), ""); err != nil {
		t.Fatalf("Replace failed: %v", err)
	}
	if err := tx.Commit(); err != nil {
		t.Fatalf("Commit failed: %v", err)
	}
	if got := b.String(); got != "two\nthree" {
		t.Fatalf("after delete: %q", got)
	}

	if err := h.Undo(1); err != nil {
		t.Fatalf("Undo failed: %v", err)
	}
	if got := b.String(); got != "one\ntwo\nthree" {
		t.Errorf("after undo: %q", got)
	}
	if !h.CanRedo() {
		t.Fatal("expected redo to be available")
	}

	if err := h.Redo(1); err != nil {
		t.Fatalf("Redo failed: %v", err)
	}
	if got := b.String(); got != "two\nthree" {
		t.Errorf("after redo: %q", got)
	}
}

func TestUndoRedoBounds(t *testing.T) {
	b := New("test", "abc")
	h := NewHistory(b, 0)
	defer h.Close()

	if err := h.Undo(1); !errors.Is(err, ErrNothingToUndo) {
		t.Errorf("Undo on empty = %v, want ErrNothingToUndo", err)
	}
	if err := h.Redo(1); !errors.Is(err, ErrNothingToRedo) {
		t.Errorf("Redo on empty = %v, want ErrNothingToRedo", err)
	}

	if err := b.Replace(pos(0, 0), pos(0, 0), "x"); err != nil {
		t.Fatalf("Replace failed: %v", err)
	}
	// Counted undo past the oldest unit stops there without error.
	if err := h.Undo(5); err != nil {
		t.Errorf("counted Undo past oldest = %v, want nil", err)
	}
	if got := b.String(); got != "abc" {
		t.Errorf("buffer = %q, want %q", got, "abc")
	}
}

func TestNewEditClearsRedo(t *testing.T) {
	b := New("test", "abc")
	h := NewHistory(b, 0)
	defer h.Close()

	if err := b.Replace(pos(0, 0), pos(0, 0), "1"); err != nil {
		t.Fatalf("Replace failed: %v", err)
	}
	if err := h.Undo(1); err != nil {
		t.Fatalf("Undo failed: %v", err)
	}
	if !h.CanRedo() {
		t.Fatal("expected redo available")
	}
	if err := b.Replace(pos(0, 0), pos(0, 0), "2"); err != nil {
		t.Fatalf("Replace failed: %v", err)
	}
	if h.CanRedo() {
		t.Error("new edit must clear the redo stack")
	}
}

func TestHistoryMaxEntries(t *testing.T) {
	b := New("test", "")
	h := NewHistory(b, 3)
	defer h.Close()

	for i := 0; i < 5; i++ {
		if err := b.Replace(pos(0, 0), pos(0, 0), "x"); err != nil {
			t.Fatalf("Replace failed: %v", err)
		}
	}
	if got := h.UndoCount(); got != 3 {
		t.Errorf("expected undo stack capped at 3, got %d", got)
	}
}
