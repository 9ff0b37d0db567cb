package host

import "fmt"

// ChangeType categorizes the type of a buffer change.
type ChangeType uint8

const (
	// ChangeInsert indicates text was inserted (OldText is empty).
	ChangeInsert ChangeType = iota

	// ChangeDelete indicates text was deleted (NewText is empty).
	ChangeDelete

	// ChangeReplace indicates text was replaced (both texts present).
	ChangeReplace
)

// String returns a human-readable representation of the change type.
func (ct ChangeType) String() string {
	switch ct {
	case ChangeInsert:
		return "insert"
	case ChangeDelete:
		return "delete"
	case ChangeReplace:
		return "replace"
	default:
		return "unknown"
	}
}

// Change describes one buffer mutation. It captures both what changed and
// where, so position-tracking consumers can adjust without re-reading the
// buffer.
type Change struct {
	// Type indicates whether this is an insert, delete, or replace.
	Type ChangeType

	// Start is the first affected position, identical in old and new text.
	Start Position

	// OldEnd is the exclusive end of the replaced range in the OLD text.
	// For inserts, OldEnd == Start.
	OldEnd Position

	// NewEnd is the exclusive end of the replacement in the NEW text.
	// For deletes, NewEnd == Start.
	NewEnd Position

	// OldText is the text that was removed (empty for inserts).
	OldText string

	// NewText is the text that was added (empty for deletes).
	NewText string
}

// NewInsertChange creates a change representing an insertion.
func NewInsertChange(start Position, text string) Change {
	return Change{
		Type:    ChangeInsert,
		Start:   start,
		OldEnd:  start,
		NewEnd:  TextEnd(start, text),
		NewText: text,
	}
}

// NewDeleteChange creates a change representing a deletion.
func NewDeleteChange(start, end Position, oldText string) Change {
	return Change{
		Type:    ChangeDelete,
		Start:   start,
		OldEnd:  end,
		NewEnd:  start,
		OldText: oldText,
	}
}

// NewReplaceChange creates a change representing a replacement.
func NewReplaceChange(start, end Position, oldText, newText string) Change {
	return Change{
		Type:    ChangeReplace,
		Start:   start,
		OldEnd:  end,
		NewEnd:  TextEnd(start, newText),
		OldText: oldText,
		NewText: newText,
	}
}

// String returns a human-readable representation of the change.
func (c Change) String() string {
	switch c.Type {
	case ChangeInsert:
		return fmt.Sprintf("Insert %q at %v", clip(c.NewText), c.Start)
	case ChangeDelete:
		return fmt.Sprintf("Delete %q at %v", clip(c.OldText), c.Start)
	case ChangeReplace:
		return fmt.Sprintf("Replace %q with %q at %v", clip(c.OldText), clip(c.NewText), c.Start)
	default:
		return "Unknown change"
	}
}

func clip(s string) string {
	if len(s) > 20 {
		return s[:17] + "..."
	}
	return s
}

// LineDelta returns the net change in line count.
// Positive means lines were added, negative means lines were removed.
func (c Change) LineDelta() int {
	return (c.NewEnd.Line - c.Start.Line) - (c.OldEnd.Line - c.Start.Line)
}

// IsInsert returns true if this is a pure insertion.
func (c Change) IsInsert() bool {
	return c.Type == ChangeInsert
}

// IsDelete returns true if this is a pure deletion.
func (c Change) IsDelete() bool {
	return c.Type == ChangeDelete
}

// IsReplace returns true if this is a replacement.
func (c Change) IsReplace() bool {
	return c.Type == ChangeReplace
}

// Invert returns a change that undoes this change.
func (c Change) Invert() Change {
	return Change{
		Type:    c.invertedType(),
		Start:   c.Start,
		OldEnd:  c.NewEnd,
		NewEnd:  c.OldEnd,
		OldText: c.NewText,
		NewText: c.OldText,
	}
}

func (c Change) invertedType() ChangeType {
	switch c.Type {
	case ChangeInsert:
		return ChangeDelete
	case ChangeDelete:
		return ChangeInsert
	default:
		return ChangeReplace
	}
}
