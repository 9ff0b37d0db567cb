package host

import "fmt"

// Position is a line and column location in a buffer.
// Both fields are 0-indexed. Column is measured in runes from the start of
// the line.
type Position struct {
	Line int
	Col  int
}

// String returns a human-readable representation of the position.
func (p Position) String() string {
	return fmt.Sprintf("(%d:%d)", p.Line, p.Col)
}

// Compare returns -1 if p < other, 0 if p == other, 1 if p > other.
func (p Position) Compare(other Position) int {
	if p.Line < other.Line {
		return -1
	}
	if p.Line > other.Line {
		return 1
	}
	if p.Col < other.Col {
		return -1
	}
	if p.Col > other.Col {
		return 1
	}
	return 0
}

// Before returns true if p comes before other.
func (p Position) Before(other Position) bool {
	return p.Compare(other) < 0
}

// After returns true if p comes after other.
func (p Position) After(other Position) bool {
	return p.Compare(other) > 0
}

// IsZero returns true if this is the zero position (0:0).
func (p Position) IsZero() bool {
	return p.Line == 0 && p.Col == 0
}

// MinPosition returns the earlier of two positions.
func MinPosition(a, b Position) Position {
	if a.Before(b) {
		return a
	}
	return b
}

// MaxPosition returns the later of two positions.
func MaxPosition(a, b Position) Position {
	if a.After(b) {
		return a
	}
	return b
}

// TextEnd returns the position just past text inserted at start.
// Newlines in text advance the line and reset the column.
func TextEnd(start Position, text string) Position {
	line := start.Line
	col := start.Col
	for _, r := range text {
		if r == '\n' {
			line++
			col = 0
			continue
		}
		col++
	}
	return Position{Line: line, Col: col}
}
