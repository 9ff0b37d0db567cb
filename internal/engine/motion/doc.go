// Package motion resolves motions and text objects into buffer spans.
//
// A motion is identified by its key notation ("w", "gg", "f" with a
// character argument, "i(" for a text object) and resolves against a
// cursor position to a Span: a half-open [Start, End) range, the span
// kind (exclusive, inclusive, or linewise), and the position the
// cursor lands on when the motion is used for navigation rather than
// with an operator.
//
// # Word Classes
//
// Lowercase word motions (w b e ge) classify runes into three classes:
// whitespace, word characters (letters, digits, underscore), and other
// punctuation. A run of a single class forms a word. Uppercase WORD
// motions (W B E gE) use two classes: whitespace and everything else.
// An empty line is a word stop for w, W, b, and B.
//
// # Counts
//
// Most motions repeat count times. For G, gg, and | the count is a
// target line or column instead, and for % a count selects a
// percentage of the file while no count jumps to the matching pair.
// A count of zero means no count was given.
//
// # Arguments
//
// Find-character motions (f t F T) and mark motions (' `) take a
// one-rune argument; search motions (/ ?) take a pattern string. The
// Definition for a motion reports which it needs. Find-character and
// search motions record themselves in the shared session state so
// that ; , n and N can repeat them.
//
// # Operator Context
//
// When resolving on behalf of an operator, an exclusive motion whose
// end lands in column zero is adjusted the way users expect from the
// original modal editors: the end moves back to the end of the
// previous line, and if the start sits at or before the first
// non-blank the whole span becomes linewise.
package motion
