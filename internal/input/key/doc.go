// Package key provides the canonical key-input model for the interpreter.
//
// This package defines the fundamental types for representing keyboard
// input:
//
//   - Key: Identifies a keyboard key (special keys, function keys, or runes)
//   - Modifier: Represents modifier keys (Ctrl, Alt, Shift, Meta)
//   - Input: A single key press; equality and hashing are structural
//   - Sequence: A series of inputs forming a command
//
// Input carries no timestamp or source information: two inputs with the
// same key, rune, and modifiers are interchangeable wherever they appear.
// For rune inputs the Shift modifier is folded into the rune itself at
// construction, so 'A' and Shift-'a' are one value.
//
// # Key Specifications
//
// Key specifications can be written in multiple formats:
//
//   - Simple keys: "a", "A", "1", "Enter", "Escape"
//   - With modifiers: "Ctrl+S", "Alt+F4", "Ctrl+Shift+P"
//   - Vim-style: "<C-s>", "<A-f>", "<C-S-p>", "<CR>", "<Esc>"
//
// # Sequences
//
// Multi-key sequences like "gg" or "diw" are Sequence values. Sequences
// round-trip through Vim notation: VimString emits "<lt>" for a literal
// '<' and "<Space>" for a space so that ParseSequence(s.VimString())
// reproduces s exactly. Macro storage depends on this round-trip.
package key
