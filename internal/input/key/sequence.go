package key

import (
	"strings"
)

// Sequence represents a series of key inputs forming a command.
// Examples: "gg" (go to top), "diw" (delete inner word), "<C-x><C-s>".
type Sequence struct {
	// Inputs contains the key inputs in order.
	Inputs []Input
}

// NewSequence creates an empty key sequence.
func NewSequence() *Sequence {
	return &Sequence{
		Inputs: make([]Input, 0, 4), // Most sequences are short
	}
}

// NewSequenceFrom creates a sequence from the given inputs.
func NewSequenceFrom(inputs ...Input) *Sequence {
	return &Sequence{
		Inputs: inputs,
	}
}

// Len returns the number of inputs in the sequence.
func (s *Sequence) Len() int {
	return len(s.Inputs)
}

// IsEmpty returns true if the sequence has no inputs.
func (s *Sequence) IsEmpty() bool {
	return len(s.Inputs) == 0
}

// Add appends an input to the sequence.
func (s *Sequence) Add(in Input) {
	s.Inputs = append(s.Inputs, in)
}

// Clear removes all inputs from the sequence.
func (s *Sequence) Clear() {
	s.Inputs = s.Inputs[:0]
}

// Last returns the last input, or nil if empty.
func (s *Sequence) Last() *Input {
	if len(s.Inputs) == 0 {
		return nil
	}
	return &s.Inputs[len(s.Inputs)-1]
}

// String returns a human-readable representation.
// Examples: "g g", "d i w", "C-s"
func (s *Sequence) String() string {
	if len(s.Inputs) == 0 {
		return ""
	}

	parts := make([]string, len(s.Inputs))
	for i, in := range s.Inputs {
		parts[i] = in.String()
	}
	return strings.Join(parts, " ")
}

// VimString returns a Vim-style representation.
// Examples: "gg", "diw", "<C-s>"
func (s *Sequence) VimString() string {
	if len(s.Inputs) == 0 {
		return ""
	}

	var sb strings.Builder
	for _, in := range s.Inputs {
		sb.WriteString(in.VimString())
	}
	return sb.String()
}

// Equals returns true if two sequences are identical.
func (s *Sequence) Equals(other *Sequence) bool {
	if s == nil || other == nil {
		return s == other
	}
	if len(s.Inputs) != len(other.Inputs) {
		return false
	}
	for i, in := range s.Inputs {
		if in != other.Inputs[i] {
			return false
		}
	}
	return true
}

// HasPrefix returns true if this sequence starts with the given prefix.
func (s *Sequence) HasPrefix(prefix *Sequence) bool {
	if prefix == nil || prefix.IsEmpty() {
		return true
	}
	if len(prefix.Inputs) > len(s.Inputs) {
		return false
	}
	for i, in := range prefix.Inputs {
		if in != s.Inputs[i] {
			return false
		}
	}
	return true
}

// Clone returns a copy of the sequence.
func (s *Sequence) Clone() *Sequence {
	if s == nil {
		return nil
	}
	inputs := make([]Input, len(s.Inputs))
	copy(inputs, s.Inputs)
	return &Sequence{Inputs: inputs}
}

// Slice returns a new sequence containing inputs from start to end (exclusive).
func (s *Sequence) Slice(start, end int) *Sequence {
	if start < 0 {
		start = 0
	}
	if end > len(s.Inputs) {
		end = len(s.Inputs)
	}
	if start >= end {
		return NewSequence()
	}
	inputs := make([]Input, end-start)
	copy(inputs, s.Inputs[start:end])
	return &Sequence{Inputs: inputs}
}

// Tail returns a new sequence without the first n inputs.
func (s *Sequence) Tail(n int) *Sequence {
	return s.Slice(n, len(s.Inputs))
}

// Append creates a new sequence by appending inputs from another sequence.
func (s *Sequence) Append(other *Sequence) *Sequence {
	if other == nil || other.IsEmpty() {
		return s.Clone()
	}

	inputs := make([]Input, len(s.Inputs)+len(other.Inputs))
	copy(inputs, s.Inputs)
	copy(inputs[len(s.Inputs):], other.Inputs)
	return &Sequence{Inputs: inputs}
}

// AsString returns the sequence as a string if it contains only unmodified
// runes. Returns empty string and false otherwise.
func (s *Sequence) AsString() (string, bool) {
	if len(s.Inputs) == 0 {
		return "", false
	}

	var sb strings.Builder
	for _, in := range s.Inputs {
		if !in.IsRune() || in.IsModified() {
			return "", false
		}
		sb.WriteRune(in.Rune)
	}
	return sb.String(), true
}

// ParseSequence parses a key sequence string into a Sequence.
// The string is read as a continuous Vim-style sequence: plain runes plus
// <...> chunks. An unmatched '<' is taken literally.
// Examples: "gg", "diw", "<C-x><C-s>", "3dw"
func ParseSequence(s string) (*Sequence, error) {
	seq := NewSequence()
	runes := []rune(s)

	i := 0
	for i < len(runes) {
		if runes[i] == '<' {
			end := indexRune(runes[i:], '>')
			if end <= 1 {
				// No closing '>' or an empty "<>": literal '<'.
				seq.Add(NewRune('<'))
				i++
				continue
			}

			in, err := Parse(string(runes[i : i+end+1]))
			if err != nil {
				return nil, err
			}
			seq.Add(in)
			i += end + 1
			continue
		}

		seq.Add(NewRune(runes[i]))
		i++
	}

	return seq, nil
}

func indexRune(runes []rune, r rune) int {
	for i, c := range runes {
		if c == r {
			return i
		}
	}
	return -1
}

// MustParseSequence parses a sequence string and panics on error.
// Use only for known-valid sequences in initialization code.
func MustParseSequence(s string) *Sequence {
	seq, err := ParseSequence(s)
	if err != nil {
		panic("invalid key sequence: " + s + ": " + err.Error())
	}
	return seq
}
