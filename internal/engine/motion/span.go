package motion

import "github.com/dshills/modalkit/internal/host"

// Kind classifies a resolved span.
type Kind uint8

const (
	// Exclusive spans do not cover the character at End.
	Exclusive Kind = iota
	// Inclusive spans covered the character at the motion target;
	// End has already been advanced past it.
	Inclusive
	// Linewise spans cover whole lines from Start.Line through
	// End.Line regardless of columns.
	Linewise
)

// String implements fmt.Stringer.
func (k Kind) String() string {
	switch k {
	case Exclusive:
		return "exclusive"
	case Inclusive:
		return "inclusive"
	case Linewise:
		return "linewise"
	default:
		return "unknown"
	}
}

// Span is a resolved motion range. Start and End are ordered
// (Start never comes after End) and form a half-open range for
// charwise kinds. For linewise spans only the line numbers are
// meaningful: the range covers Start.Line through End.Line entirely.
// Target is the cursor destination when the motion is used for
// navigation instead of as an operator range.
type Span struct {
	Start  host.Position
	End    host.Position
	Kind   Kind
	Target host.Position
}

// IsEmpty reports whether the span covers nothing.
func (s Span) IsEmpty() bool {
	if s.Kind == Linewise {
		return false
	}
	return s.Start == s.End
}

// Lines returns the number of whole lines a linewise span covers.
func (s Span) Lines() int {
	return s.End.Line - s.Start.Line + 1
}
