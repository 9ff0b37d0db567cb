package motion

import (
	"errors"
	"fmt"

	"github.com/dshills/modalkit/internal/engine/mark"
	"github.com/dshills/modalkit/internal/engine/search"
	"github.com/dshills/modalkit/internal/engine/session"
	"github.com/dshills/modalkit/internal/host"
)

var (
	// ErrInvalidTarget indicates the motion has no target here: a
	// character not on the line, no enclosing pair, an unset mark.
	ErrInvalidTarget = errors.New("no target for motion")

	// ErrAmbiguousMotion indicates the keys are an incomplete motion
	// prefix and more input is needed.
	ErrAmbiguousMotion = errors.New("incomplete motion")

	// ErrUnknownMotion indicates the keys name no motion at all.
	ErrUnknownMotion = errors.New("unknown motion")
)

// Options are the settings a resolution consults.
type Options struct {
	// WrapScan lets search motions continue past the buffer edge.
	WrapScan bool
	// IgnoreCase and SmartCase control search-pattern matching.
	IgnoreCase bool
	SmartCase  bool
	// StartOfLine moves the cursor to the first non-blank after
	// linewise jumps such as G and gg.
	StartOfLine bool
	// MatchPairs lists the pairs % jumps between, "(:),{:},[:]" style.
	MatchPairs string
}

// Context carries everything a single resolution needs. The resolver
// itself is stateless; only the session's last-search and
// last-character-search memory is updated, by the motions defined to
// do so.
type Context struct {
	Buffer  host.Buffer
	Pos     host.Position
	Session *session.State
	Search  *search.Service
	Marks   *mark.Map

	// ForOperator selects operator semantics: word motions clamp at
	// line ends and exclusive motions ending in column zero are
	// adjusted per the rules in the package documentation.
	ForOperator bool

	Opt Options
}

// ArgKind says what trailing input a motion needs before it can
// resolve.
type ArgKind uint8

const (
	// ArgNone motions are complete by themselves.
	ArgNone ArgKind = iota
	// ArgRune motions consume one literal key: f t F T ' `.
	ArgRune
	// ArgPattern motions consume a search pattern: / ?.
	ArgPattern
)

// Definition describes one motion in the table.
type Definition struct {
	// Keys is the triggering notation, "w" or "gg" or "i(".
	Keys string
	// Name is a stable identifier for logs and messages.
	Name string
	// Arg is the trailing input the motion requires.
	Arg ArgKind

	resolve func(ctx *Context, d *doc, count int, arg string) (Span, error)
}

// Resolver resolves motion keys into spans.
type Resolver struct {
	table    map[string]*Definition
	prefixes map[string]bool
}

// NewResolver builds the standard motion table.
func NewResolver() *Resolver {
	r := &Resolver{
		table:    make(map[string]*Definition),
		prefixes: make(map[string]bool),
	}
	for _, def := range standardMotions() {
		r.register(def)
	}
	for _, def := range standardTextObjects() {
		r.register(def)
	}
	return r
}

func (r *Resolver) register(def *Definition) {
	r.table[def.Keys] = def
	runes := []rune(def.Keys)
	for i := 1; i < len(runes); i++ {
		r.prefixes[string(runes[:i])] = true
	}
}

// Lookup returns the definition for keys, and whether keys is a
// proper prefix of at least one longer motion.
func (r *Resolver) Lookup(keys string) (*Definition, bool) {
	return r.table[keys], r.prefixes[keys]
}

// Resolve turns a motion into a span. A count of zero means no count
// was typed. The arg carries the trailing input for motions that
// declare one; it is empty otherwise.
func (r *Resolver) Resolve(ctx *Context, keys string, count int, arg string) (Span, error) {
	def, prefix := r.Lookup(keys)
	if def == nil {
		if prefix {
			return Span{}, fmt.Errorf("%w: %q", ErrAmbiguousMotion, keys)
		}
		return Span{}, fmt.Errorf("%w: %q", ErrUnknownMotion, keys)
	}
	if count < 0 {
		count = 0
	}
	d := snapshot(ctx.Buffer)
	if d.lineCount() == 0 {
		return Span{}, fmt.Errorf("%w: empty buffer", ErrInvalidTarget)
	}
	pos := d.clamp(ctx.Pos)
	inner := *ctx
	inner.Pos = pos
	span, err := def.resolve(&inner, d, count, arg)
	if err != nil {
		return Span{}, err
	}
	return span, nil
}

// orOne is the repeat count for motions that default to one.
func orOne(count int) int {
	if count <= 0 {
		return 1
	}
	return count
}

// charwise builds an ordered span between the cursor and a target.
// Inclusive motions cover the rune nearest the end of the buffer, so
// the later bound advances one rune within its line.
func charwise(d *doc, pos, target host.Position, inclusive bool, ctx *Context) Span {
	start, end := pos, target
	if end.Before(start) {
		start, end = end, start
	}
	if inclusive && end.Col < d.lineLen(end.Line) {
		end.Col++
	}
	kind := Exclusive
	if inclusive {
		kind = Inclusive
	}
	span := Span{Start: start, End: end, Kind: kind, Target: target}
	if !inclusive {
		span = adjustExclusive(d, span, ctx)
	}
	return span
}

// adjustExclusive applies the operator rules for exclusive motions
// that end in column zero of a later line: the end retreats to the end
// of the previous line, and when the start sits at or before the first
// non-blank the span becomes linewise.
func adjustExclusive(d *doc, span Span, ctx *Context) Span {
	if !ctx.ForOperator || span.Kind != Exclusive {
		return span
	}
	if span.End.Col != 0 || span.End.Line <= span.Start.Line {
		return span
	}
	if span.Start.Col <= d.firstNonBlank(span.Start.Line) {
		return Span{
			Start:  host.Position{Line: span.Start.Line},
			End:    host.Position{Line: span.End.Line - 1, Col: d.lineLen(span.End.Line - 1)},
			Kind:   Linewise,
			Target: span.Target,
		}
	}
	span.End = host.Position{Line: span.End.Line - 1, Col: d.lineLen(span.End.Line - 1)}
	if span.End.Before(span.Start) {
		span.End = span.Start
	}
	return span
}

// linewise builds a whole-line span between two lines.
func linewise(d *doc, fromLine, toLine int, target host.Position) Span {
	if toLine < fromLine {
		fromLine, toLine = toLine, fromLine
	}
	last := d.lineCount() - 1
	if fromLine < 0 {
		fromLine = 0
	}
	if toLine > last {
		toLine = last
	}
	return Span{
		Start:  host.Position{Line: fromLine},
		End:    host.Position{Line: toLine, Col: d.lineLen(toLine)},
		Kind:   Linewise,
		Target: d.clamp(target),
	}
}
