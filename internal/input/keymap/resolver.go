package keymap

import (
	"errors"
	"fmt"
	"sync"

	"github.com/dshills/modalkit/internal/input/key"
)

// DefaultMaxDepth is the default expansion depth limit, the initial
// value of the maxmapdepth option.
const DefaultMaxDepth = 100

// ErrRecursiveMapping is returned when mapping expansion exceeds the
// depth limit.
var ErrRecursiveMapping = errors.New("recursive mapping")

// Outcome classifies the result of a resolution pass.
type Outcome int

const (
	// NoMapping means no mapping touched the sequence; the caller
	// processes the raw keys.
	NoMapping Outcome = iota

	// Mapped means the sequence fully resolved; Result.Keys holds
	// the expansion.
	Mapped

	// NeedsMoreInput means a strictly longer mapping could still
	// match; the caller keeps the raw keys pending.
	NeedsMoreInput

	// Recursive means expansion exceeded the depth limit; the caller
	// passes the raw keys through unmapped.
	Recursive
)

// String returns the outcome name.
func (o Outcome) String() string {
	switch o {
	case NoMapping:
		return "NoMapping"
	case Mapped:
		return "Mapped"
	case NeedsMoreInput:
		return "NeedsMoreInput"
	case Recursive:
		return "Recursive"
	default:
		return "Unknown"
	}
}

// Result is the outcome of one resolution pass.
type Result struct {
	// Outcome classifies the pass.
	Outcome Outcome

	// Keys holds the expanded sequence when Outcome is Mapped.
	Keys *key.Sequence

	// Depth is the number of substitutions applied during the pass.
	Depth int
}

// Resolver holds the registered mappings and resolves key sequences
// against them. User and default mappings share one resolver; adding a
// mapping with the same keys and mode as an existing one replaces it.
type Resolver struct {
	mu       sync.RWMutex
	root     *node
	maxDepth int
}

// node is one level of the mapping prefix tree. Children are keyed by
// the next input; entries map mode names to the mapping ending here,
// with "" holding the all-modes entry.
type node struct {
	children map[key.Input]*node
	entries  map[string]*parsedMapping
}

func newNode() *node {
	return &node{children: make(map[key.Input]*node)}
}

// entry returns the mapping visible in mode at this node, preferring a
// mode-specific entry over the all-modes entry.
func (n *node) entry(mode string) *parsedMapping {
	if len(n.entries) == 0 {
		return nil
	}
	if mode != "" {
		if m, ok := n.entries[mode]; ok {
			return m
		}
	}
	return n.entries[""]
}

// childrenHaveEntry reports whether any strictly deeper node carries an
// entry visible in mode.
func (n *node) childrenHaveEntry(mode string) bool {
	for _, child := range n.children {
		if child.entry(mode) != nil || child.childrenHaveEntry(mode) {
			return true
		}
	}
	return false
}

// NewResolver creates an empty resolver with the default depth limit.
func NewResolver() *Resolver {
	return &Resolver{
		root:     newNode(),
		maxDepth: DefaultMaxDepth,
	}
}

// SetMaxDepth sets the expansion depth limit. Values below 1 restore
// the default.
func (r *Resolver) SetMaxDepth(n int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if n < 1 {
		n = DefaultMaxDepth
	}
	r.maxDepth = n
}

// Add registers a mapping. An existing mapping with the same keys and
// mode is replaced; other modes of the old entry are untouched.
func (r *Resolver) Add(m Mapping) error {
	pm, err := m.parse()
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	n := r.root
	for _, in := range pm.keys {
		child, ok := n.children[in]
		if !ok {
			child = newNode()
			n.children[in] = child
		}
		n = child
	}
	if n.entries == nil {
		n.entries = make(map[string]*parsedMapping)
	}
	for _, mode := range m.modeSet() {
		n.entries[mode] = pm
	}
	return nil
}

// Remove deletes the mapping for keys in the given modes. An empty mode
// list targets the all-modes entry. It reports whether anything was
// removed.
func (r *Resolver) Remove(keys string, modes ...string) bool {
	seq, err := key.ParseSequence(keys)
	if err != nil || seq.IsEmpty() {
		return false
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	path := make([]*node, 0, seq.Len()+1)
	path = append(path, r.root)
	n := r.root
	for _, in := range seq.Inputs {
		child, ok := n.children[in]
		if !ok {
			return false
		}
		path = append(path, child)
		n = child
	}

	scope := modes
	if len(scope) == 0 {
		scope = []string{""}
	}
	removed := false
	for _, mode := range scope {
		if _, ok := n.entries[mode]; ok {
			delete(n.entries, mode)
			removed = true
		}
	}
	if removed {
		prune(path, seq.Inputs)
	}
	return removed
}

// prune removes empty nodes along the path, leaf to root.
func prune(path []*node, inputs []key.Input) {
	for i := len(path) - 1; i > 0; i-- {
		n := path[i]
		if len(n.entries) > 0 || len(n.children) > 0 {
			break
		}
		delete(path[i-1].children, inputs[i-1])
	}
}

// Clear removes every mapping in the given modes. With no modes it
// empties the resolver entirely.
func (r *Resolver) Clear(modes ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(modes) == 0 {
		r.root = newNode()
		return
	}
	clearModes(r.root, modes)
}

func clearModes(n *node, modes []string) {
	for _, mode := range modes {
		delete(n.entries, mode)
	}
	for in, child := range n.children {
		clearModes(child, modes)
		if len(child.entries) == 0 && len(child.children) == 0 {
			delete(n.children, in)
		}
	}
}

// Mappings returns the mappings visible in mode, sorted for listing.
// A mode of "" returns every registered mapping.
func (r *Resolver) Mappings(mode string) []Mapping {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[*parsedMapping]bool)
	var out []Mapping
	collectMappings(r.root, mode, seen, &out)
	sortMappings(out)
	return out
}

func collectMappings(n *node, mode string, seen map[*parsedMapping]bool, out *[]Mapping) {
	for entryMode, pm := range n.entries {
		if mode != "" && entryMode != "" && entryMode != mode {
			continue
		}
		if seen[pm] {
			continue
		}
		seen[pm] = true
		*out = append(*out, pm.Mapping)
	}
	for _, child := range n.children {
		collectMappings(child, mode, seen, out)
	}
}

// Resolve performs one resolution pass of seq in mode. The resolver
// holds no per-sequence state: on NeedsMoreInput the caller keeps the
// raw keys and calls Resolve again with the extended sequence.
func (r *Resolver) Resolve(mode string, seq *key.Sequence) (Result, error) {
	return r.expand(mode, seq, false)
}

// Flush performs a best-effort pass: where Resolve would defer to a
// possible longer mapping, Flush applies the longest complete match in
// hand or passes the head through raw. The host calls this, via the
// controller, after timeoutlen of inactivity.
func (r *Resolver) Flush(mode string, seq *key.Sequence) (Result, error) {
	return r.expand(mode, seq, true)
}

// flaggedInput is a working-sequence input. final marks keys produced
// by a NoRemap replacement, which are never re-scanned.
type flaggedInput struct {
	in    key.Input
	final bool
}

func (r *Resolver) expand(mode string, seq *key.Sequence, flush bool) (Result, error) {
	if seq == nil || seq.IsEmpty() {
		return Result{Outcome: NoMapping}, nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	work := make([]flaggedInput, seq.Len())
	for i, in := range seq.Inputs {
		work[i] = flaggedInput{in: in}
	}
	out := key.NewSequence()
	depth := 0
	substituted := false

	for len(work) > 0 {
		head := work[0]
		if head.final {
			out.Add(head.in)
			work = work[1:]
			continue
		}

		match, matchLen, open := r.matchHead(mode, work)
		if open && !flush {
			return Result{Outcome: NeedsMoreInput, Depth: depth}, nil
		}
		if match == nil {
			out.Add(head.in)
			work = work[1:]
			continue
		}

		depth++
		if depth > r.maxDepth {
			return Result{Outcome: Recursive, Depth: depth},
				fmt.Errorf("%w: expanding %q exceeded depth %d", ErrRecursiveMapping, match.Keys, r.maxDepth)
		}

		rest := work[matchLen:]
		next := make([]flaggedInput, 0, len(match.replacement)+len(rest))
		for _, in := range match.replacement {
			next = append(next, flaggedInput{in: in, final: match.NoRemap})
		}
		work = append(next, rest...)
		substituted = true
	}

	if !substituted {
		return Result{Outcome: NoMapping}, nil
	}
	return Result{Outcome: Mapped, Keys: out, Depth: depth}, nil
}

// matchHead finds the longest mapping matching a prefix of work in
// mode. open reports whether a strictly longer mapping could match if
// more input arrived. Keys flagged final stop the walk: a mapping never
// consumes the output of a NoRemap replacement.
func (r *Resolver) matchHead(mode string, work []flaggedInput) (match *parsedMapping, matchLen int, open bool) {
	n := r.root
	for i, f := range work {
		if f.final {
			return match, matchLen, false
		}
		child, ok := n.children[f.in]
		if !ok {
			return match, matchLen, false
		}
		n = child
		if m := n.entry(mode); m != nil {
			match, matchLen = m, i+1
		}
	}
	return match, matchLen, n.childrenHaveEntry(mode)
}
