package mark

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/dshills/modalkit/internal/host"
)

// Errors returned by mark operations.
var (
	// ErrInvalidName indicates the rune does not name a mark.
	ErrInvalidName = errors.New("invalid mark name")

	// ErrNotSet indicates the mark has no position.
	ErrNotSet = errors.New("mark not set")
)

// Mark is a remembered position in a buffer.
type Mark struct {
	// Name is the mark character.
	Name rune

	// Buffer identifies the buffer the mark lives in.
	Buffer uuid.UUID

	// Pos is the marked position.
	Pos host.Position
}

// contextMarks are the marks maintained by the editor itself.
var contextMarks = map[rune]bool{
	'\'': true,
	'`':  true,
	'.':  true,
	'^':  true,
	'[':  true,
	']':  true,
	'<':  true,
	'>':  true,
}

// Valid reports whether the rune names a mark.
func Valid(name rune) bool {
	switch {
	case name >= 'a' && name <= 'z':
		return true
	case name >= 'A' && name <= 'Z':
		return true
	default:
		return contextMarks[name]
	}
}

// normalize folds the two spellings of the previous-context mark.
func normalize(name rune) rune {
	if name == '`' {
		return '\''
	}
	return name
}

// Map stores all marks for a session. All methods are safe for
// concurrent use.
type Map struct {
	mu sync.RWMutex

	// local holds a-z and context marks, per buffer.
	local map[uuid.UUID]map[rune]host.Position

	// global holds A-Z with their owning buffer.
	global map[rune]Mark
}

// NewMap creates an empty mark map.
func NewMap() *Map {
	return &Map{
		local:  make(map[uuid.UUID]map[rune]host.Position),
		global: make(map[rune]Mark),
	}
}

// Set stores a mark. Lowercase and context marks are local to buf;
// uppercase marks record buf as their owning buffer.
func (m *Map) Set(name rune, buf uuid.UUID, pos host.Position) error {
	name = normalize(name)
	if !Valid(name) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if name >= 'A' && name <= 'Z' {
		m.global[name] = Mark{Name: name, Buffer: buf, Pos: pos}
		return nil
	}

	marks, ok := m.local[buf]
	if !ok {
		marks = make(map[rune]host.Position)
		m.local[buf] = marks
	}
	marks[name] = pos
	return nil
}

// Get returns a mark's position. For local marks, buf selects the
// buffer; global marks ignore it.
func (m *Map) Get(name rune, buf uuid.UUID) (Mark, error) {
	name = normalize(name)
	if !Valid(name) {
		return Mark{}, fmt.Errorf("%w: %q", ErrInvalidName, name)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	if name >= 'A' && name <= 'Z' {
		mark, ok := m.global[name]
		if !ok {
			return Mark{}, fmt.Errorf("%w: %q", ErrNotSet, name)
		}
		return mark, nil
	}

	pos, ok := m.local[buf][name]
	if !ok {
		return Mark{}, fmt.Errorf("%w: %q", ErrNotSet, name)
	}
	return Mark{Name: name, Buffer: buf, Pos: pos}, nil
}

// Delete removes a mark.
func (m *Map) Delete(name rune, buf uuid.UUID) error {
	name = normalize(name)
	if !Valid(name) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if name >= 'A' && name <= 'Z' {
		delete(m.global, name)
		return nil
	}
	delete(m.local[buf], name)
	return nil
}

// DeleteBuffer removes the lowercase marks of a buffer, keeping the
// context marks. This is the :delmarks! behavior.
func (m *Map) DeleteBuffer(buf uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()

	marks := m.local[buf]
	for name := range marks {
		if name >= 'a' && name <= 'z' {
			delete(marks, name)
		}
	}
}

// All returns the marks visible from buf in listing order: local a-z,
// global A-Z, then context marks.
func (m *Map) All(buf uuid.UUID) []Mark {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []Mark

	local := m.local[buf]
	lowers := make([]rune, 0, len(local))
	contexts := make([]rune, 0, len(local))
	for name := range local {
		if name >= 'a' && name <= 'z' {
			lowers = append(lowers, name)
		} else {
			contexts = append(contexts, name)
		}
	}
	sort.Slice(lowers, func(i, j int) bool { return lowers[i] < lowers[j] })
	sort.Slice(contexts, func(i, j int) bool { return contexts[i] < contexts[j] })

	for _, name := range lowers {
		out = append(out, Mark{Name: name, Buffer: buf, Pos: local[name]})
	}

	uppers := make([]rune, 0, len(m.global))
	for name := range m.global {
		uppers = append(uppers, name)
	}
	sort.Slice(uppers, func(i, j int) bool { return uppers[i] < uppers[j] })
	for _, name := range uppers {
		out = append(out, m.global[name])
	}

	for _, name := range contexts {
		out = append(out, Mark{Name: name, Buffer: buf, Pos: local[name]})
	}

	return out
}

// Adjust moves the marks of a buffer to follow an edit. Marks whose
// line was deleted are removed.
func (m *Map) Adjust(buf uuid.UUID, change host.Change) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if marks, ok := m.local[buf]; ok {
		for name, pos := range marks {
			next, ok := AdjustPosition(pos, change)
			if !ok {
				delete(marks, name)
				continue
			}
			marks[name] = next
		}
	}

	for name, mark := range m.global {
		if mark.Buffer != buf {
			continue
		}
		next, ok := AdjustPosition(mark.Pos, change)
		if !ok {
			delete(m.global, name)
			continue
		}
		mark.Pos = next
		m.global[name] = mark
	}
}

// AdjustPosition transforms a position through an edit. The second
// return is false when the position's line was removed outright, which
// happens only for pure deletions that take whole lines with them.
// Positions inside a replaced range snap to the start of the change.
func AdjustPosition(p host.Position, c host.Change) (host.Position, bool) {
	// Entirely before the change.
	if p.Before(c.Start) {
		return p, true
	}

	lineDelta := c.NewEnd.Line - c.OldEnd.Line

	// At or past the old end of the change: shift by the delta.
	if p.Compare(c.OldEnd) >= 0 {
		if p.Line == c.OldEnd.Line {
			return host.Position{
				Line: c.NewEnd.Line,
				Col:  c.NewEnd.Col + (p.Col - c.OldEnd.Col),
			}, true
		}
		return host.Position{Line: p.Line + lineDelta, Col: p.Col}, true
	}

	// Inside the changed range. Pure deletions remove the lines they
	// fully cover, and marks on those lines go with them.
	if c.NewText == "" {
		interior := p.Line > c.Start.Line && p.Line < c.OldEnd.Line
		firstLineGone := p.Line == c.Start.Line && c.Start.Col == 0 && c.OldEnd.Line > c.Start.Line
		if interior || firstLineGone {
			return host.Position{}, false
		}
	}

	return c.Start, true
}
