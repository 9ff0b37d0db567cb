package register

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"unicode"

	"github.com/dshills/modalkit/internal/host"
)

// Errors returned by register operations.
var (
	// ErrInvalidName indicates the rune does not name a register.
	ErrInvalidName = errors.New("invalid register name")

	// ErrReadOnly indicates a write to a read-only register.
	ErrReadOnly = errors.New("register is read-only")
)

// Shape describes how register text is reinserted by a put.
type Shape uint8

const (
	// ShapeCharwise text is inserted at the cursor position.
	ShapeCharwise Shape = iota

	// ShapeLinewise text is inserted as whole lines.
	ShapeLinewise

	// ShapeBlockwise text is inserted as a rectangular block.
	ShapeBlockwise
)

// String returns the shape name.
func (s Shape) String() string {
	switch s {
	case ShapeCharwise:
		return "charwise"
	case ShapeLinewise:
		return "linewise"
	case ShapeBlockwise:
		return "blockwise"
	default:
		return "unknown"
	}
}

// TypeChar returns the single-letter tag used in register listings.
func (s Shape) TypeChar() byte {
	switch s {
	case ShapeLinewise:
		return 'l'
	case ShapeBlockwise:
		return 'b'
	default:
		return 'c'
	}
}

// Value is the content of a register. Linewise text is stored without
// a trailing newline; the shape carries the line orientation.
type Value struct {
	Text  string
	Shape Shape
}

// IsEmpty reports whether the value holds no text.
func (v Value) IsEmpty() bool {
	return v.Text == ""
}

// ClipboardMode controls aliasing of the unnamed register to the
// system clipboard, per the clipboard option.
type ClipboardMode uint8

const (
	// ClipboardNone leaves the unnamed register internal.
	ClipboardNone ClipboardMode = iota

	// ClipboardUnnamed aliases the unnamed register to *.
	ClipboardUnnamed

	// ClipboardUnnamedPlus aliases the unnamed register to +.
	ClipboardUnnamedPlus
)

// ParseClipboardMode interprets a clipboard option value such as
// "unnamed" or "unnamedplus". Unknown entries are ignored.
func ParseClipboardMode(s string) ClipboardMode {
	mode := ClipboardNone
	for _, part := range strings.Split(s, ",") {
		switch strings.TrimSpace(part) {
		case "unnamedplus":
			return ClipboardUnnamedPlus
		case "unnamed":
			mode = ClipboardUnnamed
		}
	}
	return mode
}

// Snapshot pairs a register name with its current value, for listings.
type Snapshot struct {
	Name  rune
	Value Value
}

// Store manages all registers. All methods are safe for concurrent
// use. Clipboard access happens outside the store lock.
type Store struct {
	mu sync.RWMutex

	named    map[rune]Value
	numbered [10]Value
	unnamed  Value
	small    Value

	lastInserted Value
	lastCommand  string
	lastSearch   string
	fileName     string
	alternate    string

	expression string
	exprResult Value

	clipboard     host.Clipboard
	clipboardMode ClipboardMode

	// Fallback storage for + and * without a clipboard provider.
	clipFallback map[rune]Value
}

// NewStore creates an empty register store.
func NewStore() *Store {
	return &Store{
		named:        make(map[rune]Value),
		clipFallback: make(map[rune]Value),
	}
}

// SetClipboard sets the host clipboard used by the + and * registers.
func (s *Store) SetClipboard(cb host.Clipboard) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clipboard = cb
}

// SetClipboardMode sets the unnamed-register aliasing mode.
func (s *Store) SetClipboardMode(mode ClipboardMode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clipboardMode = mode
}

// Valid reports whether the rune names a register.
func Valid(name rune) bool {
	switch {
	case name == '"':
		return true
	case name >= 'a' && name <= 'z':
		return true
	case name >= 'A' && name <= 'Z':
		return true
	case name >= '0' && name <= '9':
		return true
	case name == '-', name == '_', name == '.':
		return true
	case name == '%', name == '#', name == ':':
		return true
	case name == '/', name == '=':
		return true
	case name == '+', name == '*':
		return true
	default:
		return false
	}
}

// readOnly reports whether the register rejects writes.
func readOnly(name rune) bool {
	switch name {
	case '.', ':', '/', '%', '#':
		return true
	default:
		return false
	}
}

// Read returns the current value of a register.
func (s *Store) Read(name rune) (Value, error) {
	switch {
	case name == '"':
		if alias := s.unnamedAlias(); alias != 0 {
			return s.readClipboard(alias)
		}
		s.mu.RLock()
		defer s.mu.RUnlock()
		return s.unnamed, nil

	case name >= 'a' && name <= 'z':
		s.mu.RLock()
		defer s.mu.RUnlock()
		return s.named[name], nil

	case name >= 'A' && name <= 'Z':
		s.mu.RLock()
		defer s.mu.RUnlock()
		return s.named[unicode.ToLower(name)], nil

	case name >= '0' && name <= '9':
		s.mu.RLock()
		defer s.mu.RUnlock()
		return s.numbered[name-'0'], nil

	case name == '-':
		s.mu.RLock()
		defer s.mu.RUnlock()
		return s.small, nil

	case name == '_':
		return Value{}, nil

	case name == '.':
		s.mu.RLock()
		defer s.mu.RUnlock()
		return s.lastInserted, nil

	case name == ':':
		s.mu.RLock()
		defer s.mu.RUnlock()
		return Value{Text: s.lastCommand}, nil

	case name == '/':
		s.mu.RLock()
		defer s.mu.RUnlock()
		return Value{Text: s.lastSearch}, nil

	case name == '%':
		s.mu.RLock()
		defer s.mu.RUnlock()
		return Value{Text: s.fileName}, nil

	case name == '#':
		s.mu.RLock()
		defer s.mu.RUnlock()
		return Value{Text: s.alternate}, nil

	case name == '=':
		s.mu.RLock()
		defer s.mu.RUnlock()
		return s.exprResult, nil

	case name == '+' || name == '*':
		return s.readClipboard(name)

	default:
		return Value{}, fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
}

// Write stores a value in a register. Uppercase names append to the
// lowercase register, promoting the shape to linewise when either side
// is linewise.
func (s *Store) Write(name rune, v Value) error {
	_, err := s.write(name, v)
	return err
}

// write stores a value and returns the register's resulting content,
// which differs from v for appending writes.
func (s *Store) write(name rune, v Value) (Value, error) {
	switch {
	case name == '_':
		return Value{}, nil

	case readOnly(name):
		return Value{}, fmt.Errorf("%w: %q", ErrReadOnly, name)

	case name == '"':
		if alias := s.unnamedAlias(); alias != 0 {
			if err := s.writeClipboard(alias, v); err != nil {
				return Value{}, err
			}
		}
		s.mu.Lock()
		defer s.mu.Unlock()
		s.unnamed = v
		return v, nil

	case name >= 'a' && name <= 'z':
		s.mu.Lock()
		defer s.mu.Unlock()
		s.named[name] = v
		return v, nil

	case name >= 'A' && name <= 'Z':
		lower := unicode.ToLower(name)
		s.mu.Lock()
		defer s.mu.Unlock()
		merged := appendValue(s.named[lower], v)
		s.named[lower] = merged
		return merged, nil

	case name >= '0' && name <= '9':
		s.mu.Lock()
		defer s.mu.Unlock()
		s.numbered[name-'0'] = v
		return v, nil

	case name == '-':
		s.mu.Lock()
		defer s.mu.Unlock()
		s.small = v
		return v, nil

	case name == '=':
		s.mu.Lock()
		defer s.mu.Unlock()
		s.expression = v.Text
		return v, nil

	case name == '+' || name == '*':
		if err := s.writeClipboard(name, v); err != nil {
			return Value{}, err
		}
		return v, nil

	default:
		return Value{}, fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
}

// appendValue merges an appending write into existing content. A
// linewise participant makes the result linewise with a newline join.
func appendValue(old, add Value) Value {
	if old.IsEmpty() {
		return add
	}
	if old.Shape == ShapeLinewise || add.Shape == ShapeLinewise {
		return Value{Text: old.Text + "\n" + add.Text, Shape: ShapeLinewise}
	}
	return Value{Text: old.Text + add.Text, Shape: old.Shape}
}

// RecordYank routes yanked text. A name of 0 means no register was
// specified: the yank lands in register 0 and the unnamed register.
// An explicit register receives the text directly, with the unnamed
// register mirroring the result.
func (s *Store) RecordYank(name rune, v Value) error {
	if name == '_' {
		return nil
	}
	if name == 0 {
		s.mu.Lock()
		s.numbered[0] = v
		s.unnamed = v
		s.mu.Unlock()
		return s.syncClipboard(v)
	}

	if !Valid(name) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	stored, err := s.write(name, v)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.unnamed = stored
	s.mu.Unlock()
	return nil
}

// RecordDelete routes deleted text. A name of 0 means no register was
// specified: a small delete (less than one line) lands in the - register
// while larger deletes shift the 1-9 ring, dropping the oldest entry.
// An explicit register bypasses the ring. The unnamed register mirrors
// the result in every case.
func (s *Store) RecordDelete(name rune, v Value, small bool) error {
	if name == '_' {
		return nil
	}
	if name == 0 {
		s.mu.Lock()
		if small {
			s.small = v
		} else {
			copy(s.numbered[2:], s.numbered[1:9])
			s.numbered[1] = v
		}
		s.unnamed = v
		s.mu.Unlock()
		return s.syncClipboard(v)
	}

	if !Valid(name) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	stored, err := s.write(name, v)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.unnamed = stored
	s.mu.Unlock()
	return nil
}

// RecordInsert updates the last-inserted register.
func (s *Store) RecordInsert(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastInserted = Value{Text: text}
}

// SetLastCommand updates the : register.
func (s *Store) SetLastCommand(cmd string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastCommand = cmd
}

// SetLastSearch updates the / register.
func (s *Store) SetLastSearch(pattern string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSearch = pattern
}

// SetFileName updates the % register.
func (s *Store) SetFileName(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fileName = name
}

// SetAlternate updates the # register.
func (s *Store) SetAlternate(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.alternate = name
}

// SetExpression records the expression text entered at the = prompt.
func (s *Store) SetExpression(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expression = text
}

// Expression returns the last expression text, for prompt recall.
func (s *Store) Expression() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.expression
}

// SetExpressionResult stores the value produced by evaluating the
// expression register; subsequent reads of = return it.
func (s *Store) SetExpressionResult(v Value) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.exprResult = v
}

// All returns the non-empty internal registers in listing order.
// Clipboard registers are excluded; they are read on demand.
func (s *Store) All() []Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Snapshot
	add := func(name rune, v Value) {
		if !v.IsEmpty() {
			out = append(out, Snapshot{Name: name, Value: v})
		}
	}

	add('"', s.unnamed)
	for i := 0; i <= 9; i++ {
		add(rune('0'+i), s.numbered[i])
	}
	add('-', s.small)
	for r := 'a'; r <= 'z'; r++ {
		add(r, s.named[r])
	}
	add('.', s.lastInserted)
	add(':', Value{Text: s.lastCommand})
	add('%', Value{Text: s.fileName})
	add('#', Value{Text: s.alternate})
	add('/', Value{Text: s.lastSearch})
	add('=', s.exprResult)

	return out
}

// unnamedAlias returns the clipboard register the unnamed register
// aliases to, or 0 when aliasing is off.
func (s *Store) unnamedAlias() rune {
	s.mu.RLock()
	defer s.mu.RUnlock()
	switch s.clipboardMode {
	case ClipboardUnnamed:
		return '*'
	case ClipboardUnnamedPlus:
		return '+'
	default:
		return 0
	}
}

// syncClipboard mirrors an unnamed-register write to the clipboard
// when aliasing is active.
func (s *Store) syncClipboard(v Value) error {
	alias := s.unnamedAlias()
	if alias == 0 {
		return nil
	}
	return s.writeClipboard(alias, v)
}

// readClipboard reads a clipboard register through the provider. Text
// ending in a newline is reported linewise with the newline stripped.
func (s *Store) readClipboard(name rune) (Value, error) {
	s.mu.RLock()
	cb := s.clipboard
	s.mu.RUnlock()

	if cb == nil {
		s.mu.RLock()
		defer s.mu.RUnlock()
		return s.clipFallback[name], nil
	}

	text, err := cb.Read()
	if err != nil {
		return Value{}, fmt.Errorf("clipboard read: %w", err)
	}
	if strings.HasSuffix(text, "\n") {
		return Value{Text: strings.TrimSuffix(text, "\n"), Shape: ShapeLinewise}, nil
	}
	return Value{Text: text}, nil
}

// writeClipboard writes through the provider, restoring the trailing
// newline that marks linewise content.
func (s *Store) writeClipboard(name rune, v Value) error {
	s.mu.RLock()
	cb := s.clipboard
	s.mu.RUnlock()

	if cb == nil {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.clipFallback[name] = v
		return nil
	}

	text := v.Text
	if v.Shape == ShapeLinewise && !strings.HasSuffix(text, "\n") {
		text += "\n"
	}
	if err := cb.Write(text); err != nil {
		return fmt.Errorf("clipboard write: %w", err)
	}
	return nil
}
