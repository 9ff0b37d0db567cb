package config

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
)

// Change describes a single option change.
type Change struct {
	// Name is the canonical option name.
	Name string

	// Old is the value before the change.
	Old any

	// New is the value after the change.
	New any
}

// Observer is called after an option changes value.
type Observer func(Change)

// Store holds option definitions and their current values.
// All methods are safe for concurrent use. Observers are invoked
// outside the store lock.
type Store struct {
	mu      sync.RWMutex
	defs    map[string]Option
	aliases map[string]string
	values  map[string]any

	observers []observer
	nextObs   int
}

type observer struct {
	id int
	fn Observer
}

// NewStore creates a store with the built-in options registered.
func NewStore() *Store {
	s := &Store{
		defs:    make(map[string]Option),
		aliases: make(map[string]string),
		values:  make(map[string]any),
	}
	for _, opt := range builtinOptions {
		// Built-in definitions are well formed.
		_ = s.Register(opt)
	}
	return s
}

// Register adds an option definition. The option's value starts at its
// default. Registering a name or alias that is already taken fails.
func (s *Store) Register(opt Option) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if opt.Name == "" {
		return fmt.Errorf("%w: empty name", ErrUnknownOption)
	}
	if _, ok := s.defs[opt.Name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateOption, opt.Name)
	}
	if _, ok := s.aliases[opt.Name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateOption, opt.Name)
	}
	if opt.Alias != "" {
		if _, ok := s.aliases[opt.Alias]; ok {
			return fmt.Errorf("%w: alias %s", ErrDuplicateOption, opt.Alias)
		}
		if _, ok := s.defs[opt.Alias]; ok {
			return fmt.Errorf("%w: alias %s", ErrDuplicateOption, opt.Alias)
		}
	}

	def, err := coerce(opt, opt.Default)
	if err != nil {
		return fmt.Errorf("default for %s: %w", opt.Name, err)
	}
	opt.Default = def

	s.defs[opt.Name] = opt
	if opt.Alias != "" {
		s.aliases[opt.Alias] = opt.Name
	}
	s.values[opt.Name] = def
	return nil
}

// Lookup returns the definition for an option name or alias.
func (s *Store) Lookup(name string) (Option, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	canon, ok := s.canonical(name)
	if !ok {
		return Option{}, false
	}
	return s.defs[canon], true
}

// canonical resolves an alias to the canonical name. Caller holds the lock.
func (s *Store) canonical(name string) (string, bool) {
	if _, ok := s.defs[name]; ok {
		return name, true
	}
	if canon, ok := s.aliases[name]; ok {
		return canon, true
	}
	return "", false
}

// Get returns the current value of an option.
func (s *Store) Get(name string) (any, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	canon, ok := s.canonical(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownOption, name)
	}
	return s.values[canon], nil
}

// GetBool returns a boolean option value.
func (s *Store) GetBool(name string) (bool, error) {
	v, err := s.Get(name)
	if err != nil {
		return false, err
	}
	b, ok := v.(bool)
	if !ok {
		return false, &TypeError{Option: name, Expected: "bool", Actual: typeName(v)}
	}
	return b, nil
}

// GetInt returns an integer option value.
func (s *Store) GetInt(name string) (int, error) {
	v, err := s.Get(name)
	if err != nil {
		return 0, err
	}
	i, ok := v.(int)
	if !ok {
		return 0, &TypeError{Option: name, Expected: "int", Actual: typeName(v)}
	}
	return i, nil
}

// GetString returns a string option value.
func (s *Store) GetString(name string) (string, error) {
	v, err := s.Get(name)
	if err != nil {
		return "", err
	}
	str, ok := v.(string)
	if !ok {
		return "", &TypeError{Option: name, Expected: "string", Actual: typeName(v)}
	}
	return str, nil
}

// Bool returns a boolean option, or false if the option is unknown.
func (s *Store) Bool(name string) bool {
	b, _ := s.GetBool(name)
	return b
}

// Int returns an integer option, or zero if the option is unknown.
func (s *Store) Int(name string) int {
	i, _ := s.GetInt(name)
	return i
}

// String returns a string option, or empty if the option is unknown.
func (s *Store) String(name string) string {
	str, _ := s.GetString(name)
	return str
}

// Set assigns a value to an option. String values are parsed according
// to the option type, so Set("timeoutlen", "500") works. Observers see
// the change after the store is updated.
func (s *Store) Set(name string, value any) error {
	s.mu.Lock()

	canon, ok := s.canonical(name)
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrUnknownOption, name)
	}

	opt := s.defs[canon]
	coerced, err := coerce(opt, value)
	if err != nil {
		s.mu.Unlock()
		return err
	}

	old := s.values[canon]
	s.values[canon] = coerced
	obs := s.snapshotObservers()
	s.mu.Unlock()

	if old != coerced {
		notify(obs, Change{Name: canon, Old: old, New: coerced})
	}
	return nil
}

// Toggle inverts a boolean option.
func (s *Store) Toggle(name string) error {
	s.mu.Lock()

	canon, ok := s.canonical(name)
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrUnknownOption, name)
	}
	opt := s.defs[canon]
	if opt.Type != TypeBool {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrNotBool, canon)
	}

	old := s.values[canon].(bool)
	s.values[canon] = !old
	obs := s.snapshotObservers()
	s.mu.Unlock()

	notify(obs, Change{Name: canon, Old: old, New: !old})
	return nil
}

// Reset restores an option to its default value.
func (s *Store) Reset(name string) error {
	s.mu.Lock()

	canon, ok := s.canonical(name)
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrUnknownOption, name)
	}

	opt := s.defs[canon]
	old := s.values[canon]
	s.values[canon] = opt.Default
	obs := s.snapshotObservers()
	s.mu.Unlock()

	if old != opt.Default {
		notify(obs, Change{Name: canon, Old: old, New: opt.Default})
	}
	return nil
}

// Apply sets multiple options, typically from a parsed file or the
// environment. All entries are attempted; the returned error joins the
// individual failures.
func (s *Store) Apply(values map[string]any) error {
	if len(values) == 0 {
		return nil
	}

	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)

	var errs []error
	for _, name := range names {
		if err := s.Set(name, values[name]); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// All returns a snapshot of every option's current value, keyed by
// canonical name.
func (s *Store) All() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]any, len(s.values))
	for name, v := range s.values {
		out[name] = v
	}
	return out
}

// Names returns all canonical option names in sorted order.
func (s *Store) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.defs))
	for name := range s.defs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Modified returns the names of options whose value differs from the
// default, in sorted order.
func (s *Store) Modified() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var names []string
	for name, def := range s.defs {
		if s.values[name] != def.Default {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// Subscribe registers an observer for option changes. The returned
// function cancels the subscription.
func (s *Store) Subscribe(fn Observer) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextObs
	s.nextObs++
	s.observers = append(s.observers, observer{id: id, fn: fn})

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, obs := range s.observers {
			if obs.id == id {
				s.observers = append(s.observers[:i], s.observers[i+1:]...)
				return
			}
		}
	}
}

// snapshotObservers copies the observer list. Caller holds the lock.
func (s *Store) snapshotObservers() []observer {
	if len(s.observers) == 0 {
		return nil
	}
	obs := make([]observer, len(s.observers))
	copy(obs, s.observers)
	return obs
}

func notify(obs []observer, change Change) {
	for _, o := range obs {
		o.fn(change)
	}
}

// coerce converts a value to the option's type. Strings are parsed for
// bool and int options so values from :set and the environment work.
func coerce(opt Option, value any) (any, error) {
	switch opt.Type {
	case TypeBool:
		switch v := value.(type) {
		case bool:
			return v, nil
		case string:
			switch strings.ToLower(v) {
			case "true", "yes", "on", "1":
				return true, nil
			case "false", "no", "off", "0":
				return false, nil
			}
		}
	case TypeInt:
		switch v := value.(type) {
		case int:
			return v, nil
		case int64:
			return int(v), nil
		case uint64:
			return int(v), nil
		case float64:
			return int(v), nil
		case string:
			if i, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
				return i, nil
			}
		}
	case TypeString:
		if v, ok := value.(string); ok {
			return v, nil
		}
	}
	return nil, &TypeError{Option: opt.Name, Expected: opt.Type.String(), Actual: typeName(value)}
}

// typeName returns the type name for error messages.
func typeName(v any) string {
	if v == nil {
		return "nil"
	}
	switch v.(type) {
	case string:
		return "string"
	case int, int64, uint64:
		return "int"
	case float64:
		return "float64"
	case bool:
		return "bool"
	default:
		return fmt.Sprintf("%T", v)
	}
}
