package command

import (
	"fmt"

	"github.com/dshills/modalkit/internal/input/key"
)

// ArgKind describes the trailing argument a definition awaits.
type ArgKind uint8

const (
	// ArgNone means the definition completes on its keys alone.
	ArgNone ArgKind = iota

	// ArgChar awaits one more key: a replacement character, mark
	// name, or register name.
	ArgChar
)

// Operator describes an action that awaits a motion or text object.
type Operator struct {
	// Name is the action name, e.g. "delete".
	Name string

	// Keys is the trigger sequence. Repeating it, or its final key
	// for multi-key operators, selects whole lines.
	Keys string

	// EntersInsert marks operators that leave the buffer in Insert
	// mode after applying.
	EntersInsert bool

	// ChangesText marks operators that modify the buffer.
	ChangesText bool
}

// Definition binds a key sequence to a named action.
type Definition struct {
	// Keys is the trigger sequence in Vim notation.
	Keys string

	// Name is the action dispatched on completion.
	Name string

	// Arg declares a trailing argument key.
	Arg ArgKind

	// Operator is non-nil when the action awaits a motion.
	Operator *Operator

	// Repeatable marks commands the dot command repeats.
	Repeatable bool

	// Undoable marks commands that open an undo transaction.
	Undoable bool

	// InOperator permits the definition while an operator pends.
	// Almost everything is refused there; motions and text objects
	// reach a pending operator through the motion resolver instead.
	InOperator bool
}

// Table is one mode's definition table with prefix-aware lookup.
type Table struct {
	defs     map[string]*Definition
	prefixes map[string]bool
}

// NewTable builds a table from definitions. Invalid key notation in a
// definition panics; tables are built from static data at start-up.
func NewTable(defs ...Definition) *Table {
	t := &Table{
		defs:     make(map[string]*Definition, len(defs)),
		prefixes: make(map[string]bool),
	}
	for _, def := range defs {
		if err := t.Add(def); err != nil {
			panic("command: " + err.Error())
		}
	}
	return t
}

// Add registers a definition, replacing any existing entry with the
// same keys.
func (t *Table) Add(def Definition) error {
	if def.Keys == "" {
		return fmt.Errorf("definition %q has empty keys", def.Name)
	}
	seq, err := key.ParseSequence(def.Keys)
	if err != nil {
		return fmt.Errorf("definition %q: %w", def.Name, err)
	}
	if seq.IsEmpty() {
		return fmt.Errorf("definition %q has empty keys", def.Name)
	}

	stored := def
	t.defs[seq.VimString()] = &stored
	for i := 1; i < seq.Len(); i++ {
		t.prefixes[seq.Slice(0, i).VimString()] = true
	}
	return nil
}

// Lookup returns the definition for keys, and whether keys is a proper
// prefix of at least one longer entry.
func (t *Table) Lookup(keys string) (*Definition, bool) {
	return t.defs[keys], t.prefixes[keys]
}

// StandardOperators returns the operator definitions shared by the
// normal-mode tables: delete, change, yank, indent either way,
// reindent, the case operators, and reflow.
func StandardOperators() []Definition {
	ops := []struct {
		keys, name string
		insert     bool
		changes    bool
	}{
		{"d", "delete", false, true},
		{"c", "change", true, true},
		{"y", "yank", false, false},
		{">", "indent", false, true},
		{"<", "outdent", false, true},
		{"=", "reindent", false, true},
		{"gu", "lowercase", false, true},
		{"gU", "uppercase", false, true},
		{"g~", "toggle-case", false, true},
		{"gq", "reflow", false, true},
	}

	defs := make([]Definition, 0, len(ops))
	for _, o := range ops {
		defs = append(defs, Definition{
			Keys: o.keys,
			Name: o.name,
			Operator: &Operator{
				Name:         o.name,
				Keys:         o.keys,
				EntersInsert: o.insert,
				ChangesText:  o.changes,
			},
			Repeatable: true,
			Undoable:   o.changes,
		})
	}
	return defs
}
