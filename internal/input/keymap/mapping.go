package keymap

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dshills/modalkit/internal/input/key"
)

// Mapping rewrites one key sequence into another within the listed modes.
type Mapping struct {
	// Keys is the sequence that triggers the mapping, in Vim notation.
	// Examples: "jj", "<leader>w", "<C-s>".
	Keys string

	// Replacement is the sequence the keys rewrite to, in Vim notation.
	// Empty is allowed and maps the keys to nothing.
	Replacement string

	// Modes lists the mode names the mapping applies in. Empty means
	// every mode.
	Modes []string

	// NoRemap marks the replacement as final: its keys are not
	// re-scanned against other mappings during resolution.
	NoRemap bool

	// Source records where the mapping came from. Examples: "default",
	// "config", ":map".
	Source string
}

// parsedMapping is a mapping with pre-parsed key sequences.
type parsedMapping struct {
	Mapping
	keys        []key.Input
	replacement []key.Input
}

// parse validates the mapping and pre-parses both sequences.
func (m Mapping) parse() (*parsedMapping, error) {
	if m.Keys == "" {
		return nil, fmt.Errorf("mapping has empty key sequence")
	}
	lhs, err := key.ParseSequence(m.Keys)
	if err != nil {
		return nil, fmt.Errorf("mapping %q: %w", m.Keys, err)
	}
	if lhs.IsEmpty() {
		return nil, fmt.Errorf("mapping %q: empty key sequence", m.Keys)
	}
	rhs, err := key.ParseSequence(m.Replacement)
	if err != nil {
		return nil, fmt.Errorf("mapping %q replacement %q: %w", m.Keys, m.Replacement, err)
	}
	return &parsedMapping{
		Mapping:     m,
		keys:        lhs.Inputs,
		replacement: rhs.Inputs,
	}, nil
}

// modeSet returns the mode names the mapping applies in, normalized.
// An empty Modes list yields the single global scope "".
func (m Mapping) modeSet() []string {
	if len(m.Modes) == 0 {
		return []string{""}
	}
	modes := make([]string, 0, len(m.Modes))
	seen := make(map[string]bool, len(m.Modes))
	for _, mode := range m.Modes {
		mode = strings.TrimSpace(mode)
		if mode == "" || seen[mode] {
			continue
		}
		seen[mode] = true
		modes = append(modes, mode)
	}
	if len(modes) == 0 {
		return []string{""}
	}
	return modes
}

// String renders the mapping the way :map listings display it.
func (m Mapping) String() string {
	rhs := m.Replacement
	if rhs == "" {
		rhs = "<Nop>"
	}
	marker := " "
	if m.NoRemap {
		marker = "*"
	}
	return fmt.Sprintf("%-12s %s%s", m.Keys, marker, rhs)
}

// sortMappings orders mappings for listing: by keys, then mode scope.
func sortMappings(mappings []Mapping) {
	sort.Slice(mappings, func(i, j int) bool {
		if mappings[i].Keys != mappings[j].Keys {
			return mappings[i].Keys < mappings[j].Keys
		}
		return strings.Join(mappings[i].Modes, ",") < strings.Join(mappings[j].Modes, ",")
	})
}
