package session

import "sync"

// DefaultHistoryLimit bounds history length until configured.
const DefaultHistoryLimit = 50

// HistoryKind selects one of the session histories.
type HistoryKind uint8

const (
	// HistoryCommand is the : command-line history.
	HistoryCommand HistoryKind = iota

	// HistorySearch is the / and ? pattern history.
	HistorySearch

	// HistoryExpression is the = expression history.
	HistoryExpression
)

// String returns the history name.
func (k HistoryKind) String() string {
	switch k {
	case HistoryCommand:
		return "command"
	case HistorySearch:
		return "search"
	case HistoryExpression:
		return "expression"
	default:
		return "unknown"
	}
}

// History is a bounded list of entered lines, newest last. Adding a
// line removes any previous occurrence, so recall never shows
// duplicates. All methods are safe for concurrent use.
type History struct {
	mu      sync.RWMutex
	entries []string
	max     int
}

// NewHistory creates a history bounded to max entries. A non-positive
// max uses DefaultHistoryLimit.
func NewHistory(max int) *History {
	if max <= 0 {
		max = DefaultHistoryLimit
	}
	return &History{max: max}
}

// Add appends an entry, dropping an earlier duplicate and trimming to
// the limit. Empty entries are ignored.
func (h *History) Add(entry string) {
	if entry == "" {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	for i, e := range h.entries {
		if e == entry {
			h.entries = append(h.entries[:i], h.entries[i+1:]...)
			break
		}
	}
	h.entries = append(h.entries, entry)
	if len(h.entries) > h.max {
		h.entries = h.entries[len(h.entries)-h.max:]
	}
}

// Entries returns a copy of the history, oldest first.
func (h *History) Entries() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	out := make([]string, len(h.entries))
	copy(out, h.entries)
	return out
}

// Len returns the number of entries.
func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.entries)
}

// Last returns the most recent entry.
func (h *History) Last() (string, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if len(h.entries) == 0 {
		return "", false
	}
	return h.entries[len(h.entries)-1], true
}

// SetMax changes the limit, trimming oldest entries immediately.
func (h *History) SetMax(max int) {
	if max <= 0 {
		max = DefaultHistoryLimit
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	h.max = max
	if len(h.entries) > max {
		h.entries = h.entries[len(h.entries)-max:]
	}
}

// Clear removes all entries.
func (h *History) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries = nil
}
