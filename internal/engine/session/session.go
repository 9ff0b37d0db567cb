package session

import (
	"sync"

	"github.com/dshills/modalkit/internal/host"
	"github.com/dshills/modalkit/internal/input/key"
)

// Direction is a search direction.
type Direction uint8

const (
	// Forward searches toward the end of the buffer.
	Forward Direction = iota

	// Backward searches toward the start of the buffer.
	Backward
)

// String returns the direction name.
func (d Direction) String() string {
	if d == Backward {
		return "backward"
	}
	return "forward"
}

// Reverse returns the opposite direction.
func (d Direction) Reverse() Direction {
	if d == Forward {
		return Backward
	}
	return Forward
}

// Search is the most recent search, repeated by n and N.
type Search struct {
	Pattern   string
	Direction Direction
}

// Substitute is the most recent :s command, repeated by & and :s with
// no arguments.
type Substitute struct {
	Pattern     string
	Replacement string
	Flags       string
}

// CharSearch is the most recent f, F, t, or T, repeated by ; and ,.
type CharSearch struct {
	// Kind is the command rune: 'f', 'F', 't', or 'T'.
	Kind rune

	// Target is the rune that was sought.
	Target rune
}

// Change is the most recent buffer-modifying command, repeated by the
// dot command. Keys holds the command with any count and register
// prefix stripped; Insert holds text typed in insert mode, replayed
// literally.
type Change struct {
	Keys     []key.Input
	Count    int
	Register rune
	Insert   string
}

// Visual is the most recent visual selection, restored by gv.
type Visual struct {
	// Kind is the mode rune: 'v', 'V', or '\x16' for blockwise.
	Kind  rune
	Start host.Position
	End   host.Position
}

// Event identifies which piece of session state changed.
type Event uint8

const (
	// EventSearch fires when the last search changes.
	EventSearch Event = iota

	// EventSubstitute fires when the last substitution changes.
	EventSubstitute

	// EventCharSearch fires when the last character search changes.
	EventCharSearch

	// EventMacro fires when the last played macro register changes.
	EventMacro

	// EventChange fires when the repeatable change is recorded.
	EventChange

	// EventVisual fires when the last visual selection changes.
	EventVisual

	// EventHighlight fires when the search-highlight flag changes.
	EventHighlight
)

// Observer is called when session state changes.
type Observer func(Event)

// State is the shared session state. All methods are safe for
// concurrent use.
type State struct {
	mu sync.RWMutex

	search    Search
	hasSearch bool
	highlight bool

	substitute    Substitute
	hasSubstitute bool

	charSearch    CharSearch
	hasCharSearch bool

	macro    rune
	hasMacro bool

	change    Change
	hasChange bool

	visual    Visual
	hasVisual bool

	histories map[HistoryKind]*History

	observers []observer
	nextObs   int
}

type observer struct {
	id int
	fn Observer
}

// New creates an empty session state.
func New() *State {
	return &State{
		histories: map[HistoryKind]*History{
			HistoryCommand:    NewHistory(0),
			HistorySearch:     NewHistory(0),
			HistoryExpression: NewHistory(0),
		},
	}
}

// SetLastSearch records the search repeated by n and N. Recording a
// search turns highlighting back on.
func (s *State) SetLastSearch(search Search) {
	s.mu.Lock()
	s.search = search
	s.hasSearch = true
	s.highlight = true
	obs := s.snapshotObservers()
	s.mu.Unlock()

	notify(obs, EventSearch)
}

// LastSearch returns the recorded search.
func (s *State) LastSearch() (Search, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.search, s.hasSearch
}

// SetSearchHighlight sets the highlight flag. :nohlsearch clears it;
// the next search restores it.
func (s *State) SetSearchHighlight(on bool) {
	s.mu.Lock()
	changed := s.highlight != on
	s.highlight = on
	obs := s.snapshotObservers()
	s.mu.Unlock()

	if changed {
		notify(obs, EventHighlight)
	}
}

// SearchHighlight reports whether search matches should highlight.
func (s *State) SearchHighlight() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.highlight
}

// SetLastSubstitute records the substitution repeated by &.
func (s *State) SetLastSubstitute(sub Substitute) {
	s.mu.Lock()
	s.substitute = sub
	s.hasSubstitute = true
	obs := s.snapshotObservers()
	s.mu.Unlock()

	notify(obs, EventSubstitute)
}

// LastSubstitute returns the recorded substitution.
func (s *State) LastSubstitute() (Substitute, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.substitute, s.hasSubstitute
}

// SetLastCharSearch records the character search repeated by ; and ,.
func (s *State) SetLastCharSearch(cs CharSearch) {
	s.mu.Lock()
	s.charSearch = cs
	s.hasCharSearch = true
	obs := s.snapshotObservers()
	s.mu.Unlock()

	notify(obs, EventCharSearch)
}

// LastCharSearch returns the recorded character search.
func (s *State) LastCharSearch() (CharSearch, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.charSearch, s.hasCharSearch
}

// SetLastMacro records the register played by @@, set on each @x.
func (s *State) SetLastMacro(register rune) {
	s.mu.Lock()
	s.macro = register
	s.hasMacro = true
	obs := s.snapshotObservers()
	s.mu.Unlock()

	notify(obs, EventMacro)
}

// LastMacro returns the register of the most recent macro playback.
func (s *State) LastMacro() (rune, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.macro, s.hasMacro
}

// SetLastChange records the change repeated by the dot command.
func (s *State) SetLastChange(c Change) {
	s.mu.Lock()
	s.change = c
	s.hasChange = true
	obs := s.snapshotObservers()
	s.mu.Unlock()

	notify(obs, EventChange)
}

// LastChange returns the recorded change.
func (s *State) LastChange() (Change, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.hasChange {
		return Change{}, false
	}
	c := s.change
	c.Keys = make([]key.Input, len(s.change.Keys))
	copy(c.Keys, s.change.Keys)
	return c, true
}

// SetLastVisual records the selection restored by gv.
func (s *State) SetLastVisual(v Visual) {
	s.mu.Lock()
	s.visual = v
	s.hasVisual = true
	obs := s.snapshotObservers()
	s.mu.Unlock()

	notify(obs, EventVisual)
}

// LastVisual returns the recorded selection.
func (s *State) LastVisual() (Visual, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.visual, s.hasVisual
}

// History returns the history of the given kind.
func (s *State) History(kind HistoryKind) *History {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.histories[kind]
}

// SetHistoryLimit applies a new limit to every history.
func (s *State) SetHistoryLimit(max int) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, h := range s.histories {
		h.SetMax(max)
	}
}

// Subscribe registers an observer for state changes. The returned
// function cancels the subscription.
func (s *State) Subscribe(fn Observer) func() {
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
func (s *State) snapshotObservers() []observer {
	if len(s.observers) == 0 {
		return nil
	}
	obs := make([]observer, len(s.observers))
	copy(obs, s.observers)
	return obs
}

func notify(obs []observer, event Event) {
	for _, o := range obs {
		o.fn(event)
	}
}
