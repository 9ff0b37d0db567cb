package session

import (
	"testing"

	"github.com/dshills/modalkit/internal/host"
	"github.com/dshills/modalkit/internal/input/key"
)

func TestLastSearch(t *testing.T) {
	s := New()

	if _, ok := s.LastSearch(); ok {
		t.Error("fresh state reports a last search")
	}

	s.SetLastSearch(Search{Pattern: "needle", Direction: Backward})
	got, ok := s.LastSearch()
	if !ok {
		t.Fatal("LastSearch not set")
	}
	if got.Pattern != "needle" || got.Direction != Backward {
		t.Errorf("LastSearch = %+v", got)
	}
}

func TestDirectionReverse(t *testing.T) {
	if Forward.Reverse() != Backward || Backward.Reverse() != Forward {
		t.Error("Reverse is not an involution endpoint swap")
	}
}

func TestSearchHighlight(t *testing.T) {
	s := New()

	if s.SearchHighlight() {
		t.Error("fresh state highlights")
	}

	s.SetLastSearch(Search{Pattern: "x", Direction: Forward})
	if !s.SearchHighlight() {
		t.Error("search did not enable highlighting")
	}

	s.SetSearchHighlight(false)
	if s.SearchHighlight() {
		t.Error("SetSearchHighlight(false) did not clear the flag")
	}

	s.SetLastSearch(Search{Pattern: "y", Direction: Forward})
	if !s.SearchHighlight() {
		t.Error("next search did not restore highlighting")
	}
}

func TestLastCharSearch(t *testing.T) {
	s := New()

	s.SetLastCharSearch(CharSearch{Kind: 't', Target: 'x'})
	got, ok := s.LastCharSearch()
	if !ok {
		t.Fatal("LastCharSearch not set")
	}
	if got.Kind != 't' || got.Target != 'x' {
		t.Errorf("LastCharSearch = %+v", got)
	}
}

func TestLastChangeIsCopied(t *testing.T) {
	s := New()

	keys := []key.Input{key.NewRune('d'), key.NewRune('w')}
	s.SetLastChange(Change{Keys: keys, Count: 3})

	got, ok := s.LastChange()
	if !ok {
		t.Fatal("LastChange not set")
	}
	if got.Count != 3 || len(got.Keys) != 2 {
		t.Errorf("LastChange = %+v", got)
	}

	// Mutating the returned slice must not corrupt the stored change.
	got.Keys[0] = key.NewRune('x')
	again, _ := s.LastChange()
	if again.Keys[0] != key.NewRune('d') {
		t.Error("LastChange shares its key slice with callers")
	}
}

func TestLastVisual(t *testing.T) {
	s := New()

	v := Visual{
		Kind:  'V',
		Start: host.Position{Line: 2, Col: 0},
		End:   host.Position{Line: 5, Col: 0},
	}
	s.SetLastVisual(v)

	got, ok := s.LastVisual()
	if !ok {
		t.Fatal("LastVisual not set")
	}
	if got != v {
		t.Errorf("LastVisual = %+v, want %+v", got, v)
	}
}

func TestLastMacro(t *testing.T) {
	s := New()

	if _, ok := s.LastMacro(); ok {
		t.Error("fresh state reports a last macro")
	}
	s.SetLastMacro('q')
	reg, ok := s.LastMacro()
	if !ok || reg != 'q' {
		t.Errorf("LastMacro = %c, %v", reg, ok)
	}
}

func TestObservers(t *testing.T) {
	s := New()

	var events []Event
	cancel := s.Subscribe(func(e Event) {
		events = append(events, e)
	})

	s.SetLastSearch(Search{Pattern: "x"})
	s.SetLastMacro('a')

	if len(events) != 2 {
		t.Fatalf("observer saw %d events, want 2", len(events))
	}
	if events[0] != EventSearch || events[1] != EventMacro {
		t.Errorf("events = %v", events)
	}

	cancel()
	s.SetLastSearch(Search{Pattern: "y"})
	if len(events) != 2 {
		t.Error("cancelled observer still notified")
	}
}

func TestSetHistoryLimit(t *testing.T) {
	s := New()

	h := s.History(HistoryCommand)
	for _, entry := range []string{"a", "b", "c", "d"} {
		h.Add(entry)
	}

	s.SetHistoryLimit(2)

	entries := h.Entries()
	if len(entries) != 2 {
		t.Fatalf("got %d entries after limit, want 2", len(entries))
	}
	if entries[0] != "c" || entries[1] != "d" {
		t.Errorf("entries = %v, want newest kept", entries)
	}
}
