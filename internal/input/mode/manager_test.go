package mode

import (
	"errors"
	"testing"

	"github.com/dshills/modalkit/internal/input/key"
)

type stubMode struct {
	name    Name
	events  *[]string
	enterFn func(Argument) error
	leaveFn func() error
	lastArg Argument
}

func (s *stubMode) Name() Name { return s.name }

func (s *stubMode) CanProcess(key.Input) bool { return true }

func (s *stubMode) Process(key.Input) (Result, error) { return Result{Handled: true}, nil }

func (s *stubMode) OnEnter(arg Argument) error {
	s.lastArg = arg
	*s.events = append(*s.events, "enter "+string(s.name))
	if s.enterFn != nil {
		return s.enterFn(arg)
	}
	return nil
}

func (s *stubMode) OnLeave() error {
	*s.events = append(*s.events, "leave "+string(s.name))
	if s.leaveFn != nil {
		return s.leaveFn()
	}
	return nil
}

func newTestManager(events *[]string) (*Manager, *stubMode, *stubMode) {
	m := NewManager()
	normal := &stubMode{name: Normal, events: events}
	insert := &stubMode{name: Insert, events: events}
	m.Register(normal)
	m.Register(insert)
	return m, normal, insert
}

func TestSetInitial(t *testing.T) {
	var events []string
	m, _, _ := newTestManager(&events)

	if err := m.SetInitial(Normal); err != nil {
		t.Fatalf("SetInitial() error: %v", err)
	}
	if got := m.CurrentName(); got != Normal {
		t.Errorf("CurrentName() = %s, want normal", got)
	}
	if len(events) != 1 || events[0] != "enter normal" {
		t.Errorf("events = %v, want [enter normal]", events)
	}

	err := m.SetInitial("bogus")
	if !errors.Is(err, ErrUnknownMode) {
		t.Errorf("SetInitial(bogus) error = %v, want ErrUnknownMode", err)
	}
}

func TestSwitchRunsHooksAroundSwap(t *testing.T) {
	var events []string
	m, normal, insert := newTestManager(&events)

	// The active mode must still be the old one during OnLeave and
	// already the new one during OnEnter.
	normal.leaveFn = func() error {
		if got := m.CurrentName(); got != Normal {
			t.Errorf("current during OnLeave = %s, want normal", got)
		}
		return nil
	}
	insert.enterFn = func(Argument) error {
		if got := m.CurrentName(); got != Insert {
			t.Errorf("current during OnEnter = %s, want insert", got)
		}
		return nil
	}

	if err := m.SetInitial(Normal); err != nil {
		t.Fatalf("SetInitial() error: %v", err)
	}
	if err := m.Switch(Insert, Argument{Count: 3, Prompt: ':'}); err != nil {
		t.Fatalf("Switch() error: %v", err)
	}

	want := []string{"enter normal", "leave normal", "enter insert"}
	if len(events) != len(want) {
		t.Fatalf("events = %v, want %v", events, want)
	}
	for i := range want {
		if events[i] != want[i] {
			t.Fatalf("events = %v, want %v", events, want)
		}
	}

	if insert.lastArg.Count != 3 || insert.lastArg.Prompt != ':' {
		t.Errorf("argument = %+v, want count 3 prompt :", insert.lastArg)
	}
	if got := m.Previous(); got != Normal {
		t.Errorf("Previous() = %s, want normal", got)
	}
}

func TestSwitchUnknownMode(t *testing.T) {
	var events []string
	m, _, _ := newTestManager(&events)
	if err := m.SetInitial(Normal); err != nil {
		t.Fatalf("SetInitial() error: %v", err)
	}

	err := m.Switch("bogus", Argument{})
	if !errors.Is(err, ErrUnknownMode) {
		t.Fatalf("Switch(bogus) error = %v, want ErrUnknownMode", err)
	}
	if got := m.CurrentName(); got != Normal {
		t.Errorf("failed switch moved the mode to %s", got)
	}
}

func TestLeaveErrorAbortsSwitch(t *testing.T) {
	var events []string
	m, normal, _ := newTestManager(&events)
	if err := m.SetInitial(Normal); err != nil {
		t.Fatalf("SetInitial() error: %v", err)
	}

	boom := errors.New("refuse to leave")
	normal.leaveFn = func() error { return boom }

	err := m.Switch(Insert, Argument{})
	if !errors.Is(err, boom) {
		t.Fatalf("Switch() error = %v, want wrapped leave error", err)
	}
	if got := m.CurrentName(); got != Normal {
		t.Errorf("CurrentName() = %s, want normal after aborted switch", got)
	}
	for _, e := range events {
		if e == "enter insert" {
			t.Error("target mode was entered despite the leave error")
		}
	}
}

func TestEnterErrorLeavesTargetActive(t *testing.T) {
	var events []string
	m, _, insert := newTestManager(&events)
	if err := m.SetInitial(Normal); err != nil {
		t.Fatalf("SetInitial() error: %v", err)
	}

	boom := errors.New("bad entry")
	insert.enterFn = func(Argument) error { return boom }

	err := m.Switch(Insert, Argument{})
	if !errors.Is(err, boom) {
		t.Fatalf("Switch() error = %v, want wrapped enter error", err)
	}
	// The swap already happened; recovery is the caller's decision.
	if got := m.CurrentName(); got != Insert {
		t.Errorf("CurrentName() = %s, want insert", got)
	}
}

func TestOnChangeObserver(t *testing.T) {
	var events []string
	m, _, _ := newTestManager(&events)

	var seen []string
	cancel := m.OnChange(func(from, to Name) {
		seen = append(seen, string(from)+">"+string(to))
	})

	if err := m.SetInitial(Normal); err != nil {
		t.Fatalf("SetInitial() error: %v", err)
	}
	if err := m.Switch(Insert, Argument{}); err != nil {
		t.Fatalf("Switch() error: %v", err)
	}
	if len(seen) != 2 || seen[0] != ">normal" || seen[1] != "normal>insert" {
		t.Fatalf("observed = %v, want [>normal normal>insert]", seen)
	}

	cancel()
	if err := m.Switch(Normal, Argument{}); err != nil {
		t.Fatalf("Switch() error: %v", err)
	}
	if len(seen) != 2 {
		t.Errorf("observer fired after unregistration: %v", seen)
	}
}
