package mode

import "testing"

func TestNameValid(t *testing.T) {
	valid := []Name{
		Normal, Insert, Replace, VisualCharacter, VisualLine, VisualBlock,
		Select, CommandLine, SubstituteConfirm, Disabled, ExternalEdit,
	}
	for _, n := range valid {
		if !n.Valid() {
			t.Errorf("Valid(%s) = false, want true", n)
		}
	}

	for _, n := range []Name{"", "operator-pending", "NORMAL"} {
		if n.Valid() {
			t.Errorf("Valid(%s) = true, want false", n)
		}
	}
}

func TestNameIsVisual(t *testing.T) {
	for _, n := range []Name{VisualCharacter, VisualLine, VisualBlock} {
		if !n.IsVisual() {
			t.Errorf("IsVisual(%s) = false, want true", n)
		}
	}
	for _, n := range []Name{Normal, Select, Insert} {
		if n.IsVisual() {
			t.Errorf("IsVisual(%s) = true, want false", n)
		}
	}
}

func TestNameDisplay(t *testing.T) {
	tests := []struct {
		name Name
		want string
	}{
		{Normal, ""},
		{Insert, "-- INSERT --"},
		{VisualLine, "-- VISUAL LINE --"},
		{CommandLine, ""},
	}
	for _, tt := range tests {
		if got := tt.name.Display(); got != tt.want {
			t.Errorf("Display(%s) = %q, want %q", tt.name, got, tt.want)
		}
	}
}
