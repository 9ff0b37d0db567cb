package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestLevel_String(t *testing.T) {
	tests := []struct {
		level    Level
		expected string
	}{
		{LevelDebug, "DEBUG"},
		{LevelInfo, "INFO"},
		{LevelWarn, "WARN"},
		{LevelError, "ERROR"},
		{Level(99), "UNKNOWN"},
	}

	for _, tt := range tests {
		result := tt.level.String()
		if result != tt.expected {
			t.Errorf("Level(%d).String() = '%s', expected '%s'", tt.level, result, tt.expected)
		}
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected Level
	}{
		{"debug", LevelDebug},
		{"DEBUG", LevelDebug},
		{"info", LevelInfo},
		{"warn", LevelWarn},
		{"warning", LevelWarn},
		{"error", LevelError},
		{"unknown", LevelInfo}, // Default
		{"", LevelInfo},        // Default
	}

	for _, tt := range tests {
		result := ParseLevel(tt.input)
		if result != tt.expected {
			t.Errorf("ParseLevel('%s') = %d, expected %d", tt.input, result, tt.expected)
		}
	}
}

func TestLoggerLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: LevelWarn, Output: &buf, Prefix: "test"})

	l.Debug("debug msg")
	l.Info("info msg")
	l.Warn("warn msg")
	l.Error("error msg")

	out := buf.String()
	if strings.Contains(out, "debug msg") || strings.Contains(out, "info msg") {
		t.Errorf("messages below level were logged: %s", out)
	}
	if !strings.Contains(out, "warn msg") || !strings.Contains(out, "error msg") {
		t.Errorf("expected warn and error messages, got: %s", out)
	}
}

func TestLoggerFormat(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: LevelDebug, Output: &buf, Prefix: "test"})

	l.Info("value is %d", 42)

	out := buf.String()
	if !strings.Contains(out, "[INFO]") {
		t.Errorf("missing level tag: %s", out)
	}
	if !strings.Contains(out, "test:") {
		t.Errorf("missing prefix: %s", out)
	}
	if !strings.Contains(out, "value is 42") {
		t.Errorf("args not formatted: %s", out)
	}
}

func TestLoggerFields(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: LevelDebug, Output: &buf})

	l.WithComponent("runner").WithField("mode", "normal").Info("msg")

	out := buf.String()
	if !strings.Contains(out, "component=runner") {
		t.Errorf("missing component field: %s", out)
	}
	if !strings.Contains(out, "mode=normal") {
		t.Errorf("missing mode field: %s", out)
	}
}

func TestLoggerWithFieldIsolation(t *testing.T) {
	var buf bytes.Buffer
	base := New(Config{Level: LevelDebug, Output: &buf})
	derived := base.WithField("k", "v")

	buf.Reset()
	base.Info("from base")
	if strings.Contains(buf.String(), "k=v") {
		t.Error("field leaked into the base logger")
	}

	buf.Reset()
	derived.Info("from derived")
	if !strings.Contains(buf.String(), "k=v") {
		t.Error("derived logger lost its field")
	}
}

func TestDiscard(t *testing.T) {
	l := Discard()
	// Must not panic with a nil output.
	l.Info("nothing")
	l.Error("nothing")
}

func TestSetLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: LevelError, Output: &buf})

	l.Info("hidden")
	l.SetLevel(LevelDebug)
	l.Info("visible")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("message logged below level: %s", out)
	}
	if !strings.Contains(out, "visible") {
		t.Errorf("message missing after SetLevel: %s", out)
	}
}
