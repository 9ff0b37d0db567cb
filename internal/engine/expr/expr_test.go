package expr

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestEval(t *testing.T) {
	e := New()
	defer e.Close()

	tests := []struct {
		name string
		expr string
		want string
	}{
		{"arithmetic", "1 + 2", "3"},
		{"float", "3 / 2", "1.5"},
		{"string", `"hello"`, "hello"},
		{"concat", `"a" .. "b"`, "ab"},
		{"bool true", "1 == 1", "true"},
		{"bool false", "1 == 2", "false"},
		{"string lib", `string.upper("abc")`, "ABC"},
		{"math lib", "math.max(3, 7)", "7"},
		{"table lines", `{"one", "two", "three"}`, "one\ntwo\nthree"},
		{"mixed table", `{1, "two", 3}`, "1\ntwo\n3"},
		{"empty table", "{}", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := e.Eval(tt.expr)
			if err != nil {
				t.Fatalf("Eval(%q) error = %v", tt.expr, err)
			}
			if got != tt.want {
				t.Errorf("Eval(%q) = %q, want %q", tt.expr, got, tt.want)
			}
		})
	}
}

func TestEvalErrors(t *testing.T) {
	e := New()
	defer e.Close()

	if _, err := e.Eval("1 +"); !errors.Is(err, ErrEval) {
		t.Errorf("syntax error: got %v, want ErrEval", err)
	}
	if _, err := e.Eval(""); !errors.Is(err, ErrEval) {
		t.Errorf("empty expression: got %v, want ErrEval", err)
	}
	if _, err := e.Eval("nil"); !errors.Is(err, ErrNilResult) {
		t.Errorf("nil result: got %v, want ErrNilResult", err)
	}
	if _, err := e.Eval("undefined_variable"); !errors.Is(err, ErrNilResult) {
		t.Errorf("undefined variable: got %v, want ErrNilResult", err)
	}
	if _, err := e.Eval("print"); !errors.Is(err, ErrBadResult) {
		t.Errorf("function result: got %v, want ErrBadResult", err)
	}
	if _, err := e.Eval("{a = 1}"); !errors.Is(err, ErrBadResult) {
		t.Errorf("map table: got %v, want ErrBadResult", err)
	}
	if _, err := e.Eval(`error("boom")`); !errors.Is(err, ErrEval) {
		t.Errorf("runtime error: got %v, want ErrEval", err)
	}
}

func TestEvalSandbox(t *testing.T) {
	e := New()
	defer e.Close()

	for _, expr := range []string{`load("return 1")`, `loadstring("return 1")`, `dofile("x")`, `loadfile("x")`} {
		if _, err := e.Eval(expr); err == nil {
			t.Errorf("Eval(%q) succeeded, want error", expr)
		}
	}
	// io and os are never opened.
	if _, err := e.Eval("io"); !errors.Is(err, ErrNilResult) {
		t.Errorf("io: got %v, want ErrNilResult", err)
	}
	if _, err := e.Eval(`os.getenv("HOME")`); err == nil {
		t.Error("os.getenv succeeded, want error")
	}
}

func TestEvalTimeout(t *testing.T) {
	e := New(WithTimeout(50 * time.Millisecond))
	defer e.Close()

	start := time.Now()
	_, err := e.Eval("(function() while true do end end)()")
	if err == nil {
		t.Fatal("infinite loop returned without error")
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Fatalf("evaluation took %v, timeout not applied", elapsed)
	}

	// The state stays usable after a timeout.
	got, err := e.Eval("2 + 2")
	if err != nil {
		t.Fatalf("Eval after timeout: %v", err)
	}
	if got != "4" {
		t.Errorf("Eval after timeout = %q, want %q", got, "4")
	}
}

func TestSetGlobal(t *testing.T) {
	e := New()
	defer e.Close()

	e.SetGlobal("count", 5)
	e.SetGlobal("name", "buffer.txt")
	e.SetGlobal("flag", true)
	e.SetGlobal("lines", []string{"a", "b"})

	got, err := e.Eval("count * 2")
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	if got != "10" {
		t.Errorf("count * 2 = %q, want %q", got, "10")
	}

	got, err = e.Eval(`name .. "!"`)
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	if got != "buffer.txt!" {
		t.Errorf("name = %q, want %q", got, "buffer.txt!")
	}

	got, err = e.Eval("lines[2]")
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	if got != "b" {
		t.Errorf("lines[2] = %q, want %q", got, "b")
	}
}

func TestRegisterFunc(t *testing.T) {
	e := New()
	defer e.Close()

	e.RegisterFunc("line", func(args []any) (any, error) {
		return 42, nil
	})
	e.RegisterFunc("repeatText", func(args []any) (any, error) {
		if len(args) != 2 {
			return nil, errors.New("want 2 arguments")
		}
		text, ok := args[0].(string)
		if !ok {
			return nil, errors.New("want string")
		}
		n, ok := args[1].(float64)
		if !ok {
			return nil, errors.New("want number")
		}
		return strings.Repeat(text, int(n)), nil
	})

	got, err := e.Eval("line() + 1")
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	if got != "43" {
		t.Errorf("line() + 1 = %q, want %q", got, "43")
	}

	got, err = e.Eval(`repeatText("ab", 3)`)
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	if got != "ababab" {
		t.Errorf("repeatText = %q, want %q", got, "ababab")
	}

	// A host error aborts the evaluation.
	if _, err := e.Eval(`repeatText("ab")`); !errors.Is(err, ErrEval) {
		t.Errorf("bad arity: got %v, want ErrEval", err)
	}
}

func TestClose(t *testing.T) {
	e := New()
	e.Close()
	e.Close()

	if _, err := e.Eval("1"); !errors.Is(err, ErrClosed) {
		t.Errorf("Eval after Close: got %v, want ErrClosed", err)
	}
}
