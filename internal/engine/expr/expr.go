package expr

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	lua "github.com/yuin/gopher-lua"
)

var (
	// ErrEval indicates the expression failed to compile or run.
	ErrEval = errors.New("expression error")
	// ErrNilResult indicates the expression evaluated to nil.
	ErrNilResult = errors.New("expression result is nil")
	// ErrBadResult indicates a result type with no text rendering.
	ErrBadResult = errors.New("expression result cannot be converted to text")
	// ErrClosed indicates use after Close.
	ErrClosed = errors.New("evaluator is closed")
)

// DefaultTimeout bounds a single evaluation.
const DefaultTimeout = time.Second

// Func is a host function callable from expressions. Arguments arrive
// as bool, float64, or string; the returned value may be nil, bool, a
// numeric type, string, or []string.
type Func func(args []any) (any, error)

// Evaluator owns a sandboxed Lua state. The state is not
// goroutine-safe, so every operation runs under the evaluator's
// mutex.
type Evaluator struct {
	mu      sync.Mutex
	state   *lua.LState
	timeout time.Duration
	closed  bool
}

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithTimeout overrides the evaluation timeout.
func WithTimeout(d time.Duration) Option {
	return func(e *Evaluator) {
		if d > 0 {
			e.timeout = d
		}
	}
}

// New creates an evaluator with a fresh sandboxed state.
func New(opts ...Option) *Evaluator {
	e := &Evaluator{timeout: DefaultTimeout}
	for _, opt := range opts {
		opt(e)
	}

	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)
	for _, name := range []string{"dofile", "loadfile", "load", "loadstring"} {
		L.SetGlobal(name, lua.LNil)
	}
	e.state = L
	return e
}

// Close releases the Lua state. Further calls return ErrClosed.
func (e *Evaluator) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	e.closed = true
	e.state.Close()
}

// SetGlobal exposes a value to expressions under the given name.
func (e *Evaluator) SetGlobal(name string, value any) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	e.state.SetGlobal(name, toLua(e.state, value))
}

// RegisterFunc exposes a host function to expressions. Errors returned
// by fn surface as Lua errors and abort the evaluation.
func (e *Evaluator) RegisterFunc(name string, fn Func) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	e.state.SetGlobal(name, e.state.NewFunction(func(L *lua.LState) int {
		args := make([]any, L.GetTop())
		for i := range args {
			args[i] = fromLua(L.Get(i + 1))
		}
		ret, err := fn(args)
		if err != nil {
			L.RaiseError("%s: %v", name, err)
			return 0
		}
		L.Push(toLua(L, ret))
		return 1
	}))
}

// Eval runs an expression and renders its result as register text.
func (e *Evaluator) Eval(expression string) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return "", ErrClosed
	}
	if strings.TrimSpace(expression) == "" {
		return "", fmt.Errorf("%w: empty expression", ErrEval)
	}

	fn, err := e.state.LoadString("return " + expression)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrEval, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), e.timeout)
	defer cancel()
	e.state.SetContext(ctx)
	defer e.state.RemoveContext()

	if err := e.callLoaded(fn); err != nil {
		// A failed call can leave values on the stack.
		e.state.SetTop(0)
		return "", fmt.Errorf("%w: %v", ErrEval, err)
	}
	result := e.state.Get(-1)
	e.state.Pop(1)
	return render(result)
}

// callLoaded invokes a compiled chunk with panic recovery. gopher-lua
// panics on some internal errors instead of returning them.
func (e *Evaluator) callLoaded(fn *lua.LFunction) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("lua panic: %v", r)
		}
	}()
	e.state.Push(fn)
	return e.state.PCall(0, 1, nil)
}

// render converts an evaluation result to register text.
func render(v lua.LValue) (string, error) {
	switch val := v.(type) {
	case lua.LString:
		return string(val), nil
	case lua.LNumber:
		return formatNumber(float64(val)), nil
	case lua.LBool:
		if val {
			return "true", nil
		}
		return "false", nil
	case *lua.LTable:
		return renderTable(val)
	default:
		if v == lua.LNil {
			return "", ErrNilResult
		}
		return "", fmt.Errorf("%w: %s", ErrBadResult, v.Type())
	}
}

// renderTable treats the table as an array and emits one line per
// element.
func renderTable(t *lua.LTable) (string, error) {
	n := t.MaxN()
	if n == 0 {
		// Either an empty table or a map-style table. Maps have no
		// element order, so they do not render.
		empty := true
		t.ForEach(func(lua.LValue, lua.LValue) { empty = false })
		if !empty {
			return "", fmt.Errorf("%w: table is not an array", ErrBadResult)
		}
		return "", nil
	}
	lines := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		elem := t.RawGetInt(i)
		if elem == lua.LNil {
			continue
		}
		text, err := render(elem)
		if err != nil {
			return "", err
		}
		lines = append(lines, text)
	}
	return strings.Join(lines, "\n"), nil
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func toLua(L *lua.LState, v any) lua.LValue {
	switch val := v.(type) {
	case nil:
		return lua.LNil
	case bool:
		return lua.LBool(val)
	case int:
		return lua.LNumber(val)
	case int64:
		return lua.LNumber(val)
	case float64:
		return lua.LNumber(val)
	case string:
		return lua.LString(val)
	case []string:
		t := L.NewTable()
		for _, s := range val {
			t.Append(lua.LString(s))
		}
		return t
	case []any:
		t := L.NewTable()
		for _, elem := range val {
			t.Append(toLua(L, elem))
		}
		return t
	default:
		return lua.LString(fmt.Sprintf("%v", val))
	}
}

func fromLua(v lua.LValue) any {
	switch val := v.(type) {
	case lua.LBool:
		return bool(val)
	case lua.LNumber:
		return float64(val)
	case lua.LString:
		return string(val)
	default:
		return nil
	}
}
