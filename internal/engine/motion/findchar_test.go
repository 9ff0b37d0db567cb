package motion

import (
	"errors"
	"testing"

	"github.com/dshills/modalkit/internal/host"
)

func TestFindChar(t *testing.T) {
	text := "abcabcabc"
	tests := []struct {
		name  string
		keys  string
		arg   string
		pos   host.Position
		count int
		want  Span
	}{
		{"f", "f", "c", at(0, 0), 0, Span{Start: at(0, 0), End: at(0, 3), Kind: Inclusive, Target: at(0, 2)}},
		{"2f", "f", "c", at(0, 0), 2, Span{Start: at(0, 0), End: at(0, 6), Kind: Inclusive, Target: at(0, 5)}},
		{"f same char", "f", "a", at(0, 0), 0, Span{Start: at(0, 0), End: at(0, 4), Kind: Inclusive, Target: at(0, 3)}},
		{"t", "t", "c", at(0, 0), 0, Span{Start: at(0, 0), End: at(0, 2), Kind: Inclusive, Target: at(0, 1)}},
		{"t adjacent", "t", "b", at(0, 0), 0, Span{Start: at(0, 0), End: at(0, 1), Kind: Inclusive, Target: at(0, 0)}},
		{"F", "F", "a", at(0, 8), 0, Span{Start: at(0, 6), End: at(0, 8), Kind: Exclusive, Target: at(0, 6)}},
		{"2F", "F", "a", at(0, 8), 2, Span{Start: at(0, 3), End: at(0, 8), Kind: Exclusive, Target: at(0, 3)}},
		{"T", "T", "a", at(0, 8), 0, Span{Start: at(0, 7), End: at(0, 8), Kind: Exclusive, Target: at(0, 7)}},
	}
	r := NewResolver()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := testCtx(text, tt.pos)
			got, err := r.Resolve(ctx, tt.keys, tt.count, tt.arg)
			if err != nil {
				t.Fatalf("Resolve(%s%s) error: %v", tt.keys, tt.arg, err)
			}
			if got != tt.want {
				t.Errorf("Resolve(%s%s) = %+v, want %+v", tt.keys, tt.arg, got, tt.want)
			}
		})
	}
}

func TestFindCharErrors(t *testing.T) {
	r := NewResolver()

	ctx := testCtx("abc", at(0, 0))
	if _, err := r.Resolve(ctx, "f", 0, "z"); !errors.Is(err, ErrInvalidTarget) {
		t.Errorf("fz error = %v, want ErrInvalidTarget", err)
	}
	if _, err := r.Resolve(ctx, "f", 0, ""); !errors.Is(err, ErrInvalidTarget) {
		t.Errorf("f without target error = %v, want ErrInvalidTarget", err)
	}
	// f does not cross lines
	ctx = testCtx("abc\nxyz", at(0, 0))
	if _, err := r.Resolve(ctx, "f", 0, "x"); !errors.Is(err, ErrInvalidTarget) {
		t.Errorf("fx across lines error = %v, want ErrInvalidTarget", err)
	}
	// a failed search must not disturb the remembered one
	if _, ok := ctx.Session.LastCharSearch(); ok {
		t.Errorf("failed find recorded a character search")
	}
}

func TestFindCharRecordsSearch(t *testing.T) {
	r := NewResolver()
	ctx := testCtx("abcabcabc", at(0, 0))

	if _, err := r.Resolve(ctx, "f", 0, "c"); err != nil {
		t.Fatalf("Resolve(fc) error: %v", err)
	}
	cs, ok := ctx.Session.LastCharSearch()
	if !ok || cs.Kind != 'f' || cs.Target != 'c' {
		t.Fatalf("LastCharSearch = %+v, %v, want f/c", cs, ok)
	}

	// ; repeats without touching the memory
	ctx.Pos = at(0, 2)
	got, err := r.Resolve(ctx, ";", 0, "")
	if err != nil {
		t.Fatalf("Resolve(;) error: %v", err)
	}
	if want := at(0, 5); got.Target != want {
		t.Errorf("; target = %v, want %v", got.Target, want)
	}
	if cs, _ = ctx.Session.LastCharSearch(); cs.Kind != 'f' || cs.Target != 'c' {
		t.Errorf("; changed the remembered search to %+v", cs)
	}

	// , reverses
	ctx.Pos = at(0, 5)
	got, err = r.Resolve(ctx, ",", 0, "")
	if err != nil {
		t.Fatalf("Resolve(,) error: %v", err)
	}
	if want := at(0, 2); got.Target != want {
		t.Errorf(", target = %v, want %v", got.Target, want)
	}
}

func TestRepeatTillSkipsAdjacent(t *testing.T) {
	r := NewResolver()
	ctx := testCtx("abcabcabc", at(0, 0))

	got, err := r.Resolve(ctx, "t", 0, "c")
	if err != nil {
		t.Fatalf("Resolve(tc) error: %v", err)
	}
	if want := at(0, 1); got.Target != want {
		t.Fatalf("tc target = %v, want %v", got.Target, want)
	}

	// a naive repeat would stop where we already stand
	ctx.Pos = at(0, 1)
	got, err = r.Resolve(ctx, ";", 0, "")
	if err != nil {
		t.Fatalf("Resolve(;) error: %v", err)
	}
	if want := at(0, 4); got.Target != want {
		t.Errorf("; after t target = %v, want %v", got.Target, want)
	}

	// , keeps the till-ness in the other direction
	ctx.Pos = at(0, 4)
	got, err = r.Resolve(ctx, ",", 0, "")
	if err != nil {
		t.Fatalf("Resolve(,) error: %v", err)
	}
	if want := at(0, 3); got.Target != want {
		t.Errorf(", after t target = %v, want %v", got.Target, want)
	}
}

func TestRepeatFindWithoutPrevious(t *testing.T) {
	r := NewResolver()
	ctx := testCtx("abc", at(0, 0))
	if _, err := r.Resolve(ctx, ";", 0, ""); !errors.Is(err, ErrInvalidTarget) {
		t.Errorf("; without previous error = %v, want ErrInvalidTarget", err)
	}
}
