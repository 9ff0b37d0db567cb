package motion

import (
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/dshills/modalkit/internal/engine/search"
	"github.com/dshills/modalkit/internal/engine/session"
	"github.com/dshills/modalkit/internal/host"
)

func TestMatchPair(t *testing.T) {
	text := "func add(a, b) {\n\treturn (a + b)\n}"
	tests := []struct {
		name string
		pos  host.Position
		want Span
	}{
		{"open to close", at(0, 8), Span{Start: at(0, 8), End: at(0, 14), Kind: Inclusive, Target: at(0, 13)}},
		{"close to open", at(0, 13), Span{Start: at(0, 8), End: at(0, 14), Kind: Inclusive, Target: at(0, 8)}},
		{"scans rest of line", at(0, 0), Span{Start: at(0, 0), End: at(0, 14), Kind: Inclusive, Target: at(0, 13)}},
		{"brace across lines", at(0, 15), Span{Start: at(0, 15), End: at(2, 1), Kind: Inclusive, Target: at(2, 0)}},
	}
	r := NewResolver()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := testCtx(text, tt.pos)
			got, err := r.Resolve(ctx, "%", 0, "")
			if err != nil {
				t.Fatalf("Resolve(%%) error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Resolve(%%) = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestMatchPairNesting(t *testing.T) {
	r := NewResolver()

	ctx := testCtx("(a (b) c)", at(0, 0))
	got, err := r.Resolve(ctx, "%", 0, "")
	if err != nil {
		t.Fatalf("Resolve(%%) error: %v", err)
	}
	if want := at(0, 8); got.Target != want {
		t.Errorf("%% skipped nesting wrong: target = %v, want %v", got.Target, want)
	}

	// the first pair character after the cursor decides the jump
	ctx = testCtx("(a (b) c)", at(0, 4))
	got, err = r.Resolve(ctx, "%", 0, "")
	if err != nil {
		t.Fatalf("Resolve(%%) error: %v", err)
	}
	if want := at(0, 3); got.Target != want {
		t.Errorf("%% target = %v, want %v", got.Target, want)
	}
}

func TestMatchPairErrors(t *testing.T) {
	r := NewResolver()

	ctx := testCtx("plain words", at(0, 0))
	if _, err := r.Resolve(ctx, "%", 0, ""); !errors.Is(err, ErrInvalidTarget) {
		t.Errorf("%% with no pair error = %v, want ErrInvalidTarget", err)
	}
	ctx = testCtx("(((", at(0, 0))
	if _, err := r.Resolve(ctx, "%", 0, ""); !errors.Is(err, ErrInvalidTarget) {
		t.Errorf("%% unmatched error = %v, want ErrInvalidTarget", err)
	}
}

func TestMatchPairOption(t *testing.T) {
	r := NewResolver()
	ctx := testCtx("<tag>", at(0, 0))
	ctx.Opt.MatchPairs = "(:),{:},[:],<:>"
	got, err := r.Resolve(ctx, "%", 0, "")
	if err != nil {
		t.Fatalf("Resolve(%%) error: %v", err)
	}
	if want := at(0, 4); got.Target != want {
		t.Errorf("%% with <:> target = %v, want %v", got.Target, want)
	}
}

func TestPercentOfFile(t *testing.T) {
	text := "l1\nl2\nl3\nl4"
	tests := []struct {
		name  string
		count int
		line  int
	}{
		{"1%", 1, 0},
		{"50%", 50, 1},
		{"75%", 75, 2},
		{"100%", 100, 3},
	}
	r := NewResolver()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := testCtx(text, at(3, 0))
			got, err := r.Resolve(ctx, "%", tt.count, "")
			if err != nil {
				t.Fatalf("Resolve(%d%%) error: %v", tt.count, err)
			}
			if got.Kind != Linewise {
				t.Errorf("%d%% kind = %v, want Linewise", tt.count, got.Kind)
			}
			if got.Target.Line != tt.line {
				t.Errorf("%d%% line = %d, want %d", tt.count, got.Target.Line, tt.line)
			}
		})
	}

	ctx := testCtx(text, at(0, 0))
	if _, err := r.Resolve(ctx, "%", 101, ""); !errors.Is(err, ErrInvalidTarget) {
		t.Errorf("101%% error = %v, want ErrInvalidTarget", err)
	}
}

func TestMarkMotions(t *testing.T) {
	text := "func add(a, b) {\n\treturn (a + b)\n}"
	ctx := testCtx(text, at(0, 0))
	if err := ctx.Marks.Set('a', ctx.Buffer.ID(), at(1, 5)); err != nil {
		t.Fatalf("Set mark: %v", err)
	}
	r := NewResolver()

	got, err := r.Resolve(ctx, "'", 0, "a")
	if err != nil {
		t.Fatalf("Resolve('a) error: %v", err)
	}
	want := Span{Start: at(0, 0), End: at(1, 15), Kind: Linewise, Target: at(1, 1)}
	if got != want {
		t.Errorf("Resolve('a) = %+v, want %+v", got, want)
	}

	got, err = r.Resolve(ctx, "`", 0, "a")
	if err != nil {
		t.Fatalf("Resolve(`a) error: %v", err)
	}
	want = Span{Start: at(0, 0), End: at(1, 5), Kind: Exclusive, Target: at(1, 5)}
	if got != want {
		t.Errorf("Resolve(`a) = %+v, want %+v", got, want)
	}
}

func TestMarkMotionErrors(t *testing.T) {
	r := NewResolver()
	ctx := testCtx("text", at(0, 0))

	if _, err := r.Resolve(ctx, "`", 0, "z"); !errors.Is(err, ErrInvalidTarget) {
		t.Errorf("`z unset error = %v, want ErrInvalidTarget", err)
	}
	if _, err := r.Resolve(ctx, "'", 0, ""); !errors.Is(err, ErrInvalidTarget) {
		t.Errorf("' without name error = %v, want ErrInvalidTarget", err)
	}

	// a global mark in another buffer is not reachable by motion
	if err := ctx.Marks.Set('A', uuid.New(), at(0, 0)); err != nil {
		t.Fatalf("Set mark: %v", err)
	}
	if _, err := r.Resolve(ctx, "`", 0, "A"); !errors.Is(err, ErrInvalidTarget) {
		t.Errorf("`A other buffer error = %v, want ErrInvalidTarget", err)
	}
}

func TestSearchMotions(t *testing.T) {
	text := "alpha beta\ngamma beta\nbeta end"
	r := NewResolver()

	ctx := testCtx(text, at(0, 0))
	got, err := r.Resolve(ctx, "/", 0, "beta")
	if err != nil {
		t.Fatalf("Resolve(/beta) error: %v", err)
	}
	want := Span{Start: at(0, 0), End: at(0, 6), Kind: Exclusive, Target: at(0, 6)}
	if got != want {
		t.Errorf("Resolve(/beta) = %+v, want %+v", got, want)
	}
	last, ok := ctx.Session.LastSearch()
	if !ok || last.Pattern != "beta" || last.Direction != session.Forward {
		t.Errorf("LastSearch = %+v, %v, want beta forward", last, ok)
	}

	// count takes the n'th match
	ctx = testCtx(text, at(0, 0))
	got, err = r.Resolve(ctx, "/", 2, "beta")
	if err != nil {
		t.Fatalf("Resolve(2/beta) error: %v", err)
	}
	if wantTarget := at(1, 6); got.Target != wantTarget {
		t.Errorf("2/beta target = %v, want %v", got.Target, wantTarget)
	}

	// backward search remembers its direction
	ctx = testCtx(text, at(2, 0))
	got, err = r.Resolve(ctx, "?", 0, "beta")
	if err != nil {
		t.Fatalf("Resolve(?beta) error: %v", err)
	}
	if wantTarget := at(1, 6); got.Target != wantTarget {
		t.Errorf("?beta target = %v, want %v", got.Target, wantTarget)
	}
	if last, _ = ctx.Session.LastSearch(); last.Direction != session.Backward {
		t.Errorf("?beta direction = %v, want backward", last.Direction)
	}
}

func TestSearchWraps(t *testing.T) {
	r := NewResolver()
	ctx := testCtx("alpha beta\ngamma beta\nbeta end", at(2, 5))

	got, err := r.Resolve(ctx, "/", 0, "beta")
	if err != nil {
		t.Fatalf("Resolve(/beta) error: %v", err)
	}
	if want := at(0, 6); got.Target != want {
		t.Errorf("wrapped /beta target = %v, want %v", got.Target, want)
	}

	ctx = testCtx("alpha beta\ngamma beta\nbeta end", at(2, 5))
	ctx.Opt.WrapScan = false
	if _, err := r.Resolve(ctx, "/", 0, "beta"); !errors.Is(err, search.ErrPatternNotFound) {
		t.Errorf("nowrap /beta error = %v, want ErrPatternNotFound", err)
	}
}

func TestSearchRepeat(t *testing.T) {
	text := "alpha beta\ngamma beta\nbeta end"
	r := NewResolver()
	ctx := testCtx(text, at(0, 0))

	if _, err := r.Resolve(ctx, "/", 0, "beta"); err != nil {
		t.Fatalf("Resolve(/beta) error: %v", err)
	}
	ctx.Pos = at(0, 6)
	got, err := r.Resolve(ctx, "n", 0, "")
	if err != nil {
		t.Fatalf("Resolve(n) error: %v", err)
	}
	if want := at(1, 6); got.Target != want {
		t.Errorf("n target = %v, want %v", got.Target, want)
	}

	ctx.Pos = at(1, 6)
	got, err = r.Resolve(ctx, "N", 0, "")
	if err != nil {
		t.Fatalf("Resolve(N) error: %v", err)
	}
	if want := at(0, 6); got.Target != want {
		t.Errorf("N target = %v, want %v", got.Target, want)
	}
	// N must not flip the remembered direction
	if last, _ := ctx.Session.LastSearch(); last.Direction != session.Forward {
		t.Errorf("N flipped direction to %v", last.Direction)
	}

	// an empty pattern reuses the remembered one
	ctx.Pos = at(0, 6)
	got, err = r.Resolve(ctx, "/", 0, "")
	if err != nil {
		t.Fatalf("Resolve(/) error: %v", err)
	}
	if want := at(1, 6); got.Target != want {
		t.Errorf("/ with empty pattern target = %v, want %v", got.Target, want)
	}
}

func TestSearchErrors(t *testing.T) {
	r := NewResolver()
	ctx := testCtx("text", at(0, 0))

	if _, err := r.Resolve(ctx, "n", 0, ""); !errors.Is(err, search.ErrNoPreviousPattern) {
		t.Errorf("n without previous error = %v, want ErrNoPreviousPattern", err)
	}
	if _, err := r.Resolve(ctx, "/", 0, ""); !errors.Is(err, search.ErrNoPreviousPattern) {
		t.Errorf("/ without previous error = %v, want ErrNoPreviousPattern", err)
	}
	if _, err := r.Resolve(ctx, "/", 0, "["); !errors.Is(err, search.ErrBadPattern) {
		t.Errorf("/[ error = %v, want ErrBadPattern", err)
	}
	if _, err := r.Resolve(ctx, "/", 0, "missing"); !errors.Is(err, search.ErrPatternNotFound) {
		t.Errorf("/missing error = %v, want ErrPatternNotFound", err)
	}
}

func TestSearchWord(t *testing.T) {
	r := NewResolver()

	ctx := testCtx("beta betamax beta", at(0, 1))
	got, err := r.Resolve(ctx, "*", 0, "")
	if err != nil {
		t.Fatalf("Resolve(*) error: %v", err)
	}
	// betamax is not a whole-word match
	if want := at(0, 13); got.Target != want {
		t.Errorf("* target = %v, want %v", got.Target, want)
	}
	last, ok := ctx.Session.LastSearch()
	if !ok || last.Pattern != `\<beta\>` {
		t.Errorf("* remembered pattern = %q, want \\<beta\\>", last.Pattern)
	}

	ctx = testCtx("alpha beta\ngamma beta\nbeta end", at(2, 0))
	got, err = r.Resolve(ctx, "#", 0, "")
	if err != nil {
		t.Fatalf("Resolve(#) error: %v", err)
	}
	if want := at(1, 6); got.Target != want {
		t.Errorf("# target = %v, want %v", got.Target, want)
	}

	ctx = testCtx("word\n   ", at(1, 0))
	if _, err := r.Resolve(ctx, "*", 0, ""); !errors.Is(err, ErrInvalidTarget) {
		t.Errorf("* with no identifier error = %v, want ErrInvalidTarget", err)
	}
}

func TestOperatorSearchAdjustment(t *testing.T) {
	r := NewResolver()

	// an exclusive search landing in column zero turns linewise when
	// the operator started at the first column
	ctx := testCtx("alpha beta\ngamma beta", at(0, 0))
	ctx.ForOperator = true
	got, err := r.Resolve(ctx, "/", 0, "gamma")
	if err != nil {
		t.Fatalf("Resolve(/gamma) error: %v", err)
	}
	want := Span{Start: at(0, 0), End: at(0, 10), Kind: Linewise, Target: at(1, 0)}
	if got != want {
		t.Errorf("operator /gamma = %+v, want %+v", got, want)
	}

	// from mid-line the end retreats instead
	ctx = testCtx("alpha beta\ngamma beta", at(0, 4))
	ctx.ForOperator = true
	got, err = r.Resolve(ctx, "/", 0, "gamma")
	if err != nil {
		t.Fatalf("Resolve(/gamma) error: %v", err)
	}
	want = Span{Start: at(0, 4), End: at(0, 10), Kind: Exclusive, Target: at(1, 0)}
	if got != want {
		t.Errorf("operator /gamma mid-line = %+v, want %+v", got, want)
	}
}
