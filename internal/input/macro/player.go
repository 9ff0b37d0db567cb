package macro

import (
	"fmt"

	"github.com/dshills/modalkit/internal/engine/register"
	"github.com/dshills/modalkit/internal/input/key"
)

// MaxPlaybackDepth bounds nested playback, an @ inside a macro.
const MaxPlaybackDepth = 10

// FeedFunc receives one replayed key. Returning an error aborts the
// remainder of the playback.
type FeedFunc func(in key.Input) error

// Player replays register text as keys. It is confined to its
// controller's goroutine; nesting happens when a replayed @ starts
// another playback from inside the feed callback.
type Player struct {
	store *register.Store
	depth int
}

// NewPlayer creates a player reading macros from the given store.
func NewPlayer(store *register.Store) *Player {
	return &Player{store: store}
}

// Playing reports whether a playback is in progress. Callers skip
// their recording hook while it is true.
func (p *Player) Playing() bool {
	return p.depth > 0
}

// Depth returns the current nesting depth, 0 when idle.
func (p *Player) Depth() int {
	return p.depth
}

// Play parses the named register and feeds its keys count times. A
// count below one plays once. Feed errors abort playback and
// propagate unchanged.
func (p *Player) Play(name rune, count int, feed FeedFunc) error {
	if p.depth >= MaxPlaybackDepth {
		return fmt.Errorf("%w: depth %d", ErrPlaybackDepth, p.depth)
	}

	v, err := p.store.Read(name)
	if err != nil {
		return err
	}
	if v.Text == "" {
		return fmt.Errorf("%w: %q", ErrEmptyRegister, name)
	}
	seq, err := key.ParseSequence(v.Text)
	if err != nil {
		return fmt.Errorf("register %q: %w", name, err)
	}
	if seq.IsEmpty() {
		return fmt.Errorf("%w: %q", ErrEmptyRegister, name)
	}

	if count < 1 {
		count = 1
	}

	p.depth++
	defer func() { p.depth-- }()

	for i := 0; i < count; i++ {
		for _, in := range seq.Inputs {
			if err := feed(in); err != nil {
				return err
			}
		}
	}
	return nil
}
