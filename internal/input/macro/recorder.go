package macro

import (
	"errors"
	"fmt"

	"github.com/dshills/modalkit/internal/engine/register"
	"github.com/dshills/modalkit/internal/input/key"
)

var (
	// ErrAlreadyRecording indicates Start while a recording is open.
	ErrAlreadyRecording = errors.New("already recording")

	// ErrNotRecording indicates Stop without an open recording.
	ErrNotRecording = errors.New("not recording")

	// ErrEmptyRegister indicates playback from a register with no
	// content.
	ErrEmptyRegister = errors.New("register is empty")

	// ErrPlaybackActive indicates an operation that cannot start
	// while a macro is playing.
	ErrPlaybackActive = errors.New("macro playback active")

	// ErrPlaybackDepth indicates nested playback beyond the depth
	// limit.
	ErrPlaybackDepth = errors.New("macro playback too deep")
)

// Recorder captures dispatched keys into a register. It is confined
// to its controller's goroutine.
type Recorder struct {
	store     *register.Store
	recording bool
	target    rune
	keys      *key.Sequence
}

// NewRecorder creates a recorder committing into the given store.
func NewRecorder(store *register.Store) *Recorder {
	return &Recorder{store: store}
}

// validTarget reports whether r can hold a recording: letters,
// digits, or the unnamed register.
func validTarget(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z':
		return true
	case r >= 'A' && r <= 'Z':
		return true
	case r >= '0' && r <= '9':
		return true
	case r == '"':
		return true
	default:
		return false
	}
}

// Start opens a recording into the named register. An uppercase name
// appends to the register's existing content when the recording is
// committed.
func (r *Recorder) Start(target rune) error {
	if r.recording {
		return fmt.Errorf("%w: @%c", ErrAlreadyRecording, r.target)
	}
	if !validTarget(target) {
		return fmt.Errorf("%w: %q", register.ErrInvalidName, target)
	}
	r.recording = true
	r.target = target
	r.keys = key.NewSequence()
	return nil
}

// Record appends one dispatched key to the open recording. It is a
// no-op when idle, so the caller can leave the hook in place
// unconditionally.
func (r *Recorder) Record(in key.Input) {
	if !r.recording {
		return
	}
	r.keys.Add(in)
}

// Stop commits the recording into its register as charwise text in
// key notation and returns the target name. Stopping an empty
// recording empties a lowercase register and leaves an uppercase
// one unchanged, like any other append of nothing.
func (r *Recorder) Stop() (rune, error) {
	if !r.recording {
		return 0, ErrNotRecording
	}
	target := r.target
	text := r.keys.VimString()
	r.recording = false
	r.target = 0
	r.keys = nil

	err := r.store.Write(target, register.Value{Text: text, Shape: register.ShapeCharwise})
	if err != nil {
		return target, fmt.Errorf("commit recording: %w", err)
	}
	return target, nil
}

// Recording reports whether a recording is open.
func (r *Recorder) Recording() bool {
	return r.recording
}

// Target returns the register being recorded into, 0 when idle.
func (r *Recorder) Target() rune {
	if !r.recording {
		return 0
	}
	return r.target
}
