package mark

import (
	"sync"

	"github.com/google/uuid"

	"github.com/dshills/modalkit/internal/host"
)

// DefaultJumpListSize bounds the jump list length.
const DefaultJumpListSize = 100

// Jump is one entry in the jump list.
type Jump struct {
	Buffer uuid.UUID
	Pos    host.Position
}

// JumpList records positions the cursor jumped from. The cursor index
// ranges over [0, len]: len means the live end, past every recorded
// entry.
type JumpList struct {
	mu      sync.Mutex
	entries []Jump
	cursor  int
	max     int
}

// NewJumpList creates a jump list holding at most max entries.
// A non-positive max uses DefaultJumpListSize.
func NewJumpList(max int) *JumpList {
	if max <= 0 {
		max = DefaultJumpListSize
	}
	return &JumpList{max: max}
}

// Push records a jump origin. Entries ahead of the cursor are
// truncated, a previous entry on the same line of the same buffer is
// dropped, and the cursor returns to the live end.
func (j *JumpList) Push(buf uuid.UUID, pos host.Position) {
	j.mu.Lock()
	defer j.mu.Unlock()

	j.entries = j.entries[:j.cursor]

	for i, e := range j.entries {
		if e.Buffer == buf && e.Pos.Line == pos.Line {
			j.entries = append(j.entries[:i], j.entries[i+1:]...)
			break
		}
	}

	j.entries = append(j.entries, Jump{Buffer: buf, Pos: pos})
	if len(j.entries) > j.max {
		j.entries = j.entries[len(j.entries)-j.max:]
	}
	j.cursor = len(j.entries)
}

// Back moves one entry backward and returns it. When starting from the
// live end, the current position is recorded first so Forward can
// return to it. Returns false when there is no older entry.
func (j *JumpList) Back(buf uuid.UUID, current host.Position) (Jump, bool) {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.cursor == 0 {
		return Jump{}, false
	}

	if j.cursor == len(j.entries) {
		j.entries = append(j.entries, Jump{Buffer: buf, Pos: current})
		if len(j.entries) > j.max+1 {
			drop := len(j.entries) - (j.max + 1)
			j.entries = j.entries[drop:]
			j.cursor -= drop
		}
	}

	j.cursor--
	return j.entries[j.cursor], true
}

// Forward moves one entry forward and returns it. Returns false at the
// live end.
func (j *JumpList) Forward() (Jump, bool) {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.cursor+1 >= len(j.entries) {
		return Jump{}, false
	}

	j.cursor++
	return j.entries[j.cursor], true
}

// Entries returns a copy of the recorded jumps, oldest first.
func (j *JumpList) Entries() []Jump {
	j.mu.Lock()
	defer j.mu.Unlock()

	out := make([]Jump, len(j.entries))
	copy(out, j.entries)
	return out
}

// Cursor returns the cursor index, in [0, len].
func (j *JumpList) Cursor() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.cursor
}

// Clear removes all entries.
func (j *JumpList) Clear() {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.entries = nil
	j.cursor = 0
}

// Adjust moves the recorded positions of a buffer to follow an edit.
// Entries whose line was deleted snap to the start of the change
// rather than disappearing.
func (j *JumpList) Adjust(buf uuid.UUID, change host.Change) {
	j.mu.Lock()
	defer j.mu.Unlock()

	for i, e := range j.entries {
		if e.Buffer != buf {
			continue
		}
		next, ok := AdjustPosition(e.Pos, change)
		if !ok {
			next = change.Start
		}
		j.entries[i].Pos = next
	}
}
