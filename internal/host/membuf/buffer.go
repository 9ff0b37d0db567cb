// Package membuf provides an in-memory implementation of the host boundary
// contracts: a line-slab text buffer with edit notification and a
// transaction-grouped undo history. The demo binary and the test suites use
// it as their host; production embedders supply their own.
package membuf

import (
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/dshills/modalkit/internal/host"
)

// Buffer is an in-memory host.Buffer backed by a slice of lines.
// A Buffer always holds at least one line.
type Buffer struct {
	mu      sync.RWMutex
	id      uuid.UUID
	name    string
	lines   []string
	subs    []subscriber
	nextSub int
}

type subscriber struct {
	id int
	fn func(host.Change)
}

// New creates a buffer from text, splitting on newlines. Empty text yields
// a single empty line.
func New(name, text string) *Buffer {
	return &Buffer{
		id:    uuid.New(),
		name:  name,
		lines: strings.Split(text, "\n"),
	}
}

// ID implements host.Buffer.
func (b *Buffer) ID() uuid.UUID { return b.id }

// Name implements host.Buffer.
func (b *Buffer) Name() string { return b.name }

// LineCount implements host.Buffer.
func (b *Buffer) LineCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.lines)
}

// Line implements host.Buffer.
func (b *Buffer) Line(n int) (string, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if n < 0 || n >= len(b.lines) {
		return "", fmt.Errorf("line %d: %w", n, host.ErrLineOutOfRange)
	}
	return b.lines[n], nil
}

// Lines returns a copy of all lines.
func (b *Buffer) Lines() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]string, len(b.lines))
	copy(out, b.lines)
	return out
}

// String returns the full buffer text joined with newlines.
func (b *Buffer) String() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return strings.Join(b.lines, "\n")
}

// Replace implements host.Buffer. The range [start, end) is replaced by
// text; exactly one Change is emitted to subscribers on success.
func (b *Buffer) Replace(start, end host.Position, text string) error {
	b.mu.Lock()
	if start.After(end) {
		b.mu.Unlock()
		return fmt.Errorf("%v..%v: %w", start, end, host.ErrRangeInvalid)
	}
	if err := b.checkLocked(start); err != nil {
		b.mu.Unlock()
		return err
	}
	if err := b.checkLocked(end); err != nil {
		b.mu.Unlock()
		return err
	}

	old := b.textLocked(start, end)
	if old == "" && text == "" {
		b.mu.Unlock()
		return nil
	}

	startLine := []rune(b.lines[start.Line])
	endLine := []rune(b.lines[end.Line])
	segs := strings.Split(text, "\n")
	segs[0] = string(startLine[:start.Col]) + segs[0]
	segs[len(segs)-1] += string(endLine[end.Col:])

	merged := make([]string, 0, start.Line+len(segs)+len(b.lines)-end.Line-1)
	merged = append(merged, b.lines[:start.Line]...)
	merged = append(merged, segs...)
	merged = append(merged, b.lines[end.Line+1:]...)
	b.lines = merged

	var ch host.Change
	switch {
	case old == "":
		ch = host.NewInsertChange(start, text)
	case text == "":
		ch = host.NewDeleteChange(start, end, old)
	default:
		ch = host.NewReplaceChange(start, end, old, text)
	}

	subs := make([]subscriber, len(b.subs))
	copy(subs, b.subs)
	b.mu.Unlock()

	// Callbacks run outside the lock so subscribers may read the buffer.
	for _, s := range subs {
		s.fn(ch)
	}
	return nil
}

// Subscribe implements host.Buffer. Subscribers are notified in
// registration order.
func (b *Buffer) Subscribe(fn func(host.Change)) func() {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.nextSub
	b.nextSub++
	b.subs = append(b.subs, subscriber{id: id, fn: fn})
	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		for i, s := range b.subs {
			if s.id == id {
				b.subs = append(b.subs[:i], b.subs[i+1:]...)
				return
			}
		}
	}
}

// Text returns the text within [start, end).
func (b *Buffer) Text(start, end host.Position) (string, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if start.After(end) {
		return "", fmt.Errorf("%v..%v: %w", start, end, host.ErrRangeInvalid)
	}
	if err := b.checkLocked(start); err != nil {
		return "", err
	}
	if err := b.checkLocked(end); err != nil {
		return "", err
	}
	return b.textLocked(start, end), nil
}

func (b *Buffer) checkLocked(p host.Position) error {
	if p.Line < 0 || p.Line >= len(b.lines) {
		return fmt.Errorf("%v: %w", p, host.ErrPositionOutOfRange)
	}
	if p.Col < 0 || p.Col > len([]rune(b.lines[p.Line])) {
		return fmt.Errorf("%v: %w", p, host.ErrPositionOutOfRange)
	}
	return nil
}

func (b *Buffer) textLocked(start, end host.Position) string {
	if start.Line == end.Line {
		line := []rune(b.lines[start.Line])
		return string(line[start.Col:end.Col])
	}
	var sb strings.Builder
	first := []rune(b.lines[start.Line])
	sb.WriteString(string(first[start.Col:]))
	for l := start.Line + 1; l < end.Line; l++ {
		sb.WriteByte('\n')
		sb.WriteString(b.lines[l])
	}
	last := []rune(b.lines[end.Line])
	sb.WriteByte('\n')
	sb.WriteString(string(last[:end.Col]))
	return sb.String()
}
