// Package rewind keeps a fixed number of past generations in a circular
// buffer and walks backwards and forwards through them.
//
// The buffer owns every grid pushed into it. A grid evicted by a later push
// is released exactly once, and a grid handed out by EndRewind is no longer
// tracked by the buffer.
package rewind

import "github.com/san-kum/lifesim/internal/grid"

// slot is one position in the ring. An unpopulated slot has never been
// filled, or its grid was released or moved out.
type slot struct {
	grid      *grid.Grid
	populated bool
}

// Buffer is a ring of past generations with a navigation cursor.
type Buffer struct {
	slots  []slot
	cursor int

	// entry is the cursor position when rewind started; it holds "now".
	entry     int
	rewinding bool

	releases int
}

// Stats summarises the buffer for display.
type Stats struct {
	Capacity  int
	Populated int
	Cursor    int
	Entry     int
	Rewinding bool
}

// New returns an empty buffer holding at most capacity generations.
// Capacity must be at least one.
func New(capacity int) *Buffer {
	if capacity < 1 {
		panic("rewind: capacity must be positive")
	}
	return &Buffer{slots: make([]slot, capacity)}
}

func (b *Buffer) Cap() int        { return len(b.slots) }
func (b *Buffer) Rewinding() bool { return b.rewinding }

// Releases counts the grids the buffer has released over its lifetime.
func (b *Buffer) Releases() int { return b.releases }

// Len counts the populated slots.
func (b *Buffer) Len() int {
	n := 0
	for _, s := range b.slots {
		if s.populated {
			n++
		}
	}
	return n
}

// Populated reports whether any generation is stored.
func (b *Buffer) Populated() bool {
	for _, s := range b.slots {
		if s.populated {
			return true
		}
	}
	return false
}

func (b *Buffer) Stats() Stats {
	return Stats{
		Capacity:  len(b.slots),
		Populated: b.Len(),
		Cursor:    b.cursor,
		Entry:     b.entry,
		Rewinding: b.rewinding,
	}
}

func (b *Buffer) next(i int) int { return (i + 1) % len(b.slots) }
func (b *Buffer) prev(i int) int { return (i - 1 + len(b.slots)) % len(b.slots) }

func (b *Buffer) release(i int) {
	s := &b.slots[i]
	if !s.populated {
		return
	}
	s.grid.Release()
	s.grid = nil
	s.populated = false
	b.releases++
}

// Push takes ownership of g and stores it after the cursor, releasing the
// oldest generation when the ring is full.
func (b *Buffer) Push(g *grid.Grid) {
	b.cursor = b.next(b.cursor)
	b.release(b.cursor)
	b.slots[b.cursor] = slot{grid: g, populated: true}
}

// BeginRewind marks the cursor as "now". It must precede StepBack and
// StepForward.
func (b *Buffer) BeginRewind() {
	b.entry = b.cursor
	b.rewinding = true
}

// StepBack moves the cursor one generation into the past and returns that
// generation. It returns false, leaving the cursor unchanged, once the oldest
// retained generation is reached.
func (b *Buffer) StepBack() (*grid.Grid, bool) {
	if !b.rewinding || b.cursor == b.next(b.entry) {
		return nil, false
	}
	b.cursor = b.prev(b.cursor)
	s := b.slots[b.cursor]
	if !s.populated {
		b.cursor = b.next(b.cursor)
		return nil, false
	}
	return s.grid, true
}

// StepForward moves the cursor one generation towards "now" and returns that
// generation. It returns false when the cursor is already at the entry point.
func (b *Buffer) StepForward() (*grid.Grid, bool) {
	if !b.rewinding || b.cursor == b.entry {
		return nil, false
	}
	b.cursor = b.next(b.cursor)
	return b.slots[b.cursor].grid, true
}

// Current returns the generation under the cursor without moving it.
func (b *Buffer) Current() (*grid.Grid, bool) {
	s := b.slots[b.cursor]
	return s.grid, s.populated
}

// EndRewind finishes navigation. The generation under the cursor is moved
// out to the caller, the abandoned generations between the cursor and the
// entry point are released, and the cursor steps back so the next Push
// fills the vacated slot. It returns nil if the cursor slot is empty.
func (b *Buffer) EndRewind() *grid.Grid {
	if !b.rewinding {
		return nil
	}
	for i := b.cursor; i != b.entry; {
		i = b.next(i)
		b.release(i)
	}

	s := b.slots[b.cursor]
	b.slots[b.cursor] = slot{}
	b.cursor = b.prev(b.cursor)
	b.rewinding = false
	b.entry = b.cursor
	if !s.populated {
		return nil
	}
	return s.grid
}

// Reset releases every stored generation.
func (b *Buffer) Reset() {
	for i := range b.slots {
		b.release(i)
	}
	b.cursor, b.entry, b.rewinding = 0, 0, false
}
