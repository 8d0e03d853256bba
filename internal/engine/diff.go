package engine

import "github.com/san-kum/lifesim/internal/grid"

// Change is one redraw instruction: the cell at (X, Y) is now Alive.
type Change struct {
	X, Y  int
	Alive bool
}

// Changes is a lazy, single-pass iterator over differing cells in row-major
// order. It cannot be rewound; call RenderDiff again for a second pass.
type Changes struct {
	prev, next []byte
	cols, n    int
	i          int
}

// RenderDiff returns an iterator over the cells that differ between prev and
// next. Both grids must share geometry.
func RenderDiff(prev, next *grid.Grid) *Changes {
	return &Changes{
		prev: prev.Bytes(),
		next: next.Bytes(),
		cols: next.Cols(),
		n:    next.Rows() * next.Cols(),
	}
}

// Next returns the next changed cell, or false once the grids are exhausted.
func (c *Changes) Next() (Change, bool) {
	for c.i < c.n {
		i := c.i
		b := i >> 3
		if i&7 == 0 && c.prev[b] == c.next[b] {
			c.i += 8
			continue
		}
		c.i++
		mask := byte(1) << (i & 7)
		p, q := c.prev[b]&mask != 0, c.next[b]&mask != 0
		if p != q {
			return Change{X: i % c.cols, Y: i / c.cols, Alive: q}, true
		}
	}
	return Change{}, false
}

// Collect drains the iterator.
func (c *Changes) Collect() []Change {
	var out []Change
	for ch, ok := c.Next(); ok; ch, ok = c.Next() {
		out = append(out, ch)
	}
	return out
}
