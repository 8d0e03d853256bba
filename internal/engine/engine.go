// Package engine advances Game of Life generations and enumerates the cells
// that changed between two of them.
//
// Grids handed to the engine are never mutated. Advance and Toggle both
// return a fresh grid inside a [Diff] that pairs it with its predecessor, so
// the caller decides who owns each generation afterwards.
package engine

import (
	"github.com/san-kum/lifesim/internal/grid"
	"github.com/san-kum/lifesim/internal/topology"
)

// Diff pairs two generations. It borrows both grids; it is only valid while
// their owners keep them alive.
type Diff struct {
	Prev *grid.Grid
	Next *grid.Grid
}

// Changes enumerates the cells whose liveness differs between Prev and Next.
func (d Diff) Changes() *Changes { return RenderDiff(d.Prev, d.Next) }

// Empty reports whether the generations are identical.
func (d Diff) Empty() bool {
	_, ok := d.Changes().Next()
	return !ok
}

// Rule reports the next state of a cell: survival on 2 or 3 neighbors,
// birth on exactly 3.
func Rule(alive bool, neighbors int) bool {
	return neighbors == 3 || (alive && neighbors == 2)
}

// Advance computes the next generation of g under topo.
func Advance(g *grid.Grid, topo topology.Topology) Diff {
	rows, cols := g.Rows(), g.Cols()
	next := grid.New(rows, cols)
	buf := make([]topology.Point, 0, 8)

	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			buf = topo.AppendNeighbors(buf[:0], x, y, rows, cols)
			n := 0
			for _, p := range buf {
				if g.Get(p.X, p.Y) {
					n++
				}
			}
			if Rule(g.Get(x, y), n) {
				next.Set(x, y, true)
			}
		}
	}
	return Diff{Prev: g, Next: next}
}

// Toggle flips one cell on a copy of g.
func Toggle(g *grid.Grid, x, y int) Diff {
	next := g.Clone()
	next.Set(x, y, !g.Get(x, y))
	return Diff{Prev: g, Next: next}
}
