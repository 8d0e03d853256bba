package render

import (
	"github.com/san-kum/lifesim/internal/engine"
	"github.com/san-kum/lifesim/internal/grid"
)

const (
	Alive = '█'
	Dead  = ' '
)

// Target redraws single cells. It never sees grid internals.
type Target interface {
	Apply(ch engine.Change)
}

// Draw feeds every change of d to t and reports how many cells were redrawn.
func Draw(t Target, d engine.Diff) int {
	n := 0
	it := d.Changes()
	for ch, ok := it.Next(); ok; ch, ok = it.Next() {
		t.Apply(ch)
		n++
	}
	return n
}

// Paint redraws every cell of g. Used once per session, before diffs take
// over.
func Paint(t Target, g *grid.Grid) {
	for y := 0; y < g.Rows(); y++ {
		for x := 0; x < g.Cols(); x++ {
			t.Apply(engine.Change{X: x, Y: y, Alive: g.Get(x, y)})
		}
	}
}
