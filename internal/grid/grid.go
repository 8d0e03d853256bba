package grid

import (
	"math/bits"
	"math/rand/v2"
	"strings"
)

// Grid is one generation of cells packed one bit per cell in row-major order.
type Grid struct {
	rows, cols int
	bits       []byte
}

// New allocates a rows x cols grid with every cell dead.
func New(rows, cols int) *Grid {
	return &Grid{rows: rows, cols: cols, bits: make([]byte, (rows*cols+7)/8)}
}

func (g *Grid) Rows() int { return g.rows }
func (g *Grid) Cols() int { return g.cols }

// Get reports whether the cell at column x, row y is alive.
// Coordinates are not range checked.
func (g *Grid) Get(x, y int) bool {
	i := y*g.cols + x
	return g.bits[i>>3]&(1<<(i&7)) != 0
}

func (g *Grid) Set(x, y int, alive bool) {
	i := y*g.cols + x
	if alive {
		g.bits[i>>3] |= 1 << (i & 7)
	} else {
		g.bits[i>>3] &^= 1 << (i & 7)
	}
}

// Clone returns a deep copy owned independently of g.
func (g *Grid) Clone() *Grid {
	c := &Grid{rows: g.rows, cols: g.cols, bits: make([]byte, len(g.bits))}
	copy(c.bits, g.bits)
	return c
}

// Release ends ownership of the grid. Any later read panics, and releasing
// twice is a bug.
func (g *Grid) Release() {
	if g.bits == nil {
		panic("grid: release of released grid")
	}
	g.bits = nil
}

func (g *Grid) Released() bool { return g.bits == nil }

// Bytes exposes the packed storage for fast comparisons. Callers must not
// modify it.
func (g *Grid) Bytes() []byte { return g.bits }

// Equal reports whether both grids share geometry and liveness.
func (g *Grid) Equal(other *Grid) bool {
	if g.rows != other.rows || g.cols != other.cols {
		return false
	}
	n := g.rows * g.cols
	full := n / 8
	for i := 0; i < full; i++ {
		if g.bits[i] != other.bits[i] {
			return false
		}
	}
	if rem := n % 8; rem != 0 {
		mask := byte(1)<<rem - 1
		return g.bits[full]&mask == other.bits[full]&mask
	}
	return true
}

// Population counts the live cells.
func (g *Grid) Population() int {
	n := 0
	for _, b := range g.bits {
		n += bits.OnesCount8(b)
	}
	return n
}

// Randomize sets each cell alive with the given probability. Only used while
// the grid is still private to its constructor.
func (g *Grid) Randomize(r *rand.Rand, density float64) {
	for y := 0; y < g.rows; y++ {
		for x := 0; x < g.cols; x++ {
			g.Set(x, y, r.Float64() < density)
		}
	}
}

func (g *Grid) String() string {
	var b strings.Builder
	b.Grow((g.cols + 1) * g.rows)
	for y := 0; y < g.rows; y++ {
		for x := 0; x < g.cols; x++ {
			if g.Get(x, y) {
				b.WriteByte('#')
			} else {
				b.WriteByte('.')
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// Parse builds a grid from rows of '#' (alive) and '.' (dead). All rows must
// have the same length.
func Parse(rows ...string) *Grid {
	if len(rows) == 0 {
		return New(0, 0)
	}
	g := New(len(rows), len(rows[0]))
	for y, row := range rows {
		for x, c := range row {
			if c == '#' {
				g.Set(x, y, true)
			}
		}
	}
	return g
}
