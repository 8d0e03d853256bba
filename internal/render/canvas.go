package render

import (
	"strings"

	"github.com/san-kum/lifesim/internal/engine"
)

// Canvas is an in-memory character buffer kept in sync through diffs.
type Canvas struct {
	rows, cols int
	cells      [][]rune
}

func NewCanvas(rows, cols int) *Canvas {
	cells := make([][]rune, rows)
	for i := range cells {
		cells[i] = []rune(strings.Repeat(string(Dead), cols))
	}
	return &Canvas{rows: rows, cols: cols, cells: cells}
}

func (c *Canvas) Apply(ch engine.Change) {
	if ch.Alive {
		c.cells[ch.Y][ch.X] = Alive
	} else {
		c.cells[ch.Y][ch.X] = Dead
	}
}

func (c *Canvas) At(x, y int) rune { return c.cells[y][x] }

// Row returns one line of the canvas.
func (c *Canvas) Row(y int) []rune { return c.cells[y] }

func (c *Canvas) Rows() int { return c.rows }
func (c *Canvas) Cols() int { return c.cols }

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.cells {
		b.WriteString(string(row))
		b.WriteByte('\n')
	}
	return b.String()
}
