package topology

import "fmt"

// Topology selects how a cell's neighbor set is formed at the grid edges.
type Topology int

const (
	// Bounded drops neighbors that fall outside the grid.
	Bounded Topology = iota
	// Toroidal wraps rows and columns so every cell has eight neighbors.
	Toroidal
)

// Point is a cell coordinate.
type Point struct {
	X, Y int
}

var offsets = [8]Point{
	{-1, -1}, {0, -1}, {1, -1},
	{-1, 0}, {1, 0},
	{-1, 1}, {0, 1}, {1, 1},
}

func (t Topology) String() string {
	switch t {
	case Bounded:
		return "bounded"
	case Toroidal:
		return "toroidal"
	default:
		return fmt.Sprintf("topology(%d)", int(t))
	}
}

// Parse maps a config name to a Topology.
func Parse(name string) (Topology, error) {
	switch name {
	case "bounded", "":
		return Bounded, nil
	case "toroidal", "torus", "wrap":
		return Toroidal, nil
	}
	return Bounded, fmt.Errorf("unknown topology: %s", name)
}

func (t Topology) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

func (t *Topology) UnmarshalText(b []byte) error {
	v, err := Parse(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// Neighbors returns the neighbor set of (x, y) on a rows x cols grid.
func (t Topology) Neighbors(x, y, rows, cols int) []Point {
	return t.AppendNeighbors(make([]Point, 0, 8), x, y, rows, cols)
}

// AppendNeighbors appends the neighbor set of (x, y) to dst. The step engine
// reuses one buffer across the whole grid.
func (t Topology) AppendNeighbors(dst []Point, x, y, rows, cols int) []Point {
	for _, o := range offsets {
		nx, ny := x+o.X, y+o.Y
		if t == Toroidal {
			dst = append(dst, Point{mod(nx, cols), mod(ny, rows)})
			continue
		}
		if nx < 0 || nx >= cols || ny < 0 || ny >= rows {
			continue
		}
		dst = append(dst, Point{nx, ny})
	}
	return dst
}

// mod is the mathematical modulo; the result is never negative.
func mod(v, n int) int {
	return (v%n + n) % n
}
