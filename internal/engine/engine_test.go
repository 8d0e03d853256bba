package engine

import (
	"math/rand/v2"
	"testing"

	"github.com/san-kum/lifesim/internal/grid"
	"github.com/san-kum/lifesim/internal/topology"
)

func TestRule(t *testing.T) {
	tests := []struct {
		alive     bool
		neighbors int
		expected  bool
	}{
		{true, 1, false},
		{true, 2, true},
		{true, 3, true},
		{true, 4, false},
		{false, 2, false},
		{false, 3, true},
		{false, 4, false},
	}
	for _, tt := range tests {
		if got := Rule(tt.alive, tt.neighbors); got != tt.expected {
			t.Errorf("Rule(%v, %d) = %v, want %v", tt.alive, tt.neighbors, got, tt.expected)
		}
	}
}

func TestBlockIsStill(t *testing.T) {
	g := grid.Parse(
		"....",
		".##.",
		".##.",
		"....",
	)
	d := Advance(g, topology.Bounded)
	if !d.Next.Equal(g) {
		t.Errorf("block changed:\n%s", d.Next)
	}
	if !d.Empty() {
		t.Error("diff of a still life should be empty")
	}
	if d.Prev != g {
		t.Error("diff should carry the source grid as Prev")
	}
}

func TestBlockInCornerIsStill(t *testing.T) {
	g := grid.Parse(
		"##",
		"##",
	)
	d := Advance(g, topology.Bounded)
	if d.Next.Population() != 4 {
		t.Errorf("expected 4 live cells, got %d", d.Next.Population())
	}
}

func TestBlinkerOscillates(t *testing.T) {
	g := grid.New(9, 9)
	for x := 3; x <= 5; x++ {
		g.Set(x, 5, true)
	}

	first := Advance(g, topology.Bounded).Next
	for y := 0; y < 9; y++ {
		for x := 0; x < 9; x++ {
			want := x == 4 && y >= 4 && y <= 6
			if first.Get(x, y) != want {
				t.Fatalf("after first step cell (%d,%d) alive=%v, expected %v", x, y, first.Get(x, y), want)
			}
		}
	}

	second := Advance(first, topology.Bounded).Next
	if !second.Equal(g) {
		t.Errorf("blinker did not return after two steps:\n%s", second)
	}
}

func TestToroidalGliderWraps(t *testing.T) {
	g := grid.Parse(
		".#......",
		"..#.....",
		"###.....",
		"........",
		"........",
		"........",
		"........",
		"........",
	)
	cur := g
	// a glider moves one cell diagonally every 4 generations
	for i := 0; i < 4*8; i++ {
		cur = Advance(cur, topology.Toroidal).Next
	}
	if !cur.Equal(g) {
		t.Errorf("glider did not wrap back:\n%s", cur)
	}
	if cur.Population() != 5 {
		t.Errorf("expected 5 cells, got %d", cur.Population())
	}
}

func TestBoundedEdgeDiffersFromToroidal(t *testing.T) {
	g := grid.Parse(
		"#..",
		"#..",
		"#..",
	)
	bounded := Advance(g, topology.Bounded).Next
	toroidal := Advance(g, topology.Toroidal).Next
	if bounded.Equal(toroidal) {
		t.Error("edge blinker should evolve differently under the two topologies")
	}
}

func TestAdvanceDoesNotMutateSource(t *testing.T) {
	g := grid.Parse(
		".#.",
		".#.",
		".#.",
	)
	before := g.Clone()
	Advance(g, topology.Bounded)
	if !g.Equal(before) {
		t.Error("source grid was modified")
	}
}

func TestDiffIsMinimal(t *testing.T) {
	r := rand.New(rand.NewPCG(42, 0))
	for trial := 0; trial < 20; trial++ {
		a := grid.New(13, 11)
		b := grid.New(13, 11)
		a.Randomize(r, 0.4)
		b.Randomize(r, 0.4)

		seen := make(map[[2]int]bool)
		for _, ch := range RenderDiff(a, b).Collect() {
			key := [2]int{ch.X, ch.Y}
			if seen[key] {
				t.Fatalf("duplicate change %v", key)
			}
			seen[key] = true
			if ch.Alive != b.Get(ch.X, ch.Y) {
				t.Errorf("change %v reports alive=%v", key, ch.Alive)
			}
		}

		for y := 0; y < 13; y++ {
			for x := 0; x < 11; x++ {
				differs := a.Get(x, y) != b.Get(x, y)
				if differs != seen[[2]int{x, y}] {
					t.Errorf("cell (%d,%d): differs=%v listed=%v", x, y, differs, seen[[2]int{x, y}])
				}
			}
		}
	}
}

func TestDiffIsSinglePass(t *testing.T) {
	a := grid.New(2, 2)
	b := grid.Parse("#.", ".#")
	it := RenderDiff(a, b)
	if n := len(it.Collect()); n != 2 {
		t.Fatalf("expected 2 changes, got %d", n)
	}
	if _, ok := it.Next(); ok {
		t.Error("exhausted iterator should stay exhausted")
	}
}

func TestToggle(t *testing.T) {
	g := grid.New(4, 4)
	d := Toggle(g, 2, 3)
	if g.Get(2, 3) {
		t.Error("toggle mutated source")
	}
	if !d.Next.Get(2, 3) {
		t.Error("toggled cell should be alive")
	}
	changes := d.Changes().Collect()
	if len(changes) != 1 || changes[0] != (Change{X: 2, Y: 3, Alive: true}) {
		t.Errorf("unexpected diff %v", changes)
	}

	back := Toggle(d.Next, 2, 3)
	if !back.Next.Equal(g) {
		t.Error("toggling twice should restore the grid")
	}
}
