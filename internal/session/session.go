package session

import (
	"fmt"
	"math/rand/v2"

	"github.com/san-kum/lifesim/internal/config"
	"github.com/san-kum/lifesim/internal/engine"
	"github.com/san-kum/lifesim/internal/grid"
	"github.com/san-kum/lifesim/internal/rewind"
	"github.com/san-kum/lifesim/internal/topology"
)

// Mode is the controller state.
type Mode int

const (
	Paused Mode = iota
	Running
	Rewind
)

func (m Mode) String() string {
	switch m {
	case Paused:
		return "paused"
	case Running:
		return "running"
	case Rewind:
		return "rewind"
	}
	return fmt.Sprintf("mode(%d)", int(m))
}

type Options struct {
	Rows, Cols         int
	Topology           topology.Topology
	TicksPerGeneration int
	History            int
	Prepopulate        bool
	Density            float64
	Seed               int64
}

// OptionsFromConfig sizes a session from the persisted config and its layout.
func OptionsFromConfig(cfg *config.Config) Options {
	rows, cols := cfg.Layout.Geometry()
	return Options{
		Rows:               rows,
		Cols:               cols,
		Topology:           cfg.Topology,
		TicksPerGeneration: cfg.TicksPerGeneration(),
		History:            cfg.History,
		Prepopulate:        cfg.Prepopulate,
		Density:            cfg.Density,
		Seed:               cfg.Seed,
	}
}

// Controller owns the displayed generation and the rewind history. It is
// not safe for concurrent use; every call happens on the game loop.
type Controller struct {
	topo    topology.Topology
	current *grid.Grid
	history *rewind.Buffer
	mode    Mode

	ticksPerGeneration int
	counter            int
}

// New builds a session. The initial mode is Paused.
func New(opts Options) (*Controller, error) {
	if opts.Rows <= 0 || opts.Cols <= 0 {
		return nil, fmt.Errorf("%w: got %dx%d", ErrInvalidGeometry, opts.Rows, opts.Cols)
	}
	if opts.History <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidHistory, opts.History)
	}
	if opts.TicksPerGeneration <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidPacing, opts.TicksPerGeneration)
	}
	if opts.Density < 0 || opts.Density > 1 {
		return nil, fmt.Errorf("%w: got %g", ErrInvalidDensity, opts.Density)
	}

	g := grid.New(opts.Rows, opts.Cols)
	if opts.Prepopulate {
		g.Randomize(rand.New(rand.NewPCG(uint64(opts.Seed), 0)), opts.Density)
	}

	return &Controller{
		topo:               opts.Topology,
		current:            g,
		history:            rewind.New(opts.History),
		mode:               Paused,
		ticksPerGeneration: opts.TicksPerGeneration,
	}, nil
}

func (c *Controller) Mode() Mode                  { return c.mode }
func (c *Controller) Rows() int                   { return c.current.Rows() }
func (c *Controller) Cols() int                   { return c.current.Cols() }
func (c *Controller) Topology() topology.Topology { return c.topo }
func (c *Controller) History() rewind.Stats       { return c.history.Stats() }

// Current returns the displayed generation. It is borrowed: callers must not
// modify it or keep it past the next command.
func (c *Controller) Current() *grid.Grid { return c.current }

// SetTicksPerGeneration changes the pacing. Values below one are ignored.
func (c *Controller) SetTicksPerGeneration(n int) {
	if n < 1 {
		return
	}
	c.ticksPerGeneration = n
	if c.counter >= n {
		c.counter = 0
	}
}

// SetMode switches between Running and Paused. Rewind has its own entry and
// exit commands, so it is refused here, as is any change while rewinding.
func (c *Controller) SetMode(m Mode) bool {
	if c.mode == Rewind || (m != Running && m != Paused) {
		return false
	}
	c.mode = m
	return true
}

// Tick counts one loop iteration and advances a generation when due. It
// only returns a diff on the iteration that stepped.
func (c *Controller) Tick() (engine.Diff, bool) {
	if c.mode != Running {
		return engine.Diff{}, false
	}
	c.counter++
	if c.counter < c.ticksPerGeneration {
		return engine.Diff{}, false
	}
	c.counter = 0
	return c.publish(engine.Advance(c.current, c.topo)), true
}

// Step advances one generation immediately, outside of tick pacing. It is
// refused while rewinding.
func (c *Controller) Step() (engine.Diff, bool) {
	if c.mode == Rewind {
		return engine.Diff{}, false
	}
	return c.publish(engine.Advance(c.current, c.topo)), true
}

// ToggleCell flips the cell at (x, y) as a new, rewindable generation.
func (c *Controller) ToggleCell(x, y int) (engine.Diff, bool) {
	if c.mode == Rewind {
		return engine.Diff{}, false
	}
	return c.publish(engine.Toggle(c.current, x, y)), true
}

// publish moves the previous generation into history and adopts the next.
func (c *Controller) publish(d engine.Diff) engine.Diff {
	c.history.Push(d.Prev)
	c.current = d.Next
	return d
}

// EnterRewind starts history navigation. The displayed generation is moved
// into the history so it can be returned to. Refused without history.
func (c *Controller) EnterRewind() bool {
	if c.mode == Rewind || !c.history.Populated() {
		return false
	}
	c.history.Push(c.current)
	c.history.BeginRewind()
	c.mode = Rewind
	return true
}

// ExitRewind resumes from the displayed generation in Paused mode.
func (c *Controller) ExitRewind() bool {
	if c.mode != Rewind {
		return false
	}
	c.current = c.history.EndRewind()
	c.mode = Paused
	c.counter = 0
	return true
}

func (c *Controller) RewindBack() (engine.Diff, bool) {
	if c.mode != Rewind {
		return engine.Diff{}, false
	}
	g, ok := c.history.StepBack()
	if !ok {
		return engine.Diff{}, false
	}
	return c.show(g), true
}

func (c *Controller) RewindForward() (engine.Diff, bool) {
	if c.mode != Rewind {
		return engine.Diff{}, false
	}
	g, ok := c.history.StepForward()
	if !ok {
		return engine.Diff{}, false
	}
	return c.show(g), true
}

// show displays a generation borrowed from history.
func (c *Controller) show(g *grid.Grid) engine.Diff {
	d := engine.Diff{Prev: c.current, Next: g}
	c.current = g
	return d
}
