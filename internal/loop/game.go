package loop

import (
	"github.com/san-kum/lifesim/internal/engine"
	"github.com/san-kum/lifesim/internal/session"
	"github.com/san-kum/lifesim/internal/topology"
)

// Command is one discrete input action.
type Command int

const (
	None Command = iota
	Up
	Down
	Left
	Right
	PauseResume
	RewindToggle
	ToggleCell
	Back
	Forward
	Step
	Exit
)

var commandNames = map[Command]string{
	None: "none", Up: "up", Down: "down", Left: "left", Right: "right",
	PauseResume: "pause", RewindToggle: "rewind", ToggleCell: "toggle",
	Back: "back", Forward: "forward", Step: "step", Exit: "exit",
}

func (c Command) String() string {
	if s, ok := commandNames[c]; ok {
		return s
	}
	return "unknown"
}

// Game maps commands onto a controller and tracks the edit cursor, which
// belongs to the input side rather than the engine.
type Game struct {
	ctrl   *session.Controller
	cursor topology.Point
}

func NewGame(ctrl *session.Controller) *Game {
	return &Game{
		ctrl:   ctrl,
		cursor: topology.Point{X: ctrl.Cols() / 2, Y: ctrl.Rows() / 2},
	}
}

func (g *Game) Controller() *session.Controller { return g.ctrl }
func (g *Game) Cursor() topology.Point          { return g.cursor }

// Handle applies one command. It returns a diff when the displayed
// generation changed. Exit is left to the caller.
func (g *Game) Handle(cmd Command) (engine.Diff, bool) {
	c := g.ctrl
	rewinding := c.Mode() == session.Rewind

	switch cmd {
	case Up:
		g.move(0, -1)
	case Down:
		g.move(0, 1)
	case Left:
		if rewinding {
			return c.RewindBack()
		}
		g.move(-1, 0)
	case Right:
		if rewinding {
			return c.RewindForward()
		}
		g.move(1, 0)
	case Back:
		return c.RewindBack()
	case Forward:
		return c.RewindForward()
	case PauseResume:
		switch c.Mode() {
		case session.Running:
			c.SetMode(session.Paused)
		case session.Paused:
			c.SetMode(session.Running)
		}
	case RewindToggle:
		if rewinding {
			c.ExitRewind()
		} else {
			c.EnterRewind()
		}
	case ToggleCell:
		return c.ToggleCell(g.cursor.X, g.cursor.Y)
	case Step:
		return c.Step()
	}
	return engine.Diff{}, false
}

func (g *Game) move(dx, dy int) {
	x, y := g.cursor.X+dx, g.cursor.Y+dy
	if x >= 0 && x < g.ctrl.Cols() {
		g.cursor.X = x
	}
	if y >= 0 && y < g.ctrl.Rows() {
		g.cursor.Y = y
	}
}
