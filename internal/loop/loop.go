// Package loop drives a session at a fixed cadence: one
// iteration polls at most one input command, lets the controller tick, hands
// the resulting diffs to the renderer and then sleeps a fixed delay.
//
// Input and rendering are collaborators behind the [Input] and [Renderer]
// interfaces; the loop never inspects grids beyond the diffs it forwards.
package loop

import (
	"context"
	"time"

	"github.com/san-kum/lifesim/internal/engine"
	"github.com/san-kum/lifesim/internal/render"
	"github.com/san-kum/lifesim/internal/session"
	"github.com/san-kum/lifesim/internal/topology"
)

// Input supplies at most one command per poll.
type Input interface {
	Poll() (Command, bool)
}

// Frame describes the state after one iteration.
type Frame struct {
	Mode        session.Mode
	Cursor      topology.Point
	Population  int
	Generations int
	Redrawn     int
}

// Renderer receives cell changes and one Frame per iteration.
type Renderer interface {
	render.Target
	Frame(f Frame) error
}

type Config struct {
	Delay time.Duration
	// Generations stops the loop after that many ticked generations; zero
	// runs until Exit or cancellation.
	Generations int
	// Observe sees every generation published by a tick.
	Observe func(d engine.Diff)
}

// Run loops until the input sends Exit, the generation limit is reached or
// ctx is done. The delay itself is not interrupted.
func Run(ctx context.Context, game *Game, in Input, out Renderer, cfg Config) error {
	ctrl := game.Controller()
	render.Paint(out, ctrl.Current())

	generations := 0
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		redrawn := 0
		if cmd, ok := in.Poll(); ok {
			if cmd == Exit {
				return nil
			}
			if d, ok := game.Handle(cmd); ok {
				redrawn += render.Draw(out, d)
			}
		}

		if d, ok := ctrl.Tick(); ok {
			generations++
			redrawn += render.Draw(out, d)
			if cfg.Observe != nil {
				cfg.Observe(d)
			}
		}

		err := out.Frame(Frame{
			Mode:        ctrl.Mode(),
			Cursor:      game.Cursor(),
			Population:  ctrl.Current().Population(),
			Generations: generations,
			Redrawn:     redrawn,
		})
		if err != nil {
			return err
		}

		if cfg.Generations > 0 && generations >= cfg.Generations {
			return nil
		}
		time.Sleep(cfg.Delay)
	}
}

// Script replays a fixed command list, one per poll.
type Script struct {
	commands []Command
}

func NewScript(commands ...Command) *Script {
	return &Script{commands: commands}
}

func (s *Script) Poll() (Command, bool) {
	if len(s.commands) == 0 {
		return None, false
	}
	cmd := s.commands[0]
	s.commands = s.commands[1:]
	return cmd, cmd != None
}

// Idle never produces a command.
type Idle struct{}

func (Idle) Poll() (Command, bool) { return None, false }
