package session_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/lifesim/internal/config"
	"github.com/san-kum/lifesim/internal/engine"
	"github.com/san-kum/lifesim/internal/grid"
	"github.com/san-kum/lifesim/internal/session"
	"github.com/san-kum/lifesim/internal/topology"
)

func newSession(opts session.Options) *session.Controller {
	c, err := session.New(opts)
	Expect(err).NotTo(HaveOccurred())
	return c
}

func baseOptions() session.Options {
	return session.Options{
		Rows:               9,
		Cols:               9,
		Topology:           topology.Bounded,
		TicksPerGeneration: 1,
		History:            8,
	}
}

// seedBlinker draws a horizontal blinker with three manual toggles.
func seedBlinker(c *session.Controller) {
	for x := 3; x <= 5; x++ {
		_, ok := c.ToggleCell(x, 4)
		Expect(ok).To(BeTrue())
	}
}

var _ = Describe("Controller", func() {
	Describe("New", func() {
		DescribeTable("rejects invalid configuration",
			func(mutate func(*session.Options), expected error) {
				opts := baseOptions()
				mutate(&opts)
				_, err := session.New(opts)
				Expect(err).To(MatchError(expected))
			},
			Entry("zero rows", func(o *session.Options) { o.Rows = 0 }, session.ErrInvalidGeometry),
			Entry("negative cols", func(o *session.Options) { o.Cols = -3 }, session.ErrInvalidGeometry),
			Entry("zero history", func(o *session.Options) { o.History = 0 }, session.ErrInvalidHistory),
			Entry("zero ticks", func(o *session.Options) { o.TicksPerGeneration = 0 }, session.ErrInvalidPacing),
			Entry("bad density", func(o *session.Options) { o.Density = 2 }, session.ErrInvalidDensity),
		)

		It("starts paused with an empty grid", func() {
			c := newSession(baseOptions())
			Expect(c.Mode()).To(Equal(session.Paused))
			Expect(c.Current().Population()).To(Equal(0))
			Expect(c.History().Populated).To(Equal(0))
		})

		It("prepopulates deterministically from the seed", func() {
			opts := baseOptions()
			opts.Prepopulate = true
			opts.Density = 0.5
			opts.Seed = 11
			a := newSession(opts)
			b := newSession(opts)
			Expect(a.Current().Equal(b.Current())).To(BeTrue())
			Expect(a.Current().Population()).To(BeNumerically(">", 0))
		})

		It("sizes itself from a config layout", func() {
			cfg := config.DefaultConfig()
			cfg.Layout = config.Layout{WidthPx: 64, HeightPx: 32, CellPx: 8}
			cfg.IterationDelay = 20 * time.Millisecond
			cfg.Speed = 10
			opts := session.OptionsFromConfig(cfg)
			Expect(opts.Rows).To(Equal(4))
			Expect(opts.Cols).To(Equal(8))
			Expect(opts.TicksPerGeneration).To(Equal(5))

			c := newSession(opts)
			Expect(c.Rows()).To(Equal(4))
			Expect(c.Cols()).To(Equal(8))
		})
	})

	Describe("modes", func() {
		var c *session.Controller

		BeforeEach(func() {
			c = newSession(baseOptions())
		})

		It("switches between running and paused", func() {
			Expect(c.SetMode(session.Running)).To(BeTrue())
			Expect(c.Mode()).To(Equal(session.Running))
			Expect(c.SetMode(session.Paused)).To(BeTrue())
			Expect(c.Mode()).To(Equal(session.Paused))
		})

		It("refuses SetMode(Rewind)", func() {
			Expect(c.SetMode(session.Rewind)).To(BeFalse())
			Expect(c.Mode()).To(Equal(session.Paused))
		})

		It("refuses rewind with empty history", func() {
			Expect(c.EnterRewind()).To(BeFalse())
			Expect(c.Mode()).To(Equal(session.Paused))
		})

		It("refuses edits and mode changes while rewinding", func() {
			c.ToggleCell(0, 0)
			Expect(c.EnterRewind()).To(BeTrue())
			Expect(c.Mode()).To(Equal(session.Rewind))

			_, ok := c.ToggleCell(1, 1)
			Expect(ok).To(BeFalse())
			Expect(c.SetMode(session.Running)).To(BeFalse())
			_, ok = c.Step()
			Expect(ok).To(BeFalse())
			Expect(c.EnterRewind()).To(BeFalse())

			Expect(c.ExitRewind()).To(BeTrue())
			Expect(c.Mode()).To(Equal(session.Paused))
			Expect(c.ExitRewind()).To(BeFalse())
		})

		It("refuses rewind navigation outside rewind", func() {
			c.ToggleCell(0, 0)
			_, ok := c.RewindBack()
			Expect(ok).To(BeFalse())
			_, ok = c.RewindForward()
			Expect(ok).To(BeFalse())
		})
	})

	Describe("Tick", func() {
		It("steps only on the generation boundary while running", func() {
			opts := baseOptions()
			opts.TicksPerGeneration = 3
			c := newSession(opts)
			seedBlinker(c)

			_, ok := c.Tick()
			Expect(ok).To(BeFalse(), "paused sessions do not step")

			c.SetMode(session.Running)
			_, ok = c.Tick()
			Expect(ok).To(BeFalse())
			_, ok = c.Tick()
			Expect(ok).To(BeFalse())
			d, ok := c.Tick()
			Expect(ok).To(BeTrue())
			Expect(d.Changes().Collect()).To(HaveLen(4))
			Expect(c.Current()).To(BeIdenticalTo(d.Next))

			_, ok = c.Tick()
			Expect(ok).To(BeFalse(), "counter resets after a step")
		})

		It("keeps a block still with an empty diff", func() {
			c := newSession(baseOptions())
			for _, p := range [][2]int{{3, 3}, {4, 3}, {3, 4}, {4, 4}} {
				c.ToggleCell(p[0], p[1])
			}
			before := c.Current().Clone()
			c.SetMode(session.Running)
			d, ok := c.Tick()
			Expect(ok).To(BeTrue())
			Expect(d.Empty()).To(BeTrue())
			Expect(c.Current().Equal(before)).To(BeTrue())
		})

		It("applies new pacing", func() {
			c := newSession(baseOptions())
			c.SetMode(session.Running)
			c.SetTicksPerGeneration(2)
			_, ok := c.Tick()
			Expect(ok).To(BeFalse())
			_, ok = c.Tick()
			Expect(ok).To(BeTrue())
		})
	})

	Describe("rewind", func() {
		var c *session.Controller

		BeforeEach(func() {
			c = newSession(baseOptions())
			seedBlinker(c)
			c.SetMode(session.Running)
		})

		It("replays stepped generations in reverse order", func() {
			const k = 4
			var visited []*grid.Grid
			for i := 0; i < k; i++ {
				visited = append(visited, c.Current().Clone())
				_, ok := c.Tick()
				Expect(ok).To(BeTrue())
			}

			Expect(c.EnterRewind()).To(BeTrue())
			for i := k - 1; i >= 0; i-- {
				d, ok := c.RewindBack()
				Expect(ok).To(BeTrue())
				Expect(d.Next.Equal(visited[i])).To(BeTrue(), "generation %d", i)
				Expect(c.Current()).To(BeIdenticalTo(d.Next))
			}
		})

		It("refuses to walk past the oldest generation", func() {
			// 3 toggles + 20 steps overflow a history of 8
			for i := 0; i < 20; i++ {
				c.Tick()
			}
			Expect(c.EnterRewind()).To(BeTrue())

			backs := 0
			for {
				if _, ok := c.RewindBack(); !ok {
					break
				}
				backs++
			}
			Expect(backs).To(Equal(7))

			before := c.Current()
			_, ok := c.RewindBack()
			Expect(ok).To(BeFalse())
			Expect(c.Current()).To(BeIdenticalTo(before))
			Expect(c.Current().Released()).To(BeFalse())
		})

		It("emits diffs against the displayed generation", func() {
			c.Tick()
			c.Tick()
			Expect(c.EnterRewind()).To(BeTrue())

			d, ok := c.RewindBack()
			Expect(ok).To(BeTrue())
			changes := d.Changes().Collect()
			Expect(changes).To(HaveLen(4))
			for _, ch := range changes {
				Expect(d.Prev.Get(ch.X, ch.Y)).NotTo(Equal(ch.Alive))
				Expect(d.Next.Get(ch.X, ch.Y)).To(Equal(ch.Alive))
			}

			d, ok = c.RewindForward()
			Expect(ok).To(BeTrue())
			Expect(d.Changes().Collect()).To(HaveLen(4))

			_, ok = c.RewindForward()
			Expect(ok).To(BeFalse(), "already at the newest generation")
		})

		It("resumes from the displayed generation after exit", func() {
			c.Tick()
			c.Tick()
			Expect(c.EnterRewind()).To(BeTrue())
			d, _ := c.RewindBack()
			shown := d.Next.Clone()

			Expect(c.ExitRewind()).To(BeTrue())
			Expect(c.Mode()).To(Equal(session.Paused))
			Expect(c.Current().Equal(shown)).To(BeTrue())

			step, ok := c.Step()
			Expect(ok).To(BeTrue())
			Expect(step.Prev.Equal(shown)).To(BeTrue())

			Expect(c.EnterRewind()).To(BeTrue())
			back, ok := c.RewindBack()
			Expect(ok).To(BeTrue())
			Expect(back.Next.Equal(shown)).To(BeTrue())
		})
	})

	It("makes manual toggles rewindable", func() {
		c := newSession(baseOptions())
		seedBlinker(c)
		before := c.Current().Clone()

		d, ok := c.ToggleCell(0, 0)
		Expect(ok).To(BeTrue())
		Expect(d.Changes().Collect()).To(Equal([]engine.Change{{X: 0, Y: 0, Alive: true}}))

		Expect(c.EnterRewind()).To(BeTrue())
		back, ok := c.RewindBack()
		Expect(ok).To(BeTrue())
		Expect(back.Next.Equal(before)).To(BeTrue())
		Expect(c.Current().Equal(before)).To(BeTrue())
	})

	It("steps a toroidal session", func() {
		opts := baseOptions()
		opts.Rows, opts.Cols = 3, 3
		opts.Topology = topology.Toroidal
		c := newSession(opts)
		c.ToggleCell(0, 0)
		c.ToggleCell(0, 1)
		c.ToggleCell(0, 2)

		d, ok := c.Step()
		Expect(ok).To(BeTrue())
		Expect(d.Next.Population()).To(Equal(9))
		Expect(c.Topology()).To(Equal(topology.Toroidal))
	})
})
