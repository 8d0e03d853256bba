package rewind_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/lifesim/internal/grid"
	"github.com/san-kum/lifesim/internal/rewind"
)

// marked returns a 1x8 grid whose pattern encodes n, so generations are
// distinguishable.
func marked(n int) *grid.Grid {
	g := grid.New(1, 8)
	for bit := 0; bit < 8; bit++ {
		g.Set(bit, 0, n&(1<<bit) != 0)
	}
	return g
}

func pushAll(b *rewind.Buffer, from, to int) []*grid.Grid {
	var pushed []*grid.Grid
	for i := from; i < to; i++ {
		g := marked(i)
		pushed = append(pushed, g)
		b.Push(g)
	}
	return pushed
}

var _ = Describe("Buffer", func() {
	var b *rewind.Buffer

	BeforeEach(func() {
		b = rewind.New(5)
	})

	It("starts empty", func() {
		Expect(b.Cap()).To(Equal(5))
		Expect(b.Len()).To(Equal(0))
		Expect(b.Populated()).To(BeFalse())
	})

	It("panics on a non-positive capacity", func() {
		Expect(func() { rewind.New(0) }).To(Panic())
	})

	It("refuses navigation before BeginRewind", func() {
		pushAll(b, 0, 3)
		_, ok := b.StepBack()
		Expect(ok).To(BeFalse())
		_, ok = b.StepForward()
		Expect(ok).To(BeFalse())
	})

	Context("partially filled", func() {
		var pushed []*grid.Grid

		BeforeEach(func() {
			pushed = pushAll(b, 0, 3)
			b.BeginRewind()
		})

		It("walks back to the oldest generation and stops", func() {
			g, ok := b.StepBack()
			Expect(ok).To(BeTrue())
			Expect(g).To(BeIdenticalTo(pushed[1]))

			g, ok = b.StepBack()
			Expect(ok).To(BeTrue())
			Expect(g).To(BeIdenticalTo(pushed[0]))

			before := b.Stats()
			g, ok = b.StepBack()
			Expect(ok).To(BeFalse())
			Expect(g).To(BeNil())
			Expect(b.Stats()).To(Equal(before))
		})

		It("walks forward back to the entry point", func() {
			b.StepBack()
			b.StepBack()

			g, ok := b.StepForward()
			Expect(ok).To(BeTrue())
			Expect(g).To(BeIdenticalTo(pushed[1]))

			g, ok = b.StepForward()
			Expect(ok).To(BeTrue())
			Expect(g).To(BeIdenticalTo(pushed[2]))

			_, ok = b.StepForward()
			Expect(ok).To(BeFalse())
		})

		It("refuses forward at the entry point", func() {
			_, ok := b.StepForward()
			Expect(ok).To(BeFalse())
		})
	})

	Context("saturated", func() {
		var pushed []*grid.Grid

		BeforeEach(func() {
			pushed = pushAll(b, 0, 12)
		})

		It("evicts the oldest generations exactly once", func() {
			Expect(b.Len()).To(Equal(5))
			Expect(b.Releases()).To(Equal(7))
			for i, g := range pushed {
				Expect(g.Released()).To(Equal(i < 7), "generation %d", i)
			}
		})

		It("never walks past the retained window", func() {
			b.BeginRewind()
			var seen []*grid.Grid
			for {
				g, ok := b.StepBack()
				if !ok {
					break
				}
				seen = append(seen, g)
			}
			Expect(seen).To(HaveLen(4))
			for i, g := range seen {
				Expect(g).To(BeIdenticalTo(pushed[10-i]))
				Expect(g.Released()).To(BeFalse())
			}
		})
	})

	Describe("EndRewind", func() {
		It("hands over the displayed generation and drops the abandoned future", func() {
			pushed := pushAll(b, 0, 4)
			b.BeginRewind()
			b.StepBack()
			b.StepBack()

			g := b.EndRewind()
			Expect(g).To(BeIdenticalTo(pushed[1]))
			Expect(g.Released()).To(BeFalse())
			Expect(pushed[2].Released()).To(BeTrue())
			Expect(pushed[3].Released()).To(BeTrue())
			Expect(b.Rewinding()).To(BeFalse())
			Expect(b.Len()).To(Equal(1))

			cur, ok := b.Current()
			Expect(ok).To(BeTrue())
			Expect(cur).To(BeIdenticalTo(pushed[0]))
		})

		It("continues pushing from the cursor", func() {
			pushed := pushAll(b, 0, 3)
			b.BeginRewind()
			b.StepBack()
			g := b.EndRewind()
			Expect(g).To(BeIdenticalTo(pushed[1]))

			b.Push(g)
			next := marked(99)
			b.Push(next)

			b.BeginRewind()
			back, ok := b.StepBack()
			Expect(ok).To(BeTrue())
			Expect(back).To(BeIdenticalTo(pushed[1]))
			back, ok = b.StepBack()
			Expect(ok).To(BeTrue())
			Expect(back).To(BeIdenticalTo(pushed[0]))
			_, ok = b.StepBack()
			Expect(ok).To(BeFalse())
		})

		It("returns nil when not rewinding", func() {
			Expect(b.EndRewind()).To(BeNil())
		})
	})

	It("releases everything on Reset", func() {
		pushed := pushAll(b, 0, 3)
		b.Reset()
		Expect(b.Populated()).To(BeFalse())
		for _, g := range pushed {
			Expect(g.Released()).To(BeTrue())
		}
		Expect(b.Releases()).To(Equal(3))
	})

	It("keeps a single-slot buffer consistent", func() {
		one := rewind.New(1)
		pushed := pushAll(one, 0, 3)
		Expect(one.Len()).To(Equal(1))
		Expect(pushed[0].Released()).To(BeTrue())
		Expect(pushed[1].Released()).To(BeTrue())

		one.BeginRewind()
		_, ok := one.StepBack()
		Expect(ok).To(BeFalse())
		Expect(one.EndRewind()).To(BeIdenticalTo(pushed[2]))
		Expect(one.Populated()).To(BeFalse())
	})
})
