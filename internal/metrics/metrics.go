package metrics

import "github.com/san-kum/lifesim/internal/engine"

// Metric observes each published generation.
type Metric interface {
	Name() string
	Observe(d engine.Diff)
	Value() float64
	Reset()
}

type Population struct {
	samples int
	total   int
}

func NewPopulation() *Population { return &Population{} }

func (p *Population) Name() string { return "mean_population" }

func (p *Population) Observe(d engine.Diff) {
	p.total += d.Next.Population()
	p.samples++
}

func (p *Population) Value() float64 {
	if p.samples == 0 {
		return 0
	}
	return float64(p.total) / float64(p.samples)
}

func (p *Population) Reset() { p.samples, p.total = 0, 0 }

type Peak struct {
	peak int
}

func NewPeak() *Peak { return &Peak{} }

func (p *Peak) Name() string { return "peak_population" }

func (p *Peak) Observe(d engine.Diff) {
	if n := d.Next.Population(); n > p.peak {
		p.peak = n
	}
}

func (p *Peak) Value() float64 { return float64(p.peak) }
func (p *Peak) Reset()         { p.peak = 0 }

// Churn is the mean number of cells redrawn per generation.
type Churn struct {
	samples int
	changed int
}

func NewChurn() *Churn { return &Churn{} }

func (c *Churn) Name() string { return "mean_churn" }

func (c *Churn) Observe(d engine.Diff) {
	it := d.Changes()
	for _, ok := it.Next(); ok; _, ok = it.Next() {
		c.changed++
	}
	c.samples++
}

func (c *Churn) Value() float64 {
	if c.samples == 0 {
		return 0
	}
	return float64(c.changed) / float64(c.samples)
}

func (c *Churn) Reset() { c.samples, c.changed = 0, 0 }

func Defaults() []Metric {
	return []Metric{NewPopulation(), NewPeak(), NewChurn()}
}

// Series keeps the most recent population counts for plotting.
type Series struct {
	limit  int
	values []float64
}

func NewSeries(limit int) *Series {
	return &Series{limit: limit, values: make([]float64, 0, limit)}
}

func (s *Series) Add(population int) {
	s.values = append(s.values, float64(population))
	if len(s.values) > s.limit {
		s.values = s.values[1:]
	}
}

func (s *Series) Values() []float64 { return s.values }
func (s *Series) Len() int          { return len(s.values) }
func (s *Series) Reset()            { s.values = s.values[:0] }
