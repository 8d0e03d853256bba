// Package sim runs sessions headless, for recording statistics rather than
// for display. A run always drives the same game loop as the interactive
// front-ends, with no delay and one tick per generation.
package sim

import (
	"context"
	"fmt"
	"time"

	"github.com/san-kum/lifesim/internal/engine"
	"github.com/san-kum/lifesim/internal/grid"
	"github.com/san-kum/lifesim/internal/loop"
	"github.com/san-kum/lifesim/internal/metrics"
	"github.com/san-kum/lifesim/internal/session"
	"github.com/san-kum/lifesim/internal/storage"
)

type Config struct {
	Generations int
	Seed        int64
}

// Observer sees every generation of a run as it is published.
type Observer interface {
	OnGeneration(generation int, d engine.Diff)
}

type Result struct {
	Seed    int64
	Samples []storage.Sample
	// Populations starts with the initial population, so it holds one more
	// value than Samples.
	Populations []float64
	Metrics     map[string]float64
	Final       *grid.Grid
	Elapsed     time.Duration
}

type Simulator struct {
	opts       session.Options
	newMetrics func() []metrics.Metric
	observers  []Observer
}

func New(opts session.Options) *Simulator {
	return &Simulator{
		opts:       opts,
		newMetrics: metrics.Defaults,
		observers:  make([]Observer, 0),
	}
}

// SetMetrics replaces the metric set. The factory runs once per run so
// concurrent runs never share metric state.
func (s *Simulator) SetMetrics(f func() []metrics.Metric) { s.newMetrics = f }
func (s *Simulator) AddObserver(o Observer)              { s.observers = append(s.observers, o) }

func (s *Simulator) Run(ctx context.Context, cfg Config) (*Result, error) {
	if cfg.Generations <= 0 {
		return nil, fmt.Errorf("generations must be positive, got %d", cfg.Generations)
	}

	opts := s.opts
	opts.Seed = cfg.Seed
	opts.TicksPerGeneration = 1
	ctrl, err := session.New(opts)
	if err != nil {
		return nil, err
	}

	ms := s.newMetrics()
	result := &Result{
		Seed:        cfg.Seed,
		Samples:     make([]storage.Sample, 0, cfg.Generations),
		Populations: make([]float64, 0, cfg.Generations+1),
		Metrics:     make(map[string]float64, len(ms)),
	}
	result.Populations = append(result.Populations, float64(ctrl.Current().Population()))

	observe := func(d engine.Diff) {
		gen := len(result.Samples) + 1
		for _, m := range ms {
			m.Observe(d)
		}
		for _, obs := range s.observers {
			obs.OnGeneration(gen, d)
		}
		pop := d.Next.Population()
		result.Samples = append(result.Samples, storage.Sample{
			Generation: gen,
			Population: pop,
			Changed:    len(d.Changes().Collect()),
		})
		result.Populations = append(result.Populations, float64(pop))
	}

	start := time.Now()
	err = loop.Run(ctx, loop.NewGame(ctrl), loop.NewScript(loop.PauseResume), discard{}, loop.Config{
		Generations: cfg.Generations,
		Observe:     observe,
	})
	result.Elapsed = time.Since(start)
	if err != nil {
		return result, err
	}

	for _, m := range ms {
		result.Metrics[m.Name()] = m.Value()
	}
	result.Final = ctrl.Current().Clone()
	return result, nil
}

// discard drops cell changes and frames.
type discard struct{}

func (discard) Apply(engine.Change)    {}
func (discard) Frame(loop.Frame) error { return nil }
