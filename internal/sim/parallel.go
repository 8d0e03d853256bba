package sim

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Ensemble repeats a run over consecutive seeds. Each run gets its own
// session and metric set; observers are not carried over.
type Ensemble struct {
	base      *Simulator
	numRuns   int
	seedStart int64
}

func NewEnsemble(s *Simulator, numRuns int, seedStart int64) *Ensemble {
	return &Ensemble{base: s, numRuns: numRuns, seedStart: seedStart}
}

// Run returns results in seed order. The first failing run cancels the rest.
func (e *Ensemble) Run(ctx context.Context, generations int) ([]*Result, error) {
	results := make([]*Result, e.numRuns)

	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < e.numRuns; i++ {
		g.Go(func() error {
			sim := New(e.base.opts)
			sim.SetMetrics(e.base.newMetrics)

			res, err := sim.Run(ctx, Config{Generations: generations, Seed: e.seedStart + int64(i)})
			results[i] = res
			return err
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
