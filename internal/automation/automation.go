package automation

import (
	"context"
	"fmt"
	"os"

	"github.com/san-kum/lifesim/internal/analysis"
	"github.com/san-kum/lifesim/internal/config"
	"github.com/san-kum/lifesim/internal/session"
	"github.com/san-kum/lifesim/internal/sim"
	"github.com/san-kum/lifesim/internal/topology"
	"gopkg.in/yaml.v3"
)

// Scenario defines a scripted sequence of headless runs
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep is a single step in a scenario. Zero fields fall back to the
// preset, or to the defaults when no preset is named.
type ScenarioStep struct {
	Name        string             `yaml:"name"`
	Preset      string             `yaml:"preset"`
	Topology    *topology.Topology `yaml:"topology"`
	Density     float64            `yaml:"density"`
	History     int                `yaml:"history"`
	Seed        int64              `yaml:"seed"`
	Generations int                `yaml:"generations"`
	Runs        int                `yaml:"runs"`
}

// StepResult pairs a step with its runs, in seed order.
type StepResult struct {
	Step    ScenarioStep
	Config  *config.Config
	Results []*sim.Result
}

// Reporter receives progress lines; log.Printf fits.
type Reporter func(format string, args ...any)

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("scenario %q has no steps", scenario.Name)
	}

	return &scenario, nil
}

func (s ScenarioStep) config() (*config.Config, error) {
	cfg := config.DefaultConfig()
	if s.Preset != "" {
		cfg = config.GetPreset(s.Preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s", s.Preset)
		}
	}
	if s.Topology != nil {
		cfg.Topology = *s.Topology
	}
	if s.Density != 0 {
		cfg.Density = s.Density
	}
	if s.History != 0 {
		cfg.History = s.History
	}
	if s.Seed != 0 {
		cfg.Seed = s.Seed
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// RunScenario executes all steps in order and stops at the first failure.
func RunScenario(ctx context.Context, scenario *Scenario, report Reporter) ([]StepResult, error) {
	results := make([]StepResult, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		if report != nil {
			report("step %d/%d: %s", i+1, len(scenario.Steps), step.Name)
		}

		cfg, err := step.config()
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}

		runs := step.Runs
		if runs < 1 {
			runs = 1
		}
		simulator := sim.New(session.OptionsFromConfig(cfg))
		res, err := sim.NewEnsemble(simulator, runs, cfg.Seed).Run(ctx, step.Generations)
		if err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}

		results = append(results, StepResult{Step: step, Config: cfg, Results: res})
	}

	return results, nil
}

// DensitySweep runs the same seeds across a range of initial densities
type DensitySweep struct {
	Base        *config.Config
	Min         float64
	Max         float64
	NumSteps    int
	Generations int
	Runs        int
}

// SweepResult averages the runs at one density
type SweepResult struct {
	Density        float64
	MeanPopulation float64
	PeakPopulation float64
	// Settled is the fraction of runs that ended as a still life.
	Settled float64
}

// RunSweep executes a density sweep
func RunSweep(ctx context.Context, sweep *DensitySweep, report Reporter) ([]SweepResult, error) {
	if sweep.NumSteps < 2 {
		return nil, fmt.Errorf("sweep needs at least 2 steps, got %d", sweep.NumSteps)
	}
	if sweep.Min < 0 || sweep.Max > 1 || sweep.Min >= sweep.Max {
		return nil, fmt.Errorf("invalid density range [%g,%g]", sweep.Min, sweep.Max)
	}
	runs := sweep.Runs
	if runs < 1 {
		runs = 1
	}

	results := make([]SweepResult, 0, sweep.NumSteps)
	step := (sweep.Max - sweep.Min) / float64(sweep.NumSteps-1)

	for i := 0; i < sweep.NumSteps; i++ {
		density := sweep.Min + float64(i)*step

		opts := session.OptionsFromConfig(sweep.Base)
		opts.Prepopulate = true
		opts.Density = density

		res, err := sim.NewEnsemble(sim.New(opts), runs, sweep.Base.Seed).Run(ctx, sweep.Generations)
		if err != nil {
			return nil, err
		}

		sr := SweepResult{Density: density}
		for _, r := range res {
			sr.MeanPopulation += r.Metrics["mean_population"]
			sr.PeakPopulation += r.Metrics["peak_population"]
			if analysis.Settled(r.Samples) > 0 {
				sr.Settled++
			}
		}
		n := float64(len(res))
		sr.MeanPopulation /= n
		sr.PeakPopulation /= n
		sr.Settled /= n
		results = append(results, sr)

		if report != nil {
			report("sweep %d/%d: density=%.3f", i+1, sweep.NumSteps, density)
		}
	}

	return results, nil
}
