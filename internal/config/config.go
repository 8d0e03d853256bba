package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/san-kum/lifesim/internal/topology"
	"gopkg.in/yaml.v3"
)

const (
	DefaultTopology       = topology.Bounded
	DefaultSpeed          = 5.0
	DefaultHistory        = 32
	DefaultDensity        = 0.25
	DefaultIterationDelay = 30 * time.Millisecond
	DefaultCellPx         = 8

	MinIterationDelay = 10 * time.Millisecond
	MaxIterationDelay = 100 * time.Millisecond
)

var ErrInvalidConfig = errors.New("config: invalid session config")

// Config is the persisted part of a session. Grid contents are never stored.
type Config struct {
	Topology       topology.Topology `yaml:"topology"`
	Speed          float64           `yaml:"speed"`
	Prepopulate    bool              `yaml:"prepopulate"`
	History        int               `yaml:"history"`
	Density        float64           `yaml:"density"`
	Seed           int64             `yaml:"seed"`
	IterationDelay time.Duration     `yaml:"iteration_delay"`
	Layout         Layout            `yaml:"layout"`
}

// Layout describes the display the grid is fitted to.
type Layout struct {
	WidthPx  int `yaml:"width_px"`
	HeightPx int `yaml:"height_px"`
	CellPx   int `yaml:"cell_px"`
}

func DefaultConfig() *Config {
	return &Config{
		Topology:       DefaultTopology,
		Speed:          DefaultSpeed,
		Prepopulate:    true,
		History:        DefaultHistory,
		Density:        DefaultDensity,
		IterationDelay: DefaultIterationDelay,
		Layout: Layout{
			WidthPx:  320,
			HeightPx: 240,
			CellPx:   DefaultCellPx,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if c.Speed <= 0 {
		return fmt.Errorf("%w: speed must be positive, got %g", ErrInvalidConfig, c.Speed)
	}
	if c.History < 1 {
		return fmt.Errorf("%w: history must be at least 1, got %d", ErrInvalidConfig, c.History)
	}
	if c.Density < 0 || c.Density > 1 {
		return fmt.Errorf("%w: density must be within [0,1], got %g", ErrInvalidConfig, c.Density)
	}
	if c.IterationDelay < MinIterationDelay || c.IterationDelay > MaxIterationDelay {
		return fmt.Errorf("%w: iteration delay must be within [%v,%v], got %v",
			ErrInvalidConfig, MinIterationDelay, MaxIterationDelay, c.IterationDelay)
	}
	if c.Layout.CellPx <= 0 {
		return fmt.Errorf("%w: cell size must be positive, got %d", ErrInvalidConfig, c.Layout.CellPx)
	}
	return nil
}

// TicksPerGeneration converts the speed in generations per second into loop
// iterations per generation, never less than one.
func (c *Config) TicksPerGeneration() int {
	iterations := float64(time.Second) / float64(c.IterationDelay)
	n := int(math.Round(iterations / c.Speed))
	if n < 1 {
		return 1
	}
	return n
}

// Geometry fits whole cells into the display.
func (l Layout) Geometry() (rows, cols int) {
	if l.CellPx <= 0 {
		return 0, 0
	}
	return l.HeightPx / l.CellPx, l.WidthPx / l.CellPx
}
