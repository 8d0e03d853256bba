package config

import (
	"sort"
	"time"

	"github.com/san-kum/lifesim/internal/topology"
)

var Presets = map[string]*Config{
	"classic": {
		Topology: topology.Bounded, Speed: 5, Prepopulate: true, History: DefaultHistory,
		Density: DefaultDensity, IterationDelay: DefaultIterationDelay,
		Layout: Layout{WidthPx: 320, HeightPx: 240, CellPx: 8},
	},
	"torus": {
		Topology: topology.Toroidal, Speed: 10, Prepopulate: true, History: DefaultHistory,
		Density: 0.3, IterationDelay: DefaultIterationDelay,
		Layout: Layout{WidthPx: 320, HeightPx: 240, CellPx: 8},
	},
	"sketch": {
		Topology: topology.Bounded, Speed: 2, Prepopulate: false, History: 64,
		Density: 0, IterationDelay: 50 * time.Millisecond,
		Layout: Layout{WidthPx: 320, HeightPx: 240, CellPx: 16},
	},
	"tiny": {
		Topology: topology.Toroidal, Speed: 20, Prepopulate: true, History: 8,
		Density: 0.35, IterationDelay: 20 * time.Millisecond,
		Layout: Layout{WidthPx: 128, HeightPx: 64, CellPx: 4},
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	c := *cfg
	return &c
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
