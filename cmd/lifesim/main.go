package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/lifesim/internal/analysis"
	"github.com/san-kum/lifesim/internal/automation"
	"github.com/san-kum/lifesim/internal/config"
	"github.com/san-kum/lifesim/internal/export"
	"github.com/san-kum/lifesim/internal/loop"
	"github.com/san-kum/lifesim/internal/render"
	"github.com/san-kum/lifesim/internal/session"
	"github.com/san-kum/lifesim/internal/sim"
	"github.com/san-kum/lifesim/internal/storage"
	"github.com/san-kum/lifesim/internal/topology"
	"github.com/san-kum/lifesim/internal/tui"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var logger = log.New(os.Stderr, "lifesim: ", 0)

var (
	dataDir     string
	configFile  string
	preset      string
	topoName    string
	speed       float64
	history     int
	seed        int64
	density     float64
	prepopulate bool
	delay       time.Duration
	theme       string

	watchGenerations    int
	runGenerations      int
	runs                int
	snapshotGenerations int
	svgPath             string

	sweepMin         float64
	sweepMax         float64
	sweepSteps       int
	sweepGenerations int
	sweepRuns        int
)

// main registers the commands and runs the interactive view when no
// subcommand is given. It exits with status 1 on error.
func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "lifesim",
		Short: "game of life with rewind",
		RunE:  playSession,
	}
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".lifesim", "data directory")
	addSessionFlags(rootCmd)

	playCmd := &cobra.Command{
		Use:   "play",
		Short: "interactive session",
		RunE:  playSession,
	}
	addSessionFlags(playCmd)
	playCmd.Flags().StringVar(&theme, "theme", tui.ThemeRetroGreen.Name, "color theme")

	watchCmd := &cobra.Command{
		Use:   "watch",
		Short: "animate a session in the terminal (keys: space, r, x, hjkl, [ ], q)",
		RunE:  watchSession,
	}
	addSessionFlags(watchCmd)
	watchCmd.Flags().IntVar(&watchGenerations, "generations", 0, "stop after n generations (0 runs until interrupted)")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run headless and record statistics",
		RunE:  runHeadless,
	}
	addSessionFlags(runCmd)
	runCmd.Flags().IntVar(&runGenerations, "generations", 200, "number of generations")
	runCmd.Flags().IntVar(&runs, "runs", 1, "number of runs over consecutive seeds")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list recorded runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a recorded run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&svgPath, "svg", "", "also write the population chart as svg")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "settling and oscillation analysis",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}

	snapshotCmd := &cobra.Command{
		Use:   "snapshot [file.svg]",
		Short: "write a generation as svg",
		Args:  cobra.ExactArgs(1),
		RunE:  snapshotRun,
	}
	addSessionFlags(snapshotCmd)
	snapshotCmd.Flags().IntVar(&snapshotGenerations, "generations", 100, "generation to capture")

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file.yaml]",
		Short: "run a scripted scenario and record every run",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "compare initial densities",
		RunE:  runSweep,
	}
	addSessionFlags(sweepCmd)
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 0.05, "lowest density")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 0.6, "highest density")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 12, "number of densities")
	sweepCmd.Flags().IntVar(&sweepGenerations, "generations", 200, "generations per run")
	sweepCmd.Flags().IntVar(&sweepRuns, "runs", 4, "runs per density")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			for _, name := range config.ListPresets() {
				p := config.Presets[name]
				rows, cols := p.Layout.Geometry()
				fmt.Fprintf(out, "  %-8s %dx%d %s speed=%g history=%d\n", name, cols, rows, p.Topology, p.Speed, p.History)
			}
		},
	}

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "manage the config file",
	}
	configInitCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "write the default config",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.Save(args[0], config.DefaultConfig()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", args[0])
			return nil
		},
	}
	configShowCmd := &cobra.Command{
		Use:   "show",
		Short: "print the resolved config",
		RunE:  showConfig,
	}
	addSessionFlags(configShowCmd)
	configCmd.AddCommand(configInitCmd, configShowCmd)

	rootCmd.AddCommand(playCmd, watchCmd, runCmd, listCmd, plotCmd, analyzeCmd, snapshotCmd, scenarioCmd, sweepCmd, presetsCmd, configCmd)
	return rootCmd
}

func addSessionFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&configFile, "config", "", "config file path (yaml)")
	f.StringVar(&preset, "preset", "", "use preset configuration")
	f.StringVar(&topoName, "topology", config.DefaultTopology.String(), "bounded or toroidal")
	f.Float64Var(&speed, "speed", config.DefaultSpeed, "generations per second")
	f.IntVar(&history, "history", config.DefaultHistory, "rewind history length")
	f.Int64Var(&seed, "seed", 0, "random seed (0 picks one)")
	f.Float64Var(&density, "density", config.DefaultDensity, "initial live cell density")
	f.BoolVar(&prepopulate, "prepopulate", true, "start from a random population")
	f.DurationVar(&delay, "delay", config.DefaultIterationDelay, "loop iteration delay")
}

// resolveConfig layers the preset, the config file and explicitly set
// flags, in that order.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("topology") {
		t, err := topology.Parse(topoName)
		if err != nil {
			return nil, err
		}
		cfg.Topology = t
	}
	if flags.Changed("speed") {
		cfg.Speed = speed
	}
	if flags.Changed("history") {
		cfg.History = history
	}
	if flags.Changed("density") {
		cfg.Density = density
	}
	if flags.Changed("prepopulate") {
		cfg.Prepopulate = prepopulate
	}
	if flags.Changed("delay") {
		cfg.IterationDelay = delay
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newSession(cmd *cobra.Command) (*config.Config, *session.Controller, error) {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	ctrl, err := session.New(session.OptionsFromConfig(cfg))
	if err != nil {
		return nil, nil, err
	}
	return cfg, ctrl, nil
}

func playSession(cmd *cobra.Command, args []string) error {
	cfg, ctrl, err := newSession(cmd)
	if err != nil {
		return err
	}
	if theme == "" {
		theme = tui.ThemeRetroGreen.Name
	}
	return tui.Run(ctrl, cfg.IterationDelay, cfg.TicksPerGeneration(), theme)
}

// termRenderer adds the status line to the ANSI terminal target.
type termRenderer struct {
	*render.Terminal
	topo topology.Topology
}

func (r termRenderer) Frame(f loop.Frame) error {
	r.Status(fmt.Sprintf("%s  %s  gen %d  alive %d  redrawn %d",
		f.Mode, r.topo, f.Generations, f.Population, f.Redrawn))
	return r.Flush()
}

func watchSession(cmd *cobra.Command, args []string) error {
	cfg, ctrl, err := newSession(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var in loop.Input = loop.Idle{}
	if fd := int(os.Stdin.Fd()); term.IsTerminal(fd) {
		state, err := term.MakeRaw(fd)
		if err != nil {
			return fmt.Errorf("raw terminal: %w", err)
		}
		defer term.Restore(fd, state)
		in = loop.NewKeys(os.Stdin)
	}
	ctrl.SetMode(session.Running)

	screen := render.NewTerminal(cmd.OutOrStdout(), 1)
	screen.Start()
	out := termRenderer{Terminal: screen, topo: cfg.Topology}

	err = loop.Run(ctx, loop.NewGame(ctrl), in, out, loop.Config{
		Delay:       cfg.IterationDelay,
		Generations: watchGenerations,
	})
	if stopErr := screen.Stop(); err == nil {
		err = stopErr
	}
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func runHeadless(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	if runs < 1 {
		return fmt.Errorf("runs must be at least 1, got %d", runs)
	}

	simulator := sim.New(session.OptionsFromConfig(cfg))
	logger.Printf("running %d generations x %d runs (seed %d)", runGenerations, runs, cfg.Seed)

	var results []*sim.Result
	if runs == 1 {
		res, err := simulator.Run(cmd.Context(), sim.Config{Generations: runGenerations, Seed: cfg.Seed})
		if err != nil {
			return err
		}
		results = []*sim.Result{res}
	} else {
		results, err = sim.NewEnsemble(simulator, runs, cfg.Seed).Run(cmd.Context(), runGenerations)
		if err != nil {
			return err
		}
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	for _, res := range results {
		runID, err := saveResult(st, cfg, runGenerations, res)
		if err != nil {
			return fmt.Errorf("save run: %w", err)
		}

		fmt.Fprintf(w, "run id: %s (seed %d, %v)\n", runID, res.Seed, res.Elapsed)
		for _, name := range sortedKeys(res.Metrics) {
			fmt.Fprintf(w, "  %s: %.3f\n", name, res.Metrics[name])
		}
	}

	if len(results) == 1 {
		fmt.Fprintln(w, asciigraph.Plot(results[0].Populations,
			asciigraph.Height(10), asciigraph.Width(80), asciigraph.Caption("population")))
	}
	return nil
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func listRuns(cmd *cobra.Command, args []string) error {
	runs, err := storage.New(dataDir).List()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(runs) == 0 {
		fmt.Fprintln(out, "no runs found")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIME\tSIZE\tTOPOLOGY\tSEED\tGENS\tMEAN POP")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%dx%d\t%s\t%d\t%d\t%.1f\n",
			run.ID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Cols, run.Rows,
			run.Topology,
			run.Seed,
			run.Generations,
			run.Metrics["mean_population"],
		)
	}
	return w.Flush()
}

func loadRun(runID string) (*storage.RunMetadata, []storage.Sample, error) {
	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, err
	}
	samples, err := st.LoadSamples(runID)
	if err != nil {
		return nil, nil, err
	}
	if len(samples) == 0 {
		return nil, nil, fmt.Errorf("no data for run %s", runID)
	}
	return meta, samples, nil
}

func populations(samples []storage.Sample) []float64 {
	pop := make([]float64, len(samples))
	for i, s := range samples {
		pop[i] = float64(s.Population)
	}
	return pop
}

func plotRun(cmd *cobra.Command, args []string) error {
	meta, samples, err := loadRun(args[0])
	if err != nil {
		return err
	}

	pop := populations(samples)
	changed := make([]float64, len(samples))
	for i, s := range samples {
		changed[i] = float64(s.Changed)
	}

	if svgPath != "" {
		if err := os.WriteFile(svgPath, []byte(export.SeriesToSVG(pop, 800, 300, "#00ff00")), 0644); err != nil {
			return err
		}
		logger.Printf("wrote %s", svgPath)
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "run: %s\n", meta.ID)
	fmt.Fprintf(w, "grid: %dx%d %s\n\n", meta.Cols, meta.Rows, meta.Topology)
	fmt.Fprintln(w, asciigraph.Plot(pop, asciigraph.Height(10), asciigraph.Width(80), asciigraph.Caption("population")))
	fmt.Fprintln(w)
	fmt.Fprintln(w, asciigraph.Plot(changed, asciigraph.Height(10), asciigraph.Width(80), asciigraph.Caption("cells changed")))
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	meta, samples, err := loadRun(args[0])
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "oscillation analysis: %s\n\n", meta.ID)

	settled := analysis.Settled(samples)
	if settled > 0 {
		fmt.Fprintf(w, "still life from generation %d\n", settled)
	} else {
		fmt.Fprintln(w, "still changing at the last generation")
	}

	// only the second half, so the initial die-off does not dominate
	tail := populations(samples[len(samples)/2:])
	ps := analysis.PowerSpectrum(tail)
	if len(ps) > 1 {
		fmt.Fprintln(w, asciigraph.Plot(ps[1:],
			asciigraph.Height(10), asciigraph.Width(80), asciigraph.Caption("population spectrum")))
	}

	period, _ := analysis.DominantPeriod(tail)
	if period == 0 {
		fmt.Fprintln(w, "population is constant")
		return nil
	}
	fmt.Fprintf(w, "dominant period: %.2f generations\n", period)
	return nil
}

func snapshotRun(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	res, err := sim.New(session.OptionsFromConfig(cfg)).Run(cmd.Context(), sim.Config{
		Generations: snapshotGenerations,
		Seed:        cfg.Seed,
	})
	if err != nil {
		return err
	}

	svg := export.GridToSVG(res.Final, cfg.Layout.CellPx, "#00ff00")
	if err := os.WriteFile(args[0], []byte(svg), 0644); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (seed %d, generation %d, %d alive)\n",
		args[0], cfg.Seed, snapshotGenerations, res.Final.Population())
	return nil
}

func saveResult(st *storage.Store, cfg *config.Config, generations int, res *sim.Result) (string, error) {
	return st.Save(storage.RunMetadata{
		Seed:        res.Seed,
		Rows:        res.Final.Rows(),
		Cols:        res.Final.Cols(),
		Topology:    cfg.Topology.String(),
		Speed:       cfg.Speed,
		History:     cfg.History,
		Generations: generations,
		Metrics:     res.Metrics,
	}, res.Samples)
}

func runScenario(cmd *cobra.Command, args []string) error {
	scenario, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}

	results, err := automation.RunScenario(cmd.Context(), scenario, logger.Printf)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tRUN ID\tMEAN POP\tPEAK\tCHURN")
	for _, sr := range results {
		for _, res := range sr.Results {
			runID, err := saveResult(st, sr.Config, sr.Step.Generations, res)
			if err != nil {
				return fmt.Errorf("save run: %w", err)
			}
			fmt.Fprintf(w, "%s\t%s\t%.1f\t%.0f\t%.2f\n", sr.Step.Name, runID,
				res.Metrics["mean_population"], res.Metrics["peak_population"], res.Metrics["mean_churn"])
		}
	}
	return w.Flush()
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	results, err := automation.RunSweep(cmd.Context(), &automation.DensitySweep{
		Base:        cfg,
		Min:         sweepMin,
		Max:         sweepMax,
		NumSteps:    sweepSteps,
		Generations: sweepGenerations,
		Runs:        sweepRuns,
	}, logger.Printf)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DENSITY\tMEAN POP\tPEAK\tSETTLED")
	means := make([]float64, len(results))
	for i, r := range results {
		means[i] = r.MeanPopulation
		fmt.Fprintf(w, "%.3f\t%.1f\t%.1f\t%.0f%%\n", r.Density, r.MeanPopulation, r.PeakPopulation, r.Settled*100)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, asciigraph.Plot(means, asciigraph.Height(10), asciigraph.Caption("mean population by density")))
	return nil
}

func showConfig(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	rows, cols := cfg.Layout.Geometry()
	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "topology:        %s\n", cfg.Topology)
	fmt.Fprintf(w, "grid:            %dx%d\n", cols, rows)
	fmt.Fprintf(w, "speed:           %g\n", cfg.Speed)
	fmt.Fprintf(w, "ticks/gen:       %d\n", cfg.TicksPerGeneration())
	fmt.Fprintf(w, "history:         %d\n", cfg.History)
	fmt.Fprintf(w, "prepopulate:     %t (density %.2f)\n", cfg.Prepopulate, cfg.Density)
	fmt.Fprintf(w, "iteration delay: %v\n", cfg.IterationDelay)
	fmt.Fprintf(w, "seed:            %d\n", cfg.Seed)
	return nil
}
