package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/san-kum/neurosim/internal/config"
	"github.com/san-kum/neurosim/internal/neuron"
	"github.com/san-kum/neurosim/internal/stimulus"
	"github.com/san-kum/neurosim/internal/storage"
	"github.com/san-kum/neurosim/internal/tui"
	"github.com/san-kum/neurosim/internal/viz"
)

var (
	dataDir  string
	logLevel string
)

// simFlags are the flags shared by every command that builds a simulation.
// A flag overrides the preset or config file only when it was set.
type simFlags struct {
	configFile string
	preset     string
	integrator string
	dt         float64
	duration   float64
	batch      int
	seed       int64
	strict     bool
	stimKind   string
	amplitude  float64
	onset      float64
	offset     float64
	rampEnd    float64
	sigma      float64
	params     map[string]string
	init       map[string]string
}

func addSimFlags(cmd *cobra.Command) *simFlags {
	f := &simFlags{}
	fs := cmd.Flags()
	fs.StringVar(&f.configFile, "config", "", "config file path (yaml)")
	fs.StringVar(&f.preset, "preset", "", "use preset configuration")
	fs.StringVar(&f.integrator, "integrator", config.DefaultIntegrator, "integrator")
	fs.Float64Var(&f.dt, "dt", config.DefaultDt, "timestep (s)")
	fs.Float64Var(&f.duration, "time", config.DefaultDuration, "duration (s)")
	fs.IntVar(&f.batch, "batch", config.DefaultBatch, "number of independent neurons")
	fs.Int64Var(&f.seed, "seed", 0, "random seed for noisy stimuli")
	fs.BoolVar(&f.strict, "strict", false, "fail on missing derivatives")
	fs.StringVar(&f.stimKind, "stim", "constant", "stimulus kind ("+strings.Join(stimulus.Kinds(), ", ")+")")
	fs.Float64Var(&f.amplitude, "amp", config.DefaultAmplitude, "stimulus amplitude")
	fs.Float64Var(&f.onset, "onset", 0, "stimulus onset (s)")
	fs.Float64Var(&f.offset, "offset", 0, "pulse offset (s)")
	fs.Float64Var(&f.rampEnd, "ramp-end", 0, "ramp end (s)")
	fs.Float64Var(&f.sigma, "sigma", 0, "noise standard deviation")
	fs.StringToStringVar(&f.params, "param", nil, "parameter overrides, name=value")
	fs.StringToStringVar(&f.init, "init", nil, "initial state overrides, name=value")
	return f
}

// resolve merges defaults, config file, preset and set flags, in that order.
// The first positional argument, when present, names the variant.
func (f *simFlags) resolve(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if f.configFile != "" {
		loaded, err := config.Load(f.configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}
	if len(args) > 0 {
		cfg.Variant = args[0]
	}

	if f.preset != "" {
		p := config.GetPreset(cfg.Variant, f.preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", f.preset, config.ListPresets(cfg.Variant))
		}
		cfg = p
	}

	changed := cmd.Flags().Changed
	if changed("integrator") {
		cfg.Integrator = f.integrator
	}
	if changed("dt") {
		cfg.Dt = f.dt
	}
	if changed("time") {
		cfg.Duration = f.duration
	}
	if changed("batch") {
		cfg.Batch = f.batch
	}
	if changed("seed") {
		cfg.Seed = f.seed
	}
	if changed("strict") {
		cfg.Strict = f.strict
	}
	if changed("stim") {
		cfg.Stimulus.Kind = f.stimKind
	}
	if changed("amp") {
		cfg.Stimulus.Amplitude = f.amplitude
	}
	if changed("onset") {
		cfg.Stimulus.Onset = f.onset
	}
	if changed("offset") {
		cfg.Stimulus.Offset = f.offset
	}
	if changed("ramp-end") {
		cfg.Stimulus.RampEnd = f.rampEnd
	}
	if changed("sigma") {
		cfg.Stimulus.Sigma = f.sigma
	}

	if cfg.LogLevel != "" && !changed("log") {
		level, err := logrus.ParseLevel(cfg.LogLevel)
		if err != nil {
			return nil, err
		}
		logrus.SetLevel(level)
	}

	var err error
	if cfg.Params, err = mergeValues(cfg.Params, f.params); err != nil {
		return nil, fmt.Errorf("--param: %w", err)
	}
	if cfg.InitState, err = mergeValues(cfg.InitState, f.init); err != nil {
		return nil, fmt.Errorf("--init: %w", err)
	}
	return cfg, nil
}

func mergeValues(dst map[string]float64, src map[string]string) (map[string]float64, error) {
	if len(src) == 0 {
		return dst, nil
	}
	if dst == nil {
		dst = make(map[string]float64, len(src))
	}
	for name, raw := range src {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		dst[name] = v
	}
	return dst, nil
}

func openStore(ctx context.Context) (*storage.Store, error) {
	return storage.Open(ctx, dataDir)
}

func main() {
	rootCmd := &cobra.Command{
		Use:           "neurosim",
		Short:         "single-neuron simulation lab",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level, err := logrus.ParseLevel(logLevel)
			if err != nil {
				return err
			}
			logrus.SetLevel(level)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := tea.NewProgram(tui.NewApp(), tea.WithAltScreen(), tea.WithContext(cmd.Context())).Run()
			return err
		},
	}
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".neurosim", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "warn", "log level")

	runCmd := &cobra.Command{
		Use:   "run [variant]",
		Short: "run and store a simulation",
		Args:  cobra.MaximumNArgs(1),
	}
	runFlags := addSimFlags(runCmd)
	plotAfter := runCmd.Flags().Bool("plot", false, "plot the membrane trace after the run")
	runCmd.RunE = func(cmd *cobra.Command, args []string) error {
		return runSimulation(cmd, args, runFlags, *plotAfter)
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		Args:  cobra.NoArgs,
	}
	listVariant := listCmd.Flags().String("variant", "", "only runs of this variant")
	listCmd.RunE = func(cmd *cobra.Command, args []string) error {
		return listRuns(cmd, *listVariant)
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot stored run traces",
		Args:  cobra.ExactArgs(1),
	}
	plotState := plotCmd.Flags().String("state", "", "state to plot (default all)")
	plotCmd.RunE = func(cmd *cobra.Command, args []string) error {
		return plotRun(cmd, args[0], *plotState)
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "spike train and frequency analysis of a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "write a stored run's states as CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "write a stored run as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "write a stored run's trace as SVG",
		Args:  cobra.ExactArgs(1),
	}
	svgState := exportSVGCmd.Flags().String("state", "v", "state to draw")
	svgOut := exportSVGCmd.Flags().StringP("out", "o", "", "output file (default stdout)")
	exportSVGCmd.RunE = func(cmd *cobra.Command, args []string) error {
		return exportSVG(cmd, args[0], *svgState, *svgOut)
	}

	variantsCmd := &cobra.Command{
		Use:   "variants",
		Short: "list neuron variants",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(viz.VariantTable(neuron.Catalog()))
		},
	}

	presetsCmd := &cobra.Command{
		Use:   "presets [variant]",
		Short: "list available presets",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			variants := config.PresetVariants()
			if len(args) > 0 {
				variants = args
			}
			for _, v := range variants {
				presets := config.ListPresets(v)
				if len(presets) == 0 {
					fmt.Printf("no presets for variant: %s\n", v)
					continue
				}
				fmt.Printf("presets for %s:\n", v)
				for _, p := range presets {
					fmt.Printf("  %s\n", p)
				}
			}
			return nil
		},
	}

	liveCmd := &cobra.Command{
		Use:   "live [variant]",
		Short: "step a neuron in real time",
		Args:  cobra.MaximumNArgs(1),
	}
	liveFlags := addSimFlags(liveCmd)
	liveOpts := viz.LiveOptions{}
	liveCmd.Flags().StringVar(&liveOpts.Trace, "trace", "", "state to plot")
	liveCmd.Flags().IntVar(&liveOpts.StepsPerFrame, "steps", 20, "ticks per frame")
	liveCmd.Flags().Float64Var(&liveOpts.StimStep, "stim-step", 0.5, "stimulus change per key press")
	theme := liveCmd.Flags().String("theme", "scope", "color theme")
	liveCmd.RunE = func(cmd *cobra.Command, args []string) error {
		viz.SetTheme(*theme)
		return runLive(cmd, args, liveFlags, liveOpts)
	}

	phaseCmd := &cobra.Command{
		Use:   "phase [variant]",
		Short: "phase-plane trajectory of a simulation",
		Args:  cobra.MaximumNArgs(1),
	}
	phaseFlags := addSimFlags(phaseCmd)
	xState := phaseCmd.Flags().String("x", "v", "state on the x-axis")
	yState := phaseCmd.Flags().String("y", "", "state on the y-axis (default first other integrated state)")
	phaseSVG := phaseCmd.Flags().String("svg", "", "also write the trajectory to this SVG file")
	phaseCmd.RunE = func(cmd *cobra.Command, args []string) error {
		return phasePlot(cmd, args, phaseFlags, *xState, *yState, *phaseSVG)
	}

	ficurveCmd := &cobra.Command{
		Use:   "ficurve [variant]",
		Short: "firing rate against constant input amplitude",
		Args:  cobra.MaximumNArgs(1),
	}
	fiFlags := addSimFlags(ficurveCmd)
	fiFrom := ficurveCmd.Flags().Float64("from", 0, "lowest amplitude")
	fiTo := ficurveCmd.Flags().Float64("to", 20, "highest amplitude")
	fiSteps := ficurveCmd.Flags().Int("points", 11, "number of amplitudes")
	ficurveCmd.RunE = func(cmd *cobra.Command, args []string) error {
		return fiCurve(cmd, args, fiFlags, *fiFrom, *fiTo, *fiSteps)
	}

	rheobaseCmd := &cobra.Command{
		Use:   "rheobase [variant]",
		Short: "smallest constant input that fires a spike",
		Args:  cobra.MaximumNArgs(1),
	}
	rbFlags := addSimFlags(rheobaseCmd)
	rbLo := rheobaseCmd.Flags().Float64("lo", 0, "amplitude known not to fire")
	rbHi := rheobaseCmd.Flags().Float64("hi", 20, "amplitude known to fire")
	rbTol := rheobaseCmd.Flags().Float64("tol", 0.01, "bracket width to stop at")
	rheobaseCmd.RunE = func(cmd *cobra.Command, args []string) error {
		return rheobase(cmd, args, rbFlags, *rbLo, *rbHi, *rbTol)
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep [variant]",
		Short: "grid search over parameters",
		Args:  cobra.MaximumNArgs(1),
	}
	swFlags := addSimFlags(sweepCmd)
	swGrid := sweepCmd.Flags().StringToString("grid", nil, "parameter values, name=v1;v2;v3")
	swMetric := sweepCmd.Flags().String("metric", "firing_rate", "metric to score")
	swTarget := sweepCmd.Flags().Float64("target", 0, "target metric value")
	sweepCmd.RunE = func(cmd *cobra.Command, args []string) error {
		return sweep(cmd, args, swFlags, *swGrid, *swMetric, *swTarget)
	}

	compareCmd := &cobra.Command{
		Use:   "compare [variant] [integrator1] [integrator2] ...",
		Short: "compare integrators on the same variant",
		Args:  cobra.MinimumNArgs(2),
	}
	cmpFlags := addSimFlags(compareCmd)
	compareCmd.RunE = func(cmd *cobra.Command, args []string) error {
		return compareIntegrators(cmd, args, cmpFlags)
	}

	ensembleCmd := &cobra.Command{
		Use:   "ensemble [variant]",
		Short: "repeat a run over consecutive seeds",
		Args:  cobra.MaximumNArgs(1),
	}
	ensFlags := addSimFlags(ensembleCmd)
	ensRuns := ensembleCmd.Flags().Int("runs", 8, "number of runs")
	ensembleCmd.RunE = func(cmd *cobra.Command, args []string) error {
		return runEnsemble(cmd, args, ensFlags, *ensRuns)
	}

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run and store every step of a scenario file",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}

	monteCarloCmd := &cobra.Command{
		Use:   "montecarlo [variant]",
		Short: "repeat a run from randomly perturbed initial states",
		Args:  cobra.MaximumNArgs(1),
	}
	mcFlags := addSimFlags(monteCarloCmd)
	mcState := monteCarloCmd.Flags().String("state", "v", "state to perturb")
	mcSpread := monteCarloCmd.Flags().Float64("spread", 5, "perturbation half-width")
	mcTrials := monteCarloCmd.Flags().Int("trials", 20, "number of trials")
	monteCarloCmd.RunE = func(cmd *cobra.Command, args []string) error {
		return runMonteCarlo(cmd, args, mcFlags, *mcState, *mcSpread, *mcTrials)
	}

	rootCmd.AddCommand(runCmd, listCmd, plotCmd, analyzeCmd, exportCSVCmd, exportJSONCmd,
		exportSVGCmd, variantsCmd, presetsCmd, liveCmd, phaseCmd, ficurveCmd, rheobaseCmd, sweepCmd,
		compareCmd, ensembleCmd, scenarioCmd, monteCarloCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
