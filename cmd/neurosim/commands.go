package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/neurosim/internal/analysis"
	"github.com/san-kum/neurosim/internal/automation"
	"github.com/san-kum/neurosim/internal/config"
	"github.com/san-kum/neurosim/internal/engine"
	"github.com/san-kum/neurosim/internal/experiment"
	"github.com/san-kum/neurosim/internal/export"
	"github.com/san-kum/neurosim/internal/optim"
	"github.com/san-kum/neurosim/internal/stimulus"
	"github.com/san-kum/neurosim/internal/storage"
	"github.com/san-kum/neurosim/internal/viz"
)

func runSimulation(cmd *cobra.Command, args []string, f *simFlags, plot bool) error {
	ctx := cmd.Context()
	cfg, err := f.resolve(cmd, args)
	if err != nil {
		return err
	}

	st, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	exp := experiment.New(cfg)
	if err := exp.Setup(); err != nil {
		return err
	}

	fmt.Printf("running %s simulation...\n", cfg.Variant)
	start := time.Now()
	result, err := exp.Run(ctx)
	if err != nil {
		if result != nil {
			fmt.Printf("stopped after %d steps\n", result.Steps)
		}
		return err
	}
	elapsed := time.Since(start)

	runID, err := st.Save(ctx, cfg, result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d\n", result.Steps)
	if result.Warnings > 0 {
		fmt.Printf("warnings: %d\n", result.Warnings)
	}
	fmt.Println(viz.MetricsTable(result.Metrics))

	if plot {
		if _, ok := result.States["v"]; ok {
			fmt.Println(viz.PlotTrace(result.Series("v", 0), viz.PlotOptions{Caption: "v"}))
		}
		if cfg.Stimulus.Kind != "none" {
			fmt.Println(viz.PlotTrace(result.StimulusSeries(0), viz.PlotOptions{Caption: "stimulus"}))
		}
	}
	return nil
}

func listRuns(cmd *cobra.Command, variant string) error {
	ctx := cmd.Context()
	st, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	runs, err := st.List(ctx, variant)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tVARIANT\tTIME\tDURATION\tDT\tBATCH\tINTEG\tSPIKES")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.3fs\t%gs\t%d\t%s\t%g\n",
			run.ID,
			run.Variant,
			run.Timestamp.Local().Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Dt,
			run.Batch,
			run.Integrator,
			run.Metrics["spike_count"],
		)
	}
	return w.Flush()
}

func loadRun(cmd *cobra.Command, runID string) (*storage.RunMetadata, *storage.Trace, error) {
	st, err := openStore(cmd.Context())
	if err != nil {
		return nil, nil, err
	}
	defer st.Close()

	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, err
	}
	trace, err := st.LoadStates(runID)
	if err != nil {
		return nil, nil, err
	}
	if len(trace.Times) == 0 {
		return nil, nil, fmt.Errorf("run %s: no data", runID)
	}
	return meta, trace, nil
}

// stateColumns groups trace columns by state name, dropping the stimulus.
func stateColumns(trace *storage.Trace, batch int) (names []string, cols map[string][]string) {
	cols = make(map[string][]string)
	for _, c := range trace.Columns {
		name := c
		if i := strings.IndexByte(c, '['); i >= 0 && batch > 1 {
			name = c[:i]
		}
		if name == "stimulus" {
			continue
		}
		if _, ok := cols[name]; !ok {
			names = append(names, name)
		}
		cols[name] = append(cols[name], c)
	}
	return names, cols
}

func plotRun(cmd *cobra.Command, runID, state string) error {
	meta, trace, err := loadRun(cmd, runID)
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("variant: %s\n", meta.Variant)
	fmt.Printf("samples: %d\n\n", len(trace.Times))

	names, cols := stateColumns(trace, meta.Batch)
	if state != "" {
		if _, ok := cols[state]; !ok {
			return fmt.Errorf("run %s has no state %q (have %v)", runID, state, names)
		}
		names = []string{state}
	}

	const maxPlots = 6
	if len(names) > maxPlots {
		names = names[:maxPlots]
	}
	for _, name := range names {
		series := make([][]float64, len(cols[name]))
		for i, c := range cols[name] {
			series[i] = trace.Series[c]
		}
		fmt.Println(viz.PlotBatch(series, viz.PlotOptions{Height: 10, Width: 80, Caption: name + " vs time"}))
		fmt.Println()
	}
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	meta, trace, err := loadRun(cmd, args[0])
	if err != nil {
		return err
	}

	fmt.Printf("spike analysis: %s\n", meta.ID)
	fmt.Printf("variant: %s\n\n", meta.Variant)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ELEM\tSPIKES\tMEAN ISI\tCV\tRATE\tDOMINANT")
	for b := 0; b < meta.Batch; b++ {
		var idx []int
		if spike, ok := trace.Series[storage.Column(engine.SpikeState, b, meta.Batch)]; ok {
			idx = analysis.SpikeIndices(spike)
		} else if v, ok := trace.Series[storage.Column("v", b, meta.Batch)]; ok {
			idx = analysis.DetectSpikes(v, engine.SpikeThreshold)
		}
		isi := analysis.ISIStats(analysis.SpikeTimes(trace.Times, idx))

		dominant := math.NaN()
		if v, ok := trace.Series[storage.Column("v", b, meta.Batch)]; ok {
			dominant = analysis.DominantFrequency(v, meta.Dt)
		}

		rate := 0.0
		if meta.Duration > 0 {
			rate = float64(len(idx)) / meta.Duration
		}
		fmt.Fprintf(w, "%d\t%d\t%.4gs\t%.3g\t%.3g hz\t%.3g hz\n", b, len(idx), isi.Mean, isi.CV, rate, dominant)
	}
	return w.Flush()
}

func exportCSV(cmd *cobra.Command, args []string) error {
	st, err := openStore(cmd.Context())
	if err != nil {
		return err
	}
	defer st.Close()

	if _, err := st.Load(args[0]); err != nil {
		return err
	}
	file, err := os.Open(st.StatesPath(args[0]))
	if err != nil {
		return err
	}
	defer file.Close()

	_, err = io.Copy(os.Stdout, file)
	return err
}

func exportJSON(cmd *cobra.Command, args []string) error {
	meta, trace, err := loadRun(cmd, args[0])
	if err != nil {
		return err
	}

	data := struct {
		*storage.RunMetadata
		Times  []float64            `json:"times"`
		Series map[string][]float64 `json:"series"`
	}{meta, trace.Times, trace.Series}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

func runLive(cmd *cobra.Command, args []string, f *simFlags, opts viz.LiveOptions) error {
	cfg, err := f.resolve(cmd, args)
	if err != nil {
		return err
	}
	model, err := newModel(cfg)
	if err != nil {
		return err
	}

	p := tea.NewProgram(viz.NewLive(model, stimulus.NewManual(cfg.Stimulus.Amplitude), opts),
		tea.WithAltScreen(), tea.WithContext(cmd.Context()))
	_, err = p.Run()
	if errors.Is(err, tea.ErrProgramKilled) {
		return nil
	}
	return err
}

func newModel(cfg *config.Config) (*engine.Model, error) {
	exp := experiment.New(cfg)
	if err := exp.Setup(); err != nil {
		return nil, err
	}
	return exp.Model(), nil
}

func exportSVG(cmd *cobra.Command, runID, state, out string) error {
	meta, trace, err := loadRun(cmd, runID)
	if err != nil {
		return err
	}
	_, cols := stateColumns(trace, meta.Batch)
	if _, ok := cols[state]; !ok {
		return fmt.Errorf("run %s has no state %q", runID, state)
	}

	series := make([][]float64, len(cols[state]))
	for i, c := range cols[state] {
		series[i] = trace.Series[c]
	}
	svg := export.TraceSVG(trace.Times, series, fmt.Sprintf("%s %s", meta.ID, state), 800, 400)
	return writeOutput(out, svg)
}

func writeOutput(path, data string) error {
	if path == "" {
		_, err := io.WriteString(os.Stdout, data)
		return err
	}
	return os.WriteFile(path, []byte(data), 0o644)
}

func phasePlot(cmd *cobra.Command, args []string, f *simFlags, x, y, svgPath string) error {
	cfg, err := f.resolve(cmd, args)
	if err != nil {
		return err
	}
	exp := experiment.New(cfg)
	if err := exp.Setup(); err != nil {
		return err
	}
	if y == "" {
		for _, name := range exp.Model().Names() {
			if name != x && name != engine.SpikeState {
				y = name
				break
			}
		}
	}

	result, err := exp.Run(cmd.Context())
	if err != nil {
		return err
	}
	plane, err := analysis.NewPhasePlane(result, x, y, 0)
	if err != nil {
		return err
	}
	fmt.Printf("phase plane: %s\n\n", cfg.Variant)
	fmt.Print(plane.Render(70, 20))
	if svgPath != "" {
		return writeOutput(svgPath, export.PhaseSVG(plane, 600, 600))
	}
	return nil
}

func fiCurve(cmd *cobra.Command, args []string, f *simFlags, from, to float64, points int) error {
	cfg, err := f.resolve(cmd, args)
	if err != nil {
		return err
	}
	if points < 2 {
		return fmt.Errorf("need at least 2 points, got %d", points)
	}

	amps := make([]float64, points)
	for i := range amps {
		amps[i] = from + (to-from)*float64(i)/float64(points-1)
	}
	curve, err := analysis.FICurve(cfg, amps)
	if err != nil {
		return err
	}

	fmt.Printf("f-i curve: %s (%s, %gs)\n\n", cfg.Variant, cfg.Integrator, cfg.Duration)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "AMPLITUDE\tSPIKES\tRATE")
	rates := make([]float64, len(curve))
	for i, p := range curve {
		rates[i] = p.Rate
		fmt.Fprintf(w, "%.4g\t%d\t%.4g hz\n", p.Amplitude, p.Spikes, p.Rate)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(asciigraph.Plot(rates,
		asciigraph.Height(10),
		asciigraph.Caption("rate (hz) vs amplitude")))
	return nil
}

func rheobase(cmd *cobra.Command, args []string, f *simFlags, lo, hi, tol float64) error {
	cfg, err := f.resolve(cmd, args)
	if err != nil {
		return err
	}
	amp, err := optim.Rheobase(cmd.Context(), cfg, lo, hi, tol)
	if err != nil {
		return err
	}
	fmt.Printf("rheobase for %s: %.6g (±%g) over %gs\n", cfg.Variant, amp, tol, cfg.Duration)
	return nil
}

func sweep(cmd *cobra.Command, args []string, f *simFlags, grid map[string]string, metric string, target float64) error {
	cfg, err := f.resolve(cmd, args)
	if err != nil {
		return err
	}
	if len(grid) == 0 {
		return fmt.Errorf("no --grid given")
	}

	params := make([]string, 0, len(grid))
	for name := range grid {
		params = append(params, name)
	}
	sort.Strings(params)

	ranges := make([][]float64, len(params))
	for i, name := range params {
		for _, raw := range strings.Split(grid[name], ";") {
			v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
			if err != nil {
				return fmt.Errorf("--grid %s: %w", name, err)
			}
			ranges[i] = append(ranges[i], v)
		}
	}

	gs, err := optim.NewGridSearch(params, ranges)
	if err != nil {
		return err
	}
	score := optim.Metric(metric)
	if cmd.Flags().Changed("target") {
		score = optim.Target(metric, target)
	}

	best, trials, err := gs.Search(cmd.Context(), cfg, score)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, strings.ToUpper(strings.Join(params, "\t"))+"\tSCORE")
	for _, t := range trials {
		for _, name := range params {
			fmt.Fprintf(w, "%g\t", t.Params[name])
		}
		fmt.Fprintf(w, "%.6g\n", t.Score)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Printf("\nbest: %v (score %.6g)\n", best.Params, best.Score)
	return nil
}

func compareIntegrators(cmd *cobra.Command, args []string, f *simFlags) error {
	base, err := f.resolve(cmd, args[:1])
	if err != nil {
		return err
	}

	fmt.Printf("comparing integrators for %s (dt=%g, duration=%gs)\n\n", base.Variant, base.Dt, base.Duration)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "INTEGRATOR\tSPIKES\tFINAL V\tWARNINGS\tTIME")
	for _, name := range args[1:] {
		cfg := base.Clone()
		cfg.Integrator = name

		exp := experiment.New(cfg)
		if err := exp.Setup(); err != nil {
			fmt.Fprintf(w, "%s\terror: %v\n", name, err)
			continue
		}
		start := time.Now()
		result, err := exp.Run(cmd.Context())
		elapsed := time.Since(start)
		if err != nil {
			fmt.Fprintf(w, "%s\terror: %v\n", name, err)
			continue
		}

		finalV := math.NaN()
		if v := result.Series("v", 0); len(v) > 0 {
			finalV = v[len(v)-1]
		}
		fmt.Fprintf(w, "%s\t%g\t%.6g\t%d\t%.2fms\n", name, result.Metrics["spike_count"], finalV, result.Warnings,
			float64(elapsed.Microseconds())/1000)
	}
	return w.Flush()
}

func runEnsemble(cmd *cobra.Command, args []string, f *simFlags, runs int) error {
	cfg, err := f.resolve(cmd, args)
	if err != nil {
		return err
	}

	results, err := experiment.NewEnsemble(cfg, runs, cfg.Seed).Run(cmd.Context())
	if err != nil {
		return err
	}

	values := make(map[string][]float64)
	for _, r := range results {
		for name, v := range r.Metrics {
			if !math.IsNaN(v) {
				values[name] = append(values[name], v)
			}
		}
	}
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Printf("ensemble: %s, %d runs from seed %d\n\n", cfg.Variant, runs, cfg.Seed)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "METRIC\tMEAN\tSTD\tN")
	for _, name := range names {
		mean, std := stat.MeanStdDev(values[name], nil)
		fmt.Fprintf(w, "%s\t%.6g\t%.3g\t%d\n", name, mean, std, len(values[name]))
	}
	return w.Flush()
}

func runScenario(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	scenario, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}

	st, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	fmt.Printf("scenario: %s (%d steps)\n", scenario.Name, len(scenario.Steps))
	_, err = automation.RunScenario(ctx, scenario, func(r automation.StepResult) error {
		runID, err := st.Save(ctx, r.Config, r.Result)
		if err != nil {
			return err
		}
		fmt.Printf("  %s: %s, %d steps, %g spikes\n", r.Name, runID, r.Result.Steps, r.Result.Metrics["spike_count"])
		return nil
	})
	return err
}

func runMonteCarlo(cmd *cobra.Command, args []string, f *simFlags, state string, spread float64, trials int) error {
	cfg, err := f.resolve(cmd, args)
	if err != nil {
		return err
	}

	results, err := automation.RunMonteCarlo(cmd.Context(), automation.MonteCarloConfig{
		Base: cfg, State: state, Spread: spread, NumTrials: trials, Seed: cfg.Seed,
	})
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "TRIAL\t%s\tSPIKES\tSTATUS\n", strings.ToUpper(state))
	for _, r := range results {
		status := "ok"
		if !r.Stable {
			status = r.Err.Error()
		}
		fmt.Fprintf(w, "%d\t%.4g\t%g\t%s\n", r.TrialID, r.Init, r.Spikes, status)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	stable, unstable := automation.MonteCarloStats(results)
	fmt.Printf("\nstable: %d, unstable: %d\n", stable, unstable)
	return nil
}
