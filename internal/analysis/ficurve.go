package analysis

import (
	"fmt"

	"github.com/san-kum/neurosim/internal/config"
	"github.com/san-kum/neurosim/internal/dynamo"
	"github.com/san-kum/neurosim/internal/engine"
	"github.com/san-kum/neurosim/internal/integrators"
	"github.com/san-kum/neurosim/internal/neuron"
)

// FIPoint is the steady firing rate at one input amplitude.
type FIPoint struct {
	Amplitude float64
	Rate      float64
	Spikes    int
}

// chunk is the smallest number of amplitudes simulated by one goroutine.
const chunk = 4

// FICurve measures the firing rate for each constant stimulus amplitude
// over cfg.Duration. Amplitudes are simulated as batch elements, split
// across goroutines. Variant, integrator, dt, params and init state come
// from cfg; its stimulus and batch are ignored.
func FICurve(cfg *config.Config, amplitudes []float64) ([]FIPoint, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if len(amplitudes) == 0 {
		return nil, nil
	}
	if _, err := integrators.ByName(cfg.Integrator); err != nil {
		return nil, err
	}
	v, err := neuron.Lookup(cfg.Variant)
	if err != nil {
		return nil, err
	}
	meta := v.Meta()
	if _, hasV := meta.Defaults.State("v"); !meta.HasSpike() && !hasV {
		return nil, &dynamo.ConfigError{Kind: "variant", Name: meta.Name,
			Err: fmt.Errorf("%w: no spike output or voltage to count", dynamo.ErrInvalidConfig)}
	}

	points := make([]FIPoint, len(amplitudes))
	errs := make([]error, len(amplitudes))

	dynamo.ParallelFor(len(amplitudes), chunk, func(start, end int) {
		counts, err := countSpikes(cfg, meta, amplitudes[start:end])
		if err != nil {
			errs[start] = err
			return
		}
		for i, n := range counts {
			a := amplitudes[start+i]
			points[start+i] = FIPoint{Amplitude: a, Spikes: n, Rate: float64(n) / cfg.Duration}
		}
	})

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return points, nil
}

func countSpikes(cfg *config.Config, meta engine.Meta, amplitudes []float64) ([]int, error) {
	integ, err := integrators.ByName(cfg.Integrator)
	if err != nil {
		return nil, err
	}
	model, err := neuron.New(meta.Name, engine.Options{
		Params:     cfg.Params,
		States:     cfg.InitState,
		Batch:      len(amplitudes),
		Dt:         cfg.Dt,
		Integrator: integ,
		Strict:     cfg.Strict,
	})
	if err != nil {
		return nil, err
	}

	stim := dynamo.Vec(amplitudes)
	counts := make([]int, len(amplitudes))
	useFlag := meta.HasSpike()
	prev, _ := model.State("v")

	for i, steps := 0, cfg.Steps(); i < steps; i++ {
		snap, err := model.Step(stim)
		if err != nil {
			return nil, err
		}
		if useFlag {
			for j, s := range snap.Spike {
				if s == 1 {
					counts[j]++
				}
			}
			continue
		}
		v := snap.Value("v")
		for j := range v {
			if prev[j] < engine.SpikeThreshold && v[j] >= engine.SpikeThreshold {
				counts[j]++
			}
		}
		prev = v
	}
	return counts, nil
}
