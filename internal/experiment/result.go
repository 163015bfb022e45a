package experiment

import (
	"github.com/san-kum/neurosim/internal/dynamo"
	"github.com/san-kum/neurosim/internal/engine"
)

// Result holds the recorded trajectory of one run. Row 0 is the initial
// state; row k is the state after tick k and the stimulus that drove it.
type Result struct {
	Variant    string
	Integrator string
	Dt         float64
	Batch      int
	Names      []string
	Times      []float64
	States     map[string][]dynamo.Vec
	Spikes     []dynamo.Vec
	Stimulus   []dynamo.Vec
	Metrics    map[string]float64
	Params     map[string]float64
	Steps      int
	Warnings   int
	Clipped    int
}

func newResult(m *engine.Model, steps int) *Result {
	names := m.Names()
	r := &Result{
		Variant:    m.Meta().Name,
		Integrator: m.Integrator(),
		Dt:         m.Dt(),
		Batch:      m.Batch(),
		Names:      names,
		Times:      make([]float64, 0, steps+1),
		States:     make(map[string][]dynamo.Vec, len(names)),
		Spikes:     make([]dynamo.Vec, 0, steps+1),
		Stimulus:   make([]dynamo.Vec, 0, steps+1),
		Metrics:    make(map[string]float64),
		Params:     m.Params(),
	}
	for _, name := range names {
		r.States[name] = make([]dynamo.Vec, 0, steps+1)
	}
	r.append(m.Snapshot(), make(dynamo.Vec, m.Batch()))
	return r
}

func (r *Result) record(snap engine.Snapshot, stim dynamo.Vec) {
	r.append(snap, stim.Clone())
	r.Steps++
}

func (r *Result) append(snap engine.Snapshot, stim dynamo.Vec) {
	r.Times = append(r.Times, snap.Time)
	for name, v := range snap.States {
		r.States[name] = append(r.States[name], v)
	}
	r.Spikes = append(r.Spikes, snap.Spike)
	r.Stimulus = append(r.Stimulus, stim)
}

// Series returns one batch element's trace of a state, nil if the state is
// unknown. The spike output is available as "spike" for every variant.
func (r *Result) Series(name string, elem int) []float64 {
	rows, ok := r.States[name]
	if !ok {
		if name != engine.SpikeState {
			return nil
		}
		rows = r.Spikes
	}
	out := make([]float64, len(rows))
	for i, row := range rows {
		out[i] = row[elem]
	}
	return out
}

// StimulusSeries returns one batch element's stimulus trace.
func (r *Result) StimulusSeries(elem int) []float64 {
	out := make([]float64, len(r.Stimulus))
	for i, row := range r.Stimulus {
		out[i] = row[elem]
	}
	return out
}
