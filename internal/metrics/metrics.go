package metrics

import (
	"math"

	"github.com/san-kum/neurosim/internal/engine"
)

// Metric accumulates one scalar over the snapshots of a run.
type Metric interface {
	Name() string
	Observe(snap engine.Snapshot, m *engine.Model)
	Value() float64
	Reset()
}

// ForVariant returns the standard metric set for a variant.
func ForVariant(meta engine.Meta) []Metric {
	var out []Metric

	_, hasV := meta.Defaults.State("v")
	switch {
	case meta.HasSpike():
		out = append(out, NewSpikeCount(), NewFiringRate())
	case hasV:
		out = append(out,
			NewCrossingCount("v", engine.SpikeThreshold),
			NewCrossingRate("v", engine.SpikeThreshold))
	}
	if hasV {
		out = append(out, NewPeak("v"), NewMean("v"))
	}
	return append(out, NewWarnings(), NewClipped())
}

// SpikeCount counts spike events summed over the batch. It reads the spike
// output, or upward crossings of a state when built with NewCrossingCount.
type SpikeCount struct {
	name      string
	state     string
	threshold float64
	prev      []float64
	count     int
}

func NewSpikeCount() *SpikeCount {
	return &SpikeCount{name: "spike_count"}
}

func NewCrossingCount(state string, threshold float64) *SpikeCount {
	return &SpikeCount{name: "spike_count", state: state, threshold: threshold}
}

func (s *SpikeCount) Name() string { return s.name }

func (s *SpikeCount) Observe(snap engine.Snapshot, _ *engine.Model) {
	if s.state == "" {
		for _, x := range snap.Spike {
			if x == 1 {
				s.count++
			}
		}
		return
	}

	cur := snap.Value(s.state)
	if cur == nil {
		return
	}
	if s.prev == nil {
		s.prev = make([]float64, len(cur))
		copy(s.prev, cur)
		return
	}
	for i, x := range cur {
		if s.prev[i] < s.threshold && x >= s.threshold {
			s.count++
		}
	}
	copy(s.prev, cur)
}

func (s *SpikeCount) Value() float64 { return float64(s.count) }

func (s *SpikeCount) Reset() {
	s.count = 0
	s.prev = nil
}

// FiringRate is the mean per-neuron spike rate in Hz of global time.
type FiringRate struct {
	name    string
	counter *SpikeCount
	batch   int
	elapsed float64
}

func NewFiringRate() *FiringRate {
	return &FiringRate{name: "firing_rate", counter: NewSpikeCount()}
}

func NewCrossingRate(state string, threshold float64) *FiringRate {
	return &FiringRate{name: "firing_rate", counter: NewCrossingCount(state, threshold)}
}

func (f *FiringRate) Name() string { return f.name }

func (f *FiringRate) Observe(snap engine.Snapshot, m *engine.Model) {
	f.counter.Observe(snap, m)
	f.batch = len(snap.Spike)
	f.elapsed = snap.Time
}

func (f *FiringRate) Value() float64 {
	if f.elapsed == 0 || f.batch == 0 {
		return 0
	}
	return f.counter.Value() / float64(f.batch) / f.elapsed
}

func (f *FiringRate) Reset() {
	f.counter.Reset()
	f.batch = 0
	f.elapsed = 0
}

// Peak is the maximum of a state over the batch and the run.
type Peak struct {
	name  string
	state string
	max   float64
	seen  bool
}

func NewPeak(state string) *Peak {
	return &Peak{name: "peak_" + state, state: state}
}

func (p *Peak) Name() string { return p.name }

func (p *Peak) Observe(snap engine.Snapshot, _ *engine.Model) {
	for _, x := range snap.Value(p.state) {
		if !p.seen || x > p.max {
			p.max = x
			p.seen = true
		}
	}
}

func (p *Peak) Value() float64 {
	if !p.seen {
		return math.NaN()
	}
	return p.max
}

func (p *Peak) Reset() {
	p.max = 0
	p.seen = false
}

// Mean is the average of a state over the batch and the run.
type Mean struct {
	name    string
	state   string
	sum     float64
	samples int
}

func NewMean(state string) *Mean {
	return &Mean{name: "mean_" + state, state: state}
}

func (m *Mean) Name() string { return m.name }

func (m *Mean) Observe(snap engine.Snapshot, _ *engine.Model) {
	for _, x := range snap.Value(m.state) {
		m.sum += x
		m.samples++
	}
}

func (m *Mean) Value() float64 {
	if m.samples == 0 {
		return math.NaN()
	}
	return m.sum / float64(m.samples)
}

func (m *Mean) Reset() {
	m.sum = 0
	m.samples = 0
}
