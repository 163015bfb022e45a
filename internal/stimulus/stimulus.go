package stimulus

import (
	"math/rand"

	"github.com/san-kum/neurosim/internal/dynamo"
)

type Stimulus interface {
	// At writes the stimulus at global time t (seconds) into dst.
	At(t float64, dst dynamo.Vec)
}

type Constant struct {
	Amplitude float64
}

func NewConstant(amplitude float64) *Constant {
	return &Constant{Amplitude: amplitude}
}

func (c *Constant) At(_ float64, dst dynamo.Vec) {
	dst.Fill(c.Amplitude)
}

type Pulse struct {
	Amplitude float64
	Onset     float64
	Offset    float64
}

func NewPulse(amplitude, onset, offset float64) *Pulse {
	return &Pulse{Amplitude: amplitude, Onset: onset, Offset: offset}
}

func (p *Pulse) At(t float64, dst dynamo.Vec) {
	if t >= p.Onset && t < p.Offset {
		dst.Fill(p.Amplitude)
		return
	}
	dst.Fill(0)
}

type Ramp struct {
	Amplitude float64
	Onset     float64
	End       float64
}

func NewRamp(amplitude, onset, end float64) *Ramp {
	return &Ramp{Amplitude: amplitude, Onset: onset, End: end}
}

func (r *Ramp) At(t float64, dst dynamo.Vec) {
	switch {
	case t < r.Onset:
		dst.Fill(0)
	case t >= r.End:
		dst.Fill(r.Amplitude)
	default:
		dst.Fill(r.Amplitude * (t - r.Onset) / (r.End - r.Onset))
	}
}

// Noise adds independent Gaussian samples to each batch element of Base.
type Noise struct {
	Base  Stimulus
	Sigma float64
	rng   *rand.Rand
}

func NewNoise(base Stimulus, sigma float64, seed int64) *Noise {
	return &Noise{Base: base, Sigma: sigma, rng: rand.New(rand.NewSource(seed))}
}

func (n *Noise) At(t float64, dst dynamo.Vec) {
	n.Base.At(t, dst)
	for i := range dst {
		dst[i] += n.Sigma * n.rng.NormFloat64()
	}
}

// Manual holds an amplitude that the live view adjusts from key presses.
type Manual struct {
	Amplitude float64
}

func NewManual(amplitude float64) *Manual {
	return &Manual{Amplitude: amplitude}
}

func (m *Manual) Set(amplitude float64) { m.Amplitude = amplitude }

func (m *Manual) Adjust(delta float64) { m.Amplitude += delta }

func (m *Manual) At(_ float64, dst dynamo.Vec) {
	dst.Fill(m.Amplitude)
}
