package engine

import (
	"github.com/san-kum/neurosim/internal/dynamo"
	"github.com/san-kum/neurosim/internal/registry"
)

// SpikeState is the conventional name of the discrete spike output.
const SpikeState = "spike"

// SpikeThreshold is the upward voltage crossing, in mV, counted as an action
// potential for variants without a spike output.
const SpikeThreshold = 0.0

// Meta is the static description of a variant, readable without building a
// model.
type Meta struct {
	Name        string
	Description string
	Defaults    registry.Defaults
	// TimeScale converts the global time unit into the model's own
	// (1e3 for a model written in ms driven in seconds). Zero means 1.
	TimeScale float64
	// Unimplemented marks a variant whose derivative function is a
	// documented no-op: its states never evolve, which says nothing about
	// equilibrium.
	Unimplemented bool
}

// Clone returns a copy whose Defaults share no storage with m.
func (m Meta) Clone() Meta {
	m.Defaults = m.Defaults.Clone()
	return m
}

// Scale returns the effective TimeScale.
func (m Meta) Scale() float64 {
	if m.TimeScale == 0 {
		return 1
	}
	return m.TimeScale
}

// HasSpike reports whether the variant declares a spike output.
func (m Meta) HasSpike() bool {
	_, ok := m.Defaults.State(SpikeState)
	return ok
}

// Variant is one neuron model: a derivative function and a post-step rule
// over the states and parameters it declares in Meta.
type Variant interface {
	Meta() Meta
	// Derive writes one derivative slot per integrated state. stimulus has
	// exactly one element per batch element.
	Derive(f *Frame, stimulus dynamo.Vec)
	// Post runs after integration and clamping. It may overwrite states and
	// set spike.
	Post(f *Frame)
}
