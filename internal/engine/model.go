package engine

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/san-kum/neurosim/internal/dynamo"
	"github.com/san-kum/neurosim/internal/integrators"
	"github.com/san-kum/neurosim/internal/registry"
)

// DefaultDt is the global integration step in seconds.
const DefaultDt = 1e-5

// Options configures a Model at construction.
type Options struct {
	Params     map[string]float64
	States     map[string]float64
	Batch      int
	Dt         float64
	Integrator dynamo.Integrator
	// Strict fails a tick when an integrated state's derivative slot was not
	// written. Otherwise the gap is logged once and treated as zero.
	Strict bool
	Logger logrus.FieldLogger
}

// Snapshot is a deep copy of a model's state after one tick.
type Snapshot struct {
	Tick   int
	Time   float64
	States map[string]dynamo.Vec
	Spike  dynamo.Vec
}

// Value returns the snapshot of one state, nil if it was not declared.
func (s Snapshot) Value(name string) dynamo.Vec {
	return s.States[name]
}

// Model is one simulated neuron, or a batch of independent neurons sharing
// a variant and parameters.
type Model struct {
	variant Variant
	meta    Meta
	store   *registry.Store
	lay     layout
	integ   dynamo.Integrator
	log     logrus.FieldLogger

	dt     float64
	h      float64
	strict bool

	spike dynamo.Vec
	stim  dynamo.Vec

	tick     int
	time     float64
	warnings int
	clipped  int
	// pending counts singular substitutions in the tick being computed.
	pending int

	stepErr       error
	warnedMissing bool
}

// New builds a ready Model. It fails without returning a partial model on an
// unknown override name, a bad batch size, or a bad step.
func New(v Variant, opts Options) (*Model, error) {
	if v == nil {
		return nil, &dynamo.ConfigError{Kind: "variant", Err: dynamo.ErrUnknownVariant}
	}
	meta := v.Meta()

	if opts.Batch == 0 {
		opts.Batch = 1
	}
	if opts.Dt == 0 {
		opts.Dt = DefaultDt
	}
	if opts.Dt < 0 {
		return nil, &dynamo.ConfigError{Kind: "dt", Err: fmt.Errorf("%w: dt %g must be positive", dynamo.ErrInvalidConfig, opts.Dt)}
	}
	if meta.TimeScale < 0 {
		return nil, &dynamo.ConfigError{Kind: "variant", Name: meta.Name,
			Err: fmt.Errorf("%w: negative time scale", dynamo.ErrInvalidConfig)}
	}
	if opts.Integrator == nil {
		opts.Integrator = integrators.NewEuler()
	}
	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}

	st, err := registry.New(meta.Defaults, registry.Overrides{Params: opts.Params, States: opts.States}, opts.Batch)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", meta.Name, err)
	}

	m := &Model{
		variant: v,
		meta:    meta,
		store:   st,
		lay:     newLayout(st),
		integ:   opts.Integrator,
		log:     opts.Logger.WithField("variant", meta.Name),
		dt:      opts.Dt,
		h:       opts.Dt * meta.Scale(),
		strict:  opts.Strict,
		stim:    make(dynamo.Vec, opts.Batch),
	}
	if spike, ok := st.Lookup(SpikeState); ok {
		m.spike = spike
	}
	return m, nil
}

// Step advances the model by one tick under the given stimulus: one value
// per batch element, a single value broadcast to all, or nil for zero.
//
// A failed tick leaves the model as it was before the call.
func (m *Model) Step(stimulus dynamo.Vec) (Snapshot, error) {
	if err := m.loadStimulus(stimulus); err != nil {
		return Snapshot{}, err
	}

	prevSpike := m.spike.Clone()
	m.spike.Fill(0)
	m.stepErr = nil
	m.pending = 0

	x := m.store.Integrated()
	next := m.integ.Step(system{m}, x, m.stim, m.time*m.meta.Scale(), m.h)

	if m.stepErr == nil && !next.IsValid() {
		m.stepErr = dynamo.ErrInvalidState
	}
	if m.stepErr != nil {
		copy(m.spike, prevSpike)
		return Snapshot{}, &dynamo.SimulationError{Tick: m.tick, Time: m.time, Name: m.meta.Name, Wrapped: m.stepErr}
	}

	copy(x, next)
	m.warnings += m.pending
	m.clipped += m.store.Clamp()

	m.variant.Post(&Frame{store: m.store, lay: &m.lay, x: x})

	m.tick++
	m.time += m.dt
	return m.Snapshot(), nil
}

func (m *Model) loadStimulus(stimulus dynamo.Vec) error {
	switch len(stimulus) {
	case 0, 1, len(m.stim):
	default:
		return &dynamo.SimulationError{Tick: m.tick, Time: m.time, Name: m.meta.Name,
			Wrapped: fmt.Errorf("%w: stimulus length %d, batch %d", dynamo.ErrBatchShape, len(stimulus), len(m.stim))}
	}
	for i := range m.stim {
		m.stim[i] = stimulus.At(i)
	}
	return nil
}

// system adapts the model's variant to dynamo.System for the integrator.
type system struct{ m *Model }

func (s system) Derive(x dynamo.State, u dynamo.Vec, _ float64) dynamo.State {
	m := s.m
	f := &Frame{
		store:   m.store,
		lay:     &m.lay,
		x:       x,
		dx:      make(dynamo.State, len(x)),
		written: make([]bool, len(m.lay.names)),
	}
	m.variant.Derive(f, u)
	m.pending += f.singular

	if !m.meta.Unimplemented {
		if missing := f.missing(); len(missing) > 0 {
			m.reportMissing(missing)
		}
	}
	return f.dx
}

func (m *Model) reportMissing(missing []string) {
	if m.strict {
		if m.stepErr == nil {
			m.stepErr = fmt.Errorf("%w: %s", dynamo.ErrMissingDerivative, strings.Join(missing, ", "))
		}
		return
	}
	if !m.warnedMissing {
		m.warnedMissing = true
		m.log.Warnf("derivative never written for %s; treating as zero (likely a model definition error)",
			strings.Join(missing, ", "))
	}
}

// Snapshot returns a deep copy of the current state.
func (m *Model) Snapshot() Snapshot {
	spike := make(dynamo.Vec, m.store.Batch())
	copy(spike, m.spike)
	return Snapshot{
		Tick:   m.tick,
		Time:   m.time,
		States: m.store.Snapshot(),
		Spike:  spike,
	}
}

// Reset restores initial states and clears the tick counters.
func (m *Model) Reset() {
	m.store.Reset()
	m.tick = 0
	m.time = 0
	m.warnings = 0
	m.clipped = 0
}

func (m *Model) Meta() Meta                 { return m.meta.Clone() }
func (m *Model) Batch() int                 { return m.store.Batch() }
func (m *Model) Names() []string            { return m.store.Names() }
func (m *Model) ParamNames() []string       { return m.store.ParamNames() }
func (m *Model) Params() map[string]float64 { return m.store.Params() }
func (m *Model) Integrator() string         { return m.integ.Name() }
func (m *Model) Dt() float64                { return m.dt }
func (m *Model) Tick() int                  { return m.tick }
func (m *Model) Time() float64              { return m.time }

// Warnings returns how many singular-point substitutions have been made.
// Higher-order integrators evaluate the derivative several times per tick,
// and every evaluation counts.
func (m *Model) Warnings() int { return m.warnings }

// Clipped returns how many state elements have been clipped to their bounds.
func (m *Model) Clipped() int { return m.clipped }

// State returns a copy of one state's current values.
func (m *Model) State(name string) (dynamo.Vec, bool) {
	v, ok := m.store.Lookup(name)
	if !ok {
		return nil, false
	}
	return v.Clone(), true
}

// Param returns one parameter value.
func (m *Model) Param(name string) (float64, bool) {
	return m.store.ParamValue(name)
}
