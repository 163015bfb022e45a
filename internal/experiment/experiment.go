package experiment

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/san-kum/neurosim/internal/config"
	"github.com/san-kum/neurosim/internal/dynamo"
	"github.com/san-kum/neurosim/internal/engine"
	"github.com/san-kum/neurosim/internal/integrators"
	"github.com/san-kum/neurosim/internal/metrics"
	"github.com/san-kum/neurosim/internal/neuron"
	"github.com/san-kum/neurosim/internal/stimulus"
)

// Observer is notified after every completed tick.
type Observer interface {
	OnStep(snap engine.Snapshot, stim dynamo.Vec)
}

type Experiment struct {
	cfg       *config.Config
	model     *engine.Model
	stim      stimulus.Stimulus
	metrics   []metrics.Metric
	observers []Observer
	log       logrus.FieldLogger
}

func New(cfg *config.Config) *Experiment {
	return &Experiment{
		cfg: cfg,
		log: logrus.WithField("variant", cfg.Variant),
	}
}

// Setup validates the config and builds the model and stimulus. With no
// metrics given, the variant's standard set is used.
func (e *Experiment) Setup(ms ...metrics.Metric) error {
	if err := e.cfg.Validate(); err != nil {
		return err
	}

	integ, err := integrators.ByName(e.cfg.Integrator)
	if err != nil {
		return err
	}
	stim, err := stimulus.FromConfig(e.cfg.Stimulus, e.cfg.Seed)
	if err != nil {
		return err
	}
	model, err := neuron.New(e.cfg.Variant, engine.Options{
		Params:     e.cfg.Params,
		States:     e.cfg.InitState,
		Batch:      e.cfg.Batch,
		Dt:         e.cfg.Dt,
		Integrator: integ,
		Strict:     e.cfg.Strict,
		Logger:     e.log,
	})
	if err != nil {
		return err
	}

	if len(ms) == 0 {
		ms = metrics.ForVariant(model.Meta())
	}
	e.model = model
	e.stim = stim
	e.metrics = ms
	return nil
}

func (e *Experiment) AddObserver(o Observer) { e.observers = append(e.observers, o) }

func (e *Experiment) Model() *engine.Model { return e.model }

func (e *Experiment) Stimulus() stimulus.Stimulus { return e.stim }

func (e *Experiment) Config() *config.Config { return e.cfg }

// Run ticks the model for the configured duration. On cancellation or a
// failed tick it returns the partial result recorded so far with the error.
func (e *Experiment) Run(ctx context.Context) (*Result, error) {
	if e.model == nil {
		return nil, fmt.Errorf("experiment not setup")
	}

	meta := e.model.Meta()
	if meta.Unimplemented {
		e.log.Warnf("%s dynamics are not implemented; states will not evolve", meta.Name)
	}

	steps := e.cfg.Steps()
	e.log.Infof("running %d steps (dt=%g, integrator=%s, batch=%d)", steps, e.cfg.Dt, e.model.Integrator(), e.model.Batch())

	for _, m := range e.metrics {
		m.Reset()
	}

	result := newResult(e.model, steps)
	buf := make(dynamo.Vec, e.model.Batch())

	var runErr error
	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			runErr = ctx.Err()
		default:
		}
		if runErr != nil {
			break
		}

		e.stim.At(e.model.Time(), buf)
		snap, err := e.model.Step(buf)
		if err != nil {
			runErr = err
			break
		}

		result.record(snap, buf)
		for _, m := range e.metrics {
			m.Observe(snap, e.model)
		}
		for _, obs := range e.observers {
			obs.OnStep(snap, buf)
		}
	}

	for _, m := range e.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
	result.Warnings = e.model.Warnings()
	result.Clipped = e.model.Clipped()

	e.log.Debugf("finished %d steps: %d singular substitutions, %d clipped", result.Steps, result.Warnings, result.Clipped)
	return result, runErr
}
