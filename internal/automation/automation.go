// Package automation runs scripted sequences of simulations and
// perturbation trials.
package automation

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/neurosim/internal/config"
	"github.com/san-kum/neurosim/internal/dynamo"
	"github.com/san-kum/neurosim/internal/experiment"
)

// Scenario is a named list of runs loaded from YAML.
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep is one run. Its config starts from the named preset when
// one is given, else from the defaults, and the step's own fields override
// it.
type ScenarioStep struct {
	Name   string        `yaml:"name"`
	Preset string        `yaml:"preset"`
	Config config.Config `yaml:",inline"`
}

func (s *ScenarioStep) UnmarshalYAML(node *yaml.Node) error {
	var head struct {
		Variant string `yaml:"variant"`
		Preset  string `yaml:"preset"`
	}
	if err := node.Decode(&head); err != nil {
		return err
	}

	start := config.DefaultConfig()
	if head.Preset != "" {
		variant := head.Variant
		if variant == "" {
			variant = start.Variant
		}
		if start = config.GetPreset(variant, head.Preset); start == nil {
			return fmt.Errorf("line %d: unknown preset %s for %s", node.Line, head.Preset, variant)
		}
	}

	type plain ScenarioStep
	p := plain{Config: *start}
	if err := node.Decode(&p); err != nil {
		return err
	}
	*s = ScenarioStep(p)
	return nil
}

func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("parse scenario %s: %w", path, err)
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("scenario %s has no steps", path)
	}
	return &scenario, nil
}

// StepResult pairs a scenario step with its outcome.
type StepResult struct {
	Name   string
	Config *config.Config
	Result *experiment.Result
}

// RunScenario executes the steps in order. onDone, when non-nil, is called
// after each successful step; an error from it stops the scenario.
func RunScenario(ctx context.Context, scenario *Scenario, onDone func(StepResult) error) ([]StepResult, error) {
	log := logrus.WithField("scenario", scenario.Name)
	results := make([]StepResult, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		name := step.Name
		if name == "" {
			name = fmt.Sprintf("step%d", i+1)
		}
		log.Infof("running step %d/%d: %s", i+1, len(scenario.Steps), name)

		cfg := step.Config.Clone()
		exp := experiment.New(cfg)
		if err := exp.Setup(); err != nil {
			return results, fmt.Errorf("step %s setup: %w", name, err)
		}
		result, err := exp.Run(ctx)
		if err != nil {
			return results, fmt.Errorf("step %s run: %w", name, err)
		}

		sr := StepResult{Name: name, Config: cfg, Result: result}
		results = append(results, sr)
		if onDone != nil {
			if err := onDone(sr); err != nil {
				return results, fmt.Errorf("step %s: %w", name, err)
			}
		}
	}
	return results, nil
}

// MonteCarloConfig perturbs the initial value of one state uniformly in
// [-Spread, Spread] around the base config's initial state.
type MonteCarloConfig struct {
	Base      *config.Config
	State     string
	Spread    float64
	NumTrials int
	Seed      int64
}

type MonteCarloResult struct {
	TrialID int
	Init    float64
	Stable  bool
	Spikes  float64
	Err     error
}

// RunMonteCarlo runs the trials in sequence. A trial whose run fails with
// a simulation error is recorded as unstable; any other error aborts.
func RunMonteCarlo(ctx context.Context, cfg MonteCarloConfig) ([]MonteCarloResult, error) {
	if cfg.NumTrials < 1 {
		return nil, fmt.Errorf("%w: %d trials", dynamo.ErrInvalidConfig, cfg.NumTrials)
	}

	base, err := initialValue(cfg.Base, cfg.State)
	if err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	results := make([]MonteCarloResult, 0, cfg.NumTrials)
	for trial := 0; trial < cfg.NumTrials; trial++ {
		init := base + (rng.Float64()-0.5)*2*cfg.Spread

		run := cfg.Base.Clone()
		if run.InitState == nil {
			run.InitState = make(map[string]float64, 1)
		}
		run.InitState[cfg.State] = init

		exp := experiment.New(run)
		if err := exp.Setup(); err != nil {
			return results, err
		}
		result, err := exp.Run(ctx)

		r := MonteCarloResult{TrialID: trial, Init: init, Stable: err == nil}
		var simErr *dynamo.SimulationError
		switch {
		case err == nil:
			r.Spikes = result.Metrics["spike_count"]
		case errors.As(err, &simErr):
			r.Err = err
		default:
			return results, err
		}
		results = append(results, r)
	}
	return results, nil
}

func initialValue(cfg *config.Config, state string) (float64, error) {
	if v, ok := cfg.InitState[state]; ok {
		return v, nil
	}
	exp := experiment.New(cfg)
	if err := exp.Setup(); err != nil {
		return 0, err
	}
	v, ok := exp.Model().State(state)
	if !ok {
		return 0, fmt.Errorf("state %q: %w", state, dynamo.ErrUnknownName)
	}
	return v[0], nil
}

// MonteCarloStats counts stable and unstable trials.
func MonteCarloStats(results []MonteCarloResult) (stableCount int, unstableCount int) {
	for _, r := range results {
		if r.Stable {
			stableCount++
		} else {
			unstableCount++
		}
	}
	return
}
