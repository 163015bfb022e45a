package automation

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/neurosim/internal/config"
	"github.com/san-kum/neurosim/internal/dynamo"
)

func TestMain(m *testing.M) {
	if os.Getenv("DEBUG_TESTS") == "" {
		logrus.SetLevel(logrus.PanicLevel)
	}
	os.Exit(m.Run())
}

const scenarioYAML = `
name: demo
description: preset plus override
steps:
  - name: tonic
    variant: iaf
    preset: tonic
    duration: 0.1
  - variant: leaky_iaf
    dt: 0.001
    duration: 0.05
    stimulus:
      kind: constant
      amplitude: 0.3
`

func writeScenario(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadScenario(t *testing.T) {
	s, err := LoadScenario(writeScenario(t, scenarioYAML))
	require.NoError(t, err)
	require.Len(t, s.Steps, 2)

	tonic := config.GetPreset("iaf", "tonic")
	first := s.Steps[0].Config
	assert.Equal(t, "iaf", first.Variant)
	assert.Equal(t, tonic.Dt, first.Dt)
	assert.Equal(t, tonic.Stimulus, first.Stimulus)
	assert.Equal(t, 0.1, first.Duration)

	second := s.Steps[1].Config
	assert.Equal(t, "leaky_iaf", second.Variant)
	assert.Equal(t, config.DefaultIntegrator, second.Integrator)
	assert.Equal(t, 0.3, second.Stimulus.Amplitude)
	assert.Equal(t, config.DefaultBatch, second.Batch)
}

func TestLoadScenarioErrors(t *testing.T) {
	_, err := LoadScenario(writeScenario(t, "name: empty\nsteps: []\n"))
	assert.ErrorContains(t, err, "no steps")

	_, err = LoadScenario(writeScenario(t, "steps:\n  - variant: iaf\n    preset: nope\n"))
	assert.ErrorContains(t, err, "unknown preset")

	_, err = LoadScenario(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestRunScenario(t *testing.T) {
	s, err := LoadScenario(writeScenario(t, scenarioYAML))
	require.NoError(t, err)

	var seen []string
	results, err := RunScenario(context.Background(), s, func(r StepResult) error {
		seen = append(seen, r.Name)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"tonic", "step2"}, seen)
	require.Len(t, results, 2)
	assert.Equal(t, 1000, results[0].Result.Steps)
	assert.Equal(t, 50, results[1].Result.Steps)
}

func TestRunScenarioStopsOnCallbackError(t *testing.T) {
	s, err := LoadScenario(writeScenario(t, scenarioYAML))
	require.NoError(t, err)

	stop := errors.New("stop")
	results, err := RunScenario(context.Background(), s, func(StepResult) error { return stop })
	assert.ErrorIs(t, err, stop)
	assert.Len(t, results, 1)
}

func TestRunScenarioSetupError(t *testing.T) {
	s := &Scenario{Steps: []ScenarioStep{{Name: "bad", Config: config.Config{Variant: "nope"}}}}
	_, err := RunScenario(context.Background(), s, nil)
	assert.ErrorContains(t, err, "step bad setup")
}

func iafBase() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Variant = "iaf"
	cfg.Dt = 1e-3
	cfg.Duration = 0.05
	cfg.Stimulus = config.StimulusConfig{Kind: "constant", Amplitude: 0.5}
	return cfg
}

func TestRunMonteCarlo(t *testing.T) {
	results, err := RunMonteCarlo(context.Background(), MonteCarloConfig{
		Base: iafBase(), State: "v", Spread: 0.01, NumTrials: 5, Seed: 1,
	})
	require.NoError(t, err)
	require.Len(t, results, 5)
	for i, r := range results {
		assert.Equal(t, i, r.TrialID)
		assert.InDelta(t, 0, r.Init, 0.01)
	}

	stable, unstable := MonteCarloStats(results)
	assert.Equal(t, 5, stable)
	assert.Equal(t, 0, unstable)

	again, err := RunMonteCarlo(context.Background(), MonteCarloConfig{
		Base: iafBase(), State: "v", Spread: 0.01, NumTrials: 5, Seed: 1,
	})
	require.NoError(t, err)
	assert.Equal(t, results[3].Init, again[3].Init)
}

func TestRunMonteCarloErrors(t *testing.T) {
	_, err := RunMonteCarlo(context.Background(), MonteCarloConfig{Base: iafBase(), State: "v"})
	assert.ErrorIs(t, err, dynamo.ErrInvalidConfig)

	_, err = RunMonteCarlo(context.Background(), MonteCarloConfig{Base: iafBase(), State: "w", NumTrials: 1})
	assert.ErrorIs(t, err, dynamo.ErrUnknownName)
}

func TestMonteCarloStats(t *testing.T) {
	stable, unstable := MonteCarloStats([]MonteCarloResult{{Stable: true}, {Stable: false}, {Stable: true}})
	assert.Equal(t, 2, stable)
	assert.Equal(t, 1, unstable)
}
