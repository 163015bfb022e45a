package config

import (
	"fmt"
	"math"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/neurosim/internal/dynamo"
)

const (
	DefaultVariant    = "hodgkin_huxley"
	DefaultIntegrator = "euler"
	DefaultDt         = 1e-5
	DefaultDuration   = 0.05
	DefaultBatch      = 1
	DefaultAmplitude  = 10.0
)

// Config describes one simulation run. Times are in seconds.
type Config struct {
	Variant    string             `yaml:"variant"`
	Integrator string             `yaml:"integrator"`
	Dt         float64            `yaml:"dt"`
	Duration   float64            `yaml:"duration"`
	Batch      int                `yaml:"batch"`
	Seed       int64              `yaml:"seed"`
	Strict     bool               `yaml:"strict"`
	Params     map[string]float64 `yaml:"params,omitempty"`
	InitState  map[string]float64 `yaml:"init_state,omitempty"`
	Stimulus   StimulusConfig     `yaml:"stimulus"`
	LogLevel   string             `yaml:"log_level,omitempty"`
}

// StimulusConfig selects a stimulus protocol. Onset, Offset and RampEnd are
// in seconds.
type StimulusConfig struct {
	Kind      string  `yaml:"kind"`
	Amplitude float64 `yaml:"amplitude"`
	Onset     float64 `yaml:"onset,omitempty"`
	Offset    float64 `yaml:"offset,omitempty"`
	RampEnd   float64 `yaml:"ramp_end,omitempty"`
	Sigma     float64 `yaml:"sigma,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		Variant:    DefaultVariant,
		Integrator: DefaultIntegrator,
		Dt:         DefaultDt,
		Duration:   DefaultDuration,
		Batch:      DefaultBatch,
		Stimulus: StimulusConfig{
			Kind:      "constant",
			Amplitude: DefaultAmplitude,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks the run-level fields. Variant, integrator and override
// names are checked when the model is built.
func (c *Config) Validate() error {
	switch {
	case c.Variant == "":
		return &dynamo.ConfigError{Kind: "variant", Err: dynamo.ErrUnknownVariant}
	case c.Dt <= 0 || math.IsNaN(c.Dt):
		return &dynamo.ConfigError{Kind: "dt", Err: fmt.Errorf("%w: must be positive, got %g", dynamo.ErrInvalidConfig, c.Dt)}
	case c.Duration <= 0 || math.IsNaN(c.Duration):
		return &dynamo.ConfigError{Kind: "duration", Err: fmt.Errorf("%w: must be positive, got %g", dynamo.ErrInvalidConfig, c.Duration)}
	case c.Duration < c.Dt:
		return &dynamo.ConfigError{Kind: "duration", Err: fmt.Errorf("%w: %g is shorter than dt %g", dynamo.ErrInvalidConfig, c.Duration, c.Dt)}
	case c.Batch < 1:
		return &dynamo.ConfigError{Kind: "batch", Err: fmt.Errorf("%w: got %d", dynamo.ErrBatchShape, c.Batch)}
	}
	if c.LogLevel != "" {
		if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
			return &dynamo.ConfigError{Kind: "log_level", Name: c.LogLevel, Err: fmt.Errorf("%w: %v", dynamo.ErrInvalidConfig, err)}
		}
	}
	return nil
}

// Steps returns the number of ticks the run lasts.
func (c *Config) Steps() int {
	return int(math.Round(c.Duration / c.Dt))
}

// Clone returns a deep copy.
func (c *Config) Clone() *Config {
	out := *c
	out.Params = cloneMap(c.Params)
	out.InitState = cloneMap(c.InitState)
	return &out
}

func cloneMap(m map[string]float64) map[string]float64 {
	if m == nil {
		return nil
	}
	out := make(map[string]float64, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
