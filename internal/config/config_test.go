package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/neurosim/internal/dynamo"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "hodgkin_huxley", cfg.Variant)
	assert.Equal(t, 1e-5, cfg.Dt)
	assert.Equal(t, 5000, cfg.Steps())
	assert.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   error
	}{
		{"zero dt", func(c *Config) { c.Dt = 0 }, dynamo.ErrInvalidConfig},
		{"negative duration", func(c *Config) { c.Duration = -1 }, dynamo.ErrInvalidConfig},
		{"duration below dt", func(c *Config) { c.Duration = c.Dt / 2 }, dynamo.ErrInvalidConfig},
		{"zero batch", func(c *Config) { c.Batch = 0 }, dynamo.ErrBatchShape},
		{"empty variant", func(c *Config) { c.Variant = "" }, dynamo.ErrUnknownVariant},
		{"bad log level", func(c *Config) { c.LogLevel = "loud" }, dynamo.ErrInvalidConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)

			var cfgErr *dynamo.ConfigError
			assert.True(t, errors.As(err, &cfgErr))
		})
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")

	cfg := DefaultConfig()
	cfg.Variant = "leaky_iaf"
	cfg.Params = map[string]float64{"r": 0.3}
	cfg.InitState = map[string]float64{"v": -0.06}
	cfg.Stimulus = StimulusConfig{Kind: "pulse", Amplitude: 0.4, Onset: 0.1, Offset: 0.2}
	cfg.LogLevel = "debug"

	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestLoadKeepsDefaultsForMissingFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	require.NoError(t, os.WriteFile(path, []byte("variant: iaf\nduration: 1\n"), 0644))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "iaf", loaded.Variant)
	assert.Equal(t, 1.0, loaded.Duration)
	assert.Equal(t, DefaultDt, loaded.Dt)
	assert.Equal(t, DefaultIntegrator, loaded.Integrator)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("hodgkin_huxley", "pulse")
	require.NotNil(t, cfg)
	assert.Equal(t, "pulse", cfg.Stimulus.Kind)
	assert.NoError(t, cfg.Validate())

	cfg.Stimulus.Amplitude = 99
	assert.Equal(t, 15.0, Presets["hodgkin_huxley"]["pulse"].Stimulus.Amplitude, "preset must be copied")
}

func TestGetPreset_NotFound(t *testing.T) {
	assert.Nil(t, GetPreset("hodgkin_huxley", "nonexistent"))
	assert.Nil(t, GetPreset("nonexistent", "rest"))
}

func TestListPresets(t *testing.T) {
	assert.Equal(t, []string{"noisy", "pulse", "rest", "spiking"}, ListPresets("hodgkin_huxley"))
	assert.Nil(t, ListPresets("nonexistent"))
}

func TestPresetsValidate(t *testing.T) {
	for _, variant := range PresetVariants() {
		for _, name := range ListPresets(variant) {
			cfg := GetPreset(variant, name)
			assert.Equal(t, variant, cfg.Variant, "%s/%s", variant, name)
			assert.NoError(t, cfg.Validate(), "%s/%s", variant, name)
		}
	}
}
